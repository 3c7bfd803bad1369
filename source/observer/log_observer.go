package observer

import (
	"github.com/rs/zerolog"

	"elevsim/source/elevator"
)

// LogObserver writes every elevator event to a zerolog logger.
type LogObserver struct {
	log *zerolog.Logger
}

func NewLogObserver(log *zerolog.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) event(level zerolog.Level, s elevator.Snapshot) *zerolog.Event {
	return o.log.WithLevel(level).
		Int("elevator", s.ID).
		Str("type", s.Type.String()).
		Int("floor", s.Floor)
}

func (o *LogObserver) OnStateChanged(s elevator.Snapshot) {
	o.event(zerolog.DebugLevel, s).
		Str("state", s.State.String()).
		Str("direction", s.Direction.String()).
		Msg("State changed")
}

func (o *LogObserver) OnMoved(s elevator.Snapshot, previousFloor int) {
	o.event(zerolog.InfoLevel, s).
		Int("from", previousFloor).
		Msg("Elevator moved")
}

func (o *LogObserver) OnPassengersChanged(s elevator.Snapshot, previousCount int) {
	o.event(zerolog.InfoLevel, s).
		Int("passengers", s.Passengers).
		Int("previous", previousCount).
		Int("capacity", s.MaxCapacity).
		Msg("Passengers changed")
}

func (o *LogObserver) OnDestinationAdded(s elevator.Snapshot, floor int) {
	o.event(zerolog.DebugLevel, s).
		Int("destination", floor).
		Ints("destinations", s.Destinations).
		Msg("Destination added")
}

func (o *LogObserver) OnDestinationReached(s elevator.Snapshot, floor int) {
	o.event(zerolog.InfoLevel, s).
		Int("destination", floor).
		Msg("Destination reached")
}
