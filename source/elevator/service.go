package elevator

import (
	"context"
	"fmt"
	"slices"
	"time"

	"elevsim/source/config"
)

// Notifier receives every observable change a Service makes to a unit.
type Notifier interface {
	NotifyStateChanged(s Snapshot)
	NotifyMoved(s Snapshot, previousFloor int)
	NotifyPassengersChanged(s Snapshot, previousCount int)
	NotifyDestinationAdded(s Snapshot, floor int)
	NotifyDestinationReached(s Snapshot, floor int)
}

type nopNotifier struct{}

func (nopNotifier) NotifyStateChanged(Snapshot)            {}
func (nopNotifier) NotifyMoved(Snapshot, int)              {}
func (nopNotifier) NotifyPassengersChanged(Snapshot, int)  {}
func (nopNotifier) NotifyDestinationAdded(Snapshot, int)   {}
func (nopNotifier) NotifyDestinationReached(Snapshot, int) {}

// Service operates on one unit at a time: capacity checks, boarding,
// destinations and movement.
type Service struct {
	timing   config.Timing
	notifier Notifier
}

func NewService(timing config.Timing, notifier Notifier) *Service {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Service{timing: timing, notifier: notifier}
}

func (s *Service) CanAccept(e *Elevator, n int) bool {
	return e.Passengers()+n <= e.MaxCapacity()
}

func (s *Service) Distance(e *Elevator, floor int) int {
	return abs(e.Floor() - floor)
}

// Load boards n passengers: doors open, a dwell proportional to n, the count
// goes up, doors close. Both state changes are notified.
func (s *Service) Load(ctx context.Context, e *Elevator, n int) error {
	if n < 0 {
		return fmt.Errorf("cannot load %d passengers: %w", n, ErrInvalidRequest)
	}
	if !s.CanAccept(e, n) {
		Log.Warn().Int("elevator", e.ID()).Int("passengers", n).Msg("Load rejected, elevator would exceed capacity")
		return fmt.Errorf("elevator %d cannot load %d passengers (%d/%d aboard): %w",
			e.ID(), n, e.Passengers(), e.MaxCapacity(), ErrCapacityExceeded)
	}
	return s.board(ctx, e, n)
}

func (s *Service) Unload(ctx context.Context, e *Elevator, n int) error {
	if n < 0 {
		return fmt.Errorf("cannot unload %d passengers: %w", n, ErrInvalidRequest)
	}
	if n > e.Passengers() {
		Log.Warn().Int("elevator", e.ID()).Int("passengers", n).Msg("Unload rejected, not that many aboard")
		return fmt.Errorf("elevator %d cannot unload %d passengers (%d aboard): %w",
			e.ID(), n, e.Passengers(), ErrCapacityExceeded)
	}
	return s.board(ctx, e, -n)
}

// board moves delta passengers through open doors. A cancelled dwell closes
// the doors without changing the count. An out-of-service unit keeps its
// doors shut, and one taken out of service during the dwell stays out.
func (s *Service) board(ctx context.Context, e *Elevator, delta int) error {
	opened := false
	snap := e.update(func(st *Snapshot) {
		if st.State != StateOutOfService {
			st.State = StateDoorsOpen
			opened = true
		}
	})
	if !opened {
		return fmt.Errorf("elevator %d cannot open its doors: %w", snap.ID, ErrOutOfService)
	}
	s.notifier.NotifyStateChanged(snap)

	err := wait(ctx, time.Duration(abs(delta))*s.timing.PerPassenger)
	if err == nil {
		var previous int
		snap = e.update(func(st *Snapshot) {
			previous = st.Passengers
			next := st.Passengers + delta
			if next < 0 || next > st.MaxCapacity {
				err = fmt.Errorf("elevator %d would hold %d passengers: %w", st.ID, next, ErrCapacityExceeded)
				return
			}
			st.Passengers = next
		})
		if err == nil {
			s.notifier.NotifyPassengersChanged(snap, previous)
		}
	}

	closed := false
	snap = e.update(func(st *Snapshot) {
		if st.State == StateDoorsOpen {
			st.State = StateIdle
			closed = true
		}
	})
	if closed {
		s.notifier.NotifyStateChanged(snap)
	}
	return err
}

// AddDestination inserts floor into the sorted destination set. The current
// floor and floors already present are ignored without notification.
func (s *Service) AddDestination(e *Elevator, floor int) error {
	if err := ValidateFloor(floor); err != nil {
		return fmt.Errorf("elevator %d destination: %w", e.ID(), err)
	}

	added := false
	snap := e.update(func(st *Snapshot) {
		if floor == st.Floor {
			return
		}
		i, found := slices.BinarySearch(st.Destinations, floor)
		if found {
			return
		}
		st.Destinations = slices.Insert(st.Destinations, i, floor)
		added = true
	})
	if added {
		s.notifier.NotifyDestinationAdded(snap, floor)
	}
	return nil
}

// MoveTo travels to floor, clearing it from the destinations on arrival. When
// no destinations remain the unit goes idle. A cancelled trip leaves the unit
// idle on its starting floor. Out of service units do not move, and one taken
// out of service on the way arrives still out of service.
func (s *Service) MoveTo(ctx context.Context, e *Elevator, floor int) error {
	if err := ValidateFloor(floor); err != nil {
		return fmt.Errorf("elevator %d move: %w", e.ID(), err)
	}
	start := e.Floor()
	if floor == start {
		return nil
	}

	started := false
	snap := e.update(func(st *Snapshot) {
		if st.State != StateOutOfService {
			st.State = StateMoving
			st.Direction = directionTo(st.Floor, floor)
			started = true
		}
	})
	if !started {
		return fmt.Errorf("elevator %d cannot move: %w", snap.ID, ErrOutOfService)
	}
	s.notifier.NotifyStateChanged(snap)

	travel := time.Duration(abs(floor-start)) * e.Type().PerFloor(s.timing)
	if err := wait(ctx, travel); err != nil {
		if snap, stopped := e.stop(); stopped {
			s.notifier.NotifyStateChanged(snap)
		}
		return err
	}

	reached := false
	snap = e.update(func(st *Snapshot) {
		st.Floor = floor
		if i, found := slices.BinarySearch(st.Destinations, floor); found {
			st.Destinations = slices.Delete(st.Destinations, i, i+1)
			reached = true
		}
	})
	s.notifier.NotifyMoved(snap, start)
	if reached {
		s.notifier.NotifyDestinationReached(snap, floor)
	}

	if len(snap.Destinations) == 0 {
		if snap, stopped := e.stop(); stopped {
			s.notifier.NotifyStateChanged(snap)
		}
	}
	return nil
}

// NextDestination is the closest destination, the lower floor on a tie.
func (s *Service) NextDestination(e *Elevator) (int, bool) {
	snap := e.Snapshot()
	next, found := 0, false
	for _, floor := range snap.Destinations {
		if !found || snap.Distance(floor) < snap.Distance(next) {
			next, found = floor, true
		}
	}
	return next, found
}

func (s *Service) TakeOutOfService(e *Elevator) {
	snap := e.update(func(st *Snapshot) {
		st.State = StateOutOfService
		st.Direction = Idle
	})
	Log.Warn().Int("elevator", snap.ID).Int("floor", snap.Floor).Msg("Elevator taken out of service")
	s.notifier.NotifyStateChanged(snap)
}

func (s *Service) ReturnToService(e *Elevator) {
	changed := false
	snap := e.update(func(st *Snapshot) {
		if st.State == StateOutOfService {
			st.State = StateIdle
			changed = true
		}
	})
	if changed {
		Log.Info().Int("elevator", snap.ID).Msg("Elevator returned to service")
		s.notifier.NotifyStateChanged(snap)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
