// Package elevator holds the elevator unit, its state machine and the
// requests it serves.
package elevator

import (
	"slices"
	"sync"

	"github.com/tiendc/go-deepcopy"

	"elevsim/source/logger"
)

var Log = logger.GetLogger()

// Snapshot is a point-in-time copy of a unit. Destinations is always sorted
// ascending and never contains Floor.
type Snapshot struct {
	ID           int       `json:"id"`
	Type         Type      `json:"type"`
	Floor        int       `json:"floor"`
	Direction    Direction `json:"direction"`
	State        State     `json:"state"`
	Passengers   int       `json:"passengers"`
	MaxCapacity  int       `json:"max_capacity"`
	Destinations []int     `json:"destinations"`
}

func (s Snapshot) SpareCapacity() int {
	return s.MaxCapacity - s.Passengers
}

func (s Snapshot) Distance(floor int) int {
	return abs(s.Floor - floor)
}

// Elevator is one car of the fleet. It is created once and mutated in place
// through Service; every field is guarded by mu.
type Elevator struct {
	mu       sync.RWMutex
	status   Snapshot
	reserved bool
}

type Option func(*Snapshot)

func AtFloor(floor int) Option {
	return func(s *Snapshot) { s.Floor = floor }
}

func WithState(state State) Option {
	return func(s *Snapshot) { s.State = state }
}

func WithDirection(dir Direction) Option {
	return func(s *Snapshot) { s.Direction = dir }
}

// WithPassengers is clamped to [0, MaxCapacity].
func WithPassengers(n int) Option {
	return func(s *Snapshot) { s.Passengers = max(0, min(n, s.MaxCapacity)) }
}

func WithDestinations(floors ...int) Option {
	return func(s *Snapshot) { s.Destinations = append(s.Destinations, floors...) }
}

// New builds an idle unit on the ground floor unless options say otherwise.
func New(id int, kind Type, opts ...Option) *Elevator {
	status := Snapshot{
		ID:          id,
		Type:        kind,
		Floor:       minFloor,
		Direction:   Idle,
		State:       StateIdle,
		MaxCapacity: kind.MaxCapacity(),
	}
	for _, opt := range opts {
		opt(&status)
	}

	floors := status.Destinations[:0:0]
	for _, f := range status.Destinations {
		if f != status.Floor && f >= minFloor && f <= maxFloor {
			floors = append(floors, f)
		}
	}
	slices.Sort(floors)
	status.Destinations = slices.Compact(floors)

	return &Elevator{status: status}
}

func (e *Elevator) ID() int {
	return e.status.ID // immutable after New
}

func (e *Elevator) Type() Type {
	return e.status.Type
}

func (e *Elevator) MaxCapacity() int {
	return e.status.MaxCapacity
}

func (e *Elevator) Floor() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status.Floor
}

func (e *Elevator) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status.State
}

func (e *Elevator) Direction() Direction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status.Direction
}

func (e *Elevator) Passengers() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status.Passengers
}

func (e *Elevator) SpareCapacity() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status.SpareCapacity()
}

func (e *Elevator) Destinations() []int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.status.Destinations)
}

func (e *Elevator) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

func (e *Elevator) snapshotLocked() Snapshot {
	var out Snapshot
	if err := deepcopy.Copy(&out, &e.status); err != nil {
		Log.Error().Err(err).Int("elevator", e.status.ID).Msg("Failed to deep copy elevator state")
		out = e.status
		out.Destinations = slices.Clone(e.status.Destinations)
	}
	return out
}

// Available reports whether the unit can take new passengers right now: idle,
// not full and not claimed by a running pipeline.
func (e *Elevator) Available() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status.State == StateIdle && e.status.Passengers < e.status.MaxCapacity && !e.reserved
}

func (e *Elevator) Reserved() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reserved
}

// TryReserve claims the unit for one pipeline. It fails if the unit is
// already claimed.
func (e *Elevator) TryReserve() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.reserved {
		return false
	}
	e.reserved = true
	return true
}

func (e *Elevator) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reserved = false
}

// update applies fn under the write lock and returns the resulting snapshot.
func (e *Elevator) update(fn func(s *Snapshot)) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.status)
	return e.snapshotLocked()
}

// stop settles a moving unit to idle. A unit taken out of service meanwhile
// keeps that state.
func (e *Elevator) stop() (Snapshot, bool) {
	stopped := false
	snap := e.update(func(st *Snapshot) {
		if st.State == StateMoving {
			st.State = StateIdle
			st.Direction = Idle
			stopped = true
		}
	})
	return snap, stopped
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
