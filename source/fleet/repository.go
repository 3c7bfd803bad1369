// Package fleet owns the set of elevators in the building.
package fleet

import (
	"slices"

	"elevsim/source/elevator"
)

// Repository is the fixed, ordered set of units. The slice never changes after
// construction; the units themselves guard their own state.
type Repository struct {
	units []*elevator.Elevator
}

func NewRepository(units ...*elevator.Elevator) *Repository {
	return &Repository{units: slices.Clone(units)}
}

// NewDefault is the building layout: two Standard units, one High-Speed and
// one Freight, all idle on the ground floor.
func NewDefault() *Repository {
	return NewRepository(
		elevator.New(1, elevator.Standard),
		elevator.New(2, elevator.Standard),
		elevator.New(3, elevator.HighSpeed),
		elevator.New(4, elevator.Freight),
	)
}

// All returns the units in fleet order. The returned slice is a copy.
func (r *Repository) All() []*elevator.Elevator {
	return slices.Clone(r.units)
}

func (r *Repository) ByID(id int) (*elevator.Elevator, bool) {
	for _, e := range r.units {
		if e.ID() == id {
			return e, true
		}
	}
	return nil, false
}

// Available lists the units that are idle, unclaimed and not full.
func (r *Repository) Available() []*elevator.Elevator {
	var out []*elevator.Elevator
	for _, e := range r.units {
		if e.Available() {
			out = append(out, e)
		}
	}
	return out
}

func (r *Repository) HasAvailable() bool {
	return len(r.Available()) > 0
}

// InService reports, per unit in fleet order, whether it is not out of service.
func (r *Repository) InService() []bool {
	out := make([]bool, len(r.units))
	for i, e := range r.units {
		out[i] = e.State() != elevator.StateOutOfService
	}
	return out
}

func (r *Repository) Snapshots() []elevator.Snapshot {
	out := make([]elevator.Snapshot, 0, len(r.units))
	for _, e := range r.units {
		out = append(out, e.Snapshot())
	}
	return out
}

func (r *Repository) TotalCapacity() int {
	total := 0
	for _, e := range r.units {
		total += e.MaxCapacity()
	}
	return total
}
