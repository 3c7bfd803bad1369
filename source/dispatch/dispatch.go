// Package dispatch decides which elevators serve a request and runs their
// pickup-and-delivery pipelines.
package dispatch

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"elevsim/source/elevator"
	"elevsim/source/logger"
)

var Log = logger.GetLogger()

// Assignment is the share of one request given to one unit.
type Assignment struct {
	Elevator   *elevator.Elevator
	Passengers int
}

type Service struct {
	ctrl *elevator.Service
	mu   sync.Mutex // serializes planning and claiming
}

func NewService(ctrl *elevator.Service) *Service {
	return &Service{ctrl: ctrl}
}

// FindBest is the closest idle unit that can take the whole request, lowest
// id on a tie.
func (s *Service) FindBest(units []*elevator.Elevator, req elevator.Request) (*elevator.Elevator, bool) {
	var best *elevator.Elevator
	bestDist := 0
	for _, e := range units {
		if !e.Available() || !s.ctrl.CanAccept(e, req.Passengers) {
			continue
		}
		d := s.ctrl.Distance(e, req.From)
		if best == nil || d < bestDist || (d == bestDist && e.ID() < best.ID()) {
			best, bestDist = e, d
		}
	}
	return best, best != nil
}

// FindClosest ignores everything but out-of-service units. The first unit in
// fleet order wins a tie.
func (s *Service) FindClosest(units []*elevator.Elevator, floor int) (*elevator.Elevator, bool) {
	var closest *elevator.Elevator
	closestDist := 0
	for _, e := range units {
		if e.State() == elevator.StateOutOfService {
			continue
		}
		if d := s.ctrl.Distance(e, floor); closest == nil || d < closestDist {
			closest, closestDist = e, d
		}
	}
	return closest, closest != nil
}

type candidate struct {
	unit *elevator.Elevator
	snap elevator.Snapshot
}

// rank orders candidates for a request: same direction (or idle) first, then
// nearest to the pickup floor, then most spare room, then lowest id.
func rank(candidates []candidate, req elevator.Request) {
	dir := req.Direction()
	directionCost := func(s elevator.Snapshot) int {
		if s.Direction == elevator.Idle || s.Direction == dir {
			return 0
		}
		return 1
	}
	slices.SortFunc(candidates, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(directionCost(a.snap), directionCost(b.snap)),
			cmp.Compare(a.snap.Distance(req.From), b.snap.Distance(req.From)),
			cmp.Compare(b.snap.SpareCapacity(), a.snap.SpareCapacity()),
			cmp.Compare(a.snap.ID, b.snap.ID),
		)
	})
}

// Distribute splits the request across available units in rank order. The
// passengers not covered by the result are the caller's to requeue.
func (s *Service) Distribute(units []*elevator.Elevator, req elevator.Request) []Assignment {
	var candidates []candidate
	for _, e := range units {
		if e.Available() {
			candidates = append(candidates, candidate{unit: e, snap: e.Snapshot()})
		}
	}
	rank(candidates, req)

	var plan []Assignment
	remaining := req.Passengers
	for _, c := range candidates {
		if remaining == 0 {
			break
		}
		n := min(remaining, c.snap.SpareCapacity())
		if n <= 0 {
			continue
		}
		plan = append(plan, Assignment{Elevator: c.unit, Passengers: n})
		remaining -= n
	}
	return plan
}

// claim plans the request and reserves every unit in the plan. Units that
// cannot be reserved are left out.
func (s *Service) claim(units []*elevator.Elevator, req elevator.Request) []Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan := s.Distribute(units, req)
	claimed := plan[:0]
	for _, a := range plan {
		if a.Elevator.TryReserve() {
			claimed = append(claimed, a)
		}
	}
	return claimed
}

// Process distributes req and runs one pipeline per assigned unit
// concurrently. It returns the passengers no unit was assigned. A failing
// pipeline does not stop the others; the first error is returned once all
// have finished.
func (s *Service) Process(ctx context.Context, units []*elevator.Elevator, req elevator.Request) (int, error) {
	plan := s.claim(units, req)
	if len(plan) == 0 {
		Log.Debug().Str("request", req.ID).Int("passengers", req.Passengers).Msg("No elevator available")
		return req.Passengers, nil
	}

	assigned := 0
	var g errgroup.Group
	for _, a := range plan {
		assigned += a.Passengers
		g.Go(func() error {
			defer a.Elevator.Release()
			return s.serve(ctx, a, req)
		})
	}
	err := g.Wait()

	remainder := req.Passengers - assigned
	Log.Info().
		Str("request", req.ID).
		Int("assigned", assigned).
		Int("remainder", remainder).
		Int("elevators", len(plan)).
		Msg("Request dispatched")
	return remainder, err
}

// serve is one unit's pipeline: pickup, load, set destination, deliver, unload.
func (s *Service) serve(ctx context.Context, a Assignment, req elevator.Request) error {
	e := a.Elevator
	Log.Debug().Int("elevator", e.ID()).Str("request", req.ID).Int("passengers", a.Passengers).Msg("Pipeline started")

	if e.Floor() != req.From {
		if err := s.ctrl.MoveTo(ctx, e, req.From); err != nil {
			return fmt.Errorf("elevator %d pickup for %s: %w", e.ID(), req.ID, err)
		}
	}
	if err := s.ctrl.Load(ctx, e, a.Passengers); err != nil {
		return fmt.Errorf("elevator %d load for %s: %w", e.ID(), req.ID, err)
	}
	if err := s.ctrl.AddDestination(e, req.To); err != nil {
		return fmt.Errorf("elevator %d destination for %s: %w", e.ID(), req.ID, err)
	}
	if err := s.ctrl.MoveTo(ctx, e, req.To); err != nil {
		return fmt.Errorf("elevator %d delivery for %s: %w", e.ID(), req.ID, err)
	}
	if err := s.ctrl.Unload(ctx, e, a.Passengers); err != nil {
		return fmt.Errorf("elevator %d unload for %s: %w", e.ID(), req.ID, err)
	}

	Log.Debug().Int("elevator", e.ID()).Str("request", req.ID).Msg("Pipeline finished")
	return nil
}
