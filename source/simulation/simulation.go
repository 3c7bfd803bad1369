// Package simulation coordinates the fleet, the dispatcher and the overflow
// queue behind the operations a front end needs.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"elevsim/source/config"
	"elevsim/source/dispatch"
	"elevsim/source/elevator"
	"elevsim/source/fleet"
	"elevsim/source/logger"
	"elevsim/source/observer"
	"elevsim/source/queue"
)

var Log = logger.GetLogger()

// Queue is the overflow store the coordinator parks remainders in.
type Queue interface {
	Enqueue(r *elevator.Request) error
	Dequeue() (elevator.Request, bool)
	PeekNext() (elevator.Request, bool)
	PendingCount() int
	Pending() []elevator.Request
}

// QueueView is the read-only face of the queue handed to callers.
type QueueView interface {
	PendingCount() int
	PeekNext() (elevator.Request, bool)
}

type Service struct {
	fleet      *fleet.Repository
	ctrl       *elevator.Service
	dispatcher *dispatch.Service
	queue      Queue
	observers  *observer.Registry

	drainMu sync.Mutex
}

type Option func(*Service)

func WithFleet(r *fleet.Repository) Option {
	return func(s *Service) { s.fleet = r }
}

func WithQueue(q Queue) Option {
	return func(s *Service) { s.queue = q }
}

// New builds the default four-unit building with the configured timing and
// subscribes a log observer to every unit.
func New(cfg config.Config, opts ...Option) *Service {
	s := &Service{
		fleet:     fleet.NewDefault(),
		queue:     queue.NewService(nil),
		observers: observer.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctrl = elevator.NewService(cfg.Timing, s.observers)
	s.dispatcher = dispatch.NewService(s.ctrl)

	logObserver := observer.NewLogObserver(Log)
	for _, e := range s.fleet.All() {
		s.observers.Subscribe(e.ID(), logObserver)
	}
	return s
}

func (s *Service) GetElevators() []elevator.Snapshot {
	return s.fleet.Snapshots()
}

func (s *Service) Observers() *observer.Registry {
	return s.observers
}

func (s *Service) Controller() *elevator.Service {
	return s.ctrl
}

func (s *Service) Fleet() *fleet.Repository {
	return s.fleet
}

func (s *Service) GetRequestQueue() QueueView {
	return s.queue
}

func (s *Service) HasAvailableElevator() bool {
	return s.fleet.HasAvailable()
}

func (s *Service) GetClosestElevator(floor int) (elevator.Snapshot, bool) {
	e, ok := s.dispatcher.FindClosest(s.fleet.All(), floor)
	if !ok {
		return elevator.Snapshot{}, false
	}
	return e.Snapshot(), true
}

// ProcessRequest validates the trip and submits it. The result is the number
// of passengers that were queued instead of served.
func (s *Service) ProcessRequest(ctx context.Context, from, to, passengers int) (int, error) {
	req, err := elevator.NewRequest(from, to, passengers)
	if err != nil {
		return 0, err
	}
	return s.Submit(ctx, req)
}

// Submit dispatches req. With no unit available it is queued whole. Otherwise
// any remainder is queued and a drain of the queue is attempted.
func (s *Service) Submit(ctx context.Context, req elevator.Request) (int, error) {
	if err := elevator.ValidateTrip(req.From, req.To, req.Passengers); err != nil {
		return 0, err
	}

	if !s.HasAvailableElevator() {
		Log.Warn().Str("request", req.ID).Int("passengers", req.Passengers).Msg("All elevators busy, queueing request")
		if err := s.queue.Enqueue(&req); err != nil {
			return 0, err
		}
		return req.Passengers, nil
	}

	remainder, err := s.dispatcher.Process(ctx, s.fleet.All(), req)
	if remainder > 0 {
		rest := req.Remainder(remainder)
		if qerr := s.queue.Enqueue(&rest); qerr != nil && err == nil {
			err = qerr
		}
	}
	if err != nil {
		return remainder, fmt.Errorf("request %s: %w", req.ID, err)
	}

	if derr := s.DrainQueue(ctx); derr != nil {
		Log.Warn().Err(derr).Msg("Queue drain interrupted")
	}
	return remainder, nil
}

// DrainQueue serves queued requests oldest first while a unit is available.
// A request that is only partly served goes back in the queue and draining
// stops there.
func (s *Service) DrainQueue(ctx context.Context) error {
	s.drainMu.Lock()
	defer s.drainMu.Unlock()

	processed := 0
	for s.queue.PendingCount() > 0 && s.HasAvailableElevator() {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, ok := s.queue.Dequeue()
		if !ok {
			break
		}
		processed++

		remainder, err := s.dispatcher.Process(ctx, s.fleet.All(), next)
		if remainder > 0 {
			rest := next.Remainder(remainder)
			if qerr := s.queue.Enqueue(&rest); qerr != nil {
				return qerr
			}
			Log.Info().Str("request", next.ID).Int("passengers", remainder).Msg("Passengers re-queued, capacity exhausted")
		}
		if err != nil {
			return fmt.Errorf("queued request %s: %w", next.ID, err)
		}
		if remainder > 0 {
			break
		}
	}

	if processed > 0 {
		Log.Info().Int("processed", processed).Int("pending", s.queue.PendingCount()).Msg("Queue drained")
	}
	return nil
}

// ProcessMultipleConcurrently submits every request at once. Results are in
// input order; the first error is returned after all have finished.
func (s *Service) ProcessMultipleConcurrently(ctx context.Context, requests []elevator.Request) ([]int, error) {
	results := make([]int, len(requests))
	var g errgroup.Group
	for i, req := range requests {
		g.Go(func() error {
			remainder, err := s.Submit(ctx, req)
			results[i] = remainder
			return err
		})
	}
	err := g.Wait()
	return results, err
}

// UpdateElevators sends every unit with pending destinations to its nearest
// one and lets everyone off when it has no more. Units busy in a dispatch
// pipeline or out of service are skipped.
func (s *Service) UpdateElevators(ctx context.Context) error {
	inService := s.fleet.InService()
	var g errgroup.Group
	for i, e := range s.fleet.All() {
		if !inService[i] {
			continue
		}
		next, ok := s.ctrl.NextDestination(e)
		if !ok || !e.TryReserve() {
			continue
		}
		g.Go(func() error {
			defer e.Release()
			err := s.ctrl.MoveTo(ctx, e, next)
			if errors.Is(err, elevator.ErrOutOfService) {
				Log.Warn().Int("elevator", e.ID()).Msg("Skipped update, elevator went out of service")
				return nil
			}
			if err != nil {
				return err
			}
			if n := e.Passengers(); n > 0 && len(e.Destinations()) == 0 {
				return s.ctrl.Unload(ctx, e, n)
			}
			return nil
		})
	}
	return g.Wait()
}
