package queue

import (
	"fmt"

	"elevsim/source/elevator"
)

// Service is the logging front of a RequestQueue.
type Service struct {
	queue *RequestQueue
}

func NewService(q *RequestQueue) *Service {
	if q == nil {
		q = NewRequestQueue()
	}
	return &Service{queue: q}
}

func (s *Service) Enqueue(r *elevator.Request) error {
	if err := s.queue.Enqueue(r); err != nil {
		Log.Error().Err(err).Msg("Refused to queue request")
		return fmt.Errorf("enqueue: %w", err)
	}
	Log.Info().
		Str("request", r.ID).
		Int("passengers", r.Passengers).
		Int("from", r.From).
		Int("to", r.To).
		Int("pending", s.queue.PendingCount()).
		Msg("Request queued")
	return nil
}

func (s *Service) Dequeue() (elevator.Request, bool) {
	r, ok := s.queue.Dequeue()
	if ok {
		Log.Debug().
			Str("request", r.ID).
			Int("passengers", r.Passengers).
			Int("pending", s.queue.PendingCount()).
			Msg("Request dequeued")
	}
	return r, ok
}

func (s *Service) PeekNext() (elevator.Request, bool) {
	return s.queue.PeekNext()
}

func (s *Service) PendingCount() int {
	return s.queue.PendingCount()
}

func (s *Service) Empty() bool {
	return s.queue.Empty()
}

func (s *Service) Pending() []elevator.Request {
	return s.queue.Pending()
}
