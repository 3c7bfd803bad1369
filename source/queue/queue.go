// Package queue holds the requests that could not be served when they
// arrived, oldest first.
package queue

import (
	"errors"
	"slices"
	"sync"

	"elevsim/source/elevator"
	"elevsim/source/logger"
)

var Log = logger.GetLogger()

var ErrNilRequest = errors.New("nil request")

// RequestQueue is a FIFO safe for concurrent producers and consumers.
type RequestQueue struct {
	mu       sync.RWMutex
	requests []elevator.Request
}

func NewRequestQueue() *RequestQueue {
	return &RequestQueue{}
}

func (q *RequestQueue) Enqueue(r *elevator.Request) error {
	if r == nil {
		return ErrNilRequest
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.requests = append(q.requests, *r)
	return nil
}

// Dequeue removes and returns the oldest request. ok is false when empty.
func (q *RequestQueue) Dequeue() (elevator.Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.requests) == 0 {
		return elevator.Request{}, false
	}
	head := q.requests[0]
	q.requests[0] = elevator.Request{}
	q.requests = q.requests[1:]
	return head, true
}

func (q *RequestQueue) PeekNext() (elevator.Request, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if len(q.requests) == 0 {
		return elevator.Request{}, false
	}
	return q.requests[0], true
}

func (q *RequestQueue) PendingCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.requests)
}

func (q *RequestQueue) Empty() bool {
	return q.PendingCount() == 0
}

// Pending lists the queued requests oldest first.
func (q *RequestQueue) Pending() []elevator.Request {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return slices.Clone(q.requests)
}
