// Package observer fans elevator events out to subscribers registered per
// elevator id.
package observer

import (
	"slices"
	"sync"

	"elevsim/source/elevator"
)

// Notifiable is anything that wants to hear about one or more elevators.
type Notifiable interface {
	OnStateChanged(s elevator.Snapshot)
	OnMoved(s elevator.Snapshot, previousFloor int)
	OnPassengersChanged(s elevator.Snapshot, previousCount int)
	OnDestinationAdded(s elevator.Snapshot, floor int)
	OnDestinationReached(s elevator.Snapshot, floor int)
}

// Registry maps elevator ids to their subscribers, in subscription order.
// It satisfies elevator.Notifier.
type Registry struct {
	mu          sync.RWMutex
	subscribers map[int][]Notifiable
}

func NewRegistry() *Registry {
	return &Registry{subscribers: make(map[int][]Notifiable)}
}

// Subscribe is a no-op if n is already subscribed to elevatorID.
func (r *Registry) Subscribe(elevatorID int, n Notifiable) {
	if n == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.subscribers[elevatorID], n) {
		return
	}
	r.subscribers[elevatorID] = append(r.subscribers[elevatorID], n)
}

func (r *Registry) Unsubscribe(elevatorID int, n Notifiable) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.subscribers[elevatorID]
	i := slices.Index(subs, n)
	if i < 0 {
		return
	}
	subs = slices.Delete(subs, i, i+1)
	if len(subs) == 0 {
		delete(r.subscribers, elevatorID)
		return
	}
	r.subscribers[elevatorID] = subs
}

func (r *Registry) SubscriberCount(elevatorID int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscribers[elevatorID])
}

// current copies the subscriber list so callbacks run without the lock held
// and may subscribe or unsubscribe themselves.
func (r *Registry) current(elevatorID int) []Notifiable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.subscribers[elevatorID])
}

func (r *Registry) NotifyStateChanged(s elevator.Snapshot) {
	for _, n := range r.current(s.ID) {
		n.OnStateChanged(s)
	}
}

func (r *Registry) NotifyMoved(s elevator.Snapshot, previousFloor int) {
	for _, n := range r.current(s.ID) {
		n.OnMoved(s, previousFloor)
	}
}

func (r *Registry) NotifyPassengersChanged(s elevator.Snapshot, previousCount int) {
	for _, n := range r.current(s.ID) {
		n.OnPassengersChanged(s, previousCount)
	}
}

func (r *Registry) NotifyDestinationAdded(s elevator.Snapshot, floor int) {
	for _, n := range r.current(s.ID) {
		n.OnDestinationAdded(s, floor)
	}
}

func (r *Registry) NotifyDestinationReached(s elevator.Snapshot, floor int) {
	for _, n := range r.current(s.ID) {
		n.OnDestinationReached(s, floor)
	}
}
