package observer

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"elevsim/source/config"
	"elevsim/source/elevator"
)

type counter struct {
	mu     sync.Mutex
	name   string
	log    *[]string
	counts map[string]int
}

func newCounter(name string, log *[]string) *counter {
	return &counter{name: name, log: log, counts: make(map[string]int)}
}

func (c *counter) hit(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[kind]++
	if c.log != nil {
		*c.log = append(*c.log, c.name)
	}
}

func (c *counter) get(kind string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[kind]
}

func (c *counter) OnStateChanged(elevator.Snapshot)            { c.hit("state") }
func (c *counter) OnMoved(elevator.Snapshot, int)              { c.hit("moved") }
func (c *counter) OnPassengersChanged(elevator.Snapshot, int)  { c.hit("passengers") }
func (c *counter) OnDestinationAdded(elevator.Snapshot, int)   { c.hit("added") }
func (c *counter) OnDestinationReached(elevator.Snapshot, int) { c.hit("reached") }

func TestSubscribeIsIdempotent(t *testing.T) {
	r := NewRegistry()
	c := newCounter("a", nil)

	r.Subscribe(1, c)
	r.Subscribe(1, c)
	if n := r.SubscriberCount(1); n != 1 {
		t.Fatalf("SubscriberCount() = %d; want 1", n)
	}

	r.NotifyStateChanged(elevator.Snapshot{ID: 1})
	if c.get("state") != 1 {
		t.Errorf("state callbacks = %d; want 1", c.get("state"))
	}
}

func TestUnsubscribe(t *testing.T) {
	r := NewRegistry()
	a, b := newCounter("a", nil), newCounter("b", nil)
	r.Subscribe(2, a)
	r.Subscribe(2, b)

	r.Unsubscribe(2, a)
	r.Unsubscribe(2, a)
	r.Unsubscribe(3, b)

	r.NotifyMoved(elevator.Snapshot{ID: 2}, 1)
	if a.get("moved") != 0 || b.get("moved") != 1 {
		t.Errorf("moved callbacks a=%d b=%d; want 0 and 1", a.get("moved"), b.get("moved"))
	}
	if n := r.SubscriberCount(2); n != 1 {
		t.Errorf("SubscriberCount() = %d; want 1", n)
	}
}

func TestNotifyOrderAndScope(t *testing.T) {
	r := NewRegistry()
	var order []string
	first, second := newCounter("first", &order), newCounter("second", &order)
	other := newCounter("other", nil)

	r.Subscribe(1, first)
	r.Subscribe(1, second)
	r.Subscribe(4, other)

	s := elevator.Snapshot{ID: 1}
	r.NotifyStateChanged(s)
	r.NotifyPassengersChanged(s, 0)
	r.NotifyDestinationAdded(s, 9)
	r.NotifyDestinationReached(s, 9)

	want := []string{"first", "second", "first", "second", "first", "second", "first", "second"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("callback order = %v; want %v", order, want)
	}
	if other.get("state") != 0 {
		t.Errorf("subscriber of elevator 4 heard elevator 1")
	}
}

func TestNotifyWithoutSubscribers(t *testing.T) {
	r := NewRegistry()
	r.NotifyStateChanged(elevator.Snapshot{ID: 7})
	r.NotifyMoved(elevator.Snapshot{ID: 7}, 2)
}

func TestRegistryDrivesElevatorService(t *testing.T) {
	r := NewRegistry()
	c := newCounter("c", nil)
	r.Subscribe(3, c)

	svc := elevator.NewService(config.Instant().Timing, r)
	e := elevator.New(3, elevator.HighSpeed)
	if err := svc.AddDestination(e, 6); err != nil {
		t.Fatalf("AddDestination() error = %v", err)
	}
	if err := svc.AddDestination(e, 6); err != nil {
		t.Fatalf("AddDestination() error = %v", err)
	}
	if c.get("added") != 1 {
		t.Errorf("destination-added callbacks = %d; want 1", c.get("added"))
	}
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	o := NewLogObserver(&log)

	s := elevator.Snapshot{ID: 2, Type: elevator.Freight, Floor: 8, Passengers: 5, MaxCapacity: 20}
	o.OnPassengersChanged(s, 3)
	o.OnMoved(s, 1)

	out := buf.String()
	for _, want := range []string{`"elevator":2`, `"passengers":5`, `"previous":3`, `"from":1`, "Elevator moved"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
