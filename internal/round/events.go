package round

import (
	"sync"
	"time"
)

// EventType identifies what happened to a round.
type EventType string

const (
	EventRoundStart   EventType = "round_start"
	EventRoundStep    EventType = "round_step"
	EventRoundResolve EventType = "round_resolve"
	EventRoundSettled EventType = "round_settled"
	EventRoundReset   EventType = "round_reset"
	EventRulesChanged EventType = "rules_changed"
)

func (et EventType) String() string {
	return string(et)
}

// Event is published after every engine transition.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	Time     time.Time
}

// Subscriber receives engine events. It is called outside the engine lock
// and may call back into the engine.
type Subscriber interface {
	OnEvent(event Event)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(Event)

func (f SubscriberFunc) OnEvent(event Event) { f(event) }

// EventBus manages event publishing and subscription.
type EventBus interface {
	// Subscribe registers s and returns a function that removes it.
	Subscribe(s Subscriber) (unsubscribe func())
	Publish(event Event)
}

// SimpleEventBus is an in-memory bus delivering events synchronously.
type SimpleEventBus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]Subscriber
	order       []int
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{subscribers: make(map[int]Subscriber)}
}

func (bus *SimpleEventBus) Subscribe(s Subscriber) func() {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := bus.nextID
	bus.nextID++
	bus.subscribers[id] = s
	bus.order = append(bus.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { bus.unsubscribe(id) })
	}
}

func (bus *SimpleEventBus) unsubscribe(id int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	delete(bus.subscribers, id)
	for i, sid := range bus.order {
		if sid == id {
			bus.order = append(bus.order[:i], bus.order[i+1:]...)
			break
		}
	}
}

// Publish delivers event to every subscriber in subscription order.
func (bus *SimpleEventBus) Publish(event Event) {
	bus.mu.RLock()
	subs := make([]Subscriber, 0, len(bus.order))
	for _, id := range bus.order {
		subs = append(subs, bus.subscribers[id])
	}
	bus.mu.RUnlock()

	for _, s := range subs {
		s.OnEvent(event)
	}
}
