// Package rules holds the event plumbing of a trial: the event bus, the
// trigger registry, the pending-effect queue, the executor that resolves
// triggers with a re-entrancy bound and the turn phase sequencer.
package rules

import (
	"fmt"

	"github.com/magefree/goldfish/internal/game/ability"
)

// Event is something that happened during a trial. Subject is the object
// the event is about and may be nil (for phase events).
type Event struct {
	Type     ability.Event
	Subject  ability.Subject
	SourceID string
	Amount   int
	Turn     int
	Phase    Phase
}

// NewEvent builds an event about subject.
func NewEvent(eventType ability.Event, subject ability.Subject, amount int) Event {
	return Event{Type: eventType, Subject: subject, Amount: amount}
}

// SubjectID returns the subject's ID or "".
func (e Event) SubjectID() string {
	if e.Subject == nil {
		return ""
	}
	return e.Subject.InstanceID()
}

func (e Event) String() string {
	if id := e.SubjectID(); id != "" {
		return fmt.Sprintf("%s(%s,%d)", e.Type, id, e.Amount)
	}
	return fmt.Sprintf("%s(%d)", e.Type, e.Amount)
}

// Listener reacts to a published event.
type Listener func(Event)

type typedListener struct {
	handle    int
	eventType ability.Event
	callback  Listener
}

// EventBus is a synchronous publish/subscribe hub for one trial. It is
// used from a single goroutine and carries no lock.
type EventBus struct {
	listeners  []typedListener
	nextHandle int
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for every event and returns its handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.SubscribeTyped("", listener)
}

// SubscribeTyped registers a listener for a single event type. An empty
// type subscribes to everything.
func (bus *EventBus) SubscribeTyped(eventType ability.Event, listener Listener) int {
	if listener == nil {
		return -1
	}
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners = append(bus.listeners, typedListener{handle: handle, eventType: eventType, callback: listener})
	return handle
}

// Unsubscribe removes the listener with the given handle.
func (bus *EventBus) Unsubscribe(handle int) {
	for i, l := range bus.listeners {
		if l.handle == handle {
			bus.listeners = append(bus.listeners[:i], bus.listeners[i+1:]...)
			return
		}
	}
}

// Publish delivers event to matching listeners in subscription order.
func (bus *EventBus) Publish(event Event) {
	for _, l := range bus.listeners {
		if l.eventType == "" || l.eventType == event.Type {
			l.callback(event)
		}
	}
}
