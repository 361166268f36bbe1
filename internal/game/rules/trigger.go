package rules

import (
	"fmt"
	"sort"

	"github.com/magefree/goldfish/internal/game/ability"
)

// RegisteredTrigger binds a live source to one of its triggered abilities.
type RegisteredTrigger struct {
	ID         string
	SourceID   string
	SourceName string
	Event      ability.Event
	Condition  ability.Condition
	Priority   int
	Effect     ability.Effect
	Once       bool

	seq uint64
}

// Registry indexes live triggers by event. Lookup order is priority
// (highest first), then registration order.
type Registry struct {
	byEvent  map[ability.Event][]*RegisteredTrigger
	bySource map[string][]*RegisteredTrigger
	seq      uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byEvent:  make(map[ability.Event][]*RegisteredTrigger),
		bySource: make(map[string][]*RegisteredTrigger),
	}
}

// Register makes the source's triggered abilities live and returns the
// trigger IDs. Registering an already live source is a no-op.
func (r *Registry) Register(sourceID, sourceName string, triggers []ability.Trigger) []string {
	if _, live := r.bySource[sourceID]; live || len(triggers) == 0 {
		return nil
	}
	ids := make([]string, 0, len(triggers))
	for i, t := range triggers {
		r.seq++
		rt := &RegisteredTrigger{
			ID:         fmt.Sprintf("%s#%d", sourceID, i),
			SourceID:   sourceID,
			SourceName: sourceName,
			Event:      t.Event,
			Condition:  t.Condition,
			Priority:   t.Priority,
			Effect:     t.Effect,
			Once:       t.Once,
			seq:        r.seq,
		}
		r.byEvent[t.Event] = append(r.byEvent[t.Event], rt)
		r.bySource[sourceID] = append(r.bySource[sourceID], rt)
		ids = append(ids, rt.ID)
	}
	return ids
}

// Unregister removes every trigger of the source and returns how many were
// removed.
func (r *Registry) Unregister(sourceID string) int {
	triggers, ok := r.bySource[sourceID]
	if !ok {
		return 0
	}
	delete(r.bySource, sourceID)
	for _, t := range triggers {
		r.remove(t)
	}
	return len(triggers)
}

func (r *Registry) remove(t *RegisteredTrigger) {
	list := r.byEvent[t.Event]
	for i, candidate := range list {
		if candidate == t {
			r.byEvent[t.Event] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(r.byEvent[t.Event]) == 0 {
		delete(r.byEvent, t.Event)
	}
}

// Live reports whether the source has registered triggers.
func (r *Registry) Live(sourceID string) bool {
	_, ok := r.bySource[sourceID]
	return ok
}

// Len returns the number of live triggers.
func (r *Registry) Len() int {
	n := 0
	for _, list := range r.byEvent {
		n += len(list)
	}
	return n
}

// Match returns the live triggers whose condition holds for event, in
// resolution order. Once triggers that match are removed.
func (r *Registry) Match(event Event) []*RegisteredTrigger {
	list := r.byEvent[event.Type]
	if len(list) == 0 {
		return nil
	}

	var matched []*RegisteredTrigger
	for _, t := range list {
		if t.Condition.Holds(t.SourceID, event.Subject, event.Amount) {
			matched = append(matched, t)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority > matched[j].Priority
		}
		return matched[i].seq < matched[j].seq
	})

	for _, t := range matched {
		if t.Once {
			r.removeOnce(t)
		}
	}
	return matched
}

func (r *Registry) removeOnce(t *RegisteredTrigger) {
	r.remove(t)
	rest := r.bySource[t.SourceID][:0]
	for _, other := range r.bySource[t.SourceID] {
		if other != t {
			rest = append(rest, other)
		}
	}
	if len(rest) == 0 {
		delete(r.bySource, t.SourceID)
		return
	}
	r.bySource[t.SourceID] = rest
}
