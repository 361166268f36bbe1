package rules

import (
	"github.com/magefree/goldfish/internal/game/ability"
)

// PendingEffect is a queued effect produced by a trigger or an activated
// ability. It is plain data so it can be logged and replayed.
type PendingEffect struct {
	Seq        uint64
	TriggerID  string
	SourceID   string
	SourceName string
	Event      ability.Event
	SubjectID  string
	Amount     int
	Priority   int
	Effect     ability.Effect
	Depth      int
}

// Queue orders pending effects by priority, FIFO within a priority.
type Queue struct {
	items []PendingEffect
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push inserts pe after every queued effect of equal or higher priority.
func (q *Queue) Push(pe PendingEffect) {
	i := len(q.items)
	for i > 0 && q.items[i-1].Priority < pe.Priority {
		i--
	}
	q.items = append(q.items, PendingEffect{})
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = pe
}

// Pop removes the next effect to resolve.
func (q *Queue) Pop() (PendingEffect, bool) {
	if len(q.items) == 0 {
		return PendingEffect{}, false
	}
	pe := q.items[0]
	q.items = q.items[1:]
	return pe, true
}

// Len returns the number of queued effects.
func (q *Queue) Len() int {
	return len(q.items)
}

// Items returns a copy of the queued effects in resolution order.
func (q *Queue) Items() []PendingEffect {
	out := make([]PendingEffect, len(q.items))
	copy(out, q.items)
	return out
}
