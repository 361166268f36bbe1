package rules

import (
	"go.uber.org/zap"

	"github.com/magefree/goldfish/internal/game/ability"
)

// DefaultDepthLimit bounds re-entrant firings of one event.
const DefaultDepthLimit = 64

// Applier interprets a pending effect against the board. A returned error
// is an internal-consistency failure and aborts the trial.
type Applier interface {
	Apply(pe PendingEffect) error
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(pe PendingEffect) error

// Apply calls f.
func (f ApplierFunc) Apply(pe PendingEffect) error { return f(pe) }

// Executor fires events against the registry and resolves what they
// produce. A firing collects every matching trigger into a queue first and
// only then resolves it, so effects never run while the index is being
// walked.
type Executor struct {
	logger   *zap.Logger
	registry *Registry
	bus      *EventBus
	applier  Applier

	limit    int
	depth    map[ability.Event]int
	seq      uint64
	fired    int
	resolved int
	dropped  int
}

// NewExecutor wires the registry, the bus and the effect interpreter. A
// non-positive limit selects DefaultDepthLimit.
func NewExecutor(logger *zap.Logger, registry *Registry, bus *EventBus, applier Applier, limit int) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = DefaultDepthLimit
	}
	return &Executor{
		logger:   logger,
		registry: registry,
		bus:      bus,
		applier:  applier,
		limit:    limit,
		depth:    make(map[ability.Event]int),
	}
}

// Fire publishes event and resolves the triggers it matches. Firing an
// event while effects of the same event are resolving nests one level
// deeper; past the limit the triggers are not matched and the firing is
// counted as dropped. Watchers still observe the event.
func (x *Executor) Fire(event Event) error {
	if x.bus != nil {
		x.bus.Publish(event)
	}

	d := x.depth[event.Type]
	if d >= x.limit {
		x.dropped++
		x.logger.Warn("re-entrant firing dropped",
			zap.String("event", string(event.Type)),
			zap.Int("depth", d),
			zap.Int("dropped", x.dropped),
		)
		return nil
	}
	x.depth[event.Type] = d + 1
	defer func() { x.depth[event.Type]-- }()

	matched := x.registry.Match(event)
	if len(matched) == 0 {
		return nil
	}

	queue := NewQueue()
	for _, t := range matched {
		x.seq++
		x.fired++
		queue.Push(PendingEffect{
			Seq:        x.seq,
			TriggerID:  t.ID,
			SourceID:   t.SourceID,
			SourceName: t.SourceName,
			Event:      event.Type,
			SubjectID:  event.SubjectID(),
			Amount:     event.Amount,
			Priority:   t.Priority,
			Effect:     t.Effect,
			Depth:      d + 1,
		})
	}

	for queue.Len() > 0 {
		pe, _ := queue.Pop()
		x.logger.Debug("resolving effect",
			zap.String("event", string(pe.Event)),
			zap.String("source", pe.SourceName),
			zap.String("effect", pe.Effect.String()),
			zap.Int("depth", pe.Depth),
		)
		if err := x.Resolve(pe); err != nil {
			return err
		}
	}
	return nil
}

// Resolve applies one pending effect directly, as activated abilities do.
func (x *Executor) Resolve(pe PendingEffect) error {
	if pe.Seq == 0 {
		x.seq++
		pe.Seq = x.seq
	}
	x.resolved++
	return x.applier.Apply(pe)
}

// Depth returns the current nesting depth of an event.
func (x *Executor) Depth(event ability.Event) int {
	return x.depth[event]
}

// Limit returns the configured depth bound.
func (x *Executor) Limit() int {
	return x.limit
}

// Fired returns how many trigger firings were queued.
func (x *Executor) Fired() int {
	return x.fired
}

// Resolved returns how many pending effects were applied.
func (x *Executor) Resolved() int {
	return x.resolved
}

// Dropped returns how many re-entrant firings were dropped.
func (x *Executor) Dropped() int {
	return x.dropped
}
