package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/goldfish/internal/game/ability"
)

type testSubject struct {
	id       string
	creature bool
	token    bool
}

func (s testSubject) InstanceID() string { return s.id }
func (s testSubject) IsCreature() bool   { return s.creature }
func (s testSubject) IsToken() bool      { return s.token }

func drawEffect(n int) ability.Effect {
	return ability.Effect{Kind: ability.EffectDraw, Params: ability.Params{Amount: n}}
}

func TestRegistry_MatchOrdersByPriorityThenInsertion(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "A", []ability.Trigger{{Event: ability.EventUpkeep, Effect: drawEffect(1)}})
	r.Register("b", "B", []ability.Trigger{{Event: ability.EventUpkeep, Priority: 5, Effect: drawEffect(2)}})
	r.Register("c", "C", []ability.Trigger{{Event: ability.EventUpkeep, Effect: drawEffect(3)}})

	matched := r.Match(Event{Type: ability.EventUpkeep})
	require.Len(t, matched, 3)
	assert.Equal(t, "b", matched[0].SourceID)
	assert.Equal(t, "a", matched[1].SourceID)
	assert.Equal(t, "c", matched[2].SourceID)
}

func TestRegistry_ConditionFilters(t *testing.T) {
	r := NewRegistry()
	r.Register("src", "Blood Artist", []ability.Trigger{{
		Event:     ability.EventDies,
		Condition: ability.Condition{Kind: ability.ConditionAnotherCreature},
		Effect:    ability.Effect{Kind: ability.EffectDrain, Params: ability.Params{Amount: 1}},
	}})

	assert.Empty(t, r.Match(NewEvent(ability.EventDies, testSubject{id: "src", creature: true}, 0)))
	assert.Empty(t, r.Match(NewEvent(ability.EventDies, testSubject{id: "rock"}, 0)))
	assert.Len(t, r.Match(NewEvent(ability.EventDies, testSubject{id: "bear", creature: true}, 0)), 1)
}

func TestRegistry_UnregisterAndOnce(t *testing.T) {
	r := NewRegistry()
	ids := r.Register("x", "X", []ability.Trigger{
		{Event: ability.EventUpkeep, Effect: drawEffect(1), Once: true},
		{Event: ability.EventEndStep, Effect: drawEffect(1)},
	})
	require.Len(t, ids, 2)
	assert.Nil(t, r.Register("x", "X", []ability.Trigger{{Event: ability.EventUpkeep}}), "already live")
	assert.Equal(t, 2, r.Len())

	assert.Len(t, r.Match(Event{Type: ability.EventUpkeep}), 1)
	assert.Empty(t, r.Match(Event{Type: ability.EventUpkeep}), "once trigger is spent")
	assert.True(t, r.Live("x"))

	assert.Equal(t, 1, r.Unregister("x"))
	assert.False(t, r.Live("x"))
	assert.Zero(t, r.Len())
}

func TestQueue_FIFOWithinPriority(t *testing.T) {
	q := NewQueue()
	q.Push(PendingEffect{Seq: 1, Priority: 0})
	q.Push(PendingEffect{Seq: 2, Priority: 1})
	q.Push(PendingEffect{Seq: 3, Priority: 0})
	q.Push(PendingEffect{Seq: 4, Priority: 1})

	var order []uint64
	for q.Len() > 0 {
		pe, _ := q.Pop()
		order = append(order, pe.Seq)
	}
	assert.Equal(t, []uint64{2, 4, 1, 3}, order)

	_, ok := q.Pop()
	assert.False(t, ok)
}

func TestExecutor_FireThenResolve(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "A", []ability.Trigger{{Event: ability.EventUpkeep, Effect: drawEffect(1)}})
	r.Register("b", "B", []ability.Trigger{{Event: ability.EventUpkeep, Effect: drawEffect(2)}})

	var applied []string
	x := NewExecutor(zaptest.NewLogger(t), r, nil, ApplierFunc(func(pe PendingEffect) error {
		applied = append(applied, pe.SourceID)
		// A source leaving mid-resolution must not disturb the pass.
		r.Unregister("b")
		return nil
	}), 0)

	require.NoError(t, x.Fire(Event{Type: ability.EventUpkeep}))
	assert.Equal(t, []string{"a", "b"}, applied)
	assert.Equal(t, 2, x.Fired())
	assert.Equal(t, DefaultDepthLimit, x.Limit())
}

func TestExecutor_DepthBound(t *testing.T) {
	r := NewRegistry()
	r.Register("loop", "Loop", []ability.Trigger{{
		Event:  ability.EventMilled,
		Effect: ability.Effect{Kind: ability.EffectMill, Params: ability.Params{Amount: 1}},
	}})

	var x *Executor
	applied := 0
	x = NewExecutor(zaptest.NewLogger(t), r, nil, ApplierFunc(func(pe PendingEffect) error {
		applied++
		return x.Fire(Event{Type: ability.EventMilled, Amount: 1})
	}), 8)

	require.NoError(t, x.Fire(Event{Type: ability.EventMilled, Amount: 1}))
	assert.Equal(t, 8, applied)
	assert.Equal(t, 1, x.Dropped())
	assert.Zero(t, x.Depth(ability.EventMilled))
}

func TestExecutor_PublishesToWatchers(t *testing.T) {
	bus := NewEventBus()
	wr := NewWatcherRegistry(bus)
	w := &countingWatcher{}
	wr.Add(w)

	x := NewExecutor(nil, NewRegistry(), bus, ApplierFunc(func(PendingEffect) error { return nil }), 0)
	require.NoError(t, x.Fire(Event{Type: ability.EventUntap}))
	require.NoError(t, x.Fire(Event{Type: ability.EventUpkeep}))
	assert.Equal(t, 2, w.seen)

	wr.ResetAll()
	assert.Zero(t, w.seen)

	wr.Close()
	require.NoError(t, x.Fire(Event{Type: ability.EventUpkeep}))
	assert.Zero(t, w.seen)
}

type countingWatcher struct{ seen int }

func (w *countingWatcher) Watch(Event) { w.seen++ }
func (w *countingWatcher) Reset()      { w.seen = 0 }
func (w *countingWatcher) Key() string { return "counting" }

func TestEventBus_Typed(t *testing.T) {
	bus := NewEventBus()
	var got []ability.Event
	h := bus.SubscribeTyped(ability.EventDies, func(e Event) { got = append(got, e.Type) })
	bus.Publish(Event{Type: ability.EventUpkeep})
	bus.Publish(Event{Type: ability.EventDies})
	bus.Unsubscribe(h)
	bus.Publish(Event{Type: ability.EventDies})

	assert.Equal(t, []ability.Event{ability.EventDies}, got)
	assert.Equal(t, -1, bus.Subscribe(nil))
}

func TestTurnManager_Advance(t *testing.T) {
	tm := NewTurnManager()
	if tm.CurrentPhase() != PhaseUntap || tm.TurnNumber() != 1 {
		t.Fatalf("expected turn 1 untap, got turn %d %s", tm.TurnNumber(), tm.CurrentPhase())
	}

	var phases []Phase
	for i := 0; i < 5; i++ {
		p, newTurn := tm.Advance()
		if newTurn {
			t.Fatalf("unexpected new turn at %s", p)
		}
		phases = append(phases, p)
	}
	assert.Equal(t, []Phase{PhaseUpkeep, PhaseDraw, PhaseMain, PhaseCombat, PhaseEnd}, phases)

	p, newTurn := tm.Advance()
	assert.True(t, newTurn)
	assert.Equal(t, PhaseUntap, p)
	assert.Equal(t, 2, tm.TurnNumber())

	assert.Equal(t, ability.EventEndStep, PhaseEnd.Event())
	assert.Equal(t, ability.Event(""), PhaseCombat.Event())
	assert.Len(t, Sequence(), 6)
}
