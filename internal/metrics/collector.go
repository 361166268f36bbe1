package metrics

import (
	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/rules"
)

// CollectorKey is the watcher key of the Collector.
const CollectorKey = "metrics"

// Collector is a watcher that turns the event stream of one trial into a
// TrialRecord. Values the event stream does not carry (board power, mana
// spent, phases) are reported by the engine directly.
type Collector struct {
	record  TrialRecord
	current *TurnStats
	turns   []TurnStats
}

// NewCollector starts a record for one trial.
func NewCollector(trial int, seed uint64) *Collector {
	return &Collector{record: TrialRecord{Trial: trial, Seed: seed, WinType: WinNone}}
}

// Key implements rules.Watcher.
func (c *Collector) Key() string { return CollectorKey }

// Reset implements rules.Watcher. Collected totals survive resets; the
// collector is per trial.
func (c *Collector) Reset() {}

// Watch implements rules.Watcher.
func (c *Collector) Watch(event rules.Event) {
	ts := c.turn(event.Turn)
	if ts == nil {
		return
	}
	switch event.Type {
	case ability.EventCardDrawn:
		ts.CardsDrawn++
	case ability.EventLandPlayed:
		ts.LandsPlayed++
	case ability.EventTokenCreated:
		ts.TokensCreated++
	case ability.EventSpellCast:
		ts.SpellsCast++
	case ability.EventCombatDamage:
		ts.CombatDamage += event.Amount
	case ability.EventOpponentLostLife:
		ts.DrainDamage += event.Amount
	}
}

// BeginTurn opens the stats of a new turn.
func (c *Collector) BeginTurn(turn int) {
	c.turns = append(c.turns, TurnStats{Turn: turn})
	c.current = &c.turns[len(c.turns)-1]
}

func (c *Collector) turn(turn int) *TurnStats {
	if c.current == nil {
		return nil
	}
	if turn != 0 && turn != c.current.Turn {
		return nil
	}
	return c.current
}

// Phase records that a phase of the current turn ran.
func (c *Collector) Phase(name string) {
	if c.current != nil {
		c.current.Phases = append(c.current.Phases, name)
	}
}

// EndTurn stores the end-of-turn board power and mana spent.
func (c *Collector) EndTurn(boardPower, manaSpent int) {
	if c.current == nil {
		return
	}
	c.current.BoardPower = boardPower
	c.current.ManaSpent = manaSpent
}

// OpponentLife records the combined opponent life at the end of a turn.
func (c *Collector) OpponentLife(life int) {
	c.record.OpponentLife = append(c.record.OpponentLife, life)
}

// Current returns the stats of the turn in progress.
func (c *Collector) Current() TurnStats {
	if c.current == nil {
		return TurnStats{}
	}
	return *c.current
}

// CumulativeDamage returns combat and drain totals so far.
func (c *Collector) CumulativeDamage() (combat, drain int) {
	for _, ts := range c.turns {
		combat += ts.CombatDamage
		drain += ts.DrainDamage
	}
	return combat, drain
}

// Diagnostics gives mutable access to the anomaly counters.
func (c *Collector) Diagnostics() *Diagnostics {
	return &c.record.Diagnostics
}

// Finish closes the record with the outcome at the terminal turn.
func (c *Collector) Finish(outcome Outcome, terminalTurn int) TrialRecord {
	c.record.Outcome = outcome
	c.record.TerminalTurn = terminalTurn
	if outcome == OutcomeWin {
		c.record.WinType = ClassifyWin(c.CumulativeDamage())
	}

	n := len(c.turns)
	r := c.record
	r.CombatDamage = make([]int, n)
	r.DrainDamage = make([]int, n)
	r.BoardPower = make([]int, n)
	r.ManaSpent = make([]int, n)
	r.LandsPlayed = make([]int, n)
	r.TokensCreated = make([]int, n)
	r.CardsDrawn = make([]int, n)
	r.SpellsCast = make([]int, n)
	r.Phases = make([][]string, n)
	for i, ts := range c.turns {
		r.CombatDamage[i] = ts.CombatDamage
		r.DrainDamage[i] = ts.DrainDamage
		r.BoardPower[i] = ts.BoardPower
		r.ManaSpent[i] = ts.ManaSpent
		r.LandsPlayed[i] = ts.LandsPlayed
		r.TokensCreated[i] = ts.TokensCreated
		r.CardsDrawn[i] = ts.CardsDrawn
		r.SpellsCast[i] = ts.SpellsCast
		r.Phases[i] = append([]string{}, ts.Phases...)
	}
	if r.OpponentLife == nil {
		r.OpponentLife = []int{}
	}
	return r
}
