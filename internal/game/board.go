// Package game runs single trials: it owns the Board of one simulated game,
// interprets pending effects against it, resolves combat, sequences plays
// and drives the turn phase machine.
package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/goldfish/internal/config"
	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/card"
	"github.com/magefree/goldfish/internal/game/effects"
	"github.com/magefree/goldfish/internal/game/mana"
	"github.com/magefree/goldfish/internal/game/rules"
	"github.com/magefree/goldfish/internal/game/targeting"
	"github.com/magefree/goldfish/internal/game/watchers"
	"github.com/magefree/goldfish/internal/game/zones"
	"github.com/magefree/goldfish/internal/metrics"
)

// ErrTrialAborted wraps internal-consistency failures that end a trial.
var ErrTrialAborted = errors.New("trial aborted")

// Board is the complete state of one trial. It is created at trial start,
// used from a single goroutine and discarded at the end.
type Board struct {
	cfg    *config.Config
	logger *zap.Logger
	rng    *RNG
	ids    *card.IDSource

	Zones     *zones.Set
	Pool      *mana.Pool
	Registry  *rules.Registry
	Bus       *rules.EventBus
	Watchers  *rules.WatcherRegistry
	PerTurn   *watchers.TurnWatchers
	Executor  *rules.Executor
	Effects   *effects.EffectManager
	Turns     *rules.TurnManager
	Opponents *ThreatModel
	Collector *metrics.Collector
	Journal   *Journal

	// Life is the player's own life total. Nothing attacks the player, so
	// it only ever grows.
	Life int

	landPlayed bool
	turnOpen   bool
	spentMark  int
	holdBack   map[string]bool
	skipped    map[string]bool

	ended   bool
	outcome metrics.Outcome
}

// NewBoard assembles an empty board for one trial.
func NewBoard(logger *zap.Logger, cfg *config.Config, trial int, seed uint64) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	b := &Board{
		cfg:       cfg,
		logger:    logger,
		rng:       NewRNG(seed),
		ids:       card.NewIDSource(seed),
		Zones:     zones.NewSet(logger),
		Pool:      mana.NewPool(),
		Registry:  rules.NewRegistry(),
		Bus:       rules.NewEventBus(),
		Effects:   effects.NewEffectManager(nil),
		Turns:     rules.NewTurnManager(),
		Opponents: NewThreatModel(cfg.Opponent),
		Collector: metrics.NewCollector(trial, seed),
		Journal:   NewJournal(trial, seed),
		Life:      cfg.Opponent.StartingLife,
		holdBack:  make(map[string]bool),
		skipped:   make(map[string]bool),
	}
	b.Zones.SetListener(b)
	b.Watchers = rules.NewWatcherRegistry(b.Bus)
	b.Watchers.Add(b.Collector)
	b.PerTurn = watchers.NewTurnWatchers(b.Watchers)
	b.Executor = rules.NewExecutor(logger, b.Registry, b.Bus, b, cfg.Engine.TriggerDepthLimit)
	return b
}

// RNG returns the trial's random source.
func (b *Board) RNG() *RNG {
	return b.rng
}

// Ended reports whether a terminal condition was reached.
func (b *Board) Ended() bool {
	return b.ended
}

// Outcome returns the terminal outcome, or "" while the trial runs.
func (b *Board) Outcome() metrics.Outcome {
	return b.outcome
}

func (b *Board) end(outcome metrics.Outcome) {
	if b.ended {
		return
	}
	b.ended = true
	b.outcome = outcome
	b.Turns.Finish()
	b.logger.Debug("trial ended",
		zap.String("outcome", string(outcome)),
		zap.Int("turn", b.Turns.TurnNumber()),
	)
}

// checkLethal ends the trial as a win once every opponent is dead.
func (b *Board) checkLethal() {
	if !b.ended && b.Opponents.AllDead() {
		b.end(metrics.OutcomeWin)
	}
}

// Entered implements zones.Listener. Abilities of permanents become live
// on the battlefield; abilities of instants and sorceries are live while
// the spell is on the stack.
func (b *Board) Entered(inst *card.Instance, from, to zones.Kind) {
	switch to {
	case zones.Battlefield:
		inst.EnteredTurn = b.Turns.TurnNumber()
		b.Registry.Register(inst.ID, inst.Name(), inst.Def.Triggers())
		b.Effects.AddStatics(inst.ID, inst.Def.Statics())
	case zones.Stack:
		if !inst.Def.Types.IsPermanent() {
			b.Registry.Register(inst.ID, inst.Name(), inst.Def.Triggers())
		}
	}
}

// Left implements zones.Listener.
func (b *Board) Left(inst *card.Instance, from, to zones.Kind) {
	if from != zones.Battlefield && from != zones.Stack {
		return
	}
	if n := b.Registry.Unregister(inst.ID); n > 0 {
		b.logger.Debug("triggers unregistered",
			zap.String("card", inst.Name()),
			zap.Int("count", n),
		)
	}
	if from != zones.Battlefield {
		return
	}
	b.Effects.RemoveEffectsFromSource(inst.ID)
	for _, p := range b.Zones.Cards(zones.Battlefield) {
		if p.AttachedTo == inst.ID {
			p.AttachedTo = ""
		}
	}
	inst.Reset()
}

// fire publishes an event stamped with the current turn and phase and
// resolves its triggers. It does nothing once the trial has ended.
func (b *Board) fire(eventType ability.Event, subject ability.Subject, amount int) error {
	return b.fireFrom(eventType, subject, "", amount)
}

func (b *Board) fireFrom(eventType ability.Event, subject ability.Subject, sourceID string, amount int) error {
	if b.ended {
		return nil
	}
	ev := rules.NewEvent(eventType, subject, amount)
	ev.SourceID = sourceID
	ev.Turn = b.Turns.TurnNumber()
	ev.Phase = b.Turns.CurrentPhase()
	return b.Executor.Fire(ev)
}

// permanents returns the battlefield in order.
func (b *Board) permanents() []*card.Instance {
	return b.Zones.Cards(zones.Battlefield)
}

// creatures returns the creatures on the battlefield.
func (b *Board) creatures() []*card.Instance {
	var out []*card.Instance
	for _, p := range b.permanents() {
		if p.IsCreature() {
			out = append(out, p)
		}
	}
	return out
}

// attachments lists the permanents attached to id.
func (b *Board) attachments(id string) []string {
	var out []string
	for _, p := range b.permanents() {
		if p.AttachedTo == id {
			out = append(out, p.ID)
		}
	}
	return out
}

// Snapshot returns the current characteristics of a permanent.
func (b *Board) Snapshot(inst *card.Instance) *effects.Snapshot {
	return b.Effects.Evaluate(effects.NewSnapshot(inst, b.attachments(inst.ID)))
}

// BoardPower sums the non-negative power of every creature.
func (b *Board) BoardPower() int {
	total := 0
	for _, c := range b.creatures() {
		total += max(0, b.Snapshot(c).Power)
	}
	return total
}

// summoningSick reports whether a creature entered this turn without haste.
func (b *Board) summoningSick(inst *card.Instance, s *effects.Snapshot) bool {
	return inst.IsCreature() && inst.EnteredTurn >= b.Turns.TurnNumber() && !s.Keywords.Has(ability.KeywordHaste)
}

// selector offers the battlefield to target selection.
func (b *Board) selector(sourceID string) *targeting.Selector {
	perms := b.permanents()
	candidates := make([]targeting.Candidate, 0, len(perms))
	for _, p := range perms {
		s := b.Snapshot(p)
		candidates = append(candidates, targeting.Candidate{
			ID:        p.ID,
			Creature:  s.IsCreature(),
			Power:     s.Power,
			Toughness: s.Toughness,
			Value:     ValueScore(p.Def),
		})
	}
	return targeting.NewSelector(sourceID, candidates)
}

// targets resolves an effect target to battlefield instances.
func (b *Board) targets(sourceID string, target ability.Target) ([]*card.Instance, error) {
	ids, err := b.selector(sourceID).Select(target)
	if err != nil {
		return nil, err
	}
	out := make([]*card.Instance, 0, len(ids))
	for _, id := range ids {
		if inst := b.Zones.Get(id); inst != nil {
			out = append(out, inst)
		}
	}
	return out, nil
}

// destroy moves a permanent off the battlefield. Creatures fire dies while
// still on the battlefield; Dying stops a dies trigger from destroying the
// same card again. Commanders return to the command zone.
func (b *Board) destroy(inst *card.Instance) error {
	if inst == nil || inst.Dying {
		return nil
	}
	if z, ok := b.Zones.ZoneOf(inst.ID); !ok || z != zones.Battlefield {
		return nil
	}
	inst.Dying = true
	if inst.IsCreature() {
		if err := b.fire(ability.EventDies, inst, max(0, b.Snapshot(inst).Power)); err != nil {
			return err
		}
	}
	if z, ok := b.Zones.ZoneOf(inst.ID); !ok || z != zones.Battlefield {
		return nil
	}
	to := zones.Graveyard
	if inst.Def.Commander {
		to = zones.Command
	}
	return b.Zones.Move(inst, zones.Battlefield, to)
}

// abort wraps an internal failure.
func abort(err error) error {
	if err == nil || errors.Is(err, ErrTrialAborted) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTrialAborted, err)
}
