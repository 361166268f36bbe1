package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/goldfish/internal/config"
	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/card"
	"github.com/magefree/goldfish/internal/game/rules"
	"github.com/magefree/goldfish/internal/game/zones"
	"github.com/magefree/goldfish/internal/metrics"
)

// Engine runs trials of one decklist. It holds only immutable inputs, so
// one Engine may run trials on many goroutines at once.
type Engine struct {
	logger    *zap.Logger
	cfg       *config.Config
	deck      []*card.Definition
	malformed int
}

// NewEngine prepares trials for a decklist. Each entry of deck is one
// physical card; malformed is the number of abilities the loader skipped
// and is reported in every trial's diagnostics.
func NewEngine(logger *zap.Logger, cfg *config.Config, deck []*card.Definition, malformed int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{logger: logger, cfg: cfg, deck: deck, malformed: malformed}
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// RunTrial runs one trial to completion.
func (e *Engine) RunTrial(trial int, seed uint64) metrics.TrialRecord {
	record, _ := e.RunTrialWithJournal(trial, seed)
	return record
}

// RunTrialWithJournal runs one trial and also returns its effect journal.
func (e *Engine) RunTrialWithJournal(trial int, seed uint64) (metrics.TrialRecord, *Journal) {
	logger := e.logger.With(zap.Int("trial", trial), zap.Uint64("seed", seed))
	b := NewBoard(logger, e.cfg, trial, seed)

	err := b.setup(e.deck, e.malformed)
	if err == nil {
		err = b.run()
	}
	if err != nil {
		err = abort(err)
		logger.Error("trial aborted", zap.Error(err))
		b.Collector.Diagnostics().AbortReason = err.Error()
		b.end(metrics.OutcomeAborted)
	}
	return b.finish(), b.Journal
}

// setup builds the decklist into zones, shuffles and draws the opening hand.
func (b *Board) setup(deck []*card.Definition, malformed int) error {
	b.Collector.Diagnostics().MalformedAbilities = malformed
	for _, def := range deck {
		inst := card.NewInstance(b.ids.Next(def.Name), def)
		to := zones.Library
		if def.Commander {
			to = zones.Command
		}
		if err := b.Zones.Add(inst, to); err != nil {
			return err
		}
	}
	b.Zones.Shuffle(b.rng)

	sim := b.cfg.Simulation
	if err := b.drawOpeningHand(sim.OpeningHand); err != nil {
		return err
	}
	if sim.Mulligan {
		if err := b.mulligan(sim.OpeningHand); err != nil {
			return err
		}
	}
	return b.Zones.Verify()
}

// run drives the phase machine until a terminal condition.
func (b *Board) run() error {
	maxTurns := b.cfg.Simulation.MaxTurns
	for !b.ended {
		phase := b.Turns.CurrentPhase()
		if phase == rules.PhaseUntap {
			if b.Turns.TurnNumber() > maxTurns {
				b.end(metrics.OutcomeTurnLimit)
				break
			}
			b.beginTurn()
		}

		b.Collector.Phase(phase.String())
		if err := b.RunPhase(phase); err != nil {
			return fmt.Errorf("turn %d %s: %w", b.Turns.TurnNumber(), phase, err)
		}
		if err := b.Zones.Verify(); err != nil {
			return fmt.Errorf("turn %d %s: %w", b.Turns.TurnNumber(), phase, err)
		}
		if b.ended {
			break
		}
		if phase == rules.PhaseEnd {
			b.closeTurn()
		}
		b.Turns.Advance()
	}
	return nil
}

// RunPhase executes one phase of the current turn.
func (b *Board) RunPhase(phase rules.Phase) error {
	switch phase {
	case rules.PhaseUntap:
		return b.untap()
	case rules.PhaseUpkeep:
		return b.upkeep()
	case rules.PhaseDraw:
		return b.drawStep()
	case rules.PhaseMain:
		if err := b.fire(phase.Event(), nil, 0); err != nil {
			return err
		}
		return b.MainPhase()
	case rules.PhaseCombat:
		return b.Combat()
	case rules.PhaseEnd:
		return b.endStep()
	default:
		return fmt.Errorf("unknown phase %s", phase)
	}
}

func (b *Board) beginTurn() {
	b.Collector.BeginTurn(b.Turns.TurnNumber())
	b.turnOpen = true
	b.spentMark = b.Pool.Spent()
	b.landPlayed = false
	clear(b.holdBack)
	clear(b.skipped)
}

func (b *Board) untap() error {
	for _, p := range b.permanents() {
		p.Tapped = false
	}
	b.Effects.Untap()
	return b.fire(ability.EventUntap, nil, 0)
}

// upkeep fires upkeep and advances every saga by one chapter.
func (b *Board) upkeep() error {
	if err := b.fire(ability.EventUpkeep, nil, 0); err != nil {
		return err
	}
	for _, p := range b.permanents() {
		if b.ended {
			return nil
		}
		if !p.Def.Has(card.CapSaga) {
			continue
		}
		if z, _ := b.Zones.ZoneOf(p.ID); z != zones.Battlefield {
			continue
		}
		if err := b.addLore(p, 1); err != nil {
			return err
		}
	}
	return nil
}

// drawStep draws the card of the turn. An empty library loses the trial.
func (b *Board) drawStep() error {
	if b.Turns.TurnNumber() == 1 && b.cfg.Simulation.SkipFirstDraw {
		return nil
	}
	drawn, err := b.Zones.Draw(1)
	if errors.Is(err, zones.ErrLibraryEmpty) {
		b.logger.Debug("library empty on draw", zap.Int("turn", b.Turns.TurnNumber()))
		b.end(metrics.OutcomeLoss)
		return nil
	}
	if err != nil {
		return err
	}
	if err := b.fire(ability.EventDrawStep, nil, 0); err != nil {
		return err
	}
	for _, inst := range drawn {
		if err := b.fire(ability.EventCardDrawn, inst, 1); err != nil {
			return err
		}
	}
	return nil
}

// endStep fires end_step, cleans up and lets the opponents take their
// turns.
func (b *Board) endStep() error {
	if err := b.fire(ability.EventEndStep, nil, 0); err != nil {
		return err
	}
	b.Cleanup()
	if b.ended {
		return nil
	}
	return b.opponentTurn()
}

// Cleanup reverts end-of-turn effects, removes marked damage and empties
// the pool. Running it twice in one end step has the same result as once.
func (b *Board) Cleanup() {
	if n := b.Effects.EndOfTurn(); n > 0 {
		b.logger.Debug("end of turn effects expired", zap.Int("count", n))
	}
	for _, p := range b.permanents() {
		p.Damage = 0
	}
	b.Pool.Empty()
}

// opponentTurn grows the opponents' board and rolls their interaction.
func (b *Board) opponentTurn() error {
	b.Opponents.Grow(b.rng)

	if b.rng.Chance(b.Opponents.RemovalChance()) {
		if best, err := b.targets("", ability.TargetBestCreature); err == nil && len(best) > 0 {
			b.Collector.Diagnostics().RemovalTaken++
			b.logger.Debug("opponent removal", zap.String("card", best[0].Name()))
			if err := b.destroy(best[0]); err != nil {
				return err
			}
		}
	}

	if b.rng.Chance(b.Opponents.WipeChance(b.BoardPower())) {
		b.Collector.Diagnostics().WipesTaken++
		b.logger.Debug("opponent board wipe", zap.Int("board_power", b.BoardPower()))
		for _, c := range b.creatures() {
			if err := b.destroy(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// closeTurn stores the end-of-turn totals and resets per-turn watchers.
func (b *Board) closeTurn() {
	if !b.turnOpen {
		return
	}
	b.turnOpen = false
	b.Collector.EndTurn(b.BoardPower(), b.Pool.Spent()-b.spentMark)
	b.Collector.OpponentLife(b.Opponents.TotalLife())

	d := b.Collector.Diagnostics()
	d.CreaturesDied += b.PerTurn.Died.Count()
	d.PermanentsEntered += b.PerTurn.Entered.Count()
	b.logger.Debug("turn closed",
		zap.Int("turn", b.Turns.TurnNumber()),
		zap.Int("spells_cast", b.PerTurn.Spells.Count()),
		zap.Int("cards_drawn", b.PerTurn.Drawn.Count()),
		zap.Int("creatures_died", b.PerTurn.Died.Count()),
		zap.Int("board_power", b.BoardPower()),
		zap.Int("opponent_life", b.Opponents.TotalLife()),
	)
	b.Watchers.ResetAll()
}

// finish closes the last turn and produces the trial record.
func (b *Board) finish() metrics.TrialRecord {
	b.closeTurn()
	d := b.Collector.Diagnostics()
	d.DroppedFirings = b.Executor.Dropped()
	d.TriggersFired = b.Executor.Fired()
	d.EffectsResolved = b.Executor.Resolved()

	terminal := b.Turns.TurnNumber()
	if b.outcome == metrics.OutcomeTurnLimit {
		terminal = b.cfg.Simulation.MaxTurns
	}
	outcome := b.outcome
	if outcome == "" {
		outcome = metrics.OutcomeTurnLimit
	}
	b.Watchers.Close()
	return b.Collector.Finish(outcome, terminal)
}
