package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/goldfish/internal/config"
	"github.com/magefree/goldfish/internal/deck"
	"github.com/magefree/goldfish/internal/game"
	"github.com/magefree/goldfish/internal/metrics"
	"github.com/magefree/goldfish/internal/sim"
)

// monoDeck builds a 100 card list: a harmless commander, 40 basics and 59 copies
// of a single one-mana creature described by creature.
func monoDeck(color, creature string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "name: mono %s\ncards:\n", color)
	fmt.Fprintf(&sb, "  - name: General\n    commander: true\n    types: [creature]\n    cost: \"{1}{%s}\"\n    power: 0\n    toughness: 1\n", color)
	fmt.Fprintf(&sb, "  - name: Basic\n    count: 40\n    types: [land]\n    produces: [%s]\n", color)
	fmt.Fprintf(&sb, "  - name: Grunt\n    count: 59\n    types: [creature]\n    cost: \"{%s}\"\n%s", color, creature)
	return []byte(sb.String())
}

// calmConfig is a single opponent that never interacts.
func calmConfig() *config.Config {
	cfg := config.Default()
	cfg.Simulation.MaxTurns = 15
	cfg.Simulation.Trials = 20
	cfg.Opponent.Count = 1
	cfg.Opponent.StartingLife = 10
	cfg.Opponent.RemovalChance = 0
	cfg.Opponent.WipeChance = 0
	cfg.Opponent.BlockBase = 0
	cfg.Opponent.BlockScale = 0
	cfg.Heuristic.HoldBackChance = 0
	return cfg
}

func runBatch(t *testing.T, cfg *config.Config, data []byte, workers int) *sim.Result {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))

	d, err := deck.Parse(logger, data)
	require.NoError(t, err)
	require.Empty(t, d.Validate())

	engine := game.NewEngine(logger, cfg, d.Cards, d.Malformed)
	batch := sim.NewBatch(d.Name, cfg.Simulation.Trials, cfg.Simulation.Seed)
	result, err := sim.NewRunner(logger, engine, workers).Run(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, result.Records, cfg.Simulation.Trials)
	return result
}

func TestSimulation_DrainDeckWinsByDrain(t *testing.T) {
	drainer := `    power: 0
    toughness: 1
    abilities:
      - kind: triggered
        event: upkeep
        effect: drain
        params: {amount: 1}
`
	result := runBatch(t, calmConfig(), monoDeck("B", drainer), 4)

	assert.Positive(t, result.Summary.Outcomes[metrics.OutcomeWin])
	for _, r := range result.Records {
		assert.Zero(t, r.TotalCombat(), "trial %d", r.Trial)
		if r.Outcome == metrics.OutcomeWin {
			assert.Equal(t, metrics.WinDrain, r.WinType, "trial %d", r.Trial)
			assert.GreaterOrEqual(t, r.TotalDrain(), 10)
		}
	}
	assert.Equal(t, result.Summary.Outcomes[metrics.OutcomeWin], result.Summary.WinTypes[metrics.WinDrain])
}

func TestSimulation_BeatdownDeckWinsByCombat(t *testing.T) {
	grunt := `    power: 2
    toughness: 1
    keywords: [haste]
`
	result := runBatch(t, calmConfig(), monoDeck("R", grunt), 4)

	assert.Equal(t, 1.0, result.Summary.WinRate)
	assert.Equal(t, result.Summary.Trials, result.Summary.WinTypes[metrics.WinCombat])
	for _, r := range result.Records {
		assert.Zero(t, r.TotalDrain(), "trial %d", r.Trial)
		assert.Less(t, r.TerminalTurn, 15)
	}
}

func TestSimulation_SummaryInvariants(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Trials = 16
	logger := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))
	d, err := deck.Load(logger, "../deck/testdata/gruul.yaml")
	require.NoError(t, err)

	engine := game.NewEngine(logger, cfg, d.Cards, d.Malformed)
	result, err := sim.NewRunner(logger, engine, 3).Run(context.Background(), sim.NewBatch(d.Name, cfg.Simulation.Trials, cfg.Simulation.Seed))
	require.NoError(t, err)

	s := result.Summary
	assert.Equal(t, cfg.Simulation.Trials, s.Trials)
	assert.Zero(t, s.Outcomes[metrics.OutcomeAborted])
	assert.Equal(t, cfg.Simulation.Trials, s.Diagnostics.MalformedAbilities)

	var total int
	for _, n := range s.Outcomes {
		total += n
	}
	assert.Equal(t, s.Trials, total)

	require.NotEmpty(t, s.Turns)
	assert.LessOrEqual(t, len(s.Turns), cfg.Simulation.MaxTurns)
	for i, tb := range s.Turns {
		assert.Equal(t, i+1, tb.Turn)
		// Cumulative damage counts every trial and never decreases.
		assert.Equal(t, s.Trials, tb.CumulativeDamage.N)
		if i > 0 {
			assert.GreaterOrEqual(t, tb.CumulativeDamage.Mean, s.Turns[i-1].CumulativeDamage.Mean)
			assert.LessOrEqual(t, tb.Running, s.Turns[i-1].Running)
		}
		assert.LessOrEqual(t, tb.CumulativeDamage.P10, tb.CumulativeDamage.P50)
		assert.LessOrEqual(t, tb.CumulativeDamage.P50, tb.CumulativeDamage.P90)
	}

	for i, r := range result.Records {
		assert.Equal(t, i, r.Trial)
		assert.Equal(t, game.TrialSeed(cfg.Simulation.Seed, i), r.Seed)
		assert.Len(t, r.Phases, r.TerminalTurn)
	}
}
