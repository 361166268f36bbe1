package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrialSeed_Spreads(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		s := TrialSeed(1, i)
		require.False(t, seen[s], "duplicate seed at trial %d", i)
		seen[s] = true
	}
	assert.Equal(t, TrialSeed(5, 3), TrialSeed(5, 3))
	assert.NotEqual(t, TrialSeed(5, 3), TrialSeed(6, 3))
}

func TestRNG_Reproducible(t *testing.T) {
	a, b := NewRNG(11), NewRNG(11)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(7), b.IntN(7))
	}
	assert.Equal(t, 100, a.Draws())
}

func TestRNG_ChanceAlwaysDraws(t *testing.T) {
	g := NewRNG(3)
	assert.False(t, g.Chance(0))
	assert.True(t, g.Chance(1))
	assert.Equal(t, 2, g.Draws())
	assert.Zero(t, g.IntN(0))
	assert.Equal(t, 2, g.Draws())
}

func TestThreatModel(t *testing.T) {
	cfg := testConfig().Opponent
	cfg.Count = 3
	cfg.ThreatScale = 20
	cfg.BlockBase = 0.2
	cfg.BlockScale = 0.6
	cfg.RemovalChance = 0.2
	cfg.WipeChance = 0.1
	cfg.WipeBoardPower = 10
	m := NewThreatModel(cfg)

	assert.Zero(t, m.Threat())
	assert.Zero(t, m.Blockers())
	assert.Equal(t, 120, m.TotalLife())

	m.BoardPower = 10
	assert.InDelta(t, 0.5, m.Threat(), 1e-9)
	assert.Equal(t, 4, m.Blockers())
	assert.InDelta(t, 0.5, m.BlockChance(true), 1e-9)
	assert.InDelta(t, 0.375, m.BlockChance(false), 1e-9)
	assert.InDelta(t, 0.15, m.RemovalChance(), 1e-9)
	assert.Zero(t, m.WipeChance(9))
	assert.InDelta(t, 0.075, m.WipeChance(10), 1e-9)
	p, tough := m.BlockerStats()
	assert.Equal(t, 3, p)
	assert.Equal(t, 3, tough)

	m.BoardPower = 100
	assert.Equal(t, 1.0, m.Threat())

	m.Opponents[0].Life = 12
	m.Opponents[2].Life = 12
	assert.Equal(t, 0, m.Weakest().Index)
	m.Opponents[0].Life = 0
	assert.Equal(t, 2, m.Weakest().Index)
	assert.Len(t, m.Living(), 2)
	assert.Equal(t, 52, m.TotalLife())

	m.Opponents[1].Life = -3
	m.Opponents[2].Life = 0
	assert.True(t, m.AllDead())
	assert.Nil(t, m.Weakest())
	assert.Zero(t, m.Blockers())
}

func TestThreatModel_Grow(t *testing.T) {
	cfg := testConfig().Opponent
	cfg.GrowthPerTurn = 2.5
	cfg.FlyerChance = 1
	m := NewThreatModel(cfg)

	m.Grow(NewRNG(1))
	m.Grow(NewRNG(1))
	assert.InDelta(t, 5.0, m.BoardPower, 1e-9)
	assert.True(t, m.HasFlyers)
}

func TestThreatModel_LoseBlockers(t *testing.T) {
	cfg := testConfig().Opponent
	cfg.ThreatScale = 20
	m := NewThreatModel(cfg)
	m.BoardPower = 12

	m.LoseBlockers(2, 3)
	assert.InDelta(t, 6.0, m.BoardPower, 1e-9)
	assert.InDelta(t, 0.3, m.Threat(), 1e-9)
	assert.Equal(t, 2, m.Blockers())

	m.LoseBlockers(0, 3)
	m.LoseBlockers(1, 0)
	assert.InDelta(t, 6.0, m.BoardPower, 1e-9)

	m.LoseBlockers(5, 4)
	assert.Zero(t, m.BoardPower)
	assert.Zero(t, m.Blockers())
}
