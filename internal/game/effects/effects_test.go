package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/card"
)

func bear(id string) *card.Instance {
	return card.NewInstance(id, &card.Definition{
		Name:      "Bear",
		Types:     card.Types(0).With(card.TypeCreature),
		Power:     2,
		Toughness: 2,
	})
}

func TestLayerSystem_AnthemAndPump(t *testing.T) {
	m := NewEffectManager(nil)
	m.AddStatics("anthem", []ability.Static{{Modifier: ability.StaticAnthem, Power: 1, Toughness: 1}})
	m.AddTemporary(NewEffectBuilder("pump").Targeting("b1").Pump(3, 0))

	s1 := m.Evaluate(NewSnapshot(bear("b1"), nil))
	s2 := m.Evaluate(NewSnapshot(bear("b2"), nil))

	assert.Equal(t, 6, s1.Power)
	assert.Equal(t, 3, s1.Toughness)
	assert.Equal(t, 3, s2.Power)
}

func TestStaticEffect_Equipped(t *testing.T) {
	m := NewEffectManager(nil)
	m.AddStatics("sword", []ability.Static{{Modifier: ability.StaticEquipped, Power: 2, Keywords: ability.Keywords(ability.KeywordFlying)}})

	equipped := m.Evaluate(NewSnapshot(bear("b1"), []string{"sword"}))
	bare := m.Evaluate(NewSnapshot(bear("b2"), nil))

	assert.Equal(t, 4, equipped.Power)
	assert.True(t, equipped.Keywords.Has(ability.KeywordFlying))
	assert.Equal(t, 2, bare.Power)
	assert.False(t, bare.Keywords.Has(ability.KeywordFlying))
}

func TestStaticEffect_StableIDs(t *testing.T) {
	s := ability.Static{Modifier: ability.StaticAnthem, Power: 1}
	assert.Equal(t, NewStaticEffect("x", 0, s).ID(), NewStaticEffect("x", 0, s).ID())
	assert.NotEqual(t, NewStaticEffect("x", 0, s).ID(), NewStaticEffect("x", 1, s).ID())

	ls := NewLayerSystem()
	ls.AddEffect(NewStaticEffect("x", 0, s))
	ls.AddEffect(NewStaticEffect("x", 0, s))
	assert.Equal(t, 1, ls.Len(), "re-adding the same static replaces it")
}

func TestCleanupEndOfTurnEffects_Idempotent(t *testing.T) {
	m := NewEffectManager(nil)
	m.AddStatics("anthem", []ability.Static{{Modifier: ability.StaticAnthem, Power: 1, Toughness: 1}})
	m.AddTemporary(NewEffectBuilder("a").Targeting("b1").Pump(2, 2))
	m.AddTemporary(NewEffectBuilder("a").Targeting("b1").GrantKeywords(ability.Keywords(ability.KeywordHaste)))
	m.AddTemporary(NewEffectBuilder("a").Targeting("b1").ForTurns(2).Pump(1, 0))

	assert.Equal(t, 2, m.EndOfTurn())
	once := m.Evaluate(NewSnapshot(bear("b1"), nil))
	effectsAfterOnce := m.Layers().Len()

	assert.Equal(t, 0, m.EndOfTurn())
	twice := m.Evaluate(NewSnapshot(bear("b1"), nil))

	assert.Equal(t, once, twice)
	assert.Equal(t, effectsAfterOnce, m.Layers().Len())
	assert.Equal(t, 4, twice.Power)
	assert.False(t, twice.Keywords.Has(ability.KeywordHaste))
}

func TestTickDurations(t *testing.T) {
	m := NewEffectManager(nil)
	m.AddTemporary(NewEffectBuilder("a").Targeting("b1").ForTurns(2).Pump(1, 1))
	m.AddTemporary(NewEffectBuilder("a").Targeting("b1").Permanent().Pump(1, 1))

	assert.Equal(t, 0, m.Untap())
	assert.Equal(t, 1, m.Untap())
	assert.Equal(t, 1, m.Layers().Len())
}

func TestRemoveEffectsFromSource(t *testing.T) {
	m := NewEffectManager(nil)
	m.AddStatics("anthem", []ability.Static{{Modifier: ability.StaticAnthem, Power: 1}})
	m.AddTemporary(NewEffectBuilder("x").Targeting("b1", "b2").Pump(1, 1))
	m.AddTemporary(NewEffectBuilder("x").Targeting("anthem").Pump(1, 1))

	assert.Equal(t, 2, m.RemoveEffectsFromSource("anthem"))
	require.Equal(t, 1, m.Layers().Len())

	assert.Equal(t, 0, m.RemoveEffectsFromSource("b1"))
	tmp := m.Layers().Effects()[0].(*TemporaryEffect)
	assert.Equal(t, []string{"b2"}, tmp.TargetIDs())

	assert.Equal(t, 1, m.RemoveEffectsFromSource("b2"))
	assert.Zero(t, m.Layers().Len())
}

func TestCostReduction(t *testing.T) {
	m := NewEffectManager(nil)
	m.AddStatics("medallion", []ability.Static{{Modifier: ability.StaticCostReduction, Reduction: 1, AppliesTo: "creature"}})
	m.AddStatics("stone", []ability.Static{{Modifier: ability.StaticCostReduction, Reduction: 2}})

	creature := card.Types(0).With(card.TypeCreature)
	artifact := card.Types(0).With(card.TypeArtifact)
	assert.Equal(t, 3, m.CostReduction(creature.Matches))
	assert.Equal(t, 2, m.CostReduction(artifact.Matches))

	// Cost reductions never touch creature stats.
	assert.Equal(t, 2, m.Evaluate(NewSnapshot(bear("b1"), nil)).Power)
}

func TestAddTemporary_RequiresTargets(t *testing.T) {
	m := NewEffectManager(nil)
	assert.Empty(t, m.AddTemporary(NewEffectBuilder("x").Pump(1, 1)))
	assert.Empty(t, m.AddTemporary(nil))
}
