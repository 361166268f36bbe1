package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/card"
	"github.com/magefree/goldfish/internal/game/counters"
	"github.com/magefree/goldfish/internal/game/mana"
	"github.com/magefree/goldfish/internal/game/rules"
	"github.com/magefree/goldfish/internal/game/zones"
	"github.com/magefree/goldfish/internal/metrics"
)

func effectFrom(sourceID string, kind ability.EffectKind, p ability.Params) rules.PendingEffect {
	return rules.PendingEffect{SourceID: sourceID, SourceName: "test", Effect: ability.Effect{Kind: kind, Params: p}}
}

func pumpEffect(target string, power, toughness int) rules.PendingEffect {
	return effectFrom(target, ability.EffectPump, ability.Params{Power: power, Toughness: toughness})
}

func TestApply_AddMana(t *testing.T) {
	b := newTestBoard(t, nil)
	require.NoError(t, b.Apply(effectFrom("", ability.EffectAddMana, ability.Params{Amount: 2, Color: "R"})))
	require.NoError(t, b.Apply(effectFrom("", ability.EffectAddMana, ability.Params{Amount: 1, Color: "any color"})))
	assert.Equal(t, 2, b.Pool.Count(mana.Red))
	assert.Equal(t, 1, b.Pool.Count(mana.Any))
}

func TestApply_DrawFromEmptyLibraryIsNotALoss(t *testing.T) {
	b := newTestBoard(t, nil)
	place(t, b, creatureDef(t, "Bear", "{1}{G}", 2, 2), zones.Library)

	require.NoError(t, b.Apply(effectFrom("", ability.EffectDraw, ability.Params{Amount: 3})))
	assert.Equal(t, 1, b.Zones.Len(zones.Hand))
	assert.False(t, b.Ended())
	assert.Equal(t, 1, b.Collector.Current().CardsDrawn)
}

func TestApply_DrainHitsEachOpponent(t *testing.T) {
	cfg := testConfig()
	cfg.Opponent.Count = 3
	cfg.Opponent.StartingLife = 10
	b := newTestBoard(t, cfg)

	require.NoError(t, b.Apply(effectFrom("", ability.EffectDrain, ability.Params{Amount: 2})))
	for _, o := range b.Opponents.Opponents {
		assert.Equal(t, 8, o.Life)
	}
	assert.Equal(t, 6, b.Collector.Current().DrainDamage)
	assert.False(t, b.Ended())

	b.Opponents.Opponents[0].Life = 1
	b.Opponents.Opponents[1].Life = 2
	b.Opponents.Opponents[2].Life = 2
	require.NoError(t, b.Apply(effectFrom("", ability.EffectDrain, ability.Params{Amount: 2})))
	assert.True(t, b.Ended())
	assert.Equal(t, metrics.OutcomeWin, b.Outcome())
}

func TestApply_CreateTokens(t *testing.T) {
	b := newTestBoard(t, nil)
	spec := &ability.TokenSpec{Name: "Soldier", Power: 1, Toughness: 1}
	require.NoError(t, b.Apply(effectFrom("", ability.EffectCreateToken, ability.Params{Amount: 2, Token: spec})))

	assert.Equal(t, 2, b.Zones.Len(zones.Battlefield))
	assert.Equal(t, 2, b.Collector.Current().TokensCreated)
	assert.Equal(t, 2, b.BoardPower())

	tok := b.Zones.Top(zones.Battlefield)
	require.NoError(t, b.destroy(tok))
	_, tracked := b.Zones.ZoneOf(tok.ID)
	assert.False(t, tracked)
	assert.NoError(t, b.Zones.Verify())
}

func TestApply_PumpForTurnsExpiresAtUntap(t *testing.T) {
	b := newTestBoard(t, nil)
	bear := battlefield(t, b, creatureDef(t, "Bear", "{1}{G}", 2, 2))
	pe := effectFrom(bear.ID, ability.EffectPump, ability.Params{Power: 2, Amount: 1})
	require.NoError(t, b.Apply(pe))

	b.Cleanup()
	assert.Equal(t, 4, b.Snapshot(bear).Power)
	require.NoError(t, b.untap())
	assert.Equal(t, 2, b.Snapshot(bear).Power)
}

func TestApply_GrantKeywordToCreatures(t *testing.T) {
	b := newTestBoard(t, nil)
	a := battlefield(t, b, creatureDef(t, "Bear", "{1}{G}", 2, 2))
	c := battlefield(t, b, creatureDef(t, "Wolf", "{2}{G}", 3, 3))
	pe := effectFrom(a.ID, ability.EffectGrantKeyword, ability.Params{
		Keywords: ability.Keywords(ability.KeywordFlying),
		Target:   ability.TargetCreatures,
	})
	require.NoError(t, b.Apply(pe))
	assert.True(t, b.Snapshot(a).Keywords.Has(ability.KeywordFlying))
	assert.True(t, b.Snapshot(c).Keywords.Has(ability.KeywordFlying))
}

func TestApply_CountersOnBestCreature(t *testing.T) {
	b := newTestBoard(t, nil)
	battlefield(t, b, creatureDef(t, "Bear", "{1}{G}", 2, 2))
	wolf := battlefield(t, b, creatureDef(t, "Wolf", "{2}{G}", 3, 3))
	pe := effectFrom("", ability.EffectAddCounters, ability.Params{Amount: 2, Target: ability.TargetBestCreature})
	require.NoError(t, b.Apply(pe))
	assert.Equal(t, 2, wolf.Counters.Count(counters.P1P1))
	assert.Equal(t, 5, b.Snapshot(wolf).Power)
}

func TestApply_RampFetchesLandTapped(t *testing.T) {
	b := newTestBoard(t, nil)
	place(t, b, creatureDef(t, "Bear", "{1}{G}", 2, 2), zones.Library)
	forest := place(t, b, landDef(t, "Forest", "G"), zones.Library)

	require.NoError(t, b.Apply(effectFrom("", ability.EffectRamp, ability.Params{Amount: 1})))
	z, _ := b.Zones.ZoneOf(forest.ID)
	assert.Equal(t, zones.Battlefield, z)
	assert.True(t, forest.Tapped)
	assert.Equal(t, 1, b.Zones.Len(zones.Library))
}

func TestApply_SagaChaptersThenSacrifice(t *testing.T) {
	b := newTestBoard(t, nil)
	saga := define(t, card.Definition{
		Name:     "Tale",
		Types:    card.Types(0).With(card.TypeEnchantment),
		Chapters: 2,
		Abilities: []ability.Descriptor{
			ability.Triggered(ability.EventChapter, ability.Condition{Kind: ability.ConditionChapter, Value: 1},
				ability.Effect{Kind: ability.EffectGainLife, Params: ability.Params{Amount: 1}}),
			ability.Triggered(ability.EventChapter, ability.Condition{Kind: ability.ConditionChapter, Value: 2},
				ability.Effect{Kind: ability.EffectGainLife, Params: ability.Params{Amount: 10}}),
		},
	})
	life := b.Life
	inst := battlefield(t, b, saga)
	require.NoError(t, b.enterBattlefield(inst))
	assert.Equal(t, life+1, b.Life)
	assert.Equal(t, 1, inst.Counters.Count(counters.Lore))

	require.NoError(t, b.upkeep())
	assert.Equal(t, life+11, b.Life)
	z, _ := b.Zones.ZoneOf(inst.ID)
	assert.Equal(t, zones.Graveyard, z)
}

func TestApply_AttachAndEquippedStatic(t *testing.T) {
	b := newTestBoard(t, nil)
	battlefield(t, b, creatureDef(t, "Bear", "{1}{G}", 2, 2))
	wolf := battlefield(t, b, creatureDef(t, "Wolf", "{2}{G}", 3, 3))
	sword := battlefield(t, b, define(t, card.Definition{
		Name:  "Sword",
		Types: card.Types(0).With(card.TypeArtifact),
		Cost:  mana.MustParseCost("{2}"),
		Abilities: []ability.Descriptor{
			ability.StaticAbility(ability.Static{Modifier: ability.StaticEquipped, Power: 2, Toughness: 2}),
			ability.ActivatedAbility("{2}", false, ability.Effect{Kind: ability.EffectAttach}),
		},
	}))

	require.NoError(t, b.Apply(effectFrom(sword.ID, ability.EffectAttach, ability.Params{})))
	assert.Equal(t, wolf.ID, sword.AttachedTo)
	assert.Equal(t, 5, b.Snapshot(wolf).Power)

	require.NoError(t, b.destroy(wolf))
	assert.Empty(t, sword.AttachedTo)
}

func TestApply_SacrificeSelf(t *testing.T) {
	b := newTestBoard(t, nil)
	bear := battlefield(t, b, creatureDef(t, "Bear", "{1}{G}", 2, 2))
	require.NoError(t, b.Apply(effectFrom(bear.ID, ability.EffectSacrifice, ability.Params{})))
	z, _ := b.Zones.ZoneOf(bear.ID)
	assert.Equal(t, zones.Graveyard, z)
}

func TestApply_JournalsEveryEffect(t *testing.T) {
	b := newTestBoard(t, nil)
	require.NoError(t, b.Apply(effectFrom("", ability.EffectGainLife, ability.Params{Amount: 1})))
	require.NoError(t, b.Apply(effectFrom("", ability.EffectGainLife, ability.Params{Amount: 2})))
	require.Equal(t, 2, b.Journal.Size())
	assert.Equal(t, "untap", b.Journal.At(0).Phase)
	assert.Equal(t, 2, b.Journal.At(1).Effect.Effect.Params.Amount)
}

func TestApply_MillOnAttackDrainsEachOpponent(t *testing.T) {
	cfg := testConfig()
	cfg.Opponent.Count = 3
	b := newTestBoard(t, cfg)

	for i := 0; i < 10; i++ {
		place(t, b, creatureDef(t, "Bear", "{1}{G}", 2, 2), zones.Library)
	}
	const millCount = 2
	battlefield(t, b, define(t, card.Definition{
		Name: "Mill Scout", Types: creatureTypes(), Power: 1, Toughness: 1,
		Abilities: []ability.Descriptor{
			ability.Triggered(ability.EventAttack, ability.Condition{Kind: ability.ConditionSelf},
				ability.Effect{Kind: ability.EffectMill, Params: ability.Params{Amount: millCount}}),
		},
	}))
	battlefield(t, b, define(t, card.Definition{
		Name: "Grave Siphon", Types: card.Types(0).With(card.TypeEnchantment),
		Abilities: []ability.Descriptor{
			ability.Triggered(ability.EventMilled, ability.Condition{Kind: ability.ConditionCreature},
				ability.Effect{Kind: ability.EffectDrain, Params: ability.Params{Amount: 1}}),
		},
	}))

	before := b.Collector.Current().DrainDamage
	require.NoError(t, b.Combat())
	after := b.Collector.Current()
	assert.Equal(t, millCount*cfg.Opponent.Count, after.DrainDamage-before)
	assert.Equal(t, 1, after.CombatDamage)
	assert.Equal(t, millCount, b.Zones.Len(zones.Graveyard))
}

func TestExecutor_SelfRetriggeringTokensAreBounded(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.TriggerDepthLimit = 8
	b := newTestBoard(t, cfg)
	spec := &ability.TokenSpec{Name: "Spawn", Power: 1, Toughness: 1}
	engine := battlefield(t, b, define(t, card.Definition{
		Name: "Brood Engine", Types: card.Types(0).With(card.TypeEnchantment),
		Abilities: []ability.Descriptor{
			ability.Triggered(ability.EventTokenCreated, ability.Condition{},
				ability.Effect{Kind: ability.EffectCreateToken, Params: ability.Params{Amount: 1, Token: spec}}),
		},
	}))

	require.NoError(t, b.Executor.Resolve(effectFrom(engine.ID, ability.EffectCreateToken, ability.Params{Amount: 1, Token: spec})))
	assert.Equal(t, 1, b.Executor.Dropped())
	assert.Equal(t, 8, b.Executor.Fired())
	assert.Equal(t, 9, b.Zones.Len(zones.Battlefield)-1)
	assert.Zero(t, b.Executor.Depth(ability.EventTokenCreated))
}
