package card

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/counters"
	"github.com/magefree/goldfish/internal/game/mana"
)

func TestNewDefinition_SkipsMalformedAbilities(t *testing.T) {
	def, errs := NewDefinition(Definition{
		Name:  "Mystic Archivist",
		Types: Types(0).With(TypeCreature),
		Cost:  mana.MustParseCost("{2}{U}"),
		Abilities: []ability.Descriptor{
			ability.Triggered(ability.EventEntersBattlefield, ability.Condition{Kind: ability.ConditionSelf},
				ability.Effect{Kind: ability.EffectDraw, Params: ability.Params{Amount: 1}}),
			{Kind: ability.KindTriggered},
			ability.Triggered("explodes", ability.Condition{}, ability.Effect{Kind: ability.EffectDraw, Params: ability.Params{Amount: 1}}),
		},
	})

	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.True(t, errors.Is(err, ability.ErrMalformed))
	}
	assert.Len(t, def.Abilities, 1)
	assert.True(t, def.Has(CapCardDraw))
	assert.False(t, def.Has(CapManaSource))
}

func TestNewDefinition_PaidManaAbilityIsNotASource(t *testing.T) {
	def, errs := NewDefinition(Definition{
		Name:  "Worn Powerstone",
		Types: Types(0).With(TypeArtifact),
		Cost:  mana.MustParseCost("{3}"),
		Abilities: []ability.Descriptor{
			ability.ActivatedAbility("{1}", true, ability.Effect{Kind: ability.EffectAddMana, Params: ability.Params{Amount: 2, Color: "C"}}),
		},
	})

	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ability.ErrMalformed))
	assert.Empty(t, def.ManaAbilities())
	assert.False(t, def.Has(CapManaSource))
}

func TestNewDefinition_LandGetsManaAbility(t *testing.T) {
	def, errs := NewDefinition(Definition{Name: "Wastes", Types: Types(0).With(TypeLand)})
	require.Empty(t, errs)
	assert.True(t, def.Has(CapManaSource))
	require.Len(t, def.ManaAbilities(), 1)
	assert.Equal(t, "C", def.ManaAbilities()[0].Effect.Params.Color)
}

func TestDeriveCapabilities(t *testing.T) {
	def, _ := NewDefinition(Definition{
		Name:  "Test Rock",
		Types: Types(0).With(TypeArtifact),
		Abilities: []ability.Descriptor{
			ability.ManaAbility("any"),
			ability.StaticAbility(ability.Static{Modifier: ability.StaticCostReduction, Reduction: 1}),
			ability.Triggered(ability.EventUpkeep, ability.Condition{}, ability.Effect{Kind: ability.EffectCreateToken,
				Params: ability.Params{Amount: 1, Token: &ability.TokenSpec{Power: 1, Toughness: 1}}}),
		},
	})
	caps := def.Capabilities()
	assert.True(t, caps.Has(CapManaSource))
	assert.True(t, caps.Has(CapCostReducer))
	assert.True(t, caps.Has(CapTokenMaker))
	assert.False(t, caps.Has(CapDrain))
	assert.Equal(t, "mana_source,token_maker,cost_reducer", caps.String())
}

func TestTypes(t *testing.T) {
	ts, err := ParseTypes([]string{"Artifact", "creature"})
	require.NoError(t, err)
	assert.True(t, ts.Has(TypeArtifact))
	assert.True(t, ts.Has(TypeCreature))
	assert.True(t, ts.IsPermanent())
	assert.True(t, ts.Matches("creature"))
	assert.True(t, ts.Matches(""))
	assert.False(t, ts.Matches("land"))
	assert.Equal(t, "creature artifact", ts.String())

	sorcery, _ := ParseTypes([]string{"sorcery"})
	assert.False(t, sorcery.IsPermanent())

	_, err = ParseTypes([]string{"tribal-ish"})
	assert.Error(t, err)
}

func TestIDSource_Deterministic(t *testing.T) {
	a := NewIDSource(42)
	b := NewIDSource(42)
	c := NewIDSource(43)

	first := a.Next("Forest")
	assert.Equal(t, first, b.Next("Forest"))
	assert.NotEqual(t, first, c.Next("Forest"))
	assert.NotEqual(t, first, a.Next("Forest"), "copies get distinct IDs")
}

func TestInstance_CountersAndReset(t *testing.T) {
	def := &Definition{Name: "Bear", Types: Types(0).With(TypeCreature), Power: 2, Toughness: 2}
	inst := NewInstance("bear-1", def)
	inst.Counters.Add(counters.P1P1, 2)
	inst.Tapped = true
	inst.Damage = 1

	assert.Equal(t, 4, inst.BasePower())
	assert.Equal(t, 4, inst.BaseToughness())

	inst.Reset()
	assert.Equal(t, 2, inst.BasePower())
	assert.False(t, inst.Tapped)
	assert.Zero(t, inst.Damage)
}

func TestNewToken(t *testing.T) {
	tok := NewToken("t1", ability.TokenSpec{Name: "Thopter", Power: 1, Toughness: 1, Artifact: true,
		Keywords: ability.Keywords(ability.KeywordFlying)})
	assert.True(t, tok.IsToken())
	assert.True(t, tok.IsCreature())
	assert.True(t, tok.Def.Types.Has(TypeArtifact))
	assert.True(t, tok.Def.Keywords.Has(ability.KeywordFlying))
	assert.Equal(t, "Thopter", tok.Name())
}
