package deck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/card"
	"github.com/magefree/goldfish/internal/game/mana"
)

func find(d *Deck, name string) *card.Definition {
	for _, c := range d.Cards {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoad_SampleDeck(t *testing.T) {
	d, err := Load(zaptest.NewLogger(t), "testdata/gruul.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Gruul Stompy", d.Name)
	assert.Len(t, d.Cards, CommanderDeckSize)
	assert.Equal(t, 39, d.Lands())
	require.Len(t, d.Commanders(), 1)
	assert.Equal(t, "Ruric Thar", d.Commanders()[0].Name)
	assert.Empty(t, d.Validate())

	assert.Equal(t, 1, d.Malformed)
	require.Len(t, d.Problems, 1)
	assert.Contains(t, d.Problems[0], "summon_dragons")

	totem := find(d, "Chaos Totem")
	require.NotNil(t, totem)
	assert.Empty(t, totem.Triggers())
	assert.Len(t, totem.Activated(), 1)
}

func TestLoad_CardFields(t *testing.T) {
	d, err := Load(zaptest.NewLogger(t), "testdata/gruul.yaml")
	require.NoError(t, err)

	ruric := find(d, "Ruric Thar")
	assert.True(t, ruric.Keywords.Has(ability.KeywordVigilance))
	assert.True(t, ruric.Keywords.Has(ability.KeywordReach))
	assert.Equal(t, 6, ruric.CMC())

	elf := find(d, "Llanowar Elves")
	assert.True(t, elf.Has(card.CapManaSource))
	require.Len(t, elf.ManaAbilities(), 1)
	assert.Equal(t, "G", elf.ManaAbilities()[0].Effect.Params.Color)

	caller := find(d, "Beast Caller")
	require.Len(t, caller.Triggers(), 1)
	tr := caller.Triggers()[0]
	assert.Equal(t, ability.EventEntersBattlefield, tr.Event)
	assert.Equal(t, ability.ConditionSelf, tr.Condition.Kind)
	require.NotNil(t, tr.Effect.Params.Token)
	assert.Equal(t, "Beast", tr.Effect.Params.Token.Name)
	assert.True(t, caller.Has(card.CapTokenMaker))

	saga := find(d, "Saga of Growth")
	assert.Equal(t, 3, saga.Chapters)
	assert.True(t, saga.Has(card.CapSaga))
	assert.Equal(t, ability.Condition{Kind: ability.ConditionChapter, Value: 2}, saga.Triggers()[0].Condition)

	blade := find(d, "Trusty Blade")
	assert.True(t, blade.Has(card.CapEquipment))
	require.Len(t, blade.Statics(), 1)
	assert.Equal(t, ability.StaticEquipped, blade.Statics()[0].Modifier)

	growth := find(d, "Giant Growth")
	assert.Equal(t, ability.TargetBestCreature, growth.Triggers()[0].Effect.Params.Target)
	assert.False(t, growth.Types.IsPermanent())

	// Copies share one definition.
	var forests int
	for _, c := range d.Cards {
		if c == find(d, "Forest") {
			forests++
		}
	}
	assert.Equal(t, 20, forests)
}

func TestParse_SkipsMalformedAbilities(t *testing.T) {
	data := []byte(`
name: broken
cards:
  - name: Odd Relic
    types: [artifact]
    cost: "{2}"
    keywords: [flying, telepathy]
    produces: [purple]
    abilities:
      - kind: passive
      - kind: triggered
        event: moon_rises
        effect: draw
        params: {amount: 1}
      - kind: triggered
        event: upkeep
        effect: draw
      - kind: static
        modifier: anthem
      - kind: activated
        cost: "{Q}"
        effect: gain_life
        params: {amount: 1}
      - kind: triggered
        event: upkeep
        effect: gain_life
        params: {amount: 2, target: nowhere}
      - kind: triggered
        event: upkeep
        effect: gain_life
        params: {amount: 2}
`)
	d, err := Parse(zaptest.NewLogger(t), data)
	require.NoError(t, err)
	require.Len(t, d.Cards, 1)

	relic := d.Cards[0]
	assert.Equal(t, 8, d.Malformed)
	assert.Len(t, d.Problems, 8)
	require.Len(t, relic.Triggers(), 1)
	assert.Equal(t, ability.EffectGainLife, relic.Triggers()[0].Effect.Kind)
	assert.True(t, relic.Keywords.Has(ability.KeywordFlying))
	assert.Empty(t, relic.ManaAbilities())
}

func TestParse_PaidManaAbilityIsMalformed(t *testing.T) {
	d, err := Parse(zaptest.NewLogger(t), []byte(`
cards:
  - name: Worn Powerstone
    types: [artifact]
    cost: "{3}"
    abilities:
      - kind: activated
        cost: "{1}"
        tap: true
        effect: add_mana
        params: {amount: 2, color: C}
`))
	require.NoError(t, err)

	stone := d.Cards[0]
	assert.Equal(t, 1, d.Malformed)
	require.Len(t, d.Problems, 1)
	assert.Contains(t, d.Problems[0], "mana ability")
	assert.Empty(t, stone.ManaAbilities())
	assert.False(t, stone.Has(card.CapManaSource))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{name: "bad yaml", yaml: "cards: [", wantErr: nil},
		{name: "no cards", yaml: "name: empty", wantErr: ErrInvalidDeck},
		{name: "unnamed card", yaml: "cards:\n  - types: [land]", wantErr: ErrInvalidDeck},
		{name: "unknown type", yaml: "cards:\n  - name: X\n    types: [battle]", wantErr: ErrInvalidDeck},
		{name: "bad cost", yaml: "cards:\n  - name: X\n    types: [creature]\n    cost: \"{Z}\"", wantErr: mana.ErrUnknownSymbol},
		{name: "bare symbols after braces", yaml: "cards:\n  - name: X\n    types: [creature]\n    cost: \"{2}RR\"", wantErr: mana.ErrUnknownSymbol},
		{name: "negative count", yaml: "cards:\n  - name: X\n    count: -1\n    types: [land]", wantErr: ErrInvalidDeck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(zaptest.NewLogger(t), []byte(tt.yaml))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), err.Error())
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(nil, "testdata/missing.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	d, err := Parse(nil, []byte(`
cards:
  - name: Forest
    count: 60
    types: [land]
  - name: Captain
    commander: true
    types: [artifact]
  - name: Jace
    commander: true
    types: [planeswalker]
  - name: Bear
    commander: true
    types: [creature]
    power: 2
    toughness: 2
`))
	require.NoError(t, err)

	issues := d.Validate()
	require.Len(t, issues, 3)
	assert.Contains(t, issues[0], "63 cards")
	assert.Contains(t, issues[1], "3 commanders")
	assert.Contains(t, issues[2], "Captain")
	assert.Equal(t, 60, d.Lands())
}
