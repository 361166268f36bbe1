// Package deck loads decklists from YAML files and builds the card
// definitions a trial engine plays with.
package deck

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/card"
	"github.com/magefree/goldfish/internal/game/mana"
)

// CommanderDeckSize is the size of a legal commander decklist.
const CommanderDeckSize = 100

// ErrInvalidDeck marks a decklist that cannot be played at all.
var ErrInvalidDeck = errors.New("invalid decklist")

// File is the top-level YAML structure.
type File struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry is one distinct card and how many copies the list runs.
type CardEntry struct {
	Name      string         `yaml:"name"`
	Count     int            `yaml:"count"`
	Commander bool           `yaml:"commander"`
	Types     []string       `yaml:"types"`
	Cost      string         `yaml:"cost"`
	Power     int            `yaml:"power"`
	Toughness int            `yaml:"toughness"`
	Keywords  []string       `yaml:"keywords"`
	Produces  []string       `yaml:"produces"`
	Chapters  int            `yaml:"chapters"`
	Abilities []AbilityEntry `yaml:"abilities"`
}

// AbilityEntry is a structured ability descriptor. Which fields apply
// depends on Kind.
type AbilityEntry struct {
	Kind string `yaml:"kind"`
	Text string `yaml:"text"`

	// triggered
	Event     string `yaml:"event"`
	Condition string `yaml:"condition"`
	Value     int    `yaml:"value"`
	Priority  int    `yaml:"priority"`
	Once      bool   `yaml:"once"`

	// triggered and activated
	Effect string      `yaml:"effect"`
	Params ParamsEntry `yaml:"params"`

	// activated
	Cost string `yaml:"cost"`
	Tap  bool   `yaml:"tap"`

	// static
	Modifier  string   `yaml:"modifier"`
	Power     int      `yaml:"power"`
	Toughness int      `yaml:"toughness"`
	Keywords  []string `yaml:"keywords"`
	Reduction int      `yaml:"reduction"`
	AppliesTo string   `yaml:"applies_to"`
}

// ParamsEntry holds effect parameters.
type ParamsEntry struct {
	Amount    int         `yaml:"amount"`
	Power     int         `yaml:"power"`
	Toughness int         `yaml:"toughness"`
	Color     string      `yaml:"color"`
	Keywords  []string    `yaml:"keywords"`
	Counter   string      `yaml:"counter"`
	Target    string      `yaml:"target"`
	Token     *TokenEntry `yaml:"token"`
}

// TokenEntry describes a token an effect creates.
type TokenEntry struct {
	Name      string   `yaml:"name"`
	Power     int      `yaml:"power"`
	Toughness int      `yaml:"toughness"`
	Keywords  []string `yaml:"keywords"`
	Artifact  bool     `yaml:"artifact"`
}

// Deck is a loaded decklist. Cards holds one definition per physical card;
// copies share a definition.
type Deck struct {
	Name  string
	Cards []*card.Definition
	// Malformed counts abilities skipped while loading.
	Malformed int
	// Problems lists every skipped ability and ignored field.
	Problems []string
}

// Load reads and parses a decklist file.
func Load(logger *zap.Logger, path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck %s: %w", path, err)
	}
	d, err := Parse(logger, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse builds a deck from YAML. Malformed abilities are skipped with a
// warning; a card whose types or cost cannot be read fails the whole list.
func Parse(logger *zap.Logger, data []byte) (*Deck, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	if len(f.Cards) == 0 {
		return nil, fmt.Errorf("%w: no cards", ErrInvalidDeck)
	}

	d := &Deck{Name: f.Name}
	for i, entry := range f.Cards {
		def, problems, err := buildDefinition(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: card %d: %w", ErrInvalidDeck, i+1, err)
		}
		for _, p := range problems {
			logger.Warn("skipping malformed ability",
				zap.String("card", entry.Name),
				zap.String("problem", p),
			)
		}
		d.Malformed += len(problems)
		d.Problems = append(d.Problems, problems...)

		count := entry.Count
		if count == 0 {
			count = 1
		}
		for range count {
			d.Cards = append(d.Cards, def)
		}
	}

	logger.Debug("deck loaded",
		zap.String("deck", d.Name),
		zap.Int("cards", len(d.Cards)),
		zap.Int("malformed", d.Malformed),
	)
	return d, nil
}

// buildDefinition turns an entry into a definition. problems are the
// malformed abilities that were dropped.
func buildDefinition(entry CardEntry) (*card.Definition, []string, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return nil, nil, errors.New("card without a name")
	}
	if entry.Count < 0 {
		return nil, nil, fmt.Errorf("%s: negative count %d", name, entry.Count)
	}
	types, err := card.ParseTypes(entry.Types)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	cost, err := mana.ParseCost(entry.Cost)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}

	var problems []string
	keywords, unknown := ability.ParseKeywords(entry.Keywords)
	for _, k := range unknown {
		problems = append(problems, fmt.Sprintf("%s: unknown keyword %q", name, k))
	}

	var descs []ability.Descriptor
	for _, color := range entry.Produces {
		if _, err := mana.ParseColor(color); err != nil {
			problems = append(problems, fmt.Sprintf("%s: produces: %v", name, err))
			continue
		}
		descs = append(descs, ability.ManaAbility(color))
	}
	for i, a := range entry.Abilities {
		desc, err := buildAbility(a)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s ability %d: %v", name, i, err))
			continue
		}
		descs = append(descs, desc)
	}

	def, errs := card.NewDefinition(card.Definition{
		Name:      name,
		Commander: entry.Commander,
		Types:     types,
		Cost:      cost,
		Power:     entry.Power,
		Toughness: entry.Toughness,
		Keywords:  keywords,
		Abilities: descs,
		Chapters:  entry.Chapters,
	})
	for _, err := range errs {
		problems = append(problems, err.Error())
	}
	return def, problems, nil
}

func buildAbility(a AbilityEntry) (ability.Descriptor, error) {
	kind, err := ability.ParseKind(a.Kind)
	if err != nil {
		return ability.Descriptor{}, err
	}
	switch kind {
	case ability.KindTriggered:
		cond, err := ability.ParseCondition(a.Condition, a.Value)
		if err != nil {
			return ability.Descriptor{}, err
		}
		effect, err := buildEffect(a.Effect, a.Params)
		if err != nil {
			return ability.Descriptor{}, err
		}
		d := ability.Triggered(ability.Event(strings.ToLower(strings.TrimSpace(a.Event))), cond, effect)
		d.Trigger.Priority = a.Priority
		d.Trigger.Once = a.Once
		d.Text = a.Text
		return d, nil
	case ability.KindActivated:
		if a.Cost != "" {
			if _, err := mana.ParseCost(a.Cost); err != nil {
				return ability.Descriptor{}, fmt.Errorf("%w: %w", ability.ErrMalformed, err)
			}
		}
		effect, err := buildEffect(a.Effect, a.Params)
		if err != nil {
			return ability.Descriptor{}, err
		}
		d := ability.ActivatedAbility(a.Cost, a.Tap, effect)
		d.Text = a.Text
		return d, nil
	default:
		keywords, unknown := ability.ParseKeywords(a.Keywords)
		if len(unknown) > 0 {
			return ability.Descriptor{}, fmt.Errorf("%w: unknown keywords %v", ability.ErrMalformed, unknown)
		}
		d := ability.StaticAbility(ability.Static{
			Modifier:  ability.StaticKind(strings.ToLower(strings.TrimSpace(a.Modifier))),
			Power:     a.Power,
			Toughness: a.Toughness,
			Keywords:  keywords,
			Reduction: a.Reduction,
			AppliesTo: a.AppliesTo,
		})
		d.Text = a.Text
		return d, nil
	}
}

func buildEffect(tag string, p ParamsEntry) (ability.Effect, error) {
	kind, err := ability.ParseEffectKind(tag)
	if err != nil {
		return ability.Effect{}, err
	}
	target, err := ability.ParseTarget(p.Target)
	if err != nil {
		return ability.Effect{}, err
	}
	keywords, unknown := ability.ParseKeywords(p.Keywords)
	if len(unknown) > 0 {
		return ability.Effect{}, fmt.Errorf("%w: unknown keywords %v", ability.ErrMalformed, unknown)
	}
	params := ability.Params{
		Amount:    p.Amount,
		Power:     p.Power,
		Toughness: p.Toughness,
		Color:     p.Color,
		Keywords:  keywords,
		Counter:   p.Counter,
		Target:    target,
	}
	if p.Token != nil {
		tk, unknown := ability.ParseKeywords(p.Token.Keywords)
		if len(unknown) > 0 {
			return ability.Effect{}, fmt.Errorf("%w: unknown token keywords %v", ability.ErrMalformed, unknown)
		}
		params.Token = &ability.TokenSpec{
			Name:      p.Token.Name,
			Power:     p.Token.Power,
			Toughness: p.Token.Toughness,
			Keywords:  tk,
			Artifact:  p.Token.Artifact,
		}
	}
	return ability.Effect{Kind: kind, Params: params}, nil
}

// Commanders returns the distinct commander definitions.
func (d *Deck) Commanders() []*card.Definition {
	var out []*card.Definition
	seen := make(map[*card.Definition]bool)
	for _, c := range d.Cards {
		if c.Commander && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Lands counts the lands in the list.
func (d *Deck) Lands() int {
	n := 0
	for _, c := range d.Cards {
		if c.IsLand() {
			n++
		}
	}
	return n
}

// Validate reports format problems that do not stop a simulation: the
// list size and the number of commanders.
func (d *Deck) Validate() []string {
	var issues []string
	if len(d.Cards) != CommanderDeckSize {
		issues = append(issues, fmt.Sprintf("deck has %d cards, expected %d", len(d.Cards), CommanderDeckSize))
	}
	switch n := len(d.Commanders()); {
	case n == 0:
		issues = append(issues, "deck has no commander")
	case n > 2:
		issues = append(issues, fmt.Sprintf("deck has %d commanders, at most 2 are allowed", n))
	}
	for _, c := range d.Commanders() {
		if !c.IsCreature() && !c.Types.Has(card.TypePlaneswalker) {
			issues = append(issues, fmt.Sprintf("commander %s is not a creature", c.Name))
		}
	}
	return issues
}
