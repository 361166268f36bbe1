// Package card models card definitions (what a decklist entry is) and card
// instances (one physical copy inside a trial).
package card

import (
	"fmt"

	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/mana"
)

// Definition is the immutable description of a card shared by all of its
// instances.
type Definition struct {
	Name      string
	Commander bool
	Types     Types
	Cost      mana.Cost
	Power     int
	Toughness int
	Keywords  ability.KeywordSet
	Abilities []ability.Descriptor
	// Chapters is the final chapter number for sagas, zero otherwise.
	Chapters int

	caps Capabilities
}

// NewDefinition validates abilities and derives capability traits. Each
// malformed ability is skipped and reported; the card is still usable.
func NewDefinition(def Definition) (*Definition, []error) {
	var errs []error
	kept := make([]ability.Descriptor, 0, len(def.Abilities))
	for i, d := range def.Abilities {
		if err := d.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s ability %d: %w", def.Name, i, err))
			continue
		}
		kept = append(kept, d)
	}
	def.Abilities = kept
	def.caps = deriveCapabilities(kept, def.Chapters)
	if def.Types.Has(TypeLand) && !def.caps.Has(CapManaSource) {
		// Lands always tap for something.
		def.Abilities = append(def.Abilities, ability.ManaAbility("C"))
		def.caps |= Capabilities(CapManaSource)
	}
	return &def, errs
}

// Capabilities returns the derived traits.
func (d *Definition) Capabilities() Capabilities {
	return d.caps
}

// Has reports a single trait.
func (d *Definition) Has(c Capability) bool {
	return d.caps.Has(c)
}

// IsCreature reports whether the card is a creature.
func (d *Definition) IsCreature() bool {
	return d.Types.Has(TypeCreature)
}

// IsLand reports whether the card is a land.
func (d *Definition) IsLand() bool {
	return d.Types.Has(TypeLand)
}

// CMC returns the mana value.
func (d *Definition) CMC() int {
	return d.Cost.CMC()
}

// ManaAbilities returns the activated mana abilities.
func (d *Definition) ManaAbilities() []ability.Activated {
	var out []ability.Activated
	for _, desc := range d.Abilities {
		if desc.Kind == ability.KindActivated && desc.Activated.IsManaAbility() {
			out = append(out, *desc.Activated)
		}
	}
	return out
}

// Triggers returns the triggered abilities.
func (d *Definition) Triggers() []ability.Trigger {
	var out []ability.Trigger
	for _, desc := range d.Abilities {
		if desc.Kind == ability.KindTriggered {
			out = append(out, *desc.Trigger)
		}
	}
	return out
}

// Statics returns the static abilities.
func (d *Definition) Statics() []ability.Static {
	var out []ability.Static
	for _, desc := range d.Abilities {
		if desc.Kind == ability.KindStatic {
			out = append(out, *desc.Static)
		}
	}
	return out
}

// Activated returns the non-mana activated abilities.
func (d *Definition) Activated() []ability.Activated {
	var out []ability.Activated
	for _, desc := range d.Abilities {
		if desc.Kind == ability.KindActivated && !desc.Activated.IsManaAbility() {
			out = append(out, *desc.Activated)
		}
	}
	return out
}

// TokenDefinition builds a definition for a token.
func TokenDefinition(spec ability.TokenSpec) *Definition {
	types := Types(0).With(TypeCreature)
	if spec.Artifact {
		types = types.With(TypeArtifact)
	}
	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("%d/%d token", spec.Power, spec.Toughness)
	}
	return &Definition{
		Name:      name,
		Types:     types,
		Power:     spec.Power,
		Toughness: spec.Toughness,
		Keywords:  spec.Keywords,
	}
}
