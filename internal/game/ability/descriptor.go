// Package ability holds the immutable ability descriptors a card carries.
// Descriptors are produced outside the simulator (from card text) and are
// never mutated by it.
package ability

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed marks a descriptor the simulator cannot interpret.
var ErrMalformed = errors.New("malformed ability descriptor")

// Kind tags the descriptor variant.
type Kind string

const (
	KindTriggered Kind = "triggered"
	KindStatic    Kind = "static"
	KindActivated Kind = "activated"
)

// Trigger is the payload of a triggered ability.
type Trigger struct {
	Event     Event
	Condition Condition
	Priority  int
	Effect    Effect
	Once      bool
}

// StaticKind selects a continuous modifier.
type StaticKind string

const (
	StaticAnthem        StaticKind = "anthem"
	StaticKeywordGrant  StaticKind = "keyword_grant"
	StaticCostReduction StaticKind = "cost_reduction"
	StaticEquipped      StaticKind = "equipped"
)

// Static is the payload of a static ability. Anthem and keyword grants
// touch the controller's creatures, Equipped touches only the creature the
// source is attached to, and cost reductions lower the generic part of
// spells whose type matches AppliesTo (empty means every spell).
type Static struct {
	Modifier  StaticKind
	Power     int
	Toughness int
	Keywords  KeywordSet
	Reduction int
	AppliesTo string
}

// Activated is the payload of an activated ability. Mana abilities are
// activated abilities whose effect is add_mana.
type Activated struct {
	Cost   string
	Tap    bool
	Effect Effect
}

// IsManaAbility reports whether activating produces mana.
func (a Activated) IsManaAbility() bool {
	return a.Effect.Kind == EffectAddMana
}

// Descriptor is a tagged variant: exactly one payload matches Kind.
type Descriptor struct {
	Kind      Kind
	Text      string
	Trigger   *Trigger
	Static    *Static
	Activated *Activated
}

// Triggered builds a triggered descriptor.
func Triggered(event Event, cond Condition, effect Effect) Descriptor {
	return Descriptor{Kind: KindTriggered, Trigger: &Trigger{Event: event, Condition: cond, Effect: effect}}
}

// StaticAbility builds a static descriptor.
func StaticAbility(s Static) Descriptor {
	return Descriptor{Kind: KindStatic, Static: &s}
}

// ActivatedAbility builds an activated descriptor.
func ActivatedAbility(cost string, tap bool, effect Effect) Descriptor {
	return Descriptor{Kind: KindActivated, Activated: &Activated{Cost: cost, Tap: tap, Effect: effect}}
}

// ManaAbility builds the common "{T}: add one mana of color" ability.
func ManaAbility(color string) Descriptor {
	return ActivatedAbility("", true, Effect{Kind: EffectAddMana, Params: Params{Amount: 1, Color: color}})
}

// Validate checks the variant tag against its payload.
func (d Descriptor) Validate() error {
	switch d.Kind {
	case KindTriggered:
		if d.Trigger == nil {
			return fmt.Errorf("%w: triggered ability without trigger", ErrMalformed)
		}
		if !d.Trigger.Event.Known() {
			return fmt.Errorf("%w: unknown event %q", ErrMalformed, d.Trigger.Event)
		}
		return d.Trigger.Effect.Validate()
	case KindStatic:
		if d.Static == nil {
			return fmt.Errorf("%w: static ability without modifier", ErrMalformed)
		}
		switch d.Static.Modifier {
		case StaticAnthem, StaticEquipped:
			if d.Static.Power == 0 && d.Static.Toughness == 0 && d.Static.Keywords.Empty() {
				return fmt.Errorf("%w: %s modifies nothing", ErrMalformed, d.Static.Modifier)
			}
		case StaticKeywordGrant:
			if d.Static.Keywords.Empty() {
				return fmt.Errorf("%w: keyword_grant without keywords", ErrMalformed)
			}
		case StaticCostReduction:
			if d.Static.Reduction <= 0 {
				return fmt.Errorf("%w: cost_reduction needs a positive reduction", ErrMalformed)
			}
		default:
			return fmt.Errorf("%w: unknown static modifier %q", ErrMalformed, d.Static.Modifier)
		}
		return nil
	case KindActivated:
		if d.Activated == nil {
			return fmt.Errorf("%w: activated ability without payload", ErrMalformed)
		}
		// Only free tap abilities are tapped for mana.
		if d.Activated.IsManaAbility() && (d.Activated.Cost != "" || !d.Activated.Tap) {
			return fmt.Errorf("%w: mana ability must be a {T} ability without a mana cost", ErrMalformed)
		}
		return d.Activated.Effect.Validate()
	default:
		return fmt.Errorf("%w: unknown ability kind %q", ErrMalformed, d.Kind)
	}
}

// ParseKind resolves a descriptor kind name.
func ParseKind(name string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(name))); k {
	case KindTriggered, KindStatic, KindActivated:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown ability kind %q", ErrMalformed, name)
	}
}
