package card

import (
	"fmt"
	"strings"
)

// Type is a card type flag.
type Type uint8

const (
	TypeLand Type = 1 << iota
	TypeCreature
	TypeArtifact
	TypeEnchantment
	TypeInstant
	TypeSorcery
	TypePlaneswalker
)

var typeNames = []struct {
	t    Type
	name string
}{
	{TypeLand, "land"},
	{TypeCreature, "creature"},
	{TypeArtifact, "artifact"},
	{TypeEnchantment, "enchantment"},
	{TypeInstant, "instant"},
	{TypeSorcery, "sorcery"},
	{TypePlaneswalker, "planeswalker"},
}

// Types is a set of card types.
type Types uint8

// Has reports whether t is in the set.
func (ts Types) Has(t Type) bool {
	return Types(t)&ts != 0
}

// With returns the set plus t.
func (ts Types) With(t Type) Types {
	return ts | Types(t)
}

// IsPermanent reports whether a card of these types stays on the battlefield.
func (ts Types) IsPermanent() bool {
	return ts != 0 && !ts.Has(TypeInstant) && !ts.Has(TypeSorcery)
}

// Matches reports whether the set matches a type name; empty matches all.
func (ts Types) Matches(name string) bool {
	if name == "" {
		return true
	}
	t, err := ParseType(name)
	return err == nil && ts.Has(t)
}

func (ts Types) String() string {
	var names []string
	for _, tn := range typeNames {
		if ts.Has(tn.t) {
			names = append(names, tn.name)
		}
	}
	return strings.Join(names, " ")
}

// ParseType resolves a single type name.
func ParseType(name string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, tn := range typeNames {
		if tn.name == key {
			return tn.t, nil
		}
	}
	return 0, fmt.Errorf("unknown card type %q", name)
}

// ParseTypes resolves a list of type names such as ["artifact", "creature"].
func ParseTypes(names []string) (Types, error) {
	var ts Types
	for _, name := range names {
		t, err := ParseType(name)
		if err != nil {
			return 0, err
		}
		ts = ts.With(t)
	}
	return ts, nil
}
