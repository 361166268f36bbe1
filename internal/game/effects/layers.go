// Package effects evaluates continuous effects (statics and temporary
// modifiers) over card snapshots and expires them by duration.
package effects

import (
	"fmt"

	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/card"
)

// Layer orders continuous effects: abilities first, then power/toughness.
type Layer int

const (
	LayerAbility Layer = 1 + iota
	LayerPowerToughness
)

var layerOrder = []Layer{LayerAbility, LayerPowerToughness}

// Snapshot is the derived characteristics of one permanent.
type Snapshot struct {
	CardID        string
	Types         card.Types
	Token         bool
	BasePower     int
	BaseToughness int
	Power         int
	Toughness     int
	BaseKeywords  ability.KeywordSet
	Keywords      ability.KeywordSet
	// Attached lists the IDs of permanents attached to this one.
	Attached []string
}

// NewSnapshot builds a snapshot of inst with counters already folded in.
func NewSnapshot(inst *card.Instance, attached []string) *Snapshot {
	s := &Snapshot{
		CardID:        inst.ID,
		Types:         inst.Def.Types,
		Token:         inst.Token,
		BasePower:     inst.BasePower(),
		BaseToughness: inst.BaseToughness(),
		BaseKeywords:  inst.Def.Keywords,
		Attached:      attached,
	}
	s.Reset()
	return s
}

// Reset restores derived characteristics to their base values.
func (s *Snapshot) Reset() {
	s.Power = s.BasePower
	s.Toughness = s.BaseToughness
	s.Keywords = s.BaseKeywords
}

// IsCreature reports whether the snapshot is a creature.
func (s *Snapshot) IsCreature() bool {
	return s.Types.Has(card.TypeCreature)
}

// HasAttached reports whether id is attached to the snapshot's permanent.
func (s *Snapshot) HasAttached(id string) bool {
	for _, a := range s.Attached {
		if a == id {
			return true
		}
	}
	return false
}

// ContinuousEffect modifies snapshots.
type ContinuousEffect interface {
	ID() string
	Layer() Layer
	SourceID() string
	AppliesTo(*Snapshot) bool
	Apply(*Snapshot)
}

// LayerSystem holds the continuous effects of one trial. Effects within a
// layer apply in registration order.
type LayerSystem struct {
	effects []ContinuousEffect
	seq     int
}

// NewLayerSystem constructs an empty layer system.
func NewLayerSystem() *LayerSystem {
	return &LayerSystem{}
}

// AddEffect registers an effect and returns its ID. An effect with the ID
// of a registered one replaces it in place.
func (ls *LayerSystem) AddEffect(effect ContinuousEffect) string {
	if effect == nil {
		return ""
	}
	for i, existing := range ls.effects {
		if existing.ID() == effect.ID() {
			ls.effects[i] = effect
			return effect.ID()
		}
	}
	ls.effects = append(ls.effects, effect)
	return effect.ID()
}

// NextID returns a fresh effect ID.
func (ls *LayerSystem) NextID(prefix string) string {
	ls.seq++
	return fmt.Sprintf("%s-%d", prefix, ls.seq)
}

// RemoveEffect removes a registered effect by ID.
func (ls *LayerSystem) RemoveEffect(id string) {
	ls.removeIf(func(e ContinuousEffect) bool { return e.ID() == id })
}

func (ls *LayerSystem) removeIf(pred func(ContinuousEffect) bool) int {
	kept := ls.effects[:0]
	removed := 0
	for _, e := range ls.effects {
		if pred(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	clear(ls.effects[len(kept):])
	ls.effects = kept
	return removed
}

// Len returns the number of registered effects.
func (ls *LayerSystem) Len() int {
	return len(ls.effects)
}

// Effects returns a copy of the registered effects.
func (ls *LayerSystem) Effects() []ContinuousEffect {
	out := make([]ContinuousEffect, len(ls.effects))
	copy(out, ls.effects)
	return out
}

// Apply evaluates every relevant effect, layer by layer, against snapshot.
func (ls *LayerSystem) Apply(snapshot *Snapshot) {
	if snapshot == nil {
		return
	}
	snapshot.Reset()
	for _, layer := range layerOrder {
		for _, effect := range ls.effects {
			if effect.Layer() == layer && effect.AppliesTo(snapshot) {
				effect.Apply(snapshot)
			}
		}
	}
}

// GetEffectsForCard returns the effects that currently apply to snapshot.
func (ls *LayerSystem) GetEffectsForCard(snapshot *Snapshot) []ContinuousEffect {
	var result []ContinuousEffect
	for _, effect := range ls.effects {
		if effect.AppliesTo(snapshot) {
			result = append(result, effect)
		}
	}
	return result
}
