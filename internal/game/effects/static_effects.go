package effects

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/magefree/goldfish/internal/game/ability"
)

var staticNamespace = uuid.MustParse("0d6f1c3e-7a44-4b0e-9a1b-2f3c5d7e9a10")

// StaticEffect is the continuous effect of a static ability while its
// source is on the battlefield.
type StaticEffect struct {
	id       string
	sourceID string
	static   ability.Static
}

// NewStaticEffect builds the effect for the index-th static of a source.
// IDs are stable for a given source and index.
func NewStaticEffect(sourceID string, index int, s ability.Static) *StaticEffect {
	seed := fmt.Sprintf("%s|%d|%s", sourceID, index, s.Modifier)
	return &StaticEffect{
		id:       uuid.NewSHA1(staticNamespace, []byte(seed)).String(),
		sourceID: sourceID,
		static:   s,
	}
}

// ID returns the unique identifier.
func (e *StaticEffect) ID() string { return e.id }

// SourceID returns the permanent granting the effect.
func (e *StaticEffect) SourceID() string { return e.sourceID }

// GetDuration implements EffectWithDuration.
func (e *StaticEffect) GetDuration() Duration { return DurationWhileOnBattlefield }

// Static returns the underlying descriptor payload.
func (e *StaticEffect) Static() ability.Static { return e.static }

// Layer places keyword grants before power/toughness changes.
func (e *StaticEffect) Layer() Layer {
	if e.static.Modifier == ability.StaticKeywordGrant {
		return LayerAbility
	}
	return LayerPowerToughness
}

// AppliesTo selects the creatures the modifier touches.
func (e *StaticEffect) AppliesTo(s *Snapshot) bool {
	if s == nil || !s.IsCreature() {
		return false
	}
	switch e.static.Modifier {
	case ability.StaticAnthem, ability.StaticKeywordGrant:
		return true
	case ability.StaticEquipped:
		return s.HasAttached(e.sourceID)
	case ability.StaticCostReduction:
		return false
	}
	return false
}

// Apply mutates the snapshot.
func (e *StaticEffect) Apply(s *Snapshot) {
	s.Power += e.static.Power
	s.Toughness += e.static.Toughness
	s.Keywords = s.Keywords.With(e.static.Keywords)
}
