package effects

import (
	"slices"

	"github.com/magefree/goldfish/internal/game/ability"
)

// TemporaryEffect is a pump or keyword grant on specific permanents.
type TemporaryEffect struct {
	id        string
	sourceID  string
	targetIDs []string
	power     int
	toughness int
	keywords  ability.KeywordSet
	duration  Duration
	turns     int
}

// ID returns the unique identifier.
func (e *TemporaryEffect) ID() string { return e.id }

// SourceID returns the permanent that created the effect.
func (e *TemporaryEffect) SourceID() string { return e.sourceID }

// GetDuration implements EffectWithDuration.
func (e *TemporaryEffect) GetDuration() Duration { return e.duration }

// TargetIDs returns the affected permanents.
func (e *TemporaryEffect) TargetIDs() []string { return slices.Clone(e.targetIDs) }

// Layer puts pure keyword grants in the ability layer.
func (e *TemporaryEffect) Layer() Layer {
	if e.power == 0 && e.toughness == 0 {
		return LayerAbility
	}
	return LayerPowerToughness
}

// AppliesTo reports whether the snapshot is a target.
func (e *TemporaryEffect) AppliesTo(s *Snapshot) bool {
	return s != nil && slices.Contains(e.targetIDs, s.CardID)
}

// Apply mutates the snapshot.
func (e *TemporaryEffect) Apply(s *Snapshot) {
	s.Power += e.power
	s.Toughness += e.toughness
	s.Keywords = s.Keywords.With(e.keywords)
}

// Tick counts down a DurationTurns effect.
func (e *TemporaryEffect) Tick() bool {
	if e.duration != DurationTurns {
		return false
	}
	e.turns--
	return e.turns <= 0
}

func (e *TemporaryEffect) dropTarget(id string) {
	e.targetIDs = slices.DeleteFunc(e.targetIDs, func(t string) bool { return t == id })
}

// EffectBuilder assembles a temporary effect fluently.
type EffectBuilder struct {
	sourceID  string
	targetIDs []string
	duration  Duration
	turns     int
}

// NewEffectBuilder starts an end-of-turn effect from sourceID.
func NewEffectBuilder(sourceID string) *EffectBuilder {
	return &EffectBuilder{sourceID: sourceID, duration: DurationEndOfTurn}
}

// Targeting sets the affected permanents.
func (b *EffectBuilder) Targeting(targetIDs ...string) *EffectBuilder {
	b.targetIDs = append(b.targetIDs, targetIDs...)
	return b
}

// UntilEndOfTurn makes the effect expire in the end step.
func (b *EffectBuilder) UntilEndOfTurn() *EffectBuilder {
	b.duration = DurationEndOfTurn
	return b
}

// ForTurns makes the effect expire after n untap steps.
func (b *EffectBuilder) ForTurns(n int) *EffectBuilder {
	if n <= 0 {
		return b.UntilEndOfTurn()
	}
	b.duration = DurationTurns
	b.turns = n
	return b
}

// Permanent makes the effect last for the rest of the trial.
func (b *EffectBuilder) Permanent() *EffectBuilder {
	b.duration = DurationPermanent
	return b
}

// Pump builds a power/toughness bonus.
func (b *EffectBuilder) Pump(power, toughness int) *TemporaryEffect {
	return b.build(power, toughness, 0)
}

// GrantKeywords builds a keyword grant.
func (b *EffectBuilder) GrantKeywords(ks ability.KeywordSet) *TemporaryEffect {
	return b.build(0, 0, ks)
}

func (b *EffectBuilder) build(power, toughness int, ks ability.KeywordSet) *TemporaryEffect {
	return &TemporaryEffect{
		sourceID:  b.sourceID,
		targetIDs: slices.Clone(b.targetIDs),
		power:     power,
		toughness: toughness,
		keywords:  ks,
		duration:  b.duration,
		turns:     b.turns,
	}
}

// EffectManager is the trial-facing front of the layer system.
type EffectManager struct {
	layers *LayerSystem
}

// NewEffectManager wraps a layer system.
func NewEffectManager(layerSystem *LayerSystem) *EffectManager {
	if layerSystem == nil {
		layerSystem = NewLayerSystem()
	}
	return &EffectManager{layers: layerSystem}
}

// Layers returns the underlying layer system.
func (m *EffectManager) Layers() *LayerSystem {
	return m.layers
}

// AddTemporary registers a temporary effect, assigning it an ID.
func (m *EffectManager) AddTemporary(effect *TemporaryEffect) string {
	if effect == nil || len(effect.targetIDs) == 0 {
		return ""
	}
	effect.id = m.layers.NextID("tmp")
	return m.layers.AddEffect(effect)
}

// AddStatics registers the static abilities of a source that became live.
func (m *EffectManager) AddStatics(sourceID string, statics []ability.Static) {
	for i, s := range statics {
		m.layers.AddEffect(NewStaticEffect(sourceID, i, s))
	}
}

// RemoveEffectsFromSource drops everything tied to a permanent that left
// the battlefield.
func (m *EffectManager) RemoveEffectsFromSource(sourceID string) int {
	return CleanupSourceLeftBattlefieldEffects(m.layers, sourceID)
}

// EndOfTurn expires end-of-turn effects.
func (m *EffectManager) EndOfTurn() int {
	return CleanupEndOfTurnEffects(m.layers)
}

// Untap counts down turn-limited effects.
func (m *EffectManager) Untap() int {
	return TickDurations(m.layers)
}

// Evaluate computes the snapshot of a permanent.
func (m *EffectManager) Evaluate(s *Snapshot) *Snapshot {
	m.layers.Apply(s)
	return s
}

// CostReduction sums the generic reduction live statics grant to a spell
// with the given types.
func (m *EffectManager) CostReduction(matches func(appliesTo string) bool) int {
	total := 0
	for _, e := range m.layers.effects {
		se, ok := e.(*StaticEffect)
		if !ok || se.static.Modifier != ability.StaticCostReduction {
			continue
		}
		if matches(se.static.AppliesTo) {
			total += se.static.Reduction
		}
	}
	return total
}
