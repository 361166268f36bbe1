package card

import (
	"strings"

	"github.com/magefree/goldfish/internal/game/ability"
)

// Capability is a trait derived once from a card's descriptors. The
// sequencing heuristic reads traits instead of probing descriptors.
type Capability uint16

const (
	CapManaSource Capability = 1 << iota
	CapCardDraw
	CapTokenMaker
	CapDrain
	CapRamp
	CapAnthem
	CapCostReducer
	CapEquipment
	CapSaga
	CapMill
	CapCounters
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{CapManaSource, "mana_source"},
	{CapCardDraw, "card_draw"},
	{CapTokenMaker, "token_maker"},
	{CapDrain, "drain"},
	{CapRamp, "ramp"},
	{CapAnthem, "anthem"},
	{CapCostReducer, "cost_reducer"},
	{CapEquipment, "equipment"},
	{CapSaga, "saga"},
	{CapMill, "mill"},
	{CapCounters, "counters"},
}

// Capabilities is a set of traits.
type Capabilities uint16

// Has reports whether c is in the set.
func (cs Capabilities) Has(c Capability) bool {
	return Capabilities(c)&cs != 0
}

func (cs Capabilities) String() string {
	var names []string
	for _, cn := range capabilityNames {
		if cs.Has(cn.c) {
			names = append(names, cn.name)
		}
	}
	return strings.Join(names, ",")
}

// deriveCapabilities walks every descriptor. Each switch is exhaustive over
// the closed kinds it inspects.
func deriveCapabilities(descs []ability.Descriptor, chapters int) Capabilities {
	var cs Capabilities
	if chapters > 0 {
		cs |= Capabilities(CapSaga)
	}
	for _, d := range descs {
		switch d.Kind {
		case ability.KindTriggered:
			cs |= effectCapabilities(d.Trigger.Effect, true)
		case ability.KindActivated:
			if d.Activated.IsManaAbility() {
				cs |= Capabilities(CapManaSource)
				continue
			}
			cs |= effectCapabilities(d.Activated.Effect, false)
		case ability.KindStatic:
			switch d.Static.Modifier {
			case ability.StaticAnthem, ability.StaticKeywordGrant:
				cs |= Capabilities(CapAnthem)
			case ability.StaticCostReduction:
				cs |= Capabilities(CapCostReducer)
			case ability.StaticEquipped:
				cs |= Capabilities(CapEquipment)
			}
		}
	}
	return cs
}

func effectCapabilities(e ability.Effect, triggered bool) Capabilities {
	switch e.Kind {
	case ability.EffectAddMana:
		return Capabilities(CapManaSource)
	case ability.EffectDraw:
		if triggered {
			return Capabilities(CapCardDraw)
		}
	case ability.EffectCreateToken:
		if triggered {
			return Capabilities(CapTokenMaker)
		}
	case ability.EffectDrain:
		return Capabilities(CapDrain)
	case ability.EffectRamp:
		return Capabilities(CapRamp)
	case ability.EffectMill:
		return Capabilities(CapMill)
	case ability.EffectAddCounters:
		return Capabilities(CapCounters)
	case ability.EffectAttach:
		return Capabilities(CapEquipment)
	case ability.EffectGainLife, ability.EffectPump, ability.EffectGrantKeyword, ability.EffectSacrifice:
	}
	return 0
}
