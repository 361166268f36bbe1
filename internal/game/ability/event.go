package ability

// Event names a game event that triggered abilities can listen to.
type Event string

const (
	EventUntap             Event = "untap"
	EventUpkeep            Event = "upkeep"
	EventDrawStep          Event = "draw_step"
	EventCardDrawn         Event = "card_drawn"
	EventMainPhase         Event = "main_phase"
	EventLandPlayed        Event = "land_played"
	EventSpellCast         Event = "spell_cast"
	EventSpellResolves     Event = "spell_resolves"
	EventEntersBattlefield Event = "enters_battlefield"
	EventAttack            Event = "attack"
	EventCombatDamage      Event = "combat_damage"
	EventDies              Event = "dies"
	EventMilled            Event = "milled"
	EventTokenCreated      Event = "token_created"
	EventChapter           Event = "chapter"
	EventOpponentLostLife  Event = "opponent_lost_life"
	EventEndStep           Event = "end_step"
)

var knownEvents = map[Event]struct{}{
	EventUntap:             {},
	EventUpkeep:            {},
	EventDrawStep:          {},
	EventCardDrawn:         {},
	EventMainPhase:         {},
	EventLandPlayed:        {},
	EventSpellCast:         {},
	EventSpellResolves:     {},
	EventEntersBattlefield: {},
	EventAttack:            {},
	EventCombatDamage:      {},
	EventDies:              {},
	EventMilled:            {},
	EventTokenCreated:      {},
	EventChapter:           {},
	EventOpponentLostLife:  {},
	EventEndStep:           {},
}

// Known reports whether e is part of the event vocabulary.
func (e Event) Known() bool {
	_, ok := knownEvents[e]
	return ok
}
