// Package watchers holds per-turn watchers that count what happened during
// the current turn.
package watchers

import (
	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/rules"
)

// counter counts events of one type, optionally filtered.
type counter struct {
	key    string
	event  ability.Event
	filter func(rules.Event) bool
	count  int
	ids    []string
}

// Watch implements rules.Watcher.
func (w *counter) Watch(event rules.Event) {
	if event.Type != w.event {
		return
	}
	if w.filter != nil && !w.filter(event) {
		return
	}
	w.count++
	if id := event.SubjectID(); id != "" {
		w.ids = append(w.ids, id)
	}
}

// Reset implements rules.Watcher.
func (w *counter) Reset() {
	w.count = 0
	w.ids = nil
}

// Key implements rules.Watcher.
func (w *counter) Key() string { return w.key }

// Count returns the events seen this turn.
func (w *counter) Count() int { return w.count }

// IDs returns the subjects seen this turn in order.
func (w *counter) IDs() []string { return append([]string(nil), w.ids...) }

// SpellsCastWatcher counts spells cast this turn.
type SpellsCastWatcher struct{ counter }

// NewSpellsCastWatcher creates the watcher.
func NewSpellsCastWatcher() *SpellsCastWatcher {
	return &SpellsCastWatcher{counter{key: "spells_cast", event: ability.EventSpellCast}}
}

// CreaturesDiedWatcher counts creatures that died this turn.
type CreaturesDiedWatcher struct{ counter }

// NewCreaturesDiedWatcher creates the watcher.
func NewCreaturesDiedWatcher() *CreaturesDiedWatcher {
	return &CreaturesDiedWatcher{counter{
		key:    "creatures_died",
		event:  ability.EventDies,
		filter: func(e rules.Event) bool { return e.Subject != nil && e.Subject.IsCreature() },
	}}
}

// CardsDrawnWatcher counts cards drawn this turn.
type CardsDrawnWatcher struct{ counter }

// NewCardsDrawnWatcher creates the watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	return &CardsDrawnWatcher{counter{key: "cards_drawn", event: ability.EventCardDrawn}}
}

// PermanentsEnteredWatcher records permanents that entered this turn.
type PermanentsEnteredWatcher struct{ counter }

// NewPermanentsEnteredWatcher creates the watcher.
func NewPermanentsEnteredWatcher() *PermanentsEnteredWatcher {
	return &PermanentsEnteredWatcher{counter{key: "permanents_entered", event: ability.EventEntersBattlefield}}
}

// TurnWatchers bundles the per-turn watchers a trial registers.
type TurnWatchers struct {
	Spells  *SpellsCastWatcher
	Died    *CreaturesDiedWatcher
	Drawn   *CardsDrawnWatcher
	Entered *PermanentsEnteredWatcher
}

// NewTurnWatchers creates and registers every per-turn watcher.
func NewTurnWatchers(registry *rules.WatcherRegistry) *TurnWatchers {
	tw := &TurnWatchers{
		Spells:  NewSpellsCastWatcher(),
		Died:    NewCreaturesDiedWatcher(),
		Drawn:   NewCardsDrawnWatcher(),
		Entered: NewPermanentsEnteredWatcher(),
	}
	registry.Add(tw.Spells)
	registry.Add(tw.Died)
	registry.Add(tw.Drawn)
	registry.Add(tw.Entered)
	return tw
}
