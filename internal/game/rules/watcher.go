package rules

import "sort"

// Watcher observes every event of a trial. Watchers never change the
// board; they only record.
type Watcher interface {
	Watch(event Event)
	Reset()
	Key() string
}

// WatcherRegistry holds the watchers of one trial and feeds them from the
// event bus.
type WatcherRegistry struct {
	watchers map[string]Watcher
	handle   int
	bus      *EventBus
}

// NewWatcherRegistry subscribes a new registry to bus.
func NewWatcherRegistry(bus *EventBus) *WatcherRegistry {
	wr := &WatcherRegistry{watchers: make(map[string]Watcher), bus: bus, handle: -1}
	if bus != nil {
		wr.handle = bus.Subscribe(wr.dispatch)
	}
	return wr
}

func (wr *WatcherRegistry) dispatch(event Event) {
	for _, key := range wr.keys() {
		wr.watchers[key].Watch(event)
	}
}

func (wr *WatcherRegistry) keys() []string {
	keys := make([]string, 0, len(wr.watchers))
	for k := range wr.watchers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Add registers a watcher, replacing any with the same key.
func (wr *WatcherRegistry) Add(w Watcher) {
	if w == nil {
		return
	}
	wr.watchers[w.Key()] = w
}

// Remove drops the watcher with key.
func (wr *WatcherRegistry) Remove(key string) {
	delete(wr.watchers, key)
}

// Get returns the watcher with key or nil.
func (wr *WatcherRegistry) Get(key string) Watcher {
	return wr.watchers[key]
}

// ResetAll resets every watcher, typically at end of turn.
func (wr *WatcherRegistry) ResetAll() {
	for _, key := range wr.keys() {
		wr.watchers[key].Reset()
	}
}

// Close unsubscribes from the bus.
func (wr *WatcherRegistry) Close() {
	if wr.bus != nil && wr.handle >= 0 {
		wr.bus.Unsubscribe(wr.handle)
		wr.handle = -1
	}
}
