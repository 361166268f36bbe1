package counters

import (
	"sort"
	"strconv"
	"strings"
)

// Counters is the set of counters on one permanent. The zero value is not
// usable; call New.
type Counters struct {
	counts map[Type]int
}

// New creates an empty counter set.
func New() *Counters {
	return &Counters{counts: make(map[Type]int)}
}

// Add places amount counters of type t. Non-positive amounts are ignored.
// +1/+1 and -1/-1 counters annihilate each other.
func (cs *Counters) Add(t Type, amount int) {
	if amount <= 0 {
		return
	}
	cs.counts[t] += amount

	plus, minus := cs.counts[P1P1], cs.counts[M1M1]
	if plus > 0 && minus > 0 {
		n := min(plus, minus)
		cs.set(P1P1, plus-n)
		cs.set(M1M1, minus-n)
	}
}

// Remove takes up to amount counters of type t and returns how many were
// removed.
func (cs *Counters) Remove(t Type, amount int) int {
	if amount <= 0 {
		return 0
	}
	have := cs.counts[t]
	n := min(have, amount)
	cs.set(t, have-n)
	return n
}

func (cs *Counters) set(t Type, n int) {
	if n <= 0 {
		delete(cs.counts, t)
		return
	}
	cs.counts[t] = n
}

// Count returns the number of counters of type t.
func (cs *Counters) Count(t Type) int {
	if cs == nil {
		return 0
	}
	return cs.counts[t]
}

// Total returns the number of counters of every type.
func (cs *Counters) Total() int {
	total := 0
	for _, n := range cs.counts {
		total += n
	}
	return total
}

// Boost sums the power/toughness change of every boost counter.
func (cs *Counters) Boost() (power, toughness int) {
	if cs == nil {
		return 0, 0
	}
	for t, n := range cs.counts {
		if p, tg, ok := parseBoost(string(t)); ok {
			power += p * n
			toughness += tg * n
		}
	}
	return power, toughness
}

// Clear removes every counter, as when a permanent changes zones.
func (cs *Counters) Clear() {
	clear(cs.counts)
}

// Copy returns an independent copy.
func (cs *Counters) Copy() *Counters {
	cp := New()
	for t, n := range cs.counts {
		cp.counts[t] = n
	}
	return cp
}

// Snapshot returns the counters keyed by name, sorted for stable output.
func (cs *Counters) Snapshot() []View {
	views := make([]View, 0, len(cs.counts))
	for t, n := range cs.counts {
		views = append(views, View{Name: string(t), Count: n})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views
}

// View is a counter in report form.
type View struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// parseBoost parses names like "+1/+1" or "-2/-0".
func parseBoost(name string) (int, int, bool) {
	power, toughness, found := strings.Cut(name, "/")
	if !found {
		return 0, 0, false
	}
	p, ok := parseSigned(power)
	if !ok {
		return 0, 0, false
	}
	t, ok := parseSigned(toughness)
	if !ok {
		return 0, 0, false
	}
	return p, t, true
}

func parseSigned(s string) (int, bool) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
