package mana

// Payment records how many units of each color a cost consumed.
type Payment struct {
	Units Units
}

// Total returns the number of units consumed.
func (p Payment) Total() int {
	return p.Units.Total()
}

// Plan computes a payment for cost from the available units without
// touching them. Colored requirements are matched first from exactly
// matching units, then from Any units; hybrid symbols are tried option by
// option with backtracking; generic mana is paid last from whatever is
// left, spending Any units only when nothing else remains.
func Plan(cost Cost, available Units) (Payment, bool) {
	remaining := available
	var used Units

	for _, c := range Colors[:Any] {
		need := cost.Colored[c]
		if need == 0 {
			continue
		}
		exact := min(need, remaining[c])
		remaining[c] -= exact
		used[c] += exact
		need -= exact
		if need > remaining[Any] {
			return Payment{}, false
		}
		remaining[Any] -= need
		used[Any] += need
	}

	final, ok := payHybrid(cost.Hybrid, cost.Generic, remaining, used)
	if !ok {
		return Payment{}, false
	}
	return Payment{Units: final}, true
}

// payHybrid assigns hybrid symbols recursively and finishes with generic.
func payHybrid(hybrids []Hybrid, generic int, remaining, used Units) (Units, bool) {
	if len(hybrids) == 0 {
		return payGeneric(generic, remaining, used)
	}
	h := hybrids[0]
	rest := hybrids[1:]

	for _, c := range h.Colors {
		if remaining[c] > 0 {
			r, u := remaining, used
			r[c]--
			u[c]++
			if final, ok := payHybrid(rest, generic, r, u); ok {
				return final, true
			}
		}
	}
	if h.Generic > 0 {
		if final, ok := payHybrid(rest, generic+h.Generic, remaining, used); ok {
			return final, true
		}
	}
	if remaining[Any] > 0 {
		r, u := remaining, used
		r[Any]--
		u[Any]++
		if final, ok := payHybrid(rest, generic, r, u); ok {
			return final, true
		}
	}
	return Units{}, false
}

// payGeneric spends colorless first, then the most plentiful colors, and
// Any units last.
func payGeneric(generic int, remaining, used Units) (Units, bool) {
	if generic == 0 {
		return used, true
	}
	if generic > remaining.Total() {
		return Units{}, false
	}

	take := func(c Color) {
		n := min(generic, remaining[c])
		remaining[c] -= n
		used[c] += n
		generic -= n
	}

	take(Colorless)
	for generic > 0 {
		best := Color(-1)
		for _, c := range Colors[:Colorless] {
			if remaining[c] > 0 && (best < 0 || remaining[c] > remaining[best]) {
				best = c
			}
		}
		if best < 0 {
			break
		}
		take(best)
	}
	if generic > 0 {
		take(Any)
	}
	return used, generic == 0
}
