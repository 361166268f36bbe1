package mana

import (
	"errors"
	"fmt"
	"strings"
)

// Color tags a single unit of mana. Any is a wildcard unit that can pay
// for any colored requirement or for generic mana.
type Color int

const (
	White Color = iota
	Blue
	Black
	Red
	Green
	Colorless
	Any
	numColors
)

var colorSymbols = [numColors]string{"W", "U", "B", "R", "G", "C", "Any"}

// Colors lists every unit tag in ledger order.
var Colors = []Color{White, Blue, Black, Red, Green, Colorless, Any}

func (c Color) String() string {
	if c >= 0 && c < numColors {
		return colorSymbols[c]
	}
	return fmt.Sprintf("COLOR_%d", int(c))
}

// ParseColor resolves a color symbol or name ("R", "red", "any", "c").
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "white":
		return White, nil
	case "u", "blue":
		return Blue, nil
	case "b", "black":
		return Black, nil
	case "r", "red":
		return Red, nil
	case "g", "green":
		return Green, nil
	case "c", "colorless", "generic":
		return Colorless, nil
	case "any", "*":
		return Any, nil
	default:
		return 0, fmt.Errorf("%w: {%s}", ErrUnknownSymbol, s)
	}
}

var (
	// ErrInsufficientMana is returned when a payment cannot be satisfied.
	ErrInsufficientMana = errors.New("insufficient mana")
	// ErrNegativeMana means the ledger would go below zero; callers treat
	// it as an internal consistency failure.
	ErrNegativeMana = errors.New("mana ledger would go negative")
)

// Units is a multiset of mana units indexed by Color.
type Units [numColors]int

// Total returns the number of units.
func (u Units) Total() int {
	total := 0
	for _, n := range u {
		total += n
	}
	return total
}

// Pool is the resource ledger for one trial. It is owned by a single
// goroutine and carries no lock.
type Pool struct {
	units Units
	spent int
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add adds amount units of the given color. Non-positive amounts are ignored.
func (p *Pool) Add(c Color, amount int) {
	if amount <= 0 || c < 0 || c >= numColors {
		return
	}
	p.units[c] += amount
}

// Count returns the units of one color.
func (p *Pool) Count(c Color) int {
	if c < 0 || c >= numColors {
		return 0
	}
	return p.units[c]
}

// Total returns all units in the pool.
func (p *Pool) Total() int {
	return p.units.Total()
}

// Units returns a copy of the pool contents.
func (p *Pool) Units() Units {
	return p.units
}

// Spent returns the units debited since the pool was created.
func (p *Pool) Spent() int {
	return p.spent
}

// CanPay reports whether cost could be paid right now. It never mutates.
func (p *Pool) CanPay(cost Cost) bool {
	_, ok := Plan(cost, p.units)
	return ok
}

// Pay debits cost atomically: either every unit of the plan is removed or
// the pool is left untouched.
func (p *Pool) Pay(cost Cost) (Payment, error) {
	plan, ok := Plan(cost, p.units)
	if !ok {
		return Payment{}, fmt.Errorf("%w: need %s, have %s", ErrInsufficientMana, cost, p)
	}
	next := p.units
	for c, n := range plan.Units {
		next[c] -= n
		if next[c] < 0 {
			return Payment{}, fmt.Errorf("%w: %s", ErrNegativeMana, Color(c))
		}
	}
	p.units = next
	p.spent += plan.Units.Total()
	return plan, nil
}

// Empty drains the pool, as happens at the end of each turn.
func (p *Pool) Empty() {
	p.units = Units{}
}

// Clone returns an independent copy.
func (p *Pool) Clone() *Pool {
	cp := *p
	return &cp
}

func (p *Pool) String() string {
	var parts []string
	for _, c := range Colors {
		if n := p.units[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s×%d", c, n))
		}
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
