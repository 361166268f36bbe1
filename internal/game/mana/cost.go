package mana

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownSymbol is returned for a mana symbol the parser does not know.
var ErrUnknownSymbol = errors.New("unknown mana symbol")

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// Hybrid is a single hybrid symbol such as {W/U} or {2/B}. It can be paid
// with one unit of any listed color, or with Generic units when Generic > 0.
type Hybrid struct {
	Colors  []Color
	Generic int
}

// Cost is a parsed mana cost. Colored holds the per-color requirements
// (Colorless means a {C} symbol, which only colorless or Any units pay).
type Cost struct {
	Generic int
	Colored Units
	X       int
	Hybrid  []Hybrid
}

// ParseCost parses a cost expression like "{2}{R}{R}", "{X}{G}" or "{W/U}".
// It is a pure function of its input.
func ParseCost(expr string) (Cost, error) {
	var cost Cost
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return cost, nil
	}

	matches := symbolPattern.FindAllStringSubmatch(expr, -1)
	if len(matches) == 0 {
		return cost, fmt.Errorf("%w: %q", ErrUnknownSymbol, expr)
	}
	if rest := strings.TrimSpace(symbolPattern.ReplaceAllString(expr, "")); rest != "" {
		return cost, fmt.Errorf("%w: %q outside braces in %q", ErrUnknownSymbol, rest, expr)
	}

	for _, match := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))
		switch symbol {
		case "X":
			cost.X++
		case "W", "U", "B", "R", "G", "C":
			c, _ := ParseColor(symbol)
			cost.Colored[c]++
		default:
			if n, err := strconv.Atoi(symbol); err == nil {
				if n < 0 {
					return Cost{}, fmt.Errorf("%w: {%s}", ErrUnknownSymbol, symbol)
				}
				cost.Generic += n
				continue
			}
			if strings.Contains(symbol, "/") {
				h, err := parseHybrid(symbol)
				if err != nil {
					return Cost{}, err
				}
				cost.Hybrid = append(cost.Hybrid, h)
				continue
			}
			return Cost{}, fmt.Errorf("%w: {%s}", ErrUnknownSymbol, symbol)
		}
	}
	return cost, nil
}

// MustParseCost is ParseCost for literals known to be valid.
func MustParseCost(expr string) Cost {
	cost, err := ParseCost(expr)
	if err != nil {
		panic(err)
	}
	return cost
}

func parseHybrid(symbol string) (Hybrid, error) {
	parts := strings.Split(symbol, "/")
	if len(parts) != 2 {
		return Hybrid{}, fmt.Errorf("%w: {%s}", ErrUnknownSymbol, symbol)
	}
	var h Hybrid
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if n, err := strconv.Atoi(part); err == nil && n > 0 {
			h.Generic = n
			continue
		}
		c, err := ParseColor(part)
		if err != nil || c == Any {
			return Hybrid{}, fmt.Errorf("%w: {%s}", ErrUnknownSymbol, symbol)
		}
		h.Colors = append(h.Colors, c)
	}
	if len(h.Colors) == 0 {
		return Hybrid{}, fmt.Errorf("%w: {%s}", ErrUnknownSymbol, symbol)
	}
	return h, nil
}

// ParseCMC returns the mana value of a cost expression. X counts as zero.
func ParseCMC(expr string) (int, error) {
	cost, err := ParseCost(expr)
	if err != nil {
		return 0, err
	}
	return cost.CMC(), nil
}

// CMC returns the mana value of the cost.
func (c Cost) CMC() int {
	total := c.Generic + c.Colored.Total()
	for _, h := range c.Hybrid {
		if h.Generic > 1 {
			total += h.Generic
		} else {
			total++
		}
	}
	return total
}

// WithX returns the cost with X paid as x generic mana.
func (c Cost) WithX(x int) Cost {
	if c.X == 0 || x <= 0 {
		return c
	}
	c.Generic += c.X * x
	return c
}

// Plus returns the cost increased by extra generic mana (commander tax).
func (c Cost) Plus(extra int) Cost {
	if extra > 0 {
		c.Generic += extra
	}
	return c
}

// Reduce lowers the generic part of the cost, never below zero. Colored
// requirements are not reduced.
func (c Cost) Reduce(generic int) Cost {
	c.Generic -= generic
	if c.Generic < 0 {
		c.Generic = 0
	}
	return c
}

// IsZero reports whether the cost requires no mana.
func (c Cost) IsZero() bool {
	return c.CMC() == 0
}

func (c Cost) String() string {
	var b strings.Builder
	for i := 0; i < c.X; i++ {
		b.WriteString("{X}")
	}
	if c.Generic > 0 {
		fmt.Fprintf(&b, "{%d}", c.Generic)
	}
	for _, col := range Colors[:Any] {
		for i := 0; i < c.Colored[col]; i++ {
			fmt.Fprintf(&b, "{%s}", col)
		}
	}
	for _, h := range c.Hybrid {
		opts := make([]string, 0, len(h.Colors)+1)
		if h.Generic > 0 {
			opts = append(opts, strconv.Itoa(h.Generic))
		}
		for _, col := range h.Colors {
			opts = append(opts, col.String())
		}
		fmt.Fprintf(&b, "{%s}", strings.Join(opts, "/"))
	}
	if b.Len() == 0 {
		return "{0}"
	}
	return b.String()
}
