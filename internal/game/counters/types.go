package counters

import "strings"

// Type names a kind of counter.
type Type string

const (
	P1P1    Type = "+1/+1"
	M1M1    Type = "-1/-1"
	Lore    Type = "lore"
	Charge  Type = "charge"
	Loyalty Type = "loyalty"
	Time    Type = "time"
	Oil     Type = "oil"
)

var typeAliases = map[string]Type{
	"+1/+1":   P1P1,
	"p1p1":    P1P1,
	"-1/-1":   M1M1,
	"m1m1":    M1M1,
	"lore":    Lore,
	"chapter": Lore,
	"charge":  Charge,
	"loyalty": Loyalty,
	"time":    Time,
	"oil":     Oil,
}

// ParseType resolves a counter name. Unknown names are kept verbatim so
// decks may use flavor counters that only matter to conditions.
func ParseType(name string) Type {
	key := strings.ToLower(strings.TrimSpace(name))
	if t, ok := typeAliases[key]; ok {
		return t
	}
	return Type(key)
}

// IsBoost reports whether the counter changes power and toughness.
func (t Type) IsBoost() bool {
	_, _, ok := parseBoost(string(t))
	return ok
}
