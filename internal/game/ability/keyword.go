package ability

import (
	"fmt"
	"sort"
	"strings"
)

// Keyword is a single evergreen keyword flag.
type Keyword uint16

const (
	KeywordFlying Keyword = 1 << iota
	KeywordReach
	KeywordMenace
	KeywordUnblockable
	KeywordHaste
	KeywordVigilance
	KeywordTrample
	KeywordDeathtouch
	KeywordLifelink
	KeywordDefender
	KeywordFirstStrike
)

var keywordNames = map[Keyword]string{
	KeywordFlying:      "flying",
	KeywordReach:       "reach",
	KeywordMenace:      "menace",
	KeywordUnblockable: "unblockable",
	KeywordHaste:       "haste",
	KeywordVigilance:   "vigilance",
	KeywordTrample:     "trample",
	KeywordDeathtouch:  "deathtouch",
	KeywordLifelink:    "lifelink",
	KeywordDefender:    "defender",
	KeywordFirstStrike: "first_strike",
}

func (k Keyword) String() string {
	if name, ok := keywordNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KEYWORD_%d", uint16(k))
}

// ParseKeyword resolves a keyword name such as "flying" or "first strike".
func ParseKeyword(name string) (Keyword, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	for k, n := range keywordNames {
		if n == normalized {
			return k, true
		}
	}
	return 0, false
}

// KeywordSet is a set of keyword flags.
type KeywordSet uint16

// Keywords builds a set from individual keywords.
func Keywords(ks ...Keyword) KeywordSet {
	var s KeywordSet
	for _, k := range ks {
		s |= KeywordSet(k)
	}
	return s
}

// Has reports whether k is in the set.
func (s KeywordSet) Has(k Keyword) bool {
	return s&KeywordSet(k) != 0
}

// With returns the union of s and other.
func (s KeywordSet) With(other KeywordSet) KeywordSet {
	return s | other
}

// Without returns s minus other.
func (s KeywordSet) Without(other KeywordSet) KeywordSet {
	return s &^ other
}

// Empty reports whether no keyword is set.
func (s KeywordSet) Empty() bool {
	return s == 0
}

// Names returns the sorted keyword names in the set.
func (s KeywordSet) Names() []string {
	names := make([]string, 0, len(keywordNames))
	for k, n := range keywordNames {
		if s.Has(k) {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// ParseKeywords parses a list of keyword names. Unknown names are returned
// separately so callers can report them without failing the whole card.
func ParseKeywords(names []string) (KeywordSet, []string) {
	var (
		set     KeywordSet
		unknown []string
	)
	for _, name := range names {
		k, ok := ParseKeyword(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		set |= KeywordSet(k)
	}
	return set, unknown
}
