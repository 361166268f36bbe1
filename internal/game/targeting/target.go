// Package targeting picks the permanents an effect touches.
package targeting

import (
	"fmt"

	"github.com/magefree/goldfish/internal/game/ability"
)

// Candidate is a permanent that may be chosen, with its current stats.
type Candidate struct {
	ID        string
	Creature  bool
	Power     int
	Toughness int
	Value     float64
}

// Selector chooses targets from candidates listed in battlefield order.
type Selector struct {
	sourceID   string
	candidates []Candidate
}

// NewSelector builds a selector for an effect from sourceID.
func NewSelector(sourceID string, candidates []Candidate) *Selector {
	return &Selector{sourceID: sourceID, candidates: candidates}
}

// Select returns the IDs matching target. Ties keep battlefield order.
func (s *Selector) Select(target ability.Target) ([]string, error) {
	switch target {
	case ability.TargetSelf, "":
		for _, c := range s.candidates {
			if c.ID == s.sourceID {
				return []string{c.ID}, nil
			}
		}
		return nil, nil
	case ability.TargetCreatures:
		return s.creatures(false), nil
	case ability.TargetOtherCreatures:
		return s.creatures(true), nil
	case ability.TargetBestCreature:
		if c, ok := s.pick(func(a, b Candidate) bool { return better(a, b) }); ok {
			return []string{c.ID}, nil
		}
		return nil, nil
	case ability.TargetWeakest:
		if c, ok := s.pick(func(a, b Candidate) bool { return better(b, a) }); ok {
			return []string{c.ID}, nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown target %q", ability.ErrMalformed, target)
	}
}

func (s *Selector) creatures(excludeSource bool) []string {
	var ids []string
	for _, c := range s.candidates {
		if !c.Creature || (excludeSource && c.ID == s.sourceID) {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids
}

// pick returns the first creature that no later creature beats.
func (s *Selector) pick(beats func(a, b Candidate) bool) (Candidate, bool) {
	var best Candidate
	found := false
	for _, c := range s.candidates {
		if !c.Creature {
			continue
		}
		if !found || beats(c, best) {
			best = c
			found = true
		}
	}
	return best, found
}

// better orders creatures by power, then toughness, then value.
func better(a, b Candidate) bool {
	if a.Power != b.Power {
		return a.Power > b.Power
	}
	if a.Toughness != b.Toughness {
		return a.Toughness > b.Toughness
	}
	return a.Value > b.Value
}
