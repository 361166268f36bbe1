package ability

import (
	"fmt"
	"strings"
)

// ConditionKind selects a predicate evaluated when a trigger's event fires.
type ConditionKind string

const (
	ConditionAlways          ConditionKind = "always"
	ConditionSelf            ConditionKind = "self"
	ConditionAnother         ConditionKind = "another"
	ConditionCreature        ConditionKind = "creature"
	ConditionAnotherCreature ConditionKind = "another_creature"
	ConditionToken           ConditionKind = "token"
	ConditionNonToken        ConditionKind = "nontoken"
	ConditionAmountEquals    ConditionKind = "amount_equals"
	ConditionAmountAtLeast   ConditionKind = "amount_at_least"
	ConditionChapter         ConditionKind = "chapter"
)

// Condition is a trigger's predicate.
type Condition struct {
	Kind  ConditionKind
	Value int
}

// Subject is the object an event happened to.
type Subject interface {
	InstanceID() string
	IsCreature() bool
	IsToken() bool
}

// ParseCondition resolves a condition name; empty means always.
func ParseCondition(name string, value int) (Condition, error) {
	kind := ConditionKind(strings.ToLower(strings.TrimSpace(name)))
	switch kind {
	case "":
		return Condition{Kind: ConditionAlways}, nil
	case ConditionAlways, ConditionSelf, ConditionAnother, ConditionCreature,
		ConditionAnotherCreature, ConditionToken, ConditionNonToken,
		ConditionAmountEquals, ConditionAmountAtLeast, ConditionChapter:
		return Condition{Kind: kind, Value: value}, nil
	default:
		return Condition{}, fmt.Errorf("%w: unknown condition %q", ErrMalformed, name)
	}
}

// Holds evaluates the condition for a trigger owned by sourceID against an
// event whose subject may be nil.
func (c Condition) Holds(sourceID string, subject Subject, amount int) bool {
	switch c.Kind {
	case ConditionAlways, "":
		return true
	case ConditionSelf:
		return subject != nil && subject.InstanceID() == sourceID
	case ConditionAnother:
		return subject != nil && subject.InstanceID() != sourceID
	case ConditionCreature:
		return subject != nil && subject.IsCreature()
	case ConditionAnotherCreature:
		return subject != nil && subject.IsCreature() && subject.InstanceID() != sourceID
	case ConditionToken:
		return subject != nil && subject.IsToken()
	case ConditionNonToken:
		return subject != nil && !subject.IsToken()
	case ConditionAmountEquals:
		return amount == c.Value
	case ConditionAmountAtLeast:
		return amount >= c.Value
	case ConditionChapter:
		return subject != nil && subject.InstanceID() == sourceID && amount == c.Value
	default:
		return false
	}
}
