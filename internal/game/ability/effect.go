package ability

import (
	"fmt"
	"strings"
)

// EffectKind tags a closed set of effects the interpreter knows how to apply.
type EffectKind string

const (
	EffectAddMana      EffectKind = "add_mana"
	EffectDraw         EffectKind = "draw"
	EffectMill         EffectKind = "mill"
	EffectCreateToken  EffectKind = "create_token"
	EffectDrain        EffectKind = "drain"
	EffectGainLife     EffectKind = "gain_life"
	EffectPump         EffectKind = "pump"
	EffectGrantKeyword EffectKind = "grant_keyword"
	EffectAddCounters  EffectKind = "add_counters"
	EffectRamp         EffectKind = "ramp"
	EffectSacrifice    EffectKind = "sacrifice"
	EffectAttach       EffectKind = "attach"
)

var effectKinds = map[EffectKind]struct{}{
	EffectAddMana:      {},
	EffectDraw:         {},
	EffectMill:         {},
	EffectCreateToken:  {},
	EffectDrain:        {},
	EffectGainLife:     {},
	EffectPump:         {},
	EffectGrantKeyword: {},
	EffectAddCounters:  {},
	EffectRamp:         {},
	EffectSacrifice:    {},
	EffectAttach:       {},
}

// ParseEffectKind resolves an effect tag. Unknown tags are malformed.
func ParseEffectKind(tag string) (EffectKind, error) {
	kind := EffectKind(strings.ToLower(strings.TrimSpace(tag)))
	if _, ok := effectKinds[kind]; !ok {
		return "", fmt.Errorf("%w: unknown effect tag %q", ErrMalformed, tag)
	}
	return kind, nil
}

// Target selects which permanents an effect touches.
type Target string

const (
	TargetSelf           Target = "self"
	TargetCreatures      Target = "creatures"
	TargetOtherCreatures Target = "other_creatures"
	TargetBestCreature   Target = "best_creature"
	TargetWeakest        Target = "weakest_creature"
)

// ParseTarget resolves a target name; empty means self.
func ParseTarget(name string) (Target, error) {
	switch t := Target(strings.ToLower(strings.TrimSpace(name))); t {
	case "":
		return TargetSelf, nil
	case TargetSelf, TargetCreatures, TargetOtherCreatures, TargetBestCreature, TargetWeakest:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown target %q", ErrMalformed, name)
	}
}

// TokenSpec describes a token created by an effect.
type TokenSpec struct {
	Name      string
	Power     int
	Toughness int
	Keywords  KeywordSet
	Artifact  bool
}

// Params are the typed parameters shared by effect kinds. Each kind reads
// only the fields it documents.
type Params struct {
	Amount    int
	Power     int
	Toughness int
	Color     string
	Keywords  KeywordSet
	Counter   string
	Target    Target
	Token     *TokenSpec
}

// Effect is an effect tag plus its parameters. Effects are plain data.
type Effect struct {
	Kind   EffectKind
	Params Params
}

// Validate checks that the parameters make sense for the effect kind.
func (e Effect) Validate() error {
	p := e.Params
	switch e.Kind {
	case EffectAddMana:
		if p.Amount <= 0 {
			return fmt.Errorf("%w: add_mana needs a positive amount", ErrMalformed)
		}
		if p.Color == "" {
			return fmt.Errorf("%w: add_mana needs a color", ErrMalformed)
		}
	case EffectDraw, EffectMill, EffectDrain, EffectGainLife, EffectRamp:
		if p.Amount <= 0 {
			return fmt.Errorf("%w: %s needs a positive amount", ErrMalformed, e.Kind)
		}
	case EffectCreateToken:
		if p.Amount <= 0 || p.Token == nil {
			return fmt.Errorf("%w: create_token needs an amount and a token", ErrMalformed)
		}
		if p.Token.Power < 0 || p.Token.Toughness <= 0 {
			return fmt.Errorf("%w: token %q has invalid stats", ErrMalformed, p.Token.Name)
		}
	case EffectPump:
		if p.Power == 0 && p.Toughness == 0 {
			return fmt.Errorf("%w: pump without a bonus", ErrMalformed)
		}
	case EffectGrantKeyword:
		if p.Keywords.Empty() {
			return fmt.Errorf("%w: grant_keyword without keywords", ErrMalformed)
		}
	case EffectAddCounters:
		if p.Amount <= 0 {
			return fmt.Errorf("%w: add_counters needs a positive amount", ErrMalformed)
		}
	case EffectSacrifice, EffectAttach:
	default:
		return fmt.Errorf("%w: unknown effect tag %q", ErrMalformed, e.Kind)
	}
	return nil
}

func (e Effect) String() string {
	if e.Params.Amount != 0 {
		return fmt.Sprintf("%s(%d)", e.Kind, e.Params.Amount)
	}
	return string(e.Kind)
}
