package card

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/counters"
)

// instanceNamespace scopes deterministic instance IDs.
var instanceNamespace = uuid.MustParse("5f0c8a52-2d1e-4c57-9a53-6b0f1d0e7a11")

// IDSource hands out instance IDs that depend only on the trial seed and the
// order of creation, so replays of a seed see the same IDs.
type IDSource struct {
	seed uint64
	next int
}

// NewIDSource creates an ID source for one trial.
func NewIDSource(seed uint64) *IDSource {
	return &IDSource{seed: seed}
}

// Next returns the next ID for a card with the given name.
func (s *IDSource) Next(name string) string {
	s.next++
	return uuid.NewSHA1(instanceNamespace, fmt.Appendf(nil, "%d/%d/%s", s.seed, s.next, name)).String()
}

// Instance is one physical copy of a card inside a trial. Identity is the
// ID, never the name.
type Instance struct {
	ID    string
	Def   *Definition
	Token bool

	Tapped      bool
	EnteredTurn int
	Damage      int
	Counters    *counters.Counters
	AttachedTo  string
	Attacking   bool
	// Dying is set while dies triggers for this instance are being fired.
	Dying bool
	// Casts counts casts from the command zone for commander tax.
	Casts int
}

// NewInstance creates an instance of def.
func NewInstance(id string, def *Definition) *Instance {
	return &Instance{ID: id, Def: def, Counters: counters.New()}
}

// NewToken creates a token instance.
func NewToken(id string, spec ability.TokenSpec) *Instance {
	inst := NewInstance(id, TokenDefinition(spec))
	inst.Token = true
	return inst
}

// InstanceID implements ability.Subject.
func (c *Instance) InstanceID() string { return c.ID }

// IsCreature implements ability.Subject.
func (c *Instance) IsCreature() bool { return c.Def.IsCreature() }

// IsToken implements ability.Subject.
func (c *Instance) IsToken() bool { return c.Token }

// Name returns the card name.
func (c *Instance) Name() string { return c.Def.Name }

// BasePower returns printed power plus counters.
func (c *Instance) BasePower() int {
	p, _ := c.Counters.Boost()
	return c.Def.Power + p
}

// BaseToughness returns printed toughness plus counters.
func (c *Instance) BaseToughness() int {
	_, t := c.Counters.Boost()
	return c.Def.Toughness + t
}

// Reset clears runtime state when the instance leaves the battlefield.
func (c *Instance) Reset() {
	c.Tapped = false
	c.Damage = 0
	c.Counters.Clear()
	c.AttachedTo = ""
	c.Attacking = false
	c.Dying = false
}

func (c *Instance) String() string {
	return fmt.Sprintf("%s[%s]", c.Def.Name, shortID(c.ID))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
