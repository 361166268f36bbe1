package game

import (
	"github.com/magefree/goldfish/internal/game/card"
	"github.com/magefree/goldfish/internal/game/mana"
)

// manaSource is an untapped permanent that can tap for mana right now.
type manaSource struct {
	inst   *card.Instance
	color  mana.Color
	amount int
	// category orders taps: lands, then other permanents, then creatures.
	category int
}

// manaSources lists the free tap-for-mana abilities ready to use. Only the
// first such ability of a permanent counts.
func (b *Board) manaSources(exclude string) []manaSource {
	var out []manaSource
	for _, p := range b.permanents() {
		if p.Tapped || p.ID == exclude {
			continue
		}
		if p.IsCreature() && b.summoningSick(p, b.Snapshot(p)) {
			continue
		}
		for _, a := range p.Def.ManaAbilities() {
			if !a.Tap || a.Cost != "" {
				continue
			}
			c, err := mana.ParseColor(a.Effect.Params.Color)
			if err != nil {
				c = mana.Any
			}
			category := 1
			switch {
			case p.Def.IsLand():
				category = 0
			case p.IsCreature():
				category = 2
			}
			out = append(out, manaSource{inst: p, color: c, amount: a.Effect.Params.Amount, category: category})
			break
		}
	}
	return out
}

// available is the pool plus everything the ready sources could add.
func (b *Board) available(exclude string) mana.Units {
	units := b.Pool.Units()
	for _, s := range b.manaSources(exclude) {
		units[s.color] += s.amount
	}
	return units
}

// affordable reports whether cost can be paid from the pool and the ready
// sources without tapping exclude.
func (b *Board) affordable(cost mana.Cost, exclude string) bool {
	_, ok := mana.Plan(cost, b.available(exclude))
	return ok
}

// payCost taps sources until the pool covers cost, then debits it. Sources
// making a still-missing color go first and wildcard sources last. When
// the cost cannot be met the pool is not debited.
func (b *Board) payCost(cost mana.Cost, exclude string) error {
	if cost.IsZero() {
		return nil
	}
	if !b.affordable(cost, exclude) {
		return mana.ErrInsufficientMana
	}
	for !b.Pool.CanPay(cost) {
		src, ok := b.nextSource(cost, exclude)
		if !ok {
			return mana.ErrInsufficientMana
		}
		src.inst.Tapped = true
		b.Pool.Add(src.color, src.amount)
	}
	_, err := b.Pool.Pay(cost)
	return err
}

func (b *Board) nextSource(cost mana.Cost, exclude string) (manaSource, bool) {
	rank := func(s manaSource) int {
		switch {
		case s.color == mana.Any:
			return 3
		case cost.Colored[s.color] > b.Pool.Count(s.color):
			return 0
		case s.color == mana.Colorless:
			return 1
		default:
			return 2
		}
	}
	var best manaSource
	found := false
	for _, s := range b.manaSources(exclude) {
		if !found || rank(s) < rank(best) || (rank(s) == rank(best) && s.category < best.category) {
			best = s
			found = true
		}
	}
	return best, found
}
