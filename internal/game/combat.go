package game

import (
	"sort"

	"go.uber.org/zap"

	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/card"
	"github.com/magefree/goldfish/internal/game/effects"
	"github.com/magefree/goldfish/internal/game/zones"
)

// attacker is a creature in combat with its characteristics at declaration.
type attacker struct {
	inst *card.Instance
	snap *effects.Snapshot
}

// eligibleAttackers returns untapped creatures with power that are not
// summoning sick and not defenders, in battlefield order.
func (b *Board) eligibleAttackers() []attacker {
	var out []attacker
	for _, c := range b.creatures() {
		if c.Tapped {
			continue
		}
		s := b.Snapshot(c)
		if s.Power <= 0 || s.Keywords.Has(ability.KeywordDefender) || b.summoningSick(c, s) {
			continue
		}
		out = append(out, attacker{inst: c, snap: s})
	}
	return out
}

// blockable reports whether the opponents can block a creature at all.
func (b *Board) blockable(s *effects.Snapshot) bool {
	if s.Keywords.Has(ability.KeywordUnblockable) {
		return false
	}
	if s.Keywords.Has(ability.KeywordFlying) && !b.Opponents.HasFlyers {
		return false
	}
	return true
}

// Combat attacks with every eligible creature. Blocks are rolled against
// the threat model, unblocked damage goes to the weakest living opponent,
// and the trial ends the moment the last opponent dies.
func (b *Board) Combat() error {
	if b.ended || b.Opponents.AllDead() {
		return nil
	}
	declared := b.eligibleAttackers()
	if len(declared) == 0 {
		return nil
	}
	for _, a := range declared {
		a.inst.Attacking = true
		if !a.snap.Keywords.Has(ability.KeywordVigilance) {
			a.inst.Tapped = true
		}
	}
	for _, a := range declared {
		if err := b.fire(ability.EventAttack, a.inst, a.snap.Power); err != nil {
			return err
		}
	}

	// Attack triggers may have pumped or removed attackers.
	var fighting []attacker
	for _, a := range declared {
		if z, _ := b.Zones.ZoneOf(a.inst.ID); z != zones.Battlefield || !a.inst.Attacking {
			continue
		}
		fighting = append(fighting, attacker{inst: a.inst, snap: b.Snapshot(a.inst)})
	}
	sort.SliceStable(fighting, func(i, j int) bool {
		return fighting[i].snap.Power > fighting[j].snap.Power
	})

	blockers := b.Opponents.Blockers()
	blockPower, blockToughness := b.Opponents.BlockerStats()
	var casualties []*card.Instance
	lost := 0

	for i, a := range fighting {
		if b.ended {
			break
		}
		s := a.snap
		need := 1
		if s.Keywords.Has(ability.KeywordMenace) {
			need = 2
		}
		blocked := false
		if b.blockable(s) && blockers >= need {
			blocked = b.rng.Chance(b.Opponents.BlockChance(i == 0))
		}

		toPlayer := s.Power
		if blocked {
			blockers -= need
			toPlayer = 0
			deathtouch := s.Keywords.Has(ability.KeywordDeathtouch)
			lethalToOne := blockToughness
			if deathtouch {
				lethalToOne = 1
			}
			killed := min(need, s.Power/lethalToOne)
			lost += killed
			if s.Keywords.Has(ability.KeywordTrample) {
				toPlayer = max(0, s.Power-lethalToOne*need)
			}
			taken := blockPower * need
			if s.Keywords.Has(ability.KeywordFirstStrike) {
				taken = blockPower * (need - killed)
			}
			a.inst.Damage += taken
			if taken > 0 && a.inst.Damage >= s.Toughness {
				casualties = append(casualties, a.inst)
			}
			if s.Keywords.Has(ability.KeywordLifelink) && s.Power > toPlayer {
				b.Life += s.Power - toPlayer
			}
			b.logger.Debug("attacker blocked",
				zap.String("card", a.inst.Name()),
				zap.Int("blockers", need),
				zap.Int("killed", killed),
				zap.Int("damage_taken", taken),
			)
		}

		if toPlayer > 0 {
			target := b.Opponents.Weakest()
			if target == nil {
				break
			}
			target.Life -= toPlayer
			if s.Keywords.Has(ability.KeywordLifelink) {
				b.Life += toPlayer
			}
			if err := b.fire(ability.EventCombatDamage, a.inst, toPlayer); err != nil {
				return err
			}
			b.checkLethal()
		}
	}

	// Blocks for this combat were rolled against the board as declared.
	if lost > 0 {
		b.Opponents.LoseBlockers(lost, blockPower)
		b.logger.Debug("blockers killed",
			zap.Int("blockers", lost),
			zap.Float64("opponent_board_power", b.Opponents.BoardPower),
		)
	}

	for _, c := range casualties {
		if err := b.destroy(c); err != nil {
			return err
		}
	}
	for _, a := range declared {
		a.inst.Attacking = false
	}
	return nil
}
