package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/card"
	"github.com/magefree/goldfish/internal/game/mana"
	"github.com/magefree/goldfish/internal/game/rules"
	"github.com/magefree/goldfish/internal/game/zones"
)

// ActionKind is the kind of a candidate play.
type ActionKind int

const (
	ActionPlayLand ActionKind = iota
	ActionCast
	ActionCastCommander
	ActionEquip
	ActionActivate
)

var actionKindNames = map[ActionKind]string{
	ActionPlayLand:      "play_land",
	ActionCast:          "cast",
	ActionCastCommander: "cast_commander",
	ActionEquip:         "equip",
	ActionActivate:      "activate",
}

func (k ActionKind) String() string {
	if name, ok := actionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(k))
}

// Priority tiers, highest first in play order.
const (
	TierEquipment = iota + 1
	TierSpell
	TierCreature
	TierRamp
	TierCommander
	TierAccelerant
	TierLand
)

// tierWeight keeps every tier above any value score of the tier below.
const tierWeight = 100.0

// errNotReady marks an action whose source cannot be used right now.
var errNotReady = errors.New("source not ready")

// Action is one candidate play.
type Action struct {
	Kind ActionKind
	Card *card.Instance
	From zones.Kind
	Cost mana.Cost
	// Ability and Index identify the activated ability for equip and
	// activate actions.
	Ability ability.Activated
	Index   int
}

func (a Action) key() string {
	return fmt.Sprintf("%s/%s/%d", a.Kind, a.Card.ID, a.Index)
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s %s", a.Kind, a.Card.Name(), a.Cost)
}

// Tier places an action in the fixed priority order: lands, acceleration
// artifacts, the commander, ramp, creatures, other spells, equipment.
func Tier(a Action) int {
	switch a.Kind {
	case ActionPlayLand:
		return TierLand
	case ActionCastCommander:
		return TierCommander
	case ActionEquip:
		return TierEquipment
	case ActionActivate:
		return TierSpell
	}
	def := a.Card.Def
	switch {
	case def.Types.Has(card.TypeArtifact) && !def.IsCreature() &&
		(def.Has(card.CapManaSource) || def.Has(card.CapCostReducer)):
		return TierAccelerant
	case def.Has(card.CapRamp) || (def.Has(card.CapManaSource) && !def.IsCreature()):
		return TierRamp
	case def.IsCreature():
		return TierCreature
	case def.Has(card.CapEquipment):
		return TierEquipment
	default:
		return TierSpell
	}
}

// ValueScore rates a card from its capabilities and printed stats.
func ValueScore(def *card.Definition) float64 {
	if def == nil {
		return 0
	}
	score := 0.0
	if def.Has(card.CapManaSource) && !def.IsLand() {
		score += 3
	}
	if def.Has(card.CapCardDraw) {
		score += 3
	}
	if def.Has(card.CapTokenMaker) {
		score += 3
	}
	if def.Has(card.CapDrain) {
		score += 2.5
	}
	if def.Has(card.CapAnthem) {
		score += 2
	}
	if def.Has(card.CapCostReducer) {
		score += 1.5
	}
	if def.IsCreature() {
		score += float64(def.Power)
		if def.Keywords.Has(ability.KeywordFlying) || def.Keywords.Has(ability.KeywordUnblockable) ||
			def.Keywords.Has(ability.KeywordMenace) || def.Keywords.Has(ability.KeywordTrample) {
			score++
		}
		if def.Power <= 1 && def.Capabilities() == 0 {
			score -= 2
		}
	}
	return score
}

// Score combines the tier and the value score of an action. Equip actions
// are worth more the stronger the creature they would land on.
func Score(a Action, b *Board) float64 {
	score := float64(Tier(a))*tierWeight + ValueScore(a.Card.Def)
	if a.Kind == ActionEquip && b != nil {
		if best, err := b.targets(a.Card.ID, ability.TargetBestCreature); err == nil && len(best) > 0 {
			score += float64(b.Snapshot(best[0]).Power)
		}
	}
	return score
}

// spellCost is the cost of casting inst from a zone after reductions and
// commander tax. X is cast as zero.
func (b *Board) spellCost(inst *card.Instance, from zones.Kind) mana.Cost {
	cost := inst.Def.Cost
	if reduction := b.Effects.CostReduction(inst.Def.Types.Matches); reduction > 0 {
		cost = cost.Reduce(reduction)
	}
	if from == zones.Command {
		cost = cost.Plus(2 * inst.Casts)
	}
	return cost
}

// candidates lists the legal main-phase plays in a fixed order.
func (b *Board) candidates() []Action {
	var out []Action
	hand := b.Zones.Cards(zones.Hand)
	if !b.landPlayed {
		for _, inst := range hand {
			if inst.Def.IsLand() {
				out = append(out, Action{Kind: ActionPlayLand, Card: inst, From: zones.Hand})
				break
			}
		}
	}
	for _, inst := range hand {
		if inst.Def.IsLand() || inst.Def.Types.Has(card.TypeInstant) {
			continue
		}
		out = append(out, Action{Kind: ActionCast, Card: inst, From: zones.Hand, Cost: b.spellCost(inst, zones.Hand)})
	}
	for _, inst := range b.Zones.Cards(zones.Command) {
		out = append(out, Action{Kind: ActionCastCommander, Card: inst, From: zones.Command, Cost: b.spellCost(inst, zones.Command)})
	}
	if len(b.creatures()) > 0 {
		for _, inst := range b.permanents() {
			if inst.AttachedTo != "" {
				continue
			}
			for i, a := range inst.Def.Activated() {
				if a.Effect.Kind != ability.EffectAttach {
					continue
				}
				if cost, err := mana.ParseCost(a.Cost); err == nil {
					out = append(out, Action{Kind: ActionEquip, Card: inst, From: zones.Battlefield, Cost: cost, Ability: a, Index: i})
				}
				break
			}
		}
	}
	return out
}

// heldBack applies the hold-back veto: a high-value creature is kept in
// hand with some probability while both the opponents' threat and the
// player's own board are large, as insurance against a wipe. The roll is
// made once per card per turn.
func (b *Board) heldBack(a Action) bool {
	if a.Kind != ActionCast || !a.Card.IsCreature() {
		return false
	}
	h := b.cfg.Heuristic
	if ValueScore(a.Card.Def) < h.HighValueScore {
		return false
	}
	if b.Opponents.Threat() < h.HoldBackThreat || b.BoardPower() < h.HoldBackBoardPower {
		return false
	}
	veto, rolled := b.holdBack[a.Card.ID]
	if !rolled {
		veto = b.rng.Chance(h.HoldBackChance)
		b.holdBack[a.Card.ID] = veto
		if veto {
			b.Collector.Diagnostics().HeldBack++
			b.logger.Debug("held back",
				zap.String("card", a.Card.Name()),
				zap.Float64("threat", b.Opponents.Threat()),
			)
		}
	}
	return veto
}

// BestAction returns the highest scoring affordable legal play. Ties keep
// candidate order.
func (b *Board) BestAction() (Action, bool) {
	var best Action
	bestScore := 0.0
	found := false
	for _, a := range b.candidates() {
		if b.skipped[a.key()] || !b.affordable(a.Cost, "") || b.heldBack(a) {
			continue
		}
		if s := Score(a, b); !found || s > bestScore {
			best, bestScore, found = a, s, true
		}
	}
	return best, found
}

// MainPhase plays the best action until nothing affordable is left, then
// runs the leftover pass.
func (b *Board) MainPhase() error {
	for i := 0; i < b.cfg.Engine.MaxMainActions && !b.ended; i++ {
		action, ok := b.BestAction()
		if !ok {
			break
		}
		if err := b.perform(action); err != nil {
			if errors.Is(err, mana.ErrInsufficientMana) || errors.Is(err, errNotReady) {
				b.skipped[action.key()] = true
				continue
			}
			return err
		}
	}
	return b.leftoverPass()
}

func (b *Board) perform(a Action) error {
	b.logger.Debug("performing action", zap.Stringer("action", a))
	switch a.Kind {
	case ActionPlayLand:
		return b.playLand(a.Card)
	case ActionCast, ActionCastCommander:
		return b.cast(a.Card, a.From, a.Cost)
	case ActionEquip, ActionActivate:
		return b.activate(a)
	default:
		return fmt.Errorf("unknown action %s", a.Kind)
	}
}

func (b *Board) playLand(inst *card.Instance) error {
	if err := b.Zones.Move(inst, zones.Hand, zones.Battlefield); err != nil {
		return err
	}
	b.landPlayed = true
	if err := b.fire(ability.EventLandPlayed, inst, 1); err != nil {
		return err
	}
	return b.fire(ability.EventEntersBattlefield, inst, 0)
}

// cast pays for a spell, puts it on the stack and resolves it. Permanents
// enter the battlefield; instants and sorceries go to the graveyard.
func (b *Board) cast(inst *card.Instance, from zones.Kind, cost mana.Cost) error {
	if err := b.payCost(cost, ""); err != nil {
		return err
	}
	if from == zones.Command {
		inst.Casts++
	}
	if err := b.Zones.Move(inst, from, zones.Stack); err != nil {
		return err
	}
	cmc := inst.Def.CMC()
	if err := b.fire(ability.EventSpellCast, inst, cmc); err != nil {
		return err
	}
	if err := b.fire(ability.EventSpellResolves, inst, cmc); err != nil {
		return err
	}
	if !inst.Def.Types.IsPermanent() {
		return b.Zones.Move(inst, zones.Stack, zones.Graveyard)
	}
	if err := b.Zones.Move(inst, zones.Stack, zones.Battlefield); err != nil {
		return err
	}
	return b.enterBattlefield(inst)
}

// enterBattlefield fires enters_battlefield and starts sagas.
func (b *Board) enterBattlefield(inst *card.Instance) error {
	if err := b.fire(ability.EventEntersBattlefield, inst, 0); err != nil {
		return err
	}
	if inst.Def.Has(card.CapSaga) {
		return b.addLore(inst, 1)
	}
	return nil
}

// activate pays for and resolves an activated ability directly.
func (b *Board) activate(a Action) error {
	if a.Ability.Tap {
		if a.Card.Tapped || (a.Card.IsCreature() && b.summoningSick(a.Card, b.Snapshot(a.Card))) {
			return errNotReady
		}
	}
	if err := b.payCost(a.Cost, a.Card.ID); err != nil {
		return err
	}
	if a.Ability.Tap {
		a.Card.Tapped = true
	}
	return b.Executor.Resolve(rules.PendingEffect{
		TriggerID:  fmt.Sprintf("%s!%d", a.Card.ID, a.Index),
		SourceID:   a.Card.ID,
		SourceName: a.Card.Name(),
		Effect:     a.Ability.Effect,
	})
}

// leftoverOptions lists affordable instants and non-equip activated
// abilities.
func (b *Board) leftoverOptions() []Action {
	var out []Action
	for _, inst := range b.Zones.Cards(zones.Hand) {
		if !inst.Def.Types.Has(card.TypeInstant) {
			continue
		}
		a := Action{Kind: ActionCast, Card: inst, From: zones.Hand, Cost: b.spellCost(inst, zones.Hand)}
		if b.affordable(a.Cost, "") {
			out = append(out, a)
		}
	}
	for _, inst := range b.permanents() {
		for i, ab := range inst.Def.Activated() {
			if ab.Effect.Kind == ability.EffectAttach {
				continue
			}
			if ab.Tap && (inst.Tapped || (inst.IsCreature() && b.summoningSick(inst, b.Snapshot(inst)))) {
				continue
			}
			cost, err := mana.ParseCost(ab.Cost)
			if err != nil || !b.affordable(cost, inst.ID) {
				continue
			}
			out = append(out, Action{Kind: ActionActivate, Card: inst, From: zones.Battlefield, Cost: cost, Ability: ab, Index: i})
		}
	}
	return out
}

// leftoverPass spends what is left on instants and activated abilities,
// each step going ahead with a fixed probability.
func (b *Board) leftoverPass() error {
	h := b.cfg.Heuristic
	for i := 0; i < h.LeftoverActions && !b.ended; i++ {
		options := b.leftoverOptions()
		if len(options) == 0 || !b.rng.Chance(h.LeftoverChance) {
			return nil
		}
		pick := options[b.rng.IntN(len(options))]
		if err := b.perform(pick); err != nil {
			if errors.Is(err, mana.ErrInsufficientMana) || errors.Is(err, errNotReady) {
				continue
			}
			return err
		}
	}
	return nil
}
