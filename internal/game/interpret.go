package game

import (
	"errors"

	"go.uber.org/zap"

	"github.com/magefree/goldfish/internal/game/ability"
	"github.com/magefree/goldfish/internal/game/card"
	"github.com/magefree/goldfish/internal/game/counters"
	"github.com/magefree/goldfish/internal/game/effects"
	"github.com/magefree/goldfish/internal/game/mana"
	"github.com/magefree/goldfish/internal/game/rules"
	"github.com/magefree/goldfish/internal/game/zones"
)

// Apply implements rules.Applier. It is the single interpreter of pending
// effects; every effect kind has exactly one case.
func (b *Board) Apply(pe rules.PendingEffect) error {
	if b.ended {
		return nil
	}
	b.Journal.Record(b.Turns.TurnNumber(), b.Turns.CurrentPhase().String(), pe)

	p := pe.Effect.Params
	switch pe.Effect.Kind {
	case ability.EffectAddMana:
		b.addMana(p.Color, p.Amount)
		return nil
	case ability.EffectDraw:
		return b.drawCards(p.Amount)
	case ability.EffectMill:
		return b.mill(p.Amount)
	case ability.EffectCreateToken:
		if p.Token == nil {
			return b.malformed(pe, "create_token without token")
		}
		return b.createTokens(*p.Token, p.Amount)
	case ability.EffectDrain:
		return b.drain(pe.SourceID, p.Amount)
	case ability.EffectGainLife:
		b.Life += p.Amount
		return nil
	case ability.EffectPump:
		return b.addTemporary(pe, func(eb *effects.EffectBuilder) *effects.TemporaryEffect {
			return eb.Pump(p.Power, p.Toughness)
		})
	case ability.EffectGrantKeyword:
		return b.addTemporary(pe, func(eb *effects.EffectBuilder) *effects.TemporaryEffect {
			return eb.GrantKeywords(p.Keywords)
		})
	case ability.EffectAddCounters:
		return b.addCounters(pe)
	case ability.EffectRamp:
		return b.ramp(p.Amount)
	case ability.EffectSacrifice:
		return b.sacrifice(pe)
	case ability.EffectAttach:
		return b.attach(pe.SourceID)
	default:
		return b.malformed(pe, "no interpreter for effect")
	}
}

// malformed absorbs an effect the interpreter cannot apply.
func (b *Board) malformed(pe rules.PendingEffect, reason string) error {
	b.Collector.Diagnostics().MalformedAbilities++
	b.logger.Warn("malformed effect skipped",
		zap.String("source", pe.SourceName),
		zap.String("effect", pe.Effect.String()),
		zap.String("reason", reason),
	)
	return nil
}

func (b *Board) addMana(color string, amount int) {
	c, err := mana.ParseColor(color)
	if err != nil {
		// Multi-color producers ("RG", "any color") pay for anything.
		c = mana.Any
	}
	b.Pool.Add(c, amount)
}

// drawCards draws for an effect. Running out of cards on an effect draw is
// not a loss; only the draw step's draw is required.
func (b *Board) drawCards(n int) error {
	drawn, err := b.Zones.Draw(n)
	if err != nil && !errors.Is(err, zones.ErrLibraryEmpty) {
		return err
	}
	for _, inst := range drawn {
		if err := b.fire(ability.EventCardDrawn, inst, 1); err != nil {
			return err
		}
	}
	return nil
}

func (b *Board) mill(n int) error {
	milled, err := b.Zones.Mill(n)
	if err != nil {
		return err
	}
	for _, inst := range milled {
		if err := b.fire(ability.EventMilled, inst, 1); err != nil {
			return err
		}
	}
	return nil
}

func (b *Board) createTokens(spec ability.TokenSpec, n int) error {
	for i := 0; i < n; i++ {
		tok := card.NewToken(b.ids.Next(spec.Name), spec)
		if err := b.Zones.CreateToken(tok); err != nil {
			return err
		}
		if err := b.fire(ability.EventEntersBattlefield, tok, 0); err != nil {
			return err
		}
		if err := b.fire(ability.EventTokenCreated, tok, 1); err != nil {
			return err
		}
	}
	return nil
}

// drain makes each living opponent lose life, one opponent_lost_life event
// per opponent.
func (b *Board) drain(sourceID string, amount int) error {
	for _, o := range b.Opponents.Living() {
		if b.ended {
			break
		}
		o.Life -= amount
		if err := b.fireFrom(ability.EventOpponentLostLife, nil, sourceID, amount); err != nil {
			return err
		}
		b.checkLethal()
	}
	return nil
}

func (b *Board) addTemporary(pe rules.PendingEffect, build func(*effects.EffectBuilder) *effects.TemporaryEffect) error {
	targets, err := b.targets(pe.SourceID, pe.Effect.Params.Target)
	if err != nil {
		return b.malformed(pe, err.Error())
	}
	if len(targets) == 0 {
		return nil
	}
	eb := effects.NewEffectBuilder(pe.SourceID)
	for _, t := range targets {
		eb.Targeting(t.ID)
	}
	if n := pe.Effect.Params.Amount; n > 0 {
		eb.ForTurns(n)
	}
	b.Effects.AddTemporary(build(eb))
	return nil
}

func (b *Board) addCounters(pe rules.PendingEffect) error {
	p := pe.Effect.Params
	kind := counters.P1P1
	if p.Counter != "" {
		kind = counters.ParseType(p.Counter)
	}
	targets, err := b.targets(pe.SourceID, p.Target)
	if err != nil {
		return b.malformed(pe, err.Error())
	}
	for _, t := range targets {
		if kind == counters.Lore {
			if err := b.addLore(t, p.Amount); err != nil {
				return err
			}
			continue
		}
		t.Counters.Add(kind, p.Amount)
	}
	return nil
}

// addLore adds lore counters one at a time, firing a chapter event for
// each. A saga whose final chapter has been reached is sacrificed.
func (b *Board) addLore(inst *card.Instance, n int) error {
	for i := 0; i < n; i++ {
		inst.Counters.Add(counters.Lore, 1)
		if err := b.fire(ability.EventChapter, inst, inst.Counters.Count(counters.Lore)); err != nil {
			return err
		}
		if z, ok := b.Zones.ZoneOf(inst.ID); !ok || z != zones.Battlefield {
			return nil
		}
	}
	if inst.Def.Chapters > 0 && inst.Counters.Count(counters.Lore) >= inst.Def.Chapters {
		return b.destroy(inst)
	}
	return nil
}

// ramp puts basic lands from the library onto the battlefield tapped and
// shuffles.
func (b *Board) ramp(n int) error {
	found := 0
	for _, inst := range b.Zones.Cards(zones.Library) {
		if found == n {
			break
		}
		if !inst.Def.IsLand() {
			continue
		}
		if z, _ := b.Zones.ZoneOf(inst.ID); z != zones.Library {
			continue
		}
		if err := b.Zones.Move(inst, zones.Library, zones.Battlefield); err != nil {
			return err
		}
		inst.Tapped = true
		found++
		if err := b.fire(ability.EventEntersBattlefield, inst, 0); err != nil {
			return err
		}
	}
	if found > 0 {
		b.Zones.Shuffle(b.rng)
	}
	return nil
}

func (b *Board) sacrifice(pe rules.PendingEffect) error {
	targets, err := b.targets(pe.SourceID, pe.Effect.Params.Target)
	if err != nil {
		return b.malformed(pe, err.Error())
	}
	for _, t := range targets {
		if err := b.destroy(t); err != nil {
			return err
		}
	}
	return nil
}

// attach moves an equipment onto the best creature.
func (b *Board) attach(sourceID string) error {
	equipment := b.Zones.Get(sourceID)
	if equipment == nil {
		return nil
	}
	if z, _ := b.Zones.ZoneOf(sourceID); z != zones.Battlefield {
		return nil
	}
	best, err := b.targets(sourceID, ability.TargetBestCreature)
	if err != nil || len(best) == 0 {
		return err
	}
	if equipment.AttachedTo != best[0].ID {
		equipment.AttachedTo = best[0].ID
		b.logger.Debug("equipment attached",
			zap.String("equipment", equipment.Name()),
			zap.String("creature", best[0].Name()),
		)
	}
	return nil
}
