package game

import (
	"errors"

	"go.uber.org/zap"

	"github.com/magefree/goldfish/internal/game/card"
	"github.com/magefree/goldfish/internal/game/zones"
)

// MaxMulligans bounds how many times a hand is sent back.
const MaxMulligans = 2

// Keepable reports whether a hand has between two and five lands.
func Keepable(hand []*card.Instance) bool {
	lands := countLands(hand)
	return lands >= 2 && lands <= 5
}

func countLands(hand []*card.Instance) int {
	n := 0
	for _, c := range hand {
		if c.Def.IsLand() {
			n++
		}
	}
	return n
}

// drawOpeningHand draws the opening hand. A library smaller than the hand
// is not an error.
func (b *Board) drawOpeningHand(size int) error {
	if _, err := b.Zones.Draw(size); err != nil && !errors.Is(err, zones.ErrLibraryEmpty) {
		return err
	}
	return nil
}

// mulligan sends back unkeepable hands London style: shuffle the hand in,
// draw a fresh hand of the same size and, once a hand is kept, put one card
// on the bottom per mulligan taken.
func (b *Board) mulligan(size int) error {
	taken := 0
	for taken < MaxMulligans && !Keepable(b.Zones.Cards(zones.Hand)) {
		for _, c := range b.Zones.Cards(zones.Hand) {
			if err := b.Zones.Move(c, zones.Hand, zones.Library); err != nil {
				return err
			}
		}
		b.Zones.Shuffle(b.rng)
		if err := b.drawOpeningHand(size); err != nil {
			return err
		}
		taken++
	}
	if taken == 0 {
		return nil
	}
	b.Collector.Diagnostics().Mulligans = taken
	for i := 0; i < taken; i++ {
		c := bottomChoice(b.Zones.Cards(zones.Hand))
		if c == nil {
			break
		}
		if err := b.Zones.MoveToBottom(c, zones.Hand); err != nil {
			return err
		}
	}
	b.logger.Debug("mulligan",
		zap.Int("mulligans", taken),
		zap.Int("hand", b.Zones.Len(zones.Hand)),
		zap.Int("lands", countLands(b.Zones.Cards(zones.Hand))),
	)
	return nil
}

// bottomChoice picks the card to bottom: a land when lands are the
// majority, otherwise the most expensive spell. Ties keep hand order.
func bottomChoice(hand []*card.Instance) *card.Instance {
	if len(hand) == 0 {
		return nil
	}
	lands := countLands(hand)
	if lands*2 > len(hand) {
		for i := len(hand) - 1; i >= 0; i-- {
			if hand[i].Def.IsLand() {
				return hand[i]
			}
		}
	}
	var pick *card.Instance
	for _, c := range hand {
		if c.Def.IsLand() {
			continue
		}
		if pick == nil || c.Def.CMC() > pick.Def.CMC() {
			pick = c
		}
	}
	if pick == nil {
		pick = hand[len(hand)-1]
	}
	return pick
}
