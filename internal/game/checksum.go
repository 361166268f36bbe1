package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/magefree/goldfish/internal/game/zones"
)

// Checksum is a SHA-256 of a canonical rendering of the board: zones in
// order, runtime state of each card, the mana pool, live effects and the
// opponents. Two boards with the same checksum are in the same state.
func (b *Board) Checksum() string {
	hash := sha256.Sum256([]byte(b.canonical()))
	return hex.EncodeToString(hash[:])
}

func (b *Board) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "TURN:%d|%s|%t|%t\n", b.Turns.TurnNumber(), b.Turns.CurrentPhase(), b.landPlayed, b.ended)
	fmt.Fprintf(&buf, "LIFE:%d\n", b.Life)
	fmt.Fprintf(&buf, "POOL:%s|%d\n", b.Pool, b.Pool.Spent())

	for _, k := range []zones.Kind{zones.Library, zones.Hand, zones.Battlefield, zones.Graveyard, zones.Exile, zones.Command, zones.Stack} {
		cards := b.Zones.Cards(k)
		ids := make([]string, len(cards))
		for i, c := range cards {
			ids[i] = c.ID
		}
		// Library order matters; the other zones are sets.
		if k != zones.Library {
			sort.Strings(ids)
		}
		fmt.Fprintf(&buf, "%s:%s\n", strings.ToUpper(k.String()), strings.Join(ids, ","))
	}

	perms := b.permanents()
	sort.Slice(perms, func(i, j int) bool { return perms[i].ID < perms[j].ID })
	for _, p := range perms {
		s := b.Snapshot(p)
		fmt.Fprintf(&buf, "CARD:%s|%s|%t|%d|%d|%d|%d|%s|%s\n",
			p.ID, p.Name(), p.Tapped, p.Damage, s.Power, s.Toughness, p.EnteredTurn,
			strings.Join(s.Keywords.Names(), "+"), p.AttachedTo,
		)
		for _, v := range p.Counters.Snapshot() {
			fmt.Fprintf(&buf, "  COUNTER:%s=%d\n", v.Name, v.Count)
		}
	}

	effectIDs := make([]string, 0, b.Effects.Layers().Len())
	for _, e := range b.Effects.Layers().Effects() {
		effectIDs = append(effectIDs, e.ID())
	}
	sort.Strings(effectIDs)
	fmt.Fprintf(&buf, "EFFECTS:%s\n", strings.Join(effectIDs, ","))

	for _, o := range b.Opponents.Opponents {
		fmt.Fprintf(&buf, "OPPONENT:%d|%d\n", o.Index, o.Life)
	}
	fmt.Fprintf(&buf, "THREAT:%.4f|%t\n", b.Opponents.BoardPower, b.Opponents.HasFlyers)
	return buf.String()
}
