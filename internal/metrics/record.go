// Package metrics records what happens in a trial and summarizes batches
// of trial records.
package metrics

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Outcome is how a trial ended.
type Outcome string

const (
	OutcomeWin       Outcome = "win"
	OutcomeLoss      Outcome = "loss"
	OutcomeTurnLimit Outcome = "turn_limit"
	OutcomeAborted   Outcome = "aborted"
)

// WinType classifies a win by the source of the damage dealt.
type WinType string

const (
	WinNone   WinType = "none"
	WinCombat WinType = "combat"
	WinDrain  WinType = "drain"
	WinMixed  WinType = "mixed"
)

// Win type thresholds on the cumulative drain share of all damage.
const (
	DrainShareDrain  = 0.6
	DrainShareCombat = 0.4
)

// ClassifyWin labels a win from the cumulative combat and drain totals at
// the moment the opponent died.
func ClassifyWin(combat, drain int) WinType {
	total := combat + drain
	if total <= 0 {
		return WinNone
	}
	share := float64(drain) / float64(total)
	switch {
	case share >= DrainShareDrain:
		return WinDrain
	case share <= DrainShareCombat:
		return WinCombat
	default:
		return WinMixed
	}
}

// TurnStats are the totals of one turn.
type TurnStats struct {
	Turn          int      `json:"turn"`
	CombatDamage  int      `json:"combat_damage"`
	DrainDamage   int      `json:"drain_damage"`
	BoardPower    int      `json:"board_power"`
	ManaSpent     int      `json:"mana_spent"`
	LandsPlayed   int      `json:"lands_played"`
	TokensCreated int      `json:"tokens_created"`
	CardsDrawn    int      `json:"cards_drawn"`
	SpellsCast    int      `json:"spells_cast"`
	Phases        []string `json:"phases"`
}

// Diagnostics are the anomaly counters of a trial.
type Diagnostics struct {
	DroppedFirings     int    `json:"dropped_firings"`
	MalformedAbilities int    `json:"malformed_abilities"`
	TriggersFired      int    `json:"triggers_fired"`
	EffectsResolved    int    `json:"effects_resolved"`
	Mulligans          int    `json:"mulligans"`
	RemovalTaken       int    `json:"removal_taken"`
	WipesTaken         int    `json:"wipes_taken"`
	HeldBack           int    `json:"held_back"`
	CreaturesDied      int    `json:"creatures_died"`
	PermanentsEntered  int    `json:"permanents_entered"`
	AbortReason        string `json:"abort_reason,omitempty"`
}

// TrialRecord is the full output of one trial. Per-turn series are indexed
// by turn-1 and stop at the terminal turn.
type TrialRecord struct {
	Trial         int         `json:"trial"`
	Seed          uint64      `json:"seed"`
	Outcome       Outcome     `json:"outcome"`
	WinType       WinType     `json:"win_type"`
	TerminalTurn  int         `json:"terminal_turn"`
	CombatDamage  []int       `json:"combat_damage"`
	DrainDamage   []int       `json:"drain_damage"`
	BoardPower    []int       `json:"board_power"`
	ManaSpent     []int       `json:"mana_spent"`
	LandsPlayed   []int       `json:"lands_played"`
	TokensCreated []int       `json:"tokens_created"`
	CardsDrawn    []int       `json:"cards_drawn"`
	SpellsCast    []int       `json:"spells_cast"`
	Phases        [][]string  `json:"phases"`
	OpponentLife  []int       `json:"opponent_life"`
	Diagnostics   Diagnostics `json:"diagnostics"`
}

// TotalCombat returns all combat damage dealt.
func (r *TrialRecord) TotalCombat() int { return sum(r.CombatDamage) }

// TotalDrain returns all drain damage dealt.
func (r *TrialRecord) TotalDrain() int { return sum(r.DrainDamage) }

// Turns returns the number of recorded turns.
func (r *TrialRecord) Turns() int { return len(r.CombatDamage) }

// Fingerprint is the SHA-256 of the record's canonical JSON encoding. Two
// trials with the same inputs and seed have the same fingerprint.
func (r *TrialRecord) Fingerprint() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// BatchFingerprint hashes the fingerprints of records in order. Two batches
// with the same deck, config and seed have the same batch fingerprint.
func BatchFingerprint(records []TrialRecord) (string, error) {
	h := sha256.New()
	for i := range records {
		fp, err := records[i].Fingerprint()
		if err != nil {
			return "", err
		}
		h.Write([]byte(fp))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
