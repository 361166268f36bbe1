package game

import (
	"math"

	"github.com/magefree/goldfish/internal/config"
)

// Opponent is one abstract opponent.
type Opponent struct {
	Index int
	Life  int
}

// Alive reports whether the opponent is still in the game.
func (o *Opponent) Alive() bool {
	return o.Life > 0
}

// ThreatModel is the probabilistic stand-in for the opponents. It has a
// life total per opponent and a shared board power that grows every turn;
// threat is board power scaled into [0,1].
type ThreatModel struct {
	cfg config.OpponentConfig

	Opponents  []*Opponent
	BoardPower float64
	HasFlyers  bool
}

// NewThreatModel creates the opponents at starting life.
func NewThreatModel(cfg config.OpponentConfig) *ThreatModel {
	m := &ThreatModel{cfg: cfg, BoardPower: float64(cfg.InitialPower)}
	for i := 0; i < cfg.Count; i++ {
		m.Opponents = append(m.Opponents, &Opponent{Index: i, Life: cfg.StartingLife})
	}
	return m
}

// Threat returns the threat level in [0,1].
func (m *ThreatModel) Threat() float64 {
	if m.cfg.ThreatScale <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, m.BoardPower/m.cfg.ThreatScale))
}

// Living returns the opponents above zero life in seat order.
func (m *ThreatModel) Living() []*Opponent {
	var out []*Opponent
	for _, o := range m.Opponents {
		if o.Alive() {
			out = append(out, o)
		}
	}
	return out
}

// Weakest returns the living opponent with the lowest life; ties go to the
// earliest seat. It returns nil when every opponent is dead.
func (m *ThreatModel) Weakest() *Opponent {
	var weakest *Opponent
	for _, o := range m.Opponents {
		if o.Alive() && (weakest == nil || o.Life < weakest.Life) {
			weakest = o
		}
	}
	return weakest
}

// AllDead reports whether every opponent is at or below zero life.
func (m *ThreatModel) AllDead() bool {
	return m.Weakest() == nil
}

// TotalLife sums the remaining life of living opponents.
func (m *ThreatModel) TotalLife() int {
	total := 0
	for _, o := range m.Living() {
		total += o.Life
	}
	return total
}

// Grow advances the opponents' board by one turn.
func (m *ThreatModel) Grow(rng *RNG) {
	m.BoardPower += m.cfg.GrowthPerTurn
	m.HasFlyers = rng.Chance(m.cfg.FlyerChance)
}

// LoseBlockers takes n dead blockers of the given power off the opponents'
// board. Board power never drops below zero.
func (m *ThreatModel) LoseBlockers(n, power int) {
	if n <= 0 || power <= 0 {
		return
	}
	m.BoardPower = math.Max(0, m.BoardPower-float64(n*power))
}

// Blockers returns how many untapped blockers the opponents present.
func (m *ThreatModel) Blockers() int {
	if m.AllDead() || m.BoardPower <= 0 {
		return 0
	}
	return int(math.Ceil(m.BoardPower / 3))
}

// BlockChance is the probability that an attacker is blocked. The highest
// power attacker draws blocks first.
func (m *ThreatModel) BlockChance(strongest bool) float64 {
	p := m.cfg.BlockBase + m.cfg.BlockScale*m.Threat()
	if !strongest {
		p *= 0.75
	}
	return math.Min(1, p)
}

// BlockerStats returns the power and toughness of a typical blocker.
func (m *ThreatModel) BlockerStats() (power, toughness int) {
	s := 2 + int(m.Threat()*2)
	return s, s
}

// RemovalChance is the per-turn chance that an opponent removes the best
// creature.
func (m *ThreatModel) RemovalChance() float64 {
	return m.cfg.RemovalChance * (0.5 + 0.5*m.Threat())
}

// WipeChance is the per-turn chance of a board wipe. Wipes only happen once
// the player's board power reaches the configured threshold.
func (m *ThreatModel) WipeChance(ownBoardPower int) float64 {
	if ownBoardPower < m.cfg.WipeBoardPower {
		return 0
	}
	return m.cfg.WipeChance * (0.5 + 0.5*m.Threat())
}
