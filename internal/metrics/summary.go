package metrics

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Band summarizes one metric across trials.
type Band struct {
	N        int     `json:"n"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	P10      float64 `json:"p10"`
	P50      float64 `json:"p50"`
	P90      float64 `json:"p90"`
}

// NewBand computes the band of values. Variance is the population
// variance; percentiles interpolate the empirical distribution linearly.
func NewBand(values []float64) Band {
	n := len(values)
	if n == 0 {
		return Band{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, variance := stat.PopMeanVariance(sorted, nil)
	return Band{
		N:        n,
		Mean:     mean,
		Variance: variance,
		P10:      stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:      stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:      stat.Quantile(0.90, stat.LinInterp, sorted, nil),
	}
}

// TurnBands are the bands of every per-turn metric for one turn. Per-turn
// values only count trials still running at that turn; cumulative damage
// carries the final total forward for trials that already ended.
type TurnBands struct {
	Turn             int  `json:"turn"`
	Running          int  `json:"running"`
	CombatDamage     Band `json:"combat_damage"`
	DrainDamage      Band `json:"drain_damage"`
	BoardPower       Band `json:"board_power"`
	ManaSpent        Band `json:"mana_spent"`
	LandsPlayed      Band `json:"lands_played"`
	TokensCreated    Band `json:"tokens_created"`
	CardsDrawn       Band `json:"cards_drawn"`
	CumulativeDamage Band `json:"cumulative_damage"`
}

// Summary aggregates a batch of trials.
type Summary struct {
	Trials       int               `json:"trials"`
	Outcomes     map[Outcome]int   `json:"outcomes"`
	WinRate      float64           `json:"win_rate"`
	WinTypes     map[WinType]int   `json:"win_types"`
	WinTurn      Band              `json:"win_turn"`
	TotalCombat  Band              `json:"total_combat"`
	TotalDrain   Band              `json:"total_drain"`
	Turns        []TurnBands       `json:"turns"`
	Diagnostics  DiagnosticsTotals `json:"diagnostics"`
	AbortReasons map[string]int    `json:"abort_reasons,omitempty"`
}

// DiagnosticsTotals sums anomaly counters over a batch.
type DiagnosticsTotals struct {
	DroppedFirings     int `json:"dropped_firings"`
	MalformedAbilities int `json:"malformed_abilities"`
	Mulligans          int `json:"mulligans"`
	RemovalTaken       int `json:"removal_taken"`
	WipesTaken         int `json:"wipes_taken"`
	HeldBack           int `json:"held_back"`
	CreaturesDied      int `json:"creatures_died"`
	PermanentsEntered  int `json:"permanents_entered"`
}

// Summarize aggregates records. The result depends only on the records'
// contents and order.
func Summarize(records []TrialRecord) Summary {
	s := Summary{
		Trials:   len(records),
		Outcomes: make(map[Outcome]int),
		WinTypes: make(map[WinType]int),
	}
	if len(records) == 0 {
		return s
	}

	var winTurns, combat, drain []float64
	maxTurns := 0
	for i := range records {
		r := &records[i]
		s.Outcomes[r.Outcome]++
		if r.Outcome == OutcomeWin {
			s.WinTypes[r.WinType]++
			winTurns = append(winTurns, float64(r.TerminalTurn))
		}
		if r.Outcome == OutcomeAborted {
			if s.AbortReasons == nil {
				s.AbortReasons = make(map[string]int)
			}
			s.AbortReasons[r.Diagnostics.AbortReason]++
		}
		combat = append(combat, float64(r.TotalCombat()))
		drain = append(drain, float64(r.TotalDrain()))
		maxTurns = max(maxTurns, r.Turns())

		d := r.Diagnostics
		s.Diagnostics.DroppedFirings += d.DroppedFirings
		s.Diagnostics.MalformedAbilities += d.MalformedAbilities
		s.Diagnostics.Mulligans += d.Mulligans
		s.Diagnostics.RemovalTaken += d.RemovalTaken
		s.Diagnostics.WipesTaken += d.WipesTaken
		s.Diagnostics.HeldBack += d.HeldBack
		s.Diagnostics.CreaturesDied += d.CreaturesDied
		s.Diagnostics.PermanentsEntered += d.PermanentsEntered
	}

	s.WinRate = float64(s.Outcomes[OutcomeWin]) / float64(len(records))
	s.WinTurn = NewBand(winTurns)
	s.TotalCombat = NewBand(combat)
	s.TotalDrain = NewBand(drain)

	for t := 0; t < maxTurns; t++ {
		s.Turns = append(s.Turns, turnBands(records, t))
	}
	return s
}

func turnBands(records []TrialRecord, t int) TurnBands {
	var combat, drain, power, mana, lands, tokens, drawn, cumulative []float64
	for i := range records {
		r := &records[i]
		if t < r.Turns() {
			combat = append(combat, float64(r.CombatDamage[t]))
			drain = append(drain, float64(r.DrainDamage[t]))
			power = append(power, float64(r.BoardPower[t]))
			mana = append(mana, float64(r.ManaSpent[t]))
			lands = append(lands, float64(r.LandsPlayed[t]))
			tokens = append(tokens, float64(r.TokensCreated[t]))
			drawn = append(drawn, float64(r.CardsDrawn[t]))
		}
		upto := min(t+1, r.Turns())
		cumulative = append(cumulative, float64(sum(r.CombatDamage[:upto])+sum(r.DrainDamage[:upto])))
	}
	return TurnBands{
		Turn:             t + 1,
		Running:          len(combat),
		CombatDamage:     NewBand(combat),
		DrainDamage:      NewBand(drain),
		BoardPower:       NewBand(power),
		ManaSpent:        NewBand(mana),
		LandsPlayed:      NewBand(lands),
		TokensCreated:    NewBand(tokens),
		CardsDrawn:       NewBand(drawn),
		CumulativeDamage: NewBand(cumulative),
	}
}
