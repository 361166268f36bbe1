package rules

import (
	"fmt"

	"github.com/magefree/goldfish/internal/game/ability"
)

// Phase is one step of the simplified turn.
type Phase int

const (
	PhaseUntap Phase = iota
	PhaseUpkeep
	PhaseDraw
	PhaseMain
	PhaseCombat
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseUntap:  "untap",
	PhaseUpkeep: "upkeep",
	PhaseDraw:   "draw",
	PhaseMain:   "main",
	PhaseCombat: "combat",
	PhaseEnd:    "end",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Event returns the event fired when the phase begins, or "" when the
// phase fires nothing on entry.
func (p Phase) Event() ability.Event {
	switch p {
	case PhaseUntap:
		return ability.EventUntap
	case PhaseUpkeep:
		return ability.EventUpkeep
	case PhaseDraw:
		return ability.EventDrawStep
	case PhaseMain:
		return ability.EventMainPhase
	case PhaseEnd:
		return ability.EventEndStep
	case PhaseCombat:
	}
	return ""
}

// turnSequence is the fixed order of phases in every turn.
var turnSequence = []Phase{PhaseUntap, PhaseUpkeep, PhaseDraw, PhaseMain, PhaseCombat, PhaseEnd}

// TurnManager tracks the turn number and the current phase. Transitions
// are unconditional; terminal checks belong to the caller.
type TurnManager struct {
	orderIndex int
	turnNumber int
	finished   bool
}

// NewTurnManager starts at turn 1, untap.
func NewTurnManager() *TurnManager {
	return &TurnManager{turnNumber: 1}
}

// CurrentPhase returns the phase in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return turnSequence[tm.orderIndex]
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// Advance moves to the next phase. It reports true when a new turn began.
func (tm *TurnManager) Advance() (Phase, bool) {
	tm.orderIndex++
	if tm.orderIndex >= len(turnSequence) {
		tm.orderIndex = 0
		tm.turnNumber++
		return tm.CurrentPhase(), true
	}
	return tm.CurrentPhase(), false
}

// Finish marks the trial as terminated; Finished reports it.
func (tm *TurnManager) Finish() {
	tm.finished = true
}

// Finished reports whether a terminal condition stopped the sequencer.
func (tm *TurnManager) Finished() bool {
	return tm.finished
}

// Sequence returns the phases of one turn in order.
func Sequence() []Phase {
	out := make([]Phase, len(turnSequence))
	copy(out, turnSequence)
	return out
}
