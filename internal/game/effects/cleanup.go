package effects

// Duration represents how long an effect lasts.
type Duration string

const (
	// DurationEndOfTurn expires in the end step.
	DurationEndOfTurn Duration = "EndOfTurn"

	// DurationTurns expires after a number of untap steps.
	DurationTurns Duration = "Turns"

	// DurationWhileOnBattlefield lasts while the source is on the battlefield.
	DurationWhileOnBattlefield Duration = "WhileOnBattlefield"

	// DurationPermanent lasts for the rest of the trial.
	DurationPermanent Duration = "Permanent"
)

// EffectWithDuration is a continuous effect that can expire.
type EffectWithDuration interface {
	ContinuousEffect
	GetDuration() Duration
}

// Ticker is an effect that counts down untap steps.
type Ticker interface {
	Tick() (expired bool)
}

// CleanupEndOfTurnEffects removes effects that expire at end of turn and
// returns how many were removed. A second call in the same end step
// removes nothing.
func CleanupEndOfTurnEffects(system *LayerSystem) int {
	if system == nil {
		return 0
	}
	return system.removeIf(func(e ContinuousEffect) bool {
		d, ok := e.(EffectWithDuration)
		return ok && d.GetDuration() == DurationEndOfTurn
	})
}

// CleanupSourceLeftBattlefieldEffects removes effects whose source left the
// battlefield and every temporary effect on that permanent.
func CleanupSourceLeftBattlefieldEffects(system *LayerSystem, cardID string) int {
	if system == nil || cardID == "" {
		return 0
	}
	return system.removeIf(func(e ContinuousEffect) bool {
		if t, ok := e.(*TemporaryEffect); ok {
			t.dropTarget(cardID)
			if len(t.targetIDs) == 0 {
				return true
			}
		}
		d, ok := e.(EffectWithDuration)
		return ok && d.GetDuration() == DurationWhileOnBattlefield && e.SourceID() == cardID
	})
}

// TickDurations counts down turn-limited effects at the untap step and
// removes the ones that ran out.
func TickDurations(system *LayerSystem) int {
	if system == nil {
		return 0
	}
	return system.removeIf(func(e ContinuousEffect) bool {
		t, ok := e.(Ticker)
		return ok && t.Tick()
	})
}
