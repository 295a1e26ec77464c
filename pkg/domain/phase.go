package domain

// Phase represents the polling aggressiveness bracket the watcher is in,
// derived from the distance between the current time and the target time.
type Phase string

const (
	// PhasePre indicates the target is far away (or unknown); the base
	// interval applies.
	PhasePre Phase = "PRE"
	// PhaseHeat indicates the target is imminent; polling tightens.
	PhaseHeat Phase = "HEAT"
	// PhaseGrace indicates the target has passed and the name may drop at any
	// moment; polling is at its fastest.
	PhaseGrace Phase = "GRACE"
	// PhaseCool indicates the grace window is exhausted; polling backs off on
	// a rising schedule.
	PhaseCool Phase = "COOL"
)
