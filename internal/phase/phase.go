// Package phase computes the effective polling interval for a watch cycle
// from the distance between the current time and the expected drop time. It
// is pure: no clocks, no I/O, one call per cycle, and it is the sole source
// of timing decisions for the watcher.
package phase

import (
	"dropwatch/pkg/domain"
	"dropwatch/pkg/serrors"
	"time"
)

var (
	// ErrInvalidInterval rejects non-positive base intervals.
	ErrInvalidInterval = serrors.With(serrors.ErrValidation, "base interval must be positive")
	// ErrInvalidEpoch rejects negative epoch timestamps.
	ErrInvalidEpoch = serrors.With(serrors.ErrValidation, "epoch must be non-negative")
)

const (
	// heatWindowSeconds is how long before the target the watcher starts
	// tightening its interval.
	heatWindowSeconds int64 = 1800
	// heatFinalSeconds is the final approach, polled at the fast interval.
	heatFinalSeconds int64 = 300

	heatIntervalSeconds     int64 = 30
	heatFastIntervalSeconds int64 = 10
	graceIntervalSeconds    int64 = 10
	coolFinalSeconds        int64 = 3600
)

// coolSchedule backs polling off once the grace window is exhausted. Each
// step applies up to and including its limit of post-grace elapsed seconds;
// past the last step the interval settles at coolFinalSeconds.
var coolSchedule = []struct {
	limitSeconds    int64
	intervalSeconds int64
}{
	{600, 30},
	{1200, 60},
	{1800, 300},
	{3600, 600},
	{7200, 1800},
}

// Result is the outcome of one calculation: the effective polling interval
// and the phase bracket it came from. Never persisted.
type Result struct {
	Interval time.Duration
	Phase    domain.Phase
}

// Calculate maps (base interval, optional target, now) to the effective
// polling interval, all arguments in whole unix seconds.
//
// With toTarget = target-now and sinceTarget = now-target:
//   - no target, or toTarget > 1800: PRE, base interval
//   - 0 < toTarget <= 1800: HEAT, 30s, tightening to 10s once toTarget <= 300
//   - 0 <= sinceTarget <= 10800: GRACE, 10s
//   - sinceTarget > 10800: COOL, backing off per coolSchedule over
//     elapsed = sinceTarget - 10800
//
// Every bracket is closed on its upper bound, so a value exactly at a
// boundary takes the lower interval.
func Calculate(baseSeconds int64, targetEpoch *int64, nowEpoch int64) (Result, error) {
	if baseSeconds <= 0 {
		return Result{}, ErrInvalidInterval
	}
	if nowEpoch < 0 || (targetEpoch != nil && *targetEpoch < 0) {
		return Result{}, ErrInvalidEpoch
	}

	if targetEpoch == nil {
		return result(domain.PhasePre, baseSeconds), nil
	}

	toTarget := *targetEpoch - nowEpoch
	switch {
	case toTarget > heatWindowSeconds:
		return result(domain.PhasePre, baseSeconds), nil
	case toTarget > 0:
		if toTarget <= heatFinalSeconds {
			return result(domain.PhaseHeat, heatFastIntervalSeconds), nil
		}

		return result(domain.PhaseHeat, heatIntervalSeconds), nil
	}

	sinceTarget := nowEpoch - *targetEpoch
	if sinceTarget <= domain.GraceWindowSeconds {
		return result(domain.PhaseGrace, graceIntervalSeconds), nil
	}

	elapsed := sinceTarget - domain.GraceWindowSeconds
	for _, step := range coolSchedule {
		if elapsed <= step.limitSeconds {
			return result(domain.PhaseCool, step.intervalSeconds), nil
		}
	}

	return result(domain.PhaseCool, coolFinalSeconds), nil
}

func result(p domain.Phase, seconds int64) Result {
	return Result{Interval: time.Duration(seconds) * time.Second, Phase: p}
}
