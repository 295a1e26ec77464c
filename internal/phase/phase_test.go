package phase_test

import (
	"testing"
	"time"

	"dropwatch/internal/phase"
	"dropwatch/pkg/domain"
	"dropwatch/pkg/serrors"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const (
	baseSeconds int64 = 60
	targetAt    int64 = 1_700_000_000
)

func target(epoch int64) *int64 { return &epoch }

func TestCalculate_NoTarget(t *testing.T) {
	for _, base := range []int64{1, 60, 86400} {
		res, err := phase.Calculate(base, nil, targetAt)
		require.NoError(t, err)
		require.Equal(t, domain.PhasePre, res.Phase)
		require.Equal(t, time.Duration(base)*time.Second, res.Interval)
	}
}

func TestCalculate_InvalidInputs(t *testing.T) {
	_, err := phase.Calculate(0, nil, targetAt)
	require.ErrorIs(t, err, phase.ErrInvalidInterval)
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = phase.Calculate(-30, nil, targetAt)
	require.ErrorIs(t, err, phase.ErrInvalidInterval)

	_, err = phase.Calculate(baseSeconds, target(-1), targetAt)
	require.ErrorIs(t, err, phase.ErrInvalidEpoch)

	_, err = phase.Calculate(baseSeconds, target(targetAt), -1)
	require.ErrorIs(t, err, phase.ErrInvalidEpoch)
}

func TestCalculate_Brackets(t *testing.T) {
	cases := []struct {
		name string
		// now is expressed relative to the target: negative means before it.
		offset   int64
		phase    domain.Phase
		interval int64
	}{
		{name: "far before target", offset: -86400, phase: domain.PhasePre, interval: baseSeconds},
		{name: "just outside heat window", offset: -1801, phase: domain.PhasePre, interval: baseSeconds},
		{name: "heat window boundary", offset: -1800, phase: domain.PhaseHeat, interval: 30},
		{name: "heat before final approach", offset: -301, phase: domain.PhaseHeat, interval: 30},
		{name: "final approach boundary", offset: -300, phase: domain.PhaseHeat, interval: 10},
		{name: "one second to target", offset: -1, phase: domain.PhaseHeat, interval: 10},
		{name: "exactly at target", offset: 0, phase: domain.PhaseGrace, interval: 10},
		{name: "mid grace window", offset: 5400, phase: domain.PhaseGrace, interval: 10},
		{name: "grace window boundary", offset: 10800, phase: domain.PhaseGrace, interval: 10},
		{name: "first cool second", offset: 10801, phase: domain.PhaseCool, interval: 30},
		{name: "cool 10m boundary", offset: 10800 + 600, phase: domain.PhaseCool, interval: 30},
		{name: "cool past 10m", offset: 10800 + 601, phase: domain.PhaseCool, interval: 60},
		{name: "cool 20m boundary", offset: 10800 + 1200, phase: domain.PhaseCool, interval: 60},
		{name: "cool past 20m", offset: 10800 + 1201, phase: domain.PhaseCool, interval: 300},
		{name: "cool 30m boundary", offset: 10800 + 1800, phase: domain.PhaseCool, interval: 300},
		{name: "cool past 30m", offset: 10800 + 1801, phase: domain.PhaseCool, interval: 600},
		{name: "cool 1h boundary", offset: 10800 + 3600, phase: domain.PhaseCool, interval: 600},
		{name: "cool past 1h", offset: 10800 + 3601, phase: domain.PhaseCool, interval: 1800},
		{name: "cool 2h boundary", offset: 10800 + 7200, phase: domain.PhaseCool, interval: 1800},
		{name: "cool past 2h", offset: 10800 + 7201, phase: domain.PhaseCool, interval: 3600},
		{name: "cool a week later", offset: 10800 + 604800, phase: domain.PhaseCool, interval: 3600},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			res, err := phase.Calculate(baseSeconds, target(targetAt), targetAt+tt.offset)
			require.NoError(t, err)
			require.Equal(t, tt.phase, res.Phase)
			require.Equal(t, time.Duration(tt.interval)*time.Second, res.Interval)
		})
	}
}

func TestProperty_IntervalAlwaysPositive(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.Int64Range(1, 86400).Draw(rt, "base")
		now := rapid.Int64Range(0, 4_000_000_000).Draw(rt, "now")

		var tgt *int64
		if rapid.Bool().Draw(rt, "hasTarget") {
			tgt = target(rapid.Int64Range(0, 4_000_000_000).Draw(rt, "target"))
		}

		res, err := phase.Calculate(base, tgt, now)
		require.NoError(rt, err)
		require.Positive(rt, res.Interval)
		require.Contains(rt, []domain.Phase{
			domain.PhasePre, domain.PhaseHeat, domain.PhaseGrace, domain.PhaseCool,
		}, res.Phase)
	})
}

func TestProperty_TranslationInvariance(t *testing.T) {
	// Only the distance to the target matters, not absolute time.
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.Int64Range(1, 86400).Draw(rt, "base")
		now := rapid.Int64Range(0, 2_000_000_000).Draw(rt, "now")
		tgt := rapid.Int64Range(0, 2_000_000_000).Draw(rt, "target")
		shift := rapid.Int64Range(0, 1_000_000_000).Draw(rt, "shift")

		a, err := phase.Calculate(base, target(tgt), now)
		require.NoError(rt, err)
		b, err := phase.Calculate(base, target(tgt+shift), now+shift)
		require.NoError(rt, err)

		require.Equal(rt, a, b)
	})
}

func TestProperty_GraceWindowPollsFast(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.Int64Range(1, 86400).Draw(rt, "base")
		since := rapid.Int64Range(0, domain.GraceWindowSeconds).Draw(rt, "since")

		res, err := phase.Calculate(base, target(targetAt), targetAt+since)
		require.NoError(rt, err)
		require.Equal(rt, domain.PhaseGrace, res.Phase)
		require.Equal(rt, 10*time.Second, res.Interval)
	})
}
