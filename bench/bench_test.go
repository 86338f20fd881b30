package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMeasure_RunsCallbackOncePerRun(t *testing.T) {
	var calls []int
	stats, err := Measure(5, func(run int) {
		calls = append(calls, run)
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3, 4}, calls)
	require.Len(t, stats.Durations, 5)
}

func TestMeasure_TooFewRuns(t *testing.T) {
	_, err := Measure(2, func(int) {})
	require.ErrorIs(t, err, ErrTooFewRuns)
	_, err = Measure(0, func(int) {})
	require.ErrorIs(t, err, ErrTooFewRuns)
}

func TestMeanExcludingWarmup(t *testing.T) {
	durations := []time.Duration{
		100 * time.Millisecond,
		10 * time.Millisecond,
		20 * time.Millisecond,
		30 * time.Millisecond,
	}
	require.Equal(t, 20*time.Millisecond, meanExcludingWarmup(durations))
	require.Equal(t, time.Duration(0), meanExcludingWarmup(durations[:1]))
	require.Equal(t, time.Duration(0), meanExcludingWarmup(nil))
}

func TestSpeedup(t *testing.T) {
	baseline := Stats{Mean: 100 * time.Millisecond}
	candidate := Stats{Mean: 25 * time.Millisecond}
	require.InDelta(t, 4.0, Speedup(baseline, candidate), 1e-9)
	require.Zero(t, Speedup(baseline, Stats{}))
}

func TestEfficiency(t *testing.T) {
	require.InDelta(t, 0.75, Efficiency(3.0, 4), 1e-9)
	require.Zero(t, Efficiency(3.0, 0))
}

func TestCompare(t *testing.T) {
	baseline := Stats{Mean: 80 * time.Millisecond}
	candidate := Stats{Mean: 20 * time.Millisecond}
	cmp := Compare(baseline, candidate, 8)
	require.InDelta(t, 4.0, cmp.Speedup, 1e-9)
	require.InDelta(t, 0.5, cmp.Efficiency, 1e-9)
}
