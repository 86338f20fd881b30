// Package bench is the measurement harness shared by the exercise commands:
// run an operation a fixed number of times, discard the first run as
// warmup, and report mean latency, speedup, and efficiency.
//
// The harness knows nothing about the operations it measures; they are
// opaque callables expected to be repeatable and side-effect free.
package bench

import (
	"errors"
	"time"
)

const (
	// DefaultRuns is the number of measured executions per operation.
	DefaultRuns = 5
	// MinRuns keeps the post-warmup mean statistically meaningful.
	MinRuns = 3
)

// ErrTooFewRuns is returned when fewer than MinRuns runs are requested.
var ErrTooFewRuns = errors.New("bench: at least three runs are required")

// Stats holds the timing of one measured operation.
type Stats struct {
	// Durations has one entry per run, in execution order. The first entry
	// is the warmup run.
	Durations []time.Duration

	// Mean is the average over Durations excluding the warmup run.
	Mean time.Duration
}

// MeanSeconds returns the post-warmup mean in seconds.
func (s Stats) MeanSeconds() float64 { return s.Mean.Seconds() }

// Measure executes fn runs times, passing the zero-based run index, and
// returns per-run durations plus the mean with the first run discarded.
// runs below MinRuns fail with ErrTooFewRuns.
func Measure(runs int, fn func(run int)) (Stats, error) {
	if runs < MinRuns {
		return Stats{}, ErrTooFewRuns
	}

	durations := make([]time.Duration, runs)
	for run := 0; run < runs; run++ {
		start := time.Now()
		fn(run)
		durations[run] = time.Since(start)
	}

	return Stats{Durations: durations, Mean: meanExcludingWarmup(durations)}, nil
}

// meanExcludingWarmup averages all durations but the first.
func meanExcludingWarmup(durations []time.Duration) time.Duration {
	if len(durations) < 2 {
		return 0
	}
	var total time.Duration
	for _, d := range durations[1:] {
		total += d
	}
	return total / time.Duration(len(durations)-1)
}

// Comparison carries the derived metrics of a candidate run against a
// baseline.
type Comparison struct {
	Speedup    float64
	Efficiency float64
}

// Compare derives speedup and efficiency for a candidate measured on the
// given number of workers against a baseline.
func Compare(baseline, candidate Stats, workers int) Comparison {
	s := Speedup(baseline, candidate)
	return Comparison{Speedup: s, Efficiency: Efficiency(s, workers)}
}

// Speedup is the baseline-to-candidate ratio of post-warmup means. Values
// above 1 mean the candidate is faster than the baseline.
func Speedup(baseline, candidate Stats) float64 {
	if candidate.Mean <= 0 {
		return 0
	}
	return baseline.Mean.Seconds() / candidate.Mean.Seconds()
}

// Efficiency divides speedup by the number of workers that produced it.
func Efficiency(speedup float64, workers int) float64 {
	if workers <= 0 {
		return 0
	}
	return speedup / float64(workers)
}
