package bench

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReport_Render(t *testing.T) {
	baseline := Stats{Mean: 100 * time.Millisecond}
	fast := Stats{Mean: 50 * time.Millisecond}
	slow := Stats{Mean: 200 * time.Millisecond}

	r := NewReport("sum of 1..n")
	r.Add("sequential", 1, baseline, baseline, true)
	r.Add("parallel", 2, baseline, fast, true)
	r.Add("parallel", 4, baseline, slow, false)

	var buf strings.Builder
	require.NoError(t, r.Render(&buf))
	out := buf.String()

	require.Contains(t, out, "sum of 1..n")
	require.Contains(t, out, "approach")
	require.Contains(t, out, "speedup")
	require.Contains(t, out, "sequential")
	require.Contains(t, out, "2.000")
	require.Contains(t, out, "OK")
	require.Contains(t, out, "FAILED")
}

func TestReport_AddComputesDerivedColumns(t *testing.T) {
	baseline := Stats{Mean: 120 * time.Millisecond}
	candidate := Stats{Mean: 40 * time.Millisecond}

	r := NewReport("")
	r.Add("parallel", 4, baseline, candidate, true)

	require.Len(t, r.rows, 1)
	row := r.rows[0]
	require.InDelta(t, 3.0, row.Speedup, 1e-9)
	require.InDelta(t, 0.75, row.Efficiency, 1e-9)
	require.True(t, row.Correct)
}

func TestLogRuns_MarksWarmup(t *testing.T) {
	s := Stats{
		Durations: []time.Duration{30 * time.Millisecond, 10 * time.Millisecond, 20 * time.Millisecond},
		Mean:      15 * time.Millisecond,
	}

	var buf strings.Builder
	LogRuns(&buf, "sequential", s)
	out := buf.String()

	require.Contains(t, out, "sequential:")
	require.Contains(t, out, "run 1")
	require.Contains(t, out, "(warmup, excluded from mean)")
	require.Equal(t, 1, strings.Count(out, "warmup"))
	require.Contains(t, out, "mean: 15.000000 ms")
}
