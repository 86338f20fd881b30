package reduce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/taskpool"
)

func newTestPool(t *testing.T, workers int) *taskpool.Pool {
	t.Helper()
	p, err := taskpool.New(context.Background(), workers)
	require.NoError(t, err)
	t.Cleanup(p.Shutdown)
	return p
}

func TestEngine_IntSumMatchesClosedForm(t *testing.T) {
	const n = 1_000_000
	data := make([]int64, n)
	for i := range data {
		data[i] = int64(i + 1)
	}

	engine := NewEngine[int64](Sum[int64], 0)
	out, err := engine.Run(context.Background(), newTestPool(t, 4), data)
	require.NoError(t, err)

	require.Equal(t, int64(500_000_500_000), out.Result)
	require.Equal(t, out.Reference, out.Result, "integer sum must match the sequential reference exactly")
	require.True(t, out.Valid)
	require.NoError(t, out.Err())
	require.Len(t, out.Partials, 4)
}

func TestEngine_FewerElementsThanWorkers(t *testing.T) {
	data := []int64{10, 20, 30}
	engine := NewEngine[int64](Sum[int64], 0)
	out, err := engine.Run(context.Background(), newTestPool(t, 8), data)
	require.NoError(t, err)

	require.Equal(t, int64(60), out.Result)
	require.True(t, out.Valid)
	require.Len(t, out.Partials, 3, "partition count is capped by the input length")
}

func TestEngine_EmptyInput(t *testing.T) {
	engine := NewEngine[int64](Sum[int64], 0)
	out, err := engine.Run(context.Background(), newTestPool(t, 4), nil)
	require.NoError(t, err)

	require.Equal(t, int64(0), out.Result)
	require.True(t, out.Valid)
	require.Empty(t, out.Partials)
}

func TestEngine_FloatSumWithinTolerance(t *testing.T) {
	data := make([]float64, 100_000)
	for i := range data {
		data[i] = 0.1
	}

	engine := NewEngine[float64](Sum[float64], 0, WithTolerance[float64](1e-6))
	out, err := engine.Run(context.Background(), newTestPool(t, 4), data)
	require.NoError(t, err)

	require.InDelta(t, 10_000.0, out.Result, 1e-6)
	require.True(t, out.Valid, "float sum must validate within the configured tolerance")
}

func TestEngine_CombineOrderIsDeterministic(t *testing.T) {
	// Subtraction is not commutative: if partials were combined in
	// completion order the result would vary between runs.
	data := make([]int64, 1000)
	for i := range data {
		data[i] = int64(i)
	}
	engine := NewEngine[int64](func(a, b int64) int64 { return a - b }, 0)

	first, err := engine.Run(context.Background(), newTestPool(t, 4), data)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		out, err := engine.Run(context.Background(), newTestPool(t, 4), data)
		require.NoError(t, err)
		require.Equal(t, first.Result, out.Result, "combine order must not depend on completion order")
	}
}

func TestEngine_OperatorPanicIsPerPartition(t *testing.T) {
	data := make([]int64, 100)
	for i := range data {
		data[i] = int64(i)
	}
	engine := NewEngine[int64](func(a, b int64) int64 {
		if b == 60 {
			panic("poisoned element")
		}
		return a + b
	}, 0)

	out, err := engine.Run(context.Background(), newTestPool(t, 4), data)
	require.NoError(t, err, "a task failure must not abort the run")

	require.False(t, out.Valid)
	require.Error(t, out.Err())

	var failed int
	for _, e := range out.TaskErrors {
		if e != nil {
			failed++
		}
	}
	require.Equal(t, 1, failed, "only the partition holding the poisoned element fails")
}

func TestOutcome_ErrOnMismatch(t *testing.T) {
	out := Outcome[int64]{Result: 1, Reference: 2, TaskErrors: []error{nil}}
	require.ErrorIs(t, out.Err(), ErrValidationMismatch)
}
