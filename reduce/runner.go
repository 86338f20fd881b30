package reduce

import (
	"context"

	"go.uber.org/zap"

	"github.com/ygrebnov/taskpool"
)

// Runner binds an engine to an input and a pool configuration, exposing the
// single operation the measurement harness calls: run this reduction over
// this input once. Every invocation constructs a fresh pool and shuts it
// down before returning, so runs are repeatable and side-effect free.
type Runner[T Number] struct {
	engine  *Engine[T]
	data    []T
	workers int
	opts    []taskpool.Option
}

// NewRunner creates a runner reducing data with engine on workers workers.
// opts are passed through to every pool construction.
func NewRunner[T Number](engine *Engine[T], data []T, workers int, opts ...taskpool.Option) *Runner[T] {
	return &Runner[T]{engine: engine, data: data, workers: workers, opts: opts}
}

// Workers returns the worker count used for every run.
func (r *Runner[T]) Workers() int { return r.workers }

// RunOnce performs one full reduction: construct a pool, run the engine,
// shut the pool down. The returned outcome carries both the result and the
// validation status.
func (r *Runner[T]) RunOnce(ctx context.Context) (Outcome[T], error) {
	pool, err := taskpool.New(ctx, r.workers, r.opts...)
	if err != nil {
		return Outcome[T]{}, err
	}
	defer pool.Shutdown()
	return r.engine.Run(ctx, pool, r.data)
}

// SumRunner is a convenience constructor for the common case: an integer
// sum runner with an optional logger.
func SumRunner[T Number](data []T, workers int, log *zap.Logger, opts ...taskpool.Option) *Runner[T] {
	return NewRunner(NewEngine[T](Sum[T], 0, WithEngineLogger[T](log)), data, workers, opts...)
}
