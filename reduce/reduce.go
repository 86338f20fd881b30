// Package reduce implements a parallel reduction over a slice on top of the
// taskpool worker pool, validated against a sequential reference
// computation.
//
// The input is partitioned into contiguous chunks, one task per chunk; each
// task writes its partial result into a dedicated slot. Partials are
// combined strictly in partition-index order, never in completion order, so
// the result is reproducible across runs even for operators that are not
// exactly associative under floating point.
package reduce

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ygrebnov/taskpool"
)

// Number constrains the element types the engine can reduce.
type Number interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Operator combines two values. It must be associative for the parallel
// and sequential paths to agree; floating-point addition is associative
// only within the tolerance configured via WithTolerance.
type Operator[T Number] func(a, b T) T

// Sum is the addition operator.
func Sum[T Number](a, b T) T { return a + b }

// ErrValidationMismatch reports that the parallel result disagreed with the
// sequential reference beyond the configured tolerance. It is surfaced
// through Outcome, never as a panic.
var ErrValidationMismatch = errors.New("reduce: parallel result disagrees with sequential reference")

// Outcome carries the result of one reduction run together with its
// validation status. The caller always receives both: correctness is never
// asserted implicitly by absence of error.
type Outcome[T Number] struct {
	// Result is the combination of all partials in partition order.
	Result T

	// Reference is the sequential reference computation over the same input.
	Reference T

	// Partials holds one value per partition, indexed by partition.
	Partials []T

	// TaskErrors holds per-partition task failures; nil entries mean the
	// task succeeded. Always len(Partials) long.
	TaskErrors []error

	// Valid reports whether Result matches Reference within tolerance and
	// no task failed.
	Valid bool
}

// Err returns nil for a valid outcome, the first task failure if any, or
// an error wrapping ErrValidationMismatch otherwise.
func (o Outcome[T]) Err() error {
	for _, e := range o.TaskErrors {
		if e != nil {
			return e
		}
	}
	if !o.Valid {
		return fmt.Errorf("%w: got %v, want %v", ErrValidationMismatch, o.Result, o.Reference)
	}
	return nil
}

// Engine reduces slices with a fixed operator and identity element.
// An Engine is immutable after construction and safe for concurrent use.
type Engine[T Number] struct {
	op        Operator[T]
	identity  T
	tolerance float64
	log       *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption[T Number] func(*Engine[T])

// WithTolerance sets the absolute tolerance used when comparing the
// parallel result with the sequential reference. Zero (the default)
// requires an exact match, which is appropriate for integer operators.
func WithTolerance[T Number](eps float64) EngineOption[T] {
	return func(e *Engine[T]) { e.tolerance = eps }
}

// WithEngineLogger sets the logger validation warnings are emitted to.
func WithEngineLogger[T Number](l *zap.Logger) EngineOption[T] {
	return func(e *Engine[T]) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine creates an engine reducing with op starting from identity.
func NewEngine[T Number](op Operator[T], identity T, opts ...EngineOption[T]) *Engine[T] {
	e := &Engine[T]{op: op, identity: identity, log: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Run reduces data on the given pool: one task per partition, join, then a
// sequential combine in partition order. The pool is borrowed, not owned;
// Run never shuts it down.
//
// A task failure (including a panicking operator) is recorded in its
// partition's TaskErrors slot and invalidates the outcome; it never halts
// the other partitions. A validation mismatch is logged as a warning and
// reported through Outcome.Valid.
func (e *Engine[T]) Run(ctx context.Context, pool *taskpool.Pool, data []T) (Outcome[T], error) {
	spans := Partitions(len(data), pool.WorkerCount())

	out := Outcome[T]{
		Result:     e.identity,
		Partials:   make([]T, len(spans)),
		TaskErrors: make([]error, len(spans)),
	}

	for i, s := range spans {
		i, s := i, s
		err := pool.Submit(func(context.Context) error {
			v, err := e.reduceSpan(data[s.Start:s.End])
			if err != nil {
				out.TaskErrors[i] = err
				return err
			}
			out.Partials[i] = v
			return nil
		})
		if err != nil {
			return out, err
		}
	}

	// Join establishes the happens-before edge between each task's write to
	// its slot and the combine below.
	pool.Join()

	// Both the combine and the reference run under the same panic guard as
	// the tasks so a faulty operator invalidates the outcome instead of
	// crashing the run.
	result, combineErr := e.reduceSpan(out.Partials)
	out.Result = result
	reference, refErr := e.reduceSpan(data)
	out.Reference = reference
	out.Valid = combineErr == nil && refErr == nil && e.validate(&out)
	if !out.Valid {
		e.log.Warn("reduction validation failed",
			zap.Any("result", out.Result),
			zap.Any("reference", out.Reference),
			zap.Int("partitions", len(spans)),
		)
	}
	return out, nil
}

// Sequential computes the single-threaded reference reduction.
func (e *Engine[T]) Sequential(data []T) T {
	acc := e.identity
	for _, v := range data {
		acc = e.op(acc, v)
	}
	return acc
}

// reduceSpan folds one chunk under panic recovery so a faulty operator is
// reported as that partition's failure instead of crashing a worker.
func (e *Engine[T]) reduceSpan(chunk []T) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reduce: operator panicked: %v", r)
		}
	}()
	acc := e.identity
	for _, v := range chunk {
		acc = e.op(acc, v)
	}
	return acc, nil
}

func (e *Engine[T]) validate(out *Outcome[T]) bool {
	for _, err := range out.TaskErrors {
		if err != nil {
			return false
		}
	}
	if e.tolerance == 0 {
		return out.Result == out.Reference
	}
	return math.Abs(float64(out.Result)-float64(out.Reference)) <= e.tolerance
}
