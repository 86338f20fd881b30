package taskpool

import (
	"context"
	"fmt"
)

// Task is the canonical unit of work executed by the pool. It receives the
// pool's base context and reports failure through the returned error. The
// queue treats tasks as opaque; results, if any, are communicated through
// state captured by the closure.
type Task func(ctx context.Context) error

// TaskFunc adapts func(ctx) error to Task.
func TaskFunc(fn func(context.Context) error) Task { return Task(fn) }

// PlainTask adapts a plain closure with no context and no error to Task.
func PlainTask(fn func()) Task {
	return func(context.Context) error { fn(); return nil }
}

// execTask centralizes panic recovery for task execution. A panicking task
// body is converted into an error wrapping ErrTaskPanicked so that the
// executing worker survives.
func execTask(ctx context.Context, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	return t(ctx)
}
