package taskpool

import "errors"

const Namespace = "taskpool"

var (
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
	ErrPoolClosed    = errors.New(Namespace + ": pool is shut down")
	ErrQueueClosed   = errors.New(Namespace + ": queue is closed")
	ErrNilTask       = errors.New(Namespace + ": task is nil")
	ErrTaskPanicked  = errors.New(Namespace + ": task execution panicked")
)
