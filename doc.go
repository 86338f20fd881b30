// Package taskpool provides a fixed-size worker pool executing submitted
// tasks through a bounded FIFO queue.
//
// Components
//   - Queue: a bounded, condition-variable based FIFO. Put blocks while the
//     queue is full, Take blocks while it is empty, Close wakes all waiters
//     and lets consumers drain what is already queued.
//   - Pool: owns a fixed set of workers and one queue. Submit enqueues a
//     task, Join waits for all accepted tasks to finish, Shutdown closes the
//     queue and waits for every worker to exit.
//
// Guarantees
//   - Tasks are dequeued in strict submission order.
//   - Every task accepted before Shutdown began is executed exactly once
//     before Shutdown returns.
//   - A failing or panicking task never terminates its worker or the pool;
//     the failure is recorded and surfaced through Stats and the optional
//     failure handler.
//
// Defaults
// Unless overridden via options, a newly created pool uses:
//   - queue capacity: 2 x worker count
//   - logger: zap.NewNop()
//   - metrics: metrics.NewNoopProvider()
//
// The reduce subpackage builds a parallel reduction engine on top of the
// pool; the bench subpackage provides the warmup-aware measurement harness
// used to compare parallel and sequential runs.
package taskpool
