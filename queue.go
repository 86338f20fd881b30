package taskpool

import (
	"sync"

	"github.com/ygrebnov/errorc"
)

// Queue is a bounded FIFO safe for concurrent producers and consumers.
//
// The buffer is a fixed-capacity ring guarded by a single mutex paired with
// two condition variables: notFull wakes blocked producers, notEmpty wakes
// blocked consumers. Closing the queue rejects further Put calls but keeps
// already-queued elements available to Take until drained.
//
// Generic over the element type; the pool instantiates Queue[Task].
type Queue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	buf        []T
	head, tail int
	size       int

	accepted uint64 // elements ever accepted, monotonically increasing
	closed   bool
}

// NewQueue creates a bounded queue with the given capacity (must be > 0).
func NewQueue[T any](capacity int) (*Queue[T], error) {
	if capacity <= 0 {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("", "queue capacity must be positive"))
	}
	q := &Queue[T]{buf: make([]T, capacity)}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q, nil
}

// Put appends el at the tail.
//
// It blocks while the queue is full and open. It returns ErrQueueClosed if
// the queue has been closed, whether before the call or while blocked; in
// that case the element is not accepted.
func (q *Queue[T]) Put(el T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size == len(q.buf) && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return ErrQueueClosed
	}

	q.buf[q.tail] = el
	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}
	q.size++
	q.accepted++

	q.notEmpty.Signal()
	return nil
}

// Take removes and returns the oldest element.
//
// It blocks while the queue is empty and open. It returns ErrQueueClosed
// only when the queue is both closed and empty, which is the signal for a
// consumer to terminate. Elements queued before Close are still returned.
func (q *Queue[T]) Take() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.size == 0 {
		var zero T
		return zero, ErrQueueClosed
	}

	el := q.buf[q.head]
	var zero T
	q.buf[q.head] = zero // release the slot
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	q.size--

	q.notFull.Signal()
	return el, nil
}

// Close marks the queue closed and wakes all blocked producers and
// consumers. Idempotent. Already-queued elements are not discarded.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

// Len returns the number of elements currently queued.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the fixed capacity.
func (q *Queue[T]) Cap() int { return len(q.buf) }

// Accepted returns the total number of elements ever accepted by Put.
func (q *Queue[T]) Accepted() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.accepted
}
