package taskpool

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/taskpool/metrics"
)

// Pool owns a fixed set of workers executing tasks from one bounded queue.
// The worker count is fixed at construction and never resized. Methods are
// safe for concurrent use.
type Pool struct {
	// noCopy prevents accidental copying of the controller.
	nc noCopy

	cfg   config
	queue *Queue[Task]
	log   *zap.Logger

	ctx     context.Context
	workers int

	workersWG    sync.WaitGroup
	shutdownOnce sync.Once

	// outstanding = tasks accepted minus tasks completed. Guarded by mu and
	// paired with idle, which is broadcast when outstanding drains to zero.
	mu          sync.Mutex
	idle        *sync.Cond
	outstanding int
	closed      bool

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64

	mSubmitted metrics.Counter
	mCompleted metrics.Counter
	mFailed    metrics.Counter
	mPending   metrics.UpDownCounter
	mDuration  metrics.Histogram
}

// noCopy is a vet-recognized marker to discourage copying types with this
// field embedded. It works with the "-copylocks" analyzer via the presence
// of Lock/Unlock methods.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a pool with the given number of workers and starts them
// immediately. ctx is the base context passed to every task; it is not
// cancelled by Shutdown (a task, once started, runs to completion).
//
// workers must be > 0; zero or negative counts fail with ErrInvalidConfig
// and no worker goroutine is created.
func New(ctx context.Context, workers int, opts ...Option) (*Pool, error) {
	if workers <= 0 {
		return nil, errorc.With(ErrInvalidConfig, errorc.String("", "worker count must be positive"))
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if cfg.QueueCapacity == 0 {
		cfg.QueueCapacity = 2 * workers
	}

	q, err := NewQueue[Task](cfg.QueueCapacity)
	if err != nil {
		return nil, err
	}

	p := &Pool{
		cfg:     cfg,
		queue:   q,
		log:     cfg.Logger,
		ctx:     ctx,
		workers: workers,
	}
	p.idle = sync.NewCond(&p.mu)
	p.initInstruments(cfg.Metrics)

	for i := 0; i < workers; i++ {
		p.workersWG.Add(1)
		go p.worker(i)
	}
	p.log.Debug("pool started",
		zap.Int("workers", workers),
		zap.Int("queue_capacity", cfg.QueueCapacity),
	)
	return p, nil
}

func (p *Pool) initInstruments(provider metrics.Provider) {
	p.mSubmitted = provider.Counter("taskpool.tasks.submitted",
		metrics.WithHelp("tasks accepted by Submit"))
	p.mCompleted = provider.Counter("taskpool.tasks.completed",
		metrics.WithHelp("tasks executed, success or failure"))
	p.mFailed = provider.Counter("taskpool.tasks.failed",
		metrics.WithHelp("tasks whose body returned an error or panicked"))
	p.mPending = provider.UpDownCounter("taskpool.tasks.pending",
		metrics.WithHelp("tasks accepted and not yet completed"))
	p.mDuration = provider.Histogram("taskpool.task.duration",
		metrics.WithHelp("task execution time"), metrics.WithUnit("seconds"))
}

// Submit enqueues t for execution.
//
// It blocks while the queue is full and the pool is open. It fails with
// ErrPoolClosed once Shutdown has begun, whether before the call or while
// blocked; in that case the task is not accepted and will not run.
func (p *Pool) Submit(t Task) error {
	if t == nil {
		return ErrNilTask
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.outstanding++
	p.mu.Unlock()

	if err := p.queue.Put(t); err != nil {
		// The queue closed while we were blocked; undo the accounting.
		p.taskSettled()
		return ErrPoolClosed
	}

	p.submitted.Add(1)
	p.mSubmitted.Add(1)
	p.mPending.Add(1)
	return nil
}

// Join blocks until every accepted task has completed execution, success or
// failure. It is a pure wait: it does not close the pool and may be called
// repeatedly, including concurrently. When no work is outstanding it
// returns immediately.
func (p *Pool) Join() {
	p.mu.Lock()
	for p.outstanding > 0 {
		p.idle.Wait()
	}
	p.mu.Unlock()
}

// Shutdown closes the pool to new work, lets the workers drain the queue,
// and blocks until every worker has terminated. Idempotent: concurrent and
// repeated calls all return after the first completed shutdown.
//
// Every task accepted by Submit before Shutdown began is executed before
// Shutdown returns. After return, Submit fails with ErrPoolClosed.
func (p *Pool) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		p.queue.Close()
		p.workersWG.Wait()

		p.log.Debug("pool shut down",
			zap.Int64("completed", p.completed.Load()),
			zap.Int64("failed", p.failed.Load()),
		)
	})
}

// WorkerCount returns the fixed number of workers.
func (p *Pool) WorkerCount() int { return p.workers }

// QueueLen returns the number of tasks currently queued.
func (p *Pool) QueueLen() int { return p.queue.Len() }

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Workers   int
	Submitted int64
	Completed int64
	Failed    int64
	Pending   int
}

// Stats returns current pool statistics. Completed counts both successful
// and failed executions; Pending is the queue length at the time of call.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.workers,
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Pending:   p.queue.Len(),
	}
}

// taskSettled decrements outstanding and wakes Join waiters on idle.
// Also used to roll back accounting for a Submit rejected by a closed queue.
func (p *Pool) taskSettled() {
	p.mu.Lock()
	p.outstanding--
	if p.outstanding == 0 {
		p.idle.Broadcast()
	}
	p.mu.Unlock()
}
