package taskpool

import (
	"time"

	"go.uber.org/zap"
)

// worker runs the take-execute loop: take one task, execute it to
// completion, repeat until the queue reports closed-and-empty. A worker
// never executes more than one task at a time and never reorders tasks.
func (p *Pool) worker(id int) {
	defer p.workersWG.Done()

	for {
		t, err := p.queue.Take()
		if err != nil {
			// Closed and drained: terminate.
			p.log.Debug("worker exiting", zap.Int("worker", id))
			return
		}
		p.runTask(id, t)
	}
}

// runTask executes one task under panic recovery and settles its
// accounting. Failures are recorded and reported, never propagated.
func (p *Pool) runTask(id int, t Task) {
	defer p.taskSettled()

	start := time.Now()
	err := execTask(p.ctx, t)
	p.mDuration.Record(time.Since(start).Seconds())

	p.completed.Add(1)
	p.mCompleted.Add(1)
	p.mPending.Add(-1)

	if err != nil {
		p.failed.Add(1)
		p.mFailed.Add(1)
		p.log.Warn("task failed", zap.Int("worker", id), zap.Error(err))
		if p.cfg.OnFailure != nil {
			p.cfg.OnFailure(err)
		}
	}
}
