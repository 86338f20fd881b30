package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ygrebnov/taskpool/bench"
)

var barrierWorkers int

var barrierCmd = &cobra.Command{
	Use:   "barrier",
	Short: "Two-phase rendezvous: no goroutine enters phase two before all finish phase one",
	RunE: func(*cobra.Command, []string) error {
		return runBarrier(barrierWorkers)
	},
}

func init() {
	rootCmd.AddCommand(barrierCmd)
	barrierCmd.Flags().IntVarP(&barrierWorkers, "workers", "w", runtime.NumCPU(), "goroutines meeting at the barrier")
}

func runBarrier(workers int) error {
	if workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}

	ok := true
	par, err := bench.Measure(runs, func(int) {
		ok = ok && twoPhase(workers)
	})
	if err != nil {
		return err
	}
	seq, err := bench.Measure(runs, func(int) {
		sequentialTwoPhase(workers)
	})
	if err != nil {
		return err
	}

	bench.LogRuns(os.Stdout, "barrier two-phase", par)
	bench.LogRuns(os.Stdout, "sequential two-phase", seq)

	logger.Info("barrier outcome", zap.Int("workers", workers), zap.Bool("ordered", ok))
	if !ok {
		return fmt.Errorf("a goroutine entered phase two before phase one completed everywhere")
	}
	fmt.Printf("all %d goroutines completed phase one before any entered phase two\n", workers)
	return nil
}

// twoPhase runs workers goroutines through phase one, a barrier, then phase
// two, and reports whether every goroutine observed all phase-one work
// complete when it entered phase two.
func twoPhase(workers int) bool {
	b := newBarrier(workers)
	var (
		phaseOneDone atomic.Int64
		violations   atomic.Int64
		wg           sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			phaseOneDone.Add(1)
			b.await()
			if phaseOneDone.Load() != int64(workers) {
				violations.Add(1)
			}
		}()
	}
	wg.Wait()
	return violations.Load() == 0
}

func sequentialTwoPhase(workers int) {
	done := 0
	for w := 0; w < workers; w++ {
		done++
	}
	for w := 0; w < workers; w++ {
		_ = done
	}
}

// barrier is a reusable two-phase rendezvous point for a fixed number of
// parties, built from a mutex and a condition variable. The generation
// counter lets the same barrier be reused across cycles.
type barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	waiting    int
	generation int
}

func newBarrier(parties int) *barrier {
	b := &barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// await blocks until all parties have called await for the current
// generation, then releases them together.
func (b *barrier) await() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.generation
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.generation++
		b.cond.Broadcast()
		return
	}
	for gen == b.generation {
		b.cond.Wait()
	}
}
