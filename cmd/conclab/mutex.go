package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ygrebnov/taskpool/bench"
)

var (
	mutexWorkers   int
	mutexIters     int
	mutexBlockSize int
)

var mutexCmd = &cobra.Command{
	Use:   "mutex",
	Short: "Fix the counter race with mutual exclusion, varying lock granularity",
	Long: `mutex guards the shared counter with a sync.Mutex and compares two
granularities: acquiring the lock for every single increment versus
accumulating a block locally and folding it in under one acquisition.
Both variants must reach exactly workers x iterations.`,
	RunE: func(*cobra.Command, []string) error {
		return runMutex(mutexWorkers, mutexIters, mutexBlockSize)
	},
}

func init() {
	rootCmd.AddCommand(mutexCmd)
	mutexCmd.Flags().IntVarP(&mutexWorkers, "workers", "w", runtime.NumCPU(), "goroutines incrementing the counter")
	mutexCmd.Flags().IntVarP(&mutexIters, "iterations", "i", 1_000_000, "increments per goroutine")
	mutexCmd.Flags().IntVar(&mutexBlockSize, "block", 1_000, "increments folded in per lock acquisition in block mode")
}

func runMutex(workers, iters, block int) error {
	if workers <= 0 || iters <= 0 || block <= 0 {
		return fmt.Errorf("workers, iterations, and block must be positive")
	}
	expected := int64(workers) * int64(iters)

	var perIncTotal, perBlockTotal int64
	perInc, err := bench.Measure(runs, func(int) {
		perIncTotal = lockPerIncrement(workers, iters)
	})
	if err != nil {
		return err
	}
	perBlock, err := bench.Measure(runs, func(int) {
		perBlockTotal = lockPerBlock(workers, iters, block)
	})
	if err != nil {
		return err
	}

	bench.LogRuns(os.Stdout, "lock per increment", perInc)
	bench.LogRuns(os.Stdout, fmt.Sprintf("lock per block of %d", block), perBlock)

	logger.Info("mutex outcome",
		zap.Int64("expected", expected),
		zap.Int64("per_increment", perIncTotal),
		zap.Int64("per_block", perBlockTotal),
		zap.Float64("block_speedup", bench.Speedup(perInc, perBlock)),
	)
	if perIncTotal != expected || perBlockTotal != expected {
		return fmt.Errorf("counter mismatch: per-increment %d, per-block %d, want %d",
			perIncTotal, perBlockTotal, expected)
	}
	fmt.Printf("both variants reached %d; coarser locking was %.2fx faster\n",
		expected, bench.Speedup(perInc, perBlock))
	return nil
}

func lockPerIncrement(workers, iters int) int64 {
	var (
		mu      sync.Mutex
		counter int64
		wg      sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				mu.Lock()
				counter++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return counter
}

func lockPerBlock(workers, iters, block int) int64 {
	var (
		mu      sync.Mutex
		counter int64
		wg      sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			done := 0
			for done < iters {
				n := block
				if iters-done < n {
					n = iters - done
				}
				local := int64(0)
				for i := 0; i < n; i++ {
					local++
				}
				mu.Lock()
				counter += local
				mu.Unlock()
				done += n
			}
		}()
	}
	wg.Wait()
	return counter
}
