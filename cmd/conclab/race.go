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
	raceWorkers int
	raceIters   int
)

var raceCmd = &cobra.Command{
	Use:   "race",
	Short: "Demonstrate lost updates on an unsynchronized shared counter",
	Long: `race increments one shared integer from several goroutines without
any synchronization, on purpose, to show lost updates: the observed total
is normally below workers x iterations. This construct exists only for
this demonstration; everything else in the repository synchronizes shared
state.`,
	RunE: func(*cobra.Command, []string) error {
		return runRace(raceWorkers, raceIters)
	},
}

func init() {
	rootCmd.AddCommand(raceCmd)
	raceCmd.Flags().IntVarP(&raceWorkers, "workers", "w", runtime.NumCPU(), "goroutines incrementing the counter")
	raceCmd.Flags().IntVarP(&raceIters, "iterations", "i", 1_000_000, "increments per goroutine")
}

func runRace(workers, iters int) error {
	if workers <= 0 || iters <= 0 {
		return fmt.Errorf("workers and iterations must be positive")
	}
	expected := workers * iters

	var lastObserved int
	raced, err := bench.Measure(runs, func(int) {
		lastObserved = unsynchronizedCount(workers, iters)
	})
	if err != nil {
		return err
	}

	var seqTotal int
	seq, err := bench.Measure(runs, func(int) {
		seqTotal = sequentialCount(expected)
	})
	if err != nil {
		return err
	}
	if seqTotal != expected {
		return fmt.Errorf("sequential counter reached %d, want %d", seqTotal, expected)
	}

	bench.LogRuns(os.Stdout, "unsynchronized counter", raced)
	bench.LogRuns(os.Stdout, "sequential counter", seq)

	logger.Info("race outcome",
		zap.Int("expected", expected),
		zap.Int("observed", lastObserved),
		zap.Int("lost_updates", expected-lastObserved),
	)
	if lastObserved == expected {
		fmt.Println("no updates lost this time; rerun or raise --iterations to observe the race")
	} else {
		fmt.Printf("lost %d of %d updates to the race\n", expected-lastObserved, expected)
	}
	return nil
}

// unsynchronizedCount increments a shared counter from workers goroutines
// with no mutual exclusion. The counter is intentionally unsynchronized;
// this function is the deliberately broken half of the exercise.
func unsynchronizedCount(workers, iters int) int {
	counter := 0
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				counter++
			}
		}()
	}
	wg.Wait()
	return counter
}

func sequentialCount(total int) int {
	counter := 0
	for i := 0; i < total; i++ {
		counter++
	}
	return counter
}
