package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ygrebnov/taskpool/bench"
)

var (
	mcSamples     int
	mcWorkers     []int
	mcMultipliers []int
	mcSeed        int64
)

var montecarloCmd = &cobra.Command{
	Use:   "montecarlo",
	Short: "Estimate pi by Monte Carlo sampling across goroutines",
	Long: `montecarlo throws uniform points at the unit square and counts hits
inside the quarter circle; 4 x hits / samples approximates pi. Each
goroutine owns an independent deterministic random source, so runs are
repeatable. Larger workloads (the multipliers) show how the
parallel efficiency improves when each goroutine has more work per
synchronization.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMonteCarlo(cmd)
	},
}

func init() {
	rootCmd.AddCommand(montecarloCmd)
	montecarloCmd.Flags().IntVarP(&mcSamples, "samples", "k", 200_000, "base samples per goroutine")
	montecarloCmd.Flags().IntSliceVarP(&mcWorkers, "workers", "w", []int{1, 2, 4, 8}, "goroutine counts to evaluate")
	montecarloCmd.Flags().IntSliceVar(&mcMultipliers, "multipliers", []int{1, 5, 25}, "workload multipliers")
	montecarloCmd.Flags().Int64Var(&mcSeed, "seed", 1, "base random seed")
}

func runMonteCarlo(cmd *cobra.Command) error {
	if mcSamples <= 0 {
		return fmt.Errorf("samples must be positive")
	}
	for _, w := range mcWorkers {
		if w <= 0 {
			return fmt.Errorf("worker counts must be positive")
		}
	}

	ctx := cmd.Context()
	for _, mult := range mcMultipliers {
		if mult <= 0 {
			return fmt.Errorf("multipliers must be positive")
		}
		perWorker := mcSamples * mult

		var seqPi float64
		seq, err := bench.Measure(runs, func(int) {
			seqPi = estimatePi(perWorker, mcSeed)
		})
		if err != nil {
			return err
		}

		report := bench.NewReport(fmt.Sprintf("pi estimate, %d samples per goroutine", perWorker))
		report.Add("sequential", 1, seq, seq, true)

		for _, workers := range mcWorkers {
			workers := workers
			var pi float64
			par, err := bench.Measure(runs, func(int) {
				pi, _ = estimatePiParallel(ctx, perWorker, workers, mcSeed)
			})
			if err != nil {
				return err
			}
			// The estimate converges on pi but never equals it; correctness
			// here means a sane value, not bit equality.
			ok := math.Abs(pi-math.Pi) < 0.05
			report.Add("parallel", workers, seq, par, ok)
			logger.Info("pi estimate",
				zap.Int("workers", workers),
				zap.Int("samples_per_worker", perWorker),
				zap.Float64("estimate", pi),
				zap.Float64("error", math.Abs(pi-math.Pi)),
			)
		}

		logger.Debug("sequential estimate", zap.Float64("estimate", seqPi))
		if err := report.Render(os.Stdout); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

// estimatePi samples sequentially with a single source.
func estimatePi(samples int, seed int64) float64 {
	rng := rand.New(rand.NewSource(seed))
	inside := 0
	for i := 0; i < samples; i++ {
		x, y := rng.Float64(), rng.Float64()
		if x*x+y*y <= 1 {
			inside++
		}
	}
	return 4 * float64(inside) / float64(samples)
}

// estimatePiParallel distributes perWorker samples to each of workers
// goroutines, every one seeded independently so the run is deterministic.
func estimatePiParallel(ctx context.Context, perWorker, workers int, seed int64) (float64, error) {
	var inside atomic.Int64
	g, _ := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(w)))
			hits := 0
			for i := 0; i < perWorker; i++ {
				x, y := rng.Float64(), rng.Float64()
				if x*x+y*y <= 1 {
					hits++
				}
			}
			inside.Add(int64(hits))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	total := perWorker * workers
	return 4 * float64(inside.Load()) / float64(total), nil
}
