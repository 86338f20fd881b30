package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ygrebnov/taskpool"
	"github.com/ygrebnov/taskpool/bench"
	"github.com/ygrebnov/taskpool/metrics"
	"github.com/ygrebnov/taskpool/reduce"
)

var (
	reduceSize        int
	reduceWorkers     []int
	reduceQueueCap    int
	reduceConfigFile  string
	reduceMetricsAddr string
)

var reduceCmd = &cobra.Command{
	Use:   "reduce",
	Short: "Parallel sum over a large vector on the fixed-size worker pool",
	Long: `reduce sums the integers 0..n-1 with a fixed-size worker pool: the
input is split into one contiguous partition per worker, each partition is
a task, partial sums are combined in partition order, and the result is
validated against a sequential reference. Each worker count is timed
against the sequential baseline.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := reduceScenario(cmd.Flags())
		if err != nil {
			return err
		}
		return runReduce(cmd, s)
	},
}

func init() {
	rootCmd.AddCommand(reduceCmd)
	reduceCmd.Flags().IntVarP(&reduceSize, "size", "n", 0, "number of elements to reduce")
	reduceCmd.Flags().IntSliceVarP(&reduceWorkers, "workers", "w", nil, "worker counts to evaluate")
	reduceCmd.Flags().IntVar(&reduceQueueCap, "queue-capacity", 0, "task queue capacity (default 2 x workers)")
	reduceCmd.Flags().StringVarP(&reduceConfigFile, "config", "c", "", "scenario file (YAML)")
	reduceCmd.Flags().StringVar(&reduceMetricsAddr, "metrics-address", "", "serve prometheus metrics on this address")
}

// reduceScenario merges the optional scenario file with command-line flags;
// explicitly set flags win.
func reduceScenario(fs *pflag.FlagSet) (*scenario, error) {
	s := defaultScenario()
	if reduceConfigFile != "" {
		loaded, err := loadScenario(reduceConfigFile)
		if err != nil {
			return nil, err
		}
		s = loaded
	}
	if fs.Changed("runs") || reduceConfigFile == "" {
		s.Runs = runs
	}
	if fs.Changed("size") {
		s.InputSize = reduceSize
	}
	if fs.Changed("workers") {
		s.Workers = reduceWorkers
	}
	if fs.Changed("queue-capacity") {
		s.QueueCapacity = reduceQueueCap
	}
	return s, s.validateSetDefaults()
}

func runReduce(cmd *cobra.Command, s *scenario) error {
	ctx := cmd.Context()

	provider := poolMetricsProvider()
	if reduceMetricsAddr != "" {
		serveMetrics(reduceMetricsAddr)
	}

	data := make([]int64, s.InputSize)
	for i := range data {
		data[i] = int64(i)
	}
	expected := int64(s.InputSize) * int64(s.InputSize-1) / 2

	engine := reduce.NewEngine[int64](reduce.Sum[int64], 0, reduce.WithEngineLogger[int64](logger))

	logger.Info("reduction scenario",
		zap.Int("input_size", s.InputSize),
		zap.Ints("workers", s.Workers),
		zap.Int("runs", s.Runs),
	)

	var reference int64
	seq, err := bench.Measure(s.Runs, func(int) {
		reference = engine.Sequential(data)
	})
	if err != nil {
		return err
	}
	bench.LogRuns(os.Stdout, "sequential", seq)
	if reference != expected {
		return fmt.Errorf("sequential sum %d does not match closed form %d", reference, expected)
	}

	report := bench.NewReport(fmt.Sprintf("parallel sum of %d elements", s.InputSize))
	report.Add("sequential", 1, seq, seq, true)

	for _, workers := range s.Workers {
		opts := []taskpool.Option{
			taskpool.WithLogger(logger),
			taskpool.WithMetricsProvider(provider),
		}
		if s.QueueCapacity > 0 {
			opts = append(opts, taskpool.WithQueueCapacity(s.QueueCapacity))
		}
		runner := reduce.NewRunner(engine, data, workers, opts...)

		valid := true
		par, err := bench.Measure(s.Runs, func(run int) {
			out, runErr := runner.RunOnce(ctx)
			if runErr != nil {
				logger.Error("reduction run failed", zap.Int("run", run), zap.Error(runErr))
				valid = false
				return
			}
			// The warmup run's timing is discarded but its outcome still
			// counts for correctness.
			if !out.Valid {
				logger.Warn("validation mismatch",
					zap.Int("workers", workers),
					zap.Int64("result", out.Result),
					zap.Int64("reference", out.Reference),
				)
				valid = false
			}
		})
		if err != nil {
			return err
		}
		bench.LogRuns(os.Stdout, fmt.Sprintf("pool, %d worker(s)", workers), par)
		report.Add("pool", workers, seq, par, valid)
	}

	fmt.Println()
	return report.Render(os.Stdout)
}

// poolMetricsProvider picks the metrics backend: prometheus when the
// metrics endpoint is enabled, in-memory otherwise.
func poolMetricsProvider() metrics.Provider {
	if reduceMetricsAddr == "" {
		return metrics.NewBasicProvider()
	}
	return metrics.NewPromProvider(prometheus.DefaultRegisterer)
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		logger.Info("serving metrics", zap.String("address", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
}
