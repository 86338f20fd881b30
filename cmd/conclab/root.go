package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ygrebnov/taskpool/bench"
)

var (
	runs  int
	debug bool

	logger = zap.NewNop()
)

// rootCmd is the base command; every exercise is a subcommand and is fully
// independent of the others, sharing only the taskpool core and the bench
// harness.
var rootCmd = &cobra.Command{
	Use:   "conclab",
	Short: "Concurrency exercises built on the taskpool toolkit",
	Long: `conclab runs a set of small, independent concurrency exercises:
shared-counter races and their fixes, a two-phase barrier, a bounded
producer/consumer queue, readers/writers locking, a Monte Carlo estimate
of pi, and a parallel reduction on the fixed-size worker pool.

Every exercise is timed the same way: the operation runs a fixed number
of times, the first run is discarded as warmup, and the report shows the
mean latency, the speedup against a sequential baseline, and the
efficiency (speedup divided by worker count).`,
	SilenceUsage: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		var err error
		logger, err = newLogger(debug)
		return err
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&runs, "runs", bench.DefaultRuns,
		"timed executions per approach; the first one is warmup")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}
