package taskpool

import (
	"go.uber.org/zap"

	"github.com/ygrebnov/taskpool/metrics"
)

// config holds Pool configuration assembled from options.
type config struct {
	// QueueCapacity bounds the task queue. Zero means 2 x worker count.
	QueueCapacity int

	// Logger receives structured pool events. Defaults to a no-op logger.
	Logger *zap.Logger

	// Metrics constructs the instruments the pool records into.
	// Defaults to the no-op provider.
	Metrics metrics.Provider

	// OnFailure, when set, is invoked with the error of every failed task.
	// It runs on the worker goroutine and must not block.
	OnFailure func(error)
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		QueueCapacity: 0, // derived from worker count in New
		Logger:        zap.NewNop(),
		Metrics:       metrics.NewNoopProvider(),
	}
}

// validateConfig performs lightweight invariants checks after options ran.
func validateConfig(cfg *config) error {
	// QueueCapacity < 0 is rejected by WithQueueCapacity; zero means derived.
	// Logger and Metrics always carry non-nil defaults.
	return nil
}
