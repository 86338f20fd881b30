package taskpool

import (
	"go.uber.org/zap"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/taskpool/metrics"
)

// Option configures a Pool. Use New(ctx, workers, opts...) to construct a
// Pool via options. Invalid input is reported as an error wrapping
// ErrInvalidConfig instead of panicking.
type Option func(*config) error

// WithQueueCapacity bounds the task queue to the given capacity (must be > 0).
// Without this option the capacity defaults to twice the worker count.
func WithQueueCapacity(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithQueueCapacity requires n > 0"))
		}
		cfg.QueueCapacity = n
		return nil
	}
}

// WithLogger sets the logger the pool emits structured events to.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithLogger requires a non-nil logger"))
		}
		cfg.Logger = l
		return nil
	}
}

// WithMetricsProvider sets the provider the pool records instruments into.
func WithMetricsProvider(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithMetricsProvider requires a non-nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}

// WithFailureHandler registers fn to be called with the error of every
// failed task. fn runs on the executing worker's goroutine.
func WithFailureHandler(fn func(error)) Option {
	return func(cfg *config) error {
		cfg.OnFailure = fn
		return nil
	}
}
