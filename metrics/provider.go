// Package metrics defines the minimal instrumentation surface the pool
// records into, with in-memory, no-op, and Prometheus-backed providers.
package metrics

// Provider constructs instruments used to record metrics. Implementations
// must be safe for concurrent use and must return the same instrument for
// the same name.
//
// Keep this interface minimal and stable; add separate optional interfaces
// rather than expanding this surface.
type Provider interface {
	Counter(name string, opts ...InstrumentOption) Counter
	UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter
	Histogram(name string, opts ...InstrumentOption) Histogram
}

// Counter records monotonic counts.
type Counter interface {
	Add(n int64)
}

// UpDownCounter records values that can move up or down, e.g. pending work.
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records a distribution of float64 measurements, e.g. durations
// in seconds.
type Histogram interface {
	Record(v float64)
}

// InstrumentConfig carries optional instrument metadata. It is advisory:
// implementations may ignore any field.
type InstrumentConfig struct {
	Help string
	Unit string
}

// InstrumentOption mutates InstrumentConfig.
type InstrumentOption func(*InstrumentConfig)

// WithHelp sets a human-readable description for the instrument.
func WithHelp(help string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Help = help }
}

// WithUnit sets an advisory unit for the instrument, e.g. "seconds".
func WithUnit(unit string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Unit = unit }
}

func applyOptions(opts []InstrumentOption) InstrumentConfig {
	var cfg InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}
