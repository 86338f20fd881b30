package metrics

// NoopProvider returns instruments that discard every measurement. It is
// the default provider: a pool without metrics wiring costs nothing.
type NoopProvider struct{}

// NewNoopProvider constructs a Provider that discards all metrics.
func NewNoopProvider() NoopProvider { return NoopProvider{} }

func (NoopProvider) Counter(string, ...InstrumentOption) Counter {
	return noopCounter{}
}

func (NoopProvider) UpDownCounter(string, ...InstrumentOption) UpDownCounter {
	return noopUpDownCounter{}
}

func (NoopProvider) Histogram(string, ...InstrumentOption) Histogram {
	return noopHistogram{}
}

type noopCounter struct{}

func (noopCounter) Add(int64) {}

type noopUpDownCounter struct{}

func (noopUpDownCounter) Add(int64) {}

type noopHistogram struct{}

func (noopHistogram) Record(float64) {}
