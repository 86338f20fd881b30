package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PromProvider implements Provider on top of a Prometheus registerer.
// Counters map to prometheus counters, up/down counters to gauges, and
// histograms to prometheus histograms with default buckets. Instrument
// names are sanitized to the prometheus naming charset ("." and "-" become
// "_").
type PromProvider struct {
	reg prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// NewPromProvider constructs a PromProvider registering into reg. Passing
// nil uses prometheus.DefaultRegisterer.
func NewPromProvider(reg prometheus.Registerer) *PromProvider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PromProvider{
		reg:        reg,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// Counter returns the prometheus counter registered under name, creating
// and registering it on first use.
func (p *PromProvider) Counter(name string, opts ...InstrumentOption) Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.counters[name]; ok {
		return promCounter{c}
	}
	cfg := applyOptions(opts)
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: sanitizeName(name),
		Help: cfg.Help,
	})
	p.reg.MustRegister(c)
	p.counters[name] = c
	return promCounter{c}
}

// UpDownCounter returns a gauge-backed up/down counter registered under
// name, creating and registering it on first use.
func (p *PromProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok := p.gauges[name]; ok {
		return promGauge{g}
	}
	cfg := applyOptions(opts)
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: sanitizeName(name),
		Help: cfg.Help,
	})
	p.reg.MustRegister(g)
	p.gauges[name] = g
	return promGauge{g}
}

// Histogram returns the prometheus histogram registered under name,
// creating and registering it on first use.
func (p *PromProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.histograms[name]; ok {
		return promHistogram{h}
	}
	cfg := applyOptions(opts)
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    sanitizeName(name),
		Help:    cfg.Help,
		Buckets: prometheus.DefBuckets,
	})
	p.reg.MustRegister(h)
	p.histograms[name] = h
	return promHistogram{h}
}

func sanitizeName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}

type promCounter struct{ c prometheus.Counter }

func (p promCounter) Add(n int64) { p.c.Add(float64(n)) }

type promGauge struct{ g prometheus.Gauge }

func (p promGauge) Add(n int64) { p.g.Add(float64(n)) }

type promHistogram struct{ h prometheus.Histogram }

func (p promHistogram) Record(v float64) { p.h.Observe(v) }
