package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicProvider_InstrumentsSharedByName(t *testing.T) {
	p := NewBasicProvider()

	c1 := p.Counter("tasks.submitted", WithHelp("submitted tasks"))
	c2 := p.Counter("tasks.submitted")
	require.Same(t, c1, c2)

	c1.Add(2)
	c2.Add(3)
	require.Equal(t, int64(5), c1.(*BasicCounter).Snapshot())

	u1 := p.UpDownCounter("tasks.pending")
	u2 := p.UpDownCounter("tasks.pending")
	require.Same(t, u1, u2)

	h1 := p.Histogram("task.duration")
	h2 := p.Histogram("task.duration")
	require.Same(t, h1, h2)
}

func TestBasicUpDownCounter_GoesNegative(t *testing.T) {
	u := &BasicUpDownCounter{}
	u.Add(3)
	u.Add(-5)
	require.Equal(t, int64(-2), u.Snapshot())
}

func TestBasicHistogram_Snapshot(t *testing.T) {
	h := &BasicHistogram{}
	require.Equal(t, HistSnapshot{}, h.Snapshot())

	h.Record(4)
	h.Record(1)
	h.Record(7)

	s := h.Snapshot()
	require.Equal(t, int64(3), s.Count)
	require.InDelta(t, 12.0, s.Sum, 1e-9)
	require.InDelta(t, 1.0, s.Min, 1e-9)
	require.InDelta(t, 7.0, s.Max, 1e-9)
	require.InDelta(t, 4.0, s.Mean, 1e-9)
}

func TestBasicCounter_ConcurrentAdds(t *testing.T) {
	p := NewBasicProvider()
	c := p.Counter("hits")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(8000), c.(*BasicCounter).Snapshot())
}

func TestNoopProvider(t *testing.T) {
	p := NewNoopProvider()
	require.NotPanics(t, func() {
		p.Counter("a").Add(1)
		p.UpDownCounter("b").Add(-1)
		p.Histogram("c").Record(0.5)
	})
}
