package taskpool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewQueue_InvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		_, err := NewQueue[int](capacity)
		require.ErrorIs(t, err, ErrInvalidConfig, "capacity %d must be rejected", capacity)
	}
}

func TestQueue_FIFO(t *testing.T) {
	q, err := NewQueue[int](10)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, q.Put(i))
	}
	for i := 0; i < 10; i++ {
		v, err := q.Take()
		require.NoError(t, err)
		require.Equal(t, i, v, "elements must come out in insertion order")
	}
}

func TestQueue_WrapAround(t *testing.T) {
	// Exercise the ring buffer across several full cycles.
	q, err := NewQueue[int](3)
	require.NoError(t, err)

	next := 0
	for cycle := 0; cycle < 4; cycle++ {
		for i := 0; i < 3; i++ {
			require.NoError(t, q.Put(next+i))
		}
		for i := 0; i < 3; i++ {
			v, err := q.Take()
			require.NoError(t, err)
			require.Equal(t, next+i, v)
		}
		next += 3
	}
	require.Equal(t, uint64(12), q.Accepted())
}

func TestQueue_PutBlocksWhenFull(t *testing.T) {
	q, err := NewQueue[int](1)
	require.NoError(t, err)
	require.NoError(t, q.Put(1))

	done := make(chan error, 1)
	go func() { done <- q.Put(2) }()

	select {
	case <-done:
		t.Fatal("Put returned while the queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	v, err := q.Take()
	require.NoError(t, err)
	require.Equal(t, 1, v)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Put did not complete after space was freed")
	}
}

func TestQueue_TakeBlocksWhenEmpty(t *testing.T) {
	q, err := NewQueue[int](1)
	require.NoError(t, err)

	got := make(chan int, 1)
	go func() {
		v, err := q.Take()
		require.NoError(t, err)
		got <- v
	}()

	select {
	case <-got:
		t.Fatal("Take returned on an empty queue")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, q.Put(7))
	select {
	case v := <-got:
		require.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("Take did not complete after an element arrived")
	}
}

func TestQueue_CloseRejectsProducersDrainsConsumers(t *testing.T) {
	q, err := NewQueue[int](4)
	require.NoError(t, err)
	require.NoError(t, q.Put(1))
	require.NoError(t, q.Put(2))

	q.Close()

	require.ErrorIs(t, q.Put(3), ErrQueueClosed)

	// Queued elements survive the close.
	for want := 1; want <= 2; want++ {
		v, err := q.Take()
		require.NoError(t, err)
		require.Equal(t, want, v)
	}
	_, err = q.Take()
	require.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueue_CloseWakesBlockedProducer(t *testing.T) {
	q, err := NewQueue[int](1)
	require.NoError(t, err)
	require.NoError(t, q.Put(1))

	done := make(chan error, 1)
	go func() { done <- q.Put(2) }()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("blocked Put was not woken by Close")
	}
}

func TestQueue_CloseWakesBlockedConsumers(t *testing.T) {
	q, err := NewQueue[int](1)
	require.NoError(t, err)

	const consumers = 3
	var wg sync.WaitGroup
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := q.Take()
			require.ErrorIs(t, err, ErrQueueClosed)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.Close()
	wg.Wait()
}

func TestQueue_CloseIdempotent(t *testing.T) {
	q, err := NewQueue[int](1)
	require.NoError(t, err)
	q.Close()
	q.Close() // must not panic or hang
	require.ErrorIs(t, q.Put(1), ErrQueueClosed)
}

func TestQueue_CapacityInvariant(t *testing.T) {
	// Hammer the queue with concurrent producers and consumers while
	// sampling its length; it must stay within [0, capacity].
	const (
		capacity  = 4
		producers = 4
		perProd   = 500
	)
	q, err := NewQueue[int](capacity)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProd; i++ {
				require.NoError(t, q.Put(i))
			}
		}()
	}

	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				l := q.Len()
				require.GreaterOrEqual(t, l, 0)
				require.LessOrEqual(t, l, capacity)
			}
		}
	}()

	taken := 0
	for taken < producers*perProd {
		_, err := q.Take()
		require.NoError(t, err)
		taken++
	}
	wg.Wait()
	close(stop)

	require.Equal(t, uint64(producers*perProd), q.Accepted())
	require.Equal(t, 0, q.Len())
}
