package main

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ygrebnov/taskpool"
	"github.com/ygrebnov/taskpool/bench"
)

var (
	prodconsTotal     int
	prodconsProducers int
	prodconsConsumers int
	prodconsCapacity  int
)

var prodconsCmd = &cobra.Command{
	Use:   "prodcons",
	Short: "Producers and consumers sharing the bounded blocking queue",
	Long: `prodcons pushes a fixed number of items through the toolkit's bounded
queue: producers block when the queue is full, consumers block when it is
empty, and closing the queue after the producers finish lets the
consumers drain the remainder and terminate. Every item must be consumed
exactly once.`,
	RunE: func(*cobra.Command, []string) error {
		return runProdCons(prodconsTotal, prodconsProducers, prodconsConsumers, prodconsCapacity)
	},
}

func init() {
	rootCmd.AddCommand(prodconsCmd)
	prodconsCmd.Flags().IntVarP(&prodconsTotal, "items", "n", 200, "total items to produce")
	prodconsCmd.Flags().IntVar(&prodconsProducers, "producers", 2, "producer goroutines")
	prodconsCmd.Flags().IntVar(&prodconsConsumers, "consumers", 2, "consumer goroutines")
	prodconsCmd.Flags().IntVar(&prodconsCapacity, "capacity", 32, "queue capacity")
}

func runProdCons(total, producers, consumers, capacity int) error {
	if total < producers {
		return fmt.Errorf("items (%d) must be at least the number of producers (%d)", total, producers)
	}
	if producers <= 0 || consumers <= 0 || capacity <= 0 {
		return fmt.Errorf("producers, consumers, and capacity must be positive")
	}

	// Items are 0..total-1, so the consumed sum has a closed form.
	expectedSum := int64(total) * int64(total-1) / 2

	var consumed, sum int64
	stats, err := bench.Measure(runs, func(int) {
		var runErr error
		consumed, sum, runErr = produceConsume(total, producers, consumers, capacity)
		if runErr != nil {
			logger.Error("producer/consumer run failed", zap.Error(runErr))
		}
	})
	if err != nil {
		return err
	}

	bench.LogRuns(os.Stdout, fmt.Sprintf("%d producers / %d consumers, capacity %d",
		producers, consumers, capacity), stats)

	logger.Info("prodcons outcome",
		zap.Int64("consumed", consumed),
		zap.Int64("sum", sum),
		zap.Int64("expected_sum", expectedSum),
	)
	if consumed != int64(total) || sum != expectedSum {
		return fmt.Errorf("consumed %d items with sum %d, want %d items with sum %d",
			consumed, sum, total, expectedSum)
	}
	fmt.Printf("all %d items consumed exactly once (sum %d)\n", total, sum)
	return nil
}

// produceConsume runs one full cycle: producers split the item range,
// a closer goroutine closes the queue once they all finish, and consumers
// drain until the queue reports closed-and-empty.
func produceConsume(total, producers, consumers, capacity int) (consumed, sum int64, err error) {
	q, err := taskpool.NewQueue[int](capacity)
	if err != nil {
		return 0, 0, err
	}

	spans := itemSpans(total, producers)
	var prodWG sync.WaitGroup
	for _, s := range spans {
		s := s
		prodWG.Add(1)
		go func() {
			defer prodWG.Done()
			for v := s.start; v < s.end; v++ {
				if putErr := q.Put(v); putErr != nil {
					return
				}
			}
		}()
	}
	go func() {
		prodWG.Wait()
		q.Close()
	}()

	var (
		consWG       sync.WaitGroup
		consumedAtom atomic.Int64
		sumAtom      atomic.Int64
	)
	for c := 0; c < consumers; c++ {
		consWG.Add(1)
		go func() {
			defer consWG.Done()
			for {
				v, takeErr := q.Take()
				if errors.Is(takeErr, taskpool.ErrQueueClosed) {
					return
				}
				consumedAtom.Add(1)
				sumAtom.Add(int64(v))
			}
		}()
	}
	consWG.Wait()

	return consumedAtom.Load(), sumAtom.Load(), nil
}

type itemSpan struct{ start, end int }

// itemSpans splits [0, total) into one contiguous range per producer, the
// remainder going to the first producers.
func itemSpans(total, producers int) []itemSpan {
	base, rem := total/producers, total%producers
	spans := make([]itemSpan, 0, producers)
	start := 0
	for p := 0; p < producers; p++ {
		size := base
		if p < rem {
			size++
		}
		spans = append(spans, itemSpan{start: start, end: start + size})
		start += size
	}
	return spans
}
