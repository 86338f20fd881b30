package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ygrebnov/taskpool/bench"
)

var (
	rwReaders      int
	rwWriters      int
	rwReadsPerR    int
	rwWritesPerW   int
	rwAccountCount int
)

var rwlockCmd = &cobra.Command{
	Use:   "rwlock",
	Short: "Readers and writers over a shared ledger: RWMutex versus exclusive Mutex",
	Long: `rwlock drives concurrent readers (summing a 64-key account ledger) and
writers (depositing into round-robin accounts) through two locking
disciplines: sync.RWMutex, which admits parallel readers, and a plain
Mutex, which serializes everyone. The final ledger total must match the
deposits exactly under both.`,
	RunE: func(*cobra.Command, []string) error {
		return runRWLock()
	},
}

func init() {
	rootCmd.AddCommand(rwlockCmd)
	rwlockCmd.Flags().IntVar(&rwReaders, "readers", 5, "reader goroutines")
	rwlockCmd.Flags().IntVar(&rwWriters, "writers", 2, "writer goroutines")
	rwlockCmd.Flags().IntVar(&rwReadsPerR, "reads", 5_000, "reads per reader")
	rwlockCmd.Flags().IntVar(&rwWritesPerW, "writes", 3_000, "writes per writer")
	rwlockCmd.Flags().IntVar(&rwAccountCount, "accounts", 64, "ledger keys")
}

const depositAmount = 10

func runRWLock() error {
	if rwReaders <= 0 || rwWriters <= 0 || rwReadsPerR <= 0 || rwWritesPerW <= 0 || rwAccountCount <= 0 {
		return fmt.Errorf("readers, writers, reads, writes, and accounts must be positive")
	}
	expected := int64(rwWriters) * int64(rwWritesPerW) * depositAmount

	var rwTotal, muTotal int64
	rwStats, err := bench.Measure(runs, func(int) {
		rwTotal = runLedger(newRWLedger(rwAccountCount))
	})
	if err != nil {
		return err
	}
	muStats, err := bench.Measure(runs, func(int) {
		muTotal = runLedger(newMutexLedger(rwAccountCount))
	})
	if err != nil {
		return err
	}

	bench.LogRuns(os.Stdout, "RWMutex ledger", rwStats)
	bench.LogRuns(os.Stdout, "exclusive Mutex ledger", muStats)

	logger.Info("rwlock outcome",
		zap.Int64("expected", expected),
		zap.Int64("rwmutex_total", rwTotal),
		zap.Int64("mutex_total", muTotal),
		zap.Float64("rwmutex_speedup", bench.Speedup(muStats, rwStats)),
	)
	if rwTotal != expected || muTotal != expected {
		return fmt.Errorf("ledger mismatch: rwmutex %d, mutex %d, want %d", rwTotal, muTotal, expected)
	}
	fmt.Printf("both disciplines balanced at %d; RWMutex was %.2fx the Mutex latency\n",
		expected, bench.Speedup(muStats, rwStats))
	return nil
}

// ledger is the shared structure both locking disciplines implement:
// deposit into one account, sum all accounts.
type ledger interface {
	deposit(account int, amount int64)
	total() int64
}

// runLedger drives the configured readers and writers to completion and
// returns the final ledger total.
func runLedger(l ledger) int64 {
	var wg sync.WaitGroup

	for w := 0; w < rwWriters; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rwWritesPerW; i++ {
				l.deposit((w*rwWritesPerW+i)%rwAccountCount, depositAmount)
			}
		}()
	}
	for r := 0; r < rwReaders; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rwReadsPerR; i++ {
				_ = l.total()
			}
		}()
	}
	wg.Wait()

	return l.total()
}

type rwLedger struct {
	mu       sync.RWMutex
	accounts []int64
}

func newRWLedger(accounts int) *rwLedger {
	return &rwLedger{accounts: make([]int64, accounts)}
}

func (l *rwLedger) deposit(account int, amount int64) {
	l.mu.Lock()
	l.accounts[account] += amount
	l.mu.Unlock()
}

func (l *rwLedger) total() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var sum int64
	for _, v := range l.accounts {
		sum += v
	}
	return sum
}

type mutexLedger struct {
	mu       sync.Mutex
	accounts []int64
}

func newMutexLedger(accounts int) *mutexLedger {
	return &mutexLedger{accounts: make([]int64, accounts)}
}

func (l *mutexLedger) deposit(account int, amount int64) {
	l.mu.Lock()
	l.accounts[account] += amount
	l.mu.Unlock()
}

func (l *mutexLedger) total() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var sum int64
	for _, v := range l.accounts {
		sum += v
	}
	return sum
}
