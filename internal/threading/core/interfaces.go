package core

import (
	"context"
	"runtime"
	"sync"

	"rayder/internal/mathutil"
)

// Runner runs fn for every index in [start, end) and returns when all calls
// have finished. Calls may run concurrently.
type Runner interface {
	ParallelFor(start, end int, fn func(int))
}

// Sequential is a Runner that stays on the calling goroutine.
type Sequential struct{}

func (Sequential) ParallelFor(start, end int, fn func(int)) {
	for i := start; i < end; i++ {
		fn(i)
	}
}

// NewRunner returns Sequential for a single worker, a per-CPU pool for zero
// and a started WorkerPool of the given size otherwise. The returned stop
// function releases the pool's goroutines.
func NewRunner(workers int) (Runner, func()) {
	switch {
	case workers == 1:
		return Sequential{}, func() {}
	case workers <= 0:
		pool := CreateDefaultWorkerPool()
		return pool, pool.Stop
	}
	pool := NewWorkerPool(workers)
	pool.Start()
	return pool, pool.Stop
}

// CreateDefaultWorkerPool creates and starts a pool with one worker per CPU.
func CreateDefaultWorkerPool() *WorkerPool {
	pool := NewWorkerPool(0)
	pool.Start()
	return pool
}

// ParallelMap applies fn to every item concurrently and returns the results
// in input order.
func ParallelMap[T any, R any](items []T, fn func(T) R) []R {
	return ParallelMapWithContext(context.Background(), items, fn)
}

// ParallelMapWithContext is ParallelMap with cancellation checked between
// items. Results for skipped items are left at their zero value.
func ParallelMapWithContext[T any, R any](ctx context.Context, items []T, fn func(T) R) []R {
	if len(items) == 0 {
		return nil
	}

	numWorkers := mathutil.IntMin(runtime.NumCPU(), len(items))
	chunkSize := mathutil.IntMax(1, (len(items)+numWorkers-1)/numWorkers)

	results := make([]R, len(items))
	var wg sync.WaitGroup

	for i := 0; i < len(items); i += chunkSize {
		start := i
		end := mathutil.IntMin(i+chunkSize, len(items))

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for j := start; j < end; j++ {
				select {
				case <-ctx.Done():
					return
				default:
					results[j] = fn(items[j])
				}
			}
		}(start, end)
	}

	wg.Wait()
	return results
}
