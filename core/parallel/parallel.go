// Package parallel provides the two dispatch shapes used across varimp:
// chunked data-parallel loops for dense numeric work, and a bounded worker
// pool over an explicit task list for fold computations.
package parallel

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Parallelize divides the specified total number (items) according to the
// number of CPU cores, and executes fn in parallel for each range [start, end).
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// Number of items each worker handles (ceiling division).
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup

	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold performs parallelization only when the number of
// items exceeds the threshold; below it, the loop runs sequentially. Small
// matrices are not worth the goroutine overhead.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// ForEachTask runs fn(i) for each task index 0..tasks-1 on a worker pool
// bounded by limit, and joins before returning. Each task failure carries its
// own error; the returned slice has one slot per task so callers can isolate
// per-task failures instead of aborting on the first one.
//
// A limit <= 0 means one worker per CPU core. The function always waits for
// every task, so by the time it returns no worker touches the errs slice.
func ForEachTask(tasks, limit int, fn func(i int) error) []error {
	errs := make([]error, tasks)
	if tasks == 0 {
		return errs
	}

	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	if limit > tasks {
		limit = tasks
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i := 0; i < tasks; i++ {
		i := i
		g.Go(func() error {
			errs[i] = fn(i)
			// Task errors are reported per slot, never through the group,
			// so one failing task cannot cancel its siblings.
			return nil
		})
	}

	// Join barrier: aggregation must not start before every fold is done.
	_ = g.Wait()
	return errs
}
