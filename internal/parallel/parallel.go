// Package parallel provides the fork-join loop used by the numerical core.
//
// Work is split into contiguous chunks of the index range and each chunk is
// handed to one goroutine. Chunks never overlap, so callers may write their
// results into disjoint slots of a shared slice without locking.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MinChunk is the smallest range a single goroutine is given. Below this the
// scheduling overhead dominates the per-element work.
const MinChunk = 16

// DefaultWorkers returns the worker count used when none is configured.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// For calls fn over [0, n) split into at most workers chunks and blocks until
// every chunk has returned. workers <= 0 selects DefaultWorkers.
//
// Each index is visited exactly once. The order in which chunks run is not
// defined, but every chunk walks its own range in ascending order.
func For(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	chunks := chunkCount(n, workers)
	if chunks == 1 {
		fn(0, n)
		return
	}

	size := (n + chunks - 1) / chunks
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		lo, hi := lo, min(lo+size, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	// fn cannot fail; Wait only joins.
	_ = g.Wait()
}

// Map evaluates fn for every index in [0, n) and returns the results in index
// order.
func Map[T any](n, workers int, fn func(i int) T) []T {
	if n <= 0 {
		return []T{}
	}
	out := make([]T, n)
	For(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = fn(i)
		}
	})
	return out
}

func chunkCount(n, workers int) int {
	chunks := n / MinChunk
	if chunks < 1 {
		chunks = 1
	}
	if chunks > workers {
		chunks = workers
	}
	return chunks
}
