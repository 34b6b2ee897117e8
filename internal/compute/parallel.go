package compute

import (
	"runtime"
	"sync"
)

// DefaultWorkers is the worker count used when a caller asks for "all cores".
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// ParallelFor executes fn over [0, n) split into contiguous chunks, one
// goroutine per chunk, and returns when every chunk is done. Chunks never
// overlap. With workers <= 1, or when n does not fill two chunks of
// minChunk, fn runs once on the calling goroutine.
func ParallelFor(n, workers, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if workers > n/minChunk {
		workers = n / minChunk
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
