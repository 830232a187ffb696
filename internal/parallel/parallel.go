// Package parallel provides bounded parallel execution helpers used by
// the CPU backend for intra-operation parallelism (batch, heads, matrix
// rows). There is no inter-operation concurrency anywhere in the
// framework; forward computation is synchronous by design.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // whether parallel execution is enabled
	NumWorkers   int  // number of concurrent goroutines
	MinChunkSize int  // minimum items per goroutine to avoid overhead
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// For executes f(i) for i in [0, n), splitting the range into chunks
// run by at most cfg.NumWorkers goroutines. Falls back to sequential
// execution when parallelism is disabled or n is too small to pay for
// the goroutine overhead.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(cfg.NumWorkers)

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)
	for start := 0; start < n; start += chunkSize {
		s, e := start, min(start+chunkSize, n)
		g.Go(func() error {
			for i := s; i < e; i++ {
				f(i)
			}
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()
}

// ForBatch iterates a batch*inner index space, common for per-matrix
// work in batched operations.
func ForBatch(batch, inner int, f func(b, i int), cfg Config) {
	For(batch*inner, func(k int) {
		f(k/inner, k%inner)
	}, cfg)
}
