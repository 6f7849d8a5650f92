// Package evaluator computes fractal rasters on a fixed pool of workers.
//
// An Evaluator is created once, sized to the available CPUs by default, and
// shut down explicitly with Close. Each Evaluate call partitions the pixel
// index space into contiguous chunks, queues them to the pool and blocks
// until every chunk has been joined. The result is identical for any chunk
// count: chunking changes scheduling, never the per-pixel computation.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	fractal "github.com/marben/fractalfield"
)

type task struct {
	ctx     context.Context
	spec    fractal.Spec
	chunk   fractal.Chunk
	results chan<- result
}

type result struct {
	chunk  fractal.Chunk
	counts []uint32
	err    error
}

// Evaluator is a fixed-size pool of chunk workers.
type Evaluator struct {
	renderer fractal.ChunkRenderer
	workers  int

	tasks     chan task
	quit      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithWorkers sets the number of pool goroutines.
func WithWorkers(n int) Option {
	return func(e *Evaluator) { e.workers = n }
}

// WithRenderer sets what computes each chunk. The default is fractal.LocalRenderer.
func WithRenderer(r fractal.ChunkRenderer) Option {
	return func(e *Evaluator) { e.renderer = r }
}

// New starts the worker pool.
func New(opts ...Option) (*Evaluator, error) {
	e := &Evaluator{
		renderer: fractal.LocalRenderer{},
		workers:  runtime.GOMAXPROCS(0),
		quit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		return nil, fmt.Errorf("evaluator: worker count %d must be at least 1", e.workers)
	}
	if e.renderer == nil {
		return nil, errors.New("evaluator: nil renderer")
	}

	e.tasks = make(chan task)
	e.wg.Add(e.workers)
	for range e.workers {
		go e.work()
	}
	return e, nil
}

// Workers returns the pool size.
func (e *Evaluator) Workers() int {
	return e.workers
}

// Close stops the pool and waits for running chunks to finish.
// Evaluate calls that are still waiting fail with fractal.ErrClosed.
func (e *Evaluator) Close() error {
	e.closeOnce.Do(func() { close(e.quit) })
	e.wg.Wait()
	return nil
}

func (e *Evaluator) work() {
	defer e.wg.Done()
	for {
		select {
		case <-e.quit:
			return
		case t := <-e.tasks:
			t.results <- e.run(t)
		}
	}
}

func (e *Evaluator) run(t task) (res result) {
	res.chunk = t.chunk
	if err := t.ctx.Err(); err != nil {
		res.err = err
		return res
	}
	defer func() {
		if r := recover(); r != nil {
			res.counts = nil
			res.err = fmt.Errorf("renderer panic: %v", r)
		}
	}()

	counts, err := e.renderer.RenderChunk(t.ctx, t.spec, t.chunk)
	if err != nil {
		res.err = err
		return res
	}
	if len(counts) != t.chunk.Length {
		res.err = fmt.Errorf("renderer returned %d counts, want %d", len(counts), t.chunk.Length)
		return res
	}
	res.counts = counts
	return res
}

// Evaluate computes spec's raster split into chunks parts.
//
// It fails with a wrapped fractal.ErrInvalidSpec before any work starts,
// with a *fractal.EvaluationError when a chunk fails, with fractal.ErrTimeout
// when ctx's deadline passes and with the context error when ctx is
// cancelled. No raster is returned on failure. Chunks still queued or
// running for a failed call are abandoned and their results discarded.
func (e *Evaluator) Evaluate(ctx context.Context, spec fractal.Spec, chunks int) (fractal.Raster, error) {
	if err := spec.Validate(); err != nil {
		return fractal.Raster{}, err
	}
	parts, err := fractal.Partition(spec.Pixels(), chunks)
	if err != nil {
		return fractal.Raster{}, err
	}

	select {
	case <-e.quit:
		return fractal.Raster{}, fractal.ErrClosed
	default:
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so abandoned workers never block on a call that has returned.
	results := make(chan result, len(parts))
	go e.dispatch(ctx, spec, parts, results)

	counts := make([]uint32, spec.Pixels())
	for joined := 0; joined < len(parts); {
		select {
		case res := <-results:
			if res.err != nil {
				if ctx.Err() != nil {
					return fractal.Raster{}, contextError(ctx)
				}
				return fractal.Raster{}, &fractal.EvaluationError{Chunk: res.chunk, Err: res.err}
			}
			copy(counts[res.chunk.Start:res.chunk.End()], res.counts)
			joined++
		case <-ctx.Done():
			return fractal.Raster{}, contextError(ctx)
		case <-e.quit:
			return fractal.Raster{}, fractal.ErrClosed
		}
	}

	return fractal.Raster{Width: spec.Width, Height: spec.Height, Counts: counts}, nil
}

// dispatch queues parts in ascending order until all are taken, ctx is done or the pool closes.
func (e *Evaluator) dispatch(ctx context.Context, spec fractal.Spec, parts []fractal.Chunk, results chan<- result) {
	for _, c := range parts {
		t := task{ctx: ctx, spec: spec, chunk: c, results: results}
		select {
		case e.tasks <- t:
		case <-ctx.Done():
			return
		case <-e.quit:
			return
		}
	}
}

func contextError(ctx context.Context) error {
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", fractal.ErrTimeout, err)
	}
	return fmt.Errorf("evaluator: %w", context.Cause(ctx))
}

var _ fractal.RasterProvider = (*Evaluator)(nil)
