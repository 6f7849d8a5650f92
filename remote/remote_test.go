package remote_test

import (
	"context"
	"errors"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marben/irpc"
	"github.com/stretchr/testify/require"

	fractal "github.com/marben/fractalfield"
	"github.com/marben/fractalfield/evaluator"
	"github.com/marben/fractalfield/remote"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

type rendererFunc func(ctx context.Context, spec fractal.Spec, chunk fractal.Chunk) ([]uint32, error)

func (f rendererFunc) RenderChunk(ctx context.Context, spec fractal.Spec, chunk fractal.Chunk) ([]uint32, error) {
	return f(ctx, spec, chunk)
}

// connect dials addr and serves r on the connection. The returned channel
// receives Serve's result.
func connect(t *testing.T, ctx context.Context, addr string, r fractal.ChunkRenderer) (net.Conn, <-chan error) {
	t.Helper()
	conn, err := remote.Dial(ctx, addr)
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() {
		done <- remote.Serve(ctx, conn, r)
	}()
	return conn, done
}

// startWorkers connects n workers that serve chunks until ctx ends.
func startWorkers(t *testing.T, ctx context.Context, addr string, n int) *sync.WaitGroup {
	t.Helper()
	var wg sync.WaitGroup
	for range n {
		_, done := connect(t, ctx, addr, fractal.LocalRenderer{})
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-done
		}()
	}
	return &wg
}

func newPoolServer(t *testing.T, capacity int) (*remote.Pool, string) {
	t.Helper()
	pool := remote.NewPool(capacity)
	srv := httptest.NewServer(pool.Handler())
	t.Cleanup(func() {
		pool.Close()
		srv.Close()
	})
	return pool, wsURL(srv)
}

func newEvaluator(t *testing.T, workers int, pool *remote.Pool) *evaluator.Evaluator {
	t.Helper()
	ev, err := evaluator.New(evaluator.WithWorkers(workers), evaluator.WithRenderer(pool))
	require.NoError(t, err)
	t.Cleanup(func() { ev.Close() })
	return ev
}

func smallSpec() fractal.Spec {
	return fractal.Spec{
		Width:        8,
		Height:       8,
		View:         fractal.WholeSet,
		Formula:      fractal.MandelbrotFormula(),
		MaxIter:      10,
		EscapeRadius: 2,
	}
}

func workersEventually(t *testing.T, pool *remote.Pool, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return pool.Workers() == n }, 5*time.Second, 5*time.Millisecond)
}

func TestWireSpec_RoundTrip(t *testing.T) {
	specs := []fractal.Spec{
		{Width: 7, Height: 5, View: fractal.SeahorseValley, Formula: fractal.MandelbrotFormula(), MaxIter: 69, EscapeRadius: 1e100},
		{Width: 1, Height: 9, View: fractal.View{Center: 0.1 - 3i, Radius: 1e-7}, Formula: fractal.JuliaFormula(complex(fractal.Phi, fractal.Phi)), MaxIter: 3, EscapeRadius: 2},
		{Width: 3, Height: 4, View: fractal.LyapunovSpace, Formula: fractal.LyapunovFormula("AABB", 12), MaxIter: 30, EscapeRadius: 2},
	}
	for _, s := range specs {
		require.Equal(t, s, remote.NewWireSpec(s).Spec())
	}

	bad := remote.NewWireSpec(specs[0])
	bad.Formula = "burning-ship"
	require.ErrorIs(t, bad.Spec().Validate(), fractal.ErrInvalidSpec)
}

// TestPool_MatchesLocal renders through websocket workers and compares with local rendering.
func TestPool_MatchesLocal(t *testing.T) {
	pool, url := newPoolServer(t, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := startWorkers(t, ctx, url, 3)
	workersEventually(t, pool, 3)

	ev := newEvaluator(t, 4, pool)
	formulas := []fractal.Formula{
		fractal.MandelbrotFormula(),
		fractal.JuliaFormula(-0.64 + 0.5i),
		fractal.LyapunovFormula(fractal.DefaultLyapunovSequence, fractal.DefaultLyapunovWarmup),
	}
	for _, f := range formulas {
		spec := fractal.Spec{
			Width:        41,
			Height:       29,
			View:         fractal.View{Center: -0.5, Radius: 1.5},
			Formula:      f,
			MaxIter:      fractal.DefaultMaxIter,
			EscapeRadius: fractal.DefaultEscapeRadius,
		}
		got, err := ev.Evaluate(ctx, spec, 7)
		require.NoError(t, err)
		want, err := fractal.Render(spec)
		require.NoError(t, err)
		require.Equal(t, want.Counts, got.Counts, "formula %s", f)
	}

	cancel()
	wg.Wait()
	workersEventually(t, pool, 0)
}

// TestPool_ServeTCP accepts workers on a plain TCP listener.
func TestPool_ServeTCP(t *testing.T) {
	pool := remote.NewPool(2)
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	served := make(chan error, 1)
	go func() { served <- pool.Serve(l) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, done := connect(t, ctx, l.Addr().String(), fractal.LocalRenderer{})
	workersEventually(t, pool, 1)

	ev := newEvaluator(t, 2, pool)
	spec := smallSpec()
	got, err := ev.Evaluate(ctx, spec, 3)
	require.NoError(t, err)
	want, err := fractal.Render(spec)
	require.NoError(t, err)
	require.Equal(t, want.Counts, got.Counts)

	require.NoError(t, pool.Close())
	require.ErrorIs(t, <-served, irpc.ErrServerClosed)
	require.NoError(t, <-done)
	require.Equal(t, 0, pool.Workers())
}

// TestPool_WorkerLost fails the evaluation when the only worker disconnects mid-chunk.
func TestPool_WorkerLost(t *testing.T) {
	pool, url := newPoolServer(t, 1)

	var conn net.Conn
	var once sync.Once
	ready := make(chan struct{})
	conn, _ = connect(t, context.Background(), url, rendererFunc(func(ctx context.Context, _ fractal.Spec, _ fractal.Chunk) ([]uint32, error) {
		<-ready
		once.Do(func() { conn.Close() })
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	close(ready)
	workersEventually(t, pool, 1)

	ev := newEvaluator(t, 1, pool)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := ev.Evaluate(ctx, smallSpec(), 2)
	require.ErrorIs(t, err, fractal.ErrEvaluation)
	require.ErrorIs(t, err, remote.ErrWorkerLost)
	workersEventually(t, pool, 0)
}

// TestPool_RendererError reports a failing worker without dropping it.
func TestPool_RendererError(t *testing.T) {
	pool, url := newPoolServer(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	connect(t, ctx, url, rendererFunc(func(context.Context, fractal.Spec, fractal.Chunk) ([]uint32, error) {
		return nil, errors.New("gpu on fire")
	}))
	workersEventually(t, pool, 1)

	ev := newEvaluator(t, 1, pool)
	for range 2 {
		_, err := ev.Evaluate(ctx, smallSpec(), 2)
		require.ErrorIs(t, err, fractal.ErrEvaluation)
		require.ErrorContains(t, err, "gpu on fire")
		require.Equal(t, 1, pool.Workers())
	}
}

// TestPool_RejectsBeyondCapacity turns away workers that connect while
// the pool is full and its only worker is busy.
func TestPool_RejectsBeyondCapacity(t *testing.T) {
	pool, url := newPoolServer(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	connect(t, ctx, url, rendererFunc(func(ctx context.Context, spec fractal.Spec, chunk fractal.Chunk) ([]uint32, error) {
		started <- struct{}{}
		<-release
		return fractal.LocalRenderer{}.RenderChunk(ctx, spec, chunk)
	}))
	workersEventually(t, pool, 1)

	ev := newEvaluator(t, 1, pool)
	spec := smallSpec()
	type result struct {
		raster fractal.Raster
		err    error
	}
	evaluated := make(chan result, 1)
	go func() {
		r, err := ev.Evaluate(ctx, spec, 1)
		evaluated <- result{r, err}
	}()
	<-started

	for range 3 {
		_, done := connect(t, ctx, url, fractal.LocalRenderer{})
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("extra worker was not disconnected")
		}
		require.Equal(t, 1, pool.Workers())
	}

	close(release)
	res := <-evaluated
	require.NoError(t, res.err)
	want, err := fractal.Render(spec)
	require.NoError(t, err)
	require.Equal(t, want.Counts, res.raster.Counts)
	require.Equal(t, 1, pool.Workers())
}

// TestPool_IdleWorkerLeaves frees the slot of a worker that disconnects while idle.
func TestPool_IdleWorkerLeaves(t *testing.T) {
	pool, url := newPoolServer(t, 1)

	first, cancelFirst := context.WithCancel(context.Background())
	_, done := connect(t, first, url, fractal.LocalRenderer{})
	workersEventually(t, pool, 1)
	cancelFirst()
	require.NoError(t, <-done)
	workersEventually(t, pool, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	connect(t, ctx, url, fractal.LocalRenderer{})
	workersEventually(t, pool, 1)

	ev := newEvaluator(t, 1, pool)
	_, err := ev.Evaluate(ctx, smallSpec(), 4)
	require.NoError(t, err)
}

// TestPool_NoWorkers times out instead of blocking forever.
func TestPool_NoWorkers(t *testing.T) {
	pool := remote.NewPool(1)
	defer pool.Close()
	ev := newEvaluator(t, 1, pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := ev.Evaluate(ctx, smallSpec(), 1)
	require.ErrorIs(t, err, fractal.ErrTimeout)
}

func TestServe_RejectsInvalidSpec(t *testing.T) {
	pool, url := newPoolServer(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	connect(t, ctx, url, fractal.LocalRenderer{})
	workersEventually(t, pool, 1)

	spec := smallSpec()
	spec.EscapeRadius = 0
	_, err := pool.RenderChunk(ctx, spec, fractal.Chunk{Start: 0, Length: 4})
	require.ErrorContains(t, err, fractal.ErrInvalidSpec.Error())
	require.Equal(t, 1, pool.Workers())
}
