package remote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/marben/irpc"

	fractal "github.com/marben/fractalfield"
)

// ErrWorkerLost indicates that a worker connection failed while rendering a chunk.
var ErrWorkerLost = errors.New("remote: worker connection lost")

type worker struct {
	client *ChunkServiceIrpcClient
	ep     *irpc.Endpoint
	addr   string
}

func (w *worker) alive() bool {
	return w.ep.Context().Err() == nil
}

// Pool hands chunks to connected workers. It implements
// fractal.ChunkRenderer; each call occupies one idle worker.
//
// Workers beyond capacity are disconnected as soon as they connect.
type Pool struct {
	capacity int
	srv      *irpc.Server
	ws       *WebsocketListener

	mu      sync.Mutex
	workers map[*worker]struct{}
	idle    []*worker
	ready   chan struct{} // closed and replaced whenever a worker turns idle

	// OnWorkersChange, when set, is called with the new count whenever a worker joins or leaves.
	// Set it before workers connect.
	OnWorkersChange func(workers int)
}

// NewPool returns a pool able to hold up to capacity connected workers.
// Websocket workers reach it through Handler; call Serve for other listeners.
func NewPool(capacity int) *Pool {
	p := &Pool{
		capacity: capacity,
		workers:  make(map[*worker]struct{}),
		ready:    make(chan struct{}),
		ws:       NewWSListener(context.Background(), "/ws"),
	}
	p.srv = irpc.NewServer(irpc.WithOnConnect(p.onConnect))

	go func() {
		if err := p.Serve(p.ws); err != nil && !errors.Is(err, irpc.ErrServerClosed) {
			log.Printf("server.Serve ws: %v", err)
		}
	}()
	return p
}

// Handler accepts worker websocket connections.
func (p *Pool) Handler() http.HandlerFunc {
	return p.ws.Handler()
}

// Serve accepts workers on l until the pool is closed. It always returns
// a non-nil error, irpc.ErrServerClosed after Close.
func (p *Pool) Serve(l net.Listener) error {
	return p.srv.Serve(l)
}

// Close disconnects every worker and stops all listeners.
func (p *Pool) Close() error {
	p.ws.Close()
	return p.srv.Close()
}

// Workers returns the number of connected workers.
func (p *Pool) Workers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}

// onConnect runs for the lifetime of each accepted connection.
func (p *Pool) onConnect(ep *irpc.Endpoint) {
	client, err := NewChunkServiceIrpcClient(ep)
	if err != nil {
		log.Printf("err: new ChunkService client: %v", err)
		ep.Close()
		return
	}
	w := &worker{client: client, ep: ep, addr: fmt.Sprint(ep.RemoteAddr())}

	n, ok := p.add(w)
	if !ok {
		log.Printf("rejecting worker %s: pool full with %d workers", w.addr, n)
		ep.Close()
		return
	}
	log.Printf("got worker connection from: %s", w.addr)
	p.notify(n)

	<-ep.Context().Done()
	n = p.remove(w)
	log.Printf("worker %s left: %v", w.addr, context.Cause(ep.Context()))
	p.notify(n)
}

func (p *Pool) notify(workers int) {
	log.Printf("workers: %d", workers)
	if p.OnWorkersChange != nil {
		p.OnWorkersChange(workers)
	}
}

func (p *Pool) add(w *worker) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.workers) >= p.capacity {
		return len(p.workers), false
	}
	p.workers[w] = struct{}{}
	p.pushIdle(w)
	return len(p.workers), true
}

func (p *Pool) remove(w *worker) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.workers, w)
	for i, iw := range p.idle {
		if iw == w {
			p.idle = append(p.idle[:i], p.idle[i+1:]...)
			break
		}
	}
	return len(p.workers)
}

// pushIdle must be called with mu held.
func (p *Pool) pushIdle(w *worker) {
	p.idle = append(p.idle, w)
	close(p.ready)
	p.ready = make(chan struct{})
}

// release returns w to the idle list unless it has left the pool.
func (p *Pool) release(w *worker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.workers[w]; ok && w.alive() {
		p.pushIdle(w)
	}
}

// acquire waits for an idle, still connected worker.
func (p *Pool) acquire(ctx context.Context) (*worker, error) {
	for {
		p.mu.Lock()
		for len(p.idle) > 0 {
			w := p.idle[0]
			p.idle = p.idle[1:]
			if w.alive() {
				p.mu.Unlock()
				return w, nil
			}
		}
		ready := p.ready
		p.mu.Unlock()

		select {
		case <-ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// RenderChunk renders chunk on the next idle worker. A worker whose
// connection fails is dropped from the pool.
func (p *Pool) RenderChunk(ctx context.Context, spec fractal.Spec, chunk fractal.Chunk) ([]uint32, error) {
	w, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := w.client.RenderChunk(ctx, NewWireSpec(spec), chunk)
	if err != nil && !w.alive() {
		return nil, fmt.Errorf("%w: %s: %w", ErrWorkerLost, w.addr, context.Cause(w.ep.Context()))
	}
	p.release(w)
	if err != nil {
		return nil, fmt.Errorf("worker %s: %w", w.addr, err)
	}
	return counts, nil
}

var _ fractal.ChunkRenderer = (*Pool)(nil)
