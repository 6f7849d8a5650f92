package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/coder/websocket"
	"github.com/marben/irpc"

	fractal "github.com/marben/fractalfield"
)

// Dial connects a worker to the server at addr. A ws:// or wss:// url is
// dialed as a websocket, anything else as a TCP host:port.
func Dial(ctx context.Context, addr string) (net.Conn, error) {
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		c, _, err := websocket.Dial(ctx, addr, nil)
		if err != nil {
			return nil, fmt.Errorf("websocket.Dial %q: %w", addr, err)
		}
		return websocket.NetConn(context.Background(), c, websocket.MessageBinary), nil
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.Dial %q: %w", addr, err)
	}
	return conn, nil
}

// Serve answers chunk requests arriving on conn with r until ctx is done
// or the connection closes. Closure by either side returns nil.
func Serve(ctx context.Context, conn io.ReadWriteCloser, r fractal.ChunkRenderer) error {
	ep := irpc.NewEndpoint(conn, irpc.WithEndpointServices(NewChunkServiceIrpcService(chunkService{r: r})))

	select {
	case <-ctx.Done():
		ep.Close()
		return nil
	case <-ep.Context().Done():
	}

	cause := context.Cause(ep.Context())
	if errors.Is(cause, irpc.ErrEndpointClosedByCounterpart) || cause == irpc.ErrEndpointClosed {
		return nil
	}
	return cause
}

// chunkService exposes a renderer as ChunkService.
type chunkService struct {
	r fractal.ChunkRenderer
}

func (s chunkService) RenderChunk(ctx context.Context, ws WireSpec, chunk fractal.Chunk) ([]uint32, error) {
	spec := ws.Spec()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return s.r.RenderChunk(ctx, spec, chunk)
}
