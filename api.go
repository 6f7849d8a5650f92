package fractal

import (
	"context"
)

// ChunkRenderer computes the iteration counts of one chunk of a spec's raster.
// The returned slice must hold exactly chunk.Length counts, in index order.
type ChunkRenderer interface {
	RenderChunk(ctx context.Context, spec Spec, chunk Chunk) ([]uint32, error)
}

// RasterProvider produces a whole raster for a spec.
type RasterProvider interface {
	Evaluate(ctx context.Context, spec Spec, chunks int) (Raster, error)
}
