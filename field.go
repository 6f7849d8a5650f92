package fractal

import (
	"context"
	"fmt"
	"math"
	"slices"
)

// ctxCheckEvery is how many pixels LocalRenderer computes between context checks.
const ctxCheckEvery = 4096

// Escape iterates z = z*z + c from z0 at most maxIter times and returns the
// number of iterations completed before z left the square of half-width
// escape. maxIter means the point did not escape.
//
// The test is axis-wise (|Re z| > escape or |Im z| > escape), not a modulus
// test; changing it changes the rendered output.
func Escape(z0, c complex128, maxIter uint32, escape float64) uint32 {
	z := z0
	var n uint32
	for n < maxIter {
		z = z*z + c
		if math.Abs(real(z)) > escape || math.Abs(imag(z)) > escape {
			break
		}
		n++
	}
	return n
}

// Raster holds one iteration count per pixel in column-major order:
// pixel (x, y) is at index x*Height + y. Lyapunov rasters hold
// EncodeExponent values instead of counts.
type Raster struct {
	Width, Height int
	Counts        []uint32
}

// Index returns the flattened index of pixel (x, y).
func (r Raster) Index(x, y int) int {
	return x*r.Height + y
}

// Pixel is the inverse of Index.
func (r Raster) Pixel(i int) (x, y int) {
	return i / r.Height, i % r.Height
}

// At returns the count of pixel (x, y).
func (r Raster) At(x, y int) uint32 {
	return r.Counts[r.Index(x, y)]
}

// Equal reports whether both rasters have the same size and counts.
func (r Raster) Equal(o Raster) bool {
	return r.Width == o.Width && r.Height == o.Height && slices.Equal(r.Counts, o.Counts)
}

// RenderChunk computes the counts of chunk's index range. The spec must be valid.
func RenderChunk(spec Spec, plane *Plane, chunk Chunk) []uint32 {
	counts := make([]uint32, chunk.Length)
	renderInto(counts, spec, plane, chunk.Start)
	return counts
}

func renderInto(counts []uint32, spec Spec, plane *Plane, start int) {
	h := spec.Height
	if f := spec.Formula; f.Kind == Lyapunov {
		for j := range counts {
			i := start + j
			exp := LyapunovExponent(plane.PixelToPlane(i/h, i%h), f.Sequence, f.Warmup, spec.MaxIter)
			counts[j] = EncodeExponent(exp)
		}
		return
	}
	for j := range counts {
		i := start + j
		z0, c := spec.Formula.Seed(plane.PixelToPlane(i/h, i%h))
		counts[j] = Escape(z0, c, spec.MaxIter, spec.EscapeRadius)
	}
}

// Render computes the whole raster of spec on the calling goroutine.
func Render(spec Spec) (Raster, error) {
	if err := spec.Validate(); err != nil {
		return Raster{}, err
	}
	plane, err := spec.Plane()
	if err != nil {
		return Raster{}, err
	}
	return Raster{
		Width:  spec.Width,
		Height: spec.Height,
		Counts: RenderChunk(spec, plane, Chunk{Start: 0, Length: spec.Pixels()}),
	}, nil
}

// LocalRenderer renders chunks on the calling goroutine.
type LocalRenderer struct {
	// OnChunkRender, when set, is called before each chunk is computed.
	OnChunkRender func(Chunk)
}

// RenderChunk implements ChunkRenderer. It gives up with the context error
// when ctx is done, checking every few thousand pixels.
func (lr LocalRenderer) RenderChunk(ctx context.Context, spec Spec, chunk Chunk) ([]uint32, error) {
	if chunk.Start < 0 || chunk.Length < 0 || chunk.End() > spec.Pixels() {
		return nil, fmt.Errorf("chunk %s outside raster of %d pixels", chunk, spec.Pixels())
	}
	plane, err := spec.Plane()
	if err != nil {
		return nil, err
	}
	if lr.OnChunkRender != nil {
		lr.OnChunkRender(chunk)
	}

	counts := make([]uint32, chunk.Length)
	for off := 0; off < len(counts); off += ctxCheckEvery {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(off+ctxCheckEvery, len(counts))
		renderInto(counts[off:end], spec, plane, chunk.Start+off)
	}
	return counts, nil
}

var _ ChunkRenderer = LocalRenderer{}
