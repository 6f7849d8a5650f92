// Package remote lets other processes render chunks for an evaluator.
//
// The server side is a Pool: every worker that connects over websocket or
// TCP is used as a chunk renderer, one chunk at a time. Calls travel over
// irpc; a worker dials the server and exposes its ChunkService with Serve.
package remote

import (
	"context"

	fractal "github.com/marben/fractalfield"
)

//go:generate irpc

// ChunkService renders chunks of a raster on behalf of the fractal server.
type ChunkService interface {
	RenderChunk(ctx context.Context, spec WireSpec, chunk fractal.Chunk) ([]uint32, error)
}

// WireSpec is fractal.Spec flattened to fields irpc can encode.
type WireSpec struct {
	Width        int
	Height       int
	CenterRe     float64
	CenterIm     float64
	Radius       float64
	Formula      string
	CRe          float64
	CIm          float64
	MaxIter      uint32
	EscapeRadius float64
	Sequence     string
	Warmup       uint32
}

// NewWireSpec converts s for transmission.
func NewWireSpec(s fractal.Spec) WireSpec {
	return WireSpec{
		Width:        s.Width,
		Height:       s.Height,
		CenterRe:     real(s.View.Center),
		CenterIm:     imag(s.View.Center),
		Radius:       s.View.Radius,
		Formula:      s.Formula.Kind.String(),
		CRe:          real(s.Formula.C),
		CIm:          imag(s.Formula.C),
		MaxIter:      s.MaxIter,
		EscapeRadius: s.EscapeRadius,
		Sequence:     s.Formula.Sequence,
		Warmup:       s.Formula.Warmup,
	}
}

// Spec converts w back. An unknown formula name yields a zero Formula,
// which fails Spec.Validate.
func (w WireSpec) Spec() fractal.Spec {
	var f fractal.Formula
	switch w.Formula {
	case fractal.Mandelbrot.String():
		f = fractal.MandelbrotFormula()
	case fractal.Julia.String():
		f = fractal.JuliaFormula(complex(w.CRe, w.CIm))
	case fractal.Lyapunov.String():
		f = fractal.LyapunovFormula(w.Sequence, w.Warmup)
	}
	return fractal.Spec{
		Width:        w.Width,
		Height:       w.Height,
		View:         fractal.View{Center: complex(w.CenterRe, w.CenterIm), Radius: w.Radius},
		Formula:      f,
		MaxIter:      w.MaxIter,
		EscapeRadius: w.EscapeRadius,
	}
}
