package fractal

import (
	"fmt"
	"math"
	"strings"
)

// FormulaKind selects the quadratic recurrence family.
type FormulaKind uint8

const (
	// Mandelbrot starts at z=0 and uses the pixel as the constant.
	Mandelbrot FormulaKind = iota + 1
	// Julia starts at the pixel and uses a fixed constant shared by every pixel.
	Julia
	// Lyapunov runs the Markus-Lyapunov logistic map, taking r from the
	// pixel's real or imaginary part as its sequence dictates.
	Lyapunov
)

func (k FormulaKind) String() string {
	switch k {
	case Mandelbrot:
		return "mandelbrot"
	case Julia:
		return "julia"
	case Lyapunov:
		return "lyapunov"
	default:
		return fmt.Sprintf("FormulaKind(%d)", uint8(k))
	}
}

// Formula is a tagged variant: C is only meaningful when Kind is Julia,
// Sequence and Warmup only when Kind is Lyapunov.
type Formula struct {
	Kind     FormulaKind
	C        complex128
	Sequence string
	Warmup   uint32
}

// MandelbrotFormula returns the Mandelbrot variant.
func MandelbrotFormula() Formula {
	return Formula{Kind: Mandelbrot}
}

// JuliaFormula returns the Julia variant for constant c.
func JuliaFormula(c complex128) Formula {
	return Formula{Kind: Julia, C: c}
}

// LyapunovFormula returns the Markus-Lyapunov variant. seq is a word over
// {A, B}; warmup steps run before the exponent is accumulated.
func LyapunovFormula(seq string, warmup uint32) Formula {
	return Formula{Kind: Lyapunov, Sequence: seq, Warmup: warmup}
}

// Seed returns the initial z and the recurrence constant for plane point p.
func (f Formula) Seed(p complex128) (z0, c complex128) {
	if f.Kind == Julia {
		return p, f.C
	}
	return 0, p
}

func (f Formula) String() string {
	switch f.Kind {
	case Julia:
		return fmt.Sprintf("z*z%+.5f%+.5fj", real(f.C), imag(f.C))
	case Lyapunov:
		return fmt.Sprintf("lyapunov %s", f.Sequence)
	default:
		return f.Kind.String()
	}
}

// Spec fully describes one raster evaluation. It is treated as immutable
// once handed to an evaluator.
type Spec struct {
	Width, Height int
	View          View
	Formula       Formula
	MaxIter       uint32
	EscapeRadius  float64
}

// Pixels returns Width*Height.
func (s Spec) Pixels() int {
	return s.Width * s.Height
}

// Validate reports why s cannot be evaluated. It wraps ErrInvalidSpec.
func (s Spec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d has no pixels", ErrInvalidSpec, s.Width, s.Height)
	}
	if err := s.View.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	if !(s.EscapeRadius > 0) || math.IsInf(s.EscapeRadius, 1) {
		return fmt.Errorf("%w: escape radius %v must be positive and finite", ErrInvalidSpec, s.EscapeRadius)
	}
	switch s.Formula.Kind {
	case Mandelbrot, Julia:
	case Lyapunov:
		if s.Formula.Sequence == "" || strings.Trim(s.Formula.Sequence, "AB") != "" {
			return fmt.Errorf("%w: lyapunov sequence %q must be a non-empty word over A and B", ErrInvalidSpec, s.Formula.Sequence)
		}
	default:
		return fmt.Errorf("%w: unknown formula %v", ErrInvalidSpec, s.Formula.Kind)
	}
	return nil
}

// Plane returns the pixel mapping for the spec's window and view.
func (s Spec) Plane() (*Plane, error) {
	return NewPlane(s.Width, s.Height, s.View)
}
