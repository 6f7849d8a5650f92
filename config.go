package fractal

import (
	"flag"
	"fmt"
	"math"
	"runtime"
)

const (
	// DefaultMaxIter is the iteration cap used by the explorers.
	DefaultMaxIter = 69
	// DefaultEscapeRadius is the axis-wise escape threshold.
	DefaultEscapeRadius = 1e100
	// DefaultWindowSize is the default window side in pixels.
	DefaultWindowSize = 600
	// DefaultMaxPixels bounds the raster of a single spec.
	DefaultMaxPixels = 4096 * 4096
)

// Config holds the knobs shared by every command.
type Config struct {
	Width, Height int
	Workers       int
	MaxIter       uint
	EscapeRadius  float64

	// MaxPixels caps Width*Height; zero or less means no cap.
	MaxPixels int
}

// DefaultConfig returns a square window, one worker per CPU and the default iteration bounds.
func DefaultConfig() Config {
	return Config{
		Width:        DefaultWindowSize,
		Height:       DefaultWindowSize,
		Workers:      runtime.GOMAXPROCS(0),
		MaxIter:      DefaultMaxIter,
		EscapeRadius: DefaultEscapeRadius,
		MaxPixels:    DefaultMaxPixels,
	}
}

// RegisterFlags binds c's fields to command line flags, using the current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "window width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "window height in pixels")
	fs.IntVar(&c.Workers, "workers", c.Workers, "number of parallel chunk workers")
	fs.UintVar(&c.MaxIter, "max-iter", c.MaxIter, "maximum iterations per pixel")
	fs.Float64Var(&c.EscapeRadius, "escape", c.EscapeRadius, "axis-wise escape threshold")
	fs.IntVar(&c.MaxPixels, "max-pixels", c.MaxPixels, "largest width*height accepted, 0 for no limit")
}

// Spec builds the spec for view and formula from c. It fails with
// ErrInvalidSpec when MaxIter does not fit a raster count or the window
// is larger than MaxPixels.
func (c Config) Spec(view View, f Formula) (Spec, error) {
	if c.MaxIter > math.MaxUint32 {
		return Spec{}, fmt.Errorf("%w: max iterations %d exceed %d", ErrInvalidSpec, c.MaxIter, uint32(math.MaxUint32))
	}
	if c.MaxPixels > 0 && c.Width > 0 && c.Height > 0 && c.Width > c.MaxPixels/c.Height {
		return Spec{}, fmt.Errorf("%w: window %dx%d exceeds %d pixels", ErrInvalidSpec, c.Width, c.Height, c.MaxPixels)
	}
	return Spec{
		Width:        c.Width,
		Height:       c.Height,
		View:         view,
		Formula:      f,
		MaxIter:      uint32(c.MaxIter),
		EscapeRadius: c.EscapeRadius,
	}, nil
}
