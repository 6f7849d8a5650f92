// Package palette turns iteration counts into colors.
package palette

import (
	"fmt"
	"image"
	"image/color"
	"math"

	fractal "github.com/marben/fractalfield"
)

// Palette maps an iteration count to a color.
type Palette func(n uint32) color.RGBA

var black = color.RGBA{A: 255}

// Grayscale shades escaping points by how long they took; points that
// never escape are black.
func Grayscale(maxIter uint32) Palette {
	return func(n uint32) color.RGBA {
		if n >= maxIter {
			return black
		}
		v := uint8(255 * float64(n) / float64(maxIter))
		return color.RGBA{v, v, v, 255}
	}
}

// Bright cycles the hue with the iteration count, starting at hue.
func Bright(maxIter uint32, hue float64) Palette {
	return func(n uint32) color.RGBA {
		if n >= maxIter {
			return black
		}
		t := float64(n) / float64(maxIter)
		return hsv(hue+t, 1, math.Sqrt(t))
	}
}

// Lyapunov colors rasters of encoded Lyapunov exponents. Stable points
// (negative exponent) brighten toward hue as the exponent falls; chaotic
// points are black.
func Lyapunov(hue float64) Palette {
	return func(n uint32) color.RGBA {
		exp := fractal.DecodeExponent(n)
		if !(exp < 0) {
			return black
		}
		return hsv(hue, 0.8, 1-math.Exp(exp))
	}
}

// ByName returns the palette called name ("gray", "bright" or "lyapunov").
func ByName(name string, maxIter uint32, hue float64) (Palette, error) {
	switch name {
	case "gray", "grey", "grayscale":
		return Grayscale(maxIter), nil
	case "bright":
		return Bright(maxIter, hue), nil
	case "lyapunov":
		return Lyapunov(hue), nil
	default:
		return nil, fmt.Errorf("palette: unknown palette %q", name)
	}
}

// Colorize paints r into a new image. Pixel (x, y) of the image shows
// r.At(x, y).
func Colorize(r fractal.Raster, p Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for i, n := range r.Counts {
		x, y := r.Pixel(i)
		img.SetRGBA(x, y, p(n))
	}
	return img
}

// hsv converts hue, saturation and value in [0, 1] to an opaque color.
// The hue wraps around.
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}
