// Package overlay draws plane-aware markers on top of a colorized raster
// and captures frames to disk.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"

	fractal "github.com/marben/fractalfield"
)

var (
	// AxisColor is the default color of the real and imaginary axes.
	AxisColor = color.RGBA{28, 28, 28, 255}
	// MsgColor is the default text color.
	MsgColor = color.RGBA{180, 180, 255, 255}
	// PointColor is the default marker color.
	PointColor = color.RGBA{242, 242, 242, 255}
	// CPointColor marks the current Julia constant.
	CPointColor = color.RGBA{255, 0, 0, 255}
)

// Canvas draws onto an image whose pixels are laid out by a Plane.
type Canvas struct {
	dc    *gg.Context
	plane *fractal.Plane
}

// New returns a canvas drawing directly into img.
func New(img *image.RGBA, plane *fractal.Plane) *Canvas {
	return &Canvas{dc: gg.NewContextForRGBA(img), plane: plane}
}

// DrawAxis draws the real and imaginary axes when they cross the window.
func (c *Canvas) DrawAxis(col color.Color) {
	w, h := c.plane.Size()
	x, y := c.plane.PlaneToPixel(0)
	c.dc.SetColor(col)
	c.dc.SetLineWidth(1)
	if x >= 0 && x < w {
		c.dc.DrawLine(float64(x)+0.5, 0, float64(x)+0.5, float64(h))
	}
	if y >= 0 && y < h {
		c.dc.DrawLine(0, float64(y)+0.5, float64(w), float64(y)+0.5)
	}
	c.dc.Stroke()
}

// DrawComplex marks the pixel of z. Points outside the window are skipped.
func (c *Canvas) DrawComplex(z complex128, col color.Color) bool {
	x, y := c.plane.PlaneToPixel(z)
	if !c.plane.Contains(x, y) {
		return false
	}
	c.dc.SetColor(col)
	c.dc.SetPixel(x, y)
	return true
}

// DrawTrail marks every point of trail, e.g. past values of a Julia constant.
func (c *Canvas) DrawTrail(trail []complex128, col color.Color) {
	for _, z := range trail {
		c.DrawComplex(z, col)
	}
}

// DrawMsg writes msg with its top-left corner at (x, y).
func (c *Canvas) DrawMsg(msg string, x, y float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(msg, x, y, 0, 1)
}

// Image returns the image drawn into.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// FramePath returns the capture file name of frame in dir.
func FramePath(dir string, frame int) string {
	return filepath.Join(dir, fmt.Sprintf("%04d.png", frame))
}

// Save writes img to path as PNG.
func Save(path string, img image.Image) error {
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}
	return nil
}

// Capture writes img as dir/NNNN.png, creating dir if needed.
func Capture(dir string, frame int, img image.Image) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create record dir: %w", err)
	}
	path := FramePath(dir, frame)
	if err := Save(path, img); err != nil {
		return "", fmt.Errorf("frame %d: %w", frame, err)
	}
	return path, nil
}
