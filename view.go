package fractal

import (
	"fmt"
	"math"
)

// View is the square region of the complex plane shown by a window.
type View struct {
	Center complex128
	Radius float64 // half-width
}

// Validate reports ErrInvalidView unless the radius is positive and finite.
func (v View) Validate() error {
	if !(v.Radius > 0) || math.IsInf(v.Radius, 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidView, v.Radius)
	}
	return nil
}

// Min is the bottom-left corner of the view.
func (v View) Min() complex128 {
	return v.Center - complex(v.Radius, v.Radius)
}

// Max is the top-right corner of the view.
func (v View) Max() complex128 {
	return v.Center + complex(v.Radius, v.Radius)
}

func (v View) String() string {
	return fmt.Sprintf("center=%v radius=%v", v.Center, v.Radius)
}

// ViewOption replaces one field of a view in Plane.SetView.
type ViewOption func(*View)

// WithCenter replaces the view center.
func WithCenter(c complex128) ViewOption {
	return func(v *View) { v.Center = c }
}

// WithRadius replaces the view radius.
func WithRadius(r float64) ViewOption {
	return func(v *View) { v.Radius = r }
}

// Plane maps pixels of a width×height window onto a View and back.
//
// Row 0 is the top of the window and maps to the largest imaginary
// coordinate: the y axis is inverted relative to raster order.
type Plane struct {
	width, height  int
	view           View
	min            complex128
	scaleX, scaleY float64
}

// NewPlane returns a plane for a window of the given size showing v.
func NewPlane(width, height int, v View) (*Plane, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: window %dx%d has no pixels", ErrInvalidSpec, width, height)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	p := &Plane{width: width, height: height}
	p.apply(v)
	return p, nil
}

func (p *Plane) apply(v View) {
	lo, hi := v.Min(), v.Max()
	p.view = v
	p.min = lo
	p.scaleX = float64(p.width) / (real(hi) - real(lo))
	p.scaleY = float64(p.height) / (imag(hi) - imag(lo))
}

// SetView replaces the supplied fields of the current view. When the
// resulting view is invalid the plane is left unchanged.
func (p *Plane) SetView(opts ...ViewOption) error {
	v := p.view
	for _, opt := range opts {
		opt(&v)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	p.apply(v)
	return nil
}

// Zoom recenters the view on at and multiplies its radius by factor.
func (p *Plane) Zoom(at complex128, factor float64) error {
	return p.SetView(WithCenter(at), WithRadius(p.view.Radius*factor))
}

// Pan moves the view center by a pixel offset; positive dy moves up.
func (p *Plane) Pan(dx, dy int) error {
	step := complex(float64(dx)/p.scaleX, float64(dy)/p.scaleY)
	return p.SetView(WithCenter(p.view.Center + step))
}

// View returns the current view.
func (p *Plane) View() View { return p.view }

// Size returns the window dimensions in pixels.
func (p *Plane) Size() (width, height int) { return p.width, p.height }

// Scale returns the pixels per plane unit along each axis.
func (p *Plane) Scale() (sx, sy float64) { return p.scaleX, p.scaleY }

// PixelToPlane converts window coordinates to a point of the plane.
func (p *Plane) PixelToPlane(x, y int) complex128 {
	return complex(
		float64(x)/p.scaleX+real(p.min),
		float64(p.height-y)/p.scaleY+imag(p.min),
	)
}

// PlaneToPixel converts a point of the plane to window coordinates,
// truncating toward zero. The result may lie outside the window.
func (p *Plane) PlaneToPixel(c complex128) (x, y int) {
	x = int((real(c) - real(p.min)) * p.scaleX)
	y = p.height - int((imag(c)-imag(p.min))*p.scaleY)
	return x, y
}

// Contains reports whether (x, y) lies inside the window.
func (p *Plane) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < p.width && y < p.height
}
