package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	fractal "github.com/marben/fractalfield"
	"github.com/marben/fractalfield/palette"
)

// renderService serves PNG frames for view and formula query parameters.
// The last raster is kept and reused while the spec does not change.
type renderService struct {
	provider fractal.RasterProvider
	cfg      fractal.Config
	timeout  time.Duration

	m          sync.Mutex
	lastSpec   fractal.Spec
	lastRaster fractal.Raster
	cached     bool
}

func newRenderService(p fractal.RasterProvider, cfg fractal.Config, timeout time.Duration) *renderService {
	return &renderService{provider: p, cfg: cfg, timeout: timeout}
}

type renderRequest struct {
	spec    fractal.Spec
	chunks  int
	palette string
	hue     float64
}

// parseRenderRequest reads:
//
//	region    landmark name (default "whole", or "lyapunov" with seq)
//	center    complex center, overrides region
//	radius    view radius, overrides region
//	c         Julia constant; Mandelbrot when absent
//	seq       Markus-Lyapunov A/B sequence, with optional warmup
//	max_iter, escape, width, height, chunks
//	palette   "gray" (default), "bright" or "lyapunov" (default with seq), with optional hue
//
// A window larger than cfg.MaxPixels is rejected.
func parseRenderRequest(q url.Values, cfg fractal.Config) (renderRequest, error) {
	req := renderRequest{chunks: cfg.Workers, palette: "gray", hue: 0.5}

	view := fractal.WholeSet
	seq := q.Get("seq")
	if seq != "" {
		view = fractal.LyapunovSpace
		req.palette = "lyapunov"
	}
	if name := q.Get("region"); name != "" {
		v, ok := fractal.Regions[name]
		if !ok {
			return req, fmt.Errorf("unknown region %q", name)
		}
		view = v
	}
	if s := q.Get("center"); s != "" {
		c, err := strconv.ParseComplex(s, 128)
		if err != nil {
			return req, fmt.Errorf("center: %w", err)
		}
		view.Center = c
	}
	if err := parseFloat(q, "radius", &view.Radius); err != nil {
		return req, err
	}

	formula := fractal.MandelbrotFormula()
	if s := q.Get("c"); s != "" {
		c, err := strconv.ParseComplex(s, 128)
		if err != nil {
			return req, fmt.Errorf("c: %w", err)
		}
		formula = fractal.JuliaFormula(c)
	}
	if seq != "" {
		warmup := uint64(fractal.DefaultLyapunovWarmup)
		if s := q.Get("warmup"); s != "" {
			v, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				return req, fmt.Errorf("warmup: %w", err)
			}
			warmup = v
		}
		formula = fractal.LyapunovFormula(seq, uint32(warmup))
	}

	for name, dst := range map[string]*int{"width": &cfg.Width, "height": &cfg.Height, "chunks": &req.chunks} {
		if s := q.Get(name); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return req, fmt.Errorf("%s: %w", name, err)
			}
			*dst = v
		}
	}
	if s := q.Get("max_iter"); s != "" {
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return req, fmt.Errorf("max_iter: %w", err)
		}
		cfg.MaxIter = uint(v)
	}
	if err := parseFloat(q, "escape", &cfg.EscapeRadius); err != nil {
		return req, err
	}
	if err := parseFloat(q, "hue", &req.hue); err != nil {
		return req, err
	}
	if s := q.Get("palette"); s != "" {
		req.palette = s
	}

	spec, err := cfg.Spec(view, formula)
	if err != nil {
		return req, err
	}
	req.spec = spec
	return req, nil
}

func parseFloat(q url.Values, name string, dst *float64) error {
	s := q.Get(name)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = v
	return nil
}

func (rs *renderService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query(), rs.cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	pal, err := palette.ByName(req.palette, req.spec.MaxIter, req.hue)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	raster, err := rs.raster(r.Context(), req)
	if err != nil {
		log.Printf("render %s %s: %v", req.spec.Formula, req.spec.View, err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	log.Printf("%.2f sec: %s (%s)", time.Since(start).Seconds(), req.spec.Formula, req.spec.View)

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, palette.Colorize(raster, pal)); err != nil {
		log.Printf("png.Encode: %v", err)
	}
}

func (rs *renderService) raster(ctx context.Context, req renderRequest) (fractal.Raster, error) {
	rs.m.Lock()
	if rs.cached && rs.lastSpec == req.spec {
		r := rs.lastRaster
		rs.m.Unlock()
		return r, nil
	}
	rs.m.Unlock()

	ctx, cancel := context.WithTimeout(ctx, rs.timeout)
	defer cancel()
	raster, err := rs.provider.Evaluate(ctx, req.spec, req.chunks)
	if err != nil {
		return fractal.Raster{}, err
	}

	rs.m.Lock()
	rs.lastSpec, rs.lastRaster, rs.cached = req.spec, raster, true
	rs.m.Unlock()
	return raster, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fractal.ErrInvalidSpec), errors.Is(err, fractal.ErrInvalidView):
		return http.StatusBadRequest
	case errors.Is(err, fractal.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, fractal.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
