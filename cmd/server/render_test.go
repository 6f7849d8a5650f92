package main

import (
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fractal "github.com/marben/fractalfield"
	"github.com/marben/fractalfield/evaluator"
)

// countingProvider renders sequentially and counts the calls.
type countingProvider struct {
	calls atomic.Int32
}

func (c *countingProvider) Evaluate(_ context.Context, spec fractal.Spec, _ int) (fractal.Raster, error) {
	c.calls.Add(1)
	return fractal.Render(spec)
}

func testConfig() fractal.Config {
	cfg := fractal.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Workers = 24, 16, 3
	return cfg
}

func TestParseRenderRequest(t *testing.T) {
	cfg := testConfig()

	req, err := parseRenderRequest(url.Values{}, cfg)
	require.NoError(t, err)
	require.Equal(t, fractal.WholeSet, req.spec.View)
	require.Equal(t, fractal.MandelbrotFormula(), req.spec.Formula)
	require.Equal(t, 3, req.chunks)
	require.Equal(t, "gray", req.palette)

	req, err = parseRenderRequest(url.Values{
		"region":   {"seahorse"},
		"radius":   {"0.01"},
		"c":        {"-0.8+0.156i"},
		"width":    {"40"},
		"chunks":   {"9"},
		"max_iter": {"300"},
		"palette":  {"bright"},
	}, cfg)
	require.NoError(t, err)
	require.Equal(t, fractal.SeahorseValley.Center, req.spec.View.Center)
	require.Equal(t, 0.01, req.spec.View.Radius)
	require.Equal(t, fractal.JuliaFormula(-0.8+0.156i), req.spec.Formula)
	require.Equal(t, 40, req.spec.Width)
	require.Equal(t, 16, req.spec.Height)
	require.Equal(t, 9, req.chunks)
	require.Equal(t, uint32(300), req.spec.MaxIter)
	require.Equal(t, "bright", req.palette)

	// the service config must not leak between requests
	require.Equal(t, 24, cfg.Width)

	for _, q := range []url.Values{
		{"region": {"atlantis"}},
		{"center": {"x"}},
		{"radius": {"wide"}},
		{"width": {"1.5"}},
		{"max_iter": {"-1"}},
		{"warmup": {"-5"}, "seq": {"AB"}},
	} {
		_, err := parseRenderRequest(q, cfg)
		require.Error(t, err, "%v", q)
	}

	for _, q := range []url.Values{
		{"width": {"100000"}, "height": {"100000"}},
		{"width": {"9223372036854775807"}, "height": {"2"}},
		{"height": {"4097"}, "width": {"4096"}},
	} {
		_, err := parseRenderRequest(q, cfg)
		require.ErrorIs(t, err, fractal.ErrInvalidSpec, "%v", q)
	}
}

func TestParseRenderRequest_Lyapunov(t *testing.T) {
	req, err := parseRenderRequest(url.Values{"seq": {"AABAB"}}, testConfig())
	require.NoError(t, err)
	require.Equal(t, fractal.LyapunovFormula("AABAB", fractal.DefaultLyapunovWarmup), req.spec.Formula)
	require.Equal(t, fractal.LyapunovSpace, req.spec.View)
	require.Equal(t, "lyapunov", req.palette)

	req, err = parseRenderRequest(url.Values{"seq": {"BA"}, "warmup": {"7"}, "region": {"whole"}, "palette": {"gray"}}, testConfig())
	require.NoError(t, err)
	require.Equal(t, fractal.LyapunovFormula("BA", 7), req.spec.Formula)
	require.Equal(t, fractal.WholeSet, req.spec.View)
	require.Equal(t, "gray", req.palette)
}

func TestRenderService(t *testing.T) {
	p := &countingProvider{}
	srv := httptest.NewServer(webServer(":0", newRenderService(p, testConfig(), time.Second), nil).Handler)
	defer srv.Close()

	for range 2 {
		resp, err := http.Get(srv.URL + "/render?center=-0.5&radius=1.5")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		img, err := png.Decode(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		require.Equal(t, 24, img.Bounds().Dx())
		require.Equal(t, 16, img.Bounds().Dy())
	}
	require.Equal(t, int32(1), p.calls.Load(), "unchanged spec is served from cache")

	resp, err := http.Get(srv.URL + "/render?seq=AB&max_iter=40")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, int32(2), p.calls.Load())

	resp, err = http.Get(srv.URL + "/render?width=50000&height=50000")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, int32(2), p.calls.Load(), "oversized windows never reach the provider")

	for _, q := range []string{"radius=0", "palette=rainbow", "escape=-1", "seq=ABC"} {
		resp, err := http.Get(srv.URL + "/render?" + q)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRenderService_Evaluator(t *testing.T) {
	ev, err := evaluator.New(evaluator.WithWorkers(2))
	require.NoError(t, err)
	defer ev.Close()

	rs := newRenderService(ev, testConfig(), time.Second)
	rec := httptest.NewRecorder()
	rs.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/render?c=0.282%2B0.48i&palette=bright", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	_, err = png.Decode(rec.Body)
	require.NoError(t, err)

	require.NoError(t, ev.Close())
	rec = httptest.NewRecorder()
	rs.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/render?radius=0.7", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatusFor(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, statusFor(fractal.ErrInvalidView))
	require.Equal(t, http.StatusGatewayTimeout, statusFor(fractal.ErrTimeout))
	require.Equal(t, http.StatusServiceUnavailable, statusFor(fractal.ErrClosed))
	require.Equal(t, http.StatusInternalServerError, statusFor(&fractal.EvaluationError{Err: context.Canceled}))
}
