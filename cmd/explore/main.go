// explore renders Mandelbrot, Julia or Markus-Lyapunov frames on the local
// CPUs and saves them as PNG files.
//
// A single frame is written to -out. With -frames N, a sequence is written
// to $RECORD_DIR (or -record-dir) as 0001.png, 0002.png, ... zooming the
// view by -zoom and moving the Julia constant by -c-step every frame.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	fractal "github.com/marben/fractalfield"
	"github.com/marben/fractalfield/evaluator"
	"github.com/marben/fractalfield/overlay"
	"github.com/marben/fractalfield/palette"
)

type options struct {
	cfg       fractal.Config
	region    string
	center    string
	radius    float64
	julia     string
	cStep     string
	seq       string
	warmup    uint
	pal       string
	hue       float64
	out       string
	recordDir string
	frames    int
	zoom      float64
	axis      bool
	seeds     bool
	timeout   time.Duration
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run() error {
	o := options{cfg: fractal.DefaultConfig()}
	o.cfg.RegisterFlags(flag.CommandLine)
	flag.StringVar(&o.region, "region", "", `landmark region to start from (default "whole", "lyapunov" with -seq)`)
	flag.StringVar(&o.center, "center", "", "view center, e.g. -0.8+0i (overrides region)")
	flag.Float64Var(&o.radius, "radius", 0, "view radius (overrides region)")
	flag.StringVar(&o.julia, "c", "", "Julia constant, e.g. 0.282+0.48i; renders the Mandelbrot set when empty")
	flag.StringVar(&o.cStep, "c-step", "0", "Julia constant increment per frame")
	flag.StringVar(&o.seq, "seq", "", "Markus-Lyapunov A/B sequence, e.g. AB; overrides -c")
	flag.UintVar(&o.warmup, "warmup", fractal.DefaultLyapunovWarmup, "Markus-Lyapunov settling steps")
	flag.StringVar(&o.pal, "palette", "", `color palette: gray, bright or lyapunov (default "gray", "lyapunov" with -seq)`)
	flag.Float64Var(&o.hue, "hue", 0.5, "starting hue of the bright palette")
	flag.StringVar(&o.out, "out", "fractal.png", "output file of a single frame")
	flag.StringVar(&o.recordDir, "record-dir", os.Getenv("RECORD_DIR"), "directory of frame sequences")
	flag.IntVar(&o.frames, "frames", 0, "number of frames to record; 0 renders a single frame to -out")
	flag.Float64Var(&o.zoom, "zoom", 1, "radius factor applied between frames")
	flag.BoolVar(&o.axis, "axis", true, "draw the real and imaginary axes")
	flag.BoolVar(&o.seeds, "seeds", false, "mark the known Julia seeds on Mandelbrot frames")
	flag.DurationVar(&o.timeout, "timeout", time.Minute, "deadline of a single frame")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ev, err := evaluator.New(evaluator.WithWorkers(o.cfg.Workers))
	if err != nil {
		return fmt.Errorf("evaluator.New: %w", err)
	}
	defer ev.Close()

	return explore(ctx, ev, o)
}

func explore(ctx context.Context, ev *evaluator.Evaluator, o options) error {
	formula := fractal.MandelbrotFormula()
	if o.julia != "" {
		c, err := strconv.ParseComplex(o.julia, 128)
		if err != nil {
			return fmt.Errorf("c: %w", err)
		}
		formula = fractal.JuliaFormula(c)
	}
	if o.seq != "" {
		if o.warmup > math.MaxUint32 {
			return fmt.Errorf("warmup %d out of range", o.warmup)
		}
		formula = fractal.LyapunovFormula(o.seq, uint32(o.warmup))
	}
	step, err := strconv.ParseComplex(o.cStep, 128)
	if err != nil {
		return fmt.Errorf("c-step: %w", err)
	}

	if o.region == "" {
		o.region = "whole"
		if formula.Kind == fractal.Lyapunov {
			o.region = "lyapunov"
		}
	}
	if o.pal == "" {
		o.pal = "gray"
		if formula.Kind == fractal.Lyapunov {
			o.pal = "lyapunov"
		}
	}

	view, ok := fractal.Regions[o.region]
	if !ok {
		return fmt.Errorf("unknown region %q", o.region)
	}
	plane, err := fractal.NewPlane(o.cfg.Width, o.cfg.Height, view)
	if err != nil {
		return err
	}
	if o.center != "" {
		c, err := strconv.ParseComplex(o.center, 128)
		if err != nil {
			return fmt.Errorf("center: %w", err)
		}
		if err := plane.SetView(fractal.WithCenter(c)); err != nil {
			return err
		}
	}
	if o.radius != 0 {
		if err := plane.SetView(fractal.WithRadius(o.radius)); err != nil {
			return err
		}
	}

	if o.frames <= 0 {
		path, err := renderFrame(ctx, ev, o, plane, formula, nil, 1, func(img *image.RGBA) (string, error) {
			return o.out, overlay.Save(o.out, img)
		})
		if err != nil {
			return err
		}
		log.Printf("frame saved to %q", path)
		return nil
	}

	if o.recordDir == "" {
		return errors.New("frame sequences need -record-dir or RECORD_DIR")
	}
	var trail []complex128
	for frame := 1; frame <= o.frames; frame++ {
		if _, err := renderFrame(ctx, ev, o, plane, formula, trail, frame, func(img *image.RGBA) (string, error) {
			return overlay.Capture(o.recordDir, frame, img)
		}); err != nil {
			return err
		}

		if formula.Kind == fractal.Julia {
			trail = append(trail, formula.C)
			formula.C += step
		}
		if err := plane.Zoom(plane.View().Center, o.zoom); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
	}
	log.Printf("%d frames saved to %q", o.frames, o.recordDir)
	return nil
}

func renderFrame(ctx context.Context, ev *evaluator.Evaluator, o options, plane *fractal.Plane, formula fractal.Formula, trail []complex128, frame int, save func(*image.RGBA) (string, error)) (string, error) {
	start := time.Now()
	spec, err := o.cfg.Spec(plane.View(), formula)
	if err != nil {
		return "", err
	}

	pal, err := palette.ByName(o.pal, spec.MaxIter, o.hue)
	if err != nil {
		return "", err
	}

	fctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	raster, err := ev.Evaluate(fctx, spec, ev.Workers())
	if err != nil {
		return "", fmt.Errorf("frame %d: %w", frame, err)
	}

	img := palette.Colorize(raster, pal)
	canvas := overlay.New(img, plane)
	if o.axis {
		canvas.DrawAxis(overlay.AxisColor)
	}
	switch formula.Kind {
	case fractal.Lyapunov:
		canvas.DrawMsg(formula.String(), 5, 5, overlay.MsgColor)
	case fractal.Julia:
		canvas.DrawMsg(formula.String(), 5, 5, overlay.MsgColor)
		canvas.DrawTrail(trail, overlay.PointColor)
		canvas.DrawComplex(formula.C, overlay.CPointColor)
	case fractal.Mandelbrot:
		if o.seeds {
			canvas.DrawTrail(fractal.JuliaSeeds, overlay.CPointColor)
		}
	}

	path, err := save(img)
	if err != nil {
		return "", err
	}
	log.Printf("%04d: %.2f sec: %s (%s)", frame, time.Since(start).Seconds(), formula, plane.View())
	return path, nil
}
