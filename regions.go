package fractal

import "math"

// Named views of the Mandelbrot set, with one for Lyapunov space.
var (
	// SeahorseValley sits between the main cardioid and the period-2 bulb,
	// where curled filaments repeat.
	SeahorseValley = View{Center: complex(-0.75, 0.10), Radius: 0.05}

	// ElephantValley is on the far left of the real axis, near the needle.
	ElephantValley = View{Center: complex(-1.80, -0.06), Radius: 0.05}

	// SpiralMinibrot frames a small copy of the set wrapped in spiral arms.
	SpiralMinibrot = View{Center: complex(-0.74275, 0.13175), Radius: 0.00075}

	// TripleSpiral shows arms that branch three ways.
	TripleSpiral = View{Center: complex(-0.7465, 0.0965), Radius: 0.0015}

	// ValleyOfTheDragon zooms deeper into seahorse filaments.
	ValleyOfTheDragon = View{Center: complex(-0.7375, 0.1825), Radius: 0.0025}

	// MinibrotInMiniSpiral holds a copy of the set inside one spiral arm.
	MinibrotInMiniSpiral = View{Center: complex(-1.73825, -0.02275), Radius: 0.00075}

	// WholeSet frames the entire Mandelbrot set.
	WholeSet = View{Center: complex(-0.8, 0), Radius: 1.5}

	// LyapunovSpace covers r in [-4, 4] on both axes.
	LyapunovSpace = View{Center: 0, Radius: 4}
)

// Regions maps landmark names to their views.
var Regions = map[string]View{
	"seahorse":      SeahorseValley,
	"elephant":      ElephantValley,
	"spiral":        SpiralMinibrot,
	"triple-spiral": TripleSpiral,
	"dragon":        ValleyOfTheDragon,
	"mini-spiral":   MinibrotInMiniSpiral,
	"whole":         WholeSet,
	"lyapunov":      LyapunovSpace,
}

// Phi is the golden ratio.
var Phi = (1 + math.Sqrt(5)) / 2

// JuliaSeeds are constants that give well-known connected Julia sets.
var JuliaSeeds = []complex128{
	complex(Phi, Phi),
	-0.15 + 0.95i,
	-0.64 + 0.70i,
	-0.64 + 0.50i,
	+0.47 - 0.24i,
	-0.77 - 0.15i,
	-1.38 - 0.09i,
	-1.17 + 0.18i,
	-0.08 + 0.70i,
	-0.11 + 1.00i,
	0.282 + 0.48i,
}
