package fractal

import "math"

const (
	// DefaultLyapunovSequence alternates the two axes.
	DefaultLyapunovSequence = "AB"
	// DefaultLyapunovWarmup is the number of settling steps before the exponent is measured.
	DefaultLyapunovWarmup = 50

	lyapunovX0 = 0.5
	// lyapunovFloor replaces a zero derivative so its logarithm stays finite.
	lyapunovFloor = 1e-6
)

// LyapunovExponent measures the logistic map x = r*x*(1-x) started at 0.5,
// where step i takes r from real(p) when seq[i%len(seq)] is 'A' and from
// imag(p) otherwise. Steps 1..warmup-1 only settle x; steps 1..iter-1 then
// accumulate log2|r-2rx| and the sum is divided by iter. A non-finite
// exponent is reported as 0.
func LyapunovExponent(p complex128, seq string, warmup, iter uint32) float64 {
	r := func(i uint32) float64 {
		if seq[int(i)%len(seq)] == 'A' {
			return real(p)
		}
		return imag(p)
	}

	x := lyapunovX0
	for i := uint32(1); i < warmup; i++ {
		rn := r(i)
		x = rn * x * (1 - x)
	}

	var total float64
	for i := uint32(1); i < iter; i++ {
		rn := r(i)
		x = rn * x * (1 - x)
		v := math.Abs(rn - 2*rn*x)
		if v == 0 {
			v = lyapunovFloor
		}
		total += math.Log2(v)
	}
	if iter == 0 {
		return 0
	}

	exp := total / float64(iter)
	if math.IsInf(exp, 0) || math.IsNaN(exp) {
		return 0
	}
	return exp
}

// EncodeExponent stores a Lyapunov exponent in a raster cell as the bits
// of its float32 value.
func EncodeExponent(exp float64) uint32 {
	return math.Float32bits(float32(exp))
}

// DecodeExponent is the inverse of EncodeExponent.
func DecodeExponent(n uint32) float64 {
	return float64(math.Float32frombits(n))
}
