package main

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// dominantWavenumber returns the signed wavenumber of the strongest spatial
// Fourier mode of the current field, in radians per cell.
func dominantWavenumber(l *waveLine) float64 {
	spectrum := fft.FFT(l.curr)
	n := len(spectrum)
	best := 0
	bestMag := 0.0
	for m, a := range spectrum {
		if mag := cmplx.Abs(a); mag > bestMag {
			bestMag = mag
			best = m
		}
	}
	k := 2 * math.Pi * float64(best) / float64(n)
	if k > math.Pi {
		k -= 2 * math.Pi
	}
	return k
}

// predictedGroupVelocity is the documented dispersion law of the discrete
// scheme: short wavelengths travel slower than the nominal speed. This is a
// property of the discretization, reproduced rather than corrected.
func predictedGroupVelocity(courant, k float64) float64 {
	return courant * math.Cos(k/2)
}

// measureGroupVelocity propagates the line for the given number of ticks and
// returns the center-of-mass displacement per tick.
func measureGroupVelocity(l *waveLine, ticks int) (float64, error) {
	start := l.centerOfMass()
	if err := l.stepN(ticks); err != nil {
		return 0, err
	}
	return (l.centerOfMass() - start) / float64(ticks), nil
}
