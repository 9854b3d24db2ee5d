package main

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"
)

// lineConfig describes a 1D propagation grid. The grid spacing is one cell
// and the tick length is one unit of time, so Courant is both the time step
// ratio and the nominal propagation speed in cells per tick.
type lineConfig struct {
	size    int
	courant float64
	reflect float64
}

// packetConfig describes a Gaussian wave packet: envelope center and width,
// carrier wavenumber, and initial carrier phase.
type packetConfig struct {
	center     float64
	wavenumber float64
	sigma      float64
	phase      float64
}

// waveLine stores the three buffers required by the 1D finite difference
// solver, complex-valued so that carrier phase survives propagation.
type waveLine struct {
	size    int
	courant float64
	c2      float64
	reflect float64

	curr []complex128
	prev []complex128
	next []complex128

	scratch []float64
	peak    float64
	tick    int
}

// newWaveLine allocates a waveLine and validates its stability constraints.
func newWaveLine(cfg lineConfig) (*waveLine, error) {
	if cfg.size < 8 {
		return nil, configErrorf("grid size %d is too small", cfg.size)
	}
	if cfg.courant <= 0 || cfg.courant > 1 {
		return nil, configErrorf("Courant number %.4g outside (0, 1]", cfg.courant)
	}
	if cfg.reflect < 0 || cfg.reflect > 1 {
		return nil, configErrorf("boundary reflect %.4g outside [0, 1]", cfg.reflect)
	}
	return &waveLine{
		size:    cfg.size,
		courant: cfg.courant,
		c2:      cfg.courant * cfg.courant,
		reflect: cfg.reflect,
		curr:    make([]complex128, cfg.size),
		prev:    make([]complex128, cfg.size),
		next:    make([]complex128, cfg.size),
		scratch: make([]float64, cfg.size),
	}, nil
}

// initGaussian seeds the line with a right-moving Gaussian packet
//
//	psi(x,0) = A0 * exp(-(x-x0)^2 / 2 sigma^2) * exp(i(kx + phi0))
//
// normalized so the total intensity equals unitIntensity. The previous time
// level is synthesized spectrally: every spatial mode is rewound by its exact
// discrete branch frequency, which places the packet purely on the
// right-moving branch of the scheme. Propagation then shows the scheme's own
// dispersion and nothing else.
func (l *waveLine) initGaussian(p packetConfig) error {
	if p.sigma < minSigmaCells {
		return configErrorf("packet sigma %.4g below minimum %.4g cells", p.sigma, minSigmaCells)
	}
	if p.center < 0 || p.center >= float64(l.size) {
		return configErrorf("packet center %.4g outside grid [0, %d)", p.center, l.size)
	}
	if math.Abs(p.wavenumber) >= math.Pi {
		return configErrorf("wavenumber %.4g at or beyond the Nyquist limit", p.wavenumber)
	}

	for i := range l.curr {
		x := float64(i)
		d := x - p.center
		env := math.Exp(-d * d / (2 * p.sigma * p.sigma))
		l.curr[i] = complex(env, 0) * cmplx.Exp(complex(0, p.wavenumber*x+p.phase))
	}
	total := l.totalIntensity()
	if total == 0 {
		return configErrorf("packet envelope vanished on the grid")
	}
	cmplxs.Scale(complex(math.Sqrt(unitIntensity/total), 0), l.curr)

	l.rewindPrev()
	for i := range l.next {
		l.next[i] = 0
	}
	l.peak = peakMagnitude(l.curr)
	l.tick = 0
	return nil
}

// rewindPrev fills prev with the field one tick in the past, advancing every
// spatial Fourier mode by its discrete dispersion frequency
// omega(k) = 2 asin(c sin(k/2)).
func (l *waveLine) rewindPrev() {
	spectrum := fft.FFT(l.curr)
	n := len(spectrum)
	for m, amp := range spectrum {
		k := 2 * math.Pi * float64(m) / float64(n)
		if k > math.Pi {
			k -= 2 * math.Pi
		}
		omega := 2 * math.Asin(l.courant*math.Sin(k/2))
		spectrum[m] = amp * cmplx.Exp(complex(0, omega))
	}
	copy(l.prev, fft.IFFT(spectrum))
}

// step advances the field one tick and reports divergence as a fatal
// NumericalInstability condition.
func (l *waveLine) step() error {
	last := l.size - 1
	for i := 1; i < last; i++ {
		c := l.curr[i]
		lap := l.curr[i-1] + l.curr[i+1] - 2*c
		l.next[i] = 2*c - l.prev[i] + complex(l.c2, 0)*lap
	}
	r := complex(l.reflect, 0)
	l.next[0] = -l.next[1] * r
	l.next[last] = -l.next[last-1] * r

	if peak := peakMagnitude(l.next); peak > instabilityFactor*l.peak {
		return &instabilityError{tick: l.tick + 1, peak: peak, cap: instabilityFactor * l.peak}
	}

	l.prev, l.curr, l.next = l.curr, l.next, l.prev
	l.tick++
	return nil
}

// stepN runs count ticks, stopping at the first failure.
func (l *waveLine) stepN(count int) error {
	for i := 0; i < count; i++ {
		if err := l.step(); err != nil {
			return err
		}
	}
	return nil
}

// superpose returns the pointwise complex sum of two fields on matching
// grids. Neither input is modified.
func superpose(a, b *waveLine) (*waveLine, error) {
	if a.size != b.size {
		return nil, configErrorf("superposing grids of size %d and %d", a.size, b.size)
	}
	if a.courant != b.courant {
		return nil, configErrorf("superposing grids with Courant %.4g and %.4g", a.courant, b.courant)
	}
	out := &waveLine{
		size:    a.size,
		courant: a.courant,
		c2:      a.c2,
		reflect: a.reflect,
		curr:    make([]complex128, a.size),
		prev:    make([]complex128, a.size),
		next:    make([]complex128, a.size),
		scratch: make([]float64, a.size),
		tick:    a.tick,
	}
	copy(out.curr, a.curr)
	cmplxs.Add(out.curr, b.curr)
	copy(out.prev, a.prev)
	cmplxs.Add(out.prev, b.prev)
	out.peak = peakMagnitude(out.curr)
	return out, nil
}

// measureIntensity sums |psi|^2 over the half-open cell range [from, to).
func (l *waveLine) measureIntensity(from, to int) float64 {
	if from < 0 {
		from = 0
	}
	if to > l.size {
		to = l.size
	}
	if from >= to {
		return 0
	}
	region := l.scratch[:to-from]
	for i := range region {
		a := l.curr[from+i]
		re, im := real(a), imag(a)
		region[i] = re*re + im*im
	}
	return floats.Sum(region)
}

// totalIntensity sums |psi|^2 over the whole grid.
func (l *waveLine) totalIntensity() float64 {
	return l.measureIntensity(0, l.size)
}

// phaseAt returns arg(psi) at a cell. Pure read: it never alters subsequent
// evolution.
func (l *waveLine) phaseAt(i int) float64 {
	return cmplx.Phase(l.curr[i])
}

// centerOfMass returns the intensity-weighted mean cell position.
func (l *waveLine) centerOfMass() float64 {
	var num, den float64
	for i, a := range l.curr {
		re, im := real(a), imag(a)
		p := re*re + im*im
		num += float64(i) * p
		den += p
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// packetWidth returns the RMS width of the intensity distribution.
func (l *waveLine) packetWidth() float64 {
	com := l.centerOfMass()
	var num, den float64
	for i, a := range l.curr {
		re, im := real(a), imag(a)
		p := re*re + im*im
		d := float64(i) - com
		num += d * d * p
		den += p
	}
	if den == 0 {
		return 0
	}
	return math.Sqrt(num / den)
}

func peakMagnitude(buf []complex128) float64 {
	var peak float64
	for _, a := range buf {
		re, im := real(a), imag(a)
		if m := re*re + im*im; m > peak {
			peak = m
		}
	}
	return math.Sqrt(peak)
}
