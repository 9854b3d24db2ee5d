package main

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// ifState tracks the interferometer life cycle.
type ifState int

const (
	ifConstructed ifState = iota
	ifPropagating
	ifRecombining
	ifComplete
)

func (s ifState) String() string {
	switch s {
	case ifConstructed:
		return "constructed"
	case ifPropagating:
		return "propagating"
	case ifRecombining:
		return "recombining"
	case ifComplete:
		return "complete"
	}
	return "unknown"
}

// interferometerConfig wires a Mach-Zehnder assembly: one source, two arms,
// two beam splitters, two detectors. Lengths are grid cells; propagation is
// fixed at one cell per tick. Displacing the tunable mirror by one cell
// lengthens arm B's round trip by two cells.
type interferometerConfig struct {
	wavelength   float64
	pathA        int
	pathB        int
	mirrorOffset int
	transmission float64
	emitTicks    int
	amplitude    float64
}

// armSample is an amplitude leaving an arm, tagged with its emission tick so
// the recombiner can align the two paths.
type armSample struct {
	emitTick int
	amp      complex128
}

// arm is a cell-per-tick delay line. Each cell advance rotates the carrier
// by e^{ik}; a sample injected at tick t leaves length ticks later carrying
// the accumulated phase k*length.
type arm struct {
	length   int
	cells    []complex128
	emitted  []int
	advance  complex128
	inFlight int

	// held buffers arrivals until the partner arm's sample for the same
	// emission tick shows up. Holding, not decaying, is the contract.
	held []armSample
}

func newArm(length int, k float64) *arm {
	a := &arm{
		length:  length,
		cells:   make([]complex128, length),
		emitted: make([]int, length),
		advance: cmplx.Exp(complex(0, k)),
	}
	for i := range a.emitted {
		a.emitted[i] = -1
	}
	return a
}

// inject places a freshly split amplitude on the arm's entry cell.
func (a *arm) inject(amp complex128, emitTick int) {
	if a.emitted[0] >= 0 {
		syncViolation("arm entry cell already occupied by emission tick %d", a.emitted[0])
	}
	a.cells[0] = amp
	a.emitted[0] = emitTick
	a.inFlight++
}

// advanceTick shifts every sample one cell down the line, ejecting the
// sample on the final cell into the held buffer.
func (a *arm) advanceTick() {
	last := a.length - 1
	if a.emitted[last] >= 0 {
		a.held = append(a.held, armSample{emitTick: a.emitted[last], amp: a.cells[last] * a.advance})
		a.inFlight--
	}
	for j := last; j > 0; j-- {
		a.cells[j] = a.cells[j-1] * a.advance
		a.emitted[j] = a.emitted[j-1]
	}
	a.cells[0] = 0
	a.emitted[0] = -1
}

// phaseAt returns arg(amplitude) at an occupied arm cell. Pure read; a run
// that samples phase mid-flight finishes with the same detector intensities
// as one that never looked.
func (a *arm) phaseAt(cell int) (float64, bool) {
	if cell < 0 || cell >= a.length || a.emitted[cell] < 0 {
		return 0, false
	}
	return cmplx.Phase(a.cells[cell]), true
}

// ifResult carries the finalized detector intensities. D1 is the
// constructive port at zero path difference.
type ifResult struct {
	iD1     float64
	iD2     float64
	iSource float64
}

type interferometer struct {
	cfg   interferometerConfig
	state ifState

	splitter   beamSplitter
	recombiner beamSplitter
	foldA      mirror
	foldB      mirror

	armA *arm
	armB *arm

	k     float64
	omega float64

	// onTick, when set, observes every tick of a run. Probes hang off this
	// hook; it has no way to mutate the assembly.
	onTick func(tick int)
}

// newInterferometer validates the configuration and wires the assembly.
func newInterferometer(cfg interferometerConfig) (*interferometer, error) {
	if cfg.wavelength < 2 {
		return nil, configErrorf("wavelength %.4g below two cells", cfg.wavelength)
	}
	if cfg.pathA < 1 {
		return nil, configErrorf("path A length %d must be positive", cfg.pathA)
	}
	effB := cfg.pathB + 2*cfg.mirrorOffset
	if effB < 1 {
		return nil, configErrorf("path B length %d (after mirror offset %d) must be positive", effB, cfg.mirrorOffset)
	}
	if cfg.emitTicks < 1 {
		return nil, configErrorf("emission duration %d must be positive", cfg.emitTicks)
	}
	if cfg.amplitude <= 0 {
		return nil, configErrorf("source amplitude %.4g must be positive", cfg.amplitude)
	}
	bs, err := newBeamSplitter(cfg.transmission)
	if err != nil {
		return nil, err
	}
	// Both arm folds are 45-degree mirrors turning the horizontal leg
	// vertical; the tunable one rides on arm B.
	foldA, err := newMirror(vec2{x: -1, y: 1})
	if err != nil {
		return nil, err
	}
	foldB, err := newMirror(vec2{x: -1, y: -1})
	if err != nil {
		return nil, err
	}
	k := 2 * math.Pi / cfg.wavelength
	return &interferometer{
		cfg:        cfg,
		state:      ifConstructed,
		splitter:   bs,
		recombiner: bs,
		foldA:      foldA,
		foldB:      foldB,
		armA:       newArm(cfg.pathA, k),
		armB:       newArm(effB, k),
		k:          k,
		omega:      k,
	}, nil
}

// phaseDifference is the designed phase lag between the two arms at the
// recombiner, k * (len(B) - len(A)).
func (m *interferometer) phaseDifference() float64 {
	return m.k * float64(m.armB.length-m.armA.length)
}

// run drives the assembly to completion: emit, propagate both arms,
// recombine aligned pairs, finalize detector intensities.
func (m *interferometer) run() ifResult {
	m.state = ifPropagating
	var res ifResult
	for t := 0; ; t++ {
		emitting := t < m.cfg.emitTicks
		m.armA.advanceTick()
		m.armB.advanceTick()
		if emitting {
			s := complex(m.cfg.amplitude, 0) * cmplx.Exp(complex(0, -m.omega*float64(t)))
			res.iSource += intensityOf(s)
			toA, toB := m.splitter.scatter(s, 0)
			m.armA.inject(toA, t)
			m.armB.inject(toB, t)
		} else if m.state == ifPropagating {
			m.state = ifRecombining
		}
		m.recombine(&res)
		if m.onTick != nil {
			m.onTick(t)
		}
		if !emitting && m.armA.inFlight == 0 && m.armB.inFlight == 0 &&
			len(m.armA.held) == 0 && len(m.armB.held) == 0 {
			break
		}
	}
	m.state = ifComplete
	return res
}

// recombine drains aligned sample pairs through the second splitter. The
// faster arm's samples wait in its held buffer; pairs must carry identical
// emission ticks.
func (m *interferometer) recombine(res *ifResult) {
	for len(m.armA.held) > 0 && len(m.armB.held) > 0 {
		sa := m.armA.held[0]
		sb := m.armB.held[0]
		m.armA.held = m.armA.held[1:]
		m.armB.held = m.armB.held[1:]
		if sa.emitTick != sb.emitTick {
			syncViolation("recombining emission ticks %d and %d", sa.emitTick, sb.emitTick)
		}
		o1, o2 := m.recombiner.scatter(sa.amp, sb.amp)
		// o2 carries the sum term i*t*r*(e^{ikLa}+e^{ikLb}); it is the
		// constructive port when the arms match.
		res.iD1 += intensityOf(o2)
		res.iD2 += intensityOf(o1)
	}
}

func intensityOf(a complex128) float64 {
	re, im := real(a), imag(a)
	return re*re + im*im
}

// fringeSweep runs the assembly across one full fringe by stepping the
// tunable mirror from zero to half a wavelength, returning per-position D1
// intensities and the fringe visibility (Imax-Imin)/(Imax+Imin).
func fringeSweep(cfg interferometerConfig, steps int) ([]float64, float64, error) {
	if steps < 2 {
		return nil, 0, configErrorf("fringe sweep needs at least 2 steps")
	}
	offsets := make([]float64, steps+1)
	floats.Span(offsets, 0, cfg.wavelength/2)
	intensities := make([]float64, 0, len(offsets))
	for _, off := range offsets {
		c := cfg
		c.mirrorOffset = int(math.Round(off))
		ifm, err := newInterferometer(c)
		if err != nil {
			return nil, 0, err
		}
		res := ifm.run()
		intensities = append(intensities, res.iD1)
	}
	max := floats.Max(intensities)
	min := floats.Min(intensities)
	if max+min == 0 {
		return intensities, 0, nil
	}
	return intensities, (max - min) / (max + min), nil
}
