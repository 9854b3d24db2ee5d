package main

import "math"

// vec2 is a 2D direction or velocity vector.
type vec2 struct {
	x, y float64
}

func (v vec2) dot(o vec2) float64 { return v.x*o.x + v.y*o.y }

func (v vec2) scale(s float64) vec2 { return vec2{x: v.x * s, y: v.y * s} }

func (v vec2) sub(o vec2) vec2 { return vec2{x: v.x - o.x, y: v.y - o.y} }

func (v vec2) length() float64 { return math.Hypot(v.x, v.y) }

// beamSplitter divides an incident amplitude between a transmitted and a
// reflected output. Stateless; both coefficients are fixed at construction.
type beamSplitter struct {
	t float64
	r float64
}

// newBeamSplitter validates the transmission coefficient T and stores the
// amplitude coefficients sqrt(T) and sqrt(1-T).
func newBeamSplitter(transmission float64) (beamSplitter, error) {
	if transmission < 0 || transmission > 1 || math.IsNaN(transmission) {
		return beamSplitter{}, configErrorf("beam splitter transmission %.4g outside [0, 1]", transmission)
	}
	return beamSplitter{t: math.Sqrt(transmission), r: math.Sqrt(1 - transmission)}, nil
}

// split applies the single-input convention: phase is preserved unshifted on
// both outputs. |transmitted|^2 + |reflected|^2 equals |incident|^2 exactly.
func (b beamSplitter) split(incident complex128) (transmitted, reflected complex128) {
	return complex(b.t, 0) * incident, complex(b.r, 0) * incident
}

// scatter applies the two-input lossless convention: reflected contributions
// acquire a factor i, making the transfer matrix unitary. With the second
// input held at zero this degenerates to a split whose reflected output is
// phase-advanced by pi/2. The interferometer assembly uses scatter at both
// splitters so total detector intensity equals total input intensity for
// every path difference.
func (b beamSplitter) scatter(a, c complex128) (out1, out2 complex128) {
	t := complex(b.t, 0)
	ir := complex(0, b.r)
	return t*a + ir*c, ir*a + t*c
}

// mirror reflects an incoming direction about its surface normal. No phase
// shift is applied (soft-boundary convention).
type mirror struct {
	normal vec2
}

// newMirror normalizes the surface normal, rejecting degenerate input.
func newMirror(normal vec2) (mirror, error) {
	length := normal.length()
	if length == 0 || math.IsNaN(length) {
		return mirror{}, configErrorf("mirror surface normal is degenerate")
	}
	return mirror{normal: normal.scale(1 / length)}, nil
}

// reflect computes the elastic reflection v' = v - 2(v.n)n.
func (m mirror) reflect(v vec2) vec2 {
	return v.sub(m.normal.scale(2 * v.dot(m.normal)))
}
