package main

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func TestBeamSplitterValidation(t *testing.T) {
	for _, bad := range []float64{-0.1, 1.1, math.NaN()} {
		if _, err := newBeamSplitter(bad); !errors.Is(err, errConfig) {
			t.Errorf("transmission %v: want configuration error, got %v", bad, err)
		}
	}
	for _, ok := range []float64{0, 0.5, 1} {
		if _, err := newBeamSplitter(ok); err != nil {
			t.Errorf("transmission %v rejected: %v", ok, err)
		}
	}
}

func TestSplitConservesEnergy(t *testing.T) {
	incident := cmplx.Exp(complex(0, 0.8)) * complex(1.3, 0)
	for trans := 0.0; trans <= 1.0; trans += 0.05 {
		bs, err := newBeamSplitter(trans)
		if err != nil {
			t.Fatalf("newBeamSplitter(%.2f): %v", trans, err)
		}
		tr, rf := bs.split(incident)
		in := intensityOf(incident)
		out := intensityOf(tr) + intensityOf(rf)
		if !nearly(out, in, 1e-12) {
			t.Errorf("T=%.2f: output intensity %.15f, input %.15f", trans, out, in)
		}
		if !nearly(intensityOf(tr), trans*in, 1e-12) {
			t.Errorf("T=%.2f: transmitted intensity %.15f, want %.15f", trans, intensityOf(tr), trans*in)
		}
	}
}

func TestSplitPreservesPhase(t *testing.T) {
	bs, _ := newBeamSplitter(0.3)
	for _, phase := range []float64{0, 1.1, -2.4} {
		incident := cmplx.Exp(complex(0, phase))
		tr, rf := bs.split(incident)
		if !nearly(cmplx.Phase(tr), phase, 1e-12) {
			t.Errorf("transmitted phase %.6f, want %.6f", cmplx.Phase(tr), phase)
		}
		if !nearly(cmplx.Phase(rf), phase, 1e-12) {
			t.Errorf("reflected phase %.6f, want %.6f", cmplx.Phase(rf), phase)
		}
	}
}

func TestScatterIsUnitary(t *testing.T) {
	a := complex(0.6, 0.3)
	c := complex(-0.2, 0.9)
	for _, trans := range []float64{0, 0.25, 0.5, 0.75, 1} {
		bs, _ := newBeamSplitter(trans)
		o1, o2 := bs.scatter(a, c)
		in := intensityOf(a) + intensityOf(c)
		out := intensityOf(o1) + intensityOf(o2)
		if !nearly(out, in, 1e-12) {
			t.Errorf("T=%.2f: scatter output %.15f, input %.15f", trans, out, in)
		}
	}
	// With the second port dark, the reflected leg carries the pi/2 factor.
	bs, _ := newBeamSplitter(0.5)
	o1, o2 := bs.scatter(1, 0)
	if !nearly(cmplx.Phase(o1), 0, 1e-12) {
		t.Errorf("transmitted phase %.6f, want 0", cmplx.Phase(o1))
	}
	if !nearly(cmplx.Phase(o2), math.Pi/2, 1e-12) {
		t.Errorf("reflected phase %.6f, want pi/2", cmplx.Phase(o2))
	}
}

func TestMirrorValidation(t *testing.T) {
	if _, err := newMirror(vec2{}); !errors.Is(err, errConfig) {
		t.Fatalf("zero normal: want configuration error, got %v", err)
	}
	if _, err := newMirror(vec2{x: math.NaN(), y: 1}); !errors.Is(err, errConfig) {
		t.Fatalf("NaN normal: want configuration error, got %v", err)
	}
}

func TestMirrorReflect(t *testing.T) {
	m, err := newMirror(vec2{x: 3, y: 0}) // normalization happens inside
	if err != nil {
		t.Fatal(err)
	}
	v := vec2{x: 0.8, y: 0.6}
	r := m.reflect(v)
	if !nearly(r.length(), v.length(), 1e-12) {
		t.Errorf("reflection changed length: %.9f vs %.9f", r.length(), v.length())
	}
	if !nearly(r.x, -v.x, 1e-12) || !nearly(r.y, v.y, 1e-12) {
		t.Errorf("reflect(%v) = %v, want normal component flipped, tangential kept", v, r)
	}

	// A 45-degree mirror folds +x into +y.
	fold, err := newMirror(vec2{x: -1, y: 1})
	if err != nil {
		t.Fatal(err)
	}
	out := fold.reflect(vec2{x: 1, y: 0})
	if !nearly(out.x, 0, 1e-12) || !nearly(out.y, 1, 1e-12) {
		t.Errorf("45-degree fold of +x = %v, want (0, 1)", out)
	}
}
