package main

// detectorTrace keeps a fixed window of recent probe intensities for the
// debug strip chart. Update and Draw run on the same loop, so no locking is
// needed; the ring just overwrites its oldest sample.
type detectorTrace struct {
	samples []float64
	pos     int
	filled  bool
	peak    float64
}

func newDetectorTrace(window int) *detectorTrace {
	if window < 2 {
		window = 2
	}
	return &detectorTrace{samples: make([]float64, window)}
}

// push records one intensity sample.
func (t *detectorTrace) push(v float64) {
	t.samples[t.pos] = v
	t.pos++
	if t.pos == len(t.samples) {
		t.pos = 0
		t.filled = true
	}
	if v > t.peak {
		t.peak = v
	}
}

// ordered copies the window oldest-first into dst and reports how many
// samples were written.
func (t *detectorTrace) ordered(dst []float64) int {
	n := t.pos
	start := 0
	if t.filled {
		n = len(t.samples)
		start = t.pos
	}
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = t.samples[(start+i)%len(t.samples)]
	}
	return n
}

// normPeak returns the largest sample seen, floored so fresh traces do not
// divide by zero.
func (t *detectorTrace) normPeak() float64 {
	if t.peak < 1e-12 {
		return 1e-12
	}
	return t.peak
}
