package main

// waveField stores the three complex field buffers required by the 2D finite
// difference solver. Cells are complex64 so the GPU path can treat each
// buffer as an interleaved re/im float array.
type waveField struct {
	width, height int
	curr          []complex64
	prev          []complex64
	next          []complex64
	currDirty     bool
}

// newWaveField allocates a waveField with properly sized buffers.
func newWaveField(width, height int) *waveField {
	return &waveField{
		width: width, height: height,
		curr: make([]complex64, width*height),
		prev: make([]complex64, width*height),
		next: make([]complex64, width*height),
	}
}

// queueImpulse adds a complex amplitude into the current buffer and marks it
// dirty so the GPU solver re-uploads before the next step.
func (f *waveField) queueImpulse(x, y int, amp complex64) bool {
	if x <= 0 || x >= f.width-1 || y <= 0 || y >= f.height-1 {
		return false
	}
	f.curr[y*f.width+x] += amp
	f.currDirty = true
	return true
}

// zeroCell clears the current, previous, and next buffers at the given cell.
func (f *waveField) zeroCell(x, y int) {
	idx := y*f.width + x
	f.curr[idx] = 0
	f.prev[idx] = 0
	f.next[idx] = 0
	f.currDirty = true
}

// readCurr returns the value in the current buffer at the given coordinates.
func (f *waveField) readCurr(x, y int) complex64 {
	return f.curr[y*f.width+x]
}

// currWasModified reports whether the host mutated the current buffer since
// the last clearCurrDirty.
func (f *waveField) currWasModified() bool { return f.currDirty }

func (f *waveField) clearCurrDirty() { f.currDirty = false }

// swap rotates the triple buffers so that next becomes current and current
// becomes previous.
func (f *waveField) swap() {
	f.prev, f.curr, f.next = f.curr, f.next, f.prev
}

// zeroBoundaries applies damped-inversion absorbing conditions on the grid
// edges to keep reflections out of the simulation domain.
func (f *waveField) zeroBoundaries(reflect float32) {
	lastRow := f.height - 1
	lastCol := f.width - 1
	r := complex(reflect, 0)
	for x := 0; x < f.width; x++ {
		top := f.next[1*f.width+x]
		bottom := f.next[(lastRow-1)*f.width+x]
		f.next[0*f.width+x] = -top * r
		f.next[lastRow*f.width+x] = -bottom * r
	}
	for y := 1; y < lastRow; y++ {
		left := f.next[y*f.width+1]
		right := f.next[y*f.width+lastCol-1]
		f.next[y*f.width+0] = -left * r
		f.next[y*f.width+lastCol] = -right * r
	}
}
