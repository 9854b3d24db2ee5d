package main

import "sync"

// span represents an inclusive column range inside a row mask.
type span struct{ start, end int }

// rowMask groups contiguous spans for a single row that requires computation.
type rowMask struct {
	y     int
	spans []span
}

// workerMask collects the row masks assigned to a worker goroutine.
type workerMask struct {
	rows []rowMask
}

// waveWorkerLoop executes CPU wave updates for rows assigned to the worker.
func (g *Game) waveWorkerLoop(index int) {
	lastStep := 0
	g.workerMu.Lock()
	for {
		for g.workerStep == lastStep {
			g.workerCond.Wait()
		}
		lastStep = g.workerStep
		var mask workerMask
		if index < len(g.workerMasks) {
			mask = g.workerMasks[index]
		}
		g.workerMu.Unlock()

		if len(mask.rows) > 0 {
			processMask(g.field, &mask)
		}

		g.workerMu.Lock()
		g.workerPending--
		if g.workerPending == 0 {
			g.workerCond.Broadcast()
		}
	}
}

// processMask steps the finite difference solver over the provided worker
// mask. The stencil acts on complex cells; real and imaginary parts evolve
// under the same second-order update.
func processMask(field *waveField, mask *workerMask) {
	width := field.width
	wd := complex(fieldDamp32, 0)
	ws := complex(fieldSpeed32, 0)
	for _, row := range mask.rows {
		y := row.y
		rowBase := y * width
		topBase := (y - 1) * width
		bottomBase := (y + 1) * width
		field.next[rowBase+0] = 0
		field.next[rowBase+width-1] = 0

		center := field.curr[rowBase : rowBase+width]
		prev := field.prev[rowBase : rowBase+width]
		top := field.curr[topBase : topBase+width]
		bottom := field.curr[bottomBase : bottomBase+width]
		nextRow := field.next[rowBase : rowBase+width]

		for _, sp := range row.spans {
			start := sp.start
			if start < 1 {
				start = 1
			}
			end := sp.end
			if end > width-2 {
				end = width - 2
			}
			for x := start; x <= end; x++ {
				c := center[x]
				lap := center[x-1] + center[x+1] + top[x] + bottom[x] - 4*c
				nextRow[x] = ((2*c - prev[x]) + ws*lap) * wd
			}
		}
	}
}

// assignRowMasks distributes row masks across worker goroutines in round
// robin fashion.
func assignRowMasks(workerCount int, rows []rowMask) []workerMask {
	if workerCount < 1 {
		workerCount = 1
	}
	masks := make([]workerMask, workerCount)
	for idx, row := range rows {
		workerIdx := idx % workerCount
		masks[workerIdx].rows = append(masks[workerIdx].rows, row)
	}
	return masks
}

// startWorkers launches the background goroutines that execute CPU wave steps.
func (g *Game) startWorkers() {
	if g.workersStarted {
		return
	}
	if g.workerCount < 1 {
		g.workerCount = 1
	}
	if g.workerCond == nil {
		g.workerCond = sync.NewCond(&g.workerMu)
	}
	g.workersStarted = true
	for i := 0; i < g.workerCount; i++ {
		go g.waveWorkerLoop(i)
	}
}
