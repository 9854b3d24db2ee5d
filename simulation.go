package main

// stepWaveCPU executes one CPU simulation tick, synchronizing worker
// goroutines and applying boundary conditions.
func (g *Game) stepWaveCPU() {
	if g.maskDirty {
		g.rebuildInteriorMask()
	}
	g.workerMu.Lock()
	g.workerPending = g.workerCount
	g.workerStep++
	g.workerCond.Broadcast()
	for g.workerPending > 0 {
		g.workerCond.Wait()
	}
	g.workerMu.Unlock()
	g.field.zeroBoundaries(float32(*boundaryReflectFlag))
	g.field.swap()
}

// stepWaveCPUBatch runs multiple simulation ticks.
func (g *Game) stepWaveCPUBatch(steps int) {
	for i := 0; i < steps; i++ {
		g.stepWaveCPU()
	}
}
