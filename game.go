package main

import (
	"log"
	"math"
	"math/cmplx"
	"math/rand"
	"runtime"
	"sync"
	"time"
)

// Game encapsulates the sandbox state: the 2D complex field, mirror layout,
// the coherent source, ghost trail, and whichever solver backend is active.
type Game struct {
	field *waveField

	sx float64
	sy float64

	sourcePhase       float64
	stepTimer         int
	lastSimDuration   time.Duration
	simStepMultiplier int

	mirrors      []bool
	mirrorsDirty bool
	maskDirty    bool
	levelRand    *rand.Rand

	sourceForwardX float64
	sourceForwardY float64

	autoWalk           bool
	autoWalkDeadline   time.Time
	autoWalkRand       *rand.Rand
	autoWalkDirX       float64
	autoWalkDirY       float64
	autoWalkFrameCount int

	visibleStamp []uint32
	visibleGen   uint32
	lastVisCX    int
	lastVisCY    int

	gpuSolver *openCLWaveSolver

	workerMu       sync.Mutex
	workerCond     *sync.Cond
	workerCount    int
	workerPending  int
	workerStep     int
	workerMasks    []workerMask
	workersStarted bool

	ghosts []*ghost
	trail  *lagBuckets

	traceD1 *detectorTrace
	traceD2 *detectorTrace

	pixels       []byte
	traceScratch []float64
}

// newGame constructs a fully initialized Game instance.
func newGame() *Game {
	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	trail, err := newLagBuckets(ghostHistory)
	if err != nil {
		log.Fatalf("ghost trail setup failed: %v", err)
	}
	g := &Game{
		field:             newWaveField(w, h),
		sx:                float64(w / 2),
		sy:                float64(h / 2),
		levelRand:         rand.New(rand.NewSource(seed)),
		mirrors:           make([]bool, w*h),
		sourceForwardX:    0,
		sourceForwardY:    -1,
		autoWalkRand:      rand.New(rand.NewSource(seed + 2)),
		simStepMultiplier: defaultSimMultiplier,
		trail:             trail,
		traceD1:           newDetectorTrace(256),
		traceD2:           newDetectorTrace(256),
		pixels:            make([]byte, w*h*4),
		traceScratch:      make([]float64, 256),
	}
	if solver, err := newOpenCLWaveSolver(w, h); err != nil {
		log.Printf("OpenCL unavailable (%v); falling back to CPU workers", err)
		g.workerCount = runtime.NumCPU()
		g.startWorkers()
	} else {
		log.Printf("OpenCL solver enabled (device: %s)", solver.DeviceName())
		g.gpuSolver = solver
	}
	g.generateMirrors()
	g.lastVisCX, g.lastVisCY = -1, -1
	return g
}

// emitPulse injects one coherent wavefront at the source footprint and drops
// a ghost marker for the trail renderer.
func (g *Game) emitPulse() {
	amp := complex64(complex(pulseStrength, 0) * cmplx.Exp(complex(0, g.sourcePhase)))
	baseX := int(g.sx)
	baseY := int(g.sy)
	fired := false
	for _, offset := range sourceFootprint {
		cx := baseX + offset.dx
		cy := baseY + offset.dy
		if g.isMirror(cx, cy) {
			continue
		}
		if g.field.queueImpulse(cx, cy, amp) {
			fired = true
		}
	}
	if fired {
		g.ghosts = append(g.ghosts, newGhost(baseX, baseY))
	}
}

// Update advances the sandbox: moves the source, emits wavefronts, steps the
// solver, and refreshes the ghost trail, probes, and shadow mask.
func (g *Game) Update() error {
	dx, dy := g.movementVector()
	oldX, oldY := g.sx, g.sy
	g.sx = math.Max(sourceRad, math.Min(float64(w-sourceRad-1), g.sx+dx))
	g.sy = math.Max(sourceRad, math.Min(float64(h-sourceRad-1), g.sy+dy))
	if g.isMirror(int(g.sx), int(g.sy)) {
		g.sx, g.sy = oldX, oldY
	}

	g.handleDebugControls()

	moving := dx != 0 || dy != 0
	if moving {
		length := math.Hypot(dx, dy)
		if length > 0 {
			g.sourceForwardX = dx / length
			g.sourceForwardY = dy / length
		}
		g.stepTimer++
		if g.stepTimer >= stepDelay {
			g.stepTimer = 0
			g.emitPulse()
		}
	} else {
		g.stepTimer = stepDelay
	}

	if *occludeShadowFlag {
		g.refreshShadowMask()
		g.mirrorsDirty = false
	}

	steps := g.simStepMultiplier
	simStart := time.Now()
	if g.gpuSolver != nil {
		if err := g.gpuSolver.Step(g.field, g.mirrors, steps, g.mirrorsDirty); err != nil {
			return err
		}
		g.mirrorsDirty = false
	} else {
		g.stepWaveCPUBatch(steps)
	}
	g.lastSimDuration = time.Since(simStart)

	// The oscillator phase tracks simulation time, not frame time, so
	// consecutive pulses stay mutually coherent.
	omega := 2 * math.Pi / sourceWavelength
	g.sourcePhase = math.Mod(g.sourcePhase+omega*float64(steps), 2*math.Pi)

	g.ghosts = ageGhosts(g.ghosts)
	g.trail.clear()
	for _, gh := range g.ghosts {
		g.trail.insert(gh)
	}

	g.sampleProbes()
	return nil
}

// sampleProbes records the field intensity at the two detector probes.
func (g *Game) sampleProbes() {
	ox, oy := g.probeOffsets()
	cx, cy := int(g.sx), int(g.sy)
	lx := clampCoord(cx-ox, 0, w-1)
	ly := clampCoord(cy-oy, 0, h-1)
	rx := clampCoord(cx+ox, 0, w-1)
	ry := clampCoord(cy+oy, 0, h-1)
	a := g.field.readCurr(lx, ly)
	b := g.field.readCurr(rx, ry)
	g.traceD1.push(float64(real(a)*real(a) + imag(a)*imag(a)))
	g.traceD2.push(float64(real(b)*real(b) + imag(b)*imag(b)))
}
