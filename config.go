package main

import "time"

// Simulation and rendering configuration constants. These values define the
// sandbox grid, timing, and the numeric tolerances shared by the headless
// experiments.
const (
	w, h        = 512, 512
	windowScale = 2

	// 2D stencil coefficients. fieldSpeed is the squared Courant number of
	// the sandbox grid; the 4-neighbor stencil is stable for values up to
	// 0.5.
	fieldDamp    = 0.9994
	fieldSpeed   = 0.5
	fieldDamp32  = float32(fieldDamp)
	fieldSpeed32 = float32(fieldSpeed)

	sourceRad              = 3
	sourceWavelength       = 24.0
	pulseStrength          = 1.0
	moveSpeed              = 2
	stepDelay              = 60 / 4
	defaultTPS             = 60.0
	defaultSimMultiplier   = 30
	simMultiplierStep      = 10
	minSimMultiplier       = 1
	maxSimMultiplier       = 1000
	probeOffsetCells       = 24
	defaultBoundaryReflect = 0.90

	mirrorSegments          = 25
	mirrorMinLen            = 12
	mirrorMaxLen            = 100
	mirrorExclusionRadius   = 12
	mirrorThicknessVariance = 2

	// Ghost trail depth for the temporal bucketing renderer.
	ghostHistory = 64

	pgoRecordDuration = 15 * time.Second
)

// Numeric contracts used by the 1D core and the interferometer.
const (
	// unitIntensity is the total intensity a freshly initialized packet is
	// normalized to.
	unitIntensity = 1.0

	// instabilityFactor bounds amplitude growth: a cell exceeding this
	// multiple of the initial peak fails the step.
	instabilityFactor = 10.0

	// minSigmaCells is the narrowest admissible packet envelope, in grid
	// spacings. Narrower packets alias against the grid.
	minSigmaCells = 4.0

	energyTol = 1e-9
)
