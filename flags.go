package main

import "flag"

// Command-line flags controlling the headless experiments and the optional
// sandbox rendering behavior.
var (
	// experimentFlag selects a headless procedure instead of the sandbox:
	// "interferometer", "fringe", or "dispersion".
	experimentFlag = flag.String("experiment", "", "run a headless experiment (interferometer|fringe|dispersion) and exit")

	// wavelengthFlag sets the carrier wavelength in grid cells.
	wavelengthFlag = flag.Float64("wavelength", 100, "carrier wavelength in grid cells")

	// pathAFlag and pathBFlag give the interferometer arm lengths in cells.
	pathAFlag = flag.Int("path-a", 171, "interferometer path A length in cells")
	pathBFlag = flag.Int("path-b", 171, "interferometer path B length in cells")

	// mirrorOffsetFlag displaces the tunable mirror; each cell of offset
	// lengthens path B by two cells.
	mirrorOffsetFlag = flag.Int("mirror-offset", 0, "tunable mirror displacement in cells")

	// splitTFlag is the beam splitter transmission coefficient.
	splitTFlag = flag.Float64("split-t", 0.5, "beam splitter transmission T in [0,1]")

	// emitTicksFlag is the coherent emission duration for interferometer runs.
	emitTicksFlag = flag.Int("emit-ticks", 400, "source emission duration in ticks")

	// sweepStepsFlag sets the fringe sweep resolution across one wavelength.
	sweepStepsFlag = flag.Int("sweep-steps", 32, "mirror positions per fringe sweep")

	// gridFlag and courantFlag configure the 1D dispersion survey.
	gridFlag    = flag.Int("grid", 2000, "1D grid size for dispersion runs")
	courantFlag = flag.Float64("courant", 1.0, "Courant number for 1D runs (must be <= 1)")
	sigmaFlag   = flag.Float64("sigma", 20, "Gaussian packet envelope width in cells")
	ticksFlag   = flag.Int("ticks", 1000, "propagation ticks for dispersion runs")

	// showMirrorsFlag toggles rendering of mirror geometry overlays.
	showMirrorsFlag = flag.Bool("show-mirrors", true, "render mirror geometry overlays")

	// boundaryReflectFlag adjusts how strongly the sandbox boundaries
	// reflect waves.
	boundaryReflectFlag = flag.Float64("boundary-reflect", defaultBoundaryReflect, "reflection coefficient for grid boundaries (0-1)")

	// occludeShadowFlag dims regions with no geometric line of sight to the
	// source while rendering.
	occludeShadowFlag = flag.Bool("occlude-shadow", false, "dim regions outside the source's geometric line of sight")

	// debugFlag enables the FPS, simulation, and detector trace overlay.
	debugFlag = flag.Bool("debug", false, "show FPS, simulation speed, and detector trace overlay")

	// recordDefaultPGO triggers a scripted walk to produce default.pgo.
	recordDefaultPGO = flag.Bool("record-default-pgo", false, "walk randomly for 15s while capturing default.pgo")

	// seedFlag fixes the mirror layout; 0 derives a seed from the clock.
	seedFlag = flag.Int64("seed", 0, "mirror layout seed (0 = time-based)")
)
