package main

import (
	"fmt"
	"math"
)

// runExperiment executes one headless procedure and prints its observables.
func runExperiment(name string) error {
	switch name {
	case "interferometer":
		return runInterferometerExperiment()
	case "fringe":
		return runFringeExperiment()
	case "dispersion":
		return runDispersionExperiment()
	}
	return configErrorf("unknown experiment %q", name)
}

func interferometerConfigFromFlags() interferometerConfig {
	return interferometerConfig{
		wavelength:   *wavelengthFlag,
		pathA:        *pathAFlag,
		pathB:        *pathBFlag,
		mirrorOffset: *mirrorOffsetFlag,
		transmission: *splitTFlag,
		emitTicks:    *emitTicksFlag,
		amplitude:    1,
	}
}

// runInterferometerExperiment runs a single configuration and reports the
// two detector intensities and the energy balance.
func runInterferometerExperiment() error {
	ifm, err := newInterferometer(interferometerConfigFromFlags())
	if err != nil {
		return err
	}
	res := ifm.run()
	dphi := ifm.phaseDifference()
	fmt.Printf("path A: %d cells, path B: %d cells (mirror offset %d)\n",
		ifm.armA.length, ifm.armB.length, *mirrorOffsetFlag)
	fmt.Printf("phase difference: %.6f rad (%.3f fringes)\n", dphi, dphi/(2*math.Pi))
	fmt.Printf("I_D1 = %.6f\nI_D2 = %.6f\nI_source = %.6f\n", res.iD1, res.iD2, res.iSource)
	fmt.Printf("energy error: %.3e\n", math.Abs(res.iD1+res.iD2-res.iSource)/res.iSource)
	fmt.Printf("final state: %s\n", ifm.state)
	return nil
}

// runFringeExperiment sweeps the tunable mirror across one fringe and
// reports the visibility.
func runFringeExperiment() error {
	cfg := interferometerConfigFromFlags()
	intensities, visibility, err := fringeSweep(cfg, *sweepStepsFlag)
	if err != nil {
		return err
	}
	fmt.Printf("fringe sweep, %d mirror positions over half a wavelength\n", len(intensities))
	for i, in := range intensities {
		fmt.Printf("  %3d  I_D1 = %.6f\n", i, in)
	}
	fmt.Printf("visibility V = %.4f\n", visibility)
	return nil
}

// dispersionSurveyWavelengths are the carrier wavelengths probed by the
// dispersion survey, all comfortably above the Nyquist limit.
var dispersionSurveyWavelengths = []float64{16, 25, 50, 100}

// runDispersionExperiment launches Gaussian packets into an empty 1D grid
// and compares measured group velocity against the scheme's dispersion law.
func runDispersionExperiment() error {
	size := *gridFlag
	courant := *courantFlag
	sigma := *sigmaFlag
	fmt.Printf("grid %d cells, Courant %.3f, sigma %.1f\n", size, courant, sigma)
	fmt.Printf("%10s %10s %12s %12s %10s\n", "lambda", "k", "v_measured", "v_predicted", "error")
	for _, lambda := range dispersionSurveyWavelengths {
		k := 2 * math.Pi / lambda
		line, err := newWaveLine(lineConfig{size: size, courant: courant, reflect: 0})
		if err != nil {
			return err
		}
		if err := line.initGaussian(packetConfig{center: float64(size) / 4, wavenumber: k, sigma: sigma}); err != nil {
			return err
		}
		predicted := predictedGroupVelocity(courant, k)
		ticks := *ticksFlag
		// Keep the packet away from the far boundary.
		if travel := float64(ticks) * predicted; travel > float64(size)/2 {
			ticks = int(float64(size) / 2 / predicted)
		}
		measured, err := measureGroupVelocity(line, ticks)
		if err != nil {
			return err
		}
		fmt.Printf("%10.1f %10.4f %12.6f %12.6f %9.2f%%\n",
			lambda, k, measured, predicted, 100*math.Abs(measured-predicted)/predicted)
	}

	// The flag-selected wavelength additionally reports packet spreading
	// and the spectral peak.
	k := 2 * math.Pi / *wavelengthFlag
	line, err := newWaveLine(lineConfig{size: size, courant: courant, reflect: 0})
	if err != nil {
		return err
	}
	if err := line.initGaussian(packetConfig{center: float64(size) / 4, wavenumber: k, sigma: sigma}); err != nil {
		return err
	}
	width0 := line.packetWidth()
	if err := line.stepN(*ticksFlag); err != nil {
		return err
	}
	fmt.Printf("lambda %.1f after %d ticks: center %.1f, width %.2f (was %.2f), spectral peak k %.4f (launch %.4f)\n",
		*wavelengthFlag, *ticksFlag, line.centerOfMass(), line.packetWidth(), width0, dominantWavenumber(line), k)
	return nil
}
