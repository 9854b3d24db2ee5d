package main

import (
	"errors"
	"fmt"
)

// Sentinel targets for errors.Is checks. Both conditions are fatal to the
// current run and are never retried.
var (
	errConfig               = errors.New("invalid configuration")
	errNumericalInstability = errors.New("numerical instability")
)

// configError reports a rejected construction parameter.
type configError struct {
	what string
}

func (e *configError) Error() string { return "invalid configuration: " + e.what }

func (e *configError) Is(target error) bool { return target == errConfig }

func configErrorf(format string, args ...any) error {
	return &configError{what: fmt.Sprintf(format, args...)}
}

// instabilityError reports runtime divergence of the finite difference
// solver. It signals a misconfigured Courant number or grid resolution, not a
// transient fault.
type instabilityError struct {
	tick int
	peak float64
	cap  float64
}

func (e *instabilityError) Error() string {
	return fmt.Sprintf("numerical instability at tick %d: peak amplitude %.4g exceeds sanity bound %.4g", e.tick, e.peak, e.cap)
}

func (e *instabilityError) Is(target error) bool { return target == errNumericalInstability }

// syncViolation panics: a recombiner that sees mismatched emission ticks has
// broken an internal invariant, which is a programming error rather than a
// runtime condition.
func syncViolation(format string, args ...any) {
	panic("synchronization violation: " + fmt.Sprintf(format, args...))
}
