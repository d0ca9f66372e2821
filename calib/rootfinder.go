package calib

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/curvecal/curve"
	"github.com/meenmo/curvecal/matrix"
)

// ConvergenceError reports a root-finding system that could not be solved:
// the iteration exceeded its step cap, or a Jacobian block was singular
// (e.g. duplicate or collinear calibration instruments).
type ConvergenceError struct {
	Reason string
}

func (e *ConvergenceError) Error() string {
	return "calibration did not converge: " + e.Reason
}

// RootFinderConfig holds the solver tolerances and step cap.
type RootFinderConfig struct {
	// ToleranceAbs is the absolute bound on the max-norm of the value
	// vector at the solution.
	ToleranceAbs float64
	// ToleranceRel accepts the iterate once the residual has shrunk to
	// this fraction of the initial residual.
	ToleranceRel float64
	// MaxSteps caps the number of Newton iterations.
	MaxSteps int
}

// DefaultRootFinderConfig matches the usual calibration setup: repricing
// to par within 1e-9.
var DefaultRootFinderConfig = RootFinderConfig{
	ToleranceAbs: 1e-9,
	ToleranceRel: 1e-9,
	MaxSteps:     100,
}

// RootFinder is a multi-dimensional Newton solver. Each step solves
// J(x)*dx = f(x) with the exact Jacobian supplied by the caller and
// updates x -= dx until the residual is within tolerance.
type RootFinder struct {
	cfg RootFinderConfig
}

// NewRootFinder fills zero config fields with defaults.
func NewRootFinder(cfg RootFinderConfig) *RootFinder {
	if cfg.ToleranceAbs == 0 {
		cfg.ToleranceAbs = DefaultRootFinderConfig.ToleranceAbs
	}
	if cfg.ToleranceRel == 0 {
		cfg.ToleranceRel = DefaultRootFinderConfig.ToleranceRel
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = DefaultRootFinderConfig.MaxSteps
	}
	return &RootFinder{cfg: cfg}
}

// Solve drives the value function to zero starting from guess.
//
// The system must be square: len(value(x)) == len(guess), checked before
// iterating. Exceeding MaxSteps or hitting a singular Jacobian returns a
// ConvergenceError.
func (rf *RootFinder) Solve(value func([]float64) ([]float64, error),
	jacobian func([]float64) (*mat.Dense, error), guess []float64) ([]float64, error) {

	x := append([]float64(nil), guess...)
	f, err := value(x)
	if err != nil {
		return nil, err
	}
	if len(f) != len(x) {
		return nil, &curve.DimensionError{Op: "root finder system", Want: len(x), Got: len(f)}
	}

	norm0 := maxAbs(f)
	if norm0 <= rf.cfg.ToleranceAbs {
		return x, nil
	}

	for step := 0; step < rf.cfg.MaxSteps; step++ {
		j, err := jacobian(x)
		if err != nil {
			return nil, err
		}
		if r, c := j.Dims(); r != len(x) || c != len(x) {
			return nil, &curve.DimensionError{
				Op:   fmt.Sprintf("root finder jacobian (%dx%d)", r, c),
				Want: len(x),
				Got:  r,
			}
		}

		dx, err := matrix.SolveVec(j, f)
		if err != nil {
			return nil, &ConvergenceError{Reason: "singular jacobian: " + err.Error()}
		}
		for i := range x {
			x[i] -= dx[i]
		}

		f, err = value(x)
		if err != nil {
			return nil, err
		}
		norm := maxAbs(f)
		if norm <= rf.cfg.ToleranceAbs || norm <= rf.cfg.ToleranceRel*norm0 {
			return x, nil
		}
	}
	return nil, &ConvergenceError{
		Reason: fmt.Sprintf("residual %.3e after %d steps", maxAbs(f), rf.cfg.MaxSteps),
	}
}

// maxAbs returns the max-norm. NaN residuals never count as converged.
func maxAbs(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if math.IsNaN(x) {
			return math.Inf(1)
		}
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}
