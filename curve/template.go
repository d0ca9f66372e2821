package curve

import (
	"fmt"
	"time"
)

// DimensionError reports a mis-sized parameter vector or an unbalanced
// trades/parameters system.
type DimensionError struct {
	Op   string
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: dimension mismatch: want %d, got %d", e.Op, e.Want, e.Got)
}

// Template generates a concrete curve from a parameter vector.
//
// Generate must be side-effect free: identical parameters produce
// value-identical curves.
type Template interface {
	Name() string
	ParameterCount() int
	Generate(params []float64) (Curve, error)
}

// NodalTemplate produces a ZeroRateCurve with one parameter per node date.
type NodalTemplate struct {
	CurveName  string
	Settlement time.Time
	NodeDates  []time.Time
	DayCount   string // defaults to ACT/365F
}

// Name returns the generated curve's name.
func (t NodalTemplate) Name() string { return t.CurveName }

// ParameterCount returns the number of node dates.
func (t NodalTemplate) ParameterCount() int { return len(t.NodeDates) }

// Generate builds the curve from one zero rate per node.
func (t NodalTemplate) Generate(params []float64) (Curve, error) {
	if len(params) != len(t.NodeDates) {
		return nil, &DimensionError{Op: "generate curve " + t.CurveName, Want: len(t.NodeDates), Got: len(params)}
	}
	return NewZeroRateCurve(t.CurveName, t.Settlement, t.NodeDates, params, t.DayCount)
}
