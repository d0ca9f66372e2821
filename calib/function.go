package calib

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/curvecal/curve"
	"github.com/meenmo/curvecal/instrument"
	"github.com/meenmo/curvecal/rates"
)

// MeasureCalculator prices a trade against a rates snapshot and derives
// its per-curve parameter sensitivity. Implementations dispatch on the
// trade variant internally; measure.Registry is the default.
type MeasureCalculator interface {
	Value(trade instrument.Trade, snap *rates.Snapshot) (float64, error)
	Derivative(trade instrument.Trade, snap *rates.Snapshot, order []curve.ParameterSize) ([]float64, error)
}

// ValueFunction maps a group's parameter vector to the vector of trade
// measures. Each evaluation regenerates the snapshot from scratch; no
// state is carried between calls.
type ValueFunction struct {
	trades   []instrument.Trade
	template *rates.ProviderTemplate
	calc     MeasureCalculator
}

// NewValueFunction wraps trades, a provider template, and a calculator
// into a vector function for the root finder.
func NewValueFunction(trades []instrument.Trade, template *rates.ProviderTemplate, calc MeasureCalculator) *ValueFunction {
	return &ValueFunction{trades: trades, template: template, calc: calc}
}

// Evaluate returns one measure value per trade.
func (vf *ValueFunction) Evaluate(x []float64) ([]float64, error) {
	snap, err := vf.template.Generate(x)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vf.trades))
	for i, trade := range vf.trades {
		v, err := vf.calc.Value(trade, snap)
		if err != nil {
			return nil, fmt.Errorf("trade %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// DerivativeFunction maps a group's parameter vector to the matrix of
// measure sensitivities, one row per trade, columns laid out per the
// curve order list fixed at construction.
type DerivativeFunction struct {
	trades   []instrument.Trade
	template *rates.ProviderTemplate
	calc     MeasureCalculator
	order    []curve.ParameterSize
}

// NewDerivativeFunction wraps the same inputs as NewValueFunction plus the
// column order for the resulting Jacobian rows.
func NewDerivativeFunction(trades []instrument.Trade, template *rates.ProviderTemplate,
	calc MeasureCalculator, order []curve.ParameterSize) *DerivativeFunction {
	return &DerivativeFunction{trades: trades, template: template, calc: calc, order: order}
}

// Evaluate returns the (len(trades) x TotalParameters(order)) sensitivity
// matrix at x.
func (df *DerivativeFunction) Evaluate(x []float64) (*mat.Dense, error) {
	snap, err := df.template.Generate(x)
	if err != nil {
		return nil, err
	}
	cols := curve.TotalParameters(df.order)
	out := mat.NewDense(len(df.trades), cols, nil)
	for i, trade := range df.trades {
		row, err := df.calc.Derivative(trade, snap, df.order)
		if err != nil {
			return nil, fmt.Errorf("trade %d: %w", i, err)
		}
		if len(row) != cols {
			return nil, &curve.DimensionError{Op: fmt.Sprintf("derivative row for trade %d", i), Want: cols, Got: len(row)}
		}
		out.SetRow(i, row)
	}
	return out, nil
}
