// Package measure computes calibration measures (par spreads) per trade
// variant. Variants are registered against their instrument.Kind tag; the
// calibration core dispatches through the registry and never inspects
// concrete trade types.
package measure

import (
	"fmt"

	"github.com/meenmo/curvecal/curve"
	"github.com/meenmo/curvecal/instrument"
	"github.com/meenmo/curvecal/rates"
)

// UnsupportedInstrumentError is returned when a trade variant has no
// registered measure.
type UnsupportedInstrumentError struct {
	Kind instrument.Kind
}

func (e *UnsupportedInstrumentError) Error() string {
	return fmt.Sprintf("no measure registered for instrument kind %q", e.Kind)
}

// ValueFunc computes the scalar calibration measure of a trade against a
// rates snapshot. The registered measures are par spreads: model-implied
// par rate minus quoted rate, zero when the trade reprices exactly.
type ValueFunc func(instrument.Trade, *rates.Snapshot) (float64, error)

// SensitivityFunc computes the measure's derivative with respect to every
// curve parameter in the order list, zero-padded for curves the trade has
// no sensitivity to.
type SensitivityFunc func(instrument.Trade, *rates.Snapshot, []curve.ParameterSize) ([]float64, error)

// Measure pairs a value function with an optional analytic sensitivity.
// A nil Sensitivity falls back to central finite differences over the
// value function.
type Measure struct {
	Value       ValueFunc
	Sensitivity SensitivityFunc
}

// Registry maps trade kinds to their measures.
type Registry struct {
	measures map[instrument.Kind]Measure
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{measures: map[instrument.Kind]Measure{}}
}

// Default returns a registry with par-spread measures for fixing deposits,
// FRAs, and fixed-vs-float swaps.
func Default() *Registry {
	r := NewRegistry()
	r.Register(instrument.KindFixingDeposit, Measure{Value: depositParSpread})
	r.Register(instrument.KindFRA, Measure{Value: fraParSpread})
	r.Register(instrument.KindSwap, Measure{Value: swapParSpread})
	return r
}

// Register adds or replaces the measure for a kind.
func (r *Registry) Register(kind instrument.Kind, m Measure) {
	r.measures[kind] = m
}

// Value evaluates the trade's measure against the snapshot.
func (r *Registry) Value(trade instrument.Trade, snap *rates.Snapshot) (float64, error) {
	m, ok := r.measures[trade.Kind()]
	if !ok {
		return 0, &UnsupportedInstrumentError{Kind: trade.Kind()}
	}
	return m.Value(trade, snap)
}

// Derivative evaluates the measure's sensitivity to every parameter in the
// curve order list.
func (r *Registry) Derivative(trade instrument.Trade, snap *rates.Snapshot, order []curve.ParameterSize) ([]float64, error) {
	m, ok := r.measures[trade.Kind()]
	if !ok {
		return nil, &UnsupportedInstrumentError{Kind: trade.Kind()}
	}
	sens := m.Sensitivity
	if sens == nil {
		sens = FiniteDifference(m.Value)
	}
	return sens(trade, snap, order)
}
