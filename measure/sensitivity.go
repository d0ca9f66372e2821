package measure

import (
	"github.com/meenmo/curvecal/curve"
	"github.com/meenmo/curvecal/instrument"
	"github.com/meenmo/curvecal/rates"
)

// bumpSize is the absolute zero-rate bump for central differences.
const bumpSize = 1e-7

// FiniteDifference derives a SensitivityFunc from a ValueFunc by central
// differences: each curve parameter in the order list is bumped up and
// down, the curve is rebuilt, and the trade is repriced against a snapshot
// with the bumped curve swapped in. Curves missing from the snapshot
// contribute zeros (the zero-padding required by the derivative contract).
func FiniteDifference(value ValueFunc) SensitivityFunc {
	return func(trade instrument.Trade, snap *rates.Snapshot, order []curve.ParameterSize) ([]float64, error) {
		out := make([]float64, curve.TotalParameters(order))
		off := 0
		for _, ps := range order {
			c, ok := snap.CurveByName(ps.CurveName)
			if !ok {
				off += ps.Count
				continue
			}
			if c.ParameterCount() != ps.Count {
				return nil, &curve.DimensionError{Op: "sensitivity to curve " + ps.CurveName, Want: ps.Count, Got: c.ParameterCount()}
			}
			for j := 0; j < ps.Count; j++ {
				base := c.Parameter(j)

				up, err := value(trade, snap.WithCurve(ps.CurveName, c.WithParameter(j, base+bumpSize)))
				if err != nil {
					return nil, err
				}
				down, err := value(trade, snap.WithCurve(ps.CurveName, c.WithParameter(j, base-bumpSize)))
				if err != nil {
					return nil, err
				}
				out[off+j] = (up - down) / (2 * bumpSize)
			}
			off += ps.Count
		}
		return out, nil
	}
}
