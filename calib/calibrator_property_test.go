package calib_test

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/meenmo/curvecal/calib"
	"github.com/meenmo/curvecal/curve"
	"github.com/meenmo/curvecal/instrument"
	"github.com/meenmo/curvecal/market"
	"github.com/meenmo/curvecal/measure"
	"github.com/meenmo/curvecal/rates"
)

// Property: for any plausible deposit quotes, a calibrated curve reprices
// every quote within the solver tolerance and produces discount factors in
// (0, 1] that decrease with maturity.
func TestCalibrate_RepricingProperty(t *testing.T) {
	t.Parallel()

	valuation := date(2026, 1, 5)
	months := []int{6, 12, 24}
	nodes := make([]time.Time, len(months))
	for i, m := range months {
		nodes[i] = maturity(valuation, m)
	}
	discounting := map[string]market.Currency{"EUR-DSC": market.EUR}
	forwards := map[string][]market.ReferenceIndex{"EUR-DSC": {market.ESTR}}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("deposits reprice and discount factors decay", prop.ForAll(
		func(quotes []float64) bool {
			trades := make([]instrument.Trade, len(quotes))
			for i, q := range quotes {
				trades[i] = deposit(market.ESTR, valuation, nodes[i], q)
			}
			entry := calib.GroupEntry{
				Template: curve.NodalTemplate{
					CurveName:  "EUR-DSC",
					Settlement: valuation,
					NodeDates:  nodes,
				},
				Trades:       trades,
				InitialGuess: make([]float64, len(quotes)),
			}

			calibrator := calib.NewCalibrator(discounting, forwards, measure.Default(), calib.DefaultRootFinderConfig)
			final, bundle, err := calibrator.Calibrate([]calib.Group{{entry}}, rates.NewSnapshot(valuation))
			if err != nil {
				return false
			}

			calc := measure.Default()
			for _, trade := range trades {
				v, err := calc.Value(trade, final)
				if err != nil || math.Abs(v) > 1e-9 {
					return false
				}
			}

			dsc, ok := final.DiscountCurve(market.EUR)
			if !ok {
				return false
			}
			prev := 1.0
			for _, n := range nodes {
				df := dsc.DF(n)
				if df <= 0 || df > prev {
					return false
				}
				prev = df
			}

			block, ok := bundle.Block("EUR-DSC")
			if !ok || block.Size != len(quotes) {
				return false
			}
			// Each node answers to its own quote.
			for i := range quotes {
				if block.Transition.At(i, i) <= 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(len(months), gen.Float64Range(0.001, 0.08)),
	))

	properties.TestingRun(t)
}

// Property: scaling is sane under permutation. Shuffling the deposits (and
// their nodes with them) inside a group leaves the calibrated curve alone.
func TestCalibrate_PermutationProperty(t *testing.T) {
	t.Parallel()

	valuation := date(2026, 1, 5)
	months := []int{6, 12, 24}
	discounting := map[string]market.Currency{"EUR-DSC": market.EUR}
	forwards := map[string][]market.ReferenceIndex{"EUR-DSC": {market.ESTR}}

	solve := func(order []int, quotes []float64) []float64 {
		nodes := make([]time.Time, len(order))
		trades := make([]instrument.Trade, len(order))
		guess := make([]float64, len(order))
		for i, oi := range order {
			nodes[i] = maturity(valuation, months[oi])
			trades[i] = deposit(market.ESTR, valuation, nodes[i], quotes[oi])
			guess[i] = quotes[oi]
		}
		entry := calib.GroupEntry{
			Template: curve.NodalTemplate{
				CurveName:  "EUR-DSC",
				Settlement: valuation,
				NodeDates:  nodes,
			},
			Trades:       trades,
			InitialGuess: guess,
		}
		calibrator := calib.NewCalibrator(discounting, forwards, measure.Default(), calib.DefaultRootFinderConfig)
		final, _, err := calibrator.Calibrate([]calib.Group{{entry}}, rates.NewSnapshot(valuation))
		if err != nil {
			return nil
		}
		c, ok := final.CurveByName("EUR-DSC")
		if !ok {
			return nil
		}
		out := make([]float64, len(order))
		for i, n := range nodes {
			out[i] = c.ZeroRateAt(n)
		}
		return out
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("trade order within a group does not move the curve", prop.ForAll(
		func(quotes []float64) bool {
			forward := solve([]int{0, 1, 2}, quotes)
			reversed := solve([]int{2, 1, 0}, quotes)
			if forward == nil || reversed == nil {
				return false
			}
			for i := range forward {
				// forward[i] is the zero at months[i]; reversed is permuted.
				if math.Abs(forward[i]-reversed[len(reversed)-1-i]) > 1e-9 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(len(months), gen.Float64Range(0.001, 0.08)),
	))

	properties.TestingRun(t)
}
