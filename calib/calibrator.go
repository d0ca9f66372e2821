package calib

import (
	"fmt"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/curvecal/curve"
	"github.com/meenmo/curvecal/instrument"
	"github.com/meenmo/curvecal/market"
	"github.com/meenmo/curvecal/matrix"
	"github.com/meenmo/curvecal/rates"
)

// GroupEntry pairs one curve template with the trades that fit it and the
// initial parameter guess.
type GroupEntry struct {
	Template     curve.Template
	Trades       []instrument.Trade
	InitialGuess []float64
}

// Group is the set of curves solved jointly as one square root-finding
// system. Entry order fixes the group's curve order.
type Group []GroupEntry

// Calibrator bootstraps curves group by group: each group is solved to
// reprice its trades against the snapshot accumulated from earlier groups,
// and its Jacobian contribution is merged into a cumulative Bundle so that
// later curves attribute sensitivity back to earlier groups' market quotes.
type Calibrator struct {
	discounting map[string]market.Currency
	forwards    map[string][]market.ReferenceIndex
	calc        MeasureCalculator
	finder      *RootFinder
	logger      zerolog.Logger
}

// NewCalibrator wires the curve-name mappings, the measure calculator, and
// the root-finder configuration. Logging is off by default.
func NewCalibrator(discounting map[string]market.Currency, forwards map[string][]market.ReferenceIndex,
	calc MeasureCalculator, cfg RootFinderConfig) *Calibrator {
	return &Calibrator{
		discounting: discounting,
		forwards:    forwards,
		calc:        calc,
		finder:      NewRootFinder(cfg),
		logger:      zerolog.Nop(),
	}
}

// WithLogger enables per-group progress logging.
func (c *Calibrator) WithLogger(l zerolog.Logger) *Calibrator {
	c.logger = l
	return c
}

// Calibrate processes the groups in declared order against the starting
// snapshot and returns the final snapshot plus the complete Bundle.
//
// It fails fast: the first error discards all partial state, and the error
// message carries the failing group. The snapshot returned after success
// reprices every trade of every group within the root finder's tolerance.
func (c *Calibrator) Calibrate(groups []Group, starting *rates.Snapshot) (*rates.Snapshot, *Bundle, error) {
	names := map[string]bool{}
	for _, g := range groups {
		for _, e := range g {
			names[e.Template.Name()] = true
		}
	}
	if err := rates.ValidateNames(c.discounting, c.forwards, names); err != nil {
		return nil, nil, err
	}

	known := starting
	bundle := NewBundle()
	var before []curve.ParameterSize

	for gi, g := range groups {
		trades, guess, templates, current, err := flattenGroup(g)
		if err != nil {
			return nil, nil, fmt.Errorf("calibrate group %d: %w", gi+1, err)
		}
		nCur := curve.TotalParameters(current)
		if len(trades) != nCur {
			return nil, nil, fmt.Errorf("calibrate group %d: %w", gi+1,
				&curve.DimensionError{Op: "trades vs parameters", Want: nCur, Got: len(trades)})
		}

		template := rates.NewProviderTemplate(known, templates, c.discounting, c.forwards)
		valueFn := NewValueFunction(trades, template, c.calc)
		derivFn := NewDerivativeFunction(trades, template, c.calc, current)

		c.logger.Debug().Int("group", gi+1).Int("trades", len(trades)).
			Int("parameters", nCur).Msg("solving calibration group")

		params, err := c.finder.Solve(valueFn.Evaluate, derivFn.Evaluate, guess)
		if err != nil {
			return nil, nil, fmt.Errorf("calibrate group %d: %w", gi+1, err)
		}
		snap, err := template.Generate(params)
		if err != nil {
			return nil, nil, fmt.Errorf("calibrate group %d: %w", gi+1, err)
		}

		all := append(append([]curve.ParameterSize(nil), before...), current...)
		fullDeriv := NewDerivativeFunction(trades, template, c.calc, all)
		sensitivity, err := fullDeriv.Evaluate(params)
		if err != nil {
			return nil, nil, fmt.Errorf("calibrate group %d: %w", gi+1, err)
		}

		bundle, err = mergeGroupBundle(bundle, before, current, sensitivity)
		if err != nil {
			return nil, nil, fmt.Errorf("calibrate group %d: %w", gi+1, err)
		}

		c.logger.Info().Int("group", gi+1).Int("curves", len(current)).
			Msg("calibration group solved")

		known = snap
		before = all
	}
	return known, bundle, nil
}

// flattenGroup concatenates a group's trades, guesses, templates, and
// curve order in entry order.
func flattenGroup(g Group) ([]instrument.Trade, []float64, []curve.Template, []curve.ParameterSize, error) {
	var trades []instrument.Trade
	var guess []float64
	var templates []curve.Template
	var order []curve.ParameterSize
	for _, e := range g {
		n := e.Template.ParameterCount()
		if len(e.InitialGuess) != n {
			return nil, nil, nil, nil,
				&curve.DimensionError{Op: "initial guess for curve " + e.Template.Name(), Want: n, Got: len(e.InitialGuess)}
		}
		trades = append(trades, e.Trades...)
		guess = append(guess, e.InitialGuess...)
		templates = append(templates, e.Template)
		order = append(order, curve.ParameterSize{CurveName: e.Template.Name(), Count: n})
	}
	return trades, guess, templates, order, nil
}

// mergeGroupBundle folds one group's full-order sensitivity matrix into the
// bundle.
//
// With S the (trades x before+current params) matrix, the square tail block
// S_direct inverts to J = d(params)/d(quotes) for the group's own quotes,
// and -J*S_indirect chains through the earlier curves' stored transition
// matrices to attribute the group's parameters to earlier market quotes.
func mergeGroupBundle(bundle *Bundle, before, current []curve.ParameterSize, s *mat.Dense) (*Bundle, error) {
	nBefore := curve.TotalParameters(before)
	nCur := curve.TotalParameters(current)
	rows, cols := s.Dims()
	if rows != nCur || cols != nBefore+nCur {
		return nil, &curve.DimensionError{Op: "group sensitivity matrix", Want: nBefore + nCur, Got: cols}
	}

	sDirect := matrix.SubMatrix(s, 0, rows, nBefore, nBefore+nCur)
	jacDirect, err := matrix.Invert(sDirect)
	if err != nil {
		return nil, &ConvergenceError{Reason: "singular direct jacobian: " + err.Error()}
	}

	full := jacDirect
	all := append([]curve.ParameterSize(nil), current...)
	if nBefore > 0 {
		sIndirect := matrix.SubMatrix(s, 0, rows, 0, nBefore)
		jacIndirect := matrix.Scale(-1, matrix.Multiply(jacDirect, sIndirect))

		transition, err := assembleTransition(bundle, before)
		if err != nil {
			return nil, err
		}
		indirectQuotes := matrix.Multiply(jacIndirect, transition)

		full, err = matrix.HConcat(indirectQuotes, jacDirect)
		if err != nil {
			return nil, err
		}
		all = append(append([]curve.ParameterSize(nil), before...), current...)
	}

	out := bundle
	off := 0
	for _, ps := range current {
		out = out.With(BuildingBlock{
			CurveName:  ps.CurveName,
			Offset:     nBefore + off,
			Size:       ps.Count,
			QuoteOrder: append([]curve.ParameterSize(nil), all...),
			Transition: matrix.SubMatrix(full, off, off+ps.Count, 0, nBefore+nCur),
		})
		off += ps.Count
	}
	return out, nil
}

// assembleTransition stacks the stored transition matrices of all earlier
// curves into one square matrix over the cumulative before-order. Each
// block's quote order is a prefix of the cumulative order, so its columns
// land left-aligned; the remainder stays zero.
func assembleTransition(bundle *Bundle, before []curve.ParameterSize) (*mat.Dense, error) {
	n := curve.TotalParameters(before)
	t := mat.NewDense(n, n, nil)
	off := 0
	for _, ps := range before {
		b, ok := bundle.Block(ps.CurveName)
		if !ok {
			return nil, fmt.Errorf("assemble transition: no building block for curve %q", ps.CurveName)
		}
		if b.Size != ps.Count {
			return nil, &curve.DimensionError{Op: "transition block for curve " + ps.CurveName, Want: ps.Count, Got: b.Size}
		}
		_, cols := b.Transition.Dims()
		if cols > n {
			return nil, &curve.DimensionError{Op: "transition width for curve " + ps.CurveName, Want: n, Got: cols}
		}
		for i := 0; i < b.Size; i++ {
			for j := 0; j < cols; j++ {
				t.Set(off+i, j, b.Transition.At(i, j))
			}
		}
		off += ps.Count
	}
	return t, nil
}
