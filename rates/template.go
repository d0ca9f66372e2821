package rates

import (
	"fmt"

	"github.com/meenmo/curvecal/curve"
	"github.com/meenmo/curvecal/market"
)

// ConfigurationError reports a discounting/forward mapping that references a
// curve name with no corresponding template. Curves with a template but no
// mapping are tolerated (built but unused); the reverse is not.
type ConfigurationError struct {
	CurveName string
	Target    string // currency or index the name was mapped to
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("curve %q mapped to %s has no template", e.CurveName, e.Target)
}

// ProviderTemplate builds a full rates snapshot from a flat parameter
// vector: the vector is sliced into consecutive windows sized by each
// curve template, one curve is generated per window, and the new curves
// are merged over the known snapshot per the name mappings captured at
// construction. Generation is a pure function of the parameters.
type ProviderTemplate struct {
	known       *Snapshot
	templates   []curve.Template
	discounting map[string]market.Currency
	forwards    map[string][]market.ReferenceIndex
}

// NewProviderTemplate captures the known snapshot, the group's curve
// templates in declared order, and the curve-name mappings.
func NewProviderTemplate(known *Snapshot, templates []curve.Template,
	discounting map[string]market.Currency, forwards map[string][]market.ReferenceIndex) *ProviderTemplate {
	return &ProviderTemplate{
		known:       known,
		templates:   templates,
		discounting: discounting,
		forwards:    forwards,
	}
}

// ParameterCount returns the total parameter count across templates.
func (pt *ProviderTemplate) ParameterCount() int {
	n := 0
	for _, t := range pt.templates {
		n += t.ParameterCount()
	}
	return n
}

// Order returns the template layout as a curve order list.
func (pt *ProviderTemplate) Order() []curve.ParameterSize {
	order := make([]curve.ParameterSize, len(pt.templates))
	for i, t := range pt.templates {
		order[i] = curve.ParameterSize{CurveName: t.Name(), Count: t.ParameterCount()}
	}
	return order
}

// Generate slices params per template, builds each curve, and merges the
// results into a new snapshot on top of the known one.
func (pt *ProviderTemplate) Generate(params []float64) (*Snapshot, error) {
	want := pt.ParameterCount()
	if len(params) != want {
		return nil, &curve.DimensionError{Op: "generate provider", Want: want, Got: len(params)}
	}

	snap := pt.known
	off := 0
	for _, tmpl := range pt.templates {
		n := tmpl.ParameterCount()
		c, err := tmpl.Generate(params[off : off+n])
		if err != nil {
			return nil, fmt.Errorf("generate provider: %w", err)
		}
		off += n

		// A curve mapped to nothing is still built; it simply never lands
		// in a discounting or forward slot.
		if ccy, ok := pt.discounting[tmpl.Name()]; ok {
			snap = snap.WithDiscountCurve(ccy, c)
		}
		for _, idx := range pt.forwards[tmpl.Name()] {
			snap = snap.WithForwardCurve(idx, c)
		}
	}
	return snap, nil
}

// ValidateNames checks that every curve name appearing in the discounting
// and forward mappings corresponds to a template in templateNames.
func ValidateNames(discounting map[string]market.Currency, forwards map[string][]market.ReferenceIndex,
	templateNames map[string]bool) error {
	for name, ccy := range discounting {
		if !templateNames[name] {
			return &ConfigurationError{CurveName: name, Target: "currency " + string(ccy)}
		}
	}
	for name, idxs := range forwards {
		if !templateNames[name] {
			target := "forward indices"
			if len(idxs) > 0 {
				target = "index " + string(idxs[0])
			}
			return &ConfigurationError{CurveName: name, Target: target}
		}
	}
	return nil
}
