package market

// FXMatrix holds spot exchange rates between currencies.
//
// Rates are stored one-directional; lookups fall back to the inverse pair.
// The matrix is immutable: WithRate returns a copy.
type FXMatrix struct {
	rates map[string]float64 // "EURUSD" -> price of 1 EUR in USD
}

// NewFXMatrix returns an empty FX matrix.
func NewFXMatrix() *FXMatrix {
	return &FXMatrix{rates: map[string]float64{}}
}

// WithRate returns a copy of the matrix with the base/quote rate set.
func (m *FXMatrix) WithRate(base, quote Currency, rate float64) *FXMatrix {
	next := make(map[string]float64, len(m.rates)+1)
	for k, v := range m.rates {
		next[k] = v
	}
	next[string(base)+string(quote)] = rate
	return &FXMatrix{rates: next}
}

// Rate returns the price of one unit of base in quote currency.
func (m *FXMatrix) Rate(base, quote Currency) (float64, bool) {
	if base == quote {
		return 1.0, true
	}
	if m == nil {
		return 0, false
	}
	if r, ok := m.rates[string(base)+string(quote)]; ok {
		return r, true
	}
	if r, ok := m.rates[string(quote)+string(base)]; ok && r != 0 {
		return 1.0 / r, true
	}
	return 0, false
}

// Pairs returns the number of directly quoted pairs.
func (m *FXMatrix) Pairs() int {
	if m == nil {
		return 0
	}
	return len(m.rates)
}
