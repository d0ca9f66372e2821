package market

import "time"

// FixingFeed supplies historical index fixings (e.g., a published overnight
// or IBOR rate) for valuing periods whose fixing date is in the past.
type FixingFeed interface {
	RateOn(date time.Time) (float64, bool)
}

// MapFixingFeed is a static map-backed implementation for development/testing.
type MapFixingFeed struct {
	rates map[string]float64
}

func NewMapFixingFeed(rates map[string]float64) *MapFixingFeed {
	return &MapFixingFeed{rates: rates}
}

func (m *MapFixingFeed) RateOn(date time.Time) (float64, bool) {
	val, ok := m.rates[date.Format("2006-01-02")]
	return val, ok
}
