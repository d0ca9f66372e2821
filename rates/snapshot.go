package rates

import (
	"time"

	"github.com/meenmo/curvecal/curve"
	"github.com/meenmo/curvecal/market"
	"github.com/meenmo/curvecal/utils"
)

// Snapshot is an immutable view of rates and FX state: discount curves by
// currency, forward curves by index, an FX matrix, and fixing feeds.
//
// All With* methods return a modified copy; a snapshot is never mutated
// after construction, so snapshots can be shared freely across solver
// iterations.
type Snapshot struct {
	valuationDate time.Time
	discount      map[market.Currency]curve.Curve
	forward       map[market.ReferenceIndex]curve.Curve
	fx            *market.FXMatrix
	fixings       map[market.ReferenceIndex]market.FixingFeed
}

// NewSnapshot returns an empty snapshot for the valuation date.
func NewSnapshot(valuationDate time.Time) *Snapshot {
	return &Snapshot{
		valuationDate: valuationDate,
		discount:      map[market.Currency]curve.Curve{},
		forward:       map[market.ReferenceIndex]curve.Curve{},
		fx:            market.NewFXMatrix(),
		fixings:       map[market.ReferenceIndex]market.FixingFeed{},
	}
}

func (s *Snapshot) clone() *Snapshot {
	next := &Snapshot{
		valuationDate: s.valuationDate,
		discount:      make(map[market.Currency]curve.Curve, len(s.discount)+1),
		forward:       make(map[market.ReferenceIndex]curve.Curve, len(s.forward)+1),
		fx:            s.fx,
		fixings:       make(map[market.ReferenceIndex]market.FixingFeed, len(s.fixings)+1),
	}
	for k, v := range s.discount {
		next.discount[k] = v
	}
	for k, v := range s.forward {
		next.forward[k] = v
	}
	for k, v := range s.fixings {
		next.fixings[k] = v
	}
	return next
}

// ValuationDate returns the snapshot's valuation date.
func (s *Snapshot) ValuationDate() time.Time { return s.valuationDate }

// WithDiscountCurve returns a copy with the currency's discount curve set.
func (s *Snapshot) WithDiscountCurve(ccy market.Currency, c curve.Curve) *Snapshot {
	next := s.clone()
	next.discount[ccy] = c
	return next
}

// WithForwardCurve returns a copy with the index's forward curve set.
func (s *Snapshot) WithForwardCurve(idx market.ReferenceIndex, c curve.Curve) *Snapshot {
	next := s.clone()
	next.forward[idx] = c
	return next
}

// WithFXMatrix returns a copy with the FX matrix replaced.
func (s *Snapshot) WithFXMatrix(fx *market.FXMatrix) *Snapshot {
	next := s.clone()
	next.fx = fx
	return next
}

// WithFixings returns a copy with the index's fixing feed set.
func (s *Snapshot) WithFixings(idx market.ReferenceIndex, feed market.FixingFeed) *Snapshot {
	next := s.clone()
	next.fixings[idx] = feed
	return next
}

// WithCurve returns a copy where every discounting/forward slot holding a
// curve of the given name now holds c. Used by sensitivity code to bump a
// calibrated curve wherever it is wired.
func (s *Snapshot) WithCurve(name string, c curve.Curve) *Snapshot {
	next := s.clone()
	for ccy, cur := range next.discount {
		if cur.Name() == name {
			next.discount[ccy] = c
		}
	}
	for idx, cur := range next.forward {
		if cur.Name() == name {
			next.forward[idx] = c
		}
	}
	return next
}

// DiscountCurve returns the discount curve for a currency.
func (s *Snapshot) DiscountCurve(ccy market.Currency) (curve.Curve, bool) {
	c, ok := s.discount[ccy]
	return c, ok
}

// ForwardCurve returns the projection curve for an index.
func (s *Snapshot) ForwardCurve(idx market.ReferenceIndex) (curve.Curve, bool) {
	c, ok := s.forward[idx]
	return c, ok
}

// CurveByName scans discounting and forward slots for a curve name.
func (s *Snapshot) CurveByName(name string) (curve.Curve, bool) {
	for _, c := range s.discount {
		if c.Name() == name {
			return c, true
		}
	}
	for _, c := range s.forward {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// FXRate returns the price of one unit of base in quote currency.
func (s *Snapshot) FXRate(base, quote market.Currency) (float64, bool) {
	return s.fx.Rate(base, quote)
}

// Fixing returns the published fixing of an index on a date, if known.
func (s *Snapshot) Fixing(idx market.ReferenceIndex, date time.Time) (float64, bool) {
	feed, ok := s.fixings[idx]
	if !ok {
		return 0, false
	}
	return feed.RateOn(date)
}

// DiscountFactor returns the discount factor for a currency at date t.
func (s *Snapshot) DiscountFactor(ccy market.Currency, t time.Time) (float64, bool) {
	c, ok := s.discount[ccy]
	if !ok {
		return 0, false
	}
	return c.DF(t), true
}

// ForwardRate returns the simple forward rate of an index over [start, end],
// implied from the index's projection curve with the index day count.
func (s *Snapshot) ForwardRate(idx market.ReferenceIndex, start, end time.Time) (float64, bool) {
	c, ok := s.forward[idx]
	if !ok {
		return 0, false
	}
	accrual := utils.YearFraction(start, end, idx.DayCount())
	if accrual <= 0 {
		return 0, false
	}
	dfStart := c.DF(start)
	dfEnd := c.DF(end)
	if dfEnd == 0 {
		return 0, false
	}
	return (dfStart/dfEnd - 1.0) / accrual, true
}
