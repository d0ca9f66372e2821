package instrument

import (
	"time"

	"github.com/meenmo/curvecal/market"
)

// FixingDeposit is a single-period deposit referencing an index fixing:
// it pays FixedRate against the index rate over [Start, End].
//
// If the fixing date is on or before the valuation date and a published
// fixing exists, the fixing replaces the projected forward.
type FixingDeposit struct {
	Index     market.ReferenceIndex
	Start     time.Time
	End       time.Time
	FixedRate float64 // decimal
	Notional  float64
}

func (FixingDeposit) Kind() Kind { return KindFixingDeposit }
