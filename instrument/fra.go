package instrument

import (
	"time"

	"github.com/meenmo/curvecal/market"
)

// ForwardRateAgreement exchanges FixedRate against the index forward over
// a single future accrual period [Start, End].
type ForwardRateAgreement struct {
	Index     market.ReferenceIndex
	Start     time.Time
	End       time.Time
	FixedRate float64 // decimal
	Notional  float64
}

func (ForwardRateAgreement) Kind() Kind { return KindFRA }
