package measure

import (
	"fmt"

	"github.com/meenmo/curvecal/instrument"
	"github.com/meenmo/curvecal/rates"
)

// depositParSpread returns the index rate over the deposit period minus the
// quoted rate. A published fixing takes precedence when the deposit has
// already fixed.
func depositParSpread(trade instrument.Trade, snap *rates.Snapshot) (float64, error) {
	d, ok := trade.(instrument.FixingDeposit)
	if !ok {
		return 0, fmt.Errorf("fixing deposit measure: unexpected trade type %T", trade)
	}
	if !d.Start.After(snap.ValuationDate()) {
		if fix, ok := snap.Fixing(d.Index, d.Start); ok {
			return fix - d.FixedRate, nil
		}
	}
	fwd, ok := snap.ForwardRate(d.Index, d.Start, d.End)
	if !ok {
		return 0, fmt.Errorf("fixing deposit measure: no forward curve for %s", d.Index)
	}
	return fwd - d.FixedRate, nil
}

// fraParSpread returns the projected forward rate minus the quoted rate.
func fraParSpread(trade instrument.Trade, snap *rates.Snapshot) (float64, error) {
	f, ok := trade.(instrument.ForwardRateAgreement)
	if !ok {
		return 0, fmt.Errorf("FRA measure: unexpected trade type %T", trade)
	}
	fwd, ok := snap.ForwardRate(f.Index, f.Start, f.End)
	if !ok {
		return 0, fmt.Errorf("FRA measure: no forward curve for %s", f.Index)
	}
	return fwd - f.FixedRate, nil
}

// swapParSpread returns the par swap rate implied by the snapshot minus
// the quoted fixed rate: floating leg PV over the fixed leg annuity, both
// discounted on the swap currency's discount curve.
func swapParSpread(trade instrument.Trade, snap *rates.Snapshot) (float64, error) {
	s, ok := trade.(instrument.Swap)
	if !ok {
		return 0, fmt.Errorf("swap measure: unexpected trade type %T", trade)
	}
	disc, ok := snap.DiscountCurve(s.Currency)
	if !ok {
		return 0, fmt.Errorf("swap measure: no discount curve for %s", s.Currency)
	}

	fixed, err := s.FixedSchedule()
	if err != nil {
		return 0, fmt.Errorf("swap measure: %w", err)
	}
	annuity := 0.0
	for _, p := range fixed {
		annuity += p.Accrual * disc.DF(p.Pay)
	}
	if annuity == 0 {
		return 0, fmt.Errorf("swap measure: zero annuity for swap maturing %s", s.Maturity.Format("2006-01-02"))
	}

	floating, err := s.FloatSchedule()
	if err != nil {
		return 0, fmt.Errorf("swap measure: %w", err)
	}
	floatPV := 0.0
	for _, p := range floating {
		fwd, ok := snap.ForwardRate(s.Index, p.Start, p.End)
		if !ok {
			return 0, fmt.Errorf("swap measure: no forward curve for %s", s.Index)
		}
		floatPV += fwd * p.Accrual * disc.DF(p.Pay)
	}

	return floatPV/annuity - s.FixedRate, nil
}
