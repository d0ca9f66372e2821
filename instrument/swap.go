package instrument

import (
	"fmt"
	"time"

	"github.com/meenmo/curvecal/calendar"
	"github.com/meenmo/curvecal/market"
	"github.com/meenmo/curvecal/utils"
)

// Period is one accrual period of a swap leg.
type Period struct {
	Start   time.Time
	End     time.Time
	Pay     time.Time
	Accrual float64
}

// Swap is a fixed-vs-float interest rate swap used as a calibration
// instrument. The floating leg references Index at the index tenor; the
// fixed leg pays FixedRate at FixedFreqMonths intervals.
type Swap struct {
	Currency  market.Currency
	Index     market.ReferenceIndex
	Effective time.Time
	Maturity  time.Time
	FixedRate float64 // decimal
	Notional  float64

	// FixedFreqMonths defaults to 12 (annual) when zero.
	FixedFreqMonths int
	// FixedDayCount defaults to 30/360 when empty.
	FixedDayCount string
	// Calendar defaults to the index calendar when empty.
	Calendar calendar.CalendarID
}

func (Swap) Kind() Kind { return KindSwap }

func (s Swap) calendarID() calendar.CalendarID {
	if s.Calendar != "" {
		return s.Calendar
	}
	return s.Index.Calendar()
}

// FixedSchedule generates the fixed leg periods, rolling forward from the
// effective date with Modified Following adjustment.
func (s Swap) FixedSchedule() ([]Period, error) {
	freq := s.FixedFreqMonths
	if freq == 0 {
		freq = 12
	}
	dc := s.FixedDayCount
	if dc == "" {
		dc = "30/360"
	}
	return generateSchedule(s.Effective, s.Maturity, freq, dc, s.calendarID())
}

// FloatSchedule generates the floating leg periods at the index tenor.
// Overnight indices compound over the fixed leg frequency.
func (s Swap) FloatSchedule() ([]Period, error) {
	freq := s.Index.TenorMonths()
	if freq == 0 {
		freq = s.FixedFreqMonths
		if freq == 0 {
			freq = 12
		}
	}
	return generateSchedule(s.Effective, s.Maturity, freq, s.Index.DayCount(), s.calendarID())
}

// generateSchedule rolls forward from effective in freqMonths steps,
// forcing the final period to end at maturity (short back stub).
func generateSchedule(effective, maturity time.Time, freqMonths int, dayCount string, cal calendar.CalendarID) ([]Period, error) {
	if !maturity.After(effective) {
		return nil, fmt.Errorf("generate schedule: maturity %s not after effective %s",
			maturity.Format("2006-01-02"), effective.Format("2006-01-02"))
	}
	if freqMonths <= 0 {
		return nil, fmt.Errorf("generate schedule: unsupported frequency %dM", freqMonths)
	}

	periods := make([]Period, 0, 16)
	start := effective
	unadj := effective
	for start.Before(maturity) {
		unadj = utils.AddMonth(unadj, freqMonths)
		end := calendar.Adjust(cal, unadj)
		if !end.Before(maturity) {
			end = maturity
		}
		periods = append(periods, Period{
			Start:   start,
			End:     end,
			Pay:     end,
			Accrual: utils.YearFraction(start, end, dayCount),
		})
		start = end
	}
	return periods, nil
}
