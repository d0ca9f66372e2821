package market

import "github.com/meenmo/curvecal/calendar"

// Currency is an ISO 4217 currency code.
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	JPY Currency = "JPY"
	GBP Currency = "GBP"
)

// ReferenceIndex enumerates supported floating benchmarks.
type ReferenceIndex string

const (
	ESTR      ReferenceIndex = "ESTR"
	EURIBOR3M ReferenceIndex = "EURIBOR3M"
	EURIBOR6M ReferenceIndex = "EURIBOR6M"
	TONAR     ReferenceIndex = "TONAR"
	TIBOR3M   ReferenceIndex = "TIBOR3M"
	TIBOR6M   ReferenceIndex = "TIBOR6M"
	SOFR      ReferenceIndex = "SOFR"
	SONIA     ReferenceIndex = "SONIA"
	LIBOR3M   ReferenceIndex = "LIBOR3M"
)

// IsOvernight reports whether the reference rate is an overnight index used in OIS discounting/projection.
func IsOvernight(r ReferenceIndex) bool {
	switch r {
	case ESTR, TONAR, SOFR, SONIA:
		return true
	default:
		return false
	}
}

// indexConvention bundles the fixed conventions of a reference index.
type indexConvention struct {
	currency    Currency
	tenorMonths int // 0 for overnight indices
	dayCount    string
	calendar    calendar.CalendarID
}

var indexConventions = map[ReferenceIndex]indexConvention{
	ESTR:      {EUR, 0, "ACT/360", calendar.TARGET},
	EURIBOR3M: {EUR, 3, "ACT/360", calendar.TARGET},
	EURIBOR6M: {EUR, 6, "ACT/360", calendar.TARGET},
	TONAR:     {JPY, 0, "ACT/365F", calendar.JPN},
	TIBOR3M:   {JPY, 3, "ACT/365F", calendar.JPN},
	TIBOR6M:   {JPY, 6, "ACT/365F", calendar.JPN},
	SOFR:      {USD, 0, "ACT/360", calendar.USD},
	SONIA:     {GBP, 0, "ACT/365F", calendar.GBP},
	LIBOR3M:   {USD, 3, "ACT/360", calendar.USD},
}

// Currency returns the index's currency. Unknown indices default to USD.
func (r ReferenceIndex) Currency() Currency {
	if c, ok := indexConventions[r]; ok {
		return c.currency
	}
	return USD
}

// TenorMonths returns the index tenor in months, 0 for overnight indices.
func (r ReferenceIndex) TenorMonths() int {
	if c, ok := indexConventions[r]; ok {
		return c.tenorMonths
	}
	return 3
}

// DayCount returns the accrual day count convention for the index.
func (r ReferenceIndex) DayCount() string {
	if c, ok := indexConventions[r]; ok {
		return c.dayCount
	}
	return "ACT/360"
}

// Calendar returns the fixing calendar for the index.
func (r ReferenceIndex) Calendar() calendar.CalendarID {
	if c, ok := indexConventions[r]; ok {
		return c.calendar
	}
	return calendar.USD
}
