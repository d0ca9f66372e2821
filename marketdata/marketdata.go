// Package marketdata supplies quotes and fixings to curve calibration.
// The in-memory types here back tests and file-based CLI runs; the pg
// subpackage reads the same data from Postgres.
package marketdata

import (
	"fmt"
	"time"

	"github.com/meenmo/curvecal/calendar"
	"github.com/meenmo/curvecal/utils"
)

// ParQuotes maps tenor strings (e.g. "3M", "1Y", "10Y") to quoted par
// rates in percent.
type ParQuotes map[string]float64

// TenorToMonths parses a tenor string into months.
func TenorToMonths(tenor string) (int, error) {
	if len(tenor) < 2 {
		return 0, fmt.Errorf("invalid tenor %q", tenor)
	}
	var n int
	if _, err := fmt.Sscanf(tenor[:len(tenor)-1], "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid tenor %q: %w", tenor, err)
	}
	switch tenor[len(tenor)-1] {
	case 'M', 'm':
		return n, nil
	case 'Y', 'y':
		return n * 12, nil
	default:
		return 0, fmt.Errorf("unsupported tenor unit in %q", tenor)
	}
}

// MaturityDate resolves a tenor to an adjusted maturity date from spot.
func MaturityDate(spot time.Time, tenor string, cal calendar.CalendarID) (time.Time, error) {
	months, err := TenorToMonths(tenor)
	if err != nil {
		return time.Time{}, err
	}
	return calendar.Adjust(cal, utils.AddMonth(spot, months)), nil
}
