package utils_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/curvecal/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestYearFraction(t *testing.T) {
	t.Parallel()

	start := date(2026, 1, 5)
	end := date(2026, 7, 5) // 181 days

	cases := []struct {
		convention string
		want       float64
	}{
		{"ACT/360", 181.0 / 360.0},
		{"ACT/365F", 181.0 / 365.0},
		{"30/360", 0.5},
		{"30E/360", 0.5},
	}
	for _, tc := range cases {
		if got := utils.YearFraction(start, end, tc.convention); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("%s: got %.10f want %.10f", tc.convention, got, tc.want)
		}
	}
}

func TestYearFraction_ThirtyE360CapsMonthEnd(t *testing.T) {
	t.Parallel()

	// The 31st caps at 30 on both legs.
	got := utils.YearFraction(date(2026, 1, 31), date(2026, 3, 31), "30E/360")
	if math.Abs(got-60.0/360.0) > 1e-12 {
		t.Fatalf("got %.10f want %.10f", got, 60.0/360.0)
	}
}

func TestAddMonth(t *testing.T) {
	t.Parallel()

	// Plain month step keeps the day of month.
	if got := utils.AddMonth(date(2026, 1, 5), 3); !got.Equal(date(2026, 4, 5)) {
		t.Fatalf("plain step: got %s", got.Format("2006-01-02"))
	}
	// Jan 31 + 1M clamps to the end of February, not March 3.
	if got := utils.AddMonth(date(2026, 1, 31), 1); !got.Equal(date(2026, 2, 28)) {
		t.Fatalf("clamped step: got %s want 2026-02-28", got.Format("2006-01-02"))
	}
	// Leap year end of February.
	if got := utils.AddMonth(date(2028, 1, 31), 1); !got.Equal(date(2028, 2, 29)) {
		t.Fatalf("leap clamp: got %s want 2028-02-29", got.Format("2006-01-02"))
	}
	// Negative steps work the same way.
	if got := utils.AddMonth(date(2026, 3, 31), -1); !got.Equal(date(2026, 2, 28)) {
		t.Fatalf("negative step: got %s want 2026-02-28", got.Format("2006-01-02"))
	}
}

func TestSortDatesAndAdjacent(t *testing.T) {
	t.Parallel()

	d1 := date(2026, 1, 5)
	d2 := date(2026, 7, 6)
	d3 := date(2027, 1, 5)
	dates := []time.Time{d3, d1, d2}
	utils.SortDates(dates)
	if !dates[0].Equal(d1) || !dates[2].Equal(d3) {
		t.Fatalf("sort order wrong: %v", dates)
	}

	lo, hi := utils.AdjacentDates(date(2026, 10, 1), dates)
	if !lo.Equal(d2) || !hi.Equal(d3) {
		t.Fatalf("bracket: got %s..%s", lo.Format("2006-01-02"), hi.Format("2006-01-02"))
	}
	// Outside the range clamps to the nearest boundary pair.
	lo, hi = utils.AdjacentDates(date(2025, 1, 1), dates)
	if !lo.Equal(d1) || !hi.Equal(d2) {
		t.Fatalf("left clamp: got %s..%s", lo.Format("2006-01-02"), hi.Format("2006-01-02"))
	}
	lo, hi = utils.AdjacentDates(date(2030, 1, 1), dates)
	if !lo.Equal(d2) || !hi.Equal(d3) {
		t.Fatalf("right clamp: got %s..%s", lo.Format("2006-01-02"), hi.Format("2006-01-02"))
	}
}

func TestDaysAndRoundTo(t *testing.T) {
	t.Parallel()

	if got := utils.Days(date(2026, 1, 5), date(2026, 1, 12)); got != 7 {
		t.Fatalf("Days: got %.1f want 7", got)
	}
	if got := utils.RoundTo(0.0234567, 4); math.Abs(got-0.0235) > 1e-15 {
		t.Fatalf("RoundTo: got %.10f want 0.0235", got)
	}
}
