package marketdata_test

import (
	"testing"
	"time"

	"github.com/meenmo/curvecal/calendar"
	"github.com/meenmo/curvecal/marketdata"
)

func TestTenorToMonths(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tenor string
		want  int
	}{
		{"3M", 3},
		{"6m", 6},
		{"1Y", 12},
		{"10y", 120},
	}
	for _, tc := range cases {
		got, err := marketdata.TenorToMonths(tc.tenor)
		if err != nil {
			t.Fatalf("%s: %v", tc.tenor, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.tenor, got, tc.want)
		}
	}

	for _, bad := range []string{"", "M", "3W", "xY", "5"} {
		if _, err := marketdata.TenorToMonths(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestMaturityDate(t *testing.T) {
	t.Parallel()

	spot := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	// 3M lands on a Sunday and adjusts to Monday.
	got, err := marketdata.MaturityDate(spot, "3M", calendar.NONE)
	if err != nil {
		t.Fatalf("MaturityDate error: %v", err)
	}
	want := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("3M maturity: got %s want %s", got.Format("2006-01-02"), want.Format("2006-01-02"))
	}

	if _, err := marketdata.MaturityDate(spot, "3W", calendar.NONE); err == nil {
		t.Fatal("expected error for unsupported tenor unit")
	}
}
