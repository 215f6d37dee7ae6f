package session

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBilledHoursRoundsUp(t *testing.T) {
	entry := time.Date(2025, 8, 31, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		exit time.Time
		want int64
	}{
		{"one second bills a full hour", entry.Add(time.Second), 1},
		{"one minute bills a full hour", entry.Add(time.Minute), 1},
		{"exactly one hour bills one hour", entry.Add(time.Hour), 1},
		{"one hour one second bills two hours", entry.Add(time.Hour + time.Second), 2},
		{"ninety minutes bills two hours", entry.Add(90 * time.Minute), 2},
		{"zero elapsed bills the minimum hour", entry, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BilledHours(entry, tc.exit); got != tc.want {
				t.Fatalf("BilledHours(%v) = %d, want %d", tc.exit.Sub(entry), got, tc.want)
			}
		})
	}
}

func TestCostMultipliesRateBySnapshotHours(t *testing.T) {
	rate := decimal.NewFromInt(2000)

	got := Cost(rate, 2)
	if !got.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("Cost(2000, 2) = %s, want 4000", got)
	}

	if !Cost(rate, 0).IsZero() {
		t.Fatalf("Cost(2000, 0) must be zero")
	}
}

func TestDefaultRateTableCoversEveryCategory(t *testing.T) {
	rates := DefaultRateTable()

	compact := rates.RateFor("COMPACT")
	if !compact.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("compact rate = %s, want 2000", compact)
	}
	motorcycle := rates.RateFor("MOTORCYCLE")
	if !motorcycle.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("motorcycle rate = %s, want 1000", motorcycle)
	}
	heavy := rates.RateFor("HEAVY")
	if !heavy.Equal(decimal.NewFromInt(3500)) {
		t.Fatalf("heavy rate = %s, want 3500", heavy)
	}

	// Unknown categories fall back to the compact tariff.
	if got := rates.RateFor("HOVERCRAFT"); !got.Equal(compact) {
		t.Fatalf("unknown category rate = %s, want compact fallback %s", got, compact)
	}
}
