package session

import (
	"time"

	"github.com/shopspring/decimal"
)

// BilledHours returns the elapsed duration between entry and exit rounded up
// to the next whole hour: a one minute stay bills a full hour, and a
// zero-duration stay bills the one hour minimum. Callers must reject
// exit < entry before billing; this function never returns less than 1.
//
// This is the single billing rule for the whole system; completion and live
// cost estimates both go through it.
func BilledHours(entry, exit time.Time) int64 {
	elapsed := exit.Sub(entry)
	if elapsed <= 0 {
		return 1
	}

	hours := elapsed / time.Hour
	if elapsed%time.Hour > 0 {
		hours++
	}
	return int64(hours)
}

// Cost multiplies the billed hours by the hourly rate snapshot.
func Cost(rate decimal.Decimal, billedHours int64) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(billedHours))
}
