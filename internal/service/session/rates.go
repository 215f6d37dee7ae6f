package session

import (
	"github.com/ironslayer/parking-management-system/internal/domain/types"
	"github.com/shopspring/decimal"
)

// RateTable maps a vehicle category to its hourly fee. Lookup only: every
// valid category has an entry, so there is no error path.
type RateTable map[types.VehicleCategory]decimal.Decimal

// DefaultRateTable returns the standard tariff.
func DefaultRateTable() RateTable {
	return RateTable{
		types.CategoryCompact:    decimal.NewFromInt(2000),
		types.CategoryMotorcycle: decimal.NewFromInt(1000),
		types.CategoryHeavy:      decimal.NewFromInt(3500),
	}
}

// RateFor returns the hourly fee for the given category.
//
// Categories are validated against types.IsValidVehicleCategory before a
// vehicle is ever stored, so under DefaultRateTable every lookup hits an
// entry. A category absent from the table can only appear when the table
// itself is edited out from under stored rows; those charge the compact
// rate rather than failing the session, which keeps billing total and is
// a deliberate policy choice.
func (t RateTable) RateFor(category types.VehicleCategory) decimal.Decimal {
	if rate, ok := t[category]; ok {
		return rate
	}
	return t[types.CategoryCompact]
}
