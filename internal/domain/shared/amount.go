package shared

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money columns are NUMERIC(20, 4): four fractional digits and sixteen integer digits.
const AmountScale = 4

// MaxAmount is the exclusive upper bound a money column can hold
var MaxAmount = decimal.New(1, 16)

// ValidateAmount checks that a money value fits the storage column
// without rounding
func ValidateAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return InvalidArgument(field, "must not be negative")
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return InvalidArgument(field, "must have at most 4 decimal places")
	}
	if amount.GreaterThanOrEqual(MaxAmount) {
		return InvalidArgument(field, "must be less than 10^16")
	}
	return nil
}

// Now is the current UTC time at the microsecond precision Postgres stores,
// so a freshly built record equals what a later read returns.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
