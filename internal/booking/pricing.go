package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// TotalPrice computes nights × nightly with fixed-point arithmetic, rounded to
// two decimal places. Currency never passes through floating point.
func TotalPrice(nightly decimal.Decimal, nights int) decimal.Decimal {
	return nightly.Mul(decimal.NewFromInt(int64(nights))).Round(2)
}

// StayPrice is the total for the half-open interval [checkIn, checkOut) at the
// given nightly rate.
func StayPrice(nightly decimal.Decimal, checkIn, checkOut time.Time) decimal.Decimal {
	return TotalPrice(nightly, Nights(checkIn, checkOut))
}
