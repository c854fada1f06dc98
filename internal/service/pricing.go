package service

import (
	"github.com/shopspring/decimal"

	"travel/internal/domain"
)

// minimumNights is charged for stays of zero or negative length.
const minimumNights = 1

// CalculateAmount returns the charge for a booking: the listing's nightly
// price times the number of nights, with a one night minimum, rounded to
// two decimal places.
func CalculateAmount(booking *domain.Booking) (decimal.Decimal, error) {
	if booking == nil || booking.Listing == nil {
		return decimal.Zero, ErrListingNotResolved
	}

	nights := booking.Nights()
	if nights < minimumNights {
		nights = minimumNights
	}

	amount := booking.Listing.PricePerNight.Mul(decimal.NewFromInt(int64(nights)))
	return amount.Round(2), nil
}
