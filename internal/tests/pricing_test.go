package tests

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"travel/internal/domain"
	"travel/internal/service"
)

// ──────────────────────────────────────────────
// AMOUNT CALCULATION
// ──────────────────────────────────────────────

func TestCalculateAmount(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		price string
		start string
		end   string
		want  string
	}{
		{name: "two nights", price: "150.00", start: "2024-06-01", end: "2024-06-03", want: "300.00"},
		{name: "same day charged one night", price: "150.00", start: "2024-06-01", end: "2024-06-01", want: "150.00"},
		{name: "reversed dates charged one night", price: "80.50", start: "2024-06-05", end: "2024-06-01", want: "80.50"},
		{name: "week across month end", price: "99.99", start: "2024-01-29", end: "2024-02-05", want: "699.93"},
		{name: "rounds half up", price: "33.335", start: "2024-06-01", end: "2024-06-02", want: "33.34"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			booking := &domain.Booking{
				StartDate: date(t, tc.start),
				EndDate:   date(t, tc.end),
				Listing:   &domain.Listing{PricePerNight: decimal.RequireFromString(tc.price)},
			}

			amount, err := service.CalculateAmount(booking)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}

			if got := amount.StringFixed(2); got != tc.want {
				t.Errorf("expected amount %s, got %s", tc.want, got)
			}
		})
	}
}

func TestCalculateAmount_WithoutListing_Fails(t *testing.T) {
	t.Parallel()

	booking := &domain.Booking{
		StartDate: date(t, "2024-06-01"),
		EndDate:   date(t, "2024-06-03"),
	}

	_, err := service.CalculateAmount(booking)
	if !errors.Is(err, service.ErrListingNotResolved) {
		t.Fatalf("expected ErrListingNotResolved, got: %v", err)
	}
}

func TestBookingNights_NeverNegative(t *testing.T) {
	t.Parallel()

	booking := &domain.Booking{
		StartDate: date(t, "2024-06-10"),
		EndDate:   date(t, "2024-06-01"),
	}

	if n := booking.Nights(); n != 0 {
		t.Errorf("expected 0 nights, got %d", n)
	}
}
