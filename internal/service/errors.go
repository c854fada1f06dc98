package service

import (
	"errors"
	"fmt"

	"travel/internal/domain"
)

var (
	// ErrInvalidListingID is returned when listing ID is missing.
	ErrInvalidListingID = errors.New("listing_id is required")

	// ErrInvalidTitle is returned when a listing has no title.
	ErrInvalidTitle = errors.New("title is required")

	// ErrInvalidLocation is returned when a listing has no location.
	ErrInvalidLocation = errors.New("location is required")

	// ErrInvalidPrice is returned when price per night is not positive.
	ErrInvalidPrice = errors.New("price_per_night must be a positive amount")

	// ErrInvalidUser is returned when no user identifier is given.
	ErrInvalidUser = errors.New("user is required")

	// ErrInvalidDates is returned when booking dates are missing.
	ErrInvalidDates = errors.New("start_date and end_date are required")

	// ErrInvalidRating is returned when a rating is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidBookingID is returned when booking ID is missing.
	ErrInvalidBookingID = errors.New("booking_id is required")

	// ErrEmailRequired is returned when no customer email can be resolved.
	ErrEmailRequired = errors.New("email is required")

	// ErrInvalidTxRef is returned when tx_ref is empty.
	ErrInvalidTxRef = errors.New("tx_ref is required")

	// ErrListingNotResolved is returned when an amount is requested for a booking without its listing.
	ErrListingNotResolved = errors.New("booking listing not resolved")

	// ErrDuplicatePayment is returned when a booking has already been paid.
	ErrDuplicatePayment = errors.New("booking already has a successful payment")

	// ErrPaymentInProgress is returned when another initialization for the booking is running.
	ErrPaymentInProgress = errors.New("payment initialization already in progress for this booking")

	// ErrVerificationFailed is returned when the gateway reports an unsuccessful transaction.
	ErrVerificationFailed = errors.New("payment verification failed")
)

// DuplicatePaymentError carries the tx_ref of the payment that already succeeded.
type DuplicatePaymentError struct {
	TxRef string
}

func (e *DuplicatePaymentError) Error() string {
	return fmt.Sprintf("%s (tx_ref %s)", ErrDuplicatePayment, e.TxRef)
}

func (e *DuplicatePaymentError) Unwrap() error { return ErrDuplicatePayment }

// VerificationFailedError carries the gateway's transaction status.
type VerificationFailedError struct {
	GatewayStatus string
	Payment       *domain.Payment
}

func (e *VerificationFailedError) Error() string {
	return fmt.Sprintf("%s (gateway status %q)", ErrVerificationFailed, e.GatewayStatus)
}

func (e *VerificationFailedError) Unwrap() error { return ErrVerificationFailed }
