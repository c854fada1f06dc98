package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateTxRef is returned when a payment with the same tx_ref already exists.
	ErrDuplicateTxRef = errors.New("duplicate transaction reference")

	// ErrBookingAlreadyPaid is returned when a second payment of a booking would be marked successful.
	ErrBookingAlreadyPaid = errors.New("booking already has a successful payment")

	// ErrListingMissing is returned when a booking or review references an unknown listing.
	ErrListingMissing = errors.New("referenced listing does not exist")
)
