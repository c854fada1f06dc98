package service

import (
	"context"
	"strings"
	"time"

	"travel/internal/domain"
	"travel/internal/repository"
)

// BookingService handles booking operations.
type BookingService struct {
	bookingRepo repository.BookingRepository
}

// NewBookingService creates a new BookingService.
func NewBookingService(bookingRepo repository.BookingRepository) *BookingService {
	return &BookingService{bookingRepo: bookingRepo}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	ListingID int64
	User      string
	StartDate time.Time
	EndDate   time.Time
}

// CreateBooking persists a new booking in pending status. Date ordering is
// not validated; a stay ending before it starts is charged as one night.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.ListingID <= 0 {
		return nil, ErrInvalidListingID
	}

	if strings.TrimSpace(req.User) == "" {
		return nil, ErrInvalidUser
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, ErrInvalidDates
	}

	booking := &domain.Booking{
		ListingID: req.ListingID,
		User:      strings.TrimSpace(req.User),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    domain.BookingStatusPending,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetBooking retrieves a booking with its listing.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	if id <= 0 {
		return nil, repository.ErrNotFound
	}
	return s.bookingRepo.GetByID(ctx, id)
}

// ListBookings returns all bookings, newest first.
func (s *BookingService) ListBookings(ctx context.Context) ([]*domain.Booking, error) {
	return s.bookingRepo.GetAll(ctx)
}
