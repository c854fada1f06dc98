package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// DateLayout is the wire and storage format for booking dates.
const DateLayout = "2006-01-02"

// Booking represents a stay at a listing.
type Booking struct {
	ID        int64
	ListingID int64
	User      string
	StartDate time.Time
	EndDate   time.Time
	Status    BookingStatus
	CreatedAt time.Time

	// Listing is resolved by the repository when loading a single booking.
	Listing *Listing
}

// Nights returns the number of nights between start and end date.
// A stay whose end is not after its start has zero nights.
func (b *Booking) Nights() int {
	start := truncateToDay(b.StartDate)
	end := truncateToDay(b.EndDate)

	nights := int(end.Sub(start).Hours() / 24)
	if nights < 0 {
		return 0
	}
	return nights
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
