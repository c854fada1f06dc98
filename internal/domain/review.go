package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review represents a guest review of a listing.
type Review struct {
	ID        int64
	ListingID int64
	User      string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
