package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing represents a property that can be booked.
type Listing struct {
	ID            int64
	Title         string
	Description   string
	PricePerNight decimal.Decimal
	Location      string
	CreatedAt     time.Time
}
