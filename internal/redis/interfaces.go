package redis

import (
	"context"
	"time"

	"travel/internal/domain"
)

// LockStoreInterface defines the interface for per-booking advisory locks.
type LockStoreInterface interface {
	AcquireBookingLock(ctx context.Context, bookingID int64, ttl time.Duration) (string, error)
	ReleaseBookingLock(ctx context.Context, bookingID int64, token string) error
}

// ListingCacheInterface defines the interface for listing caching.
type ListingCacheInterface interface {
	GetListing(ctx context.Context, id int64) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface    = (*LockStore)(nil)
	_ ListingCacheInterface = (*CacheStore)(nil)
)
