package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"travel/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// ListingCacheTTL bounds how stale a cached listing may be.
const ListingCacheTTL = 5 * time.Minute

const listingCachePrefix = "cache:listing:"

// cachedListing is the JSON form of a listing in the cache.
type cachedListing struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PricePerNight string    `json:"price_per_night"`
	Location      string    `json:"location"`
	CreatedAt     time.Time `json:"created_at"`
}

func listingKey(id int64) string {
	return listingCachePrefix + strconv.FormatInt(id, 10)
}

// GetListing retrieves a listing from cache. Returns nil on a cache miss.
func (s *CacheStore) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	data, err := s.client.Get(ctx, listingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached cachedListing
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(cached.PricePerNight)
	if err != nil {
		return nil, err
	}

	return &domain.Listing{
		ID:            cached.ID,
		Title:         cached.Title,
		Description:   cached.Description,
		PricePerNight: price,
		Location:      cached.Location,
		CreatedAt:     cached.CreatedAt,
	}, nil
}

// SetListing stores a listing in cache.
func (s *CacheStore) SetListing(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(cachedListing{
		ID:            listing.ID,
		Title:         listing.Title,
		Description:   listing.Description,
		PricePerNight: listing.PricePerNight.StringFixed(2),
		Location:      listing.Location,
		CreatedAt:     listing.CreatedAt,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, listingKey(listing.ID), data, ListingCacheTTL).Err()
}
