package service

import (
	"context"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"travel/internal/domain"
	"travel/internal/repository"
)

// ListingCache caches listings by ID.
type ListingCache interface {
	GetListing(ctx context.Context, id int64) (*domain.Listing, error)
	SetListing(ctx context.Context, listing *domain.Listing) error
}

// ListingService handles listing operations.
type ListingService struct {
	listingRepo repository.ListingRepository
	cache       ListingCache
}

// NewListingService creates a new ListingService. cache may be nil.
func NewListingService(listingRepo repository.ListingRepository, cache ListingCache) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		cache:       cache,
	}
}

// CreateListingRequest contains the parameters for creating a listing.
type CreateListingRequest struct {
	Title         string
	Description   string
	PricePerNight decimal.Decimal
	Location      string
}

// CreateListing validates and persists a new listing.
func (s *ListingService) CreateListing(ctx context.Context, req CreateListingRequest) (*domain.Listing, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrInvalidTitle
	}

	if strings.TrimSpace(req.Location) == "" {
		return nil, ErrInvalidLocation
	}

	if !req.PricePerNight.IsPositive() {
		return nil, ErrInvalidPrice
	}

	listing := &domain.Listing{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		PricePerNight: req.PricePerNight.Round(2),
		Location:      strings.TrimSpace(req.Location),
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// GetListing retrieves a listing, consulting the cache first.
func (s *ListingService) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	if id <= 0 {
		return nil, ErrInvalidListingID
	}

	if s.cache != nil {
		cached, err := s.cache.GetListing(ctx, id)
		if err != nil {
			log.Printf("[LISTING] cache read failed for listing %d: %v", id, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetListing(ctx, listing); err != nil {
			log.Printf("[LISTING] cache write failed for listing %d: %v", id, err)
		}
	}

	return listing, nil
}

// ListListings returns all listings, newest first.
func (s *ListingService) ListListings(ctx context.Context) ([]*domain.Listing, error) {
	return s.listingRepo.GetAll(ctx)
}
