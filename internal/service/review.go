package service

import (
	"context"
	"strings"

	"travel/internal/domain"
	"travel/internal/repository"
)

// ReviewService handles review operations.
type ReviewService struct {
	reviewRepo repository.ReviewRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repository.ReviewRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo}
}

// CreateReviewRequest contains the parameters for creating a review.
type CreateReviewRequest struct {
	ListingID int64
	User      string
	Rating    int
	Comment   string
}

// CreateReview validates and persists a new review.
func (s *ReviewService) CreateReview(ctx context.Context, req CreateReviewRequest) (*domain.Review, error) {
	if req.ListingID <= 0 {
		return nil, ErrInvalidListingID
	}

	if strings.TrimSpace(req.User) == "" {
		return nil, ErrInvalidUser
	}

	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return nil, ErrInvalidRating
	}

	review := &domain.Review{
		ListingID: req.ListingID,
		User:      strings.TrimSpace(req.User),
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// ListReviews returns all reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context) ([]*domain.Review, error) {
	return s.reviewRepo.GetAll(ctx)
}
