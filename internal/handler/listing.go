package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"travel/internal/domain"
	"travel/internal/repository"
	"travel/internal/service"
)

// ListingHandler handles HTTP requests for listings.
type ListingHandler struct {
	listingService *service.ListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listingService *service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateListingRequest is the HTTP request body for creating a listing.
type CreateListingRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	Location      string          `json:"location"`
}

// ListingResponse is the HTTP representation of a listing.
type ListingResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PricePerNight string    `json:"price_per_night"`
	Location      string    `json:"location"`
	CreatedAt     time.Time `json:"created_at"`
}

func newListingResponse(listing *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:            listing.ID,
		Title:         listing.Title,
		Description:   listing.Description,
		PricePerNight: listing.PricePerNight.StringFixed(2),
		Location:      listing.Location,
		CreatedAt:     listing.CreatedAt,
	}
}

// CreateListing handles POST /listings/
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), service.CreateListingRequest{
		Title:         req.Title,
		Description:   req.Description,
		PricePerNight: req.PricePerNight,
		Location:      req.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newListingResponse(listing))
}

// GetListing handles GET /listings/:id/
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	listing, err := h.listingService.GetListing(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newListingResponse(listing))
}

// ListListings handles GET /listings/
func (h *ListingHandler) ListListings(c *gin.Context) {
	listings, err := h.listingService.ListListings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]ListingResponse, 0, len(listings))
	for _, listing := range listings {
		resp = append(resp, newListingResponse(listing))
	}
	respondJSON(c, http.StatusOK, resp)
}

// parseIDParam reads the :id path parameter. A malformed id is answered as not found.
func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, repository.ErrNotFound)
		return 0, false
	}
	return id, true
}
