package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"travel/internal/domain"
	"travel/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
// Status is not accepted; new bookings always start pending.
type CreateBookingRequest struct {
	ListingID int64  `json:"listing_id"`
	User      string `json:"user"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID        int64            `json:"id"`
	ListingID int64            `json:"listing_id"`
	Listing   *ListingResponse `json:"listing,omitempty"`
	User      string           `json:"user"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

func newBookingResponse(booking *domain.Booking) BookingResponse {
	resp := BookingResponse{
		ID:        booking.ID,
		ListingID: booking.ListingID,
		User:      booking.User,
		StartDate: booking.StartDate.Format(domain.DateLayout),
		EndDate:   booking.EndDate.Format(domain.DateLayout),
		Status:    string(booking.Status),
		CreatedAt: booking.CreatedAt,
	}
	if booking.Listing != nil {
		listing := newListingResponse(booking.Listing)
		resp.Listing = &listing
	}
	return resp
}

// CreateBooking handles POST /bookings/
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "start_date must be formatted YYYY-MM-DD"})
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "end_date must be formatted YYYY-MM-DD"})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		ListingID: req.ListingID,
		User:      req.User,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, newBookingResponse(booking))
}

// GetBooking handles GET /bookings/:id/
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newBookingResponse(booking))
}

// ListBookings handles GET /bookings/
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		resp = append(resp, newBookingResponse(booking))
	}
	respondJSON(c, http.StatusOK, resp)
}

// parseDate parses a YYYY-MM-DD date. An empty value yields the zero time so
// the service can report the missing field.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(domain.DateLayout, value)
}
