package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"travel/internal/domain"
	"travel/internal/gateway/chapa"
	"travel/internal/middleware"
	"travel/internal/service"
)

const (
	msgGatewayUnreachable = "Payment gateway is unreachable, please try again later."
	msgInitializeFailed   = "Failed to initialize payment with Chapa."
	msgVerifyFailed       = "Failed to verify payment with Chapa."
)

// PaymentWorkflow is the payment use case consumed by PaymentHandler.
type PaymentWorkflow interface {
	InitializePayment(ctx context.Context, req service.InitializePaymentRequest) (*domain.Payment, error)
	VerifyPayment(ctx context.Context, txRef string) (*domain.Payment, error)
}

// PaymentHandler handles HTTP requests for Chapa payments.
type PaymentHandler struct {
	payments PaymentWorkflow
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments PaymentWorkflow) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// InitializePaymentRequest is the HTTP request body for starting a payment.
type InitializePaymentRequest struct {
	BookingID int64  `json:"booking_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// InitializePaymentResponse is returned once the gateway accepted the transaction.
type InitializePaymentResponse struct {
	Message     string `json:"message"`
	CheckoutURL string `json:"checkout_url"`
	TxRef       string `json:"tx_ref"`
	BookingID   int64  `json:"booking_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
}

// DuplicatePaymentResponse points the client at the payment that already succeeded.
type DuplicatePaymentResponse struct {
	Error string `json:"error"`
	TxRef string `json:"tx_ref"`
}

// VerifyPaymentResponse reports a successful verification.
type VerifyPaymentResponse struct {
	Message        string `json:"message"`
	Status         string `json:"status"`
	BookingID      int64  `json:"booking_id"`
	Amount         string `json:"amount"`
	Currency       string `json:"currency"`
	ChapaReference string `json:"chapa_reference"`
}

// VerificationFailedResponse exposes the gateway's transaction status.
type VerificationFailedResponse struct {
	Message     string `json:"message"`
	Status      string `json:"status"`
	ChapaStatus string `json:"chapa_status"`
}

// InitializePayment handles POST /payments/chapa/init/
func (h *PaymentHandler) InitializePayment(c *gin.Context) {
	var req InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.payments.InitializePayment(c.Request.Context(), service.InitializePaymentRequest{
		BookingID:     req.BookingID,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		IdentityEmail: middleware.UserEmail(c),
	})
	if err != nil {
		h.respondInitializeError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, InitializePaymentResponse{
		Message:     "Payment initialized successfully.",
		CheckoutURL: payment.CheckoutURL,
		TxRef:       payment.TxRef,
		BookingID:   payment.BookingID,
		Amount:      payment.Amount.StringFixed(2),
		Currency:    payment.Currency,
		Status:      string(payment.Status),
	})
}

func (h *PaymentHandler) respondInitializeError(c *gin.Context, err error) {
	var duplicate *service.DuplicatePaymentError
	var rejected *chapa.RejectedError

	switch {
	case errors.As(err, &duplicate):
		c.JSON(http.StatusBadRequest, DuplicatePaymentResponse{
			Error: service.ErrDuplicatePayment.Error(),
			TxRef: duplicate.TxRef,
		})
	case errors.Is(err, chapa.ErrGatewayUnreachable):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: msgGatewayUnreachable})
	case errors.As(err, &rejected):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: msgInitializeFailed})
	default:
		respondError(c, err)
	}
}

// VerifyPayment handles GET /payments/chapa/verify/:tx_ref/
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	txRef := c.Param("tx_ref")

	payment, err := h.payments.VerifyPayment(c.Request.Context(), txRef)
	if err != nil {
		h.respondVerifyError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, VerifyPaymentResponse{
		Message:        "Payment verified successfully.",
		Status:         string(payment.Status),
		BookingID:      payment.BookingID,
		Amount:         payment.Amount.StringFixed(2),
		Currency:       payment.Currency,
		ChapaReference: payment.ChapaReference,
	})
}

func (h *PaymentHandler) respondVerifyError(c *gin.Context, err error) {
	var failed *service.VerificationFailedError
	var rejected *chapa.RejectedError

	switch {
	case errors.As(err, &failed):
		log.Printf("[PAYMENT] verification failed: %v", err)
		c.JSON(http.StatusBadRequest, VerificationFailedResponse{
			Message:     "Payment verification failed.",
			Status:      string(domain.PaymentStatusFailed),
			ChapaStatus: failed.GatewayStatus,
		})
	case errors.Is(err, chapa.ErrGatewayUnreachable),
		errors.As(err, &rejected):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: msgVerifyFailed})
	default:
		respondError(c, err)
	}
}
