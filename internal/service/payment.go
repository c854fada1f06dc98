package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"travel/internal/domain"
	"travel/internal/gateway/chapa"
	"travel/internal/repository"
)

const (
	defaultFirstName = "Customer"
	defaultLastName  = "Booking"

	// bookingLockTTL outlives a gateway call so the lock cannot expire mid-request.
	bookingLockTTL = 45 * time.Second
)

// Gateway is the hosted-checkout payment provider.
type Gateway interface {
	Initialize(ctx context.Context, req chapa.InitializeRequest) (*chapa.InitializeResponse, error)
	Verify(ctx context.Context, txRef string) (*chapa.VerifyResponse, error)
}

// BookingLocker serializes payment initialization per booking.
type BookingLocker interface {
	AcquireBookingLock(ctx context.Context, bookingID int64, ttl time.Duration) (string, error)
	ReleaseBookingLock(ctx context.Context, bookingID int64, token string) error
}

// PaymentNotifier is told about confirmed payments.
type PaymentNotifier interface {
	NotifyPaymentConfirmed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error
}

// PaymentConfig holds the checkout settings sent with every initialization.
type PaymentConfig struct {
	Currency    string
	CallbackURL string
	ReturnURL   string
}

// PaymentService runs the initialize and verify payment workflow.
type PaymentService struct {
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentRepository
	transactor  repository.Transactor
	gateway     Gateway
	locker      BookingLocker
	notifier    PaymentNotifier
	cfg         PaymentConfig
	newTxRef    func(bookingID int64) string
}

// NewPaymentService creates a new PaymentService. locker and notifier may be nil.
func NewPaymentService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	transactor repository.Transactor,
	gateway Gateway,
	locker BookingLocker,
	notifier PaymentNotifier,
	cfg PaymentConfig,
) *PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = domain.DefaultCurrency
	}

	return &PaymentService{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		transactor:  transactor,
		gateway:     gateway,
		locker:      locker,
		notifier:    notifier,
		cfg:         cfg,
		newTxRef:    GenerateTxRef,
	}
}

// GenerateTxRef returns a fresh transaction reference for a booking.
func GenerateTxRef(bookingID int64) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return fmt.Sprintf("booking-%d-%s", bookingID, suffix)
}

// InitializePaymentRequest contains the parameters for starting a payment.
type InitializePaymentRequest struct {
	BookingID int64
	Email     string
	FirstName string
	LastName  string

	// IdentityEmail is the authenticated caller's email, used when Email is empty.
	IdentityEmail string
}

// InitializePayment starts a hosted checkout for a booking. The payment row
// is only created once the gateway has accepted the transaction.
func (s *PaymentService) InitializePayment(ctx context.Context, req InitializePaymentRequest) (*domain.Payment, error) {
	if req.BookingID <= 0 {
		return nil, ErrInvalidBookingID
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = strings.TrimSpace(req.IdentityEmail)
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		firstName = defaultFirstName
	}
	lastName := strings.TrimSpace(req.LastName)
	if lastName == "" {
		lastName = defaultLastName
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if s.locker != nil {
		token, err := s.locker.AcquireBookingLock(ctx, booking.ID, bookingLockTTL)
		switch {
		case err != nil:
			log.Printf("[PAYMENT] booking %d: lock unavailable, continuing without it: %v", booking.ID, err)
		case token == "":
			return nil, ErrPaymentInProgress
		default:
			defer func() {
				if err := s.locker.ReleaseBookingLock(context.WithoutCancel(ctx), booking.ID, token); err != nil {
					log.Printf("[PAYMENT] booking %d: failed to release lock: %v", booking.ID, err)
				}
			}()
		}
	}

	existing, err := s.paymentRepo.GetSuccessfulByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicatePaymentError{TxRef: existing.TxRef}
	}

	amount, err := CalculateAmount(booking)
	if err != nil {
		return nil, err
	}

	txRef := s.newTxRef(booking.ID)

	resp, err := s.gateway.Initialize(ctx, chapa.InitializeRequest{
		Amount:      amount.StringFixed(2),
		Currency:    s.cfg.Currency,
		Email:       email,
		FirstName:   firstName,
		LastName:    lastName,
		TxRef:       txRef,
		CallbackURL: s.cfg.CallbackURL,
		ReturnURL:   s.cfg.ReturnURL,
		Customization: chapa.Customization{
			Title:       "Booking payment",
			Description: fmt.Sprintf("Payment for booking #%d", booking.ID),
		},
	})
	if err != nil {
		log.Printf("[PAYMENT] booking %d: initialize %s failed: %v", booking.ID, txRef, err)
		return nil, fmt.Errorf("initialize payment: %w", err)
	}

	payment := &domain.Payment{
		BookingID:             booking.ID,
		TxRef:                 txRef,
		ChapaReference:        resp.Data.Reference,
		Amount:                amount,
		Currency:              s.cfg.Currency,
		CustomerEmail:         email,
		CustomerName:          firstName + " " + lastName,
		Status:                domain.PaymentStatusPending,
		CheckoutURL:           resp.Data.CheckoutURL,
		RawInitializeResponse: resp.Raw,
	}

	err = s.transactor.WithinTx(ctx, func(payments repository.PaymentRepository, bookings repository.BookingRepository) error {
		if err := payments.Create(ctx, payment); err != nil {
			return err
		}
		return bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusPending)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PAYMENT] booking %d: initialized %s amount=%s %s", booking.ID, txRef, amount.StringFixed(2), payment.Currency)
	return payment, nil
}

// VerifyPayment asks the gateway for the outcome of a transaction and applies
// it. A payment that already succeeded is returned unchanged without calling
// the gateway; a failed payment stays failed.
func (s *PaymentService) VerifyPayment(ctx context.Context, txRef string) (*domain.Payment, error) {
	if strings.TrimSpace(txRef) == "" {
		return nil, ErrInvalidTxRef
	}

	payment, err := s.paymentRepo.GetByTxRef(ctx, txRef)
	if err != nil {
		return nil, err
	}

	switch payment.Status {
	case domain.PaymentStatusSuccess:
		return payment, nil
	case domain.PaymentStatusFailed:
		return nil, &VerificationFailedError{GatewayStatus: recordedGatewayStatus(payment), Payment: payment}
	}

	resp, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		s.recordRejectedVerify(ctx, payment, err)
		log.Printf("[PAYMENT] verify %s failed: %v", txRef, err)
		return nil, fmt.Errorf("verify payment: %w", err)
	}

	payment.RawVerifyResponse = resp.Raw

	if !resp.Succeeded() {
		payment.Status = domain.PaymentStatusFailed
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			return nil, err
		}

		log.Printf("[PAYMENT] verify %s: not successful (status=%q data.status=%q)", txRef, resp.Status, resp.TransactionStatus())
		return nil, &VerificationFailedError{GatewayStatus: resp.TransactionStatus(), Payment: payment}
	}

	payment.Status = domain.PaymentStatusSuccess
	if ref := resp.Data.Reference; ref != "" {
		payment.ChapaReference = ref
	}

	err = s.transactor.WithinTx(ctx, func(payments repository.PaymentRepository, bookings repository.BookingRepository) error {
		if err := payments.Update(ctx, payment); err != nil {
			return err
		}
		return bookings.UpdateStatus(ctx, payment.BookingID, domain.BookingStatusConfirmed)
	})
	if errors.Is(err, repository.ErrBookingAlreadyPaid) {
		s.recordDoublePayment(ctx, payment)
		return nil, fmt.Errorf("verify payment %s: %w", txRef, err)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("[PAYMENT] verify %s: success, booking %d confirmed", txRef, payment.BookingID)
	s.notifyConfirmed(ctx, payment)

	return payment, nil
}

// notifyConfirmed enqueues the confirmation message. Failures are logged only.
func (s *PaymentService) notifyConfirmed(ctx context.Context, payment *domain.Payment) {
	if s.notifier == nil {
		return
	}

	booking, err := s.bookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		log.Printf("[PAYMENT] booking %d: loading for notification failed: %v", payment.BookingID, err)
		booking = nil
	}

	if err := s.notifier.NotifyPaymentConfirmed(ctx, booking, payment); err != nil {
		log.Printf("[PAYMENT] booking %d: enqueue confirmation for %s failed: %v", payment.BookingID, payment.TxRef, err)
	}
}

// recordDoublePayment keeps the verify body of a payment whose booking was
// already paid by another transaction. The payment stays pending.
func (s *PaymentService) recordDoublePayment(ctx context.Context, payment *domain.Payment) {
	log.Printf("[PAYMENT] verify %s: booking %d already paid by another transaction", payment.TxRef, payment.BookingID)

	payment.Status = domain.PaymentStatusPending
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		log.Printf("[PAYMENT] verify %s: storing verify response failed: %v", payment.TxRef, err)
	}
}

// recordRejectedVerify keeps the body of a rejected verify call for audit.
func (s *PaymentService) recordRejectedVerify(ctx context.Context, payment *domain.Payment, err error) {
	var rejected *chapa.RejectedError
	if !errors.As(err, &rejected) || !json.Valid(rejected.Body) {
		return
	}

	payment.RawVerifyResponse = json.RawMessage(rejected.Body)
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		log.Printf("[PAYMENT] verify %s: storing rejected response failed: %v", payment.TxRef, err)
	}
}

// recordedGatewayStatus extracts the transaction status from the stored verify response.
func recordedGatewayStatus(payment *domain.Payment) string {
	if len(payment.RawVerifyResponse) == 0 {
		return ""
	}

	var resp chapa.VerifyResponse
	if err := json.Unmarshal(payment.RawVerifyResponse, &resp); err != nil {
		return ""
	}
	return resp.TransactionStatus()
}
