package tests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"travel/internal/domain"
	"travel/internal/gateway/chapa"
	"travel/internal/repository"
	"travel/internal/service"
)

// ──────────────────────────────────────────────
// 1. PAYMENT INITIALIZATION
// ──────────────────────────────────────────────

func TestInitializePayment_ValidBooking_CreatesPendingPayment(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	payment, err := f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
		BookingID: f.booking.ID,
		Email:     "guest@example.com",
		FirstName: "Abebe",
		LastName:  "Kebede",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if got := payment.Amount.StringFixed(2); got != "300.00" {
		t.Errorf("expected amount 300.00, got %s", got)
	}
	if payment.Status != domain.PaymentStatusPending {
		t.Errorf("expected status pending, got %s", payment.Status)
	}
	if payment.Currency != "ETB" {
		t.Errorf("expected currency ETB, got %s", payment.Currency)
	}
	if payment.CheckoutURL == "" {
		t.Error("expected checkout URL to be set")
	}
	if want := fmt.Sprintf("booking-%d-", f.booking.ID); !strings.HasPrefix(payment.TxRef, want) {
		t.Errorf("expected tx_ref prefix %s, got %s", want, payment.TxRef)
	}
	if payment.CustomerName != "Abebe Kebede" {
		t.Errorf("expected customer name Abebe Kebede, got %q", payment.CustomerName)
	}

	stored := f.payments.Stored(payment.TxRef)
	if stored == nil {
		t.Fatal("expected payment to be persisted")
	}
	if len(stored.RawInitializeResponse) == 0 {
		t.Error("expected raw initialize response to be stored")
	}

	if f.bookings.StatusOf(f.booking.ID) != domain.BookingStatusPending {
		t.Errorf("expected booking to stay pending, got %s", f.bookings.StatusOf(f.booking.ID))
	}

	req := f.gateway.LastInitializeRequest()
	if req.Amount != "300.00" {
		t.Errorf("expected gateway amount 300.00, got %s", req.Amount)
	}
	if req.TxRef != payment.TxRef {
		t.Errorf("expected gateway tx_ref %s, got %s", payment.TxRef, req.TxRef)
	}
	if req.CallbackURL == "" || req.ReturnURL == "" {
		t.Error("expected callback and return URLs to be forwarded")
	}
}

func TestInitializePayment_GatewayFailure_NoPaymentRow(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  error
	}{
		{
			name: "gateway unreachable",
			err:  fmt.Errorf("%w: dial tcp: connection refused", chapa.ErrGatewayUnreachable),
		},
		{
			name: "gateway answered 500",
			err:  &chapa.RejectedError{Op: "initialize", StatusCode: 500, Body: []byte(`{"message":"boom"}`), Reason: "unexpected http status"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newPaymentFixture(t)
			f.gateway.InitializeError = tc.err

			_, err := f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
				BookingID: f.booking.ID,
				Email:     "guest@example.com",
			})
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected gateway error to be wrapped, got: %v", err)
			}

			if n := f.payments.CountPayments(); n != 0 {
				t.Errorf("expected no payment rows, got %d", n)
			}
			if f.transactor.CallCount != 0 {
				t.Error("expected no database transaction")
			}
		})
	}
}

func TestInitializePayment_AlreadyPaid_ReturnsDuplicate(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	f.seedPayment("booking-1-paid", domain.PaymentStatusSuccess, "")

	_, err := f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
		BookingID: f.booking.ID,
		Email:     "guest@example.com",
	})

	var duplicate *service.DuplicatePaymentError
	if !errors.As(err, &duplicate) {
		t.Fatalf("expected DuplicatePaymentError, got: %v", err)
	}
	if duplicate.TxRef != "booking-1-paid" {
		t.Errorf("expected existing tx_ref booking-1-paid, got %s", duplicate.TxRef)
	}
	if !errors.Is(err, service.ErrDuplicatePayment) {
		t.Error("expected error to match ErrDuplicatePayment")
	}
	if f.gateway.InitializeCallCount != 0 {
		t.Errorf("expected gateway not to be called, got %d calls", f.gateway.InitializeCallCount)
	}
}

func TestInitializePayment_PreviousAttemptsDoNotBlock(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	f.seedPayment("booking-1-old-pending", domain.PaymentStatusPending, "")
	f.seedPayment("booking-1-old-failed", domain.PaymentStatusFailed, "")

	_, err := f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
		BookingID: f.booking.ID,
		Email:     "guest@example.com",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if n := f.payments.CountPayments(); n != 3 {
		t.Errorf("expected 3 payment rows, got %d", n)
	}
}

func TestInitializePayment_UnknownBooking_NotFound(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	_, err := f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
		BookingID: 999,
		Email:     "guest@example.com",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}

	if n := f.payments.CountPayments(); n != 0 {
		t.Errorf("expected no payment rows, got %d", n)
	}
	if f.gateway.InitializeCallCount != 0 {
		t.Error("expected gateway not to be called")
	}
}

func TestInitializePayment_MissingInput_Rejected(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     service.InitializePaymentRequest
		wantErr error
	}{
		{
			name:    "missing booking id",
			req:     service.InitializePaymentRequest{Email: "guest@example.com"},
			wantErr: service.ErrInvalidBookingID,
		},
		{
			name:    "missing email without identity",
			req:     service.InitializePaymentRequest{BookingID: 1},
			wantErr: service.ErrEmailRequired,
		},
		{
			name:    "blank email without identity",
			req:     service.InitializePaymentRequest{BookingID: 1, Email: "   "},
			wantErr: service.ErrEmailRequired,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newPaymentFixture(t)

			_, err := f.service.InitializePayment(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got: %v", tc.wantErr, err)
			}
			if f.gateway.InitializeCallCount != 0 {
				t.Error("expected gateway not to be called")
			}
		})
	}
}

func TestInitializePayment_FallsBackToIdentityEmailAndDefaultNames(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	payment, err := f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
		BookingID:     f.booking.ID,
		IdentityEmail: "token-user@example.com",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	req := f.gateway.LastInitializeRequest()
	if req.Email != "token-user@example.com" {
		t.Errorf("expected identity email, got %q", req.Email)
	}
	if req.FirstName != "Customer" || req.LastName != "Booking" {
		t.Errorf("expected default names Customer Booking, got %q %q", req.FirstName, req.LastName)
	}
	if payment.CustomerEmail != "token-user@example.com" {
		t.Errorf("expected stored email token-user@example.com, got %q", payment.CustomerEmail)
	}
}

func TestInitializePayment_TxRefsAreUnique(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		payment, err := f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
			BookingID: f.booking.ID,
			Email:     "guest@example.com",
		})
		if err != nil {
			t.Fatalf("attempt %d: expected no error, got: %v", i, err)
		}
		if seen[payment.TxRef] {
			t.Fatalf("tx_ref %s generated twice", payment.TxRef)
		}
		seen[payment.TxRef] = true
	}
}

// ──────────────────────────────────────────────
// 2. BOOKING LOCK
// ──────────────────────────────────────────────

func TestInitializePayment_ReleasesLock(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	_, err := f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
		BookingID: f.booking.ID,
		Email:     "guest@example.com",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if f.locks.AcquireCallCount != 1 || f.locks.ReleaseCallCount != 1 {
		t.Errorf("expected one acquire and one release, got %d/%d", f.locks.AcquireCallCount, f.locks.ReleaseCallCount)
	}
	if f.locks.IsLocked(f.booking.ID) {
		t.Error("expected lock to be released")
	}
}

func TestInitializePayment_ReleasesLockOnGatewayFailure(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	f.gateway.InitializeError = chapa.ErrGatewayUnreachable

	_, _ = f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
		BookingID: f.booking.ID,
		Email:     "guest@example.com",
	})

	if f.locks.IsLocked(f.booking.ID) {
		t.Error("expected lock to be released after failure")
	}
}

func TestInitializePayment_ConcurrentAttempt_InProgress(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)

	entered := make(chan struct{})
	proceed := make(chan struct{})
	var once sync.Once
	f.gateway.OnInitialize = func() {
		once.Do(func() {
			close(entered)
			<-proceed
		})
	}

	firstErr := make(chan error, 1)
	go func() {
		_, err := f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
			BookingID: f.booking.ID,
			Email:     "guest@example.com",
		})
		firstErr <- err
	}()

	<-entered

	_, err := f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
		BookingID: f.booking.ID,
		Email:     "guest@example.com",
	})
	if !errors.Is(err, service.ErrPaymentInProgress) {
		t.Errorf("expected ErrPaymentInProgress, got: %v", err)
	}

	close(proceed)
	if err := <-firstErr; err != nil {
		t.Fatalf("expected first attempt to succeed, got: %v", err)
	}

	if n := f.payments.CountPayments(); n != 1 {
		t.Errorf("expected exactly 1 payment row, got %d", n)
	}
}

func TestInitializePayment_LockStoreDown_ContinuesWithoutLock(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	f.locks.AcquireError = ErrMockRedisDown

	payment, err := f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
		BookingID: f.booking.ID,
		Email:     "guest@example.com",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if payment == nil {
		t.Fatal("expected payment")
	}
	if f.locks.ReleaseCallCount != 0 {
		t.Error("expected no release for a lock that was never taken")
	}
}

func TestInitializePayment_WithoutLocker_Succeeds(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	svc := service.NewPaymentService(f.bookings, f.payments, f.transactor, f.gateway, nil, nil, service.PaymentConfig{})

	payment, err := svc.InitializePayment(context.Background(), service.InitializePaymentRequest{
		BookingID: f.booking.ID,
		Email:     "guest@example.com",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if payment.Currency != domain.DefaultCurrency {
		t.Errorf("expected default currency %s, got %s", domain.DefaultCurrency, payment.Currency)
	}
}

func TestInitializePayment_PersistFailure_ReturnsError(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture(t)
	f.payments.CreateError = ErrMockDBTimeout

	_, err := f.service.InitializePayment(context.Background(), service.InitializePaymentRequest{
		BookingID: f.booking.ID,
		Email:     "guest@example.com",
	})
	if !errors.Is(err, ErrMockDBTimeout) {
		t.Fatalf("expected database error, got: %v", err)
	}
}
