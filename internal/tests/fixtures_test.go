package tests

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"travel/internal/domain"
	"travel/internal/service"
)

// paymentFixture wires a PaymentService over in-memory mocks with one
// listing at 150.00 per night and a two night booking.
type paymentFixture struct {
	listings   *MockListingRepository
	bookings   *MockBookingRepository
	payments   *MockPaymentRepository
	transactor *MockTransactor
	gateway    *MockGateway
	locks      *MockLockStore
	notifier   *MockNotifier
	service    *service.PaymentService
	listing    *domain.Listing
	booking    *domain.Booking
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	f := &paymentFixture{
		listings: NewMockListingRepository(),
		payments: NewMockPaymentRepository(),
		gateway:  NewMockGateway(),
		locks:    NewMockLockStore(),
		notifier: NewMockNotifier(),
	}
	f.bookings = NewMockBookingRepository(f.listings)
	f.transactor = NewMockTransactor(f.payments, f.bookings)

	f.listing = f.listings.AddListing(&domain.Listing{
		Title:         "Lakeside cabin",
		PricePerNight: decimal.RequireFromString("150.00"),
		Location:      "Bishoftu",
	})
	f.booking = f.bookings.AddBooking(&domain.Booking{
		ListingID: f.listing.ID,
		User:      "guest-1",
		StartDate: date(t, "2024-06-01"),
		EndDate:   date(t, "2024-06-03"),
	})

	f.service = service.NewPaymentService(
		f.bookings,
		f.payments,
		f.transactor,
		f.gateway,
		f.locks,
		f.notifier,
		service.PaymentConfig{
			Currency:    "ETB",
			CallbackURL: "https://api.example.com/payments/chapa/callback/",
			ReturnURL:   "https://example.com/bookings/thanks",
		},
	)

	return f
}

// seedPayment stores a payment for the fixture booking.
func (f *paymentFixture) seedPayment(txRef string, status domain.PaymentStatus, rawVerify string) *domain.Payment {
	payment := &domain.Payment{
		BookingID:     f.booking.ID,
		TxRef:         txRef,
		Amount:        decimal.RequireFromString("300.00"),
		Currency:      "ETB",
		CustomerEmail: "guest@example.com",
		CustomerName:  "Abebe Kebede",
		Status:        status,
	}
	if rawVerify != "" {
		payment.RawVerifyResponse = []byte(rawVerify)
	}
	f.payments.AddPayment(payment)
	return payment
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		t.Fatalf("bad date %q: %v", value, err)
	}
	return d
}
