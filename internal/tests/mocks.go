package tests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"travel/internal/domain"
	"travel/internal/gateway/chapa"
	"travel/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK LISTING REPOSITORY
// ──────────────────────────────────────────────

// MockListingRepository is a mock implementation of ListingRepository.
type MockListingRepository struct {
	mu       sync.RWMutex
	listings map[int64]*domain.Listing
	nextID   int64

	// Counters
	CreateCallCount  int32
	GetByIDCallCount int32

	// Error injection
	CreateError error
}

// NewMockListingRepository creates a new mock listing repository.
func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{
		listings: make(map[int64]*domain.Listing),
	}
}

// AddListing adds a listing to the mock repository and returns it with an ID.
func (m *MockListingRepository) AddListing(listing *domain.Listing) *domain.Listing {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	listing.ID = m.nextID
	listing.CreatedAt = time.Now()
	m.listings[listing.ID] = listing
	return listing
}

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddListing(listing)
	return nil
}

func (m *MockListingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	listing, ok := m.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *listing
	return &copy, nil
}

func (m *MockListingRepository) GetAll(ctx context.Context) ([]*domain.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	listings := make([]*domain.Listing, 0, len(m.listings))
	for _, l := range m.listings {
		copy := *l
		listings = append(listings, &copy)
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID > listings[j].ID })
	return listings, nil
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
// GetByID resolves the listing from the attached listing repository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[int64]*domain.Booking
	nextID   int64
	listings *MockListingRepository

	// Counters
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository(listings *MockListingRepository) *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[int64]*domain.Booking),
		listings: listings,
	}
}

// AddBooking adds a booking to the mock repository and returns it with an ID.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) *domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	booking.ID = m.nextID
	booking.CreatedAt = time.Now()
	if booking.Status == "" {
		booking.Status = domain.BookingStatusPending
	}
	m.bookings[booking.ID] = booking
	return booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	if m.listings != nil {
		if _, err := m.listings.GetByID(ctx, booking.ListingID); err != nil {
			return repository.ErrListingMissing
		}
	}
	m.AddBooking(booking)
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	m.mu.RLock()
	booking, ok := m.bookings[id]
	if !ok {
		m.mu.RUnlock()
		return nil, repository.ErrNotFound
	}
	copy := *booking
	m.mu.RUnlock()

	if m.listings != nil {
		listing, err := m.listings.GetByID(ctx, copy.ListingID)
		if err != nil {
			return nil, err
		}
		copy.Listing = listing
	}
	return &copy, nil
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bookings := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		copy := *b
		bookings = append(bookings, &copy)
	}
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID > bookings[j].ID })
	return bookings, nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	booking.Status = status
	return nil
}

// StatusOf returns the stored status of a booking (for test assertions).
func (m *MockBookingRepository) StatusOf(id int64) domain.BookingStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.bookings[id]; ok {
		return b.Status
	}
	return ""
}

// ──────────────────────────────────────────────
// MOCK REVIEW REPOSITORY
// ──────────────────────────────────────────────

// MockReviewRepository is a mock implementation of ReviewRepository.
type MockReviewRepository struct {
	mu      sync.Mutex
	reviews []*domain.Review

	CreateCallCount int32
}

// NewMockReviewRepository creates a new mock review repository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{}
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	review.ID = int64(len(m.reviews) + 1)
	review.CreatedAt = time.Now()
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *MockReviewRepository) GetAll(ctx context.Context) ([]*domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reviews := make([]*domain.Review, len(m.reviews))
	copy(reviews, m.reviews)
	return reviews, nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository keyed by tx_ref.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
	nextID   int64

	// Counters
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment stores a payment as-is (for test setup).
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	payment.ID = m.nextID
	copy := *payment
	m.payments[payment.TxRef] = &copy
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.payments[payment.TxRef]; exists {
		return repository.ErrDuplicateTxRef
	}
	m.nextID++
	payment.ID = m.nextID
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	copy := *payment
	m.payments[payment.TxRef] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[txRef]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetSuccessfulByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.BookingID == bookingID && p.Status == domain.PaymentStatusSuccess {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[payment.TxRef]; !ok {
		return repository.ErrNotFound
	}
	if payment.Status == domain.PaymentStatusSuccess {
		for txRef, p := range m.payments {
			if txRef != payment.TxRef && p.BookingID == payment.BookingID && p.Status == domain.PaymentStatusSuccess {
				return repository.ErrBookingAlreadyPaid
			}
		}
	}
	payment.UpdatedAt = time.Now()
	copy := *payment
	m.payments[payment.TxRef] = &copy
	return nil
}

// CountPayments returns the number of payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// Stored returns the stored payment for a tx_ref, or nil.
func (m *MockPaymentRepository) Stored(txRef string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[txRef]
	if !ok {
		return nil
	}
	copy := *p
	return &copy
}

// ──────────────────────────────────────────────
// MOCK TRANSACTOR
// ──────────────────────────────────────────────

// MockTransactor runs fn directly against the mock repositories.
type MockTransactor struct {
	payments *MockPaymentRepository
	bookings *MockBookingRepository

	CallCount int32

	// BeginError fails the transaction before fn runs.
	BeginError error
}

// NewMockTransactor creates a new mock transactor.
func NewMockTransactor(payments *MockPaymentRepository, bookings *MockBookingRepository) *MockTransactor {
	return &MockTransactor{payments: payments, bookings: bookings}
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(payments repository.PaymentRepository, bookings repository.BookingRepository) error) error {
	atomic.AddInt32(&m.CallCount, 1)
	if m.BeginError != nil {
		return m.BeginError
	}
	return fn(m.payments, m.bookings)
}

// ──────────────────────────────────────────────
// MOCK GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a scripted Chapa gateway.
type MockGateway struct {
	mu sync.Mutex

	InitializeResponse *chapa.InitializeResponse
	InitializeError    error
	VerifyResponse     *chapa.VerifyResponse
	VerifyError        error

	// OnInitialize runs inside Initialize before it returns.
	OnInitialize func()

	// Counters
	InitializeCallCount int32
	VerifyCallCount     int32

	initializeRequests []chapa.InitializeRequest
}

// NewMockGateway creates a gateway that accepts every initialization.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		InitializeResponse: &chapa.InitializeResponse{
			Message: "Hosted Link",
			Status:  chapa.StatusSuccess,
			Data: &chapa.InitializeData{
				CheckoutURL: "https://checkout.chapa.co/checkout/payment/abc",
			},
			Raw: []byte(`{"status":"success"}`),
		},
	}
}

func (m *MockGateway) Initialize(ctx context.Context, req chapa.InitializeRequest) (*chapa.InitializeResponse, error) {
	atomic.AddInt32(&m.InitializeCallCount, 1)
	m.mu.Lock()
	m.initializeRequests = append(m.initializeRequests, req)
	hook := m.OnInitialize
	resp, err := m.InitializeResponse, m.InitializeError
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (m *MockGateway) Verify(ctx context.Context, txRef string) (*chapa.VerifyResponse, error) {
	atomic.AddInt32(&m.VerifyCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.VerifyError != nil {
		return nil, m.VerifyError
	}
	return m.VerifyResponse, nil
}

// LastInitializeRequest returns the most recent initialize request.
func (m *MockGateway) LastInitializeRequest() chapa.InitializeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.initializeRequests) == 0 {
		return chapa.InitializeRequest{}
	}
	return m.initializeRequests[len(m.initializeRequests)-1]
}

// VerifyResult builds a verify response with the given envelope and transaction status.
func VerifyResult(status, txStatus, reference string) *chapa.VerifyResponse {
	return &chapa.VerifyResponse{
		Status: status,
		Data: &chapa.VerifyData{
			Status:    txStatus,
			Reference: reference,
		},
		Raw: []byte(`{"status":"` + status + `","data":{"status":"` + txStatus + `","reference":"` + reference + `"}}`),
	}
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of the booking payment lock.
type MockLockStore struct {
	mu     sync.Mutex
	locks  map[int64]mockLock
	tokens int

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

type mockLock struct {
	token  string
	expiry time.Time
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[int64]mockLock),
	}
}

func (m *MockLockStore) AcquireBookingLock(ctx context.Context, bookingID int64, ttl time.Duration) (string, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if lock, exists := m.locks[bookingID]; exists && time.Now().Before(lock.expiry) {
		return "", nil
	}

	m.tokens++
	token := fmt.Sprintf("token-%d", m.tokens)
	m.locks[bookingID] = mockLock{token: token, expiry: time.Now().Add(ttl)}
	return token, nil
}

func (m *MockLockStore) ReleaseBookingLock(ctx context.Context, bookingID int64, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if lock, exists := m.locks[bookingID]; exists && lock.token == token {
		delete(m.locks, bookingID)
	}
	return nil
}

// IsLocked checks if a booking is locked (for test assertions).
func (m *MockLockStore) IsLocked(bookingID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, exists := m.locks[bookingID]
	return exists && time.Now().Before(lock.expiry)
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER / PUBLISHER / CACHE
// ──────────────────────────────────────────────

// MockNotifier records payment confirmations.
type MockNotifier struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	payments []*domain.Payment

	NotifyError error
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) NotifyPaymentConfirmed(ctx context.Context, booking *domain.Booking, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = append(m.bookings, booking)
	m.payments = append(m.payments, payment)
	return m.NotifyError
}

// Calls returns the number of confirmations received.
func (m *MockNotifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

// LastBooking returns the booking passed with the latest confirmation.
func (m *MockNotifier) LastBooking() *domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.bookings) == 0 {
		return nil
	}
	return m.bookings[len(m.bookings)-1]
}

// PublishedMessage is a message handed to MockPublisher.
type PublishedMessage struct {
	RoutingKey string
	Payload    any
}

// MockPublisher records published messages.
type MockPublisher struct {
	mu       sync.Mutex
	messages []PublishedMessage

	PublishError error
}

// NewMockPublisher creates a new mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PublishError != nil {
		return m.PublishError
	}
	m.messages = append(m.messages, PublishedMessage{RoutingKey: routingKey, Payload: payload})
	return nil
}

// Messages returns the published messages.
func (m *MockPublisher) Messages() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// MockListingCache is an in-memory listing cache.
type MockListingCache struct {
	mu       sync.Mutex
	listings map[int64]domain.Listing

	GetError error
	SetError error

	HitCount int32
}

// NewMockListingCache creates a new mock listing cache.
func NewMockListingCache() *MockListingCache {
	return &MockListingCache{listings: make(map[int64]domain.Listing)}
}

func (m *MockListingCache) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	listing, ok := m.listings[id]
	if !ok {
		return nil, nil
	}
	atomic.AddInt32(&m.HitCount, 1)
	return &listing, nil
}

func (m *MockListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[listing.ID] = *listing
	return nil
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockRedisDown = errors.New("mock: redis connection refused")
	ErrMockDBTimeout = errors.New("mock: operation timeout")
	ErrMockBroker    = errors.New("mock: broker channel closed")
)
