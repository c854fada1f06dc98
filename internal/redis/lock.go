package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles advisory locks in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func bookingPaymentLockKey(bookingID int64) string {
	return fmt.Sprintf("lock:booking:%d:payment", bookingID)
}

// AcquireBookingLock attempts to acquire the payment lock for a booking.
// Returns the owner token, or an empty token if the lock is already held.
func (s *LockStore) AcquireBookingLock(ctx context.Context, bookingID int64, ttl time.Duration) (string, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, bookingPaymentLockKey(bookingID), token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	return token, nil
}

// ReleaseBookingLock releases the payment lock for a booking if token still owns it.
func (s *LockStore) ReleaseBookingLock(ctx context.Context, bookingID int64, token string) error {
	return releaseScript.Run(ctx, s.client, []string{bookingPaymentLockKey(bookingID)}, token).Err()
}
