package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker is a mutual-exclusion primitive shared across all processes that
// mutate ticket inventory. Acquire returning false is not an error: it
// means another holder currently owns the key.
type Locker interface {
	Acquire(ctx context.Context, key, holder string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// TicketKey builds the lock key guarding one ticket's sold count.
func TicketKey(ticketID string) string {
	return fmt.Sprintf("ticket:%s:lock", ticketID)
}

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire sets the key iff absent, with the TTL applied atomically.
// The TTL is a liveness guard against a crashed holder; it must be well
// above the expected critical-section duration.
func (l *RedisLocker) Acquire(ctx context.Context, key, holder string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, holder, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lock acquire %s: %w", key, err)
	}
	return ok, nil
}

// Release deletes the key. Deleting an absent or already-expired key is
// a no-op, so Release is safe to call unconditionally.
func (l *RedisLocker) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("lock release %s: %w", key, err)
	}
	return nil
}
