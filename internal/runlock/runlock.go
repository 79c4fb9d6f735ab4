// Package runlock guards orchestrator runs so a (period, day) pair executes
// at most once even when the scheduler double-fires or an operator replays
// a day by hand.
package runlock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Guard acquires short-lived run locks in Redis.
type Guard struct {
	client *redis.Client
	ttl    time.Duration
}

// DefaultTTL covers the longest plausible run with room to spare; an
// expired lock lets a crashed run be retried the same day.
const DefaultTTL = 30 * time.Minute

func NewGuard(client *redis.Client, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Guard{client: client, ttl: ttl}
}

// TryAcquire claims the lock for period and day. It returns false when
// another run already holds it.
func (g *Guard) TryAcquire(ctx context.Context, period string, day int) (bool, error) {
	ok, err := g.client.SetNX(ctx, key(period, day), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire run lock: %w", err)
	}
	return ok, nil
}

// Release drops the lock early so a failed run can be retried without
// waiting out the TTL.
func (g *Guard) Release(ctx context.Context, period string, day int) error {
	if err := g.client.Del(ctx, key(period, day)).Err(); err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	return nil
}

func key(period string, day int) string {
	return fmt.Sprintf("gazette:run:%s:%d", period, day)
}
