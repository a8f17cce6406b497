package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/seolytics/seo-api/internal/domain/ratelimit"
	"go.uber.org/zap"
)

// UsageCounter implements the admission counters on Redis INCR. The EXPIRE
// is only armed when INCR returns 1, so the bucket lives exactly one window
// from its first hit.
type UsageCounter struct {
	client *redis.Client
	logger *zap.Logger
}

func NewUsageCounter(client *redis.Client, logger *zap.Logger) *UsageCounter {
	return &UsageCounter{
		client: client,
		logger: logger.Named("UsageCounter"),
	}
}

var _ ratelimit.Counter = (*UsageCounter)(nil)

func (u *UsageCounter) Increment(ctx context.Context, clientID uuid.UUID, kind ratelimit.WindowKind, now time.Time) (int64, error) {
	key := ratelimit.CounterKey(clientID, kind, now)

	count, err := u.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis error incrementing usage counter: %w", err)
	}

	if count == 1 {
		if err := u.client.Expire(ctx, key, kind.TTL()).Err(); err != nil {
			// The count is already correct; a missing TTL only delays
			// cleanup of this bucket.
			u.logger.Warn("Failed to arm TTL on usage counter", zap.String("key", key), zap.Error(err))
		}
	}

	return count, nil
}

func (u *UsageCounter) Peek(ctx context.Context, clientID uuid.UUID, kind ratelimit.WindowKind, now time.Time) (int64, error) {
	key := ratelimit.CounterKey(clientID, kind, now)

	count, err := u.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis error reading usage counter: %w", err)
	}
	return count, nil
}
