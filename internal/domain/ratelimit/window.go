package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type WindowKind string

const (
	WindowMinute WindowKind = "minute"
	WindowDay    WindowKind = "day"
)

// TTL is the lifetime of a window's counter: exactly the window length, so
// stale buckets clean themselves up.
func (w WindowKind) TTL() time.Duration {
	switch w {
	case WindowMinute:
		return time.Minute
	default:
		return 24 * time.Hour
	}
}

// BucketKey derives the wall-clock bucket identifier for a window. Counters
// are keyed by (client, kind, bucket); a new bucket always starts at zero, so
// losing a counter can only under-count, never mis-block.
func (w WindowKind) BucketKey(now time.Time) string {
	now = now.UTC()
	switch w {
	case WindowMinute:
		return now.Format("200601021504")
	default:
		return now.Format("20060102")
	}
}

// CounterKey is the full storage key for one client's window bucket.
func CounterKey(clientID uuid.UUID, kind WindowKind, now time.Time) string {
	return fmt.Sprintf("rate_limit:client:%s:%s:%s", clientID, kind, kind.BucketKey(now))
}

// Counter is the atomic increment-with-expiry backend. Increment is the sole
// correctness mechanism under concurrency; callers must never read-then-write.
type Counter interface {
	// Increment atomically bumps the current bucket and returns the new
	// count, arming the bucket's TTL on first increment.
	Increment(ctx context.Context, clientID uuid.UUID, kind WindowKind, now time.Time) (int64, error)
	// Peek returns the current count without mutating, zero if absent.
	Peek(ctx context.Context, clientID uuid.UUID, kind WindowKind, now time.Time) (int64, error)
}
