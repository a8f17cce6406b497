package ratelimit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWindowTTL(t *testing.T) {
	assert.Equal(t, time.Minute, WindowMinute.TTL())
	assert.Equal(t, 24*time.Hour, WindowDay.TTL())
}

func TestBucketKey(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 30, 45, 0, time.UTC)

	assert.Equal(t, "202603151230", WindowMinute.BucketKey(now))
	assert.Equal(t, "20260315", WindowDay.BucketKey(now))
}

func TestBucketKey_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	local := time.Date(2026, 3, 16, 2, 10, 0, 0, loc)

	// 02:10 UTC+5 is 21:10 the previous day in UTC.
	assert.Equal(t, "202603152110", WindowMinute.BucketKey(local))
	assert.Equal(t, "20260315", WindowDay.BucketKey(local))
}

func TestBucketKey_ChangesAtWindowBoundary(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 30, 59, 0, time.UTC)

	assert.NotEqual(t, WindowMinute.BucketKey(now), WindowMinute.BucketKey(now.Add(time.Second)))
	assert.Equal(t, WindowDay.BucketKey(now), WindowDay.BucketKey(now.Add(time.Second)))
}

func TestCounterKey(t *testing.T) {
	clientID := uuid.MustParse("4ef8c1f7-8871-4eed-a3b4-000000000001")
	now := time.Date(2026, 3, 15, 12, 30, 45, 0, time.UTC)

	assert.Equal(t,
		"rate_limit:client:4ef8c1f7-8871-4eed-a3b4-000000000001:minute:202603151230",
		CounterKey(clientID, WindowMinute, now),
	)
	assert.Equal(t,
		"rate_limit:client:4ef8c1f7-8871-4eed-a3b4-000000000001:day:20260315",
		CounterKey(clientID, WindowDay, now),
	)
}
