package apikey

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CacheEntry is the short-lived projection of a key stored under its digest.
// It carries just enough to skip the indexed lookup on a hot path; the full
// records are still fetched by id.
type CacheEntry struct {
	KeyID    uuid.UUID `json:"api_key_id"`
	ClientID uuid.UUID `json:"client_id"`
	Status   Status    `json:"status"`
	Scopes   []Scope   `json:"scopes"`
}

// Cache is a read-through optimization over the durable store. A miss (or any
// cache failure) must fall through to the store; correctness never depends on
// an entry being present.
type Cache interface {
	// Lookup returns (nil, nil) on a miss.
	Lookup(ctx context.Context, keyHash string) (*CacheEntry, error)
	Store(ctx context.Context, keyHash string, entry *CacheEntry, ttl time.Duration) error
	Invalidate(ctx context.Context, keyHash string) error
	// InvalidateByClient drops every cached key belonging to one client,
	// used after client-level mutations (deactivation, deletion).
	InvalidateByClient(ctx context.Context, clientID uuid.UUID) error
}
