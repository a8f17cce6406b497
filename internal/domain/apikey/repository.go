package apikey

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, key *APIKey) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*APIKey, error)
	FindByHash(ctx context.Context, keyHash string) (*APIKey, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, status *Status) ([]*APIKey, error)
	CountActiveByClient(ctx context.Context, clientID uuid.UUID) (int, error)

	// Revoke moves an active key to revoked and stamps revoked_at.
	Revoke(ctx context.Context, id uuid.UUID) error

	// MarkExpired moves an active key to expired. Idempotent: calling it on
	// an already expired or revoked key is a no-op.
	MarkExpired(ctx context.Context, id uuid.UUID) error

	// RecordUsage bumps total_requests and last_used_at in one statement.
	RecordUsage(ctx context.Context, id uuid.UUID, usedAt time.Time) error

	Delete(ctx context.Context, id uuid.UUID) error

	// ListExpiredActive returns active keys whose expiry timestamp has
	// passed, for the periodic sweep.
	ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]*APIKey, error)
}
