package usage

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Insert(ctx context.Context, rec *Record) error
	ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Record, error)
	Summarize(ctx context.Context, clientID uuid.UUID) (*Summary, error)
}
