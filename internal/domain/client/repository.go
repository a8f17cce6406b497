package client

import (
	"context"

	"github.com/google/uuid"
)

type ListParams struct {
	IsActive *bool
	Limit    int
	Offset   int
}

type Repository interface {
	Create(ctx context.Context, c *Client) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByEmail(ctx context.Context, email string) (*Client, error)
	List(ctx context.Context, params ListParams) ([]*Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}
