package seo

import (
	"context"

	"github.com/google/uuid"
)

// DomainUpdate is a partial update; nil fields are left unchanged.
type DomainUpdate struct {
	URL      *string
	Name     *string
	IsActive *bool
}

type Repository interface {
	CreateDomain(ctx context.Context, d *Domain) (int64, error)
	FindDomain(ctx context.Context, id int64) (*Domain, error)
	ListDomains(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Domain, error)
	UpdateDomain(ctx context.Context, d *Domain) error
	DeleteDomain(ctx context.Context, id int64) error

	CreateKeyword(ctx context.Context, k *Keyword) (int64, error)
	ListKeywords(ctx context.Context, domainID int64, limit, offset int) ([]*Keyword, error)

	CreateRanking(ctx context.Context, r *Ranking) (int64, error)
	ListRankings(ctx context.Context, domainID int64, limit, offset int) ([]*Ranking, error)

	CreateBacklink(ctx context.Context, b *Backlink) (int64, error)
	ListBacklinks(ctx context.Context, domainID int64, limit, offset int) ([]*Backlink, error)
}
