package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/domain/seo"
	"github.com/seolytics/seo-api/internal/ierr"
	"go.uber.org/zap"
)

// SEOService is the CRUD surface around the monitored resources. Every
// domain-scoped operation runs through resolveDomain, which enforces both
// ownership (the domain belongs to the calling client) and the key's
// optional allowed-domain restriction list.
type SEOService struct {
	repo   seo.Repository
	logger *zap.Logger
}

func NewSEOService(repo seo.Repository, logger *zap.Logger) *SEOService {
	return &SEOService{
		repo:   repo,
		logger: logger.Named("SEOService"),
	}
}

func (s *SEOService) CreateDomain(ctx context.Context, clientID uuid.UUID, d *seo.Domain) (*seo.Domain, error) {
	d.ClientID = clientID
	d.IsActive = true

	id, err := s.repo.CreateDomain(ctx, d)
	if err != nil {
		return nil, err
	}
	return s.repo.FindDomain(ctx, id)
}

func (s *SEOService) GetDomain(ctx context.Context, key *apikey.APIKey, domainID int64) (*seo.Domain, error) {
	return s.resolveDomain(ctx, key, domainID)
}

func (s *SEOService) ListDomains(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*seo.Domain, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.repo.ListDomains(ctx, clientID, limit, offset)
}

func (s *SEOService) UpdateDomain(ctx context.Context, key *apikey.APIKey, domainID int64, patch seo.DomainUpdate) (*seo.Domain, error) {
	existing, err := s.resolveDomain(ctx, key, domainID)
	if err != nil {
		return nil, err
	}

	if patch.URL != nil {
		existing.URL = *patch.URL
	}
	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.IsActive != nil {
		existing.IsActive = *patch.IsActive
	}

	if err := s.repo.UpdateDomain(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *SEOService) DeleteDomain(ctx context.Context, key *apikey.APIKey, domainID int64) error {
	if _, err := s.resolveDomain(ctx, key, domainID); err != nil {
		return err
	}
	return s.repo.DeleteDomain(ctx, domainID)
}

func (s *SEOService) CreateKeyword(ctx context.Context, key *apikey.APIKey, k *seo.Keyword) (int64, error) {
	if _, err := s.resolveDomain(ctx, key, k.DomainID); err != nil {
		return 0, err
	}
	if k.Source == "" {
		k.Source = "manual"
	}
	return s.repo.CreateKeyword(ctx, k)
}

func (s *SEOService) ListKeywords(ctx context.Context, key *apikey.APIKey, domainID int64, limit, offset int) ([]*seo.Keyword, error) {
	if _, err := s.resolveDomain(ctx, key, domainID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.repo.ListKeywords(ctx, domainID, limit, offset)
}

func (s *SEOService) CreateRanking(ctx context.Context, key *apikey.APIKey, r *seo.Ranking) (int64, error) {
	if _, err := s.resolveDomain(ctx, key, r.DomainID); err != nil {
		return 0, err
	}
	if r.SearchEngine == "" {
		r.SearchEngine = "google"
	}
	if r.Location == "" {
		r.Location = "global"
	}
	if r.Device == "" {
		r.Device = "desktop"
	}
	if r.Source == "" {
		r.Source = "manual"
	}
	return s.repo.CreateRanking(ctx, r)
}

func (s *SEOService) ListRankings(ctx context.Context, key *apikey.APIKey, domainID int64, limit, offset int) ([]*seo.Ranking, error) {
	if _, err := s.resolveDomain(ctx, key, domainID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.repo.ListRankings(ctx, domainID, limit, offset)
}

func (s *SEOService) CreateBacklink(ctx context.Context, key *apikey.APIKey, b *seo.Backlink) (int64, error) {
	if _, err := s.resolveDomain(ctx, key, b.DomainID); err != nil {
		return 0, err
	}
	if b.LinkType == "" {
		b.LinkType = "dofollow"
	}
	if b.Source == "" {
		b.Source = "manual"
	}
	b.IsActive = true
	return s.repo.CreateBacklink(ctx, b)
}

func (s *SEOService) ListBacklinks(ctx context.Context, key *apikey.APIKey, domainID int64, limit, offset int) ([]*seo.Backlink, error) {
	if _, err := s.resolveDomain(ctx, key, domainID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.repo.ListBacklinks(ctx, domainID, limit, offset)
}

func (s *SEOService) resolveDomain(ctx context.Context, key *apikey.APIKey, domainID int64) (*seo.Domain, error) {
	d, err := s.repo.FindDomain(ctx, domainID)
	if err != nil {
		return nil, err
	}
	if d.ClientID != key.ClientID {
		// Cross-tenant probes look identical to a missing resource.
		return nil, ierr.ErrDomainNotFound
	}
	if !key.AllowsDomain(domainID) {
		s.logger.Warn("API key denied by domain restriction list",
			zap.String("key_id", key.ID.String()),
			zap.Int64("domain_id", domainID),
		)
		return nil, fmt.Errorf("%w: domain %d", ierr.ErrDomainAccessDenied, domainID)
	}
	return d, nil
}
