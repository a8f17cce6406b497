package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/seolytics/seo-api/internal/config"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/domain/client"
	"github.com/seolytics/seo-api/internal/handler/dto"
	"github.com/seolytics/seo-api/internal/metrics"
	"go.uber.org/zap"
)

type ClientService struct {
	clients  client.Repository
	cache    apikey.Cache
	defaults *config.AuthConfig
	logger   *zap.Logger
}

func NewClientService(clients client.Repository, cache apikey.Cache, defaults *config.AuthConfig, logger *zap.Logger) *ClientService {
	return &ClientService{
		clients:  clients,
		cache:    cache,
		defaults: defaults,
		logger:   logger.Named("ClientService"),
	}
}

func (s *ClientService) Create(ctx context.Context, req *dto.CreateClientRequest) (*client.Client, error) {
	c := &client.Client{
		Name:               req.Name,
		Company:            req.Company,
		Email:              req.Email,
		IsActive:           true,
		MaxAPIKeys:         s.defaults.DefaultMaxAPIKeys,
		RateLimitPerMinute: s.defaults.DefaultRateLimitPerMinute,
		RateLimitPerDay:    s.defaults.DefaultRateLimitPerDay,
	}
	if req.MaxAPIKeys != nil {
		c.MaxAPIKeys = *req.MaxAPIKeys
	}
	if req.RateLimitPerMinute != nil {
		c.RateLimitPerMinute = *req.RateLimitPerMinute
	}
	if req.RateLimitPerDay != nil {
		c.RateLimitPerDay = *req.RateLimitPerDay
	}

	id, err := s.clients.Create(ctx, c)
	if err != nil {
		return nil, err
	}

	created, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Client created", zap.String("id", id.String()), zap.String("name", c.Name))
	return created, nil
}

func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	return s.clients.FindByID(ctx, id)
}

func (s *ClientService) List(ctx context.Context, params client.ListParams) ([]*client.Client, error) {
	if params.Limit <= 0 || params.Limit > 1000 {
		params.Limit = 100
	}
	return s.clients.List(ctx, params)
}

// Update applies a partial update and invalidates every cached credential of
// the client, so changes to the active flag or limits take effect without
// waiting out the cache TTL.
func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateClientRequest) (*client.Client, error) {
	c, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Company != nil {
		c.Company = *req.Company
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.MaxAPIKeys != nil {
		c.MaxAPIKeys = *req.MaxAPIKeys
	}
	if req.RateLimitPerMinute != nil {
		c.RateLimitPerMinute = *req.RateLimitPerMinute
	}
	if req.RateLimitPerDay != nil {
		c.RateLimitPerDay = *req.RateLimitPerDay
	}

	if err := s.clients.Update(ctx, c); err != nil {
		return nil, err
	}

	s.invalidateClient(ctx, id)
	return c, nil
}

func (s *ClientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateClient(ctx, id)
	s.logger.Info("Client deleted", zap.String("id", id.String()))
	return nil
}

func (s *ClientService) invalidateClient(ctx context.Context, id uuid.UUID) {
	if err := s.cache.InvalidateByClient(ctx, id); err != nil {
		metrics.CacheErrors.Inc()
		s.logger.Warn("Failed to invalidate cached credentials for client",
			zap.String("client_id", id.String()),
			zap.Error(err),
		)
	}
}
