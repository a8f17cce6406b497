package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/domain/client"
	"github.com/seolytics/seo-api/internal/handler/dto"
	"github.com/seolytics/seo-api/internal/ierr"
	"github.com/seolytics/seo-api/internal/metrics"
	"github.com/seolytics/seo-api/internal/util"
	"go.uber.org/zap"
)

const plaintextWarning = "IMPORTANT: store this key securely. It will not be shown again."

// APIKeyService owns key provisioning and the two cache touchpoints the
// admin surface has: revoke and delete both invalidate the cached entry so
// the change takes effect without waiting out the TTL.
type APIKeyService struct {
	keys    apikey.Repository
	clients client.Repository
	cache   apikey.Cache
	logger  *zap.Logger
}

func NewAPIKeyService(keys apikey.Repository, clients client.Repository, cache apikey.Cache, logger *zap.Logger) *APIKeyService {
	return &APIKeyService{
		keys:    keys,
		clients: clients,
		cache:   cache,
		logger:  logger.Named("APIKeyService"),
	}
}

func (s *APIKeyService) Create(ctx context.Context, clientID uuid.UUID, req *dto.CreateAPIKeyRequest) (*dto.CreateAPIKeyResponse, error) {
	cli, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	activeCount, err := s.keys.CountActiveByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if activeCount >= cli.MaxAPIKeys {
		s.logger.Warn("API key limit reached",
			zap.String("client_id", clientID.String()),
			zap.Int("max_api_keys", cli.MaxAPIKeys),
		)
		return nil, fmt.Errorf("%w: limit of %d keys", ierr.ErrAPIKeyLimitReached, cli.MaxAPIKeys)
	}

	scopes, unknown, ok := apikey.ParseScopes(req.Scopes)
	if !ok {
		return nil, fmt.Errorf("%w: unknown scope %q", ierr.ErrValidation, unknown)
	}

	env := apikey.EnvironmentTest
	if req.Environment == string(apikey.EnvironmentProduction) {
		env = apikey.EnvironmentProduction
	}

	fullKey, keyHash, lastChars, err := util.GenerateAPIKey(env)
	if err != nil {
		s.logger.Error("Failed to generate api key material", zap.Error(err))
		return nil, fmt.Errorf("%w: key generation failed", ierr.ErrInternalServer)
	}

	var expiresAt *time.Time
	if req.ExpiresInDays != nil {
		t := time.Now().UTC().AddDate(0, 0, *req.ExpiresInDays)
		expiresAt = &t
	}

	newKey := &apikey.APIKey{
		ClientID:         clientID,
		KeyPrefix:        util.KeyPrefix(fullKey),
		KeyHash:          keyHash,
		KeyLastChars:     lastChars,
		Name:             req.Name,
		Description:      req.Description,
		Status:           apikey.StatusActive,
		Scopes:           scopes,
		AllowedIPs:       req.AllowedIPs,
		AllowedDomainIDs: req.AllowedDomainIDs,
		ExpiresAt:        expiresAt,
	}

	insertedID, err := s.keys.Create(ctx, newKey)
	if err != nil {
		return nil, err
	}

	s.logger.Info("API key provisioned",
		zap.String("id", insertedID.String()),
		zap.String("client_id", clientID.String()),
		zap.Strings("scopes", req.Scopes),
	)

	// The plaintext leaves the process in this response and nowhere else.
	return &dto.CreateAPIKeyResponse{
		ID:               insertedID,
		Name:             req.Name,
		Description:      req.Description,
		KeyPreview:       newKey.Preview(),
		FullKey:          fullKey,
		Status:           string(apikey.StatusActive),
		Scopes:           req.Scopes,
		AllowedIPs:       req.AllowedIPs,
		AllowedDomainIDs: req.AllowedDomainIDs,
		ExpiresAt:        expiresAt,
		CreatedAt:        time.Now().UTC(),
		Warning:          plaintextWarning,
	}, nil
}

func (s *APIKeyService) List(ctx context.Context, clientID uuid.UUID, status *apikey.Status) ([]*dto.APIKeyListItem, error) {
	keys, err := s.keys.ListByClient(ctx, clientID, status)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.APIKeyListItem, len(keys))
	for i, key := range keys {
		items[i] = &dto.APIKeyListItem{
			ID:            key.ID,
			Name:          key.Name,
			KeyPreview:    key.Preview(),
			Status:        string(key.Status),
			Scopes:        apikey.ScopeStrings(key.Scopes),
			CreatedAt:     key.CreatedAt,
			LastUsedAt:    key.LastUsedAt,
			TotalRequests: key.TotalRequests,
			ExpiresAt:     key.ExpiresAt,
		}
	}
	return items, nil
}

func (s *APIKeyService) Revoke(ctx context.Context, clientID, keyID uuid.UUID) error {
	key, err := s.findOwned(ctx, clientID, keyID)
	if err != nil {
		return err
	}

	if err := s.keys.Revoke(ctx, keyID); err != nil {
		return err
	}

	s.invalidate(ctx, key.KeyHash)
	s.logger.Info("API key revoked", zap.String("id", keyID.String()))
	return nil
}

func (s *APIKeyService) Delete(ctx context.Context, clientID, keyID uuid.UUID) error {
	key, err := s.findOwned(ctx, clientID, keyID)
	if err != nil {
		return err
	}

	s.invalidate(ctx, key.KeyHash)

	if err := s.keys.Delete(ctx, keyID); err != nil {
		return err
	}
	s.logger.Info("API key deleted", zap.String("id", keyID.String()))
	return nil
}

func (s *APIKeyService) findOwned(ctx context.Context, clientID, keyID uuid.UUID) (*apikey.APIKey, error) {
	key, err := s.keys.FindByID(ctx, keyID)
	if err != nil {
		return nil, err
	}
	if key.ClientID != clientID {
		return nil, ierr.ErrAPIKeyNotFound
	}
	return key, nil
}

func (s *APIKeyService) invalidate(ctx context.Context, keyHash string) {
	if err := s.cache.Invalidate(ctx, keyHash); err != nil {
		metrics.CacheErrors.Inc()
		s.logger.Warn("Failed to invalidate credential cache entry", zap.Error(err))
	}
}
