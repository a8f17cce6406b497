package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/domain/client"
	"github.com/seolytics/seo-api/internal/handler/dto"
	"github.com/seolytics/seo-api/internal/ierr"
	"github.com/seolytics/seo-api/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func apiKeyServiceFixture(t *testing.T, activeKeys int) (*APIKeyService, *fakeKeyRepo, *fakeCache, *client.Client) {
	t.Helper()

	cli := &client.Client{
		ID:         uuid.New(),
		Name:       "Acme SEO",
		IsActive:   true,
		MaxAPIKeys: 2,
	}

	keys := &fakeKeyRepo{
		countActiveFn: func(ctx context.Context, clientID uuid.UUID) (int, error) {
			return activeKeys, nil
		},
		createFn: func(ctx context.Context, key *apikey.APIKey) (uuid.UUID, error) {
			return uuid.New(), nil
		},
	}
	clients := &fakeClientRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*client.Client, error) {
			if id == cli.ID {
				return cli, nil
			}
			return nil, ierr.ErrClientNotFound
		},
	}
	cache := newFakeCache()

	return NewAPIKeyService(keys, clients, cache, zap.NewNop()), keys, cache, cli
}

func TestAPIKeyService_Create(t *testing.T) {
	svc, keys, _, cli := apiKeyServiceFixture(t, 0)

	var created *apikey.APIKey
	keys.createFn = func(ctx context.Context, key *apikey.APIKey) (uuid.UUID, error) {
		created = key
		return uuid.New(), nil
	}

	resp, err := svc.Create(context.Background(), cli.ID, &dto.CreateAPIKeyRequest{
		Name:             "reporting key",
		Environment:      "production",
		Scopes:           []string{"keywords:read", "rankings:read"},
		AllowedDomainIDs: []int64{5},
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.FullKey, "sk_live_"))
	assert.Contains(t, resp.KeyPreview, "****")
	assert.NotEmpty(t, resp.Warning)

	require.NotNil(t, created)
	assert.Empty(t, created.ExpiresAt)
	assert.Equal(t, apikey.StatusActive, created.Status)
	assert.Equal(t, util.HashAPIKey(resp.FullKey), created.KeyHash)
	assert.NotContains(t, created.KeyHash, resp.FullKey)
	assert.Equal(t, []int64{5}, created.AllowedDomainIDs)
}

func TestAPIKeyService_CreateTestEnvironment(t *testing.T) {
	svc, _, _, cli := apiKeyServiceFixture(t, 0)

	resp, err := svc.Create(context.Background(), cli.ID, &dto.CreateAPIKeyRequest{
		Name:   "staging key",
		Scopes: []string{"keywords:read"},
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.FullKey, "sk_test_"), "environment defaults to test")
}

func TestAPIKeyService_CreateWithExpiry(t *testing.T) {
	svc, keys, _, cli := apiKeyServiceFixture(t, 0)

	var created *apikey.APIKey
	keys.createFn = func(ctx context.Context, key *apikey.APIKey) (uuid.UUID, error) {
		created = key
		return uuid.New(), nil
	}

	days := 30
	resp, err := svc.Create(context.Background(), cli.ID, &dto.CreateAPIKeyRequest{
		Name:          "short lived",
		Scopes:        []string{"keywords:read"},
		ExpiresInDays: &days,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.ExpiresAt)
	require.NotNil(t, created.ExpiresAt)
}

func TestAPIKeyService_CreateEnforcesKeyLimit(t *testing.T) {
	svc, _, _, cli := apiKeyServiceFixture(t, 2)

	_, err := svc.Create(context.Background(), cli.ID, &dto.CreateAPIKeyRequest{
		Name:   "one too many",
		Scopes: []string{"keywords:read"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrAPIKeyLimitReached))
}

func TestAPIKeyService_CreateRejectsUnknownScope(t *testing.T) {
	svc, _, _, cli := apiKeyServiceFixture(t, 0)

	_, err := svc.Create(context.Background(), cli.ID, &dto.CreateAPIKeyRequest{
		Name:   "bad scopes",
		Scopes: []string{"keywords:read", "superuser"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ierr.ErrValidation))
	assert.Contains(t, err.Error(), "superuser")
}

func TestAPIKeyService_CreateUnknownClient(t *testing.T) {
	svc, _, _, _ := apiKeyServiceFixture(t, 0)

	_, err := svc.Create(context.Background(), uuid.New(), &dto.CreateAPIKeyRequest{
		Name:   "orphan",
		Scopes: []string{"keywords:read"},
	})

	assert.True(t, errors.Is(err, ierr.ErrClientNotFound))
}

func TestAPIKeyService_RevokeInvalidatesCache(t *testing.T) {
	svc, keys, cache, cli := apiKeyServiceFixture(t, 1)

	keyID := uuid.New()
	keys.findByIDFn = func(ctx context.Context, id uuid.UUID) (*apikey.APIKey, error) {
		return &apikey.APIKey{ID: keyID, ClientID: cli.ID, KeyHash: "hash123", Status: apikey.StatusActive}, nil
	}
	keys.revokeFn = func(ctx context.Context, id uuid.UUID) error { return nil }

	err := svc.Revoke(context.Background(), cli.ID, keyID)

	require.NoError(t, err)
	assert.Contains(t, cache.invalidated, "hash123")
}

func TestAPIKeyService_RevokeForeignKeyLooksLikeNotFound(t *testing.T) {
	svc, keys, _, cli := apiKeyServiceFixture(t, 1)

	keyID := uuid.New()
	keys.findByIDFn = func(ctx context.Context, id uuid.UUID) (*apikey.APIKey, error) {
		return &apikey.APIKey{ID: keyID, ClientID: uuid.New(), Status: apikey.StatusActive}, nil
	}

	err := svc.Revoke(context.Background(), cli.ID, keyID)

	assert.True(t, errors.Is(err, ierr.ErrAPIKeyNotFound))
}

func TestAPIKeyService_DeleteInvalidatesCache(t *testing.T) {
	svc, keys, cache, cli := apiKeyServiceFixture(t, 1)

	keyID := uuid.New()
	keys.findByIDFn = func(ctx context.Context, id uuid.UUID) (*apikey.APIKey, error) {
		return &apikey.APIKey{ID: keyID, ClientID: cli.ID, KeyHash: "hash456"}, nil
	}
	keys.deleteFn = func(ctx context.Context, id uuid.UUID) error { return nil }

	err := svc.Delete(context.Background(), cli.ID, keyID)

	require.NoError(t, err)
	assert.Contains(t, cache.invalidated, "hash456")
}
