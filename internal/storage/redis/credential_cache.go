package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"go.uber.org/zap"
)

const (
	credentialKeyPrefix = "api_key:"
	clientIndexPrefix   = "api_key:client:"
)

// CredentialCache maps a key digest to its cached projection under
// "api_key:<hash>". A per-client index key ("api_key:client:<id>:<hash>")
// with the same TTL makes owner-scoped bulk invalidation a SCAN instead of a
// full keyspace walk.
type CredentialCache struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCredentialCache(client *redis.Client, logger *zap.Logger) *CredentialCache {
	return &CredentialCache{
		client: client,
		logger: logger.Named("CredentialCache"),
	}
}

var _ apikey.Cache = (*CredentialCache)(nil)

func (c *CredentialCache) Lookup(ctx context.Context, keyHash string) (*apikey.CacheEntry, error) {
	val, err := c.client.Get(ctx, credentialKeyPrefix+keyHash).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis error reading credential cache: %w", err)
	}

	var entry apikey.CacheEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten by
		// the next write-back.
		c.logger.Warn("Dropping undecodable credential cache entry", zap.Error(err))
		return nil, nil
	}
	return &entry, nil
}

func (c *CredentialCache) Store(ctx context.Context, keyHash string, entry *apikey.CacheEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode credential cache entry: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, credentialKeyPrefix+keyHash, payload, ttl)
	pipe.Set(ctx, clientIndexKey(entry.ClientID, keyHash), keyHash, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis error writing credential cache: %w", err)
	}
	return nil
}

func (c *CredentialCache) Invalidate(ctx context.Context, keyHash string) error {
	if err := c.client.Del(ctx, credentialKeyPrefix+keyHash).Err(); err != nil {
		return fmt.Errorf("redis error invalidating credential cache: %w", err)
	}
	return nil
}

func (c *CredentialCache) InvalidateByClient(ctx context.Context, clientID uuid.UUID) error {
	pattern := clientIndexPrefix + clientID.String() + ":*"

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var toDelete []string
	for iter.Next(ctx) {
		indexKey := iter.Val()
		hash, err := c.client.Get(ctx, indexKey).Result()
		if err == nil {
			toDelete = append(toDelete, credentialKeyPrefix+hash)
		}
		toDelete = append(toDelete, indexKey)
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis error scanning client credential entries: %w", err)
	}

	if len(toDelete) > 0 {
		if err := c.client.Del(ctx, toDelete...).Err(); err != nil {
			return fmt.Errorf("redis error bulk-invalidating credential cache: %w", err)
		}
	}

	c.logger.Debug("Invalidated cached credentials for client",
		zap.String("client_id", clientID.String()),
		zap.Int("entries", len(toDelete)),
	)
	return nil
}

func clientIndexKey(clientID uuid.UUID, keyHash string) string {
	return clientIndexPrefix + clientID.String() + ":" + keyHash
}
