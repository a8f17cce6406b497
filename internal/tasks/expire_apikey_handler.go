package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"go.uber.org/zap"
)

const sweepBatchSize = 1000

// APIKeyExpireHandler is the periodic backstop behind lazy expiry: keys that
// pass their expiry timestamp without ever being presented again still get
// flipped to expired, and their cached entries dropped.
type APIKeyExpireHandler struct {
	repo   apikey.Repository
	cache  apikey.Cache
	logger *zap.Logger
}

func NewAPIKeyExpireHandler(repo apikey.Repository, cache apikey.Cache, logger *zap.Logger) *APIKeyExpireHandler {
	return &APIKeyExpireHandler{
		repo:   repo,
		cache:  cache,
		logger: logger.Named("APIKeyExpireHandler"),
	}
}

func (h *APIKeyExpireHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if t.Type() != TypeAPIKeyExpire {
		return fmt.Errorf("unexpected task type: %s", t.Type())
	}

	var p ExpireAPIKeyPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.logger.Error("Failed to unmarshal payload for API key expiration task", zap.Error(err), zap.ByteString("payload", t.Payload()))
		return fmt.Errorf("invalid payload: %v", err)
	}

	h.logger.Info("Processing API key expiration sweep...")

	now := time.Now().UTC()
	expiredCount := 0
	processedCount := 0

	for {
		keys, err := h.repo.ListExpiredActive(ctx, now, sweepBatchSize)
		if err != nil {
			h.logger.Error("Failed to list expired active API keys", zap.Error(err))
			return fmt.Errorf("repository error listing expired active keys: %w", err)
		}

		if len(keys) == 0 {
			break
		}

		processedCount += len(keys)

		for _, key := range keys {
			if err := h.repo.MarkExpired(ctx, key.ID); err != nil {
				h.logger.Error("Failed to mark API key expired",
					zap.String("key_id", key.ID.String()),
					zap.Error(err),
				)
				continue
			}
			expiredCount++

			if err := h.cache.Invalidate(ctx, key.KeyHash); err != nil {
				h.logger.Warn("Failed to invalidate cached entry for expired key",
					zap.String("key_id", key.ID.String()),
					zap.Error(err),
				)
			}
		}

		// MarkExpired removes keys from the active set, so the next batch
		// always starts from a fresh query.
		if len(keys) < sweepBatchSize {
			break
		}
	}

	h.logger.Info("API key expiration sweep finished",
		zap.Int("processed_keys", processedCount),
		zap.Int("marked_expired", expiredCount),
	)
	return nil
}
