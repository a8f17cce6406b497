package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/seolytics/seo-api/internal/domain/usage"
	"github.com/seolytics/seo-api/internal/handler/dto"
	"go.uber.org/zap"
)

type UsageService struct {
	repo   usage.Repository
	logger *zap.Logger
}

func NewUsageService(repo usage.Repository, logger *zap.Logger) *UsageService {
	return &UsageService{
		repo:   repo,
		logger: logger.Named("UsageService"),
	}
}

func (s *UsageService) ListLogs(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*dto.UsageLogResponse, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	records, err := s.repo.ListByClient(ctx, clientID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.UsageLogResponse, len(records))
	for i, rec := range records {
		out[i] = &dto.UsageLogResponse{
			ID:             rec.ID,
			Endpoint:       rec.Endpoint,
			Method:         rec.Method,
			StatusCode:     rec.StatusCode,
			IPAddress:      rec.IPAddress,
			UserAgent:      rec.UserAgent,
			ResponseTimeMS: rec.ResponseTimeMS,
			CreatedAt:      rec.CreatedAt,
		}
	}
	return out, nil
}

func (s *UsageService) Summarize(ctx context.Context, clientID uuid.UUID) (*usage.Summary, error) {
	return s.repo.Summarize(ctx, clientID)
}
