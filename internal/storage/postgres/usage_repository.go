package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seolytics/seo-api/internal/domain/usage"
	"go.uber.org/zap"
)

type UsageRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUsageRepository(db *pgxpool.Pool, logger *zap.Logger) *UsageRepository {
	return &UsageRepository{
		db:     db,
		logger: logger.Named("UsageRepository"),
	}
}

var _ usage.Repository = (*UsageRepository)(nil)

func (r *UsageRepository) Insert(ctx context.Context, rec *usage.Record) error {
	query := `
		INSERT INTO usage_logs (client_id, api_key_id, endpoint, method, status_code, ip_address, user_agent, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		rec.ClientID,
		rec.APIKeyID,
		rec.Endpoint,
		rec.Method,
		rec.StatusCode,
		rec.IPAddress,
		rec.UserAgent,
		rec.ResponseTimeMS,
	)
	if err != nil {
		return fmt.Errorf("db error inserting usage log: %w", err)
	}
	return nil
}

func (r *UsageRepository) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*usage.Record, error) {
	query := `
		SELECT id, client_id, api_key_id, endpoint, method, status_code, ip_address, user_agent, response_time_ms, created_at
		FROM usage_logs
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list usage logs", zap.String("client_id", clientID.String()), zap.Error(err))
		return nil, fmt.Errorf("db error listing usage logs: %w", err)
	}
	defer rows.Close()

	var records []*usage.Record
	for rows.Next() {
		var rec usage.Record
		err := rows.Scan(
			&rec.ID,
			&rec.ClientID,
			&rec.APIKeyID,
			&rec.Endpoint,
			&rec.Method,
			&rec.StatusCode,
			&rec.IPAddress,
			&rec.UserAgent,
			&rec.ResponseTimeMS,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("db error scanning usage log row: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (r *UsageRepository) Summarize(ctx context.Context, clientID uuid.UUID) (*usage.Summary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= date_trunc('day', NOW())),
			COALESCE(AVG(response_time_ms) FILTER (WHERE created_at >= NOW() - INTERVAL '7 days'), 0)
		FROM usage_logs
		WHERE client_id = $1
	`
	var s usage.Summary
	if err := r.db.QueryRow(ctx, query, clientID).Scan(&s.RequestsToday, &s.AvgResponseTimeMS); err != nil {
		r.logger.Error("Failed to summarize usage", zap.String("client_id", clientID.String()), zap.Error(err))
		return nil, fmt.Errorf("db error summarizing usage: %w", err)
	}
	return &s, nil
}
