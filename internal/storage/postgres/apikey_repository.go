package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/ierr"
	"go.uber.org/zap"
)

type APIKeyRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAPIKeyRepository(db *pgxpool.Pool, logger *zap.Logger) *APIKeyRepository {
	return &APIKeyRepository{
		db:     db,
		logger: logger.Named("APIKeyRepository"),
	}
}

var _ apikey.Repository = (*APIKeyRepository)(nil)

const apiKeyColumns = `
	id, client_id, key_prefix, key_hash, key_last_chars, name, description,
	status, scopes, allowed_ips, allowed_domain_ids, expires_at,
	last_used_at, total_requests, created_at, revoked_at
`

func scanAPIKey(row pgx.Row) (*apikey.APIKey, error) {
	var key apikey.APIKey
	var scopes []string

	err := row.Scan(
		&key.ID,
		&key.ClientID,
		&key.KeyPrefix,
		&key.KeyHash,
		&key.KeyLastChars,
		&key.Name,
		&key.Description,
		&key.Status,
		&scopes,
		&key.AllowedIPs,
		&key.AllowedDomainIDs,
		&key.ExpiresAt,
		&key.LastUsedAt,
		&key.TotalRequests,
		&key.CreatedAt,
		&key.RevokedAt,
	)
	if err != nil {
		return nil, err
	}

	key.Scopes = make([]apikey.Scope, len(scopes))
	for i, s := range scopes {
		key.Scopes[i] = apikey.Scope(s)
	}
	return &key, nil
}

func (r *APIKeyRepository) Create(ctx context.Context, key *apikey.APIKey) (uuid.UUID, error) {
	query := `
		INSERT INTO api_keys (
			client_id, key_prefix, key_hash, key_last_chars, name, description,
			status, scopes, allowed_ips, allowed_domain_ids, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	var insertedID uuid.UUID
	err := r.db.QueryRow(ctx, query,
		key.ClientID,
		key.KeyPrefix,
		key.KeyHash,
		key.KeyLastChars,
		key.Name,
		key.Description,
		key.Status,
		apikey.ScopeStrings(key.Scopes),
		key.AllowedIPs,
		key.AllowedDomainIDs,
		key.ExpiresAt,
	).Scan(&insertedID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn("Failed to create API key due to unique constraint violation",
				zap.String("constraint", pgErr.ConstraintName),
			)
			return uuid.Nil, fmt.Errorf("%w: api key hash collision (%s)", ierr.ErrConflict, pgErr.ConstraintName)
		}
		r.logger.Error("Failed to create api key in database", zap.Error(err))
		return uuid.Nil, fmt.Errorf("db error creating api key: %w", err)
	}

	r.logger.Info("API key created", zap.String("id", insertedID.String()), zap.String("prefix", key.KeyPrefix))
	return insertedID, nil
}

func (r *APIKeyRepository) FindByID(ctx context.Context, id uuid.UUID) (*apikey.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE id = $1`
	key, err := scanAPIKey(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ierr.ErrAPIKeyNotFound
		}
		r.logger.Error("Failed to find api key by id", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("db error finding api key: %w", err)
	}
	return key, nil
}

func (r *APIKeyRepository) FindByHash(ctx context.Context, keyHash string) (*apikey.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE key_hash = $1`
	key, err := scanAPIKey(r.db.QueryRow(ctx, query, keyHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("API key not found by hash")
			return nil, ierr.ErrAPIKeyNotFound
		}
		r.logger.Error("Failed to find api key by hash", zap.Error(err))
		return nil, fmt.Errorf("db error finding api key: %w", err)
	}
	return key, nil
}

func (r *APIKeyRepository) ListByClient(ctx context.Context, clientID uuid.UUID, status *apikey.Status) ([]*apikey.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE client_id = $1`
	args := []interface{}{clientID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list api keys", zap.String("client_id", clientID.String()), zap.Error(err))
		return nil, fmt.Errorf("db error listing api keys: %w", err)
	}
	defer rows.Close()

	var keys []*apikey.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("db error scanning api key row: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *APIKeyRepository) CountActiveByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM api_keys WHERE client_id = $1 AND status = $2`
	var count int
	if err := r.db.QueryRow(ctx, query, clientID, apikey.StatusActive).Scan(&count); err != nil {
		r.logger.Error("Failed to count active api keys", zap.String("client_id", clientID.String()), zap.Error(err))
		return 0, fmt.Errorf("db error counting api keys: %w", err)
	}
	return count, nil
}

func (r *APIKeyRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE api_keys
		SET status = $1, revoked_at = NOW()
		WHERE id = $2 AND status = $3
	`
	cmdTag, err := r.db.Exec(ctx, query, apikey.StatusRevoked, id, apikey.StatusActive)
	if err != nil {
		r.logger.Error("Failed to revoke api key", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("db error revoking api key: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ierr.ErrAPIKeyNotFound
	}
	r.logger.Info("API key revoked", zap.String("id", id.String()))
	return nil
}

func (r *APIKeyRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	// Restricted to active rows so the transition is idempotent and never
	// resurrects a revoked key.
	query := `UPDATE api_keys SET status = $1 WHERE id = $2 AND status = $3`
	_, err := r.db.Exec(ctx, query, apikey.StatusExpired, id, apikey.StatusActive)
	if err != nil {
		r.logger.Error("Failed to mark api key expired", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("db error expiring api key: %w", err)
	}
	return nil
}

func (r *APIKeyRepository) RecordUsage(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	query := `
		UPDATE api_keys
		SET last_used_at = $1, total_requests = total_requests + 1
		WHERE id = $2
	`
	cmdTag, err := r.db.Exec(ctx, query, usedAt, id)
	if err != nil {
		return fmt.Errorf("db error recording api key usage: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("API key not found when recording usage", zap.String("id", id.String()))
	}
	return nil
}

func (r *APIKeyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete api key", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("db error deleting api key: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ierr.ErrAPIKeyNotFound
	}
	r.logger.Info("API key deleted", zap.String("id", id.String()))
	return nil
}

func (r *APIKeyRepository) ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]*apikey.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + `
		FROM api_keys
		WHERE status = $1 AND expires_at IS NOT NULL AND expires_at < $2
		ORDER BY expires_at ASC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, apikey.StatusActive, now, limit)
	if err != nil {
		r.logger.Error("Failed to list expired active api keys", zap.Error(err))
		return nil, fmt.Errorf("db error listing expired api keys: %w", err)
	}
	defer rows.Close()

	var keys []*apikey.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, fmt.Errorf("db error scanning api key row: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
