package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seolytics/seo-api/internal/domain/client"
	"github.com/seolytics/seo-api/internal/ierr"
	"go.uber.org/zap"
)

type ClientRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewClientRepository(db *pgxpool.Pool, logger *zap.Logger) *ClientRepository {
	return &ClientRepository{
		db:     db,
		logger: logger.Named("ClientRepository"),
	}
}

var _ client.Repository = (*ClientRepository)(nil)

const clientColumns = `
	id, name, company, email, is_active, max_api_keys,
	rate_limit_per_minute, rate_limit_per_day, created_at, updated_at
`

func scanClient(row pgx.Row) (*client.Client, error) {
	var c client.Client
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Company,
		&c.Email,
		&c.IsActive,
		&c.MaxAPIKeys,
		&c.RateLimitPerMinute,
		&c.RateLimitPerDay,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) (uuid.UUID, error) {
	query := `
		INSERT INTO clients (name, company, email, is_active, max_api_keys, rate_limit_per_minute, rate_limit_per_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var insertedID uuid.UUID
	err := r.db.QueryRow(ctx, query,
		c.Name, c.Company, c.Email, c.IsActive, c.MaxAPIKeys, c.RateLimitPerMinute, c.RateLimitPerDay,
	).Scan(&insertedID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warn("Client email already registered", zap.String("email", c.Email))
			return uuid.Nil, ierr.ErrEmailTaken
		}
		r.logger.Error("Failed to create client", zap.Error(err))
		return uuid.Nil, fmt.Errorf("db error creating client: %w", err)
	}

	r.logger.Info("Client created", zap.String("id", insertedID.String()), zap.String("name", c.Name))
	return insertedID, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	c, err := scanClient(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ierr.ErrClientNotFound
		}
		r.logger.Error("Failed to find client by id", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("db error finding client: %w", err)
	}
	return c, nil
}

func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (*client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`
	c, err := scanClient(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ierr.ErrClientNotFound
		}
		r.logger.Error("Failed to find client by email", zap.Error(err))
		return nil, fmt.Errorf("db error finding client: %w", err)
	}
	return c, nil
}

func (r *ClientRepository) List(ctx context.Context, params client.ListParams) ([]*client.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients`
	args := []interface{}{}
	if params.IsActive != nil {
		query += ` WHERE is_active = $1`
		args = append(args, *params.IsActive)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, params.Limit, params.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list clients", zap.Error(err))
		return nil, fmt.Errorf("db error listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*client.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("db error scanning client row: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	query := `
		UPDATE clients
		SET name = $1, company = $2, email = $3, is_active = $4,
		    max_api_keys = $5, rate_limit_per_minute = $6, rate_limit_per_day = $7,
		    updated_at = NOW()
		WHERE id = $8
	`
	cmdTag, err := r.db.Exec(ctx, query,
		c.Name, c.Company, c.Email, c.IsActive, c.MaxAPIKeys, c.RateLimitPerMinute, c.RateLimitPerDay, c.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update client", zap.String("id", c.ID.String()), zap.Error(err))
		return fmt.Errorf("db error updating client: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ierr.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete client", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("db error deleting client: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ierr.ErrClientNotFound
	}
	r.logger.Info("Client deleted", zap.String("id", id.String()))
	return nil
}
