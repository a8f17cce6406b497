package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seolytics/seo-api/internal/domain/seo"
	"github.com/seolytics/seo-api/internal/ierr"
	"go.uber.org/zap"
)

type SEORepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSEORepository(db *pgxpool.Pool, logger *zap.Logger) *SEORepository {
	return &SEORepository{
		db:     db,
		logger: logger.Named("SEORepository"),
	}
}

var _ seo.Repository = (*SEORepository)(nil)

func (r *SEORepository) CreateDomain(ctx context.Context, d *seo.Domain) (int64, error) {
	query := `
		INSERT INTO domains (client_id, url, name, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, d.ClientID, d.URL, d.Name, d.IsActive).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: domain url already registered", ierr.ErrConflict)
		}
		r.logger.Error("Failed to create domain", zap.String("url", d.URL), zap.Error(err))
		return 0, fmt.Errorf("db error creating domain: %w", err)
	}
	return id, nil
}

func (r *SEORepository) FindDomain(ctx context.Context, id int64) (*seo.Domain, error) {
	query := `
		SELECT id, client_id, url, name, is_active, created_at, updated_at, last_crawled_at
		FROM domains WHERE id = $1
	`
	var d seo.Domain
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.ClientID, &d.URL, &d.Name, &d.IsActive, &d.CreatedAt, &d.UpdatedAt, &d.LastCrawledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ierr.ErrDomainNotFound
		}
		r.logger.Error("Failed to find domain", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("db error finding domain: %w", err)
	}
	return &d, nil
}

func (r *SEORepository) ListDomains(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*seo.Domain, error) {
	query := `
		SELECT id, client_id, url, name, is_active, created_at, updated_at, last_crawled_at
		FROM domains
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, clientID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list domains", zap.String("client_id", clientID.String()), zap.Error(err))
		return nil, fmt.Errorf("db error listing domains: %w", err)
	}
	defer rows.Close()

	var domains []*seo.Domain
	for rows.Next() {
		var d seo.Domain
		if err := rows.Scan(&d.ID, &d.ClientID, &d.URL, &d.Name, &d.IsActive, &d.CreatedAt, &d.UpdatedAt, &d.LastCrawledAt); err != nil {
			return nil, fmt.Errorf("db error scanning domain row: %w", err)
		}
		domains = append(domains, &d)
	}
	return domains, rows.Err()
}

func (r *SEORepository) UpdateDomain(ctx context.Context, d *seo.Domain) error {
	query := `
		UPDATE domains SET url = $1, name = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4
	`
	cmdTag, err := r.db.Exec(ctx, query, d.URL, d.Name, d.IsActive, d.ID)
	if err != nil {
		r.logger.Error("Failed to update domain", zap.Int64("id", d.ID), zap.Error(err))
		return fmt.Errorf("db error updating domain: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ierr.ErrDomainNotFound
	}
	return nil
}

func (r *SEORepository) DeleteDomain(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM domains WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete domain", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("db error deleting domain: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ierr.ErrDomainNotFound
	}
	return nil
}

func (r *SEORepository) CreateKeyword(ctx context.Context, k *seo.Keyword) (int64, error) {
	query := `
		INSERT INTO keywords (domain_id, keyword, search_volume, keyword_difficulty, cpc, competition, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		k.DomainID, k.Keyword, k.SearchVolume, k.KeywordDifficulty, k.CPC, k.Competition, k.Source,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to create keyword", zap.Int64("domain_id", k.DomainID), zap.Error(err))
		return 0, fmt.Errorf("db error creating keyword: %w", err)
	}
	return id, nil
}

func (r *SEORepository) ListKeywords(ctx context.Context, domainID int64, limit, offset int) ([]*seo.Keyword, error) {
	query := `
		SELECT id, domain_id, keyword, search_volume, keyword_difficulty, cpc, competition, source, created_at, last_updated
		FROM keywords
		WHERE domain_id = $1
		ORDER BY search_volume DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, domainID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list keywords", zap.Int64("domain_id", domainID), zap.Error(err))
		return nil, fmt.Errorf("db error listing keywords: %w", err)
	}
	defer rows.Close()

	var keywords []*seo.Keyword
	for rows.Next() {
		var k seo.Keyword
		if err := rows.Scan(&k.ID, &k.DomainID, &k.Keyword, &k.SearchVolume, &k.KeywordDifficulty, &k.CPC, &k.Competition, &k.Source, &k.CreatedAt, &k.LastUpdated); err != nil {
			return nil, fmt.Errorf("db error scanning keyword row: %w", err)
		}
		keywords = append(keywords, &k)
	}
	return keywords, rows.Err()
}

func (r *SEORepository) CreateRanking(ctx context.Context, rk *seo.Ranking) (int64, error) {
	query := `
		INSERT INTO rankings (domain_id, keyword_id, keyword, position, previous_position, url,
			estimated_traffic, visibility_score, search_engine, location, device, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		rk.DomainID, rk.KeywordID, rk.Keyword, rk.Position, rk.PreviousPosition, rk.URL,
		rk.EstimatedTraffic, rk.VisibilityScore, rk.SearchEngine, rk.Location, rk.Device, rk.Source,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to create ranking", zap.Int64("domain_id", rk.DomainID), zap.Error(err))
		return 0, fmt.Errorf("db error creating ranking: %w", err)
	}
	return id, nil
}

func (r *SEORepository) ListRankings(ctx context.Context, domainID int64, limit, offset int) ([]*seo.Ranking, error) {
	query := `
		SELECT id, domain_id, keyword_id, keyword, position, previous_position, url,
			estimated_traffic, visibility_score, search_engine, location, device, source, checked_at
		FROM rankings
		WHERE domain_id = $1
		ORDER BY checked_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, domainID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list rankings", zap.Int64("domain_id", domainID), zap.Error(err))
		return nil, fmt.Errorf("db error listing rankings: %w", err)
	}
	defer rows.Close()

	var rankings []*seo.Ranking
	for rows.Next() {
		var rk seo.Ranking
		if err := rows.Scan(&rk.ID, &rk.DomainID, &rk.KeywordID, &rk.Keyword, &rk.Position, &rk.PreviousPosition, &rk.URL,
			&rk.EstimatedTraffic, &rk.VisibilityScore, &rk.SearchEngine, &rk.Location, &rk.Device, &rk.Source, &rk.CheckedAt); err != nil {
			return nil, fmt.Errorf("db error scanning ranking row: %w", err)
		}
		rankings = append(rankings, &rk)
	}
	return rankings, rows.Err()
}

func (r *SEORepository) CreateBacklink(ctx context.Context, b *seo.Backlink) (int64, error) {
	query := `
		INSERT INTO backlinks (domain_id, source_url, target_url, referring_domain,
			authority_score, anchor_text, link_type, is_active, first_seen, last_seen, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		b.DomainID, b.SourceURL, b.TargetURL, b.ReferringDomain,
		b.AuthorityScore, b.AnchorText, b.LinkType, b.IsActive, b.FirstSeen, b.LastSeen, b.Source,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to create backlink", zap.Int64("domain_id", b.DomainID), zap.Error(err))
		return 0, fmt.Errorf("db error creating backlink: %w", err)
	}
	return id, nil
}

func (r *SEORepository) ListBacklinks(ctx context.Context, domainID int64, limit, offset int) ([]*seo.Backlink, error) {
	query := `
		SELECT id, domain_id, source_url, target_url, referring_domain,
			authority_score, anchor_text, link_type, is_active, first_seen, last_seen, source, created_at, updated_at
		FROM backlinks
		WHERE domain_id = $1
		ORDER BY authority_score DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, domainID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list backlinks", zap.Int64("domain_id", domainID), zap.Error(err))
		return nil, fmt.Errorf("db error listing backlinks: %w", err)
	}
	defer rows.Close()

	var backlinks []*seo.Backlink
	for rows.Next() {
		var b seo.Backlink
		if err := rows.Scan(&b.ID, &b.DomainID, &b.SourceURL, &b.TargetURL, &b.ReferringDomain,
			&b.AuthorityScore, &b.AnchorText, &b.LinkType, &b.IsActive, &b.FirstSeen, &b.LastSeen, &b.Source, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error scanning backlink row: %w", err)
		}
		backlinks = append(backlinks, &b)
	}
	return backlinks, rows.Err()
}
