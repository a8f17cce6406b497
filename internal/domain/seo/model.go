package seo

import (
	"time"

	"github.com/google/uuid"
)

// Domain is a monitored site. SEO resources use sequential int64 ids so an
// API key's allowed-domain restriction stays a compact integer list.
type Domain struct {
	ID       int64     `db:"id"`
	ClientID uuid.UUID `db:"client_id"`

	URL  string `db:"url"`
	Name string `db:"name"`

	IsActive bool `db:"is_active"`

	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	LastCrawledAt *time.Time `db:"last_crawled_at"`
}

type Keyword struct {
	ID       int64 `db:"id"`
	DomainID int64 `db:"domain_id"`

	Keyword           string  `db:"keyword"`
	SearchVolume      int     `db:"search_volume"`
	KeywordDifficulty float64 `db:"keyword_difficulty"`
	CPC               float64 `db:"cpc"`
	Competition       string  `db:"competition"`

	Source string `db:"source"`

	CreatedAt   time.Time `db:"created_at"`
	LastUpdated time.Time `db:"last_updated"`
}

type Ranking struct {
	ID        int64  `db:"id"`
	DomainID  int64  `db:"domain_id"`
	KeywordID *int64 `db:"keyword_id"`

	Keyword          string `db:"keyword"`
	Position         int    `db:"position"`
	PreviousPosition int    `db:"previous_position"`
	URL              string `db:"url"`

	EstimatedTraffic float64 `db:"estimated_traffic"`
	VisibilityScore  float64 `db:"visibility_score"`

	SearchEngine string `db:"search_engine"`
	Location     string `db:"location"`
	Device       string `db:"device"`
	Source       string `db:"source"`

	CheckedAt time.Time `db:"checked_at"`
}

type Backlink struct {
	ID       int64 `db:"id"`
	DomainID int64 `db:"domain_id"`

	SourceURL       string `db:"source_url"`
	TargetURL       string `db:"target_url"`
	ReferringDomain string `db:"referring_domain"`

	AuthorityScore int    `db:"authority_score"`
	AnchorText     string `db:"anchor_text"`
	LinkType       string `db:"link_type"`

	IsActive bool `db:"is_active"`

	FirstSeen *time.Time `db:"first_seen"`
	LastSeen  *time.Time `db:"last_seen"`
	Source    string     `db:"source"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
