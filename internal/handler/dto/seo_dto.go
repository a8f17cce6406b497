package dto

import "time"

type CreateDomainRequest struct {
	URL  string `json:"url" binding:"required,url"`
	Name string `json:"name" binding:"required"`
}

type UpdateDomainRequest struct {
	URL      *string `json:"url" binding:"omitempty,url"`
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

type DomainResponse struct {
	ID            int64      `json:"id"`
	URL           string     `json:"url"`
	Name          string     `json:"name"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastCrawledAt *time.Time `json:"last_crawled_at,omitempty"`
}

type CreateKeywordRequest struct {
	Keyword           string  `json:"keyword" binding:"required"`
	SearchVolume      int     `json:"search_volume" binding:"omitempty,gte=0"`
	KeywordDifficulty float64 `json:"keyword_difficulty" binding:"omitempty,gte=0,lte=100"`
	CPC               float64 `json:"cpc" binding:"omitempty,gte=0"`
	Competition       string  `json:"competition"`
	Source            string  `json:"source"`
}

type KeywordResponse struct {
	ID                int64     `json:"id"`
	DomainID          int64     `json:"domain_id"`
	Keyword           string    `json:"keyword"`
	SearchVolume      int       `json:"search_volume"`
	KeywordDifficulty float64   `json:"keyword_difficulty"`
	CPC               float64   `json:"cpc"`
	Competition       string    `json:"competition,omitempty"`
	Source            string    `json:"source"`
	CreatedAt         time.Time `json:"created_at"`
	LastUpdated       time.Time `json:"last_updated"`
}

type CreateRankingRequest struct {
	KeywordID        *int64  `json:"keyword_id"`
	Keyword          string  `json:"keyword" binding:"required"`
	Position         int     `json:"position" binding:"required,gt=0"`
	PreviousPosition int     `json:"previous_position" binding:"omitempty,gte=0"`
	URL              string  `json:"url"`
	EstimatedTraffic float64 `json:"estimated_traffic" binding:"omitempty,gte=0"`
	VisibilityScore  float64 `json:"visibility_score" binding:"omitempty,gte=0"`
	SearchEngine     string  `json:"search_engine"`
	Location         string  `json:"location"`
	Device           string  `json:"device" binding:"omitempty,oneof=desktop mobile"`
	Source           string  `json:"source"`
}

type RankingResponse struct {
	ID               int64     `json:"id"`
	DomainID         int64     `json:"domain_id"`
	KeywordID        *int64    `json:"keyword_id,omitempty"`
	Keyword          string    `json:"keyword"`
	Position         int       `json:"position"`
	PreviousPosition int       `json:"previous_position"`
	URL              string    `json:"url,omitempty"`
	EstimatedTraffic float64   `json:"estimated_traffic"`
	VisibilityScore  float64   `json:"visibility_score"`
	SearchEngine     string    `json:"search_engine"`
	Location         string    `json:"location"`
	Device           string    `json:"device"`
	Source           string    `json:"source"`
	CheckedAt        time.Time `json:"checked_at"`
}

type CreateBacklinkRequest struct {
	SourceURL       string     `json:"source_url" binding:"required,url"`
	TargetURL       string     `json:"target_url" binding:"required,url"`
	ReferringDomain string     `json:"referring_domain"`
	AuthorityScore  int        `json:"authority_score" binding:"omitempty,gte=0,lte=100"`
	AnchorText      string     `json:"anchor_text"`
	LinkType        string     `json:"link_type" binding:"omitempty,oneof=dofollow nofollow"`
	FirstSeen       *time.Time `json:"first_seen"`
	LastSeen        *time.Time `json:"last_seen"`
	Source          string     `json:"source"`
}

type BacklinkResponse struct {
	ID              int64      `json:"id"`
	DomainID        int64      `json:"domain_id"`
	SourceURL       string     `json:"source_url"`
	TargetURL       string     `json:"target_url"`
	ReferringDomain string     `json:"referring_domain,omitempty"`
	AuthorityScore  int        `json:"authority_score"`
	AnchorText      string     `json:"anchor_text,omitempty"`
	LinkType        string     `json:"link_type"`
	IsActive        bool       `json:"is_active"`
	FirstSeen       *time.Time `json:"first_seen,omitempty"`
	LastSeen        *time.Time `json:"last_seen,omitempty"`
	Source          string     `json:"source"`
	CreatedAt       time.Time  `json:"created_at"`
}
