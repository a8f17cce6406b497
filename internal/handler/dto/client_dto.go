package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateClientRequest struct {
	Name               string `json:"name" binding:"required"`
	Company            string `json:"company"`
	Email              string `json:"email" binding:"required,email"`
	MaxAPIKeys         *int   `json:"max_api_keys" binding:"omitempty,gt=0"`
	RateLimitPerMinute *int   `json:"rate_limit_per_minute" binding:"omitempty,gt=0"`
	RateLimitPerDay    *int   `json:"rate_limit_per_day" binding:"omitempty,gt=0"`
}

type UpdateClientRequest struct {
	Name               *string `json:"name"`
	Company            *string `json:"company"`
	Email              *string `json:"email" binding:"omitempty,email"`
	IsActive           *bool   `json:"is_active"`
	MaxAPIKeys         *int    `json:"max_api_keys" binding:"omitempty,gt=0"`
	RateLimitPerMinute *int    `json:"rate_limit_per_minute" binding:"omitempty,gt=0"`
	RateLimitPerDay    *int    `json:"rate_limit_per_day" binding:"omitempty,gt=0"`
}

type ClientResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Company            string    `json:"company,omitempty"`
	Email              string    `json:"email"`
	IsActive           bool      `json:"is_active"`
	MaxAPIKeys         int       `json:"max_api_keys"`
	RateLimitPerMinute int       `json:"rate_limit_per_minute"`
	RateLimitPerDay    int       `json:"rate_limit_per_day"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ClientInfoResponse struct {
	Client       ClientResponse `json:"client"`
	APIKeyInfo   APIKeyInfo     `json:"api_key_info"`
	UsageSummary UsageSummary   `json:"usage_summary"`
}

type APIKeyInfo struct {
	Name          string     `json:"name"`
	KeyPreview    string     `json:"key_preview"`
	Scopes        []string   `json:"scopes"`
	TotalRequests int64      `json:"total_requests"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

type UsageSummary struct {
	RequestsToday     int64      `json:"requests_today"`
	AvgResponseTimeMS float64    `json:"avg_response_time_ms"`
	RateLimits        RateLimits `json:"rate_limits"`
}

type RateLimits struct {
	PerMinute int `json:"per_minute"`
	PerDay    int `json:"per_day"`
}
