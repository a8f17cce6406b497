package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAPIKeyRequest struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	Environment      string   `json:"environment" binding:"omitempty,oneof=production test"`
	Scopes           []string `json:"scopes" binding:"required,min=1"`
	AllowedIPs       []string `json:"allowed_ips"`
	AllowedDomainIDs []int64  `json:"allowed_domain_ids"`
	ExpiresInDays    *int     `json:"expires_in_days" binding:"omitempty,gt=0"`
}

// CreateAPIKeyResponse is the only place the plaintext key ever appears.
type CreateAPIKeyResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	KeyPreview       string     `json:"key_preview"`
	FullKey          string     `json:"full_key"`
	Status           string     `json:"status"`
	Scopes           []string   `json:"scopes"`
	AllowedIPs       []string   `json:"allowed_ips,omitempty"`
	AllowedDomainIDs []int64    `json:"allowed_domain_ids,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	Warning          string     `json:"warning"`
}

type APIKeyListItem struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	KeyPreview    string     `json:"key_preview"`
	Status        string     `json:"status"`
	Scopes        []string   `json:"scopes"`
	CreatedAt     time.Time  `json:"created_at"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	TotalRequests int64      `json:"total_requests"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}
