package client

import (
	"time"

	"github.com/google/uuid"
)

// Client is a company, department or machine consumer that owns API keys.
// Deactivating a client blocks admission for all of its keys.
type Client struct {
	ID      uuid.UUID `db:"id"`
	Name    string    `db:"name"`
	Company string    `db:"company"`
	Email   string    `db:"email"`

	IsActive           bool `db:"is_active"`
	MaxAPIKeys         int  `db:"max_api_keys"`
	RateLimitPerMinute int  `db:"rate_limit_per_minute"`
	RateLimitPerDay    int  `db:"rate_limit_per_day"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
