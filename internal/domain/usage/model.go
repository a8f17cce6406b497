package usage

import (
	"time"

	"github.com/google/uuid"
)

// Record is one immutable row per completed request. Rows are append-only;
// nothing in the service mutates or deletes them.
type Record struct {
	ID       uuid.UUID `db:"id"`
	ClientID uuid.UUID `db:"client_id"`
	APIKeyID uuid.UUID `db:"api_key_id"`

	Endpoint   string `db:"endpoint"`
	Method     string `db:"method"`
	StatusCode int    `db:"status_code"`

	IPAddress      string `db:"ip_address"`
	UserAgent      string `db:"user_agent"`
	ResponseTimeMS int64  `db:"response_time_ms"`

	CreatedAt time.Time `db:"created_at"`
}

// Summary aggregates recent usage for the /me endpoint.
type Summary struct {
	RequestsToday     int64
	AvgResponseTimeMS float64
}
