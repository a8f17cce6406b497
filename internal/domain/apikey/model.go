package apikey

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
	StatusExpired Status = "expired"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentTest       Environment = "test"
)

const (
	PrefixLive = "sk_live"
	PrefixTest = "sk_test"

	// KeyHashLength is the length of the hex-encoded digest stored and
	// indexed in place of the plaintext key.
	KeyHashLength = 64

	SecretBytes = 32
)

// APIKey holds everything about a credential except the credential itself.
// The plaintext exists only at creation time; only its digest is stored.
type APIKey struct {
	ID       uuid.UUID `db:"id"`
	ClientID uuid.UUID `db:"client_id"`

	KeyPrefix    string `db:"key_prefix"`
	KeyHash      string `db:"key_hash"`
	KeyLastChars string `db:"key_last_chars"`

	Name        string `db:"name"`
	Description string `db:"description"`

	Status Status  `db:"status"`
	Scopes []Scope `db:"scopes"`

	AllowedIPs       []string `db:"allowed_ips"`
	AllowedDomainIDs []int64  `db:"allowed_domain_ids"`

	ExpiresAt *time.Time `db:"expires_at"`

	LastUsedAt    *time.Time `db:"last_used_at"`
	TotalRequests int64      `db:"total_requests"`

	CreatedAt time.Time  `db:"created_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

// Preview renders the display form of a key, e.g. "sk_live_****a9x2".
func (k *APIKey) Preview() string {
	return k.KeyPrefix + "_****" + k.KeyLastChars
}

// IsExpired reports whether the key carries an expiry timestamp in the past.
// Status transitions driven by this are done lazily by the verifier.
func (k *APIKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && k.ExpiresAt.Before(now)
}

// AllowsIP checks the optional IP allow-list. An empty list allows any caller.
func (k *APIKey) AllowsIP(ip string) bool {
	if len(k.AllowedIPs) == 0 {
		return true
	}
	for _, allowed := range k.AllowedIPs {
		if allowed == ip {
			return true
		}
	}
	return false
}

// AllowsDomain checks the optional resource restriction list. An empty list
// allows every domain the client owns.
func (k *APIKey) AllowsDomain(domainID int64) bool {
	if len(k.AllowedDomainIDs) == 0 {
		return true
	}
	for _, allowed := range k.AllowedDomainIDs {
		if allowed == domainID {
			return true
		}
	}
	return false
}
