package apikey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	k := &APIKey{KeyPrefix: "sk_live", KeyLastChars: "a9x2"}

	assert.Equal(t, "sk_live_****a9x2", k.Preview())
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Second)
	future := now.Add(time.Second)

	assert.False(t, (&APIKey{}).IsExpired(now), "no expiry timestamp means never expires")
	assert.True(t, (&APIKey{ExpiresAt: &past}).IsExpired(now))
	assert.False(t, (&APIKey{ExpiresAt: &future}).IsExpired(now))
}

func TestParseScopes(t *testing.T) {
	scopes, _, ok := ParseScopes([]string{"keywords:read", "admin:*"})
	require.True(t, ok)
	assert.Equal(t, []Scope{ScopeKeywordsRead, ScopeAdminFull}, scopes)

	_, bad, ok := ParseScopes([]string{"keywords:read", "keywords:admin"})
	assert.False(t, ok)
	assert.Equal(t, "keywords:admin", bad)
}

func TestScopeValid(t *testing.T) {
	assert.True(t, ScopeBacklinksRead.Valid())
	assert.False(t, Scope("backlinks:write").Valid())
	assert.False(t, Scope("").Valid())
}
