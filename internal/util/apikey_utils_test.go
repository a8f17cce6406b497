package util

import (
	"strings"
	"testing"

	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey_Production(t *testing.T) {
	fullKey, keyHash, lastChars, err := GenerateAPIKey(apikey.EnvironmentProduction)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(fullKey, "sk_live_"))
	assert.Len(t, keyHash, apikey.KeyHashLength)
	assert.Len(t, lastChars, 4)
	assert.Equal(t, fullKey[len(fullKey)-4:], lastChars)
	assert.NotContains(t, fullKey, "=")
}

func TestGenerateAPIKey_Test(t *testing.T) {
	fullKey, _, _, err := GenerateAPIKey(apikey.EnvironmentTest)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(fullKey, "sk_test_"))
}

func TestGenerateAPIKey_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		fullKey, _, _, err := GenerateAPIKey(apikey.EnvironmentProduction)
		require.NoError(t, err)

		_, dup := seen[fullKey]
		require.False(t, dup, "generated a duplicate key")
		seen[fullKey] = struct{}{}
	}
}

func TestHashAPIKey_Deterministic(t *testing.T) {
	h1 := HashAPIKey("sk_live_somekey")
	h2 := HashAPIKey("sk_live_somekey")

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, apikey.KeyHashLength)

	for _, c := range h1 {
		assert.Contains(t, "0123456789abcdef", string(c))
	}
}

func TestHashAPIKey_DiffersPerKey(t *testing.T) {
	assert.NotEqual(t, HashAPIKey("sk_live_aaa"), HashAPIKey("sk_live_aab"))
}

func TestHashAPIKey_FixedLength(t *testing.T) {
	assert.Len(t, HashAPIKey("x"), apikey.KeyHashLength)
	assert.Len(t, HashAPIKey(strings.Repeat("x", 10_000)), apikey.KeyHashLength)
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "sk_live", KeyPrefix("sk_live_abc123"))
	assert.Equal(t, "sk_test", KeyPrefix("sk_test_abc123"))
	assert.Equal(t, "", KeyPrefix("garbage"))
	assert.Equal(t, "", KeyPrefix("sk_live"))
}
