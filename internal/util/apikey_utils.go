package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/seolytics/seo-api/internal/domain/apikey"
)

func generateRandomSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	str := base64.URLEncoding.EncodeToString(b)
	return strings.TrimRight(str, "="), nil
}

// GenerateAPIKey mints a fresh credential for the given environment.
// The returned fullKey is the only copy of the plaintext that will ever
// exist; callers hand it to the user once and persist only the hash.
func GenerateAPIKey(env apikey.Environment) (fullKey, keyHash, lastChars string, err error) {
	prefix := apikey.PrefixTest
	if env == apikey.EnvironmentProduction {
		prefix = apikey.PrefixLive
	}

	secret, err := generateRandomSecret(apikey.SecretBytes)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to generate key secret: %w", err)
	}

	fullKey = fmt.Sprintf("%s_%s", prefix, secret)
	keyHash = HashAPIKey(fullKey)
	lastChars = fullKey[len(fullKey)-4:]

	return fullKey, keyHash, lastChars, nil
}

// HashAPIKey derives the non-reversible fingerprint used for storage and
// lookup. Fixed output length regardless of input, so the column stays a
// 64-char indexed hex string and keys are never compared byte-wise.
func HashAPIKey(fullKey string) string {
	hashBytes := sha256.Sum256([]byte(fullKey))
	return fmt.Sprintf("%x", hashBytes)
}

// KeyPrefix extracts the environment prefix ("sk_live"/"sk_test") from a
// plaintext key without validating the rest of it.
func KeyPrefix(fullKey string) string {
	parts := strings.SplitN(fullKey, "_", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[0] + "_" + parts[1]
}
