package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// APIKeyPrefix marks static API keys on the Authorization header. Any
// bearer credential without this prefix is treated as a session token.
const APIKeyPrefix = "sk-"

// GenerateAPIKey mints a new random API key.
func GenerateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate key material: %w", err)
	}
	return APIKeyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// IsAPIKey reports whether the credential carries the static key prefix.
func IsAPIKey(credential string) bool {
	return strings.HasPrefix(credential, APIKeyPrefix)
}
