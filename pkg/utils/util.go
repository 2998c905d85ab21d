package util

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// PasetoKeySize is the symmetric key length of PASETO v2.local.
const PasetoKeySize = 32

// GenerateBase64Key returns size random bytes, base64 URL-encoded, suitable
// for PASETO_SECRET.
func GenerateBase64Key(size int) (string, error) {
	if size != PasetoKeySize {
		return "", fmt.Errorf("PASETO v2 local requires a %d-byte key, got %d", PasetoKeySize, size)
	}

	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate random key: %w", err)
	}

	return base64.URLEncoding.EncodeToString(key), nil
}
