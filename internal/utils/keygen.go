package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecret generates a random secret with the given prefix.
// Format: prefix_randomhex
func GenerateSecret(prefix string) (string, error) {
	b := make([]byte, 32) // 64 char hex
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b)), nil
}

// GenerateWebhookSecret generates a webhook shared secret: ks_secret_xxx
func GenerateWebhookSecret() (string, error) {
	return GenerateSecret("ks_secret")
}
