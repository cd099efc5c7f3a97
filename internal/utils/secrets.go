package utils

import "crypto/hmac"

// SecureCompare compares two secrets in constant time. Used for webhook
// bearer tokens so a mismatch never leaks prefix length via timing.
func SecureCompare(got, want string) bool {
	return hmac.Equal([]byte(got), []byte(want))
}
