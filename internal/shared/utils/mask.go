package utils

import "strings"

// MaskedSecret is the placeholder returned in place of stored secrets.
// Update paths treat an incoming value equal to this as "keep the stored
// secret".
const MaskedSecret = "********"

// MaskSecret hides a secret for API responses and logs, keeping the last
// four characters as a recognition hint for operators.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return MaskedSecret
	}
	return MaskedSecret + secret[len(secret)-4:]
}

// IsMaskedSecret reports whether a submitted value is a masked placeholder
// rather than a new secret.
func IsMaskedSecret(value string) bool {
	return value != "" && strings.HasPrefix(value, MaskedSecret)
}
