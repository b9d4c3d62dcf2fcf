package user

import (
	"fmt"
	"unicode"
)

const (
	minPasswordLength = 8
	// bcrypt truncates input beyond 72 bytes, so longer passwords would
	// silently lose entropy.
	maxPasswordLength = 72
)

// ValidatePasswordStrength enforces the account password policy. The
// returned error names the violated rule and is safe to show to the caller.
func ValidatePasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("password must contain at least one letter and one digit")
	}
	return nil
}
