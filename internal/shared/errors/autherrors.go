package errors

import (
	stderrors "errors"
	"net/http"
)

// Authentication-specific error types
const (
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"
	ErrorTypeAccountLocked      ErrorType = "account_locked"
	ErrorTypeChallengeFailed    ErrorType = "challenge_failed"
	ErrorTypeMaintenanceMode    ErrorType = "maintenance_mode"
	ErrorTypeTokenInvalid       ErrorType = "token_invalid"
	ErrorTypeNoPasskeys         ErrorType = "no_passkeys"
)

// AuthError wraps AppError with security-relevant context so handlers can
// decide what to log without parsing messages.
type AuthError struct {
	*AppError
	// ShouldLog is false for expected failures (bad password) that would
	// otherwise flood the logs.
	ShouldLog bool
	// SecurityEvent marks errors worth tracking for abuse detection.
	SecurityEvent bool
}

func (e *AuthError) Error() string {
	return e.AppError.Error()
}

func (e *AuthError) Unwrap() error {
	return e.AppError
}

// NewInvalidCredentialsError is returned for every login failure regardless
// of the underlying cause (unknown username, wrong password, disabled
// password login) so responses never reveal which accounts exist.
func NewInvalidCredentialsError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeInvalidCredentials,
			Message: "Invalid username or password",
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     false,
		SecurityEvent: true,
	}
}

// NewAccountLockedError is returned while the sliding lockout window is open.
func NewAccountLockedError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeAccountLocked,
			Message: "Too many failed login attempts, try again later",
			Code:    http.StatusTooManyRequests,
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// NewChallengeFailedError is returned when the bot challenge token is
// missing, invalid, or the verifier could not be reached (fail closed).
func NewChallengeFailedError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeChallengeFailed,
			Message: "Challenge verification failed",
			Code:    http.StatusBadRequest,
		},
		ShouldLog:     true,
		SecurityEvent: false,
	}
}

// NewMaintenanceModeError is returned to non-admin logins while the system
// is in maintenance mode.
func NewMaintenanceModeError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeMaintenanceMode,
			Message: "System is under maintenance",
			Code:    http.StatusServiceUnavailable,
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewTokenInvalidError creates an error for invalid or expired tokens.
func NewTokenInvalidError(tokenType string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenInvalid,
			Message: "Invalid " + tokenType,
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// NewNoPasskeysError reports that the named account has no registered
// passkeys. Distinct from not-found so the client can fall back to password
// login.
func NewNoPasskeysError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeNoPasskeys,
			Message: "No passkeys registered for this account",
			Code:    http.StatusBadRequest,
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// GetAuthError extracts AuthError from the error chain.
func GetAuthError(err error) *AuthError {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr
	}
	return nil
}

// ShouldLogAuthError reports whether an authentication failure deserves a
// log line. Defaults to true for anything that is not an AuthError.
func ShouldLogAuthError(err error) bool {
	if authErr := GetAuthError(err); authErr != nil {
		return authErr.ShouldLog
	}
	return true
}
