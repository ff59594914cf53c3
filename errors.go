package auth

import (
	"errors"
	"strings"
)

// ErrNoEmptyString rejects empty input where a value is required
var ErrNoEmptyString = errors.New("value must not be an empty string")

// ErrMismatchedHashAndPassword is the error for failed password comparisons
var ErrMismatchedHashAndPassword = errors.New("hash and password mismatch")

// ErrMissingSigningKey signals an unusable token configuration at startup
var ErrMissingSigningKey = errors.New("signing key must not be empty")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
