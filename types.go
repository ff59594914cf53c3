package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator holds the token lifecycle operations exposed to callers.
// Every operation returns a Result; expected failures never surface as errors.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) Result[string]
	VerifyToken(token string) Result[string]
	ResolveUser(ctx context.Context, token string) Result[*User]
	Refresh(ctx context.Context, token string) Result[string]
}

// TokenService issues and validates signed tokens
type TokenService interface {
	Issue(username string) (string, error)
	DecodeAndValidate(token string) Result[*TokenClaims]
	DecodeIgnoringExpiry(token string) Result[*TokenClaims]
}

// Config holds auth options. Token expiration is expressed in minutes.
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetAuthScheme() string
}

// UserStore is the lookup collaborator consumed by the auth core. Absent
// users surface as a not-found error, storage failures as anything else.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
