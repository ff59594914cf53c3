package auth

import (
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// DefaultTokenExpiration is the token validity window in minutes used when
// no value is configured.
const DefaultTokenExpiration = 30

// SimpleConfig is a concrete Config. Construct it explicitly and pass it to
// NewAuthenticator; the auth components never reach for process state on
// their own.
type SimpleConfig struct {
	SigningKey      string
	SigningMethod   string
	TokenExpiration int
	Issuer          string
	Audience        []string
	AuthScheme      string
}

var _ Config = (*SimpleConfig)(nil)

// NewConfigFromEnv loads a SimpleConfig from the environment and validates
// it. A missing or malformed value is a startup error, never a runtime
// Result.
//
// Variables: AUTH_SIGNING_KEY, AUTH_SIGNING_METHOD, AUTH_TOKEN_EXPIRATION
// (minutes), AUTH_ISSUER, AUTH_AUDIENCE (comma separated).
func NewConfigFromEnv() (*SimpleConfig, error) {
	cfg := &SimpleConfig{
		SigningKey:      os.Getenv("AUTH_SIGNING_KEY"),
		SigningMethod:   os.Getenv("AUTH_SIGNING_METHOD"),
		TokenExpiration: DefaultTokenExpiration,
		Issuer:          os.Getenv("AUTH_ISSUER"),
	}

	if raw := os.Getenv("AUTH_TOKEN_EXPIRATION"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			return nil, validation.NewInternalError(err)
		}
		cfg.TokenExpiration = minutes
	}

	if raw := os.Getenv("AUTH_AUDIENCE"); raw != "" {
		for _, aud := range strings.Split(raw, ",") {
			if aud = strings.TrimSpace(aud); aud != "" {
				cfg.Audience = append(cfg.Audience, aud)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate will run validation rules
func (c SimpleConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SigningKey, validation.Required),
		validation.Field(&c.SigningMethod, validation.In("", "HS256", "HS384", "HS512")),
		validation.Field(&c.TokenExpiration, validation.Required, validation.Min(1)),
	)
}

func (c *SimpleConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *SimpleConfig) GetSigningMethod() string {
	if c.SigningMethod == "" {
		return "HS256"
	}
	return c.SigningMethod
}

func (c *SimpleConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return c.TokenExpiration
}

func (c *SimpleConfig) GetIssuer() string {
	return c.Issuer
}

func (c *SimpleConfig) GetAudience() []string {
	return c.Audience
}

func (c *SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return "Bearer"
	}
	return c.AuthScheme
}
