package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	method     jwt.SigningMethod
	expiration time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
	now        func() time.Time
}

// NewTokenService creates a new TokenService instance. The configuration is
// trusted to be validated at startup; a missing key is a configuration error
// surfaced there, not a runtime Result.
func NewTokenService(cfg Config, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}

	var audience jwt.ClaimStrings
	if aud := cfg.GetAudience(); len(aud) > 0 {
		audience = make(jwt.ClaimStrings, len(aud))
		copy(audience, aud)
	}

	return &TokenServiceImpl{
		signingKey: []byte(cfg.GetSigningKey()),
		method:     signingMethod(cfg.GetSigningMethod()),
		expiration: time.Duration(cfg.GetTokenExpiration()) * time.Minute,
		issuer:     cfg.GetIssuer(),
		audience:   audience,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the wall clock used for issuance and expiry checks.
// Tests inject a fixed clock here to make expiry deterministic.
func (ts *TokenServiceImpl) WithClock(now func() time.Time) *TokenServiceImpl {
	if now != nil {
		ts.now = now
	}
	return ts
}

// Issue signs a token asserting the username and a fresh expiry. It has no
// expected failure path: signing with a present key only errors on a broken
// configuration.
func (ts *TokenServiceImpl) Issue(username string) (string, error) {
	if len(ts.signingKey) == 0 {
		return "", ErrMissingSigningKey
	}

	now := ts.now().UTC()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   username,
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.expiration)),
		},
		Username: username,
	}

	return jwt.NewWithClaims(ts.method, claims).SignedString(ts.signingKey)
}

// DecodeAndValidate verifies the signature, checks the claims are well
// formed, then checks expiry. Expired tokens are classified separately from
// invalid ones so callers can offer refresh instead of outright rejection.
func (ts *TokenServiceImpl) DecodeAndValidate(token string) Result[*TokenClaims] {
	return ts.decode(token)
}

// DecodeIgnoringExpiry recovers claims from an expired-but-otherwise-valid
// token. Only Refresh consumes this; signature verification is never skipped.
func (ts *TokenServiceImpl) DecodeIgnoringExpiry(token string) Result[*TokenClaims] {
	return ts.decode(token, jwt.WithoutClaimsValidation())
}

func (ts *TokenServiceImpl) decode(token string, opts ...jwt.ParserOption) Result[*TokenClaims] {
	claims := &TokenClaims{}

	parserOptions := append([]jwt.ParserOption{jwt.WithTimeFunc(ts.now)}, opts...)

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token decode encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	// Every library error maps into the closed status set; this call never
	// propagates a raw parser error.
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Failure[*TokenClaims](StatusTokenExpired, "Token has expired")
		}
		return Failure[*TokenClaims](StatusInvalidToken, "Invalid token: "+err.Error())
	}

	if !parsed.Valid {
		ts.logger.Error("token decode could not validate claims")
		return Failure[*TokenClaims](StatusInvalidToken)
	}

	if claims.Username == "" {
		return Failure[*TokenClaims](StatusInvalidToken, "Username not found in token")
	}

	return Success(claims)
}

func signingMethod(name string) jwt.SigningMethod {
	switch name {
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}
