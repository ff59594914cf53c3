package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Auther orchestrates the credential verifier and the token service. Token
// validity is recomputed from the token's own claims on every call: there is
// no server-side session state, so instances are safe for concurrent use and
// survive restarts.
type Auther struct {
	verifier *CredentialVerifier
	store    UserStore
	tokens   TokenService
	logger   Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store UserStore, cfg Config) *Auther {
	return &Auther{
		verifier: NewCredentialVerifier(store),
		store:    store,
		tokens:   NewTokenService(cfg, defLogger{}),
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	s.verifier = s.verifier.WithLogger(logger)
	return s
}

// WithTokenService overrides the token service, e.g. to inject a fixed
// clock in tests.
func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Authenticate verifies the credentials and issues a signed token. Verifier
// failures propagate with status and message unchanged.
func (s *Auther) Authenticate(ctx context.Context, username, password string) Result[string] {
	credentials := s.verifier.Verify(ctx, username, password)
	if credentials.IsFailure() {
		return ForwardFailure[string](credentials)
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		s.logger.Error("token issuance failed: %v", err)
		return Failure[string](StatusInvalidToken, "Could not issue token")
	}

	return Success(token, "Authentication successful")
}

// VerifyToken validates a token and returns the username it asserts.
func (s *Auther) VerifyToken(token string) Result[string] {
	decoded := s.tokens.DecodeAndValidate(token)
	if decoded.IsFailure() {
		return ForwardFailure[string](decoded)
	}

	return Success(decoded.Data().Username)
}

// ResolveUser validates the token and looks up the user it names. A valid
// token for a deleted account must not resolve, so this is the one place
// both token validity and account existence are required.
func (s *Auther) ResolveUser(ctx context.Context, token string) Result[*User] {
	verified := s.VerifyToken(token)
	if verified.IsFailure() {
		return ForwardFailure[*User](verified)
	}

	user, err := s.store.GetByUsername(ctx, verified.Data())
	if err != nil {
		if errors.IsNotFound(err) {
			return Failure[*User](StatusUserNotFound, "User associated with token not found")
		}
		s.logger.Error("resolve user lookup failed: %v", err)
		return Failure[*User](StatusDBConnectionFailed)
	}

	return Success(user, "User retrieved from token")
}

// Refresh exchanges a still-valid or expired-but-correctly-signed token for
// a fresh one (sliding-window refresh). A token with a bad signature is
// never refreshable regardless of its claimed expiry.
func (s *Auther) Refresh(ctx context.Context, token string) Result[string] {
	var username string

	decoded := s.tokens.DecodeAndValidate(token)
	switch {
	case decoded.IsSuccess():
		username = decoded.Data().Username

	case decoded.Status() == StatusTokenExpired:
		// The signature is still verified here; only the expiry check is
		// skipped.
		recovered := s.tokens.DecodeIgnoringExpiry(token)
		if recovered.IsFailure() {
			return ForwardFailure[string](recovered)
		}
		username = recovered.Data().Username

		if _, err := s.store.GetByUsername(ctx, username); err != nil {
			if errors.IsNotFound(err) {
				return Failure[string](StatusUserNotFound, "User \""+username+"\" no longer exists")
			}
			s.logger.Error("refresh user lookup failed: %v", err)
			return Failure[string](StatusDBConnectionFailed)
		}

	default:
		return ForwardFailure[string](decoded)
	}

	fresh, err := s.tokens.Issue(username)
	if err != nil {
		s.logger.Error("token re-issuance failed: %v", err)
		return Failure[string](StatusInvalidToken, "Could not issue token")
	}

	return Success(fresh, "Token refreshed successfully")
}
