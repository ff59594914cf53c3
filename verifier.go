package auth

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
)

// CredentialVerifier checks a username/password pair against the stored
// password hash. It never compares plaintext to plaintext and never returns
// or logs the hash.
type CredentialVerifier struct {
	store  UserStore
	logger Logger
}

// NewCredentialVerifier returns a verifier backed by the given store.
func NewCredentialVerifier(store UserStore) *CredentialVerifier {
	return &CredentialVerifier{
		store:  store,
		logger: defLogger{},
	}
}

func (v *CredentialVerifier) WithLogger(logger Logger) *CredentialVerifier {
	v.logger = logger
	return v
}

// Verify looks the user up and compares the password against the stored
// hash. Storage failures surface as StatusDBConnectionFailed, never as
// not-found.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) Result[*User] {
	user, err := v.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return Failure[*User](StatusUserNotFound, fmt.Sprintf("User %q not found", username))
		}
		v.logger.Error("credential verification lookup failed for %s: %v", username, err)
		return Failure[*User](StatusDBConnectionFailed)
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return Failure[*User](StatusWrongPassword, "Invalid password")
	}

	return Success(user, "Credentials verified")
}
