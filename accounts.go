package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Accounts implements account management under the same Result discipline as
// the auth core: registration, password changes, profile patches, deletion.
type Accounts struct {
	repo   RepositoryManager
	logger Logger
}

// NewAccounts will create a new Accounts service
func NewAccounts(repo RepositoryManager) *Accounts {
	if repo == nil {
		panic("Missing RepositoryManager in accounts service...")
	}

	return &Accounts{
		repo:   repo,
		logger: defLogger{},
	}
}

func (a *Accounts) WithLogger(logger Logger) *Accounts {
	a.logger = logger
	return a
}

// RegisterUser creates a new account. An existing username fails with
// StatusUserAlreadyExists; the password is hashed before it ever reaches
// the repository.
func (a *Accounts) RegisterUser(ctx context.Context, username, password string) Result[*User] {
	taken, err := a.repo.Users().Exists(ctx, username)
	if err != nil {
		a.logger.Error("register exists check failed: %v", err)
		return Failure[*User](StatusDBConnectionFailed)
	}

	if taken {
		return Failure[*User](StatusUserAlreadyExists, fmt.Sprintf("Username %q is already taken", username))
	}

	hash, err := HashPassword(password)
	if err != nil {
		return Failure[*User](StatusWrongPassword, "Password could not be processed")
	}

	user := &User{
		Username:     username,
		PasswordHash: hash,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = a.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err = a.repo.Users().RegisterTx(ctx, tx, user)
		return err
	})
	if err != nil {
		a.logger.Error("register create failed: %v", err)
		return Failure[*User](StatusDBConnectionFailed)
	}

	return Success(user, "User registered successfully")
}

// ChangePassword verifies the current password before storing a new hash.
func (a *Accounts) ChangePassword(ctx context.Context, id string, oldPassword, newPassword string) Result[*User] {
	user, err := a.repo.Users().GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return Failure[*User](StatusUserNotFound)
		}
		a.logger.Error("change password lookup failed: %v", err)
		return Failure[*User](StatusDBConnectionFailed)
	}

	if err := ComparePasswordAndHash(oldPassword, user.PasswordHash); err != nil {
		return Failure[*User](StatusWrongPassword, "Current password is incorrect")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return Failure[*User](StatusWrongPassword, "Password could not be processed")
	}

	if err := a.repo.Users().UpdatePassword(ctx, user.ID, hash); err != nil {
		if errors.IsNotFound(err) {
			return Failure[*User](StatusUserNotFound)
		}
		a.logger.Error("change password update failed: %v", err)
		return Failure[*User](StatusDBConnectionFailed)
	}

	return Success[*User](nil, "Password changed successfully")
}

// UpdateProfile applies an explicit patch. The patch structure enumerates
// the only updatable fields, so unknown fields never reach this layer.
func (a *Accounts) UpdateProfile(ctx context.Context, id string, patch UserPatch) Result[*User] {
	user, err := a.repo.Users().GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return Failure[*User](StatusUserNotFound)
		}
		a.logger.Error("update profile lookup failed: %v", err)
		return Failure[*User](StatusDBConnectionFailed)
	}

	if patch.IsEmpty() {
		return Success(user)
	}

	username := *patch.Username
	if username != user.Username {
		taken, err := a.repo.Users().Exists(ctx, username)
		if err != nil {
			a.logger.Error("update profile exists check failed: %v", err)
			return Failure[*User](StatusDBConnectionFailed)
		}
		if taken {
			return Failure[*User](StatusUserAlreadyExists, fmt.Sprintf("Username %q is already taken", username))
		}
	}

	updated, err := a.repo.Users().UpdateUsername(ctx, user.ID, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return Failure[*User](StatusUserNotFound)
		}
		a.logger.Error("update profile failed: %v", err)
		return Failure[*User](StatusDBConnectionFailed)
	}

	return Success(updated, "Profile updated successfully")
}

// DeleteAccount permanently removes the user.
func (a *Accounts) DeleteAccount(ctx context.Context, id string) Result[*User] {
	user, err := a.repo.Users().GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return Failure[*User](StatusUserNotFound)
		}
		a.logger.Error("delete account lookup failed: %v", err)
		return Failure[*User](StatusDBConnectionFailed)
	}

	if err := a.repo.Users().Remove(ctx, user.ID); err != nil {
		if errors.IsNotFound(err) {
			return Failure[*User](StatusUserNotFound)
		}
		a.logger.Error("delete account failed: %v", err)
		return Failure[*User](StatusDBConnectionFailed)
	}

	if actor, ok := FromContext(ctx); ok {
		a.logger.Info("account %s deleted by %s", id, actor.Username)
	}

	return Success[*User](nil, "Account deleted successfully")
}

// GetUser fetches a user by id.
func (a *Accounts) GetUser(ctx context.Context, id string) Result[*User] {
	user, err := a.repo.Users().GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return Failure[*User](StatusUserNotFound)
		}
		a.logger.Error("get user lookup failed: %v", err)
		return Failure[*User](StatusDBConnectionFailed)
	}

	return Success(user)
}

// ListUsers returns every account ordered by creation time.
func (a *Accounts) ListUsers(ctx context.Context) Result[[]*User] {
	records, err := a.repo.Users().ListAll(ctx)
	if err != nil {
		a.logger.Error("list users failed: %v", err)
		return Failure[[]*User](StatusDBConnectionFailed)
	}

	return Success(records)
}
