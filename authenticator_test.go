package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	auth "github.com/JoJoTheBizarre/AgentR-backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuther(t *testing.T, store auth.UserStore, at time.Time) *auth.Auther {
	t.Helper()

	tokens := auth.NewTokenService(testConfig(), noopLogger{}).
		WithClock(fixedClock(at))

	return auth.NewAuthenticator(store, testConfig()).
		WithLogger(noopLogger{}).
		WithTokenService(tokens)
}

func TestAuther_Authenticate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	hash, err := auth.HashPassword("correcthorse123")
	require.NoError(t, err)

	alice := &auth.User{Username: "alice", PasswordHash: hash}

	t.Run("valid credentials yield a verifiable token", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil)

		auther := newTestAuther(t, store, now)
		res := auther.Authenticate(ctx, "alice", "correcthorse123")

		require.True(t, res.IsSuccess())
		assert.Equal(t, "Authentication successful", res.Message())

		verified := auther.VerifyToken(res.Data())
		require.True(t, verified.IsSuccess())
		assert.Equal(t, "alice", verified.Data())
	})

	t.Run("verifier failures forward unchanged", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "ghost").Return(nil, notFoundErr("ghost"))

		auther := newTestAuther(t, store, now)
		res := auther.Authenticate(ctx, "ghost", "whatever")

		require.True(t, res.IsFailure())
		assert.Equal(t, auth.StatusUserNotFound, res.Status())
		assert.Equal(t, `User "ghost" not found`, res.Message())
	})

	t.Run("wrong password forwards from the verifier", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil)

		auther := newTestAuther(t, store, now)
		res := auther.Authenticate(ctx, "alice", "nope")

		require.True(t, res.IsFailure())
		assert.Equal(t, auth.StatusWrongPassword, res.Status())
	})

	t.Run("issuance error maps to invalid_token", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil)

		tokens := &MockTokenService{}
		tokens.On("Issue", "alice").Return("", errors.New("boom"))

		auther := auth.NewAuthenticator(store, testConfig()).
			WithLogger(noopLogger{}).
			WithTokenService(tokens)

		res := auther.Authenticate(ctx, "alice", "correcthorse123")

		require.True(t, res.IsFailure())
		assert.Equal(t, auth.StatusInvalidToken, res.Status())
		assert.Equal(t, "Could not issue token", res.Message())
	})
}

func TestAuther_VerifyToken(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	hash, err := auth.HashPassword("correcthorse123")
	require.NoError(t, err)

	alice := &auth.User{Username: "alice", PasswordHash: hash}

	issue := func(t *testing.T, store auth.UserStore) string {
		t.Helper()
		auther := newTestAuther(t, store, now)
		res := auther.Authenticate(ctx, "alice", "correcthorse123")
		require.True(t, res.IsSuccess())
		return res.Data()
	}

	t.Run("valid token returns the username", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil)

		token := issue(t, store)

		auther := newTestAuther(t, store, now)
		res := auther.VerifyToken(token)

		require.True(t, res.IsSuccess())
		assert.Equal(t, "alice", res.Data())
	})

	t.Run("expired token classifies as token_expired", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil)

		token := issue(t, store)

		later := newTestAuther(t, store, now.Add(31*time.Minute))
		res := later.VerifyToken(token)

		require.True(t, res.IsFailure())
		assert.Equal(t, auth.StatusTokenExpired, res.Status())
	})

	t.Run("tampered token classifies as invalid_token", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil)

		token := issue(t, store)

		auther := newTestAuther(t, store, now)
		res := auther.VerifyToken(tamper(token))

		require.True(t, res.IsFailure())
		assert.Equal(t, auth.StatusInvalidToken, res.Status())
	})
}

func TestAuther_ResolveUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	hash, err := auth.HashPassword("correcthorse123")
	require.NoError(t, err)

	alice := &auth.User{Username: "alice", PasswordHash: hash}

	t.Run("valid token resolves the stored user", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil)

		auther := newTestAuther(t, store, now)
		token := auther.Authenticate(ctx, "alice", "correcthorse123")
		require.True(t, token.IsSuccess())

		res := auther.ResolveUser(ctx, token.Data())

		require.True(t, res.IsSuccess())
		assert.Equal(t, alice, res.Data())
	})

	t.Run("valid token for a deleted account does not resolve", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil).Once()

		auther := newTestAuther(t, store, now)
		token := auther.Authenticate(ctx, "alice", "correcthorse123")
		require.True(t, token.IsSuccess())

		// account removed between issuance and resolution
		store.On("GetByUsername", ctx, "alice").Return(nil, notFoundErr("alice"))

		res := auther.ResolveUser(ctx, token.Data())

		require.True(t, res.IsFailure())
		assert.Equal(t, auth.StatusUserNotFound, res.Status())
		assert.Equal(t, "User associated with token not found", res.Message())
	})

	t.Run("invalid token forwards its failure", func(t *testing.T) {
		store := &MockUserStore{}

		auther := newTestAuther(t, store, now)
		res := auther.ResolveUser(ctx, "garbage")

		require.True(t, res.IsFailure())
		assert.Equal(t, auth.StatusInvalidToken, res.Status())
	})

	t.Run("storage failure classifies as db_connection_failed", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil).Once()

		auther := newTestAuther(t, store, now)
		token := auther.Authenticate(ctx, "alice", "correcthorse123")
		require.True(t, token.IsSuccess())

		store.On("GetByUsername", ctx, "alice").Return(nil, errors.New("connection refused"))

		res := auther.ResolveUser(ctx, token.Data())

		require.True(t, res.IsFailure())
		assert.Equal(t, auth.StatusDBConnectionFailed, res.Status())
	})
}

func TestAuther_Refresh(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	hash, err := auth.HashPassword("correcthorse123")
	require.NoError(t, err)

	alice := &auth.User{Username: "alice", PasswordHash: hash}

	issue := func(t *testing.T, store auth.UserStore) string {
		t.Helper()
		auther := newTestAuther(t, store, now)
		res := auther.Authenticate(ctx, "alice", "correcthorse123")
		require.True(t, res.IsSuccess())
		return res.Data()
	}

	t.Run("still valid token refreshes with a later expiry", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil)

		token := issue(t, store)

		later := newTestAuther(t, store, now.Add(20*time.Minute))
		res := later.Refresh(ctx, token)

		require.True(t, res.IsSuccess())
		assert.Equal(t, "Token refreshed successfully", res.Message())

		// fresh token outlives the original window
		check := newTestAuther(t, store, now.Add(45*time.Minute))
		verified := check.VerifyToken(res.Data())
		assert.True(t, verified.IsSuccess())
	})

	t.Run("expired token refreshes while the user still exists", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil)

		token := issue(t, store)

		later := newTestAuther(t, store, now.Add(2*time.Hour))
		res := later.Refresh(ctx, token)

		require.True(t, res.IsSuccess())

		verified := later.VerifyToken(res.Data())
		require.True(t, verified.IsSuccess())
		assert.Equal(t, "alice", verified.Data())
	})

	t.Run("expired token for a deleted account does not refresh", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil).Once()

		token := issue(t, store)

		store.On("GetByUsername", ctx, "alice").Return(nil, notFoundErr("alice"))

		later := newTestAuther(t, store, now.Add(2*time.Hour))
		res := later.Refresh(ctx, token)

		require.True(t, res.IsFailure())
		assert.Equal(t, auth.StatusUserNotFound, res.Status())
		assert.Equal(t, `User "alice" no longer exists`, res.Message())
	})

	t.Run("tampered token never refreshes regardless of expiry", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil)

		token := issue(t, store)

		later := newTestAuther(t, store, now.Add(2*time.Hour))
		res := later.Refresh(ctx, tamper(token))

		require.True(t, res.IsFailure())
		assert.Equal(t, auth.StatusInvalidToken, res.Status())
	})

	t.Run("storage failure on the expired path classifies as db_connection_failed", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("GetByUsername", ctx, "alice").Return(alice, nil).Once()

		token := issue(t, store)

		store.On("GetByUsername", ctx, "alice").Return(nil, errors.New("connection refused"))

		later := newTestAuther(t, store, now.Add(2*time.Hour))
		res := later.Refresh(ctx, token)

		require.True(t, res.IsFailure())
		assert.Equal(t, auth.StatusDBConnectionFailed, res.Status())
	})
}

// MockTokenService must satisfy the interface the authenticator accepts.
var _ auth.TokenService = (*MockTokenService)(nil)

func TestAuther_TokenService(t *testing.T) {
	tokens := &MockTokenService{}

	auther := auth.NewAuthenticator(&MockUserStore{}, testConfig()).
		WithTokenService(tokens)

	assert.Equal(t, tokens, auther.TokenService())
}
