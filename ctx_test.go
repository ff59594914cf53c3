package auth_test

import (
	"context"
	"testing"

	auth "github.com/JoJoTheBizarre/AgentR-backend"
	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	t.Run("round trips a user", func(t *testing.T) {
		user := &auth.User{Username: "alice"}

		ctx := auth.WithContext(context.Background(), user)

		found, ok := auth.FromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, user, found)
	})

	t.Run("empty context has no user", func(t *testing.T) {
		_, ok := auth.FromContext(context.Background())
		assert.False(t, ok)
	})
}

func TestClaimsContext(t *testing.T) {
	t.Run("round trips claims", func(t *testing.T) {
		claims := &auth.TokenClaims{Username: "alice"}

		ctx := auth.WithClaimsContext(context.Background(), claims)

		found, ok := auth.ClaimsFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, claims, found)
	})

	t.Run("empty context has no claims", func(t *testing.T) {
		_, ok := auth.ClaimsFromContext(context.Background())
		assert.False(t, ok)
	})
}
