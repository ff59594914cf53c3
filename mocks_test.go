package auth_test

import (
	"context"

	auth "github.com/JoJoTheBizarre/AgentR-backend"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
)

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// noopLogger swallows output in tests that do not assert on logging
type noopLogger struct{}

func (noopLogger) Debug(format string, args ...any) {}
func (noopLogger) Info(format string, args ...any)  {}
func (noopLogger) Error(format string, args ...any) {}

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

// MockTokenService implements auth.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(username string) (string, error) {
	args := m.Called(username)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) DecodeAndValidate(token string) auth.Result[*auth.TokenClaims] {
	args := m.Called(token)
	return args.Get(0).(auth.Result[*auth.TokenClaims])
}

func (m *MockTokenService) DecodeIgnoringExpiry(token string) auth.Result[*auth.TokenClaims] {
	args := m.Called(token)
	return args.Get(0).(auth.Result[*auth.TokenClaims])
}

// notFoundErr builds the storage error shape repositories return for
// missing records.
func notFoundErr(username string) error {
	return repository.NewRecordNotFound().WithMetadata(map[string]any{
		"username": username,
	})
}

func testConfig() *auth.SimpleConfig {
	return &auth.SimpleConfig{
		SigningKey:      "test-signing-key",
		TokenExpiration: 30,
		Issuer:          "test-issuer",
		Audience:        []string{"test-audience"},
	}
}
