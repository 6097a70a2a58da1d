package identity_test

import (
	"context"
	"strings"

	identity "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/mock"
)

// MockAccountStore implements identity.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) Exists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountStore) Insert(ctx context.Context, account *identity.Account) (*identity.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountStore) GetByID(ctx context.Context, id string) (*identity.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountStore) GetByEmail(ctx context.Context, email string) (*identity.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockAccountStore) List(ctx context.Context) ([]*identity.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Account), args.Error(1)
}

func (m *MockAccountStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLogger implements identity.Logger
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

// fakeHasher stands in for bcrypt so test suites stay fast. The digest is
// reversible on purpose; only the contract matters here.
type fakeHasher struct{}

func (fakeHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", identity.ErrNoEmptyString
	}
	return "digest:" + password, nil
}

func (fakeHasher) ComparePasswordAndHash(password, hash string) error {
	if strings.TrimPrefix(hash, "digest:") != password {
		return identity.ErrBadCredentials
	}
	return nil
}

// noopLogger silences component logging in tests that do not assert on it.
type noopLogger struct{}

func (noopLogger) Debug(format string, args ...any) {}
func (noopLogger) Info(format string, args ...any)  {}
func (noopLogger) Error(format string, args ...any) {}
