package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/lorrc/accounts-backend/internal/core/domain"
	"github.com/lorrc/accounts-backend/internal/core/ports"
)

// NopConn is a stand-in connection handle for service tests; the mocked
// repository never touches it.
type NopConn struct {
	Closed bool
}

func (c *NopConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, nil
}

func (c *NopConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, nil
}

func (c *NopConn) Close() error {
	c.Closed = true
	return nil
}

// MockConnectionFactory is a mock implementation of ports.ConnectionFactory
type MockConnectionFactory struct {
	mock.Mock
}

func NewMockConnectionFactory() *MockConnectionFactory {
	return &MockConnectionFactory{}
}

func (m *MockConnectionFactory) Connect(ctx context.Context) (ports.Conn, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Conn), args.Error(1)
}

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, conn ports.Conn, user domain.User) error {
	args := m.Called(ctx, conn, user)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, conn ports.Conn, username string, revealSecret bool) (*domain.User, error) {
	args := m.Called(ctx, conn, username, revealSecret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, conn ports.Conn, currentUsername string, replacement domain.User) error {
	args := m.Called(ctx, conn, currentUsername, replacement)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, conn ports.Conn, username string) error {
	args := m.Called(ctx, conn, username)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, conn ports.Conn, username string) (bool, error) {
	args := m.Called(ctx, conn, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) IsUnique(ctx context.Context, conn ports.Conn, candidate domain.Candidate, forUpdate bool) (bool, error) {
	args := m.Called(ctx, conn, candidate, forUpdate)
	return args.Bool(0), args.Error(1)
}

// MockAccountService is a mock implementation of ports.AccountService
type MockAccountService struct {
	mock.Mock
}

func NewMockAccountService() *MockAccountService {
	return &MockAccountService{}
}

func (m *MockAccountService) Register(ctx context.Context, params domain.RegistrationParams) (*domain.PublicUser, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicUser), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccountService) Profile(ctx context.Context, username string) (*domain.PublicUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicUser), args.Error(1)
}

func (m *MockAccountService) Update(ctx context.Context, username string, params ports.UpdateParams) (*domain.PublicUser, error) {
	args := m.Called(ctx, username, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PublicUser), args.Error(1)
}

func (m *MockAccountService) Deactivate(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}
