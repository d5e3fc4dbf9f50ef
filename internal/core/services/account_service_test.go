package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/accounts-backend/internal/core/domain"
	apperrors "github.com/lorrc/accounts-backend/internal/core/errors"
	"github.com/lorrc/accounts-backend/internal/core/mocks"
	"github.com/lorrc/accounts-backend/internal/core/ports"
	"github.com/lorrc/accounts-backend/internal/core/services"
)

func newTestService(t *testing.T) (*services.AccountService, *mocks.MockConnectionFactory, *mocks.MockUserRepository) {
	t.Helper()
	factory := mocks.NewMockConnectionFactory()
	repo := mocks.NewMockUserRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewAccountService(factory, repo, logger), factory, repo
}

func TestAccountService_Register(t *testing.T) {
	ctx := context.Background()

	params := domain.RegistrationParams{
		FullName: "Ana Gomez",
		Username: "ana",
		Email:    "ana@x.com",
		Password: "Password123",
	}

	t.Run("success", func(t *testing.T) {
		svc, factory, repo := newTestService(t)

		factory.On("Connect", ctx).Return(&mocks.NopConn{}, nil).Twice()
		repo.On("IsUnique", ctx, mock.Anything, domain.Candidate{Username: "ana", Email: "ana@x.com"}, false).
			Return(true, nil)
		repo.On("Create", ctx, mock.Anything, mock.AnythingOfType("domain.User")).
			Return(nil)

		user, err := svc.Register(ctx, params)

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "ana", user.Username)
		assert.Equal(t, "ana@x.com", user.Email)

		// The record handed to Create carries a bcrypt hash, never the
		// plaintext password.
		created := repo.Calls[1].Arguments.Get(2).(domain.User)
		assert.NotEmpty(t, created.HashedPassword)
		assert.NotEqual(t, "Password123", created.HashedPassword)

		factory.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("username or email taken", func(t *testing.T) {
		svc, factory, repo := newTestService(t)

		factory.On("Connect", ctx).Return(&mocks.NopConn{}, nil).Once()
		repo.On("IsUnique", ctx, mock.Anything, mock.Anything, false).
			Return(false, nil)

		user, err := svc.Register(ctx, params)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrUserExists)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("weak password", func(t *testing.T) {
		svc, factory, repo := newTestService(t)

		weak := params
		weak.Password = "weak"

		user, err := svc.Register(ctx, weak)

		assert.Nil(t, user)
		var validationErr *apperrors.ValidationErrors
		assert.ErrorAs(t, err, &validationErr)

		factory.AssertNotCalled(t, "Connect")
		repo.AssertNotCalled(t, "IsUnique")
	})
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := domain.HashPassword("Password123")
	require.NoError(t, err)

	stored := &domain.User{
		FullName:       "Ana Gomez",
		Username:       "ana",
		Email:          "ana@x.com",
		HashedPassword: hash,
	}

	t.Run("success", func(t *testing.T) {
		svc, factory, repo := newTestService(t)

		factory.On("Connect", ctx).Return(&mocks.NopConn{}, nil).Once()
		repo.On("Get", ctx, mock.Anything, "ana", true).Return(stored, nil)

		user, err := svc.Login(ctx, "ana", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "ana", user.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, factory, repo := newTestService(t)

		factory.On("Connect", ctx).Return(&mocks.NopConn{}, nil).Once()
		repo.On("Get", ctx, mock.Anything, "ana", true).Return(stored, nil)

		user, err := svc.Login(ctx, "ana", "WrongPassword1")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown username maps to invalid credentials", func(t *testing.T) {
		svc, factory, repo := newTestService(t)

		factory.On("Connect", ctx).Return(&mocks.NopConn{}, nil).Once()
		repo.On("Get", ctx, mock.Anything, "ghost", true).
			Return(nil, apperrors.ErrUserNotFound)

		user, err := svc.Login(ctx, "ghost", "Password123")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Login(ctx, "", "Password123")
		assert.ErrorIs(t, err, apperrors.ErrUsernameRequired)

		_, err = svc.Login(ctx, "ana", "")
		assert.ErrorIs(t, err, apperrors.ErrPasswordRequired)
	})
}

func TestAccountService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rename with new password", func(t *testing.T) {
		svc, factory, repo := newTestService(t)

		factory.On("Connect", ctx).Return(&mocks.NopConn{}, nil).Twice()
		repo.On("IsUnique", ctx, mock.Anything, domain.Candidate{Username: "ana2", Email: "ana@x.com"}, true).
			Return(true, nil)
		repo.On("Update", ctx, mock.Anything, "ana", mock.AnythingOfType("domain.User")).
			Return(nil)

		user, err := svc.Update(ctx, "ana", ports.UpdateParams{FullName: "Ana G.", Username: "ana2", Email: "ana@x.com", Password: "Password123"})

		require.NoError(t, err)
		assert.Equal(t, "ana2", user.Username)

		replacement := repo.Calls[1].Arguments.Get(3).(domain.User)
		assert.Equal(t, "ana2", replacement.Username)
		assert.NotEmpty(t, replacement.HashedPassword)
	})

	t.Run("keeps current credential when password omitted", func(t *testing.T) {
		svc, factory, repo := newTestService(t)

		hash, err := domain.HashPassword("Password123")
		require.NoError(t, err)

		factory.On("Connect", ctx).Return(&mocks.NopConn{}, nil).Times(3)
		repo.On("Get", ctx, mock.Anything, "ana", true).
			Return(&domain.User{
				FullName:       "Ana Gomez",
				Username:       "ana",
				Email:          "ana@x.com",
				HashedPassword: hash,
			}, nil)
		repo.On("IsUnique", ctx, mock.Anything, mock.Anything, true).
			Return(true, nil)
		repo.On("Update", ctx, mock.Anything, "ana", mock.AnythingOfType("domain.User")).
			Return(nil)

		_, err = svc.Update(ctx, "ana", ports.UpdateParams{FullName: "Ana G.", Username: "ana", Email: "ana@x.com"})
		require.NoError(t, err)

		replacement := repo.Calls[2].Arguments.Get(3).(domain.User)
		assert.Equal(t, hash, replacement.HashedPassword)
	})

	t.Run("uniqueness pre-check rejects collision", func(t *testing.T) {
		svc, factory, repo := newTestService(t)

		factory.On("Connect", ctx).Return(&mocks.NopConn{}, nil).Once()
		repo.On("IsUnique", ctx, mock.Anything, mock.Anything, true).
			Return(false, nil)

		user, err := svc.Update(ctx, "ana", ports.UpdateParams{FullName: "Ana G.", Username: "bob", Email: "bob@x.com", Password: "Password123"})

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrUserExists)
		repo.AssertNotCalled(t, "Update")
	})
}

func TestAccountService_Deactivate(t *testing.T) {
	ctx := context.Background()
	svc, factory, repo := newTestService(t)

	factory.On("Connect", ctx).Return(&mocks.NopConn{}, nil).Once()
	repo.On("Delete", ctx, mock.Anything, "ana").Return(nil)

	require.NoError(t, svc.Deactivate(ctx, "ana"))
	repo.AssertExpectations(t)
}
