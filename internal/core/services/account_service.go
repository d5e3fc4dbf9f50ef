package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lorrc/accounts-backend/internal/core/domain"
	apperrors "github.com/lorrc/accounts-backend/internal/core/errors"
	"github.com/lorrc/accounts-backend/internal/core/ports"
)

// AccountService implements account business logic on top of the user
// repository. It owns the per-call connection lifecycle: every repository
// call gets a freshly dialed handle, which the repository closes.
type AccountService struct {
	factory ports.ConnectionFactory
	users   ports.UserRepository
	logger  *slog.Logger
}

var _ ports.AccountService = (*AccountService)(nil)

// NewAccountService creates a new account service.
func NewAccountService(factory ports.ConnectionFactory, users ports.UserRepository, logger *slog.Logger) *AccountService {
	return &AccountService{
		factory: factory,
		users:   users,
		logger:  logger.With("service", "accounts"),
	}
}

// Register creates a new account with validated, unique credentials.
func (s *AccountService) Register(ctx context.Context, params domain.RegistrationParams) (*domain.PublicUser, error) {
	user, err := domain.NewUser(params)
	if err != nil {
		return nil, err
	}

	conn, err := s.factory.Connect(ctx)
	if err != nil {
		return nil, err
	}
	unique, err := s.users.IsUnique(ctx, conn, user.Candidate(), false)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperrors.ErrUserExists
	}

	conn, err = s.factory.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, conn, *user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account registered", "username", user.Username)
	public := user.Public()
	return &public, nil
}

// Login authenticates a user by username and password. The privileged
// projection is read so the stored hash can be compared; lookup failures
// and bad passwords are collapsed into one error to avoid revealing which
// usernames exist.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" {
		return nil, apperrors.ErrUsernameRequired
	}
	if password == "" {
		return nil, apperrors.ErrPasswordRequired
	}

	conn, err := s.factory.Connect(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Get(ctx, conn, username, true)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// Profile returns the public projection of an account.
func (s *AccountService) Profile(ctx context.Context, username string) (*domain.PublicUser, error) {
	conn, err := s.factory.Connect(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Get(ctx, conn, username, false)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// Update fully replaces an account's record; a changed Username renames the
// account. An empty Password keeps the current credential.
func (s *AccountService) Update(ctx context.Context, username string, params ports.UpdateParams) (*domain.PublicUser, error) {
	reg := domain.RegistrationParams{
		FullName: params.FullName,
		Username: params.Username,
		Email:    params.Email,
		Password: params.Password,
	}

	var replacement *domain.User
	if params.Password == "" {
		if err := reg.ValidateProfile(); err != nil {
			return nil, err
		}
		conn, err := s.factory.Connect(ctx)
		if err != nil {
			return nil, err
		}
		current, err := s.users.Get(ctx, conn, username, true)
		if err != nil {
			return nil, err
		}
		replacement = &domain.User{
			FullName:       params.FullName,
			Username:       params.Username,
			Email:          params.Email,
			HashedPassword: current.HashedPassword,
		}
	} else {
		user, err := domain.NewUser(reg)
		if err != nil {
			return nil, err
		}
		replacement = user
	}

	conn, err := s.factory.Connect(ctx)
	if err != nil {
		return nil, err
	}
	ok, err := s.users.IsUnique(ctx, conn, replacement.Candidate(), true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrUserExists
	}

	conn, err = s.factory.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, conn, username, *replacement); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "account updated",
		"username", username, "new_username", replacement.Username)
	public := replacement.Public()
	return &public, nil
}

// Deactivate removes an account. Removing an unknown username is not an
// error.
func (s *AccountService) Deactivate(ctx context.Context, username string) error {
	conn, err := s.factory.Connect(ctx)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, conn, username); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "account deactivated", "username", username)
	return nil
}
