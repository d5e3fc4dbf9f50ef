package ports

import (
	"context"

	"github.com/lorrc/accounts-backend/internal/core/domain"
)

// UpdateParams holds the replacement fields for a full account update.
// Password is optional; when empty the current credential is kept.
type UpdateParams struct {
	FullName string
	Username string
	Email    string
	Password string
}

// AccountService is the business-logic caller in front of UserRepository.
// It owns uniqueness validation, password hashing, and the per-call
// connection lifecycle.
type AccountService interface {
	Register(ctx context.Context, params domain.RegistrationParams) (*domain.PublicUser, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	Profile(ctx context.Context, username string) (*domain.PublicUser, error)
	Update(ctx context.Context, username string, params UpdateParams) (*domain.PublicUser, error)
	Deactivate(ctx context.Context, username string) error
}
