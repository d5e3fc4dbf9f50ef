package ports

import (
	"context"
	"database/sql"

	"github.com/lorrc/accounts-backend/internal/core/domain"
)

// Conn is a single-use handle onto the user table. A handle is dialed for
// exactly one repository call; the repository closes it before returning,
// on every exit path. *sql.DB satisfies this interface.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Close() error
}

// ConnectionFactory dials one fresh Conn per repository call. There is no
// pooling or reuse across calls.
type ConnectionFactory interface {
	Connect(ctx context.Context) (Conn, error)
}

// UserRepository is the data-access layer for the user table.
//
// Every operation takes an already-dialed Conn and closes it exactly once
// before returning, whether the queries succeeded or not. A close failure
// never masks an earlier query failure. All operations in one process are
// serialized by the repository's gate; no two calls ever interleave their
// query/close sequences.
type UserRepository interface {
	// Create inserts one record. Uniqueness of username and email must have
	// been validated beforehand via IsUnique; Create itself does not check.
	Create(ctx context.Context, conn Conn, user domain.User) error

	// Get returns the record for username, or ErrUserNotFound. Unless
	// revealSecret is set, the hashed credential is stripped from the
	// result. More than one matching row yields ErrAmbiguousUser.
	Get(ctx context.Context, conn Conn, username string, revealSecret bool) (*domain.User, error)

	// Update fully replaces all four columns of the row currently
	// identified by currentUsername; replacement.Username becomes the new
	// identity, so renames go through here too.
	Update(ctx context.Context, conn Conn, currentUsername string, replacement domain.User) error

	// Delete removes every row matching username. Deleting a nonexistent
	// username is a no-op, not an error.
	Delete(ctx context.Context, conn Conn, username string) error

	// ExistsByUsername reports whether at least one row has that username.
	ExistsByUsername(ctx context.Context, conn Conn, username string) (bool, error)

	// IsUnique checks the candidate against every row whose username or
	// email collides. With forUpdate false, unique means zero matches. With
	// forUpdate true, exactly one match (presumed the caller's own
	// pre-update row) is acceptable; zero or several are not.
	IsUnique(ctx context.Context, conn Conn, candidate domain.Candidate, forUpdate bool) (bool, error)
}
