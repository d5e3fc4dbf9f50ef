package libsql

import (
	"context"
	"sync"

	"github.com/lorrc/accounts-backend/internal/core/domain"
	apperrors "github.com/lorrc/accounts-backend/internal/core/errors"
	"github.com/lorrc/accounts-backend/internal/core/ports"
)

// Literal statements against the user table. Column and parameter order is
// fixed for compatibility with the deployed schema.
const (
	insertUserSQL = `INSERT INTO user(full_name, username, email, hashed_password) VALUES (?, ?, ?, ?);`
	selectUserSQL = `SELECT full_name, username, email, hashed_password FROM user WHERE username = ?;`
	deleteUserSQL = `DELETE FROM user WHERE username = ?;`
	updateUserSQL = `UPDATE user SET full_name = ?, username = ?, email = ?, hashed_password = ? WHERE username = ?;`
	existsUserSQL = `SELECT * FROM user WHERE username = ?;`
	uniqueUserSQL = `SELECT * FROM user WHERE username = ? OR email = ?;`
)

// UserRepository implements ports.UserRepository against the user table.
//
// One instance serves the whole process. Its gate fully serializes table
// access: each operation holds the gate from before its first query until
// its connection handle has been closed, so no two operations' round-trips
// ever interleave. The gate spans the network round-trip on purpose; the
// remote client is traded off as single-flight rather than pooled.
type UserRepository struct {
	gate sync.Mutex
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// closeConn closes the handle and keeps the first failure: a close error is
// reported only when the queries themselves succeeded.
func closeConn(conn ports.Conn, err *error) {
	if cerr := conn.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// Create inserts one record. Uniqueness is the caller's responsibility;
// IsUnique must have been consulted first.
func (r *UserRepository) Create(ctx context.Context, conn ports.Conn, user domain.User) (err error) {
	r.gate.Lock()
	defer r.gate.Unlock()
	defer closeConn(conn, &err)

	_, err = conn.ExecContext(ctx, insertUserSQL,
		user.FullName, user.Username, user.Email, user.HashedPassword)
	return err
}

// Get returns the record stored under username. Without revealSecret the
// hashed credential is stripped, matching the public projection.
func (r *UserRepository) Get(ctx context.Context, conn ports.Conn, username string, revealSecret bool) (user *domain.User, err error) {
	r.gate.Lock()
	defer r.gate.Unlock()
	defer closeConn(conn, &err)

	rows, err := conn.QueryContext(ctx, selectUserSQL, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.User
	for rows.Next() {
		var u domain.User
		if err = rows.Scan(&u.FullName, &u.Username, &u.Email, &u.HashedPassword); err != nil {
			return nil, err
		}
		matches = append(matches, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, apperrors.ErrUserNotFound
	case 1:
		// ok
	default:
		// Unreachable while the uniqueness invariant holds, but the table
		// has no unique index to enforce it.
		return nil, apperrors.ErrAmbiguousUser
	}

	u := matches[0]
	if !revealSecret {
		u.HashedPassword = ""
	}
	return &u, nil
}

// Update replaces all four columns of the row identified by
// currentUsername. replacement.Username becomes the row's new identity.
func (r *UserRepository) Update(ctx context.Context, conn ports.Conn, currentUsername string, replacement domain.User) (err error) {
	r.gate.Lock()
	defer r.gate.Unlock()
	defer closeConn(conn, &err)

	_, err = conn.ExecContext(ctx, updateUserSQL,
		replacement.FullName, replacement.Username, replacement.Email,
		replacement.HashedPassword, currentUsername)
	return err
}

// Delete removes every row matching username. A nonexistent username is a
// no-op.
func (r *UserRepository) Delete(ctx context.Context, conn ports.Conn, username string) (err error) {
	r.gate.Lock()
	defer r.gate.Unlock()
	defer closeConn(conn, &err)

	_, err = conn.ExecContext(ctx, deleteUserSQL, username)
	return err
}

// ExistsByUsername reports whether at least one row has that username.
func (r *UserRepository) ExistsByUsername(ctx context.Context, conn ports.Conn, username string) (exists bool, err error) {
	r.gate.Lock()
	defer r.gate.Unlock()
	defer closeConn(conn, &err)

	n, err := countRows(ctx, conn, existsUserSQL, username)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsUnique reports whether the candidate may proceed. With forUpdate false,
// zero rows may collide on username or email. With forUpdate true, exactly
// one colliding row is acceptable, presumed to be the caller's own
// pre-update row.
//
// The forUpdate mode goes by row count alone; it cannot tell the caller's
// own row from a different record that happens to satisfy the OR. Two
// existing rows jointly matching the candidate are rejected, but a single
// foreign match is indistinguishable from self.
func (r *UserRepository) IsUnique(ctx context.Context, conn ports.Conn, candidate domain.Candidate, forUpdate bool) (unique bool, err error) {
	r.gate.Lock()
	defer r.gate.Unlock()
	defer closeConn(conn, &err)

	n, err := countRows(ctx, conn, uniqueUserSQL, candidate.Username, candidate.Email)
	if err != nil {
		return false, err
	}
	if forUpdate {
		return n == 1, nil
	}
	return n == 0, nil
}

// countRows runs a query and counts its result rows without scanning them.
func countRows(ctx context.Context, conn ports.Conn, query string, args ...any) (int, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return n, nil
}
