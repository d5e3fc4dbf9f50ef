// Package libsql is the secondary adapter for the remote libsql/sqld user
// store. It dials one short-lived connection handle per repository call and
// serializes every table access behind a single process-wide gate, because
// the remote client is not assumed safe for concurrent use.
package libsql

import (
	"context"
	"database/sql"
	"net/url"

	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/lorrc/accounts-backend/internal/core/ports"
)

// ConnectionFactory dials a fresh handle for every repository call. Handles
// are never pooled or reused; the repository closes each one before its
// operation returns.
type ConnectionFactory struct {
	driver string
	dsn    string
}

var _ ports.ConnectionFactory = (*ConnectionFactory)(nil)

// NewConnectionFactory builds a factory for the configured sqld endpoint.
// The auth token, when present, rides on the DSN the way the libsql driver
// expects it.
func NewConnectionFactory(databaseURL, authToken string) *ConnectionFactory {
	dsn := databaseURL
	if authToken != "" {
		dsn += "?authToken=" + url.QueryEscape(authToken)
	}
	return &ConnectionFactory{driver: "libsql", dsn: dsn}
}

// NewConnectionFactoryForDriver builds a factory on an arbitrary
// database/sql driver speaking the same `?`-placeholder dialect. Tests use
// it to run the real SQL against an in-process SQLite file.
func NewConnectionFactoryForDriver(driver, dsn string) *ConnectionFactory {
	return &ConnectionFactory{driver: driver, dsn: dsn}
}

// Connect dials one handle. Transport failures (bad endpoint, rejected
// token) surface here rather than on the first query.
func (f *ConnectionFactory) Connect(ctx context.Context) (ports.Conn, error) {
	db, err := sql.Open(f.driver, f.dsn)
	if err != nil {
		return nil, err
	}

	// One logical operation per handle.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Ping dials and closes one handle, the same round-trip a repository call
// performs. Used by readiness probes.
func (f *ConnectionFactory) Ping(ctx context.Context) error {
	conn, err := f.Connect(ctx)
	if err != nil {
		return err
	}
	return conn.Close()
}
