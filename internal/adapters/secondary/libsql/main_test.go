package libsql

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

// testFactory dials the test database. The tests run the production SQL
// against an in-process SQLite file via the generic driver hook: same `?`
// placeholder dialect as the remote sqld deployment, no network needed.
var testFactory *ConnectionFactory

// TestMain creates the test database file and applies the migrations.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "accounts-libsql-test-")
	if err != nil {
		log.Fatalf("could not create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	dbPath := filepath.Join(dir, "accounts.db")

	// The migrations directory is 4 levels up.
	// (libsql -> secondary -> adapters -> internal -> project root)
	migrationsPath, err := filepath.Abs("../../../../migrations")
	if err != nil {
		log.Fatalf("could not find migrations directory: %v", err)
	}

	mig, err := migrate.New("file://"+migrationsPath, "sqlite://"+dbPath)
	if err != nil {
		log.Fatalf("could not create migrate instance: %v", err)
	}
	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("could not run migrations: %v", err)
	}

	testFactory = NewConnectionFactoryForDriver("sqlite", dbPath)

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}
