package libsql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionFactory_AppendsAuthToken(t *testing.T) {
	f := NewConnectionFactory("libsql://accounts.example.turso.io", "tok/en=")

	assert.Equal(t, "libsql", f.driver)
	assert.Equal(t, "libsql://accounts.example.turso.io?authToken=tok%2Fen%3D", f.dsn)
}

func TestNewConnectionFactory_NoToken(t *testing.T) {
	f := NewConnectionFactory("http://127.0.0.1:8880", "")
	assert.Equal(t, "http://127.0.0.1:8880", f.dsn)
}

func TestConnectionFactory_ConnectIsPerCall(t *testing.T) {
	ctx := context.Background()

	first, err := testFactory.Connect(ctx)
	require.NoError(t, err)
	second, err := testFactory.Connect(ctx)
	require.NoError(t, err)

	// Independent handles: closing one leaves the other usable.
	require.NoError(t, first.Close())

	rows, err := second.QueryContext(ctx, existsUserSQL, "whoever")
	require.NoError(t, err)
	require.NoError(t, rows.Close())
	require.NoError(t, second.Close())
}

func TestConnectionFactory_Ping(t *testing.T) {
	require.NoError(t, testFactory.Ping(context.Background()))
}

func TestConnectionFactory_PingFailsOnBadTarget(t *testing.T) {
	f := NewConnectionFactoryForDriver("sqlite", "/nonexistent-dir/nope/accounts.db")
	assert.Error(t, f.Ping(context.Background()))
}
