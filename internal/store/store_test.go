package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_AppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_CreatesBookkeepingTable(t *testing.T) {
	s := createTestStore(t)

	var name string
	err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'filterql_migrations'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "filterql_migrations", name)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	assert.NoError(t, s2.verifyPragma("user_version", "1"))
}

func TestOpenDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driver.db")

	s, err := OpenDriver(DriverSQLite, path)
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, sqliteDialect{}, s.dialect)

	_, err = OpenDriver("postgres", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")

	_, err = OpenDriver(DriverMySQL, "not a dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mysql dsn")
}

func TestClose_NilDB(t *testing.T) {
	var s Store
	assert.NoError(t, s.Close())
}
