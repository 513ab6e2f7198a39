package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/model"
	"github.com/roach88/filterql/internal/querysql"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const usersDefinition = `
models:
  users:
    schema: badwolf_master
    fields:
      user_id: {type: CHAR(36), primary_key: true, generate: uuid}
      username: {type: VARCHAR(255), sortable: true}
      email: {type: VARCHAR(127), sortable: true}
      password: {type: VARCHAR(127), hidden: true}
      status: {type: "ENUM('enabled','disabled')"}
      logins: {type: INT(10), sortable: desc}
      tags: {type: TEXT}
`

// createTestModel parses the users model used by the store tests.
func createTestModel(t *testing.T) *model.Model {
	t.Helper()
	set, err := model.ParseBytes([]byte(usersDefinition), model.FormatYAML, "users.yaml")
	require.NoError(t, err)
	m, err := set.Get("users")
	require.NoError(t, err)
	return m
}

// seedUsers migrates the users table and inserts a fixed set of rows.
func seedUsers(t *testing.T, s *Store, m *model.Model) []Record {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx, m))

	created, err := s.Create(ctx, m, []Record{
		{"username": "badwolf", "email": "wolf@example.com", "password": "secret", "status": "enabled", "logins": 12},
		{"username": "rose", "email": "rose@example.com", "password": "hunter2", "status": "enabled", "logins": 40},
		{"username": "dalek", "email": "exterminate@skaro.net", "password": "x", "status": "disabled", "logins": 3},
		{"username": "badger", "email": "badger@example.com", "password": "y", "status": "enabled", "logins": 0},
	})
	require.NoError(t, err)
	return created
}

func compile(t *testing.T, m *model.Model, query string) *querysql.CompiledQuery {
	t.Helper()
	q, err := querysql.NewCompiler(m).CompileJSON([]byte(query))
	require.NoError(t, err)
	return q
}
