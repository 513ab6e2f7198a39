package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTableSQL(t *testing.T) {
	m := createTestModel(t)

	sqlite := &Store{dialect: sqliteDialect{}}
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS users (
    user_id CHAR(36) NOT NULL,
    username VARCHAR(255),
    email VARCHAR(127),
    password VARCHAR(127),
    status TEXT,
    logins INT(10),
    tags TEXT,
    PRIMARY KEY (user_id)
)`, sqlite.createTableSQL(m))

	mysql := &Store{dialect: mysqlDialect{}}
	ddl := mysql.createTableSQL(m)
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS badwolf_master.users (")
	assert.Contains(t, ddl, "status ENUM('enabled','disabled')")
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	m := createTestModel(t)

	cols, err := s.MigratedColumns(ctx, "users")
	require.NoError(t, err)
	assert.Nil(t, cols)

	require.NoError(t, s.Migrate(ctx, m))
	// Second run is a no-op
	require.NoError(t, s.Migrate(ctx, m))

	cols, err = s.MigratedColumns(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, m.Columns(), cols)

	var n int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Equal(t, 0, n)
}
