package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 32, cfg.MaxDepth)
	assert.Equal(t, 50, cfg.DefaultLimit)
	assert.Equal(t, 0, cfg.MaxLimit)
	assert.Equal(t, "", cfg.Database)
	assert.Equal(t, "sqlite3", cfg.Driver)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), ".filterql.yaml", `
max_depth: 8
default_limit: 20
max_limit: 200
database: ./users.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxDepth)
	assert.Equal(t, 20, cfg.DefaultLimit)
	assert.Equal(t, 200, cfg.MaxLimit)
	assert.Equal(t, "./users.db", cfg.Database)
	assert.Equal(t, "sqlite3", cfg.Driver)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), ".filterql.yaml", "max_limit: 200\n")
	t.Setenv("FILTERQL_MAX_LIMIT", "75")
	t.Setenv("FILTERQL_DRIVER", "mysql")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 75, cfg.MaxLimit)
	assert.Equal(t, "mysql", cfg.Driver)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/.filterql.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"negative depth", "max_depth: -1\n", "max_depth"},
		{"zero default limit", "default_limit: 0\n", "default_limit"},
		{"negative max limit", "max_limit: -5\n", "max_limit"},
		{"unknown driver", "driver: postgres\n", "driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), "config.yaml", tt.content)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	base := testutil.WriteFile(t, dir, ".env", "FILTERQL_TEST_DOTENV_A=base\nFILTERQL_TEST_DOTENV_B=base\n")
	local := testutil.WriteFile(t, dir, ".env.local", "FILTERQL_TEST_DOTENV_B=local\n")
	t.Cleanup(func() {
		os.Unsetenv("FILTERQL_TEST_DOTENV_A")
		os.Unsetenv("FILTERQL_TEST_DOTENV_B")
	})

	require.NoError(t, loadDotenv(base, local, dir+"/missing.env"))
	assert.Equal(t, "base", os.Getenv("FILTERQL_TEST_DOTENV_A"))
	assert.Equal(t, "local", os.Getenv("FILTERQL_TEST_DOTENV_B"))
}

func TestLoadDotenv_MissingFilesSkipped(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, loadDotenv(dir+"/.env", dir+"/.env.local"))
}

func TestConfig_CompilerOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLimit = 10
	opts := cfg.CompilerOptions(testOptions("text").Logger)
	assert.Len(t, opts, 4)
}
