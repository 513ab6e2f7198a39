package querysql

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/filterir"
)

// usersWhitelist mirrors the users model used across the package tests.
var usersWhitelist = StaticWhitelist{
	"id":       filterir.NotSortable,
	"username": filterir.Asc,
	"name":     filterir.Asc,
	"email":    filterir.Asc,
	"created":  filterir.Desc,
	"status":   filterir.NotSortable,
	"password": filterir.NotSortable,
	"a":        filterir.Asc,
	"b":        filterir.Asc,
	"c":        filterir.Asc,
	"x":        filterir.NotSortable,
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func newTestCompiler(opts ...Option) *Compiler {
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewCompiler(usersWhitelist, opts...)
}

// compileFilterJSON decodes and compiles just a filter document.
func compileFilterJSON(t *testing.T, c *Compiler, src string) (Clause, error) {
	t.Helper()
	node, err := filterir.NewDecoder(0).DecodeJSON([]byte(src))
	require.NoError(t, err)
	return c.CompileFilter(node)
}

// assertPlaceholders checks that every "?" has exactly one value.
func assertPlaceholders(t *testing.T, sql string, values []any) {
	t.Helper()
	assert.Equal(t, strings.Count(sql, "?"), len(values), "placeholder count mismatch in %q", sql)
}
