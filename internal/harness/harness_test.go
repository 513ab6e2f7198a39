package harness

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Scenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_StoreResults(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/retrieve_sorted.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Rows, 2)
	require.NotNil(t, result.Count)
	assert.Equal(t, int64(3), *result.Count)
	for _, row := range result.Rows {
		assert.NotContains(t, row, "password")
		assert.Len(t, row["user_id"], 36)
	}
}

func TestRun_ReportsMismatches(t *testing.T) {
	content := `
name: wrong_sql
description: Expects SQL the compiler will not produce
whitelist: {a: true}
query:
  filters: {a: 1}
expect:
  sql: "WHERE a > ? LIMIT ?, ?"
  values: [2, 0, 50]
  sort: [a ASC]
`
	scenario, err := ParseScenario([]byte(content), "")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "Assertion failed: sql")
	assert.Contains(t, result.Errors[1], "Assertion failed: values")
	assert.Contains(t, result.Errors[2], "Assertion failed: sort")
}

func TestRun_UnexpectedCompileError(t *testing.T) {
	content := `
name: surprise
description: Compiling fails but success was expected
whitelist: {a: true}
query:
  filters: {b: 1}
expect:
  sql: "WHERE b = ? LIMIT ?, ?"
`
	scenario, err := ParseScenario([]byte(content), "")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.NotNil(t, result.CompileError)
	assert.Equal(t, "filters", result.CompileError.Stage)
	assert.Equal(t, "operation", result.CompileError.Kind)
	assert.Equal(t, "$.b", result.CompileError.Path)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "successful compile")
}

func TestRun_ExpectedErrorNotRaised(t *testing.T) {
	content := `
name: no_error
description: Expects a failure that does not happen
query:
  filters: {a: 1}
expect:
  error: {kind: operation}
`
	scenario, err := ParseScenario([]byte(content), "")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "compiled successfully")
}

func TestRun_RowMismatch(t *testing.T) {
	model, err := filepath.Abs("testdata/models/users.yaml")
	require.NoError(t, err)

	content := `
name: wrong_rows
description: Expects a row that is not returned
model: ` + model + `
setup:
  - {username: rose, status: enabled, logins: 40}
query:
  filters: {status: enabled}
expect:
  rows:
    - {username: badwolf}
  count: 2
`
	scenario, err := ParseScenario([]byte(content), "")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "Assertion failed: count")
	assert.Contains(t, result.Errors[1], "Assertion failed: rows")
}

func TestRun_SetupFailure(t *testing.T) {
	model, err := filepath.Abs("testdata/models/users.yaml")
	require.NoError(t, err)

	content := `
name: bad_setup
description: Seeds a column the model does not declare
model: ` + model + `
setup:
  - {nickname: rose}
query: {}
expect:
  count: 1
`
	scenario, err := ParseScenario([]byte(content), "")
	require.NoError(t, err)

	_, err = Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute setup")
	assert.Contains(t, err.Error(), "unknown columns: nickname")
}

func TestHarness_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	scenario, err := LoadScenario("testdata/scenarios/or_group.yaml")
	require.NoError(t, err)

	result, err := New(WithLogger(logger)).Run(context.Background(), scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass)

	out := buf.String()
	assert.Contains(t, out, "dropping unknown or unsortable sort field")
	assert.Contains(t, out, "scenario completed")
}

func TestWhitelistFrom(t *testing.T) {
	wl, err := whitelistFrom(map[string]any{
		"a": false,
		"b": true,
		"c": "desc",
		"d": nil,
	})
	require.NoError(t, err)

	_, ok := wl.SortDirection("a")
	assert.False(t, ok)
	dir, ok := wl.SortDirection("b")
	assert.True(t, ok)
	assert.Equal(t, "ASC", string(dir))
	dir, ok = wl.SortDirection("c")
	assert.True(t, ok)
	assert.Equal(t, "DESC", string(dir))
	assert.True(t, wl.HasField("d"))

	_, err = whitelistFrom(map[string]any{"a": 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whitelist.a")
}
