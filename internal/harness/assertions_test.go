package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/filterql/internal/store"
)

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{Type: "sql", Expected: `"a"`, Actual: `"b"`}
	assert.Equal(t, "Assertion failed: sql\n  Expected: \"a\"\n  Actual: \"b\"", err.Error())
}

func TestValueEqual_NormalizesNumbers(t *testing.T) {
	tests := []struct {
		name     string
		actual   any
		expected any
		want     bool
	}{
		{"int vs int64", int64(5), 5, true},
		{"uint vs int", uint8(5), 5, true},
		{"integral float vs int", 5.0, 5, true},
		{"fraction vs int", 5.5, 5, false},
		{"fractions", 2.5, float32(2.5), true},
		{"strings", "a", "a", true},
		{"string vs number", "5", 5, false},
		{"nil vs nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"bools", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valueEqual(tt.actual, tt.expected))
		})
	}
}

func TestValuesEqual_Length(t *testing.T) {
	assert.True(t, valuesEqual([]any{int64(1), "a"}, []any{1, "a"}))
	assert.False(t, valuesEqual([]any{1}, []any{1, 2}))
	assert.True(t, valuesEqual([]any{}, []any{}))
}

func TestMatchRecord_Subset(t *testing.T) {
	row := store.Record{"username": "rose", "logins": int64(40), "email": nil}

	assert.True(t, matchRecord(row, map[string]any{"username": "rose"}))
	assert.True(t, matchRecord(row, map[string]any{"logins": 40, "email": nil}))
	assert.False(t, matchRecord(row, map[string]any{"username": "dalek"}))
	assert.False(t, matchRecord(row, map[string]any{"password": "x"}))
}

func TestEvaluateCompile(t *testing.T) {
	ok := &Result{SQL: "WHERE a = ? LIMIT ?, ?", Values: []any{int64(1), 0, 50}, Sort: []string{}}

	t.Run("all match", func(t *testing.T) {
		errs := evaluateCompile(Expectation{
			SQL:    strPtr("WHERE a = ? LIMIT ?, ?"),
			Values: []any{1, 0, 50},
			Sort:   []string{},
		}, ok)
		assert.Empty(t, errs)
	})

	t.Run("unset expectations are skipped", func(t *testing.T) {
		assert.Empty(t, evaluateCompile(Expectation{Count: int64Ptr(1)}, ok))
	})

	t.Run("placeholder mismatch", func(t *testing.T) {
		bad := &Result{SQL: "WHERE a = ?", Values: []any{}}
		errs := evaluateCompile(Expectation{}, bad)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "placeholders")
	})

	t.Run("error matches", func(t *testing.T) {
		failed := &Result{CompileError: &CompileError{Stage: "limit", Kind: "operation", Message: `expected an integer, found "x"`}}
		assert.Empty(t, evaluateCompile(Expectation{Error: &ExpectedError{Kind: "operation"}}, failed))
		assert.Empty(t, evaluateCompile(Expectation{Error: &ExpectedError{Stage: "limit", Kind: "operation", Message: "integer"}}, failed))

		errs := evaluateCompile(Expectation{Error: &ExpectedError{Stage: "skip", Kind: "operation"}}, failed)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], `at stage "skip"`)

		errs = evaluateCompile(Expectation{Error: &ExpectedError{Kind: "config"}}, failed)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "config error")
	})
}

func TestEvaluateRows(t *testing.T) {
	result := &Result{
		Rows: []store.Record{
			{"username": "rose", "logins": int64(40)},
			{"username": "badwolf", "logins": int64(12)},
		},
		Count: int64Ptr(3),
	}

	assert.Empty(t, evaluateRows(Expectation{
		Rows:  []map[string]any{{"username": "rose"}, {"logins": 12}},
		Count: int64Ptr(3),
	}, result))

	errs := evaluateRows(Expectation{
		Rows: []map[string]any{{"username": "badwolf"}, {"username": "rose"}},
	}, result)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "row 0")
	assert.Contains(t, errs[1], "row 1")

	errs = evaluateRows(Expectation{Rows: []map[string]any{{"username": "rose"}}}, result)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "1 rows")

	errs = evaluateRows(Expectation{Count: int64Ptr(3)}, &Result{})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "no count")
}
