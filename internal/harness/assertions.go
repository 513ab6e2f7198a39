package harness

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/roach88/filterql/internal/store"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Expectation that failed: sql, values, sort, error, rows, count
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// evaluateCompile checks the compile-time expectations.
func evaluateCompile(expect Expectation, result *Result) []string {
	var errs []string
	fail := func(typ, expected, actual string) {
		errs = append(errs, (&AssertionError{Type: typ, Expected: expected, Actual: actual}).Error())
	}

	if expect.Error != nil {
		if result.CompileError == nil {
			fail("error", describeExpectedError(expect.Error), "compiled successfully: "+result.SQL)
			return errs
		}
		got := result.CompileError
		if got.Kind != expect.Error.Kind ||
			(expect.Error.Stage != "" && got.Stage != expect.Error.Stage) ||
			!strings.Contains(got.Message, expect.Error.Message) {
			fail("error", describeExpectedError(expect.Error),
				fmt.Sprintf("%s error at stage %q: %s", got.Kind, got.Stage, got.Message))
		}
		return errs
	}

	if result.CompileError != nil {
		fail("compile", "successful compile",
			fmt.Sprintf("%s error at stage %q: %s", result.CompileError.Kind, result.CompileError.Stage, result.CompileError.Message))
		return errs
	}

	if expect.SQL != nil && *expect.SQL != result.SQL {
		fail("sql", fmt.Sprintf("%q", *expect.SQL), fmt.Sprintf("%q", result.SQL))
	}

	if expect.Values != nil && !valuesEqual(result.Values, expect.Values) {
		fail("values", fmt.Sprintf("%v", expect.Values), fmt.Sprintf("%v", result.Values))
	}

	if expect.Sort != nil && !reflect.DeepEqual(nonNil(expect.Sort), nonNil(result.Sort)) {
		fail("sort", fmt.Sprintf("%v", expect.Sort), fmt.Sprintf("%v", result.Sort))
	}

	if n := strings.Count(result.SQL, "?"); n != len(result.Values) {
		fail("placeholders", fmt.Sprintf("%d values", n), fmt.Sprintf("%d values", len(result.Values)))
	}

	return errs
}

// evaluateRows checks the store expectations.
func evaluateRows(expect Expectation, result *Result) []string {
	var errs []string
	fail := func(typ, expected, actual string) {
		errs = append(errs, (&AssertionError{Type: typ, Expected: expected, Actual: actual}).Error())
	}

	if expect.Count != nil && (result.Count == nil || *result.Count != *expect.Count) {
		actual := "no count"
		if result.Count != nil {
			actual = fmt.Sprintf("%d", *result.Count)
		}
		fail("count", fmt.Sprintf("%d", *expect.Count), actual)
	}

	if expect.Rows != nil {
		if len(result.Rows) != len(expect.Rows) {
			fail("rows", fmt.Sprintf("%d rows", len(expect.Rows)), fmt.Sprintf("%d rows: %v", len(result.Rows), result.Rows))
			return errs
		}
		for i, want := range expect.Rows {
			if !matchRecord(result.Rows[i], want) {
				fail("rows", fmt.Sprintf("row %d matching %s", i, formatRecord(want)), formatRecord(result.Rows[i]))
			}
		}
	}

	return errs
}

func describeExpectedError(e *ExpectedError) string {
	desc := e.Kind + " error"
	if e.Stage != "" {
		desc += fmt.Sprintf(" at stage %q", e.Stage)
	}
	if e.Message != "" {
		desc += fmt.Sprintf(" containing %q", e.Message)
	}
	return desc
}

// matchRecord checks that actual contains every expected column with an
// equal value (subset match).
func matchRecord(actual store.Record, expected map[string]any) bool {
	for key, expectedVal := range expected {
		actualVal, exists := actual[key]
		if !exists {
			return false
		}
		if !valueEqual(actualVal, expectedVal) {
			return false
		}
	}
	// Extra keys in actual are OK (subset match)
	return true
}

func formatRecord(r map[string]any) string {
	parts := make([]string, 0, len(r))
	for _, k := range sortedKeys(r) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, r[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// valuesEqual compares two value lists element-wise with valueEqual.
func valuesEqual(actual, expected []any) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i := range actual {
		if !valueEqual(actual[i], expected[i]) {
			return false
		}
	}
	return true
}

// valueEqual compares scalars after normalizing numbers, so an int from
// YAML equals an int64 from the decoder or the driver.
func valueEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}
	return reflect.DeepEqual(normalize(actual), normalize(expected))
}

// normalize maps every integral number to int64 and other numbers to
// float64.
func normalize(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int64(f)
		}
		return f
	default:
		return v
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
