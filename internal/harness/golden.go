package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures the complete outcome of a scenario execution.
type Snapshot struct {
	ScenarioName string        `json:"scenario_name"`
	SQL          string        `json:"sql,omitempty"`
	Values       []any         `json:"values,omitempty"`
	Sort         []string      `json:"sort,omitempty"`
	Error        *CompileError `json:"error,omitempty"`
	Rows         []any         `json:"rows,omitempty"`
	Count        *int64        `json:"count,omitempty"`
}

// NewSnapshot builds a Snapshot from a result.
func NewSnapshot(name string, result *Result) Snapshot {
	s := Snapshot{
		ScenarioName: name,
		SQL:          result.SQL,
		Values:       result.Values,
		Sort:         result.Sort,
		Error:        result.CompileError,
		Count:        result.Count,
	}
	for _, r := range result.Rows {
		s.Rows = append(s.Rows, map[string]any(r))
	}
	return s
}

// MarshalSnapshot renders a snapshot as indented JSON with a trailing
// newline. HTML escaping is disabled so operators stay readable; map keys
// are sorted by encoding/json.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(NewSnapshot(scenarioName, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
