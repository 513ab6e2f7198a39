package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/filterql/internal/filterir"
	"github.com/roach88/filterql/internal/querysql"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Model is a path to a model definition file.
	// Paths are relative to the scenario file location.
	Model string `yaml:"model,omitempty"`

	// ModelName picks a model from the file. Optional when the file holds
	// exactly one.
	ModelName string `yaml:"model_name,omitempty"`

	// Whitelist is an inline field whitelist: field -> false | true | "asc" | "desc".
	// Ignored when Model is set.
	Whitelist map[string]any `yaml:"whitelist,omitempty"`

	// Options configures the compiler.
	Options *CompilerOptions `yaml:"options,omitempty"`

	// Setup lists rows inserted before retrieval. Requires Model.
	Setup []map[string]any `yaml:"setup,omitempty"`

	// Query is the query document (filters, sort, skip, limit).
	Query yaml.Node `yaml:"query"`

	// Expect holds the expected outcome.
	Expect Expectation `yaml:"expect"`

	// path is the file the scenario was loaded from.
	path string
}

// CompilerOptions mirrors the querysql options.
type CompilerOptions struct {
	MaxDepth     int `yaml:"max_depth,omitempty"`
	DefaultLimit int `yaml:"default_limit,omitempty"`
	MaxLimit     int `yaml:"max_limit,omitempty"`
}

// Expectation specifies the expected compile and retrieval result.
type Expectation struct {
	// SQL is the exact compiled SQL.
	SQL *string `yaml:"sql,omitempty"`

	// Values are the expected bound values, in order.
	Values []any `yaml:"values,omitempty"`

	// Sort lists retained sort entries as "field DIR".
	Sort []string `yaml:"sort,omitempty"`

	// Error expects the compile to fail.
	Error *ExpectedError `yaml:"error,omitempty"`

	// Rows are the expected retrieved rows, in order.
	// This is a subset match - only specified fields are validated.
	Rows []map[string]any `yaml:"rows,omitempty"`

	// Count is the expected number of rows matching the filter.
	Count *int64 `yaml:"count,omitempty"`
}

// ExpectedError describes an expected compile failure.
type ExpectedError struct {
	Stage   string `yaml:"stage,omitempty"`
	Kind    string `yaml:"kind"`
	Message string `yaml:"message,omitempty"`
}

// Path returns the file the scenario was loaded from, if any.
func (s *Scenario) Path() string {
	return s.path
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative model path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	scenario.path = path
	return scenario, nil
}

// ParseScenario parses scenario YAML, resolving a relative model path
// against basePath.
func ParseScenario(data []byte, basePath string) (*Scenario, error) {
	// Strict field validation catches typos like "expected:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Model != "" && !filepath.IsAbs(scenario.Model) && basePath != "" {
		scenario.Model = filepath.Join(basePath, scenario.Model)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every .yaml / .yml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Query.Kind == 0 {
		return fmt.Errorf("query is required")
	}
	if err := filterir.RejectYAMLAliases(&s.Query); err != nil {
		return fmt.Errorf("query: %w", err)
	}

	if s.Model != "" {
		if _, err := os.Stat(s.Model); os.IsNotExist(err) {
			return fmt.Errorf("model file not found: %s", s.Model)
		}
	} else {
		if s.ModelName != "" {
			return fmt.Errorf("model_name requires model")
		}
		if len(s.Setup) > 0 {
			return fmt.Errorf("setup requires model")
		}
		if len(s.Expect.Rows) > 0 || s.Expect.Count != nil {
			return fmt.Errorf("expect.rows and expect.count require model")
		}
		if _, err := whitelistFrom(s.Whitelist); err != nil {
			return err
		}
	}

	e := s.Expect
	if e.SQL == nil && e.Error == nil && len(e.Rows) == 0 && e.Count == nil {
		return fmt.Errorf("expect must specify sql, error, rows or count")
	}

	if e.Error != nil {
		if e.SQL != nil || e.Values != nil || len(e.Rows) > 0 || e.Count != nil {
			return fmt.Errorf("expect.error cannot be combined with other expectations")
		}
		switch e.Error.Kind {
		case "config", "operation":
		default:
			return fmt.Errorf("expect.error: kind must be config or operation, got %q", e.Error.Kind)
		}
		switch querysql.Stage(e.Error.Stage) {
		case "", querysql.StageFilters, querysql.StageSort, querysql.StageSkip, querysql.StageLimit:
		default:
			return fmt.Errorf("expect.error: unknown stage %q", e.Error.Stage)
		}
	}

	return nil
}
