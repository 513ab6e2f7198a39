package harness

import (
	"github.com/roach88/filterql/internal/store"
)

// CompileError is the serializable form of a compile failure.
type CompileError struct {
	Stage   string `json:"stage,omitempty"`
	Kind    string `json:"kind"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// SQL and Values are the compiled output; empty when compiling failed.
	SQL    string `json:"sql,omitempty"`
	Values []any  `json:"values,omitempty"`

	// Sort lists the retained sort entries as "field DIR".
	Sort []string `json:"sort,omitempty"`

	// CompileError is set when compiling failed.
	CompileError *CompileError `json:"error,omitempty"`

	// Rows and Count are set when the scenario touched the store.
	Rows  []store.Record `json:"rows,omitempty"`
	Count *int64         `json:"count,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
