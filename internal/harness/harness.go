package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/roach88/filterql/internal/filterir"
	"github.com/roach88/filterql/internal/model"
	"github.com/roach88/filterql/internal/querysql"
	"github.com/roach88/filterql/internal/store"
)

// Harness is the scenario execution engine.
type Harness struct {
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger handed to the compiler. By default compiler
// warnings are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Resolve the whitelist (model file or inline map)
// 2. Compile the query
// 3. Compare SQL, values, sort or the expected error
// 4. With a model and rows/count expectations, seed a fresh in-memory
//    store and compare the retrieved rows
//
// The returned error covers problems with the scenario itself (unreadable
// model, failed seeding). Expectation mismatches are reported in
// Result.Errors.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	var (
		whitelist querysql.Whitelist
		m         *model.Model
		err       error
	)
	if scenario.Model != "" {
		m, err = loadModel(scenario.Model, scenario.ModelName)
		if err != nil {
			return nil, err
		}
		whitelist = m
	} else if len(scenario.Whitelist) > 0 {
		wl, err := whitelistFrom(scenario.Whitelist)
		if err != nil {
			return nil, err
		}
		whitelist = wl
	}

	compiler := querysql.NewCompiler(whitelist, h.compilerOptions(scenario.Options)...)

	result := NewResult()
	compiled, compileErr := compiler.CompileElement(filterir.YAMLElement(&scenario.Query))
	if compileErr != nil {
		result.CompileError = describeError(compileErr)
	} else {
		result.SQL = compiled.SQL
		result.Values = compiled.Values
		result.Sort = sortStrings(compiled.Sort)
	}

	for _, msg := range evaluateCompile(scenario.Expect, result) {
		result.AddError(msg)
	}

	if compiled != nil && m != nil && needsStore(scenario) {
		if err := h.execute(ctx, scenario, m, compiled, result); err != nil {
			return nil, err
		}
	}

	h.logger.Debug("scenario completed",
		"name", scenario.Name,
		"pass", result.Pass,
		"errors", len(result.Errors))

	return result, nil
}

func (h *Harness) compilerOptions(o *CompilerOptions) []querysql.Option {
	opts := []querysql.Option{querysql.WithLogger(h.logger)}
	if o == nil {
		return opts
	}
	return append(opts,
		querysql.WithMaxDepth(o.MaxDepth),
		querysql.WithDefaultLimit(o.DefaultLimit),
		querysql.WithMaxLimit(o.MaxLimit),
	)
}

func needsStore(s *Scenario) bool {
	return len(s.Setup) > 0 || len(s.Expect.Rows) > 0 || s.Expect.Count != nil
}

// execute seeds an isolated in-memory store and evaluates row expectations.
func (h *Harness) execute(ctx context.Context, scenario *Scenario, m *model.Model, q *querysql.CompiledQuery, result *Result) error {
	st, err := store.Open(":memory:")
	if err != nil {
		return fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx, m); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	records := make([]store.Record, len(scenario.Setup))
	for i, row := range scenario.Setup {
		records[i] = store.Record(row)
	}
	if len(records) > 0 {
		if _, err := st.Create(ctx, m, records); err != nil {
			return fmt.Errorf("failed to execute setup: %w", err)
		}
	}

	rows, err := st.Retrieve(ctx, m, q)
	if err != nil {
		return fmt.Errorf("failed to retrieve: %w", err)
	}
	result.Rows = rows

	count, err := st.Count(ctx, m, q)
	if err != nil {
		return fmt.Errorf("failed to count: %w", err)
	}
	result.Count = &count

	for _, msg := range evaluateRows(scenario.Expect, result) {
		result.AddError(msg)
	}
	return nil
}

func loadModel(path, name string) (*model.Model, error) {
	set, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		if set.Len() != 1 {
			return nil, fmt.Errorf("model_name is required: %s defines %d models", path, set.Len())
		}
		return set.All()[0], nil
	}
	return set.Get(name)
}

// whitelistFrom converts an inline whitelist. Values may be false (not
// sortable), true (ASC) or a direction string.
func whitelistFrom(raw map[string]any) (querysql.StaticWhitelist, error) {
	wl := make(querysql.StaticWhitelist, len(raw))
	for field, v := range raw {
		switch val := v.(type) {
		case nil:
			wl[field] = filterir.NotSortable
		case bool:
			if val {
				wl[field] = filterir.Asc
			} else {
				wl[field] = filterir.NotSortable
			}
		case string:
			dir, ok := filterir.ParseDirection(val)
			if !ok {
				return nil, fmt.Errorf("whitelist.%s: direction must be asc or desc, got %q", field, val)
			}
			wl[field] = dir
		default:
			return nil, fmt.Errorf("whitelist.%s: expected false, true or a direction, got %v", field, v)
		}
	}
	return wl, nil
}

// describeError flattens a compile error for comparison and snapshots.
func describeError(err error) *CompileError {
	ce := &CompileError{Message: err.Error()}
	if stage, ok := querysql.StageOf(err); ok {
		ce.Stage = string(stage)
	}
	var ferr *filterir.Error
	if errors.As(err, &ferr) {
		ce.Kind = string(ferr.Kind)
		ce.Path = ferr.Path
		ce.Message = ferr.Message
	}
	return ce
}

func sortStrings(spec filterir.SortSpec) []string {
	out := make([]string, len(spec))
	for i, e := range spec {
		out[i] = e.Field + " " + string(e.Direction)
	}
	return out
}

// sortedKeys returns map keys in sorted order for deterministic messages.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
