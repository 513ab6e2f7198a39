package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/filterql/internal/model"
	"github.com/roach88/filterql/internal/querysql"
	"github.com/roach88/filterql/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Database string
	Driver   string
	Model    string
	Name     string
	Count    bool
}

// QueryResult is the JSON form of a query run.
type QueryResult struct {
	SQL   string         `json:"sql"`
	Rows  []store.Record `json:"rows"`
	Count *int64         `json:"count,omitempty"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query [query-file|-]",
		Short: "Compile a query and run it against a model's table",
		Long: `Compile a query document against a model and run
SELECT <visible columns> FROM <table> <compiled SQL>.

The database and driver default to the database and driver config keys.
With --count the matching row total (ignoring pagination) is printed too.

Examples:
  filterql query --db ./users.db --model users.yaml query.json
  filterql query --driver mysql --db 'user:pass@tcp(localhost:3306)/badwolf_master' \
      --model users.yaml --count query.yaml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return runQuery(opts, input, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "database path or DSN (default: database config key)")
	cmd.Flags().StringVar(&opts.Driver, "driver", "", "database driver: sqlite3 or mysql (default: driver config key)")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "model definition file (required)")
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "model name (optional when the file defines one model)")
	cmd.Flags().BoolVar(&opts.Count, "count", false, "also print the number of matching rows")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func runQuery(opts *QueryOptions, input string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd)

	cfg, err := opts.config()
	if err != nil {
		return outputLoadError(formatter, err)
	}

	m, err := loadModel(opts.Model, opts.Name)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	data, err := readInput(cmd, input)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	compiled, err := compileInput(querysql.NewCompiler(m, cfg.CompilerOptions(logger)...), data, input)
	if err != nil {
		return outputCompileError(formatter, err)
	}
	formatter.VerboseLog("Compiled: %s", compiled.SQL)

	st, err := openStore(cfg, opts.Driver, opts.Database, logger)
	if err != nil {
		return outputStoreError(formatter, err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	rows, err := st.Retrieve(ctx, m, compiled)
	if err != nil {
		return outputStoreError(formatter, err)
	}

	result := QueryResult{SQL: compiled.SQL, Rows: rows}
	if opts.Count {
		count, err := st.Count(ctx, m, compiled)
		if err != nil {
			return outputStoreError(formatter, err)
		}
		result.Count = &count
	}

	return outputQuerySuccess(formatter, m, result)
}

// openStore opens the database named by the flags, falling back to config.
func openStore(cfg *Config, driver, database string, logger *slog.Logger) (*store.Store, error) {
	if driver == "" {
		driver = cfg.Driver
	}
	if database == "" {
		database = cfg.Database
	}
	if database == "" {
		return nil, fmt.Errorf("no database: pass --db or set the database config key")
	}

	logger.Debug("opening database", "driver", driver)
	return store.OpenDriver(driver, database)
}

// outputStoreError reports a database failure as a command error.
func outputStoreError(formatter *OutputFormatter, err error) error {
	_ = formatter.Error(ErrCodeStore, err.Error(), nil)
	return WrapExitError(ExitCommandError, "database error", err)
}

// outputQuerySuccess prints rows one per line as column=value pairs in
// column order.
func outputQuerySuccess(formatter *OutputFormatter, m *model.Model, result QueryResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	cols := m.VisibleColumns()
	for _, row := range result.Rows {
		parts := make([]string, 0, len(cols))
		for _, col := range cols {
			parts = append(parts, fmt.Sprintf("%s=%v", col, formatCell(row[col])))
		}
		fmt.Fprintln(formatter.Writer, strings.Join(parts, " "))
	}

	fmt.Fprintf(formatter.Writer, "\n%d row(s)\n", len(result.Rows))
	if result.Count != nil {
		fmt.Fprintf(formatter.Writer, "%d matching in total\n", *result.Count)
	}
	return nil
}

func formatCell(v any) any {
	if v == nil {
		return "NULL"
	}
	return v
}
