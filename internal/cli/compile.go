package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/filterql/internal/querysql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Model  string // model file path
	Name   string // model name within the file
	Output string // output file path
}

// CompilationResult is the JSON form of a compiled query.
type CompilationResult struct {
	SQL    string   `json:"sql"`
	Values []any    `json:"values"`
	Pieces []string `json:"pieces"`
	Sort   []string `json:"sort"`
	Skip   int      `json:"skip"`
	Limit  int      `json:"limit"`
}

// NewCompilationResult flattens a compiled query for output.
func NewCompilationResult(q *querysql.CompiledQuery) CompilationResult {
	entries := make([]string, len(q.Sort))
	for i, e := range q.Sort {
		entries[i] = e.Field + " " + string(e.Direction)
	}
	return CompilationResult{
		SQL:    q.SQL,
		Values: q.Values,
		Pieces: q.Pieces,
		Sort:   entries,
		Skip:   q.Skip,
		Limit:  q.Limit,
	}
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [query-file|-]",
		Short: "Compile a query document to parameterized SQL",
		Long: `Compile a filter/sort/pagination document to SQL clauses and
bound values.

With --model, field names are checked against the model and sort
directions come from its sortable fields. Without it any plain
identifier may be filtered on and sort is dropped.

The query is read from the file argument, or stdin when it is absent
or "-".

Examples:
  filterql compile --model users.yaml query.json
  echo '{"filters":{"status":"enabled"}}' | filterql compile --model users.yaml
  filterql compile --model models.cue --name users query.yaml --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return runCompile(opts, input, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "model definition file (.yaml, .json or .cue)")
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "model name (optional when the file defines one model)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "also write the JSON result to this file")

	return cmd
}

func runCompile(opts *CompileOptions, input string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.config()
	if err != nil {
		return outputLoadError(formatter, err)
	}

	var whitelist querysql.Whitelist
	if opts.Model != "" {
		m, err := loadModel(opts.Model, opts.Name)
		if err != nil {
			return outputLoadError(formatter, err)
		}
		formatter.VerboseLog("Using model %s (%d field(s))", m.Name, len(m.Fields))
		whitelist = m
	}

	data, err := readInput(cmd, input)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	compiler := querysql.NewCompiler(whitelist, cfg.CompilerOptions(opts.logger(cmd))...)
	compiled, err := compileInput(compiler, data, input)
	if err != nil {
		return outputCompileError(formatter, err)
	}

	result := NewCompilationResult(compiled)

	// Write to file if --output specified
	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			return outputLoadError(formatter, &LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("writing output file: %v", err)})
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// outputCompileSuccess outputs the compiled query.
func outputCompileSuccess(formatter *OutputFormatter, result CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	values, err := compactJSON(result.Values)
	if err != nil {
		return err
	}

	formatter.Field("SQL", result.SQL)
	formatter.Field("Values", values)
	if len(result.Sort) > 0 {
		formatter.Field("Sort", strings.Join(result.Sort, ", "))
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote compiled query to %s\n", outputFile)
	}

	return nil
}

// outputCompileError reports a rejected query. A rejected query is a
// command-level error (exit code 2).
func outputCompileError(formatter *OutputFormatter, err error) error {
	code, message, detail := describeCompileError(err)
	_ = formatter.Error(code, message, detail)
	return WrapExitError(ExitCommandError, "query rejected", err)
}

// compactJSON encodes v on one line without HTML escaping.
func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// writeResultToFile writes the compiled query as indented JSON.
func writeResultToFile(result CompilationResult, filename string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := os.WriteFile(filename, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
