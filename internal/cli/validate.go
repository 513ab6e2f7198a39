package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/filterql/internal/model"
)

// ModelSummary describes one loaded model.
type ModelSummary struct {
	Name         string   `json:"name"`
	Table        string   `json:"table"`
	Fields       int      `json:"fields"`
	Sortable     []string `json:"sortable"`
	Hidden       []string `json:"hidden,omitempty"`
	Associations []string `json:"associations,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool           `json:"valid"`
	Models []ModelSummary `json:"models"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <model-file>",
		Short: "Validate a model definition file",
		Long: `Load a model definition file (.yaml, .json or .cue) and report
each model's table, sortable fields and associations.

Exit codes:
  0 - File is valid
  1 - File loaded but a definition is invalid
  2 - File not found`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	set, err := loadModelSet(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Code == ErrCodeLoadFailed {
			return outputValidationError(formatter, loadErr)
		}
		return outputLoadError(formatter, err)
	}

	result := ValidationResult{Valid: true, Models: make([]ModelSummary, 0, set.Len())}
	for _, m := range set.All() {
		formatter.VerboseLog("Validated model: %s", m.Name)
		result.Models = append(result.Models, summarize(m))
	}

	return outputValidateSuccess(formatter, result)
}

func summarize(m *model.Model) ModelSummary {
	s := ModelSummary{
		Name:     m.Name,
		Table:    m.QualifiedTable(),
		Fields:   len(m.Fields),
		Sortable: []string{},
	}
	for _, f := range m.Fields {
		if f.Sortable != "" {
			s.Sortable = append(s.Sortable, fmt.Sprintf("%s %s", f.Name, f.Sortable))
		}
		if f.Hidden {
			s.Hidden = append(s.Hidden, f.Name)
		}
	}
	for _, a := range m.Associations {
		s.Associations = append(s.Associations, fmt.Sprintf("%s (%s %s.%s)", a.Name, a.Type, a.Schema, a.Table))
	}
	return s
}

func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	formatter.Pass("%d model(s) valid", len(result.Models))
	fmt.Fprintln(formatter.Writer)
	for _, m := range result.Models {
		fmt.Fprintf(formatter.Writer, "  %s: %s, %d field(s), %d sortable\n",
			m.Name, m.Table, m.Fields, len(m.Sortable))
		for _, a := range m.Associations {
			fmt.Fprintf(formatter.Writer, "    association %s\n", a)
		}
	}
	return nil
}

// outputValidationError reports an invalid definition.
// Validation failures = exit code 1 (test/validation failure)
func outputValidationError(formatter *OutputFormatter, loadErr *LoadError) error {
	if formatter.Format == "json" {
		_ = formatter.encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Models: []ModelSummary{}},
			Error:  &CLIError{Code: loadErr.Code, Message: loadErr.Message},
		})
	} else {
		formatter.Fail("Validation failed")
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", loadErr.Code, loadErr.Message)
	}

	return NewExitError(ExitFailure, "validation failed")
}
