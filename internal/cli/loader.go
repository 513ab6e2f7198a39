package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/roach88/filterql/internal/filterir"
	"github.com/roach88/filterql/internal/model"
	"github.com/roach88/filterql/internal/querysql"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E002" // Input could not be read
	ErrCodeConfig      = "E003" // Config file or environment invalid
	ErrCodeLoadFailed  = "E004" // Model file failed to load
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeUnknownName = "E006" // Model name not in file
	ErrCodeWriteFailed = "E007" // File write error

	// Compile errors
	ErrCodeQueryConfig    = "E201" // Malformed query document
	ErrCodeQueryOperation = "E202" // Well-formed query the compiler cannot use

	// Store errors
	ErrCodeStore = "E301" // Database open, migrate or query failed
)

// LoadError represents an error that occurred while loading input files.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// loadModelSet loads a model file, mapping failures to error codes.
func loadModelSet(path string) (*model.Set, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("model file not found: %s", path)}
	}
	set, err := model.Load(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
	}
	return set, nil
}

// loadModel loads one model. name may be empty when the file defines
// exactly one model.
func loadModel(path, name string) (*model.Model, error) {
	set, err := loadModelSet(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		if set.Len() != 1 {
			return nil, &LoadError{
				Code:    ErrCodeUnknownName,
				Message: fmt.Sprintf("--name is required: %s defines models %s", path, strings.Join(set.Names(), ", ")),
			}
		}
		return set.All()[0], nil
	}
	m, err := set.Get(name)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeUnknownName, Message: err.Error()}
	}
	return m, nil
}

// readInput reads a file argument, or stdin when arg is empty or "-".
func readInput(cmd *cobra.Command, arg string) ([]byte, error) {
	if arg == "" || arg == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading stdin: %v", err)}
		}
		return data, nil
	}
	data, err := os.ReadFile(arg)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", arg)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading %s: %v", arg, err)}
	}
	return data, nil
}

// compileInput compiles a query document. .yaml/.yml files are YAML and
// .json files JSON; stdin and other names are JSON when they parse as JSON
// and YAML otherwise.
func compileInput(c *querysql.Compiler, data []byte, name string) (*querysql.CompiledQuery, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return c.CompileYAML(data)
	case ".json":
		return c.CompileJSON(data)
	}
	if gjson.ValidBytes(data) {
		return c.CompileJSON(data)
	}
	return c.CompileYAML(data)
}

// CompileFailure is the JSON detail for a rejected query.
type CompileFailure struct {
	Stage string `json:"stage,omitempty"`
	Kind  string `json:"kind"`
	Path  string `json:"path,omitempty"`
}

// describeCompileError maps a compile error to an error code, message and
// details.
func describeCompileError(err error) (string, string, CompileFailure) {
	var detail CompileFailure
	if stage, ok := querysql.StageOf(err); ok {
		detail.Stage = string(stage)
	}
	var ferr *filterir.Error
	if !errors.As(err, &ferr) {
		return ErrCodeGeneric, err.Error(), detail
	}
	detail.Kind = string(ferr.Kind)
	detail.Path = ferr.Path
	code := ErrCodeQueryOperation
	if ferr.Kind == filterir.KindConfig {
		code = ErrCodeQueryConfig
	}
	return code, err.Error(), detail
}

// outputLoadError reports a LoadError (or any other error) and returns a
// command error.
func outputLoadError(formatter *OutputFormatter, err error) error {
	code, message := ErrCodeGeneric, err.Error()
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code, message = loadErr.Code, loadErr.Message
	}
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}
