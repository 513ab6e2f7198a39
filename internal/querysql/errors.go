package querysql

import (
	"errors"
	"fmt"
)

// Stage identifies which part of a query failed to compile.
type Stage string

const (
	StageFilters Stage = "filters"
	StageSort    Stage = "sort"
	StageSkip    Stage = "skip"
	StageLimit   Stage = "limit"
)

// QueryError tags a compile failure with the stage it came from.
//
// Err is usually a *filterir.Error, so filterir.IsConfigError and
// filterir.IsOperationError see through a QueryError.
type QueryError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage of the first QueryError in err's chain.
func StageOf(err error) (Stage, bool) {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Stage, true
	}
	return "", false
}

func stageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Stage: stage, Err: err}
}
