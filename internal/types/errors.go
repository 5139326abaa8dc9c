package types

import (
	"errors"
	"fmt"
)

// ErrInterrupted marks a run stopped by the operator.
var ErrInterrupted = errors.New("run interrupted by operator")

// ErrMissingKeyColumn is wrapped by DataError when the header has no "key" column.
var ErrMissingKeyColumn = fmt.Errorf("missing required %q column", KeyColumn)

// UsageError reports missing or empty command-line input.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// DataError reports a table or template that cannot be loaded. It is fatal to
// the run.
type DataError struct {
	Path string
	Op   string
	Err  error
}

func (e *DataError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed backup or write of a single row's document. The
// batch records it and moves on.
type WriteError struct {
	Key  string
	Path string
	Op   string // "validate", "stat", "backup" or "write"
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s (key %q): %v", e.Op, e.Path, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err should abort the whole run.
func IsFatal(err error) bool {
	var de *DataError
	var ue *UsageError
	return errors.As(err, &de) || errors.As(err, &ue)
}
