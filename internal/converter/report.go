package converter

import (
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/csv2mdx/internal/types"
)

// RowFailure records a row whose document could not be written.
type RowFailure struct {
	Key string
	Err error
}

// Report is the result of one run.
type Report struct {
	// RunID is the RunContext ID.
	RunID string

	// Outcome is the terminal state.
	Outcome types.Outcome

	// Cause is set for OutcomeFatal (a *types.DataError) and
	// OutcomeInterrupted (wraps types.ErrInterrupted).
	Cause error

	// Rows is the number of distinct keys loaded.
	Rows int

	// Written lists keys whose documents were written, in processing order.
	Written []string

	// Backups lists backup files created.
	Backups []string

	// Failures lists failed rows in processing order.
	Failures []RowFailure

	// Skipped counts rows not attempted because the run was interrupted.
	Skipped int

	// ErrorLog is the writer error report path, if one was written.
	ErrorLog string

	// Elapsed is the run duration.
	Elapsed time.Duration
}

// Failed returns the failure recorded for key, or nil.
func (r *Report) Failed(key string) error {
	for _, f := range r.Failures {
		if f.Key == key {
			return f.Err
		}
	}
	return nil
}

// Err summarizes the run as an error; nil on success.
func (r *Report) Err() error {
	switch r.Outcome {
	case types.OutcomeSuccess:
		return nil
	case types.OutcomePartial:
		errs := make([]error, 0, len(r.Failures))
		for _, f := range r.Failures {
			errs = append(errs, fmt.Errorf("key %q: %w", f.Key, f.Err))
		}
		return fmt.Errorf("%d of %d rows failed: %w", len(r.Failures), r.Rows, errors.Join(errs...))
	default:
		return r.Cause
	}
}
