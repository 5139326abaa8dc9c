// =============================================================================
// csv2mdx - Batch Runner
// =============================================================================
//
// This module orchestrates a run, from loading the inputs to the final report.
//
// PIPELINE:
//   1. Load the table (CSV or XLSX) and the template
//   2. For each key in table order:
//      a. Stop if the operator interrupted the run
//      b. Render the row into the template
//      c. Write <key>.mdx, backing up any existing file
//      d. On a write failure record it against the key and continue
//   3. Write the error report when any row failed
//   4. Log the terminal state and elapsed time
//
// STATES:
//   Idle -> Loading -> Processing(row_i) -> ... -> Done(success | partial)
//   Loading failure       -> Aborted(load_failure)
//   Operator interruption -> Aborted(interrupted)
//
// Rows are independent: nothing already written is rolled back.
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/csv2mdx/internal/config"
	"github.com/ginjaninja78/csv2mdx/internal/csvparser"
	"github.com/ginjaninja78/csv2mdx/internal/render"
	"github.com/ginjaninja78/csv2mdx/internal/template"
	"github.com/ginjaninja78/csv2mdx/internal/types"
	"github.com/ginjaninja78/csv2mdx/internal/xlsxparser"
	"github.com/ginjaninja78/csv2mdx/pkg/utils"
)

// =============================================================================
// RUNNER STRUCTURE
// =============================================================================

// Runner executes one batch run.
type Runner struct {
	rc       *RunContext
	renderer *render.Renderer
}

// New creates a Runner for the run context.
func New(rc *RunContext) *Runner {
	return &Runner{
		rc:       rc,
		renderer: render.New(rc.Config.Placeholders, rc.Config.Render),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run loads both inputs and writes one document per key. It never returns a
// nil report; the terminal state is in Report.Outcome.
func (r *Runner) Run(ctx context.Context, tablePath, templatePath string) *Report {
	log := r.rc.Logger
	report := &Report{RunID: r.rc.ID}

	log.Info("program starting", "run_id", r.rc.ID, "output_dir", absPath(r.rc.Config.OutputDir))

	// =========================================================================
	// STEP 1: LOAD INPUTS
	// =========================================================================

	table, tmpl, err := r.load(tablePath, templatePath)
	if err != nil {
		report.Outcome = types.OutcomeFatal
		report.Cause = err
		return r.finish(report)
	}
	report.Rows = table.Len()

	log.Info("inputs loaded",
		"table", tablePath,
		"rows", table.RecordCount,
		"keys", table.Len(),
		"template", templatePath)
	for _, key := range table.Duplicates {
		log.Warn("duplicate key, later row replaces earlier one", "key", key)
	}

	files, err := r.rc.FileManager()
	if err != nil {
		report.Outcome = types.OutcomeFatal
		report.Cause = err
		return r.finish(report)
	}

	// =========================================================================
	// STEP 2: PROCESS ROWS
	// =========================================================================

	for i, key := range table.Keys {
		if ctx.Err() != nil {
			r.interrupt(ctx, report, len(table.Keys)-i)
			break
		}

		log.Debug("processing row", "index", i+1, "total", len(table.Keys), "key", key)
		doc := r.renderer.Render(table.Rows[key], tmpl)

		res, err := files.Write(ctx, key, doc)
		if err != nil {
			var writeErr *types.WriteError
			if !errors.As(err, &writeErr) && ctx.Err() != nil {
				// Cancelled during the pause before a destructive step.
				r.interrupt(ctx, report, len(table.Keys)-i)
				break
			}
			log.Error("template writer error", "key", key, "error", err)
			report.Failures = append(report.Failures, RowFailure{Key: key, Err: err})
			continue
		}

		report.Written = append(report.Written, key)
		if res.BackupPath != "" {
			report.Backups = append(report.Backups, res.BackupPath)
		}
	}

	// =========================================================================
	// STEP 3: OUTCOME
	// =========================================================================

	if report.Outcome != types.OutcomeInterrupted {
		if len(report.Failures) > 0 {
			report.Outcome = types.OutcomePartial
		} else {
			report.Outcome = types.OutcomeSuccess
		}
	}

	if len(report.Failures) > 0 {
		path, err := utils.WriteErrorLog(errorLogEntries(report.Failures), r.rc.Config.LogDir, r.rc.Stamp)
		if err != nil {
			log.Error("could not write error report", "error", err)
		}
		report.ErrorLog = path
	}

	return r.finish(report)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// load reads the table and the template. Errors are *types.DataError.
func (r *Runner) load(tablePath, templatePath string) (*types.Table, *types.Template, error) {
	table, err := LoadTable(tablePath, r.rc.Config.CSVSettings)
	if err != nil {
		return nil, nil, err
	}

	tmpl, err := template.Load(templatePath)
	if err != nil {
		return nil, nil, err
	}

	return table, tmpl, nil
}

// LoadTable reads a table, choosing the parser by file extension: .xlsx
// workbooks go through excelize, everything else is read as delimited text.
func LoadTable(path string, settings config.CSVSettings) (*types.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return xlsxparser.Parse(path, settings.Sheet)
	}
	return csvparser.Parse(path, settings)
}

// interrupt marks the run as cancelled by the operator.
func (r *Runner) interrupt(ctx context.Context, report *Report, remaining int) {
	report.Outcome = types.OutcomeInterrupted
	report.Cause = fmt.Errorf("%w: %w", types.ErrInterrupted, context.Cause(ctx))
	report.Skipped = remaining
}

// finish stamps the elapsed time and logs the terminal state.
func (r *Runner) finish(report *Report) *Report {
	log := r.rc.Logger
	report.Elapsed = r.rc.Elapsed()
	elapsed := fmt.Sprintf("%.2fs", report.Elapsed.Round(10*time.Millisecond).Seconds())

	switch report.Outcome {
	case types.OutcomeSuccess:
		log.Info("process completed successfully",
			"written", len(report.Written),
			"backups", len(report.Backups),
			"elapsed", elapsed)
	case types.OutcomePartial:
		log.Warn("process completed with errors",
			"written", len(report.Written),
			"failed", len(report.Failures),
			"error_report", report.ErrorLog,
			"elapsed", elapsed)
	case types.OutcomeInterrupted:
		log.Warn("terminating program",
			"written", len(report.Written),
			"skipped", report.Skipped)
		log.Info("program terminated", "elapsed", elapsed)
	case types.OutcomeFatal:
		log.Error("run aborted", "error", report.Cause, "elapsed", elapsed)
	}

	return report
}

// errorLogEntries converts failures for the error report.
func errorLogEntries(failures []RowFailure) []utils.ErrorLogEntry {
	now := time.Now()
	entries := make([]utils.ErrorLogEntry, 0, len(failures))
	for _, f := range failures {
		entry := utils.ErrorLogEntry{
			Timestamp: now,
			Key:       f.Key,
			Message:   f.Err.Error(),
		}
		var writeErr *types.WriteError
		if errors.As(f.Err, &writeErr) {
			entry.Path = writeErr.Path
			entry.Op = writeErr.Op
		}
		entries = append(entries, entry)
	}
	return entries
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
