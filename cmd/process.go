// =============================================================================
// csv2mdx - Process Command
// =============================================================================
//
// This file defines the 'process' command, which renders one document per
// table row.
//
// COMMAND USAGE:
//   csv2mdx process -c <table> -t <template> [flags]
//
// FLAGS:
//   -c, --csv      : Table file (.csv, or .xlsx for a workbook)
//   -t, --template : Template file
//
// PROCESSING PIPELINE:
//   1. Check the flags and load the configuration
//   2. Start the run (backup directory, run log, logger)
//   3. Load the table and template, write <key>.mdx for every key
//   4. Print the summary and exit with the outcome's code
//
// SIGINT/SIGTERM stop the run between rows or during a pause.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv2mdx/internal/converter"
	"github.com/ginjaninja78/csv2mdx/internal/types"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var processTable string

var processTemplate string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Write one MDX document per table row",
	Long: `The process command loads the table and the template, then for every
distinct key writes <key>.mdx to the output directory.

When <key>.mdx already exists:
  - it is copied to $backups/<timestamp>/<key>.mdx.bak first
  - the run pauses before the copy and before the overwrite (interrupt to stop)

A row that cannot be written is logged and recorded in writer_errors_<timestamp>.log;
the remaining rows are still processed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&processTable, "csv", "c", "", "Table file (.csv or .xlsx)")
	processCmd.Flags().StringVarP(&processTemplate, "template", "t", "", "Template file")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(cmd *cobra.Command) error {
	if err := requireInputs(processTable, processTemplate); err != nil {
		cmd.Usage()
		return &exitError{code: 1, err: err}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc, err := converter.NewRunContext(cfg, cmd.ErrOrStderr())
	if err != nil {
		return &exitError{code: 1, err: fmt.Errorf("failed to start run: %w", err)}
	}
	defer rc.Close()

	report := converter.New(rc).Run(ctx, processTable, processTemplate)

	printSummary(cmd, rc, report)

	if code := report.Outcome.ExitCode(); code != 0 {
		return &exitError{code: code, err: report.Err()}
	}
	return nil
}

// requireInputs returns a *types.UsageError naming the missing flags.
func requireInputs(table, template string) error {
	var missing []string
	if strings.TrimSpace(table) == "" {
		missing = append(missing, "--csv")
	}
	if strings.TrimSpace(template) == "" {
		missing = append(missing, "--template")
	}
	if len(missing) > 0 {
		return &types.UsageError{Message: fmt.Sprintf("required flag(s) %s not set", strings.Join(missing, ", "))}
	}
	return nil
}

// printSummary writes the end-of-run summary to stdout.
func printSummary(cmd *cobra.Command, rc *converter.RunContext, report *converter.Report) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Run:             %s\n", report.RunID)
	fmt.Fprintf(out, "Outcome:         %s\n", report.Outcome)
	fmt.Fprintf(out, "Keys:            %d\n", report.Rows)
	fmt.Fprintf(out, "Written:         %d\n", len(report.Written))
	fmt.Fprintf(out, "Backed up:       %d\n", len(report.Backups))
	fmt.Fprintf(out, "Failed:          %d\n", len(report.Failures))
	if report.Skipped > 0 {
		fmt.Fprintf(out, "Skipped:         %d\n", report.Skipped)
	}
	fmt.Fprintf(out, "Time elapsed:    %s\n", report.Elapsed.Round(10*time.Millisecond))
	fmt.Fprintf(out, "Run log:         %s\n", rc.LogPath)
	if report.ErrorLog != "" {
		fmt.Fprintf(out, "Error report:    %s\n", report.ErrorLog)
	}
	if len(report.Backups) > 0 {
		fmt.Fprintf(out, "Backups in:      %s\n", rc.BackupDir)
	}
	if errors.Is(report.Cause, types.ErrInterrupted) {
		fmt.Fprintln(out, "Run interrupted; documents already written were kept.")
	}
}
