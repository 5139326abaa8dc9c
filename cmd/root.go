// =============================================================================
// csv2mdx - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (csv2mdx)
//   ├── processCmd  (csv2mdx process -c <table> -t <template>)
//   ├── validateCmd (csv2mdx validate -c <table> -t <template>)
//   └── versionCmd  (csv2mdx version)
//
// EXIT CODES:
//   0   success
//   1   usage error, bad configuration, or a table/template that cannot load
//   2   some documents could not be written
//   130 interrupted by the operator
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv2mdx/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "csv2mdx",
	Short: "csv2mdx - Render one MDX document per table row from a template",
	Long: `csv2mdx reads a table (CSV or XLSX) with a "key" column and a text
template, and writes <key>.mdx for every row with the row's values substituted
for the template's placeholder tokens.

A column named "name" fills the token "csv-column-name". Existing documents are
backed up to $backups/<timestamp>/ before they are overwritten, with a short
pause before each destructive step so the run can be interrupted.

Example Usage:
  csv2mdx process -c people.csv -t page.mdx   # Write one document per row
  csv2mdx validate -c people.csv -t page.mdx  # Report mismatches, write nothing
  csv2mdx process -c t.csv -t p.mdx --config ./csv2mdx.yaml`,

	SilenceErrors: true,
	SilenceUsage:  true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal.
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// Execute runs the CLI and exits with the command's exit code. It is called
// by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file; optional unless given explicitly",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// loadConfig loads the configuration for a command. The default file may be
// absent; a file named with --config must exist.
func loadConfig(cmd *cobra.Command) (*config.MainConfig, error) {
	mustExist := false
	if f := cmd.Flag("config"); f != nil {
		mustExist = f.Changed
	}

	cfg, err := config.LoadMainConfig(cfgFile, mustExist)
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}
