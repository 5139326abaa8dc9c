// =============================================================================
// csv2mdx - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   csv2mdx validate -c <table> -t <template>
//
// Loads both inputs and reports how the table's columns line up with the
// template's tokens, without writing anything. Exits 1 when a finding is an
// error (a row that process would fail to write).
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv2mdx/internal/converter"
	"github.com/ginjaninja78/csv2mdx/internal/render"
	"github.com/ginjaninja78/csv2mdx/internal/template"
	"github.com/ginjaninja78/csv2mdx/internal/validation"
)

var validateTable string

var validateTemplate string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a table against a template without writing documents",
	Long: `The validate command loads the table and the template and reports:
  - template tokens that no column fills (they would be left as-is)
  - columns whose token the template never uses
  - duplicate keys, and keys that cannot name a file`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateTable, "csv", "c", "", "Table file (.csv or .xlsx)")
	validateCmd.Flags().StringVarP(&validateTemplate, "template", "t", "", "Template file")
}

func runValidate(cmd *cobra.Command) error {
	if err := requireInputs(validateTable, validateTemplate); err != nil {
		cmd.Usage()
		return &exitError{code: 1, err: err}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	table, err := converter.LoadTable(validateTable, cfg.CSVSettings)
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	tmpl, err := template.Load(validateTemplate)
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	result := validation.Check(table, tmpl, render.New(cfg.Placeholders, cfg.Render))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checked %d column(s) and %d token(s) over %d key(s).\n",
		result.ColumnsChecked, result.TokensChecked, table.Len())
	fmt.Fprint(out, validation.FormatFindings(result))

	if !result.IsValid() {
		return &exitError{code: 1, err: fmt.Errorf("validation found %d error(s)", result.ErrorCount)}
	}
	return nil
}
