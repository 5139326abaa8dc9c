// =============================================================================
// csv2mdx - Preflight Validation
// =============================================================================
//
// This module checks a table and a template against each other before any
// document is written. It never changes what a run does; it only reports.
//
// CHECKS:
//   - error:   a key is empty or contains a path separator (the row would fail)
//   - warning: a template token that no column produces (left verbatim)
//   - warning: a duplicate key (the later row replaces the earlier one)
//   - warning: two columns map to the same token (only the first is seen)
//   - warning: an empty column name (its token is the bare prefix)
//   - info:    a column whose token does not occur in the template
//
// Findings are collected, not returned as they are found.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/csv2mdx/internal/render"
	"github.com/ginjaninja78/csv2mdx/internal/template"
	"github.com/ginjaninja78/csv2mdx/internal/types"
	"github.com/ginjaninja78/csv2mdx/pkg/utils"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// =============================================================================
// FINDING TYPES
// =============================================================================

// Finding is a single preflight observation.
type Finding struct {
	// Severity is "error", "warning" or "info".
	Severity string

	// Check names the rule that produced the finding.
	Check string

	// Subject is the key, column or token concerned.
	Subject string

	// Message is a human-readable description.
	Message string
}

// String formats the finding on one line.
func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s %q: %s", strings.ToUpper(f.Severity), f.Check, f.Subject, f.Message)
}

// Result contains the findings of a check.
type Result struct {
	// Findings in check order.
	Findings []Finding

	// ErrorCount is the number of error findings.
	ErrorCount int

	// WarningCount is the number of warning findings.
	WarningCount int

	// ColumnsChecked and TokensChecked size the comparison.
	ColumnsChecked int
	TokensChecked  int
}

// IsValid is true when there are no error findings.
func (r *Result) IsValid() bool {
	return r.ErrorCount == 0
}

func (r *Result) add(severity, check, subject, message string) {
	r.Findings = append(r.Findings, Finding{
		Severity: severity,
		Check:    check,
		Subject:  subject,
		Message:  message,
	})
	switch severity {
	case SeverityError:
		r.ErrorCount++
	case SeverityWarning:
		r.WarningCount++
	}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Check compares the table against the template using the renderer's token
// rules.
func Check(table *types.Table, tmpl *types.Template, renderer *render.Renderer) *Result {
	result := &Result{ColumnsChecked: len(table.Header)}

	// Column -> token, and which column first claimed each token.
	produced := make(map[string]string)
	for _, column := range table.Header {
		token := renderer.TokenFor(column)

		if column == "" {
			result.add(SeverityWarning, "empty-column", column,
				fmt.Sprintf("its token is the bare prefix %q and will replace every occurrence", token))
		}

		if first, seen := produced[token]; seen {
			if first != column {
				result.add(SeverityWarning, "shared-token", column,
					fmt.Sprintf("maps to %q already used by column %q; only the first value appears", token, first))
			}
			continue
		}
		produced[token] = column

		if !strings.Contains(tmpl.Text, token) {
			result.add(SeverityInfo, "unused-column", column,
				fmt.Sprintf("token %q does not occur in the template", token))
		}
	}

	fixed := make([]string, 0)
	for _, rule := range renderer.Rules() {
		fixed = append(fixed, rule.Token)
	}
	tokens := template.Tokens(tmpl.Text, renderer.Prefix(), fixed)
	result.TokensChecked = len(tokens)
	for _, token := range tokens {
		if _, ok := produced[token]; !ok {
			result.add(SeverityWarning, "unmatched-token", token,
				"no column produces this token; it will appear verbatim in every document")
		}
	}

	for _, key := range table.Duplicates {
		result.add(SeverityWarning, "duplicate-key", key,
			"key appears more than once; the later row replaces the earlier one")
	}

	for _, key := range table.Keys {
		if err := utils.CheckKey(key); err != nil {
			result.add(SeverityError, "unsafe-key", key, err.Error())
		}
	}

	return result
}

// =============================================================================
// OUTPUT
// =============================================================================

// FormatFindings formats findings for display.
func FormatFindings(result *Result) string {
	if len(result.Findings) == 0 {
		return "No findings.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Check completed with %d error(s), %d warning(s):\n\n",
		result.ErrorCount, result.WarningCount)
	for i, f := range result.Findings {
		fmt.Fprintf(&b, "%d. %s\n", i+1, f)
	}
	return b.String()
}
