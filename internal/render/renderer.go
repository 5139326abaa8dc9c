// =============================================================================
// csv2mdx - Placeholder Renderer
// =============================================================================
//
// Renders one document per row by literal find-and-replace of placeholder
// tokens in the template text.
//
// TOKEN SELECTION (per column):
//   1. Every rule in the rule table is checked in order; a rule matches when
//      the column name contains its substring. The last matching rule's token
//      is used.
//   2. With no matching rule the token is <prefix><column>, e.g.
//      "csv-column-name".
//
// SUBSTITUTION:
//   Columns are applied one after another in header order. Each pass replaces
//   every occurrence of the column's token with the column value trimmed of
//   surrounding whitespace. A value that itself contains another column's
//   token text is rewritten by that later column's pass.
//
// =============================================================================

package render

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ginjaninja78/csv2mdx/internal/config"
	"github.com/ginjaninja78/csv2mdx/internal/types"
)

// Rule maps columns whose name contains Contains to the fixed token Token.
type Rule struct {
	Contains string
	Token    string
}

// Renderer substitutes row values into a template. It is safe for concurrent
// use; it holds no per-render state.
type Renderer struct {
	prefix   string
	rules    []Rule
	sanitize *bluemonday.Policy
}

// New builds a Renderer from placeholder and render settings.
func New(placeholders config.PlaceholderSettings, opts config.RenderSettings) *Renderer {
	r := &Renderer{prefix: placeholders.Prefix}

	for _, pr := range placeholders.Rules {
		r.rules = append(r.rules, Rule{Contains: pr.Contains, Token: pr.Token})
	}

	if opts.SanitizeValues {
		r.sanitize = bluemonday.UGCPolicy()
	}

	return r
}

// Prefix returns the default token prefix.
func (r *Renderer) Prefix() string {
	return r.prefix
}

// Rules returns a copy of the rule table.
func (r *Renderer) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// TokenFor returns the template token a column's value replaces.
func (r *Renderer) TokenFor(column string) string {
	token := r.prefix + column
	for _, rule := range r.rules {
		if strings.Contains(column, rule.Contains) {
			token = rule.Token
		}
	}
	return token
}

// Value returns the text substituted for a column: trimmed, and sanitized
// when enabled.
func (r *Renderer) Value(raw string) string {
	v := strings.TrimSpace(raw)
	if r.sanitize != nil {
		v = r.sanitize.Sanitize(v)
	}
	return v
}

// Render produces the document for one row. The template is not modified.
func (r *Renderer) Render(row *types.Row, tmpl *types.Template) string {
	out := tmpl.Text
	for _, column := range row.Columns {
		token := r.TokenFor(column)
		if token == "" {
			continue
		}
		out = strings.ReplaceAll(out, token, r.Value(row.Values[column]))
	}
	return out
}
