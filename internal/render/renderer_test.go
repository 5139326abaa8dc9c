package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/csv2mdx/internal/config"
	"github.com/ginjaninja78/csv2mdx/internal/types"
)

func defaultRenderer() *Renderer {
	return New(config.Default().Placeholders, config.RenderSettings{})
}

func row(header []string, fields ...string) *types.Row {
	return types.NewRow(header, fields)
}

func TestRender_Example(t *testing.T) {
	r := defaultRenderer()
	tmpl := &types.Template{Text: "Hello csv-column-name, flag=pci-321."}

	got := r.Render(row([]string{"key", "name", "pci-321-flag"}, "k1", "Alice", "true"), tmpl)
	if diff := cmp.Diff("Hello Alice, flag=true.", got); diff != "" {
		t.Errorf("Render() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_TrimsAndReplacesGlobally(t *testing.T) {
	r := defaultRenderer()
	tmpl := &types.Template{Text: "csv-column-a/csv-column-a/csv-column-key"}

	got := r.Render(row([]string{"key", "a"}, "k", "  x \t"), tmpl)
	assert.Equal(t, "x/x/k", got)
}

func TestRender_UnmatchedTokensAndColumns(t *testing.T) {
	r := defaultRenderer()
	tmpl := &types.Template{Text: "csv-column-missing CSV-COLUMN-NAME csv-column-name"}

	got := r.Render(row([]string{"key", "name", "unused"}, "k", "Ann", "zzz"), tmpl)
	assert.Equal(t, "csv-column-missing CSV-COLUMN-NAME Ann", got, "case-sensitive; unknown tokens pass through")
}

func TestRender_AnalystFollowup(t *testing.T) {
	r := defaultRenderer()
	tmpl := &types.Template{Text: "Follow-up: csv-column-cis-anal | csv-column-analyst-followup-notes"}

	got := r.Render(row([]string{"key", "analyst-followup-notes"}, "k", "call back"), tmpl)
	assert.Equal(t, "Follow-up: call back | csv-column-analyst-followup-notes", got)
}

func TestRender_TemplateNotMutated(t *testing.T) {
	r := defaultRenderer()
	tmpl := &types.Template{Text: "v=csv-column-v"}
	header := []string{"key", "v"}

	first := r.Render(row(header, "a", "1"), tmpl)
	second := r.Render(row(header, "b", "2"), tmpl)

	assert.Equal(t, "v=1", first)
	assert.Equal(t, "v=2", second)
	assert.Equal(t, "v=csv-column-v", tmpl.Text)
}

func TestRender_ValueContainingLaterToken(t *testing.T) {
	// Substitution is one pass per column in header order, so text produced by
	// an earlier column can be rewritten by a later one.
	r := defaultRenderer()
	tmpl := &types.Template{Text: "[csv-column-a] [csv-column-b]"}

	got := r.Render(row([]string{"key", "a", "b"}, "k", "see csv-column-b", "B"), tmpl)
	assert.Equal(t, "[see B] [B]", got)

	// Reversed column order leaves the earlier substitution intact.
	got = r.Render(row([]string{"key", "b", "a"}, "k", "B", "see csv-column-b"), tmpl)
	assert.Equal(t, "[see csv-column-b] [B]", got)
}

func TestTokenFor(t *testing.T) {
	r := defaultRenderer()

	tests := []struct {
		column string
		want   string
	}{
		{"name", "csv-column-name"},
		{"pci-321", "pci-321"},
		{"is-pci-321-scope", "pci-321"},
		{"analyst-followup", "csv-column-cis-anal"},
		{"x-analyst-followup-y", "csv-column-cis-anal"},
		// Both rules match: the later rule wins.
		{"pci-321-analyst-followup", "csv-column-cis-anal"},
		{"PCI-321", "csv-column-PCI-321"},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, r.TokenFor(tt.column))
		})
	}
}

func TestRender_CustomRules(t *testing.T) {
	r := New(config.PlaceholderSettings{
		Prefix: "{{",
		Rules:  []config.PlaceholderRule{{Contains: "secret", Token: "[redacted]"}},
	}, config.RenderSettings{})

	tmpl := &types.Template{Text: "{{title}} [redacted]"}
	got := r.Render(row([]string{"key", "title}}", "top-secret"}, "k", "Report", "xyz"), tmpl)
	assert.Equal(t, "Report xyz", got)
	assert.Equal(t, "{{", r.Prefix())
	assert.Len(t, r.Rules(), 1)
}

func TestRender_Sanitize(t *testing.T) {
	r := New(config.Default().Placeholders, config.RenderSettings{SanitizeValues: true})
	tmpl := &types.Template{Text: "csv-column-body"}

	got := r.Render(row([]string{"key", "body"}, "k", `<b>bold</b><script>alert(1)</script>`), tmpl)
	assert.Equal(t, "<b>bold</b>", got)
}
