// Package template loads the document template and lists the placeholder
// tokens it contains.
//
// Loading performs no placeholder validation: a token nothing substitutes
// passes through to every rendered document verbatim.
package template

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/ginjaninja78/csv2mdx/internal/types"
	"github.com/ginjaninja78/csv2mdx/pkg/utils"
)

// Load reads a UTF-8 template file. A leading byte order mark is dropped.
func Load(path string) (*types.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.DataError{Path: path, Op: "open", Err: err}
	}

	text, err := utils.DecodeText(data, "utf-8")
	if err != nil {
		return nil, &types.DataError{Path: path, Op: "decode", Err: err}
	}

	return &types.Template{SourceFile: path, Text: text}, nil
}

// Tokens returns the distinct placeholder tokens found in text, sorted.
//
// A prefixed token is the prefix followed by a run of letters, digits, '_',
// '-' or '.'. Column names outside that alphabet are still substituted at
// render time but are not reported here. Each fixed token is reported when it
// occurs anywhere in the text.
func Tokens(text, prefix string, fixed []string) []string {
	seen := make(map[string]struct{})

	if prefix != "" {
		re := regexp.MustCompile(regexp.QuoteMeta(prefix) + `[\w.\-]+`)
		for _, m := range re.FindAllString(text, -1) {
			// A sentence-ending dot is not part of the column name.
			seen[strings.TrimRight(m, ".")] = struct{}{}
		}
	}

	for _, tok := range fixed {
		if tok != "" && strings.Contains(text, tok) {
			seen[tok] = struct{}{}
		}
	}

	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}
