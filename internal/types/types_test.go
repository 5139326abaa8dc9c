package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRow(t *testing.T) {
	row := NewRow([]string{"key", "name", "name", "extra"}, []string{"k1", "first", "second"})

	assert.Equal(t, []string{"key", "name", "extra"}, row.Columns)
	assert.Equal(t, "k1", row.Key())

	name, ok := row.Get("name")
	require.True(t, ok)
	assert.Equal(t, "second", name)

	extra, ok := row.Get("extra")
	require.True(t, ok)
	assert.Empty(t, extra)

	_, ok = row.Get("missing")
	assert.False(t, ok)
}

func TestTable_Add(t *testing.T) {
	header := []string{"key", "v"}
	table := NewTable("t.csv", header)

	table.Add(NewRow(header, []string{"b", "1"}))
	table.Add(NewRow(header, []string{"a", "2"}))
	table.Add(NewRow(header, []string{"b", "3"}))

	assert.Equal(t, []string{"b", "a"}, table.Keys)
	assert.Equal(t, []string{"b"}, table.Duplicates)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 3, table.RecordCount)

	v, _ := table.Rows["b"].Get("v")
	assert.Equal(t, "3", v)
}

func TestCheckHeader(t *testing.T) {
	assert.NoError(t, CheckHeader([]string{"name", "key"}))
	assert.ErrorIs(t, CheckHeader([]string{"Key", " key"}), ErrMissingKeyColumn)
	assert.ErrorIs(t, CheckHeader(nil), ErrMissingKeyColumn)
}

func TestErrors(t *testing.T) {
	cause := errors.New("permission denied")

	de := &DataError{Path: "t.csv", Op: "open", Err: cause}
	assert.Equal(t, "open t.csv: permission denied", de.Error())
	assert.ErrorIs(t, de, cause)
	assert.True(t, IsFatal(fmt.Errorf("load: %w", de)))

	we := &WriteError{Key: "k1", Path: "out/k1.mdx", Op: "write", Err: cause}
	assert.Equal(t, `write out/k1.mdx (key "k1"): permission denied`, we.Error())
	assert.ErrorIs(t, we, cause)
	assert.False(t, IsFatal(we))

	assert.True(t, IsFatal(&UsageError{Message: "missing --csv"}))
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		outcome Outcome
		label   string
		code    int
	}{
		{OutcomeSuccess, "success", 0},
		{OutcomePartial, "partial", 2},
		{OutcomeFatal, "load_failure", 1},
		{OutcomeInterrupted, "interrupted", 130},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.label, tt.outcome.String())
			assert.Equal(t, tt.code, tt.outcome.ExitCode())
		})
	}
}
