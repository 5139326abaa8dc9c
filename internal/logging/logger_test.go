package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestNew_MirrorsToAllWriters(t *testing.T) {
	var console, file bytes.Buffer
	logger := New("info", &console, &file)

	logger.Debug("hidden")
	logger.Info("saving new file", "file", "k1.mdx")

	for _, buf := range []*bytes.Buffer{&console, &file} {
		out := buf.String()
		assert.Contains(t, out, `msg="saving new file"`)
		assert.Contains(t, out, "file=k1.mdx")
		assert.Contains(t, out, "time=")
		assert.NotContains(t, out, "hidden")
	}
}

func TestOpenRunLog_Appends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	for _, line := range []string{"first\n", "second\n"} {
		f, err := OpenRunLog(dir, "20261019_101500")
		require.NoError(t, err)
		_, err = f.WriteString(line)
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	data, err := os.ReadFile(filepath.Join(dir, "csv2mdx_20261019_101500.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}
