package utils

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csv2mdx/internal/types"
)

func newTestManager(t *testing.T) *FileManager {
	t.Helper()
	root := t.TempDir()
	fm := NewFileManager(filepath.Join(root, "out"), filepath.Join(root, "out", "$backups", "20261019_101500"))
	require.NoError(t, fm.EnsureDirectories())
	return fm
}

func TestWrite_NewFile(t *testing.T) {
	fm := newTestManager(t)

	res, err := fm.Write(context.Background(), "k1", "Hello Zoë")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(fm.OutputDir, "k1.mdx"), res.Path)
	assert.Empty(t, res.BackupPath)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "Hello Zoë", string(data))

	entries, err := os.ReadDir(fm.BackupDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWrite_BacksUpExisting(t *testing.T) {
	fm := newTestManager(t)
	path := filepath.Join(fm.OutputDir, "k1.mdx")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	res, err := fm.Write(context.Background(), "k1", "new")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(fm.BackupDir, "k1.mdx.bak"), res.BackupPath)

	backup, err := os.ReadFile(res.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "old", string(backup))

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(current))
}

func TestWrite_SecondCollisionOverwritesBackup(t *testing.T) {
	fm := newTestManager(t)
	ctx := context.Background()
	path := filepath.Join(fm.OutputDir, "k1.mdx")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0o644))

	_, err := fm.Write(ctx, "k1", "v1")
	require.NoError(t, err)
	res, err := fm.Write(ctx, "k1", "v2")
	require.NoError(t, err)

	backup, err := os.ReadFile(res.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(backup))
}

func TestWrite_UnsafeKey(t *testing.T) {
	fm := newTestManager(t)

	for _, key := range []string{"", "../escape", "a/b"} {
		_, err := fm.Write(context.Background(), key, "x")

		var we *types.WriteError
		require.ErrorAs(t, err, &we, "key %q", key)
		assert.Equal(t, "validate", we.Op)
		assert.ErrorIs(t, err, ErrUnsafeKey)
	}
}

func TestWrite_DirectoryInTheWay(t *testing.T) {
	fm := newTestManager(t)
	require.NoError(t, os.Mkdir(filepath.Join(fm.OutputDir, "k2.mdx"), 0o755))

	_, err := fm.Write(context.Background(), "k2", "x")

	var we *types.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "write", we.Op)
	assert.Equal(t, "k2", we.Key)
}

func TestWrite_BackupFailure(t *testing.T) {
	fm := newTestManager(t)
	require.NoError(t, os.WriteFile(filepath.Join(fm.OutputDir, "k1.mdx"), []byte("old"), 0o644))
	fm.BackupDir = filepath.Join(fm.OutputDir, "missing", "dir")

	_, err := fm.Write(context.Background(), "k1", "new")

	var we *types.WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "backup", we.Op)

	current, err := os.ReadFile(filepath.Join(fm.OutputDir, "k1.mdx"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(current), "a failed backup must not be followed by an overwrite")
}

func TestWrite_CancelDuringPause(t *testing.T) {
	fm := newTestManager(t)
	fm.Pause = time.Hour
	path := filepath.Join(fm.OutputDir, "k1.mdx")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := fm.Write(ctx, "k1", "new")
	assert.True(t, errors.Is(err, context.Canceled))

	var we *types.WriteError
	assert.False(t, errors.As(err, &we))

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(current))
}

func TestWrite_PauseElapses(t *testing.T) {
	fm := newTestManager(t)
	fm.Pause = 5 * time.Millisecond
	require.NoError(t, os.WriteFile(filepath.Join(fm.OutputDir, "k1.mdx"), []byte("old"), 0o644))

	start := time.Now()
	_, err := fm.Write(context.Background(), "k1", "new")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestWriteErrorLog(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteErrorLog(nil, dir, "x")
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = WriteErrorLog([]ErrorLogEntry{
		{Timestamp: time.Now(), Key: "k2", Path: "k2.mdx", Op: "write", Message: "permission denied"},
	}, dir, "20261019_101500")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "writer_errors_20261019_101500.log"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "Total Errors: 1")
	assert.Contains(t, text, "Key:       k2")
	assert.True(t, strings.HasSuffix(text, "End of Error Log\n"))
}
