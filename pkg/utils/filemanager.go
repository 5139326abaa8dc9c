// =============================================================================
// csv2mdx - File Manager Utility
// =============================================================================
//
// This module writes rendered documents and keeps a backup of every document
// it is about to overwrite.
//
// BACKUP STRATEGY:
//   - Documents are written to <OutputDir>/<key><Extension>
//   - An existing regular file at that path is first copied byte-for-byte to
//     <BackupDir>/<key><Extension><BackupSuffix>
//   - A second collision on the same name within a run overwrites that backup
//   - Backups are never removed by this program
//
// OPERATOR WINDOW:
//   Before the backup copy and again before the overwrite, the file manager
//   logs a notice and waits for Pause. Cancelling the context during a pause
//   stops before the destructive step.
//
// =============================================================================

package utils

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/csv2mdx/internal/types"
)

// ErrUnsafeKey is wrapped by a WriteError when a key cannot name a file in the
// output directory.
var ErrUnsafeKey = errors.New("key is empty or contains a path separator")

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles document output for one run.
type FileManager struct {
	// OutputDir is the directory documents are written to.
	OutputDir string

	// BackupDir is the run's backup directory.
	BackupDir string

	// Extension is appended to the key to name the document (".mdx").
	Extension string

	// BackupSuffix is appended to the document name for its backup (".bak").
	BackupSuffix string

	// Pause is the wait before backing up and before overwriting.
	Pause time.Duration

	// Logger receives the progress notices.
	Logger *slog.Logger
}

// WriteResult describes one successful document write.
type WriteResult struct {
	// Path is the document written.
	Path string

	// BackupPath is the backup taken of the previous document, or "" if there
	// was none.
	BackupPath string
}

// NewFileManager creates a FileManager with the default naming and no pause.
func NewFileManager(outputDir, backupDir string) *FileManager {
	return &FileManager{
		OutputDir:    outputDir,
		BackupDir:    backupDir,
		Extension:    ".mdx",
		BackupSuffix: ".bak",
		Logger:       slog.Default(),
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output and backup directories.
//
// RETURNS:
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.OutputDir, fm.BackupDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// DOCUMENT OUTPUT
// =============================================================================

// CheckKey reports whether key can name a document inside the output
// directory.
func CheckKey(key string) error {
	if key == "" || strings.ContainsRune(key, '/') || strings.ContainsRune(key, filepath.Separator) {
		return ErrUnsafeKey
	}
	return nil
}

// OutputPath returns the document path for a key.
func (fm *FileManager) OutputPath(key string) (string, error) {
	if err := CheckKey(key); err != nil {
		return "", err
	}
	return filepath.Join(fm.OutputDir, key+fm.Extension), nil
}

// BackupPath returns where the backup of a key's document goes.
func (fm *FileManager) BackupPath(key string) string {
	return filepath.Join(fm.BackupDir, key+fm.Extension+fm.BackupSuffix)
}

// Write stores content as the document for key, backing up any existing file.
//
// RETURNS:
//   - The paths written.
//   - A *types.WriteError if the backup or the write failed, or the context
//     error if the operator cancelled during a pause.
func (fm *FileManager) Write(ctx context.Context, key, content string) (WriteResult, error) {
	var result WriteResult

	path, err := fm.OutputPath(key)
	if err != nil {
		return result, &types.WriteError{Key: key, Path: key + fm.Extension, Op: "validate", Err: err}
	}
	result.Path = path
	name := filepath.Base(path)

	exists, err := isRegularFile(path)
	if err != nil {
		return result, &types.WriteError{Key: key, Path: path, Op: "stat", Err: err}
	}

	if exists {
		fm.logger().Info("creating backup of existing file, interrupt to cancel", "file", name)
		if err := wait(ctx, fm.Pause); err != nil {
			return result, err
		}

		backup := fm.BackupPath(key)
		if err := copyFile(path, backup); err != nil {
			return result, &types.WriteError{Key: key, Path: backup, Op: "backup", Err: err}
		}
		result.BackupPath = backup
		fm.logger().Debug("backup created", "file", name, "backup", backup)

		fm.logger().Warn("existing file will be overwritten, interrupt to cancel", "file", name)
		if err := wait(ctx, fm.Pause); err != nil {
			return result, err
		}
	}

	fm.logger().Info("saving new file", "file", name)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return result, &types.WriteError{Key: key, Path: path, Op: "write", Err: err}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fm.logger().Info("saved new file to disk", "path", abs)

	return result, nil
}

func (fm *FileManager) logger() *slog.Logger {
	if fm.Logger == nil {
		return slog.Default()
	}
	return fm.Logger
}

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single failed row.
type ErrorLogEntry struct {
	Timestamp time.Time
	Key       string
	Path      string
	Op        string
	Message   string
}

// WriteErrorLog writes failed rows to writer_errors_<stamp>.log in dir.
//
// PARAMETERS:
//   - entries: The failures to write.
//   - dir:     The directory to write the log file.
//   - stamp:   The run's timestamp label.
//
// RETURNS:
//   - The path to the error log file, or "" when there are no entries.
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, dir, stamp string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logPath := filepath.Join(dir, fmt.Sprintf("writer_errors_%s.log", stamp))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "csv2mdx - Template Writer Errors\n"+
		"Generated: %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Error #%d\n"+
			"  Timestamp: %s\n"+
			"  Key:       %s\n"+
			"  File:      %s\n"+
			"  Operation: %s\n"+
			"  Message:   %s\n\n",
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.Key,
			entry.Path,
			entry.Op,
			entry.Message)
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst, replacing dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// isRegularFile reports whether path exists and is a regular file, following
// symlinks.
func isRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
