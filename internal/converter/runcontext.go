package converter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/csv2mdx/internal/config"
	"github.com/ginjaninja78/csv2mdx/internal/logging"
	"github.com/ginjaninja78/csv2mdx/pkg/utils"
)

// StampLayout formats the run start time in backup directory and log names.
const StampLayout = "20060102_150405"

// RunContext is the run-scoped state: identity, start time, directories and
// logger. It is created once per run and handed to every component.
type RunContext struct {
	// ID identifies the run in logs and reports.
	ID string

	// Start is when the run began.
	Start time.Time

	// Stamp is Start formatted with StampLayout.
	Stamp string

	// Config is the loaded configuration.
	Config *config.MainConfig

	// BackupDir is <backup_root>/<Stamp>, created on construction.
	BackupDir string

	// LogPath is the run's append-only log file.
	LogPath string

	// Logger writes to the console and LogPath.
	Logger *slog.Logger

	logFile *os.File
}

// NewRunContext starts a run: it creates the output and backup directories,
// opens the run log and builds the logger mirroring to console.
func NewRunContext(cfg *config.MainConfig, console io.Writer) (*RunContext, error) {
	start := time.Now()
	rc := &RunContext{
		ID:     uuid.NewString(),
		Start:  start,
		Stamp:  start.Format(StampLayout),
		Config: cfg,
	}

	backupRoot := cfg.BackupRoot
	if !filepath.IsAbs(backupRoot) {
		backupRoot = filepath.Join(cfg.OutputDir, backupRoot)
	}
	rc.BackupDir = filepath.Join(backupRoot, rc.Stamp)

	if err := utils.NewFileManager(cfg.OutputDir, rc.BackupDir).EnsureDirectories(); err != nil {
		return nil, err
	}

	logFile, err := logging.OpenRunLog(cfg.LogDir, rc.Stamp)
	if err != nil {
		return nil, err
	}
	rc.logFile = logFile
	rc.LogPath = logFile.Name()

	if console == nil {
		console = io.Discard
	}
	rc.Logger = logging.New(cfg.LogLevel, console, logFile)

	return rc, nil
}

// FileManager returns the document writer for this run.
func (rc *RunContext) FileManager() (*utils.FileManager, error) {
	pause, err := rc.Config.PauseDuration()
	if err != nil {
		return nil, err
	}

	fm := utils.NewFileManager(rc.Config.OutputDir, rc.BackupDir)
	fm.Extension = rc.Config.OutputExtension
	fm.BackupSuffix = rc.Config.BackupSuffix
	fm.Pause = pause
	fm.Logger = rc.Logger
	return fm, nil
}

// Elapsed returns the time since the run started.
func (rc *RunContext) Elapsed() time.Duration {
	return time.Since(rc.Start)
}

// Close flushes and closes the run log.
func (rc *RunContext) Close() error {
	if rc.logFile == nil {
		return nil
	}
	if err := rc.logFile.Close(); err != nil {
		return fmt.Errorf("close run log: %w", err)
	}
	rc.logFile = nil
	return nil
}
