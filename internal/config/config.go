// =============================================================================
// csv2mdx - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration file and applies defaults
// and environment overrides. Every setting has a default that reproduces the
// classic behavior: documents and backups in the current directory, a
// 2.5 second pause before destructive operations, and the two special-case
// placeholder rules.
//
// PRECEDENCE (lowest to highest):
//   1. Built-in defaults
//   2. YAML file (csv2mdx.yaml or --config)
//   3. CSV2MDX_* environment variables (a .env file is loaded by the CLI)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the file looked up when --config is not given.
const DefaultConfigFile = "csv2mdx.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is where <key>.mdx documents are written.
	// Default: "." (the working directory)
	OutputDir string `yaml:"output_dir"`

	// BackupRoot is the directory, relative to OutputDir unless absolute,
	// under which each run creates its timestamped backup directory.
	// Default: "$backups"
	BackupRoot string `yaml:"backup_root"`

	// LogDir is where the per-run log and the writer error report go.
	// Default: "."
	LogDir string `yaml:"log_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputExtension is appended to the key to form the document name.
	// Default: ".mdx"
	OutputExtension string `yaml:"output_extension"`

	// BackupSuffix is appended to the document name inside the backup directory.
	// Default: ".bak"
	BackupSuffix string `yaml:"backup_suffix"`

	// Pause is how long to wait before backing up and before overwriting an
	// existing document, giving the operator a chance to cancel.
	// Any time.ParseDuration string; "0s" disables the pause.
	// Default: "2.5s"
	Pause string `yaml:"pause"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// CSVSettings controls how the table file is read.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// Placeholders controls how column names map to template tokens.
	Placeholders PlaceholderSettings `yaml:"placeholders"`

	// Render controls value post-processing.
	Render RenderSettings `yaml:"render"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for reading the table file.
type CSVSettings struct {
	// Delimiter is the single character separating fields.
	// Common values: "," (comma), "|" (pipe), "\t" or "tab", ";"
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the table file, by its IANA or
	// WHATWG name ("UTF-8", "ISO-8859-1", "Windows-1252", ...).
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// Sheet names the worksheet to read when the table is an .xlsx workbook.
	// Default: "" (first sheet)
	Sheet string `yaml:"sheet"`
}

// =============================================================================
// PLACEHOLDER SETTINGS STRUCTURE
// =============================================================================

// PlaceholderSettings defines how a column name becomes a template token.
type PlaceholderSettings struct {
	// Prefix is prepended to a column name to build its default token.
	// Default: "csv-column-"
	Prefix string `yaml:"prefix"`

	// Rules are evaluated in order for every column before the default
	// prefix rule. When several rules match, the last match wins.
	// Default: pci-321 -> "pci-321", analyst-followup -> "csv-column-cis-anal"
	Rules []PlaceholderRule `yaml:"rules"`
}

// PlaceholderRule maps columns whose name contains a substring to a fixed token.
type PlaceholderRule struct {
	// Contains is the substring looked for in the column name.
	Contains string `yaml:"contains"`

	// Token is the template token the column's value replaces.
	Token string `yaml:"token"`
}

// RenderSettings controls value handling during substitution.
type RenderSettings struct {
	// SanitizeValues strips unsafe HTML from cell values before they are
	// substituted. MDX documents render embedded HTML, so tables from
	// untrusted sources should enable this.
	// Default: false
	SanitizeValues bool `yaml:"sanitize_values"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// LoadMainConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - mustExist:  When false, a missing file yields the defaults.
//
// RETURNS:
//   - A pointer to the MainConfig struct, with defaults and environment
//     overrides applied.
//   - An error if the file cannot be read or parsed, or the result is invalid.
func LoadMainConfig(configPath string, mustExist bool) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !mustExist:
		// No file: defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyMainConfigDefaults(&config)
	ApplyEnv(&config, os.Getenv)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "."
	}
	if config.BackupRoot == "" {
		config.BackupRoot = "$backups"
	}
	if config.LogDir == "" {
		config.LogDir = "."
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.OutputExtension == "" {
		config.OutputExtension = ".mdx"
	}
	if config.BackupSuffix == "" {
		config.BackupSuffix = ".bak"
	}
	if config.Pause == "" {
		config.Pause = "2.5s"
	}

	// CSV settings defaults.
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.CSVSettings.Encoding == "" {
		config.CSVSettings.Encoding = "UTF-8"
	}

	// Placeholder defaults.
	if config.Placeholders.Prefix == "" {
		config.Placeholders.Prefix = "csv-column-"
	}
	if len(config.Placeholders.Rules) == 0 {
		config.Placeholders.Rules = DefaultPlaceholderRules()
	}
}

// DefaultPlaceholderRules returns the two special-case column rules.
func DefaultPlaceholderRules() []PlaceholderRule {
	return []PlaceholderRule{
		{Contains: "pci-321", Token: "pci-321"},
		{Contains: "analyst-followup", Token: "csv-column-cis-anal"},
	}
}

// ApplyEnv overrides settings from CSV2MDX_* variables. lookup is usually
// os.Getenv.
func ApplyEnv(config *MainConfig, lookup func(string) string) {
	overrides := map[string]*string{
		"CSV2MDX_OUTPUT_DIR": &config.OutputDir,
		"CSV2MDX_LOG_DIR":    &config.LogDir,
		"CSV2MDX_LOG_LEVEL":  &config.LogLevel,
		"CSV2MDX_PAUSE":      &config.Pause,
		"CSV2MDX_ENCODING":   &config.CSVSettings.Encoding,
	}
	for name, field := range overrides {
		if v := strings.TrimSpace(lookup(name)); v != "" {
			*field = v
		}
	}
}

// Validate checks the configuration for values the run cannot work with.
func (c *MainConfig) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	if _, err := c.PauseDuration(); err != nil {
		return err
	}

	if _, err := c.CSVSettings.Comma(); err != nil {
		return err
	}

	if !strings.HasPrefix(c.OutputExtension, ".") {
		return fmt.Errorf("output_extension %q must start with a dot", c.OutputExtension)
	}

	for i, rule := range c.Placeholders.Rules {
		if rule.Contains == "" || rule.Token == "" {
			return fmt.Errorf("placeholders.rules[%d]: contains and token are required", i)
		}
	}

	return nil
}

// PauseDuration parses Pause.
func (c *MainConfig) PauseDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Pause)
	if err != nil {
		return 0, fmt.Errorf("invalid pause %q: %w", c.Pause, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("pause %q must not be negative", c.Pause)
	}
	return d, nil
}

// Comma returns the delimiter rune for encoding/csv.
func (s CSVSettings) Comma() (rune, error) {
	switch s.Delimiter {
	case "":
		return ',', nil
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "pipe", "PIPE":
		return '|', nil
	case "semicolon":
		return ';', nil
	}

	if utf8.RuneCountInString(s.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", s.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter %q is not allowed", s.Delimiter)
	}
	return r, nil
}
