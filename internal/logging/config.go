// Package logging provides structured file logging for btrbk-restore.
package logging

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/cristianoliveira/btrbk-restore/internal/config"
)

// Environment variables controlling the file logger.
const (
	EnvLoggingEnabled  = "BTRBK_RESTORE_LOGGING_ENABLED"
	EnvLoggingLevel    = "BTRBK_RESTORE_LOGGING_LEVEL"
	EnvLoggingMaxFiles = "BTRBK_RESTORE_LOGGING_MAX_FILES"
	EnvStateDir        = "BTRBK_RESTORE_STATE_DIR"
)

// Config holds logging configuration.
type Config struct {
	// Enabled determines whether logging is active.
	Enabled bool
	// Level is the minimum log level to record.
	Level string
	// MaxFiles is the maximum number of log files to retain.
	MaxFiles int
	// Command is the name of the command being executed.
	Command string
	// PID is the process ID.
	PID int
	// Dir overrides the log directory. Empty means LogDir().
	Dir string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Enabled:  false,
		Level:    "info",
		MaxFiles: 10,
		Command:  filepath.Base(os.Args[0]),
		PID:      os.Getpid(),
	}
}

// FromEnv creates a logging Config from BTRBK_RESTORE_LOGGING_* variables.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.Enabled = config.ParseBool(os.Getenv(EnvLoggingEnabled), false)
	if level := os.Getenv(EnvLoggingLevel); level != "" {
		cfg.Level = level
	}
	if n, err := strconv.Atoi(os.Getenv(EnvLoggingMaxFiles)); err == nil && n > 0 {
		cfg.MaxFiles = n
	}
	return cfg
}

// StateDir returns the directory for logs and the operation journal.
// It honours BTRBK_RESTORE_STATE_DIR, then XDG_STATE_HOME.
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return dir
	}
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		home, _ := os.UserHomeDir()
		xdgStateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(xdgStateHome, "btrbk-restore")
}

// LogDir returns the directory where log files should be stored.
// It uses the following priority:
// 1. {state_dir}/logs (if state_dir is accessible and writable)
// 2. {os.TempDir()}/btrbk-restore/logs (fallback)
func LogDir() (string, error) {
	logDir := filepath.Join(StateDir(), "logs")
	if err := os.MkdirAll(logDir, 0700); err == nil {
		if testFileWrite(logDir) {
			return logDir, nil
		}
	}
	tempBase := filepath.Join(os.TempDir(), "btrbk-restore", "logs")
	if err := os.MkdirAll(tempBase, 0700); err != nil {
		return "", err
	}
	return tempBase, nil
}

// testFileWrite attempts to create a temporary file in dir to verify write permissions.
func testFileWrite(dir string) bool {
	tmp := filepath.Join(dir, ".write_test")
	f, err := os.Create(tmp)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmp)
	return true
}
