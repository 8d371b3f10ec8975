// Package colors provides color output utilities.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Color constants
const (
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Reset  = "\033[0m"
)

const checkmark = "✓"

// EnvDebug enables debug console output.
const EnvDebug = "BTRBK_RESTORE_DEBUG"

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	mu           sync.RWMutex
	debugEnabled = false
	colorEnabled = true
	logger       Logger
	stdout       io.Writer = os.Stdout
	stderr       io.Writer = os.Stderr
)

func init() {
	if val := os.Getenv(EnvDebug); val == "true" || val == "1" {
		debugEnabled = true
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	colorEnabled = !noColor && isatty.IsTerminal(os.Stdout.Fd())
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
}

// SetColor enables or disables ANSI color codes.
func SetColor(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	colorEnabled = enabled
}

// SetLogger sets the structured logger to mirror console output.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// SetOutput redirects console output. A nil writer restores the default.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout, stderr = out, errOut
}

func paint(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + Reset
}

func emit(toErr bool, line string) {
	w := stdout
	if toErr {
		w = stderr
	}
	if _, err := fmt.Fprintln(w, line); err != nil && !toErr {
		// Last resort; stderr failures are dropped.
		fmt.Fprintf(stderr, "Warning: failed to print message: %v\n", err)
	}
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	msg := strings.Join(msgs, " ")
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		logger.Error(msg)
	}
	emit(true, paint(Red, "Error:")+" "+msg)
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	msg := strings.Join(msgs, " ")
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		logger.Info(msg, "type", "success")
	}
	emit(false, paint(Green, checkmark)+" "+msg)
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	msg := strings.Join(msgs, " ")
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		logger.Warn(msg)
	}
	emit(true, paint(Yellow, "Warning:")+" "+msg)
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	msg := strings.Join(msgs, " ")
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		logger.Info(msg)
	}
	emit(false, paint(Blue, msg))
}

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) {
	mu.RLock()
	defer mu.RUnlock()
	if !debugEnabled {
		return
	}
	msg := strings.Join(msgs, " ")
	if logger != nil {
		logger.Debug(msg)
	}
	emit(true, paint(Cyan, "Debug:")+" "+msg)
}
