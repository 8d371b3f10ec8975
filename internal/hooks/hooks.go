// Package hooks runs user scripts at points of the restore lifecycle.
//
// Scripts live in <hooks dir>/<point>/ and run in name order. Only
// executable regular files are considered.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cristianoliveira/btrbk-restore/internal/logging"
)

// Hook points.
const (
	PreRestore   = "pre-restore"
	PostRestore  = "post-restore"
	PostPurge    = "post-purge"
	PostSnapshot = "post-snapshot"
)

// Environment variables read by FromEnv.
const (
	EnvHooksDir    = "BTRBK_RESTORE_HOOKS_DIR"
	EnvFailureMode = "BTRBK_RESTORE_HOOKS_FAILURE_MODE"
	EnvTimeout     = "BTRBK_RESTORE_HOOKS_TIMEOUT"
)

// DefaultTimeout bounds a single script.
const DefaultTimeout = 30 * time.Second

// FailureMode decides what a failing script does to the operation.
type FailureMode string

const (
	// ModeAbort stops at the failing script and returns its error.
	ModeAbort FailureMode = "abort"
	// ModeWarn logs the failure and runs the remaining scripts.
	ModeWarn FailureMode = "warn"
	// ModeIgnore only logs the failure at debug level.
	ModeIgnore FailureMode = "ignore"
)

// ErrHookFailed wraps the error of a script that failed in abort mode.
var ErrHookFailed = errors.New("hook failed")

// ParseFailureMode accepts abort, warn or ignore, case-insensitively.
func ParseFailureMode(s string) (FailureMode, error) {
	switch m := FailureMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAbort, ModeWarn, ModeIgnore:
		return m, nil
	}
	return "", fmt.Errorf("invalid hook failure mode %q (want abort, warn or ignore)", s)
}

// Runner executes the scripts of a hook point.
type Runner struct {
	dir     string
	mode    FailureMode
	timeout time.Duration
	logger  logging.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithDir sets the hooks directory.
func WithDir(dir string) Option {
	return func(r *Runner) { r.dir = dir }
}

// WithFailureMode sets the failure mode.
func WithFailureMode(m FailureMode) Option {
	return func(r *Runner) { r.mode = m }
}

// WithTimeout sets the per-script timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithLogger sets the logger that receives script output.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner returns a Runner using DefaultDir in warn mode.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		dir:     DefaultDir(),
		mode:    ModeWarn,
		timeout: DefaultTimeout,
		logger:  logging.Noop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromEnv returns a Runner configured from the BTRBK_RESTORE_HOOKS_* variables.
// Invalid values are logged and replaced by defaults.
func FromEnv(logger logging.Logger) *Runner {
	r := NewRunner(WithLogger(logger))
	if v := os.Getenv(EnvFailureMode); v != "" {
		m, err := ParseFailureMode(v)
		if err != nil {
			r.logger.Warn("ignoring hook failure mode", "error", err)
		} else {
			r.mode = m
		}
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			r.logger.Warn("ignoring hook timeout", "value", v, "error", err)
		} else {
			r.timeout = d
		}
	}
	return r
}

// parseTimeout accepts a Go duration or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	return time.ParseDuration(v + "s")
}

// DefaultDir returns $BTRBK_RESTORE_HOOKS_DIR, or the hooks directory under
// the user config dir.
func DefaultDir() string {
	if dir := os.Getenv(EnvHooksDir); dir != "" {
		return dir
	}
	if configDir := os.Getenv("XDG_CONFIG_HOME"); configDir != "" {
		return filepath.Join(configDir, "btrbk-restore", "hooks")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "btrbk-restore", "hooks")
}

// Dir returns the hooks directory.
func (r *Runner) Dir() string { return r.dir }

// Mode returns the failure mode.
func (r *Runner) Mode() FailureMode { return r.mode }

// Scripts returns the executable scripts registered for point, sorted by name.
// A missing point directory yields no scripts.
func (r *Runner) Scripts(point string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(r.dir, point))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var scripts []string
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if info.Mode().Perm()&0111 == 0 {
			r.logger.Debug("skipping non-executable hook", "point", point, "script", e.Name())
			continue
		}
		scripts = append(scripts, filepath.Join(r.dir, point, e.Name()))
	}
	sort.Strings(scripts)
	return scripts, nil
}

// Run executes the scripts of point with env added to the process
// environment. HOOK_POINT and HOOK_TIMESTAMP are always set.
func (r *Runner) Run(ctx context.Context, point string, env map[string]string) error {
	scripts, err := r.Scripts(point)
	if err != nil {
		r.logger.Warn("failed to read hooks", "point", point, "error", err)
		if r.mode == ModeAbort {
			return fmt.Errorf("%w: %s: %v", ErrHookFailed, point, err)
		}
		return nil
	}
	if len(scripts) == 0 {
		return nil
	}

	vars := environ(point, env)
	for _, script := range scripts {
		err := r.runScript(ctx, point, script, vars)
		if err == nil {
			continue
		}
		name := filepath.Base(script)
		switch r.mode {
		case ModeAbort:
			r.logger.Error("hook failed", "point", point, "script", name, "error", err)
			return fmt.Errorf("%w: %s/%s: %v", ErrHookFailed, point, name, err)
		case ModeIgnore:
			r.logger.Debug("hook failed", "point", point, "script", name, "error", err)
		default:
			r.logger.Warn("hook failed", "point", point, "script", name, "error", err)
		}
	}
	return nil
}

func (r *Runner) runScript(ctx context.Context, point, script string, vars []string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	start := time.Now()
	cmd := exec.CommandContext(ctx, script)
	cmd.Env = vars
	cmd.Dir = filepath.Dir(script)
	cmd.WaitDelay = time.Second
	output, err := cmd.CombinedOutput()

	log := r.logger.With("point", point, "script", filepath.Base(script))
	for _, line := range strings.Split(strings.TrimRight(string(output), "\n"), "\n") {
		if line != "" {
			log.Info("hook output", "line", line)
		}
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("timed out after %s", r.timeout)
		}
		return err
	}
	log.Debug("hook completed", "duration", time.Since(start).String())
	return nil
}

// environ returns the process environment extended with the hook variables.
// Keys of env are appended in sorted order.
func environ(point string, env map[string]string) []string {
	vars := append(os.Environ(),
		"HOOK_POINT="+point,
		"HOOK_TIMESTAMP="+time.Now().Format(time.RFC3339),
	)
	if exe, err := os.Executable(); err == nil {
		vars = append(vars, "BTRBK_RESTORE_BINARY="+exe)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vars = append(vars, k+"="+env[k])
	}
	return vars
}
