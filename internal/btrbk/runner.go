// Package btrbk runs "btrbk run" and streams its output line by line.
package btrbk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultBinary is the btrbk executable looked up in PATH.
const DefaultBinary = "btrbk"

// DefaultArgs are the arguments used to create snapshots with progress output.
var DefaultArgs = []string{"run", "--progress"}

// waitDelay bounds how long Wait blocks on the output pipe after the child exits.
const waitDelay = 5 * time.Second

// ErrNotFound is returned by Start when the btrbk binary cannot be executed.
var ErrNotFound = errors.New("btrbk binary not found")

// Outcome classifies how a run ended.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeFailed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Result is the final state of a run.
type Result struct {
	Outcome Outcome
	// ExitStatus is the child's exit code, or -1 when it did not exit normally.
	ExitStatus int
	Err        error
	Lines      int
}

// Logger receives run diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}

// Option configures a Runner.
type Option func(*Runner)

// WithBinary sets the btrbk executable.
func WithBinary(path string) Option {
	return func(r *Runner) {
		if path != "" {
			r.binary = path
		}
	}
}

// WithArgs replaces the default arguments.
func WithArgs(args ...string) Option {
	return func(r *Runner) {
		r.args = append([]string(nil), args...)
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// Runner starts btrbk processes.
type Runner struct {
	binary string
	args   []string
	logger Logger
}

// NewRunner creates a Runner for "btrbk run --progress".
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		binary: DefaultBinary,
		args:   append([]string(nil), DefaultArgs...),
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Command returns the command line the runner executes.
func (r *Runner) Command() string {
	return strings.Join(append([]string{r.binary}, r.args...), " ")
}

// Run is a started btrbk process.
// Lines must be drained until it is closed; Done then yields the Result.
type Run struct {
	lines     chan string
	done      chan Result
	cancel    context.CancelFunc
	cancelled atomic.Bool
}

// Lines streams non-empty output lines, stdout and stderr merged.
func (r *Run) Lines() <-chan string {
	return r.lines
}

// Done receives the Result once the process has exited and output is drained.
func (r *Run) Done() <-chan Result {
	return r.done
}

// Cancel sends SIGTERM to the child's process group. The run then ends with OutcomeCancelled.
func (r *Run) Cancel() {
	r.cancelled.Store(true)
	r.cancel()
}

// Wait drains Lines, calling fn for each one when non-nil, and returns the Result.
func (r *Run) Wait(fn func(line string)) Result {
	for line := range r.lines {
		if fn != nil {
			fn(line)
		}
	}
	return <-r.done
}

// Start launches btrbk. Cancelling ctx is equivalent to Run.Cancel.
func (r *Runner) Start(ctx context.Context) (*Run, error) {
	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, r.binary, r.args...)
	// btrbk spawns btrfs children; signal the whole group so the pipe closes.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGTERM)
	}
	cmd.WaitDelay = waitDelay

	pr, pw, err := os.Pipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		cancel()
		pr.Close()
		pw.Close()
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, r.binary)
		}
		return nil, fmt.Errorf("failed to start %s: %w", r.Command(), err)
	}
	// The child holds its own copy of the write end.
	pw.Close()
	r.logger.Info("btrbk started", "command", r.Command(), "pid", cmd.Process.Pid)

	run := &Run{
		lines:  make(chan string, 64),
		done:   make(chan Result, 1),
		cancel: cancel,
	}
	go func() {
		defer cancel()
		count := 0
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			count++
			run.lines <- line
		}
		pr.Close()
		close(run.lines)

		res := r.result(cmd.Wait(), run.cancelled.Load() || ctx.Err() != nil)
		res.Lines = count
		r.logger.Info("btrbk finished", "outcome", res.Outcome.String(), "exit_status", res.ExitStatus, "lines", count)
		run.done <- res
		close(run.done)
	}()
	return run, nil
}

func (r *Runner) result(waitErr error, cancelled bool) Result {
	if cancelled {
		return Result{Outcome: OutcomeCancelled, ExitStatus: -1, Err: waitErr}
	}
	if waitErr == nil {
		return Result{Outcome: OutcomeSucceeded}
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return Result{
			Outcome:    OutcomeFailed,
			ExitStatus: exitErr.ExitCode(),
			Err:        fmt.Errorf("btrbk exited with status %d", exitErr.ExitCode()),
		}
	}
	r.logger.Warn("btrbk wait failed", "error", waitErr)
	return Result{Outcome: OutcomeFailed, ExitStatus: -1, Err: waitErr}
}
