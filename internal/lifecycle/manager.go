// Package lifecycle implements the snapshot operations: restore, purge,
// snapshot creation and reboot.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/cristianoliveira/btrbk-restore/internal/btrbk"
	"github.com/cristianoliveira/btrbk-restore/internal/btrfs"
	"github.com/cristianoliveira/btrbk-restore/internal/config"
	"github.com/cristianoliveira/btrbk-restore/internal/journal"
	"github.com/cristianoliveira/btrbk-restore/internal/logging"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
	"github.com/cristianoliveira/btrbk-restore/internal/system"
)

var (
	// ErrPurgeScan is returned when the snapshots directory cannot be read.
	ErrPurgeScan = errors.New("unable to scan snapshots directory")
	// ErrInvalidEntry is returned for entries lacking a prefix or source path.
	ErrInvalidEntry = errors.New("invalid snapshot entry")
)

// BackupStarter launches the backup tool.
type BackupStarter interface {
	Start(ctx context.Context) (*btrbk.Run, error)
}

// HookRunner runs user scripts at a lifecycle point.
type HookRunner interface {
	Run(ctx context.Context, point string, env map[string]string) error
}

type nopHooks struct{}

func (nopHooks) Run(context.Context, string, map[string]string) error { return nil }

// Manager performs snapshot operations against the configured pool.
type Manager struct {
	store    *config.Store
	fs       btrfs.Client
	backup   BackupStarter
	rebooter system.Rebooter
	recorder journal.Recorder
	hooks    HookRunner
	logger   logging.Logger
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBtrfs sets the filesystem client.
func WithBtrfs(c btrfs.Client) Option {
	return func(m *Manager) { m.fs = c }
}

// WithBackup sets the backup tool runner.
func WithBackup(b BackupStarter) Option {
	return func(m *Manager) { m.backup = b }
}

// WithRebooter sets the reboot implementation.
func WithRebooter(r system.Rebooter) Option {
	return func(m *Manager) { m.rebooter = r }
}

// WithRecorder sets the operation journal.
func WithRecorder(r journal.Recorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.recorder = r
		}
	}
}

// WithHooks sets the runner for user hook scripts.
func WithHooks(h HookRunner) Option {
	return func(m *Manager) {
		if h != nil {
			m.hooks = h
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock sets the time source used for .BROKEN suffixes and the journal.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a Manager reading pool and snapshot locations from store.
func New(store *config.Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		fs:       btrfs.NewDefaultClient(),
		backup:   btrbk.NewRunner(),
		rebooter: system.NewRebooter(),
		recorder: journal.Nop{},
		hooks:    nopHooks{},
		logger:   logging.Noop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the current configuration.
func (m *Manager) Config() config.Config {
	return m.store.Get()
}

// Store returns the configuration store.
func (m *Manager) Store() *config.Store {
	return m.store
}

// List returns the grouped snapshots; an unreadable directory yields an empty listing.
func (m *Manager) List() snapshot.Listing {
	return snapshot.List(m.store.Get().SnapshotsDir)
}

// Reboot restarts the machine.
func (m *Manager) Reboot(ctx context.Context) error {
	m.logger.Info("reboot requested")
	return m.rebooter.Reboot(ctx)
}

func (m *Manager) record(ctx context.Context, e journal.Entry) {
	if err := m.recorder.Record(ctx, e); err != nil {
		m.logger.Warn("failed to record operation", "kind", string(e.Kind), "error", err)
	}
}

// runHook runs a post-operation hook. Failures are logged only since the
// operation has already completed.
func (m *Manager) runHook(ctx context.Context, point string, env map[string]string) {
	if err := m.hooks.Run(ctx, point, env); err != nil {
		m.logger.Warn("post-operation hook failed", "point", point, "error", err)
	}
}

func outcomeOf(ok bool) journal.Outcome {
	if ok {
		return journal.OutcomeSucceeded
	}
	return journal.OutcomeFailed
}
