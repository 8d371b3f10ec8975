// Package state implements the interactive snapshot browser as a bubbletea model.
package state

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/btrbk-restore/internal/btrbk"
	"github.com/cristianoliveira/btrbk-restore/internal/config"
	"github.com/cristianoliveira/btrbk-restore/internal/lifecycle"
	"github.com/cristianoliveira/btrbk-restore/internal/logging"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
)

// Operations is the snapshot lifecycle the model drives.
// *lifecycle.Manager satisfies it.
type Operations interface {
	List() snapshot.Listing
	Restore(ctx context.Context, entry snapshot.Entry) lifecycle.RestoreResult
	Purge(ctx context.Context) (lifecycle.PurgeResult, error)
	StartBackup(ctx context.Context) (lifecycle.BackupRun, error)
	Reboot(ctx context.Context) error
}

// Settings is the persisted configuration the model reads and edits.
// *config.Store satisfies it.
type Settings interface {
	Get() config.Config
	Set(key config.Key, value string) error
	Toggle(key config.Key) error
	Save() error
	Path() string
	Exists() bool
}

var (
	_ Operations = (*lifecycle.Manager)(nil)
	_ Settings   = (*config.Store)(nil)
)

// Model is the bubbletea model for the snapshot browser.
type Model struct {
	ui       *UIState
	ops      Operations
	settings Settings
	ctx      context.Context
	logger   logging.Logger
	version  string
	// quitPending is set by ctrl+c during a blocking operation.
	quitPending bool

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model

	// Snapshot creation screen.
	output        viewport.Model
	backupCommand string
	backup        lifecycle.BackupRun
	backupLines   []string
	backupResult  *btrbk.Result
}

// Option configures a Model.
type Option func(*Model)

// WithVersion sets the version shown in the header.
func WithVersion(v string) Option {
	return func(m *Model) {
		m.version = v
	}
}

// WithLogger sets the logger for operation diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithContext sets the context passed to operations.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithBackupCommand sets the command line shown while creating snapshots.
func WithBackupCommand(command string) Option {
	return func(m *Model) {
		m.backupCommand = command
	}
}

// NewModel creates the model on the main screen.
func NewModel(ops Operations, settings Settings, opts ...Option) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 4096

	m := &Model{
		ui:       NewUIState(),
		ops:      ops,
		settings: settings,
		ctx:      context.Background(),
		logger:   logging.Noop(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		input:    input,
		output:   viewport.New(defaultWidth-6, defaultHeight-chromeLines),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// UIState exposes the UI state for callers and tests.
func (m *Model) UIState() *UIState {
	return m.ui
}

// Init starts the banner clock.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ui.SetSize(msg.Width, msg.Height)
		m.help.Width = m.ui.Width()
		m.output.Width = m.ui.Width() - 6
		m.output.Height = m.ui.VisibleRows()
		return m, nil
	case tickMsg:
		m.ui.Banner().Tick()
		return m, tickCmd()
	case spinner.TickMsg:
		if !m.ui.IsBusy() && m.backup == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case restoreDoneMsg:
		return m.handleRestoreDone(msg.result)
	case purgeDoneMsg:
		return m.handlePurgeDone(msg.result, msg.err)
	case backupStartedMsg:
		return m.handleBackupStarted(msg.run, msg.err)
	case backupLineMsg:
		return m.handleBackupLine(msg.line)
	case backupDoneMsg:
		return m.handleBackupDone(msg.result)
	case rebootDoneMsg:
		return m.handleRebootDone(msg.err)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}
