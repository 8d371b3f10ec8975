package state

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/btrbk-restore/internal/btrbk"
	"github.com/cristianoliveira/btrbk-restore/internal/config"
	"github.com/cristianoliveira/btrbk-restore/internal/lifecycle"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
	"github.com/cristianoliveira/btrbk-restore/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type fakeRun struct {
	lines     chan string
	done      chan btrbk.Result
	cancelled bool
}

func finishedRun(res btrbk.Result, lines ...string) *fakeRun {
	r := &fakeRun{lines: make(chan string, len(lines)), done: make(chan btrbk.Result, 1)}
	for _, l := range lines {
		r.lines <- l
	}
	close(r.lines)
	r.done <- res
	return r
}

func (r *fakeRun) Lines() <-chan string      { return r.lines }
func (r *fakeRun) Done() <-chan btrbk.Result { return r.done }
func (r *fakeRun) Cancel()                   { r.cancelled = true }

type fakeOps struct {
	listing snapshot.Listing

	restoreResult *lifecycle.RestoreResult
	restored      []snapshot.Entry

	purgeResult lifecycle.PurgeResult
	purgeErr    error
	purges      int

	run      *fakeRun
	startErr error

	rebootErr error
	reboots   int
}

func (f *fakeOps) List() snapshot.Listing { return f.listing }

func (f *fakeOps) Restore(_ context.Context, e snapshot.Entry) lifecycle.RestoreResult {
	f.restored = append(f.restored, e)
	if f.restoreResult != nil {
		res := *f.restoreResult
		res.Entry = e
		return res
	}
	return lifecycle.RestoreResult{Entry: e, Success: true, Step: lifecycle.StepDone}
}

func (f *fakeOps) Purge(context.Context) (lifecycle.PurgeResult, error) {
	f.purges++
	return f.purgeResult, f.purgeErr
}

func (f *fakeOps) StartBackup(context.Context) (lifecycle.BackupRun, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.run, nil
}

func (f *fakeOps) Reboot(context.Context) error {
	f.reboots++
	return f.rebootErr
}

func sampleListing() snapshot.Listing {
	return snapshot.Build("/snaps", []string{
		"@.20240101T0100",
		"@.20240102T0100",
		"@home.20240101T0100",
		"@home.20240102T0100",
		"@home.20240103T0100",
		"@var.20240101T0100",
	})
}

func newTestModel(t *testing.T, confirm bool) (*Model, *fakeOps, *config.Store) {
	t.Helper()
	store := config.NewStore(filepath.Join(t.TempDir(), "config.toml"))
	if !confirm {
		require.NoError(t, store.Toggle(config.KeyConfirmActions))
	}
	ops := &fakeOps{listing: sampleListing()}
	return NewModel(ops, store, WithVersion("v1.0.0")), ops, store
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends keys in order and returns the command produced by the last one.
func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

// drain runs cmd and feeds back the operation results it produces.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case restoreDoneMsg, purgeDoneMsg, backupStartedMsg, backupLineMsg, backupDoneMsg, rebootDoneMsg:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func bannerText(m *Model) string {
	text, _ := m.ui.Banner().Current()
	return text
}

func assertCursorValid(t *testing.T, m *Model, listing snapshot.Listing) {
	t.Helper()
	if listing.Len() == 0 {
		assert.Zero(t, m.ui.Group())
		assert.Zero(t, m.ui.Row())
		return
	}
	require.Less(t, m.ui.Group(), listing.Len())
	assert.GreaterOrEqual(t, m.ui.Group(), 0)
	assert.Less(t, m.ui.Row(), len(listing.Groups[m.ui.Group()].Entries))
	assert.GreaterOrEqual(t, m.ui.Row(), 0)
}

func TestNewModelInitialState(t *testing.T) {
	m, _, _ := newTestModel(t, true)

	assert.Equal(t, ScreenMain, m.ui.Screen())
	assert.Zero(t, m.ui.Group())
	assert.Zero(t, m.ui.Row())
	assert.False(t, m.ui.IsBusy())
	assert.False(t, m.ui.Banner().Visible())
	assert.NotNil(t, m.Init())
}

func TestNavigationKeepsCursorValid(t *testing.T) {
	m, ops, _ := newTestModel(t, true)

	for _, k := range []string{"right", "down", "down", "down", "down", "]", "j", "j", "[", "left", "left", "up", "k", "right", "right", "right", "down"} {
		press(m, k)
		assertCursorValid(t, m, ops.listing)
	}
}

func TestNavigationMovesWithinGroups(t *testing.T) {
	m, _, _ := newTestModel(t, true)

	press(m, "right", "down", "down")
	assert.Equal(t, 1, m.ui.Group())
	assert.Equal(t, 2, m.ui.Row())

	press(m, "down")
	assert.Equal(t, 2, m.ui.Row(), "row stops at the last entry")

	press(m, "right")
	assert.Equal(t, 2, m.ui.Group())
	assert.Zero(t, m.ui.Row(), "switching group resets the row")
}

func TestCursorClampedWhenListingShrinks(t *testing.T) {
	m, ops, _ := newTestModel(t, true)
	press(m, "right", "right")
	require.Equal(t, 2, m.ui.Group())

	ops.listing = snapshot.Build("/snaps", []string{"@.20240101T0100"})
	m.View()
	assertCursorValid(t, m, ops.listing)

	ops.listing = snapshot.Listing{Dir: "/snaps"}
	m.View()
	assertCursorValid(t, m, ops.listing)
}

func TestSelectOnEmptyListingDoesNothing(t *testing.T) {
	m, ops, _ := newTestModel(t, true)
	ops.listing = snapshot.Listing{Dir: "/snaps"}

	cmd := press(m, "enter")

	assert.Nil(t, cmd)
	assert.False(t, m.ui.IsConfirmationMode())
	assert.Contains(t, ansiPattern.ReplaceAllString(m.View(), ""), "No snapshots found!")
}

func TestRestoreConfirmationCancelled(t *testing.T) {
	m, ops, _ := newTestModel(t, true)
	press(m, "right", "enter")

	require.True(t, m.ui.IsConfirmationMode())
	action := m.ui.PendingAction()
	assert.Equal(t, ActionRestore, action.Type)
	assert.Equal(t, "Restore home snapshot?", action.Prompt)
	assert.Equal(t, "@home.20240103T0100", action.Entry.Name)

	press(m, "n")
	assert.False(t, m.ui.IsConfirmationMode())
	assert.Empty(t, ops.restored)
	assert.Equal(t, "Restoration cancelled", bannerText(m))
}

func TestRestoreRootPromptNamesRoot(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	press(m, "enter")
	assert.Equal(t, "Restore root snapshot?", m.ui.PendingAction().Prompt)
}

func TestRestoreConfirmedOffersReboot(t *testing.T) {
	m, ops, _ := newTestModel(t, true)
	press(m, "right", "down", "enter")

	cmd := press(m, "y")
	assert.True(t, m.ui.IsBusy())
	assert.False(t, m.ui.IsConfirmationMode())

	drain(t, m, cmd)
	require.Len(t, ops.restored, 1)
	assert.Equal(t, "@home.20240102T0100", ops.restored[0].Name)
	assert.False(t, m.ui.IsBusy())
	assert.True(t, m.ui.Banner().RebootPending())
	assert.Equal(t, status.RebootMessage, bannerText(m))

	require.True(t, m.ui.IsConfirmationMode())
	offer := m.ui.PendingAction()
	assert.Equal(t, ActionReboot, offer.Type)
	assert.True(t, offer.Offer)

	press(m, "n")
	assert.False(t, m.ui.IsConfirmationMode())
	assert.Zero(t, ops.reboots)
	assert.Equal(t, status.RebootMessage, bannerText(m))
}

func TestRestoreWithoutConfirmationStillOffersReboot(t *testing.T) {
	m, ops, _ := newTestModel(t, false)

	cmd := press(m, "enter")
	assert.False(t, m.ui.IsConfirmationMode())
	assert.True(t, m.ui.IsBusy())

	drain(t, m, cmd)
	require.Len(t, ops.restored, 1)
	assert.True(t, m.ui.IsConfirmationMode())

	drain(t, m, press(m, "y"))
	assert.Equal(t, 1, ops.reboots)
}

func TestRestoreFailureReportsDiagnostic(t *testing.T) {
	m, ops, _ := newTestModel(t, false)
	ops.restoreResult = &lifecycle.RestoreResult{Step: lifecycle.StepClone, Err: errors.New("boom")}

	drain(t, m, press(m, "enter"))

	assert.True(t, strings.HasPrefix(bannerText(m), "Failed to restore snapshot!"))
	assert.Contains(t, bannerText(m), "boom")
	assert.False(t, m.ui.Banner().RebootPending())
	assert.False(t, m.ui.IsConfirmationMode())
}

// operationMsg runs cmd, expanding batches, and returns the first message
// for which keep reports true.
func operationMsg(t *testing.T, cmd tea.Cmd, keep func(tea.Msg) bool) tea.Msg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if keep(msg) {
			return msg
		}
	}
	t.Fatal("operation produced no result")
	return nil
}

func TestBusyIgnoresKeys(t *testing.T) {
	m, _, _ := newTestModel(t, false)
	press(m, "enter")
	require.True(t, m.ui.IsBusy())

	press(m, "j", "s", "right")
	assert.Zero(t, m.ui.Row())
	assert.Zero(t, m.ui.Group())
	assert.Equal(t, ScreenMain, m.ui.Screen())
}

func TestCtrlCWaitsForRunningOperation(t *testing.T) {
	isDone := func(msg tea.Msg) bool {
		switch msg.(type) {
		case restoreDoneMsg, purgeDoneMsg:
			return true
		}
		return false
	}
	for _, k := range []string{"enter", "p"} {
		t.Run(k, func(t *testing.T) {
			m, ops, _ := newTestModel(t, false)
			opCmd := press(m, k)
			require.True(t, m.ui.IsBusy())

			assert.Nil(t, press(m, "ctrl+c"), "quit must wait for the operation")
			assert.True(t, m.ui.IsBusy())
			assert.Contains(t, m.ui.BusyLabel(), "quitting when done")
			assert.Empty(t, ops.restored)
			assert.Zero(t, ops.purges)

			_, follow := m.Update(operationMsg(t, opCmd, isDone))
			assert.False(t, m.ui.IsBusy())
			assert.Equal(t, 1, len(ops.restored)+ops.purges)
			require.NotNil(t, follow)
			assert.IsType(t, tea.QuitMsg{}, follow())
		})
	}
}

func TestGroupSwitchKeepsRow(t *testing.T) {
	m, _, _ := newTestModel(t, true)

	press(m, "down", "right")
	assert.Equal(t, 1, m.ui.Group())
	assert.Equal(t, 1, m.ui.Row(), "row is kept when the new group is large enough")

	press(m, "down", "right")
	assert.Equal(t, 2, m.ui.Group())
	assert.Zero(t, m.ui.Row(), "row is clamped into a smaller group")

	press(m, "left")
	assert.Equal(t, 1, m.ui.Group())
	assert.Zero(t, m.ui.Row())
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestPurgeOutcomes(t *testing.T) {
	entry := snapshot.Entry{Name: "@.20240101T0100", Prefix: "@"}
	tests := []struct {
		name   string
		result lifecycle.PurgeResult
		err    error
		want   string
		kind   status.Kind
	}{
		{name: "error", err: errors.New("scan failed"), want: "Error during purge operation!", kind: status.KindError},
		{name: "nothing", want: "No old snapshots to purge", kind: status.KindInfo},
		{
			name:   "deleted",
			result: lifecycle.PurgeResult{Deleted: []snapshot.Entry{entry, entry}},
			want:   "Purged 2 old snapshots successfully",
			kind:   status.KindSuccess,
		},
		{
			name:   "partial",
			result: lifecycle.PurgeResult{Deleted: []snapshot.Entry{entry}, Failed: []lifecycle.PurgeFailure{{Entry: entry}}},
			want:   "Purged 1 old snapshots, 1 failed",
			kind:   status.KindWarning,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ops, _ := newTestModel(t, true)
			ops.purgeResult = tt.result
			ops.purgeErr = tt.err

			press(m, "p")
			require.True(t, m.ui.IsConfirmationMode())
			assert.Equal(t, "Purge old snapshots (keep only most recent)?", m.ui.PendingAction().Prompt)

			drain(t, m, press(m, "enter"))
			assert.Equal(t, 1, ops.purges)
			text, kind := m.ui.Banner().Current()
			assert.Equal(t, tt.want, text)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestPurgeCancelled(t *testing.T) {
	m, ops, _ := newTestModel(t, true)
	press(m, "p", "esc")
	assert.Zero(t, ops.purges)
	assert.Equal(t, "Purge cancelled", bannerText(m))
}

func TestRebootKey(t *testing.T) {
	t.Run("no reboot pending", func(t *testing.T) {
		m, ops, _ := newTestModel(t, true)
		press(m, "h")
		assert.Equal(t, "No reboot needed", bannerText(m))
		assert.False(t, m.ui.IsConfirmationMode())
		assert.Zero(t, ops.reboots)
	})

	t.Run("confirmation cancelled", func(t *testing.T) {
		m, ops, _ := newTestModel(t, true)
		m.ui.Banner().MarkReboot()
		press(m, "H")
		require.True(t, m.ui.IsConfirmationMode())
		assert.Equal(t, "Reboot system now?", m.ui.PendingAction().Prompt)
		press(m, "n")
		assert.Zero(t, ops.reboots)
	})

	t.Run("without confirmation", func(t *testing.T) {
		m, ops, _ := newTestModel(t, false)
		m.ui.Banner().MarkReboot()
		drain(t, m, press(m, "h"))
		assert.Equal(t, 1, ops.reboots)
	})

	t.Run("failure", func(t *testing.T) {
		m, ops, _ := newTestModel(t, false)
		ops.rebootErr = errors.New("permission denied")
		m.ui.Banner().MarkReboot()
		drain(t, m, press(m, "h"))
		assert.False(t, m.ui.IsBusy())
		assert.True(t, m.ui.Banner().Visible())
	})
}

func TestBackupSucceeds(t *testing.T) {
	m, ops, _ := newTestModel(t, true)
	ops.run = finishedRun(btrbk.Result{Outcome: btrbk.OutcomeSucceeded}, "Creating backup: /mnt/btr_pool/@home", "Completed")

	press(m, "i")
	require.True(t, m.ui.IsConfirmationMode())
	assert.Equal(t, "Create new snapshots with btrbk?", m.ui.PendingAction().Prompt)

	drain(t, m, press(m, "y"))
	assert.Equal(t, ScreenBackup, m.ui.Screen())
	assert.Equal(t, []string{"Creating backup: /mnt/btr_pool/@home", "Completed"}, m.backupLines)
	require.NotNil(t, m.backupResult)

	view := ansiPattern.ReplaceAllString(m.View(), "")
	assert.Contains(t, view, "Completed")
	assert.Contains(t, view, "✓ Snapshots created successfully!")

	press(m, "x")
	assert.Equal(t, ScreenMain, m.ui.Screen())
	assert.Equal(t, "New snapshots created successfully!", bannerText(m))
}

func TestBackupFails(t *testing.T) {
	m, ops, _ := newTestModel(t, false)
	ops.run = finishedRun(btrbk.Result{Outcome: btrbk.OutcomeFailed, ExitStatus: 10}, "ERROR: oops")

	drain(t, m, press(m, "i"))
	view := ansiPattern.ReplaceAllString(m.View(), "")
	assert.Contains(t, view, "✗ Error creating snapshots!")

	press(m, "enter")
	text, kind := m.ui.Banner().Current()
	assert.Equal(t, "Snapshot creation failed: btrbk exited with status 10", text)
	assert.Equal(t, status.KindError, kind)
}

func TestBackupStartError(t *testing.T) {
	m, ops, _ := newTestModel(t, false)
	ops.startErr = btrbk.ErrNotFound

	drain(t, m, press(m, "i"))
	assert.Equal(t, ScreenMain, m.ui.Screen())
	assert.Equal(t, "Snapshot creation failed: "+btrbk.ErrNotFound.Error(), bannerText(m))
}

func TestBackupCancelledWithEsc(t *testing.T) {
	m, ops, _ := newTestModel(t, false)
	ops.run = &fakeRun{lines: make(chan string), done: make(chan btrbk.Result, 1)}

	cmd := press(m, "i")
	_, _ = m.Update(cmd())
	require.NotNil(t, m.backup)

	press(m, "esc")
	assert.True(t, ops.run.cancelled)
	assert.Equal(t, ScreenBackup, m.ui.Screen())

	_, _ = m.Update(backupDoneMsg{result: btrbk.Result{Outcome: btrbk.OutcomeCancelled}})
	press(m, "enter")
	assert.Equal(t, ScreenMain, m.ui.Screen())
	assert.Equal(t, "Snapshot creation cancelled", bannerText(m))
}

func TestSnapshotConfirmationCancelled(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	press(m, "i", "N")
	assert.Equal(t, ScreenMain, m.ui.Screen())
	assert.Equal(t, "Snapshot creation cancelled", bannerText(m))
}

func TestSettingsToggle(t *testing.T) {
	m, _, store := newTestModel(t, true)

	press(m, "s")
	require.Equal(t, ScreenSettings, m.ui.Screen())

	press(m, "down", "down")
	require.Equal(t, config.KeyAutoCleanup, m.ui.SelectedKey())

	press(m, "space")
	assert.True(t, store.Get().AutoCleanup)
	assert.Equal(t, "Toggled auto_cleanup", bannerText(m))
	assert.True(t, store.Exists(), "toggling persists immediately")

	press(m, "enter")
	assert.False(t, store.Get().AutoCleanup, "enter toggles booleans")

	press(m, "esc")
	assert.Equal(t, ScreenMain, m.ui.Screen())
}

func TestSettingsToggleIgnoresNonBool(t *testing.T) {
	m, _, store := newTestModel(t, true)
	press(m, "s", "space")

	assert.Equal(t, config.Default(), store.Get())
	assert.False(t, m.ui.Banner().Visible())
}

func TestSettingsEdit(t *testing.T) {
	m, _, store := newTestModel(t, true)
	press(m, "s")
	for i := 0; i < len(config.Keys)-1; i++ {
		press(m, "down")
	}
	require.Equal(t, config.KeyTheme, m.ui.SelectedKey())

	press(m, "enter")
	require.True(t, m.ui.IsEditMode())
	assert.Equal(t, config.ThemeDefault, m.input.Value())

	m.input.SetValue("dark")
	press(m, "enter")
	assert.False(t, m.ui.IsEditMode())
	assert.Equal(t, config.ThemeDark, store.Get().Theme)
	assert.Equal(t, "Updated theme", bannerText(m))

	press(m, "enter")
	m.input.SetValue("purple")
	press(m, "enter")
	text, kind := m.ui.Banner().Current()
	assert.Contains(t, text, "invalid config value")
	assert.Equal(t, status.KindError, kind)
	assert.Equal(t, config.ThemeDark, store.Get().Theme)

	press(m, "enter")
	m.input.SetValue("  ")
	press(m, "enter")
	assert.Equal(t, "No changes made", bannerText(m))

	press(m, "enter", "esc")
	assert.False(t, m.ui.IsEditMode())
	assert.Equal(t, "Edit cancelled", bannerText(m))
	assert.Equal(t, ScreenSettings, m.ui.Screen())
}

func TestSettingsEditTypesIntoInput(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	press(m, "s", "enter")
	require.True(t, m.ui.IsEditMode())

	m.input.SetValue("")
	press(m, "q", "s")
	assert.Equal(t, "qs", m.input.Value(), "runes go to the editor")
	assert.Equal(t, ScreenSettings, m.ui.Screen())
}

func TestSettingsSaveManually(t *testing.T) {
	m, _, store := newTestModel(t, true)
	require.False(t, store.Exists())

	press(m, "s", "S")
	assert.True(t, store.Exists())
	assert.Equal(t, "Settings saved manually!", bannerText(m))
}

func TestRefreshKey(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	press(m, "r")
	assert.Equal(t, "Refreshed snapshot list", bannerText(m))
	_, kind := m.ui.Banner().Current()
	assert.Equal(t, status.KindInfo, kind)
	for i := 0; i < status.Short; i++ {
		require.True(t, m.ui.Banner().Visible())
		m.ui.Banner().Tick()
	}
	assert.False(t, m.ui.Banner().Visible())
}

func TestBannerDecaysWithTicks(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	m.ui.Banner().Info("hello", status.Short)

	for i := 0; i < status.Short-1; i++ {
		_, cmd := m.Update(tickMsg{})
		require.NotNil(t, cmd)
	}
	assert.Equal(t, "hello", bannerText(m))

	m.Update(tickMsg{})
	assert.False(t, m.ui.Banner().Visible())
}

func TestRebootBannerIsSticky(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	m.ui.Banner().MarkReboot()
	m.ui.Banner().Info("Refreshed snapshot list", status.Short)

	for i := 0; i < status.VeryLong; i++ {
		m.Update(tickMsg{})
	}
	assert.Equal(t, status.RebootMessage, bannerText(m))
}

func TestWindowSize(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.ui.Width())
	assert.Equal(t, 40, m.ui.Height())
	assert.Equal(t, 40-chromeLines, m.ui.VisibleRows())

	m.Update(tea.WindowSizeMsg{Width: 0, Height: 5})
	assert.Equal(t, defaultWidth, m.ui.Width())
	assert.Equal(t, minRows, m.ui.VisibleRows())
}

func TestViewMainScreen(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 30})

	view := ansiPattern.ReplaceAllString(m.View(), "")
	assert.Contains(t, view, "BTRBK Restore Tool v1.0.0")
	assert.Contains(t, view, "Pool: /mnt/btr_pool | Snapshots: /mnt/btr_pool/btrbk_snapshots")
	assert.Contains(t, view, "@ (2)")
	assert.Contains(t, view, "@HOME (3)")
	assert.Contains(t, view, "@VAR (1)")
	assert.Contains(t, view, "@home.20240103T0100 (2024-01-03 01:00:00)")
	assert.NotContains(t, view, "REBOOT")

	m.ui.Banner().MarkReboot()
	view = ansiPattern.ReplaceAllString(m.View(), "")
	assert.Contains(t, view, status.RebootMessage)
	assert.Contains(t, view, "REBOOT")
}

func TestViewBannerDisappearsAfterDecay(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	press(m, "r")

	view := ansiPattern.ReplaceAllString(m.View(), "")
	assert.Contains(t, view, "Refreshed snapshot list")

	for i := 0; i < status.Short; i++ {
		m.ui.Banner().Tick()
	}
	view = ansiPattern.ReplaceAllString(m.View(), "")
	assert.NotContains(t, view, "Refreshed snapshot list")
}

func TestViewShowsConfirmationDialog(t *testing.T) {
	m, _, _ := newTestModel(t, true)
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 30})
	press(m, "right", "enter")

	view := ansiPattern.ReplaceAllString(m.View(), "")
	assert.Contains(t, view, "Restore home snapshot?")
	assert.Contains(t, view, "@home.20240103T0100")
	assert.Contains(t, view, confirmHint)
}

func TestViewSettingsScreen(t *testing.T) {
	m, _, store := newTestModel(t, true)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	press(m, "s")

	view := ansiPattern.ReplaceAllString(m.View(), "")
	assert.Contains(t, view, "SETTINGS")
	assert.Contains(t, view, "BTR Pool Directory:")
	assert.Contains(t, view, "[x] true")
	assert.Contains(t, view, store.Path())
}
