package state

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/btrbk-restore/internal/btrbk"
	"github.com/cristianoliveira/btrbk-restore/internal/config"
	"github.com/cristianoliveira/btrbk-restore/internal/lifecycle"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
	"github.com/cristianoliveira/btrbk-restore/internal/status"
)

// handleKeyMsg processes keyboard input for the TUI.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A running restore, purge or reboot is never cut short: ctrl+c only
	// schedules the quit for when it finishes.
	if m.ui.IsBusy() {
		if msg.Type == tea.KeyCtrlC && !m.quitPending {
			m.quitPending = true
			m.ui.SetBusy(m.ui.BusyLabel() + " (quitting when done)")
		}
		return m, nil
	}
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.ui.IsConfirmationMode() {
		return m.handleConfirmation(msg)
	}
	if m.ui.IsEditMode() {
		return m.handleEditInput(msg)
	}

	switch m.ui.Screen() {
	case ScreenSettings:
		return m.handleSettingsKey(msg)
	case ScreenBackup:
		return m.handleBackupKey(msg)
	default:
		return m.handleMainKey(msg)
	}
}

// finishBusy clears the busy state and reports whether a quit was requested
// while the operation ran.
func (m *Model) finishBusy() bool {
	m.ui.ClearBusy()
	return m.quitPending
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.backup != nil {
		m.backup.Cancel()
	}
	return m, tea.Quit
}

func (m *Model) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	listing := m.ops.List()
	m.ui.Clamp(listing)
	banner := m.ui.Banner()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.ui.MoveRow(listing, -1)
	case key.Matches(msg, m.keys.Down):
		m.ui.MoveRow(listing, 1)
	case key.Matches(msg, m.keys.Left):
		m.ui.MoveGroup(listing, -1)
	case key.Matches(msg, m.keys.Right):
		m.ui.MoveGroup(listing, 1)
	case key.Matches(msg, m.keys.Select):
		entry, ok := m.ui.Selected(listing)
		if !ok {
			return m, nil
		}
		return m.request(PendingAction{
			Type:   ActionRestore,
			Entry:  entry,
			Prompt: fmt.Sprintf("Restore %s snapshot?", snapshot.Label(entry.Prefix)),
		})
	case key.Matches(msg, m.keys.Settings):
		m.ui.SetScreen(ScreenSettings)
	case key.Matches(msg, m.keys.Refresh):
		banner.Info("Refreshed snapshot list", status.Short)
	case key.Matches(msg, m.keys.Snapshot):
		return m.request(PendingAction{Type: ActionSnapshot, Prompt: "Create new snapshots with btrbk?"})
	case key.Matches(msg, m.keys.Purge):
		return m.request(PendingAction{Type: ActionPurge, Prompt: "Purge old snapshots (keep only most recent)?"})
	case key.Matches(msg, m.keys.Reboot):
		if !banner.RebootPending() {
			banner.Info("No reboot needed", status.Short)
			return m, nil
		}
		return m.request(PendingAction{Type: ActionReboot, Prompt: "Reboot system now?"})
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// request opens a confirmation dialog, or runs the action straight away when
// confirmations are disabled.
func (m *Model) request(action PendingAction) (tea.Model, tea.Cmd) {
	if !m.settings.Get().ConfirmActions {
		return m, m.execute(action)
	}
	m.ui.openConfirm(action)
	return m, nil
}

// handleConfirmation handles key input during confirmation mode.
func (m *Model) handleConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m, m.executeConfirmedAction()
	case tea.KeyEsc:
		m.cancelConfirmedAction()
		return m, nil
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return m, nil
		}
		switch msg.Runes[0] {
		case 'y', 'Y':
			return m, m.executeConfirmedAction()
		case 'n', 'N':
			m.cancelConfirmedAction()
		}
	}
	return m, nil
}

func (m *Model) executeConfirmedAction() tea.Cmd {
	action := m.ui.PendingAction()
	m.ui.closeModal()
	return m.execute(action)
}

func (m *Model) cancelConfirmedAction() {
	action := m.ui.PendingAction()
	m.ui.closeModal()
	banner := m.ui.Banner()
	switch action.Type {
	case ActionRestore:
		banner.Info("Restoration cancelled", status.Short)
	case ActionPurge:
		banner.Info("Purge cancelled", status.Short)
	case ActionSnapshot:
		banner.Info("Snapshot creation cancelled", status.Short)
	case ActionReboot:
		if !action.Offer {
			banner.Info("Reboot cancelled", status.Short)
		}
	}
}

// execute starts action. Restore and purge run in the background with the UI
// marked busy; snapshot creation switches to the output screen.
func (m *Model) execute(action PendingAction) tea.Cmd {
	banner := m.ui.Banner()
	switch action.Type {
	case ActionRestore:
		m.logger.Info("restore requested", "snapshot", action.Entry.Name)
		m.ui.SetBusy("Restoring snapshot...")
		banner.Info("Restoring snapshot...", status.Medium)
		return tea.Batch(restoreCmd(m.ctx, m.ops, action.Entry), m.spinner.Tick)
	case ActionPurge:
		m.logger.Info("purge requested")
		m.ui.SetBusy("Purging old snapshots...")
		banner.Info("Purging old snapshots...", status.Medium)
		return tea.Batch(purgeCmd(m.ctx, m.ops), m.spinner.Tick)
	case ActionSnapshot:
		m.logger.Info("snapshot creation requested")
		m.backupLines = nil
		m.backupResult = nil
		m.output.SetContent("")
		m.ui.SetScreen(ScreenBackup)
		return startBackupCmd(m.ctx, m.ops)
	case ActionReboot:
		m.logger.Warn("reboot requested")
		m.ui.SetBusy("Rebooting...")
		banner.Warning("Rebooting...", status.Medium)
		return tea.Batch(rebootCmd(m.ctx, m.ops), m.spinner.Tick)
	}
	return nil
}

func (m *Model) handleRestoreDone(res lifecycle.RestoreResult) (tea.Model, tea.Cmd) {
	quitting := m.finishBusy()
	banner := m.ui.Banner()
	if !res.Success {
		m.logger.Error("restore failed", "snapshot", res.Entry.Name, "step", string(res.Step), "diagnostic", res.Diagnostic())
		banner.Error("Failed to restore snapshot! "+res.Diagnostic(), status.Medium)
	} else {
		m.logger.Info("restore finished", "snapshot", res.Entry.Name, "diagnostic", res.Diagnostic())
	}
	if quitting {
		return m.quit()
	}
	if !res.Success {
		return m, nil
	}

	banner.Success("Snapshot restored! Press H to reboot or continue working", status.VeryLong)
	banner.MarkReboot()
	// The reboot prompt is an offer, so it shows even without confirmations.
	m.ui.openConfirm(PendingAction{Type: ActionReboot, Prompt: "Reboot system now?", Offer: true})
	return m, nil
}

func (m *Model) handlePurgeDone(res lifecycle.PurgeResult, err error) (tea.Model, tea.Cmd) {
	quitting := m.finishBusy()
	banner := m.ui.Banner()
	switch {
	case err != nil:
		m.logger.Error("purge failed", "error", err)
		banner.Error("Error during purge operation!", status.Medium)
	case len(res.Failed) > 0:
		m.logger.Warn("purge finished with failures", "deleted", res.Count(), "failed", len(res.Failed))
		banner.Warning(fmt.Sprintf("Purged %d old snapshots, %d failed", res.Count(), len(res.Failed)), status.Long)
	case res.Count() == 0:
		banner.Info("No old snapshots to purge", status.Medium)
	default:
		m.logger.Info("purge finished", "deleted", res.Count())
		banner.Success(fmt.Sprintf("Purged %d old snapshots successfully", res.Count()), status.Long)
	}
	if quitting {
		return m.quit()
	}
	return m, nil
}

func (m *Model) handleRebootDone(err error) (tea.Model, tea.Cmd) {
	quitting := m.finishBusy()
	if err != nil {
		m.logger.Error("reboot failed", "error", err)
		m.ui.Banner().Error("Reboot failed: "+err.Error(), status.Long)
	}
	if quitting {
		return m.quit()
	}
	return m, nil
}

func (m *Model) handleBackupStarted(run lifecycle.BackupRun, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.ui.SetScreen(ScreenMain)
		m.ui.Banner().Error("Snapshot creation failed: "+err.Error(), status.Long)
		return m, nil
	}
	m.backup = run
	return m, tea.Batch(waitForLine(run), m.spinner.Tick)
}

func (m *Model) handleBackupLine(line string) (tea.Model, tea.Cmd) {
	m.backupLines = append(m.backupLines, line)
	m.output.SetContent(strings.Join(m.backupLines, "\n"))
	m.output.GotoBottom()
	if m.backup == nil {
		return m, nil
	}
	return m, waitForLine(m.backup)
}

func (m *Model) handleBackupDone(res btrbk.Result) (tea.Model, tea.Cmd) {
	m.backup = nil
	m.backupResult = &res
	return m, nil
}

// backupSummary returns the completion line of the snapshot creation screen.
func backupSummary(res btrbk.Result) (string, status.Kind) {
	switch res.Outcome {
	case btrbk.OutcomeSucceeded:
		return "✓ Snapshots created successfully! Press any key to continue...", status.KindSuccess
	case btrbk.OutcomeCancelled:
		return "✗ Snapshot creation cancelled. Press any key to continue...", status.KindWarning
	}
	return fmt.Sprintf("✗ Error creating snapshots! (exit status %d) Press any key to continue...", res.ExitStatus), status.KindError
}

func (m *Model) handleBackupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.backupResult == nil {
		if msg.Type == tea.KeyEsc && m.backup != nil {
			m.backup.Cancel()
			return m, nil
		}
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	res := *m.backupResult
	m.backupResult = nil
	m.backupLines = nil
	m.ui.SetScreen(ScreenMain)
	banner := m.ui.Banner()
	switch res.Outcome {
	case btrbk.OutcomeSucceeded:
		banner.Success("New snapshots created successfully!", status.Long)
	case btrbk.OutcomeCancelled:
		banner.Warning("Snapshot creation cancelled", status.Medium)
	default:
		banner.Error(fmt.Sprintf("Snapshot creation failed: btrbk exited with status %d", res.ExitStatus), status.Long)
	}
	return m, nil
}

func (m *Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	banner := m.ui.Banner()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.ui.SetScreen(ScreenMain)
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.ui.MoveSettings(-1)
	case key.Matches(msg, m.keys.Down):
		m.ui.MoveSettings(1)
	case key.Matches(msg, m.keys.Toggle):
		if k := m.ui.SelectedKey(); config.IsBool(k) {
			m.toggleSetting(k)
		}
	case key.Matches(msg, m.keys.Select):
		k := m.ui.SelectedKey()
		if config.IsBool(k) {
			m.toggleSetting(k)
			return m, nil
		}
		value, _ := m.settings.Get().Value(k)
		m.input.SetValue(value)
		m.input.CursorEnd()
		m.ui.openEdit(k)
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Save):
		if err := m.settings.Save(); err != nil {
			m.logger.Error("failed to save settings", "error", err)
			banner.Error("Failed to save settings: "+err.Error(), status.Medium)
			return m, nil
		}
		banner.Success("Settings saved manually!", status.Medium)
	}
	return m, nil
}

func (m *Model) toggleSetting(k config.Key) {
	if err := m.settings.Toggle(k); err != nil {
		m.reportSettingError(err)
		return
	}
	m.ui.Banner().Success(fmt.Sprintf("Toggled %s", k), status.Short)
}

func (m *Model) handleEditInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeEditor()
		m.ui.Banner().Info("Edit cancelled", status.Short)
		return m, nil
	case tea.KeyEnter:
		k := m.ui.PendingAction().Key
		value := strings.TrimSpace(m.input.Value())
		current, _ := m.settings.Get().Value(k)
		m.closeEditor()
		if value == "" || value == current {
			m.ui.Banner().Info("No changes made", status.Short)
			return m, nil
		}
		if err := m.settings.Set(k, value); err != nil {
			m.reportSettingError(err)
			return m, nil
		}
		m.ui.Banner().Success(fmt.Sprintf("Updated %s", k), status.Short)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeEditor() {
	m.input.Blur()
	m.input.SetValue("")
	m.ui.closeModal()
}

// reportSettingError distinguishes rejected values from write failures; a
// failed write keeps the new value in memory.
func (m *Model) reportSettingError(err error) {
	banner := m.ui.Banner()
	if errors.Is(err, config.ErrInvalidValue) || errors.Is(err, config.ErrUnknownKey) || errors.Is(err, config.ErrNotBool) {
		banner.Error(err.Error(), status.Medium)
		return
	}
	m.logger.Error("failed to save settings", "error", err)
	banner.Error("Failed to save settings: "+err.Error(), status.Medium)
}
