package state

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/cristianoliveira/btrbk-restore/internal/config"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
	"github.com/cristianoliveira/btrbk-restore/internal/status"
	"github.com/cristianoliveira/btrbk-restore/internal/tui/render"
)

const (
	confirmHint = "[Y]es / [N]o"
	editHint    = "ENTER: Save | ESC: Cancel"
)

// View renders the active screen. The snapshot listing is re-read on every
// draw so the columns always reflect the filesystem.
func (m *Model) View() string {
	cfg := m.settings.Get()
	theme := render.ThemeFor(cfg.Theme)
	width := m.ui.Width()

	sections := []string{render.Header(theme, m.version, width)}
	switch m.ui.Screen() {
	case ScreenSettings:
		sections = append(sections, m.settingsView(theme, cfg))
	case ScreenBackup:
		sections = append(sections, m.backupView(theme))
	default:
		listing := m.ops.List()
		m.ui.Clamp(listing)
		sections = append(sections,
			render.PoolInfo(theme, cfg.PoolDir, cfg.SnapshotsDir, width),
			"",
			render.Columns(theme, m.columns(listing, cfg.ShowTimestamps), width, m.ui.VisibleRows()),
		)
	}

	if modal := m.modalView(theme); modal != "" {
		sections = append(sections, "", modal)
	}

	sections = append(sections, "", m.bannerView(theme), render.Footer(theme, m.help.View(m.helpKeys()), width))
	return strings.Join(sections, "\n")
}

func (m *Model) columns(listing snapshot.Listing, showTimestamps bool) []render.Column {
	cols := make([]render.Column, 0, listing.Len())
	for i, g := range listing.Groups {
		items := make([]string, 0, len(g.Entries))
		for _, e := range g.Entries {
			items = append(items, snapshot.DisplayName(e, showTimestamps))
		}
		cols = append(cols, render.Column{
			Prefix: g.Prefix,
			Items:  items,
			Cursor: m.ui.Row(),
			Active: i == m.ui.Group(),
		})
	}
	return cols
}

func (m *Model) settingsView(theme render.Theme, cfg config.Config) string {
	rows := make([]render.SettingRow, 0, len(config.Keys))
	for _, k := range config.Keys {
		value, _ := cfg.Value(k)
		rows = append(rows, render.SettingRow{Label: config.Label(k), Value: value, Bool: config.IsBool(k)})
	}
	return render.Settings(theme, render.SettingsState{
		Rows:   rows,
		Cursor: m.ui.SettingsRow(),
		Path:   m.settings.Path(),
		Exists: m.settings.Exists(),
		Width:  m.ui.Width(),
	})
}

func (m *Model) backupView(theme render.Theme) string {
	state := render.BackupState{
		Command: m.backupCommand,
		Output:  m.output.View(),
		Running: m.backupResult == nil,
		Spinner: m.spinner.View(),
		Width:   m.ui.Width(),
	}
	if m.backupResult != nil {
		state.Result, state.Kind = backupSummary(*m.backupResult)
	}
	return render.Backup(theme, state)
}

func (m *Model) modalView(theme render.Theme) string {
	switch {
	case m.ui.IsConfirmationMode():
		action := m.ui.PendingAction()
		var lines []string
		if action.Type == ActionRestore {
			lines = append(lines, action.Entry.Name)
		}
		return render.Modal(theme, render.ModalState{
			Title: action.Prompt,
			Lines: lines,
			Hint:  confirmHint,
			Width: m.ui.Width(),
		})
	case m.ui.IsEditMode():
		k := m.ui.PendingAction().Key
		return render.Modal(theme, render.ModalState{
			Title: "Edit " + config.Label(k),
			Lines: []string{m.input.View()},
			Hint:  editHint,
			Width: m.ui.Width(),
		})
	}
	return ""
}

func (m *Model) bannerView(theme render.Theme) string {
	if m.ui.IsBusy() {
		return render.Banner(theme, m.spinner.View()+" "+m.ui.BusyLabel(), status.KindInfo, m.ui.Width())
	}
	banner := m.ui.Banner()
	if !banner.Visible() {
		return ""
	}
	text, kind := banner.Current()
	return render.Banner(theme, text, kind, m.ui.Width())
}

func (m *Model) helpKeys() help.KeyMap {
	if m.ui.Screen() == ScreenSettings {
		return settingsHelp{keys: m.keys}
	}
	return mainHelp{keys: m.keys, reboot: m.ui.Banner().RebootPending()}
}
