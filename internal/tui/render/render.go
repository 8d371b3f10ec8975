// Package render draws the btrbk-restore screens with lipgloss.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/btrbk-restore/internal/status"
)

const (
	// Title is shown centered at the top of every screen.
	Title          = "BTRBK Restore Tool"
	minColumnWidth = 12
	columnGap      = 2
	sideMargin     = 2
)

// Column is one snapshot group drawn side by side with the others.
type Column struct {
	Prefix string
	Items  []string
	// Cursor is the selected row; only drawn when Active.
	Cursor int
	Active bool
}

// SettingRow is a single line of the settings screen.
type SettingRow struct {
	Label string
	Value string
	Bool  bool
}

// SettingsState defines the inputs needed to render the settings screen.
type SettingsState struct {
	Rows   []SettingRow
	Cursor int
	Path   string
	Exists bool
	Width  int
}

// ModalState defines the inputs needed to render a dialog.
type ModalState struct {
	Title string
	Lines []string
	Hint  string
	Width int
}

// BackupState defines the inputs needed to render the snapshot creation screen.
type BackupState struct {
	Command string
	Output  string
	Running bool
	Spinner string
	Result  string
	Kind    status.Kind
	Width   int
}

// Header renders the centered title and a rule.
func Header(t Theme, version string, width int) string {
	title := Title
	if version != "" {
		title += " " + version
	}
	width = normalizeWidth(width)
	line := lipgloss.PlaceHorizontal(width, lipgloss.Center, t.Title.Render(title))
	return line + "\n" + Rule(t, width)
}

// Rule renders a full width separator.
func Rule(t Theme, width int) string {
	return t.Rule.Render(strings.Repeat("-", normalizeWidth(width)))
}

// PoolInfo renders the configured pool and snapshot locations.
func PoolInfo(t Theme, poolDir, snapshotsDir string, width int) string {
	info := fmt.Sprintf("Pool: %s | Snapshots: %s", poolDir, snapshotsDir)
	return t.Dim.Render(truncate(strings.Repeat(" ", sideMargin)+info, normalizeWidth(width)))
}

// Empty renders the placeholder shown when no snapshots exist.
func Empty(t Theme, width int) string {
	return lipgloss.PlaceHorizontal(normalizeWidth(width), lipgloss.Center, t.Warning.Render("No snapshots found!"))
}

// Columns renders groups side by side. Each column shows at most height rows,
// scrolled so the cursor stays visible.
func Columns(t Theme, cols []Column, width, height int) string {
	if len(cols) == 0 {
		return Empty(t, width)
	}
	width = normalizeWidth(width)
	colWidth := (width - sideMargin*2) / len(cols)
	if colWidth < minColumnWidth {
		colWidth = minColumnWidth
	}
	if height < 1 {
		height = 1
	}

	rendered := make([]string, 0, len(cols)+1)
	rendered = append(rendered, strings.Repeat(" ", sideMargin))
	for _, col := range cols {
		rendered = append(rendered, renderColumn(t, col, colWidth, height))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderColumn(t Theme, col Column, width, height int) string {
	inner := width - columnGap
	lines := make([]string, 0, height+1)
	header := fmt.Sprintf("%s (%d)", strings.ToUpper(col.Prefix), len(col.Items))
	lines = append(lines, t.Column.Render(truncate(header, inner)))

	start := 0
	if col.Active && col.Cursor >= height {
		start = col.Cursor - height + 1
	}
	end := start + height
	if end > len(col.Items) {
		end = len(col.Items)
	}
	for i := start; i < end; i++ {
		text := truncate(col.Items[i], inner)
		if col.Active && i == col.Cursor {
			lines = append(lines, t.Selected.Render(text))
			continue
		}
		lines = append(lines, t.Row.Render(text))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

// Settings renders the settings screen body.
func Settings(t Theme, state SettingsState) string {
	width := normalizeWidth(state.Width)
	indent := strings.Repeat(" ", sideMargin*2)
	var b strings.Builder
	b.WriteString(indent + t.Column.Render("SETTINGS") + "\n\n")
	for i, row := range state.Rows {
		label := truncate(row.Label+":", width-len(indent))
		if i == state.Cursor {
			b.WriteString(indent + t.Selected.Render(label) + "\n")
		} else {
			b.WriteString(indent + t.Row.Render(label) + "\n")
		}
		value := row.Value
		if row.Bool {
			value = "[ ] " + value
			if row.Value == "true" {
				value = "[x] " + row.Value
			}
		}
		b.WriteString(indent + "  " + t.Dim.Render(truncate(value, width-len(indent)-2)) + "\n")
	}
	exists := "not saved yet"
	if state.Exists {
		exists = "exists"
	}
	b.WriteString("\n" + indent + t.Dim.Render(truncate(fmt.Sprintf("%s (%s)", state.Path, exists), width-len(indent))))
	return b.String()
}

// Banner renders the status line.
func Banner(t Theme, text string, kind status.Kind, width int) string {
	if text == "" {
		return ""
	}
	return t.Message(kind).Render(truncate(text, normalizeWidth(width)))
}

// Footer renders a rule followed by the key help.
func Footer(t Theme, help string, width int) string {
	return Rule(t, width) + "\n" + help
}

// Modal renders a bordered dialog centered horizontally.
func Modal(t Theme, state ModalState) string {
	width := normalizeWidth(state.Width)
	var body []string
	if state.Title != "" {
		body = append(body, t.Title.Render(state.Title), "")
	}
	body = append(body, state.Lines...)
	if state.Hint != "" {
		body = append(body, "", t.Dim.Render(state.Hint))
	}
	box := t.Modal.Render(strings.Join(body, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}

// Backup renders the snapshot creation screen body.
func Backup(t Theme, state BackupState) string {
	width := normalizeWidth(state.Width)
	var b strings.Builder
	title := "Creating Snapshots with btrbk..."
	if state.Running && state.Spinner != "" {
		title = state.Spinner + " " + title
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, t.Success.Render(title)) + "\n")
	if state.Command != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, t.Dim.Render(state.Command)) + "\n")
	}
	hint := "Press ESC to cancel or wait for completion"
	if !state.Running {
		hint = "Press any key to continue..."
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, t.Dim.Render(hint)) + "\n")

	box := t.Modal.Width(width - sideMargin*2 - 2).Render(state.Output)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, box))
	if state.Result != "" {
		b.WriteString("\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, t.Message(state.Kind).Render(state.Result)))
	}
	return b.String()
}

func normalizeWidth(width int) int {
	if width <= 0 {
		return 80
	}
	return width
}

func truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if utf8.RuneCountInString(value) <= width {
		return value
	}
	if width <= 3 {
		return string([]rune(value)[:width])
	}
	return string([]rune(value)[:width-3]) + "..."
}
