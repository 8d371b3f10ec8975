package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/btrbk-restore/internal/colors"
	"github.com/cristianoliveira/btrbk-restore/internal/config"
	"github.com/cristianoliveira/btrbk-restore/internal/status"
)

// Theme is the set of styles used by every render function.
type Theme struct {
	Name     string
	Title    lipgloss.Style
	Rule     lipgloss.Style
	Column   lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Dim      lipgloss.Style
	Info     lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Modal    lipgloss.Style
}

// ThemeFor returns the named theme, falling back to the default one.
func ThemeFor(name string) Theme {
	switch strings.ToLower(name) {
	case config.ThemeDark:
		return darkTheme()
	case config.ThemeLight:
		return lightTheme()
	case config.ThemeMono:
		return monoTheme()
	default:
		return defaultTheme()
	}
}

// Message returns the style for a banner kind.
func (t Theme) Message(kind status.Kind) lipgloss.Style {
	switch kind {
	case status.KindSuccess:
		return t.Success
	case status.KindWarning:
		return t.Warning
	case status.KindError:
		return t.Error
	default:
		return t.Info
	}
}

func defaultTheme() Theme {
	blue := lipgloss.Color(ansiColorNumber(colors.Blue))
	return Theme{
		Name:     config.ThemeDefault,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(blue),
		Rule:     lipgloss.NewStyle(),
		Column:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		Row:      lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Background(blue).Foreground(lipgloss.Color("0")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Info:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Success:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		Warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		Modal:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(blue).Padding(0, 2),
	}
}

func darkTheme() Theme {
	t := defaultTheme()
	t.Name = config.ThemeDark
	t.Title = t.Title.Foreground(lipgloss.Color("45"))
	t.Column = t.Column.Foreground(lipgloss.Color("81"))
	t.Selected = lipgloss.NewStyle().Background(lipgloss.Color("238")).Foreground(lipgloss.Color("231")).Bold(true)
	t.Dim = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	t.Modal = t.Modal.BorderForeground(lipgloss.Color("45"))
	return t
}

func lightTheme() Theme {
	t := defaultTheme()
	t.Name = config.ThemeLight
	t.Title = t.Title.Foreground(lipgloss.Color("25"))
	t.Column = t.Column.Foreground(lipgloss.Color("22"))
	t.Selected = lipgloss.NewStyle().Background(lipgloss.Color("153")).Foreground(lipgloss.Color("16"))
	t.Dim = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	t.Info = lipgloss.NewStyle().Foreground(lipgloss.Color("25"))
	t.Modal = t.Modal.BorderForeground(lipgloss.Color("25"))
	return t
}

func monoTheme() Theme {
	plain := lipgloss.NewStyle()
	bold := plain.Bold(true)
	return Theme{
		Name:     config.ThemeMono,
		Title:    bold,
		Rule:     plain,
		Column:   bold.Underline(true),
		Row:      plain,
		Selected: plain.Reverse(true),
		Dim:      plain.Faint(true),
		Info:     plain,
		Success:  bold,
		Warning:  bold,
		Error:    bold,
		Modal:    plain.Border(lipgloss.NormalBorder()).Padding(0, 2),
	}
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
