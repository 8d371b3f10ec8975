package state

import (
	"github.com/cristianoliveira/btrbk-restore/internal/config"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
	"github.com/cristianoliveira/btrbk-restore/internal/status"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// chromeLines counts header, pool info, column header, banner, footer and spacing.
	chromeLines = 10
	minRows     = 3
)

// Screen identifies the active screen.
type Screen int

const (
	ScreenMain Screen = iota
	ScreenSettings
	ScreenBackup
)

func (s Screen) String() string {
	switch s {
	case ScreenMain:
		return "MAIN"
	case ScreenSettings:
		return "SETTINGS"
	case ScreenBackup:
		return "BACKUP"
	}
	return "UNKNOWN"
}

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirm
	modalEdit
)

// ActionType names an operation waiting for confirmation.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionRestore
	ActionPurge
	ActionSnapshot
	ActionReboot
)

// PendingAction is the operation a confirmation dialog will run.
type PendingAction struct {
	Type   ActionType
	Entry  snapshot.Entry
	Key    config.Key
	Prompt string
	// Offer marks the reboot prompt shown right after a restore.
	Offer bool
}

// UIState holds cursor positions, the active screen and the status banner.
type UIState struct {
	screen      Screen
	group       int
	row         int
	settingsRow int

	modal   modalKind
	pending PendingAction

	banner    status.Banner
	busy      bool
	busyLabel string

	width  int
	height int
}

// NewUIState creates a UIState on the main screen.
func NewUIState() *UIState {
	return &UIState{
		screen: ScreenMain,
		width:  defaultWidth,
		height: defaultHeight,
	}
}

// Screen returns the active screen.
func (u *UIState) Screen() Screen {
	return u.screen
}

// SetScreen switches screens and closes any dialog.
func (u *UIState) SetScreen(s Screen) {
	u.screen = s
	u.closeModal()
}

// Group returns the selected group index.
func (u *UIState) Group() int {
	return u.group
}

// Row returns the selected row within the group.
func (u *UIState) Row() int {
	return u.row
}

// SettingsRow returns the selected settings line.
func (u *UIState) SettingsRow() int {
	return u.settingsRow
}

// Width returns the terminal width.
func (u *UIState) Width() int {
	return u.width
}

// Height returns the terminal height.
func (u *UIState) Height() int {
	return u.height
}

// SetSize records the terminal size, falling back to defaults.
func (u *UIState) SetSize(width, height int) {
	u.width = width
	if width <= 0 {
		u.width = defaultWidth
	}
	u.height = height
	if height <= 0 {
		u.height = defaultHeight
	}
}

// VisibleRows returns how many snapshot rows fit in a column.
func (u *UIState) VisibleRows() int {
	rows := u.height - chromeLines
	if rows < minRows {
		return minRows
	}
	return rows
}

// Banner returns the status banner.
func (u *UIState) Banner() *status.Banner {
	return &u.banner
}

// IsBusy reports whether a blocking operation is running.
func (u *UIState) IsBusy() bool {
	return u.busy
}

// BusyLabel returns the text shown while busy.
func (u *UIState) BusyLabel() string {
	return u.busyLabel
}

// SetBusy marks a blocking operation as started.
func (u *UIState) SetBusy(label string) {
	u.busy = true
	u.busyLabel = label
}

// ClearBusy marks the blocking operation as finished.
func (u *UIState) ClearBusy() {
	u.busy = false
	u.busyLabel = ""
}

// IsConfirmationMode reports whether a confirmation dialog is open.
func (u *UIState) IsConfirmationMode() bool {
	return u.modal == modalConfirm
}

// IsEditMode reports whether the settings value editor is open.
func (u *UIState) IsEditMode() bool {
	return u.modal == modalEdit
}

// PendingAction returns the action held by the open dialog.
func (u *UIState) PendingAction() PendingAction {
	return u.pending
}

func (u *UIState) openConfirm(action PendingAction) {
	u.modal = modalConfirm
	u.pending = action
}

func (u *UIState) openEdit(key config.Key) {
	u.modal = modalEdit
	u.pending = PendingAction{Key: key}
}

func (u *UIState) closeModal() {
	u.modal = modalNone
	u.pending = PendingAction{}
}

// Clamp keeps the cursors inside listing: the group index addresses an
// existing group and the row addresses an entry of that group. Both are zero
// when the listing is empty.
func (u *UIState) Clamp(listing snapshot.Listing) {
	groups := listing.Len()
	if groups == 0 {
		u.group, u.row = 0, 0
		return
	}
	u.group = clampIndex(u.group, groups)
	u.row = clampIndex(u.row, len(listing.Groups[u.group].Entries))
}

// MoveRow moves the row cursor by delta within the current group.
func (u *UIState) MoveRow(listing snapshot.Listing, delta int) {
	u.Clamp(listing)
	if listing.Len() == 0 {
		return
	}
	u.row = clampIndex(u.row+delta, len(listing.Groups[u.group].Entries))
}

// MoveGroup moves to a neighbouring group, keeping the row clamped into the
// new group's bounds.
func (u *UIState) MoveGroup(listing snapshot.Listing, delta int) {
	u.Clamp(listing)
	if listing.Len() == 0 {
		return
	}
	u.group = clampIndex(u.group+delta, listing.Len())
	u.row = clampIndex(u.row, len(listing.Groups[u.group].Entries))
}

// Selected returns the entry under the cursor.
func (u *UIState) Selected(listing snapshot.Listing) (snapshot.Entry, bool) {
	u.Clamp(listing)
	if listing.Len() == 0 {
		return snapshot.Entry{}, false
	}
	entries := listing.Groups[u.group].Entries
	if len(entries) == 0 {
		return snapshot.Entry{}, false
	}
	return entries[u.row], true
}

// MoveSettings moves the settings cursor by delta.
func (u *UIState) MoveSettings(delta int) {
	u.settingsRow = clampIndex(u.settingsRow+delta, len(config.Keys))
}

// SelectedKey returns the setting under the cursor.
func (u *UIState) SelectedKey() config.Key {
	u.settingsRow = clampIndex(u.settingsRow, len(config.Keys))
	return config.Keys[u.settingsRow]
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
