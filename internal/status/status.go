/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/

// Package status holds the decaying status banner shown by the interactive UI.
package status

// Kind classifies a banner message.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindWarning
	KindError
)

// Tick budgets, counted in 100ms UI ticks.
const (
	Short    = 50
	Medium   = 100
	Long     = 150
	VeryLong = 200
)

// RebootMessage is shown while a reboot is pending.
const RebootMessage = "⚠ REBOOT REQUIRED - Press H to reboot system ⚠"

// Banner is a message with a display budget plus a sticky reboot notice.
// The zero value is an empty banner.
type Banner struct {
	text   string
	kind   Kind
	budget int
	reboot bool
}

// Set replaces the current message. A non-positive budget clears it.
func (b *Banner) Set(text string, kind Kind, budget int) {
	if budget <= 0 || text == "" {
		b.Clear()
		return
	}
	b.text = text
	b.kind = kind
	b.budget = budget
}

// Info is shorthand for Set with KindInfo.
func (b *Banner) Info(text string, budget int) { b.Set(text, KindInfo, budget) }

// Success is shorthand for Set with KindSuccess.
func (b *Banner) Success(text string, budget int) { b.Set(text, KindSuccess, budget) }

// Warning is shorthand for Set with KindWarning.
func (b *Banner) Warning(text string, budget int) { b.Set(text, KindWarning, budget) }

// Error is shorthand for Set with KindError.
func (b *Banner) Error(text string, budget int) { b.Set(text, KindError, budget) }

// Clear drops the current message. The reboot notice is unaffected.
func (b *Banner) Clear() {
	b.text = ""
	b.kind = KindInfo
	b.budget = 0
}

// Tick decrements the budget and clears the message once it reaches zero.
func (b *Banner) Tick() {
	if b.budget <= 0 {
		return
	}
	b.budget--
	if b.budget == 0 {
		b.Clear()
	}
}

// MarkReboot sets the sticky reboot notice. It cannot be unset.
func (b *Banner) MarkReboot() {
	b.reboot = true
}

// RebootPending reports whether the sticky reboot notice is set.
func (b *Banner) RebootPending() bool {
	return b.reboot
}

// Current returns the text to display. The reboot notice wins over any message.
func (b *Banner) Current() (string, Kind) {
	if b.reboot {
		return RebootMessage, KindWarning
	}
	return b.text, b.kind
}

// Visible reports whether anything should be displayed.
func (b *Banner) Visible() bool {
	return b.reboot || b.text != ""
}
