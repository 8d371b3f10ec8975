/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/btrbk-restore/cmd"
	"github.com/cristianoliveira/btrbk-restore/internal/logging"
	"github.com/cristianoliveira/btrbk-restore/internal/tui/state"
	"github.com/cristianoliveira/btrbk-restore/internal/version"
	"github.com/spf13/cobra"
)

var errNoTerminal = errors.New("the interactive UI requires a terminal")

// tuiDeps is what the interactive UI runs against.
type tuiDeps struct {
	ops      state.Operations
	settings state.Settings
	command  string
}

// runProgram is replaceable in tests.
var runProgram = func(m tea.Model, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

// NewTUICmd creates the tui command with explicit dependencies.
func NewTUICmd(open func() (tuiDeps, error)) *cobra.Command {
	if open == nil {
		panic("NewTUICmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and restore snapshots interactively (default)",
		Long: `Open the interactive snapshot browser.

USAGE:
    btrbk-restore tui

KEYS:
    Up/Down      Navigate snapshots
    Left/Right   Switch subvolume group
    ENTER        Restore selected snapshot
    S            Settings
    R            Refresh
    I            Create snapshots with btrbk
    P            Purge old snapshots
    H            Reboot (after a restore)
    Q            Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRoot(); err != nil {
				return err
			}
			if !isTerminal() {
				return errNoTerminal
			}
			deps, err := open()
			if err != nil {
				return err
			}

			logger := logging.GetGlobal().With("component", "tui")
			model := state.NewModel(deps.ops, deps.settings,
				state.WithVersion(version.String()),
				state.WithLogger(logger),
				state.WithContext(cmd.Context()),
				state.WithBackupCommand(deps.command),
			)
			if err := runProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())); err != nil {
				return fmt.Errorf("interactive UI failed: %w", err)
			}
			return nil
		},
	}
}

var tuiCmd = NewTUICmd(func() (tuiDeps, error) {
	a, err := loadApp()
	if err != nil {
		return tuiDeps{}, err
	}
	return tuiDeps{ops: a.manager, settings: a.store, command: a.runner.Command()}, nil
})

func init() {
	cmd.RootCmd.AddCommand(tuiCmd)
	// The bare command opens the interactive UI.
	cmd.RootCmd.Args = cobra.NoArgs
	cmd.RootCmd.RunE = tuiCmd.RunE
}
