/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"io"

	"github.com/cristianoliveira/btrbk-restore/cmd"
	"github.com/cristianoliveira/btrbk-restore/internal/colors"
	"github.com/cristianoliveira/btrbk-restore/internal/config"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type settingsClient interface {
	Get() config.Config
	Set(key config.Key, value string) error
	Reset() error
	Path() string
	Exists() bool
}

const (
	settingsCommandLong = `Manage persisted settings.

USAGE:
    btrbk-restore settings <subcommand>

SUBCOMMANDS:
    show                Display current settings
    set <key> <value>   Change one setting
    reset               Reset settings to defaults

KEYS:
    btr_pool_dir, snapshots_dir, auto_cleanup, confirm_actions,
    show_timestamps, theme

EXAMPLES:
    # Show current settings
    btrbk-restore settings show

    # Point at another pool
    btrbk-restore settings set btr_pool_dir /mnt/pool

    # Reset settings without confirmation
    btrbk-restore settings reset --force`
	resetCommandLong = `Reset settings to defaults and save them.

USAGE:
    btrbk-restore settings reset [OPTIONS]

OPTIONS:
    --force    Reset without confirmation
    -h, --help Show this help`
)

// NewSettingsCmd creates the settings command with explicit dependencies.
func NewSettingsCmd(open func() (settingsClient, error)) *cobra.Command {
	if open == nil {
		panic("NewSettingsCmd: client dependency cannot be nil")
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage persisted settings",
		Long:  settingsCommandLong,
	}

	settingsCmd.AddCommand(newShowCmd(open))
	settingsCmd.AddCommand(newSetCmd(open))
	settingsCmd.AddCommand(newResetCmd(open))
	return settingsCmd
}

// newShowCmd creates the show subcommand.
func newShowCmd(open func() (settingsClient, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := open()
			if err != nil {
				return err
			}
			return printSettings(cmd.OutOrStdout(), client)
		},
	}
}

// newSetCmd creates the set subcommand.
func newSetCmd(open func() (settingsClient, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := open()
			if err != nil {
				return err
			}
			key, err := config.ParseKey(args[0])
			if err != nil {
				return err
			}
			if err := client.Set(key, args[1]); err != nil {
				return fmt.Errorf("failed to update %s: %w", key, err)
			}
			value, _ := client.Get().Value(key)
			colors.Success(fmt.Sprintf("Updated %s = %s", key, value))
			return nil
		},
	}
}

// newResetCmd creates the reset subcommand.
func newResetCmd(open func() (settingsClient, error)) *cobra.Command {
	var force bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset settings to defaults",
		Long:  resetCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := open()
			if err != nil {
				return err
			}
			if !force && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to reset all settings to defaults?") {
				colors.Info("Operation cancelled")
				return nil
			}
			if err := client.Reset(); err != nil {
				return fmt.Errorf("failed to reset settings: %w", err)
			}
			colors.Success("Settings reset to defaults")
			return nil
		},
	}
	resetCmd.Flags().BoolVar(&force, "force", false, "Reset without confirmation")
	return resetCmd
}

func printSettings(w io.Writer, client settingsClient) error {
	cfg := client.Get()
	table := tablewriter.NewWriter(w)
	table.Header("Key", "Setting", "Value")
	for _, k := range config.Keys {
		value, _ := cfg.Value(k)
		if err := table.Append([]string{string(k), config.Label(k), value}); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	state := "not saved yet"
	if client.Exists() {
		state = "exists"
	}
	fmt.Fprintf(w, "Config file: %s (%s)\n", client.Path(), state)
	return nil
}

var settingsCmd = NewSettingsCmd(func() (settingsClient, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	return a.store, nil
})

func init() {
	cmd.RootCmd.AddCommand(settingsCmd)
}
