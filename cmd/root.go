/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/btrbk-restore/internal/colors"
	"github.com/cristianoliveira/btrbk-restore/internal/logging"
	"github.com/cristianoliveira/btrbk-restore/internal/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "btrbk-restore",
	Short: "Restore Btrfs subvolumes from btrbk snapshots.",
	Long: `Restore Btrfs subvolumes from btrbk snapshots.

Without a subcommand the interactive snapshot browser is started.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. This is called by main.main().
// Errors are mirrored into the log file before it is closed.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		logging.Error("command failed", "error", err)
	}
	_ = logging.ShutdownGlobal()
	return err
}

// ConfigPath returns the --config flag value. Empty means the default location.
func ConfigPath() string {
	return configPath
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.SetVersionTemplate("btrbk-restore version {{.Version}}\n")

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/btrbk-restore/config.toml)")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print debug output and enable debug file logging")

	defaultHelp := RootCmd.HelpFunc()
	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			defaultHelp(cmd, args)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), helpText(cmd))
	})
}

// setup starts file logging for the command being run.
func setup(cmd *cobra.Command, args []string) error {
	colors.SetDebug(debug)
	cfg := logging.FromEnv()
	cfg.Command = cmd.Name()
	if debug {
		cfg.Enabled = true
		cfg.Level = "debug"
	}
	if err := logging.InitGlobal(cfg); err != nil {
		colors.Warning("File logging disabled:", err.Error())
	}
	logging.Debug("command started", "command", cmd.CommandPath(), "args", args)
	return nil
}

// commandOrder is the listing order of the root help.
var commandOrder = []string{
	"tui",
	"list",
	"restore",
	"purge",
	"snapshot",
	"settings",
	"history",
	"version",
}

func helpText(cmd *cobra.Command) string {
	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-24s %s", found.Use, found.Short))
	}

	return fmt.Sprintf(`btrbk-restore %s

Restore Btrfs subvolumes from btrbk snapshots.

USAGE:
    btrbk-restore [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --config <path>   Use an alternate config file
    --debug           Print debug output and log at debug level
    -h, --help        Show help message
    -v, --version     Show version
`, version.String(), strings.Join(cmdLines, "\n"))
}
