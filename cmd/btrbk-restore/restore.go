/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cristianoliveira/btrbk-restore/cmd"
	"github.com/cristianoliveira/btrbk-restore/internal/colors"
	"github.com/cristianoliveira/btrbk-restore/internal/lifecycle"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
	"github.com/spf13/cobra"
)

var (
	errSnapshotNotFound = errors.New("snapshot not found")
	errRestoreFailed    = errors.New("restore failed")
)

type restoreClient interface {
	List() snapshot.Listing
	Restore(ctx context.Context, entry snapshot.Entry) lifecycle.RestoreResult
}

const restoreCommandLong = `Replace a live subvolume with a writable clone of a snapshot.

The live subvolume is renamed to <name>.BROKEN.<timestamp> before the snapshot
is cloned in its place. With auto_cleanup enabled the displaced copy is deleted.
A reboot is needed for the restored subvolume to take effect.

USAGE:
    btrbk-restore restore <snapshot-name> [OPTIONS]

OPTIONS:
    -y, --yes    Restore without confirmation
    -h, --help   Show this help

EXAMPLES:
    btrbk-restore restore @home.20240102T0100`

// NewRestoreCmd creates the restore command with explicit dependencies.
func NewRestoreCmd(open func() (restoreClient, error)) *cobra.Command {
	if open == nil {
		panic("NewRestoreCmd: client dependency cannot be nil")
	}

	var yes bool
	restoreCmd := &cobra.Command{
		Use:   "restore <snapshot-name>",
		Short: "Restore a subvolume from a snapshot",
		Long:  restoreCommandLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRoot(); err != nil {
				return err
			}
			client, err := open()
			if err != nil {
				return err
			}

			name := strings.TrimSpace(args[0])
			entry, ok := client.List().Find(name)
			if !ok {
				return fmt.Errorf("%w: %s", errSnapshotNotFound, name)
			}

			prompt := fmt.Sprintf("Restore %s snapshot from %s?", snapshot.Label(entry.Prefix), entry.Name)
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
				colors.Info("Restoration cancelled")
				return nil
			}

			colors.Info("Restoring snapshot...")
			res := client.Restore(cmd.Context(), entry)
			if !res.Success {
				return fmt.Errorf("%w: %s", errRestoreFailed, res.Diagnostic())
			}
			colors.Success("Snapshot restored:", res.Diagnostic())
			colors.Warning("Reboot required for the restored subvolume to take effect")
			return nil
		},
	}
	restoreCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Restore without confirmation")
	return restoreCmd
}

var restoreCmd = NewRestoreCmd(func() (restoreClient, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	return a.manager, nil
})

func init() {
	cmd.RootCmd.AddCommand(restoreCmd)
}
