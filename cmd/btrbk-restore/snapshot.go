/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cristianoliveira/btrbk-restore/cmd"
	"github.com/cristianoliveira/btrbk-restore/internal/btrbk"
	"github.com/cristianoliveira/btrbk-restore/internal/colors"
	"github.com/cristianoliveira/btrbk-restore/internal/lifecycle"
	"github.com/spf13/cobra"
)

type snapshotClient interface {
	StartBackup(ctx context.Context) (lifecycle.BackupRun, error)
}

const snapshotCommandLong = `Create new snapshots by running btrbk, streaming its output.

Press Ctrl+C to cancel; btrbk and its children receive SIGTERM.

USAGE:
    btrbk-restore snapshot`

// NewSnapshotCmd creates the snapshot command with explicit dependencies.
func NewSnapshotCmd(open func() (snapshotClient, error)) *cobra.Command {
	if open == nil {
		panic("NewSnapshotCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "snapshot",
		Short: "Create new snapshots with btrbk",
		Long:  snapshotCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRoot(); err != nil {
				return err
			}
			client, err := open()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			colors.Info("Creating snapshots with btrbk...")
			run, err := client.StartBackup(ctx)
			if err != nil {
				return fmt.Errorf("snapshot creation failed: %w", err)
			}
			out := cmd.OutOrStdout()
			for line := range run.Lines() {
				fmt.Fprintln(out, line)
			}
			res := <-run.Done()

			switch res.Outcome {
			case btrbk.OutcomeSucceeded:
				colors.Success("New snapshots created successfully!")
				return nil
			case btrbk.OutcomeCancelled:
				colors.Warning("Snapshot creation cancelled")
				return nil
			}
			return fmt.Errorf("snapshot creation failed: btrbk exited with status %d", res.ExitStatus)
		},
	}
}

var snapshotCmd = NewSnapshotCmd(func() (snapshotClient, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	return a.manager, nil
})

func init() {
	cmd.RootCmd.AddCommand(snapshotCmd)
}
