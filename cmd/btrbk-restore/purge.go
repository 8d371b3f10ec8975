/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/cristianoliveira/btrbk-restore/cmd"
	"github.com/cristianoliveira/btrbk-restore/internal/colors"
	"github.com/cristianoliveira/btrbk-restore/internal/lifecycle"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type purgeClient interface {
	PurgeCandidates() ([]snapshot.Entry, error)
	Purge(ctx context.Context) (lifecycle.PurgeResult, error)
}

const purgeCommandLong = `Delete every snapshot except the newest of each subvolume.

USAGE:
    btrbk-restore purge [OPTIONS]

OPTIONS:
    --dry-run    Show what would be deleted without deleting
    -y, --yes    Purge without confirmation
    -h, --help   Show this help`

// NewPurgeCmd creates the purge command with explicit dependencies.
func NewPurgeCmd(open func() (purgeClient, error)) *cobra.Command {
	if open == nil {
		panic("NewPurgeCmd: client dependency cannot be nil")
	}

	var dryRun, yes bool
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all but the newest snapshot of each subvolume",
		Long:  purgeCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dryRun {
				if err := requireRoot(); err != nil {
					return err
				}
			}
			client, err := open()
			if err != nil {
				return err
			}

			candidates, err := client.PurgeCandidates()
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				colors.Info("No old snapshots to purge")
				return nil
			}
			out := cmd.OutOrStdout()
			if err := printCandidates(out, candidates); err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(out, "%d snapshots would be deleted\n", len(candidates))
				return nil
			}
			if !yes && !confirm(cmd.InOrStdin(), out, "Purge old snapshots (keep only most recent)?") {
				colors.Info("Purge cancelled")
				return nil
			}

			colors.Info("Purging old snapshots...")
			res, err := client.Purge(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range res.DeletedNames() {
				fmt.Fprintf(out, "Deleted %s\n", name)
			}
			for _, f := range res.Failed {
				colors.Error(fmt.Sprintf("Failed to delete %s: %v", f.Entry.Name, f.Err))
			}
			if len(res.Failed) > 0 {
				return fmt.Errorf("purged %d old snapshots, %d could not be deleted", res.Count(), len(res.Failed))
			}
			colors.Success(fmt.Sprintf("Purged %d old snapshots successfully", res.Count()))
			return nil
		},
	}
	purgeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be deleted without deleting")
	purgeCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Purge without confirmation")
	return purgeCmd
}

func printCandidates(w io.Writer, candidates []snapshot.Entry) error {
	table := tablewriter.NewWriter(w)
	table.Header("Subvolume", "Snapshot", "Path")
	for _, e := range candidates {
		if err := table.Append([]string{e.Prefix, e.Name, e.Path}); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

var purgeCmd = NewPurgeCmd(func() (purgeClient, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	return a.manager, nil
})

func init() {
	cmd.RootCmd.AddCommand(purgeCmd)
}
