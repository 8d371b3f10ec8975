/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/btrbk-restore/cmd"
	"github.com/cristianoliveira/btrbk-restore/internal/colors"
	"github.com/cristianoliveira/btrbk-restore/internal/config"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type listClient interface {
	List() snapshot.Listing
	Config() config.Config
}

const listCommandLong = `List snapshots grouped by subvolume, newest first.

USAGE:
    btrbk-restore list [OPTIONS]

OPTIONS:
    --raw        Print snapshot names only, one per line
    -h, --help   Show this help`

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(open func() (listClient, error)) *cobra.Command {
	if open == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}

	var raw bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots grouped by subvolume",
		Long:  listCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := open()
			if err != nil {
				return err
			}
			return printListing(cmd.OutOrStdout(), client, raw)
		},
	}
	listCmd.Flags().BoolVar(&raw, "raw", false, "Print snapshot names only, one per line")
	return listCmd
}

func printListing(w io.Writer, client listClient, raw bool) error {
	cfg := client.Config()
	listing := client.List()
	if raw {
		for _, g := range listing.Groups {
			for _, e := range g.Entries {
				fmt.Fprintln(w, e.Name)
			}
		}
		return nil
	}
	if listing.Total() == 0 {
		colors.Warning("No snapshots found in", cfg.SnapshotsDir)
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Subvolume", "Snapshot", "Newest")
	for _, g := range listing.Groups {
		newest, _ := g.Newest()
		for _, e := range g.Entries {
			mark := ""
			if e.Name == newest.Name {
				mark = "*"
			}
			if err := table.Append([]string{g.Prefix, snapshot.DisplayName(e, cfg.ShowTimestamps), mark}); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	fmt.Fprintf(w, "%d snapshots in %d groups (%s) under %s\n",
		listing.Total(), listing.Len(), strings.Join(listing.Prefixes(), ", "), cfg.SnapshotsDir)
	return nil
}

var listCmd = NewListCmd(func() (listClient, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	return a.manager, nil
})

func init() {
	cmd.RootCmd.AddCommand(listCmd)
}
