/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cristianoliveira/btrbk-restore/cmd"
	"github.com/cristianoliveira/btrbk-restore/internal/colors"
	"github.com/cristianoliveira/btrbk-restore/internal/journal"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type historyClient interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

const historyTimeLayout = "2006-01-02 15:04:05"

// NewHistoryCmd creates the history command with explicit dependencies.
func NewHistoryCmd(open func() (historyClient, error)) *cobra.Command {
	if open == nil {
		panic("NewHistoryCmd: client dependency cannot be nil")
	}

	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent restore, purge and snapshot operations",
		Long: `Show recent operations recorded in the operation journal, newest first.

USAGE:
    btrbk-restore history [--limit N]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			client, err := open()
			if err != nil {
				return err
			}
			entries, err := client.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			if len(entries) == 0 {
				colors.Info("No operations recorded yet")
				return nil
			}
			return printHistory(cmd.OutOrStdout(), entries)
		},
	}
	historyCmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of operations to show (0 for all)")
	return historyCmd
}

func printHistory(w io.Writer, entries []journal.Entry) error {
	table := tablewriter.NewWriter(w)
	table.Header("Started", "Kind", "Target", "Outcome", "Duration", "Detail")
	for _, e := range entries {
		row := []string{
			e.StartedAt.Local().Format(historyTimeLayout),
			string(e.Kind),
			e.Target,
			string(e.Outcome),
			e.Duration().Round(time.Millisecond).String(),
			e.Detail,
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

var historyCmd = NewHistoryCmd(func() (historyClient, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}
	return a, nil
})

func init() {
	cmd.RootCmd.AddCommand(historyCmd)
}
