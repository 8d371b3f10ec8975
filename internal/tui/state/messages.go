package state

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/btrbk-restore/internal/btrbk"
	"github.com/cristianoliveira/btrbk-restore/internal/lifecycle"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
)

// tickInterval is the length of one status banner budget unit.
const tickInterval = 100 * time.Millisecond

type tickMsg time.Time

type restoreDoneMsg struct {
	result lifecycle.RestoreResult
}

type purgeDoneMsg struct {
	result lifecycle.PurgeResult
	err    error
}

type backupStartedMsg struct {
	run lifecycle.BackupRun
	err error
}

type backupLineMsg struct {
	line string
}

type backupDoneMsg struct {
	result btrbk.Result
}

type rebootDoneMsg struct {
	err error
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func restoreCmd(ctx context.Context, ops Operations, entry snapshot.Entry) tea.Cmd {
	return func() tea.Msg {
		return restoreDoneMsg{result: ops.Restore(ctx, entry)}
	}
}

func purgeCmd(ctx context.Context, ops Operations) tea.Cmd {
	return func() tea.Msg {
		res, err := ops.Purge(ctx)
		return purgeDoneMsg{result: res, err: err}
	}
}

func startBackupCmd(ctx context.Context, ops Operations) tea.Cmd {
	return func() tea.Msg {
		run, err := ops.StartBackup(ctx)
		return backupStartedMsg{run: run, err: err}
	}
}

// waitForLine delivers the next output line, or the final result once the
// output is exhausted.
func waitForLine(run lifecycle.BackupRun) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-run.Lines()
		if ok {
			return backupLineMsg{line: line}
		}
		return backupDoneMsg{result: <-run.Done()}
	}
}

func rebootCmd(ctx context.Context, ops Operations) tea.Cmd {
	return func() tea.Msg {
		return rebootDoneMsg{err: ops.Reboot(ctx)}
	}
}
