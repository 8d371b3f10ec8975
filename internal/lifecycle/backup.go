package lifecycle

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cristianoliveira/btrbk-restore/internal/btrbk"
	"github.com/cristianoliveira/btrbk-restore/internal/hooks"
	"github.com/cristianoliveira/btrbk-restore/internal/journal"
)

// BackupRun is a running snapshot creation.
type BackupRun interface {
	Lines() <-chan string
	Done() <-chan btrbk.Result
	Cancel()
}

// trackedRun records the final result in the journal before handing it on.
type trackedRun struct {
	run  *btrbk.Run
	done chan btrbk.Result
}

func (t *trackedRun) Lines() <-chan string      { return t.run.Lines() }
func (t *trackedRun) Done() <-chan btrbk.Result { return t.done }
func (t *trackedRun) Cancel()                   { t.run.Cancel() }

// StartBackup launches the backup tool. The caller drains Lines and then
// receives the result from Done.
func (m *Manager) StartBackup(ctx context.Context) (BackupRun, error) {
	started := m.now()
	run, err := m.backup.Start(ctx)
	if err != nil {
		m.logger.Error("failed to start backup", "error", err)
		m.record(ctx, journal.Entry{
			Kind: journal.KindSnapshot, Outcome: journal.OutcomeFailed,
			Detail: err.Error(), StartedAt: started, FinishedAt: m.now(),
		})
		return nil, err
	}

	t := &trackedRun{run: run, done: make(chan btrbk.Result, 1)}
	go func() {
		res := <-run.Done()
		outcome := journal.OutcomeSucceeded
		detail := fmt.Sprintf("%d lines of output", res.Lines)
		switch res.Outcome {
		case btrbk.OutcomeCancelled:
			outcome = journal.OutcomeCancelled
		case btrbk.OutcomeFailed:
			outcome = journal.OutcomeFailed
			detail = fmt.Sprintf("exit status %d", res.ExitStatus)
		}
		// The caller's context may already be cancelled.
		m.record(context.Background(), journal.Entry{
			Kind: journal.KindSnapshot, Outcome: outcome, Detail: detail,
			StartedAt: started, FinishedAt: m.now(),
		})
		m.runHook(context.Background(), hooks.PostSnapshot, map[string]string{
			"BTRBK_RESTORE_OUTCOME":     string(outcome),
			"BTRBK_RESTORE_EXIT_STATUS": strconv.Itoa(res.ExitStatus),
		})
		t.done <- res
		close(t.done)
	}()
	return t, nil
}
