package lifecycle

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cristianoliveira/btrbk-restore/internal/hooks"
	"github.com/cristianoliveira/btrbk-restore/internal/journal"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
)

// PurgeFailure is a snapshot that could not be deleted.
type PurgeFailure struct {
	Entry snapshot.Entry
	Err   error
}

// PurgeResult reports which snapshots a purge removed.
type PurgeResult struct {
	Candidates []snapshot.Entry
	Deleted    []snapshot.Entry
	Failed     []PurgeFailure
}

// Count returns the number of snapshots actually deleted.
func (r PurgeResult) Count() int {
	return len(r.Deleted)
}

// DeletedNames returns the names of deleted snapshots.
func (r PurgeResult) DeletedNames() []string {
	names := make([]string, 0, len(r.Deleted))
	for _, e := range r.Deleted {
		names = append(names, e.Name)
	}
	return names
}

// PlanPurge returns every entry except the newest of each group.
func PlanPurge(listing snapshot.Listing) []snapshot.Entry {
	var out []snapshot.Entry
	for _, g := range listing.Groups {
		if len(g.Entries) > 1 {
			out = append(out, g.Entries[1:]...)
		}
	}
	return out
}

// PurgeCandidates scans the snapshots directory and returns what Purge would
// delete. An unreadable directory is ErrPurgeScan, never an empty plan.
func (m *Manager) PurgeCandidates() ([]snapshot.Entry, error) {
	dir := m.store.Get().SnapshotsDir
	listing, err := snapshot.Scan(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPurgeScan, dir, err)
	}
	return PlanPurge(listing), nil
}

// Purge deletes all but the newest snapshot of each prefix. Deletions are
// attempted independently; failures are collected in the result.
func (m *Manager) Purge(ctx context.Context) (PurgeResult, error) {
	dir := m.store.Get().SnapshotsDir
	started := m.now()
	candidates, err := m.PurgeCandidates()
	if err != nil {
		m.logger.Error("purge scan failed", "dir", dir, "error", err)
		m.record(ctx, journal.Entry{
			Kind: journal.KindPurge, Target: dir, Outcome: journal.OutcomeFailed,
			Detail: err.Error(), StartedAt: started, FinishedAt: m.now(),
		})
		return PurgeResult{}, err
	}

	res := PurgeResult{Candidates: candidates}
	for _, e := range res.Candidates {
		if err := m.fs.Delete(ctx, e.Path); err != nil {
			m.logger.Warn("failed to delete snapshot", "snapshot", e.Name, "error", err)
			res.Failed = append(res.Failed, PurgeFailure{Entry: e, Err: err})
			continue
		}
		m.logger.Info("deleted snapshot", "snapshot", e.Name)
		res.Deleted = append(res.Deleted, e)
	}

	m.record(ctx, journal.Entry{
		Kind:       journal.KindPurge,
		Target:     dir,
		Outcome:    outcomeOf(len(res.Failed) == 0),
		Detail:     fmt.Sprintf("deleted %d of %d snapshots", res.Count(), len(res.Candidates)),
		StartedAt:  started,
		FinishedAt: m.now(),
	})
	m.runHook(ctx, hooks.PostPurge, map[string]string{
		"BTRBK_RESTORE_SNAPSHOTS_DIR": dir,
		"BTRBK_RESTORE_DELETED":       strconv.Itoa(res.Count()),
		"BTRBK_RESTORE_FAILED":        strconv.Itoa(len(res.Failed)),
	})
	return res, nil
}
