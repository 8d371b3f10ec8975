package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/cristianoliveira/btrbk-restore/internal/hooks"
	"github.com/cristianoliveira/btrbk-restore/internal/journal"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
)

// BrokenMarker separates a displaced subvolume name from its timestamp.
const BrokenMarker = ".BROKEN."

// brokenLayout has nanosecond precision so repeated restores get distinct names.
const brokenLayout = "20060102T150405.000000000"

// Step identifies where a restore stopped.
type Step string

const (
	StepValidate Step = "validate"
	StepPreHook  Step = "pre-restore hook"
	StepInspect  Step = "inspect target"
	StepDisplace Step = "displace live subvolume"
	StepClone    Step = "clone snapshot"
	StepDone     Step = "done"
)

// RestoreResult reports the outcome of a restore.
type RestoreResult struct {
	Entry     snapshot.Entry
	Target    string
	Displaced string
	Success   bool
	// Step is the failed step, or StepDone on success.
	Step Step
	Err  error

	CleanupAttempted bool
	CleanupErr       error
}

// Diagnostic returns a one-line human readable summary.
func (r RestoreResult) Diagnostic() string {
	if !r.Success {
		msg := fmt.Sprintf("restore of %s failed at %s", r.Entry.Name, r.Step)
		if r.Err != nil {
			msg += ": " + r.Err.Error()
		}
		if r.Displaced != "" {
			msg += fmt.Sprintf(" (previous subvolume kept at %s)", r.Displaced)
		}
		return msg
	}
	msg := fmt.Sprintf("restored %s to %s", r.Entry.Name, r.Target)
	switch {
	case r.Displaced == "":
	case !r.CleanupAttempted:
		msg += fmt.Sprintf(", previous subvolume moved to %s", r.Displaced)
	case r.CleanupErr != nil:
		msg += fmt.Sprintf(", failed to delete %s: %v", r.Displaced, r.CleanupErr)
	default:
		msg += fmt.Sprintf(", deleted %s", r.Displaced)
	}
	return msg
}

// TargetPath returns the live subvolume location for prefix.
func TargetPath(poolDir, prefix string) string {
	return filepath.Join(poolDir, prefix)
}

// Restore replaces the live subvolume for entry's prefix with a writable clone
// of entry. Steps run in order and stop at the first failure without rollback:
// the live subvolume is renamed to a .BROKEN sibling when present, the snapshot
// is cloned in its place, and with auto_cleanup the displaced copy is deleted.
// A cleanup failure never fails the restore.
func (m *Manager) Restore(ctx context.Context, entry snapshot.Entry) RestoreResult {
	cfg := m.store.Get()
	started := m.now()
	res := RestoreResult{Entry: entry, Step: StepValidate}
	log := m.logger.With("snapshot", entry.Name)

	defer func() {
		m.record(ctx, journal.Entry{
			Kind:       journal.KindRestore,
			Target:     res.Target,
			Outcome:    outcomeOf(res.Success),
			Detail:     res.Diagnostic(),
			StartedAt:  started,
			FinishedAt: m.now(),
		})
	}()

	if entry.Prefix == "" || entry.Path == "" {
		res.Err = fmt.Errorf("%w: %q", ErrInvalidEntry, entry.Name)
		return res
	}
	res.Target = TargetPath(cfg.PoolDir, entry.Prefix)

	res.Step = StepPreHook
	if err := m.hooks.Run(ctx, hooks.PreRestore, restoreEnv(res)); err != nil {
		res.Err = err
		log.Error("restore failed", "step", string(res.Step), "error", err)
		return res
	}

	res.Step = StepInspect
	exists, err := m.fs.Exists(res.Target)
	if err != nil {
		res.Err = err
		log.Error("restore failed", "step", string(res.Step), "error", err)
		return res
	}

	if exists {
		res.Step = StepDisplace
		displaced, err := m.brokenPath(res.Target)
		if err != nil {
			res.Err = err
			log.Error("restore failed", "step", string(res.Step), "error", err)
			return res
		}
		if err := m.fs.Rename(res.Target, displaced); err != nil {
			res.Err = err
			log.Error("restore failed", "step", string(res.Step), "error", err)
			return res
		}
		res.Displaced = displaced
		log.Info("displaced live subvolume", "from", res.Target, "to", displaced)
	}

	res.Step = StepClone
	if err := m.fs.Snapshot(ctx, entry.Path, res.Target); err != nil {
		res.Err = err
		log.Error("restore failed", "step", string(res.Step), "error", err, "displaced", res.Displaced)
		return res
	}
	res.Step = StepDone
	res.Success = true
	log.Info("snapshot restored", "target", res.Target)

	if cfg.AutoCleanup && res.Displaced != "" {
		res.CleanupAttempted = true
		cleanupStarted := m.now()
		res.CleanupErr = m.fs.Delete(ctx, res.Displaced)
		detail := "deleted " + res.Displaced
		if res.CleanupErr != nil {
			detail = res.CleanupErr.Error()
			log.Warn("cleanup of displaced subvolume failed", "path", res.Displaced, "error", res.CleanupErr)
		}
		m.record(ctx, journal.Entry{
			Kind:       journal.KindCleanup,
			Target:     res.Displaced,
			Outcome:    outcomeOf(res.CleanupErr == nil),
			Detail:     detail,
			StartedAt:  cleanupStarted,
			FinishedAt: m.now(),
		})
	}
	m.runHook(ctx, hooks.PostRestore, restoreEnv(res))
	return res
}

// restoreEnv describes a restore to hook scripts.
func restoreEnv(res RestoreResult) map[string]string {
	return map[string]string{
		"BTRBK_RESTORE_SNAPSHOT":      res.Entry.Name,
		"BTRBK_RESTORE_SNAPSHOT_PATH": res.Entry.Path,
		"BTRBK_RESTORE_SUBVOLUME":     res.Entry.Prefix,
		"BTRBK_RESTORE_TARGET":        res.Target,
		"BTRBK_RESTORE_DISPLACED":     res.Displaced,
	}
}

// brokenPath returns a fresh "<target>.BROKEN.<timestamp>" path, adding a
// counter when the clock has not advanced since the previous restore.
func (m *Manager) brokenPath(target string) (string, error) {
	base := target + BrokenMarker + m.now().Format(brokenLayout)
	candidate := base
	for i := 1; ; i++ {
		exists, err := m.fs.Exists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}
