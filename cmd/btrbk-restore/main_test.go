package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cristianoliveira/btrbk-restore/internal/btrbk"
	"github.com/cristianoliveira/btrbk-restore/internal/colors"
	"github.com/cristianoliveira/btrbk-restore/internal/config"
	"github.com/cristianoliveira/btrbk-restore/internal/lifecycle"
	"github.com/cristianoliveira/btrbk-restore/internal/snapshot"
	"github.com/spf13/cobra"
)

// fakeManager stands in for the lifecycle manager.
type fakeManager struct {
	cfg     config.Config
	listing snapshot.Listing

	restored      []snapshot.Entry
	restoreResult lifecycle.RestoreResult

	purges      int
	purgeResult lifecycle.PurgeResult
	purgeErr    error

	run      *fakeRun
	startErr error
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		cfg: config.Default(),
		listing: snapshot.Build("/mnt/btr_pool/btrbk_snapshots", []string{
			"@.20240101T0100",
			"@.20240102T0100",
			"@home.20240101T0100",
			"@home.20240102T0100",
		}),
	}
}

func (f *fakeManager) Config() config.Config  { return f.cfg }
func (f *fakeManager) List() snapshot.Listing { return f.listing }

func (f *fakeManager) Restore(_ context.Context, e snapshot.Entry) lifecycle.RestoreResult {
	f.restored = append(f.restored, e)
	res := f.restoreResult
	res.Entry = e
	return res
}

func (f *fakeManager) PurgeCandidates() ([]snapshot.Entry, error) {
	return lifecycle.PlanPurge(f.listing), nil
}

func (f *fakeManager) Purge(context.Context) (lifecycle.PurgeResult, error) {
	f.purges++
	return f.purgeResult, f.purgeErr
}

func (f *fakeManager) StartBackup(context.Context) (lifecycle.BackupRun, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.run, nil
}

type fakeRun struct {
	lines chan string
	done  chan btrbk.Result
}

func newFakeRun(res btrbk.Result, lines ...string) *fakeRun {
	r := &fakeRun{lines: make(chan string, len(lines)), done: make(chan btrbk.Result, 1)}
	for _, l := range lines {
		r.lines <- l
	}
	close(r.lines)
	r.done <- res
	return r
}

func (r *fakeRun) Lines() <-chan string      { return r.lines }
func (r *fakeRun) Done() <-chan btrbk.Result { return r.done }
func (r *fakeRun) Cancel()                   {}

// captureConsole redirects colors output for the test.
func captureConsole(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	colors.SetOutput(&buf, &buf)
	colors.SetColor(false)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })
	return &buf
}

// asRoot pretends the process runs with root privileges.
func asRoot(t *testing.T) {
	t.Helper()
	orig := requireRoot
	requireRoot = func() error { return nil }
	t.Cleanup(func() { requireRoot = orig })
}

// execute runs c with args and stdin, returning its stdout.
func execute(t *testing.T, c *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetIn(strings.NewReader(stdin))
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}
