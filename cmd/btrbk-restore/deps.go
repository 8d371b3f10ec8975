package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cristianoliveira/btrbk-restore/cmd"
	"github.com/cristianoliveira/btrbk-restore/internal/btrbk"
	"github.com/cristianoliveira/btrbk-restore/internal/btrfs"
	"github.com/cristianoliveira/btrbk-restore/internal/config"
	"github.com/cristianoliveira/btrbk-restore/internal/hooks"
	"github.com/cristianoliveira/btrbk-restore/internal/journal"
	"github.com/cristianoliveira/btrbk-restore/internal/lifecycle"
	"github.com/cristianoliveira/btrbk-restore/internal/logging"
	"github.com/cristianoliveira/btrbk-restore/internal/system"
	"github.com/mattn/go-isatty"
)

// app bundles the services every command works against. It is built on first
// use so the --config flag has been parsed.
type app struct {
	store      *config.Store
	manager    *lifecycle.Manager
	runner     *btrbk.Runner
	journal    *journal.Journal
	journalErr error
}

var (
	appOnce     sync.Once
	appInstance *app
)

// requireRoot is replaceable in tests.
var requireRoot = system.RequireRoot

// isTerminal reports whether stdin and stdout are attached to a terminal.
var isTerminal = func() bool {
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

func loadApp() (*app, error) {
	appOnce.Do(func() {
		appInstance = newApp(cmd.ConfigPath())
	})
	return appInstance, nil
}

func newApp(path string) *app {
	logger := logging.GetGlobal()
	store := config.NewStore(path, config.WithLogger(logger))
	store.Load()

	a := &app{
		store:  store,
		runner: btrbk.NewRunner(btrbk.WithLogger(logger)),
	}

	var recorder journal.Recorder = journal.Nop{}
	j, err := journal.Open(journal.DefaultPath(logging.StateDir()))
	if err != nil {
		logger.Warn("operation journal unavailable", "error", err)
		a.journalErr = err
	} else {
		a.journal = j
		recorder = j
	}

	a.manager = lifecycle.New(store,
		lifecycle.WithBtrfs(btrfs.NewDefaultClient(btrfs.WithLogger(logger))),
		lifecycle.WithBackup(a.runner),
		lifecycle.WithRebooter(system.NewRebooter()),
		lifecycle.WithRecorder(recorder),
		lifecycle.WithHooks(hooks.FromEnv(logger.With("component", "hooks"))),
		lifecycle.WithLogger(logger),
	)
	return a
}

// closeApp releases the journal when the app was built.
func closeApp() {
	if appInstance != nil && appInstance.journal != nil {
		_ = appInstance.journal.Close()
	}
}

// Recent reads the operation journal.
func (a *app) Recent(ctx context.Context, limit int) ([]journal.Entry, error) {
	if a.journal == nil {
		return nil, fmt.Errorf("operation journal unavailable: %w", a.journalErr)
	}
	return a.journal.Recent(ctx, limit)
}

// confirm asks a yes/no question on out and reads the answer from in.
// Anything other than y or yes is a no.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s (y/N): ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
