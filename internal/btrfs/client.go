// Package btrfs wraps the subvolume primitives needed to restore snapshots.
package btrfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Client abstracts the filesystem primitives used by a restore.
type Client interface {
	// Rename moves a subvolume aside within the same filesystem.
	Rename(oldPath, newPath string) error

	// Snapshot creates a writable snapshot of src at dst.
	Snapshot(ctx context.Context, src, dst string) error

	// Delete removes the subvolume at path.
	Delete(ctx context.Context, path string) error

	// Exists reports whether path exists.
	Exists(path string) (bool, error)
}

// DefaultClient implements Client with os.Rename and the btrfs CLI.
type DefaultClient struct {
	binary string
	logger Logger
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// NewDefaultClient creates a new DefaultClient with the given options.
func NewDefaultClient(opts ...ClientOption) *DefaultClient {
	client := &DefaultClient{
		binary: DefaultBinary,
		logger: nopLogger{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

var _ Client = (*DefaultClient)(nil)

// runCommand executes btrfs with args and returns stdout and stderr.
func (c *DefaultClient) runCommand(ctx context.Context, args ...string) (string, string, error) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, c.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start).Seconds()
	if err != nil {
		c.logger.Error("btrfs command failed", "args", args, "error", err, "stderr", strings.TrimSpace(stderr.String()), "duration_seconds", duration)
	} else {
		c.logger.Debug("btrfs command completed", "args", args, "duration_seconds", duration)
	}
	return stdout.String(), stderr.String(), err
}

// run executes a subvolume command and turns failures into ErrCommandFailed
// carrying the stderr diagnostic.
func (c *DefaultClient) run(ctx context.Context, args ...string) error {
	_, stderr, err := c.runCommand(ctx, args...)
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, c.binary)
	}
	diag := strings.TrimSpace(stderr)
	if diag == "" {
		diag = err.Error()
	}
	return fmt.Errorf("%w: btrfs %s: %s", ErrCommandFailed, strings.Join(args, " "), diag)
}

// Rename uses rename(2); subvolumes can be moved like directories.
func (c *DefaultClient) Rename(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		c.logger.Error("rename failed", "from", oldPath, "to", newPath, "error", err)
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	c.logger.Debug("renamed", "from", oldPath, "to", newPath)
	return nil
}

// Snapshot runs "btrfs subvolume snapshot src dst".
func (c *DefaultClient) Snapshot(ctx context.Context, src, dst string) error {
	return c.run(ctx, "subvolume", "snapshot", src, dst)
}

// Delete runs "btrfs subvolume delete path".
func (c *DefaultClient) Delete(ctx context.Context, path string) error {
	return c.run(ctx, "subvolume", "delete", path)
}

// Exists reports whether path exists. Lstat errors other than not-exist are returned.
func (c *DefaultClient) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
