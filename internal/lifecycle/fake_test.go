package lifecycle

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cristianoliveira/btrbk-restore/internal/btrfs"
	"github.com/cristianoliveira/btrbk-restore/internal/config"
	"github.com/cristianoliveira/btrbk-restore/internal/journal"
	"github.com/stretchr/testify/require"
)

// dirClient emulates subvolumes with plain directories.
type dirClient struct {
	failSnapshot error
	failDelete   map[string]error
}

var _ btrfs.Client = (*dirClient)(nil)

func (c *dirClient) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (c *dirClient) Snapshot(_ context.Context, src, dst string) error {
	if c.failSnapshot != nil {
		return c.failSnapshot
	}
	if _, err := os.Stat(dst); err == nil {
		return errors.New("destination exists")
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(out, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(out, data, 0644)
	})
}

func (c *dirClient) Delete(_ context.Context, path string) error {
	if err, ok := c.failDelete[filepath.Base(path)]; ok {
		return err
	}
	return os.RemoveAll(path)
}

func (c *dirClient) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

type memRecorder struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (r *memRecorder) Record(_ context.Context, e journal.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *memRecorder) kinds() []journal.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]journal.Kind, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Kind)
	}
	return out
}

func (r *memRecorder) last() journal.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entries[len(r.entries)-1]
}

type testEnv struct {
	pool     string
	snaps    string
	store    *config.Store
	recorder *memRecorder
}

func newEnv(t *testing.T, autoCleanup bool) testEnv {
	t.Helper()
	root := t.TempDir()
	env := testEnv{
		pool:     filepath.Join(root, "pool"),
		snaps:    filepath.Join(root, "pool", "snapshots"),
		store:    config.NewStore(filepath.Join(root, "config.toml")),
		recorder: &memRecorder{},
	}
	require.NoError(t, os.MkdirAll(env.snaps, 0755))
	require.NoError(t, env.store.Set(config.KeyPoolDir, env.pool))
	require.NoError(t, env.store.Set(config.KeySnapshotsDir, env.snaps))
	if autoCleanup {
		require.NoError(t, env.store.Toggle(config.KeyAutoCleanup))
	}
	return env
}

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func readTree(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	require.NoError(t, filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		data, err := os.ReadFile(path)
		out[rel] = string(data)
		return err
	}))
	return out
}

func brokenSiblings(t *testing.T, pool, prefix string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(pool, prefix+BrokenMarker+"*"))
	require.NoError(t, err)
	return matches
}
