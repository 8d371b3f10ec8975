package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, content string) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return NewStore(path)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s := newTestStore(t, "")

	cfg := s.Load()

	assert.Equal(t, Default(), cfg)
	assert.False(t, s.Exists())
}

func TestLoadMergesKnownKeysAndIgnoresUnknown(t *testing.T) {
	s := newTestStore(t, `
btr_pool_dir = "/srv/pool"
auto_cleanup = true
show_timestamps = "no"
theme = "DARK"
max_notifications = 500
`)

	cfg := s.Load()

	assert.Equal(t, "/srv/pool", cfg.PoolDir)
	assert.Equal(t, Default().SnapshotsDir, cfg.SnapshotsDir)
	assert.True(t, cfg.AutoCleanup)
	assert.True(t, cfg.ConfirmActions)
	assert.False(t, cfg.ShowTimestamps)
	assert.Equal(t, ThemeDark, cfg.Theme)
}

func TestLoadInvalidValuesFallBackToDefaults(t *testing.T) {
	s := newTestStore(t, `
btr_pool_dir = "relative/pool"
confirm_actions = "maybe"
theme = "neon"
`)

	cfg := s.Load()

	assert.Equal(t, Default(), cfg)
}

func TestLoadUnparsableFileReturnsDefaults(t *testing.T) {
	s := newTestStore(t, "this is = = not toml [")

	cfg := s.Load()

	assert.Equal(t, Default(), cfg)
}

func TestSetPersistsImmediately(t *testing.T) {
	s := newTestStore(t, "")
	s.Load()

	require.NoError(t, s.Set(KeySnapshotsDir, "/data/snaps/"))
	require.True(t, s.Exists())

	reloaded := NewStore(s.Path()).Load()
	assert.Equal(t, "/data/snaps", reloaded.SnapshotsDir)
}

func TestToggleFlipsBooleanAndPersists(t *testing.T) {
	s := newTestStore(t, "")
	s.Load()

	require.NoError(t, s.Toggle(KeyAutoCleanup))
	assert.True(t, s.Get().AutoCleanup)

	reloaded := NewStore(s.Path()).Load()
	assert.True(t, reloaded.AutoCleanup)

	require.NoError(t, s.Toggle(KeyAutoCleanup))
	assert.False(t, s.Get().AutoCleanup)
}

func TestToggleRejectsNonBoolean(t *testing.T) {
	s := newTestStore(t, "")

	err := s.Toggle(KeyPoolDir)

	require.ErrorIs(t, err, ErrNotBool)
	assert.False(t, s.Exists())
}

func TestSetRejectsInvalidValueWithoutSaving(t *testing.T) {
	s := newTestStore(t, "")

	err := s.Set(KeyTheme, "neon")

	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, ThemeDefault, s.Get().Theme)
	assert.False(t, s.Exists())
}

func TestSaveErrorKeepsValueInMemory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	s := NewStore(filepath.Join(blocker, "config.toml"))

	err := s.Set(KeyTheme, ThemeMono)

	require.Error(t, err)
	assert.Equal(t, ThemeMono, s.Get().Theme)
}

func TestResetRestoresDefaults(t *testing.T) {
	s := newTestStore(t, `theme = "light"`)
	s.Load()

	require.NoError(t, s.Reset())

	assert.Equal(t, Default(), s.Get())
	assert.Equal(t, Default(), NewStore(s.Path()).Load())
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Key
		wantErr bool
	}{
		{name: "exact", input: "theme", want: KeyTheme},
		{name: "dashes", input: "auto-cleanup", want: KeyAutoCleanup},
		{name: "upper case", input: "BTR_POOL_DIR", want: KeyPoolDir},
		{name: "unknown", input: "max_hooks", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKey(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultPathHonoursOverrides(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/btrbk-restore/config.toml", DefaultPath())

	t.Setenv(EnvConfigPath, "/etc/btrbk-restore.toml")
	assert.Equal(t, "/etc/btrbk-restore.toml", DefaultPath())
}

func TestValueAndIsBool(t *testing.T) {
	cfg := Default()

	for _, key := range Keys {
		v, err := cfg.Value(key)
		require.NoError(t, err)
		if IsBool(key) {
			assert.Contains(t, []string{"true", "false"}, v)
		} else {
			assert.NotEmpty(t, v)
		}
	}

	_, err := cfg.Value(Key("nope"))
	require.ErrorIs(t, err, ErrUnknownKey)
}
