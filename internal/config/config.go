// Package config provides the persisted settings record for btrbk-restore.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for the config file (rw-r--r--)
	FileModeFile os.FileMode = 0644

	// FileExtTOML is the file extension for TOML configuration files.
	FileExtTOML = ".toml"

	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "BTRBK_RESTORE_CONFIG_PATH"

	appDirName = "btrbk-restore"
)

var (
	// ErrUnknownKey is returned when a key outside the fixed key set is used.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned when a value fails validation.
	ErrInvalidValue = errors.New("invalid config value")
	// ErrNotBool is returned when toggling a non-boolean key.
	ErrNotBool = errors.New("config key is not a boolean")
)

// Key names a setting in the fixed key set.
type Key string

// Setting keys. The string value is the TOML field name.
const (
	KeyPoolDir        Key = "btr_pool_dir"
	KeySnapshotsDir   Key = "snapshots_dir"
	KeyAutoCleanup    Key = "auto_cleanup"
	KeyConfirmActions Key = "confirm_actions"
	KeyShowTimestamps Key = "show_timestamps"
	KeyTheme          Key = "theme"
)

// Keys is the fixed key set in display order.
var Keys = []Key{
	KeyPoolDir,
	KeySnapshotsDir,
	KeyAutoCleanup,
	KeyConfirmActions,
	KeyShowTimestamps,
	KeyTheme,
}

var labels = map[Key]string{
	KeyPoolDir:        "BTR Pool Directory",
	KeySnapshotsDir:   "Snapshots Directory",
	KeyAutoCleanup:    "Auto Cleanup .BROKEN",
	KeyConfirmActions: "Confirm Actions",
	KeyShowTimestamps: "Show Timestamps",
	KeyTheme:          "Theme",
}

// Theme names accepted by the theme key.
const (
	ThemeDefault = "default"
	ThemeDark    = "dark"
	ThemeLight   = "light"
	ThemeMono    = "mono"
)

// Config is the persisted settings record.
type Config struct {
	PoolDir        string `toml:"btr_pool_dir"`
	SnapshotsDir   string `toml:"snapshots_dir"`
	AutoCleanup    bool   `toml:"auto_cleanup"`
	ConfirmActions bool   `toml:"confirm_actions"`
	ShowTimestamps bool   `toml:"show_timestamps"`
	Theme          string `toml:"theme"`
}

// Default returns the configuration used when nothing is persisted.
func Default() Config {
	return Config{
		PoolDir:        "/mnt/btr_pool",
		SnapshotsDir:   "/mnt/btr_pool/btrbk_snapshots",
		AutoCleanup:    false,
		ConfirmActions: true,
		ShowTimestamps: true,
		Theme:          ThemeDefault,
	}
}

// ParseKey resolves a key name, accepting dashes in place of underscores.
func ParseKey(name string) (Key, error) {
	normalized := Key(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_"))
	for _, k := range Keys {
		if k == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, name)
}

// Label returns the human readable name of a key.
func Label(key Key) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return string(key)
}

// IsBool reports whether key holds a boolean.
func IsBool(key Key) bool {
	switch key {
	case KeyAutoCleanup, KeyConfirmActions, KeyShowTimestamps:
		return true
	}
	return false
}

// Value returns the string form of a setting.
func (c Config) Value(key Key) (string, error) {
	switch key {
	case KeyPoolDir:
		return c.PoolDir, nil
	case KeySnapshotsDir:
		return c.SnapshotsDir, nil
	case KeyAutoCleanup:
		return strconv.FormatBool(c.AutoCleanup), nil
	case KeyConfirmActions:
		return strconv.FormatBool(c.ConfirmActions), nil
	case KeyShowTimestamps:
		return strconv.FormatBool(c.ShowTimestamps), nil
	case KeyTheme:
		return c.Theme, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set validates value and assigns it to key.
func (c *Config) Set(key Key, value string) error {
	validator := getValidator(key)
	if validator == nil {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	normalized, err := validator(key, value)
	if err != nil {
		return err
	}
	c.assign(key, normalized)
	return nil
}

// Toggle flips a boolean setting.
func (c *Config) Toggle(key Key) error {
	if !IsBool(key) {
		return fmt.Errorf("%w: %s", ErrNotBool, key)
	}
	current, err := c.Value(key)
	if err != nil {
		return err
	}
	return c.Set(key, strconv.FormatBool(current != "true"))
}

// assign stores an already validated value.
func (c *Config) assign(key Key, value string) {
	switch key {
	case KeyPoolDir:
		c.PoolDir = value
	case KeySnapshotsDir:
		c.SnapshotsDir = value
	case KeyAutoCleanup:
		c.AutoCleanup = value == "true"
	case KeyConfirmActions:
		c.ConfirmActions = value == "true"
	case KeyShowTimestamps:
		c.ShowTimestamps = value == "true"
	case KeyTheme:
		c.Theme = value
	}
}

// Logger receives non-fatal load diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Store owns the in-memory configuration and its file.
type Store struct {
	mu     sync.RWMutex
	path   string
	cfg    Config
	logger Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store backed by path holding defaults until Load is called.
// An empty path resolves to DefaultPath().
func NewStore(path string, opts ...StoreOption) *Store {
	if path == "" {
		path = DefaultPath()
	}
	s := &Store{path: path, cfg: Default(), logger: nopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPath returns the config file location, honouring BTRBK_RESTORE_CONFIG_PATH
// and XDG_CONFIG_HOME.
func DefaultPath() string {
	if override := os.Getenv(EnvConfigPath); override != "" {
		return override
	}
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		home, _ := os.UserHomeDir()
		xdgConfigHome = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfigHome, appDirName, "config"+FileExtTOML)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the backing file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Get returns a copy of the current configuration.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Load reads the backing file. A missing or unparsable file leaves defaults in place;
// unknown keys are ignored and invalid values fall back to their default.
func (s *Store) Load() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = Default()
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("unable to read config file, using defaults", "path", s.path, "error", err)
		}
		return s.cfg
	}

	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("unable to parse config file, using defaults", "path", s.path, "error", err)
		return s.cfg
	}

	for name, v := range raw {
		key, err := ParseKey(name)
		if err != nil {
			s.logger.Debug("ignoring unknown config key", "key", name)
			continue
		}
		converted, ok := coerceConfigValue(v)
		if !ok {
			s.logger.Warn("unsupported config value type", "key", name, "type", fmt.Sprintf("%T", v))
			continue
		}
		if err := s.cfg.Set(key, converted); err != nil {
			s.logger.Warn("invalid config value, using default", "key", name, "value", converted, "error", err)
		}
	}
	return s.cfg
}

// Save writes the current configuration to the backing file.
func (s *Store) Save() error {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()
	return s.write(cfg)
}

// Update applies fn to a copy of the configuration and persists the result
// immediately. A failed save keeps the new value in memory and returns the error.
func (s *Store) Update(fn func(*Config) error) error {
	s.mu.Lock()
	next := s.cfg
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.cfg = next
	s.mu.Unlock()
	return s.write(next)
}

// Set validates and persists a single key.
func (s *Store) Set(key Key, value string) error {
	return s.Update(func(c *Config) error {
		return c.Set(key, value)
	})
}

// Toggle flips and persists a boolean key.
func (s *Store) Toggle(key Key) error {
	return s.Update(func(c *Config) error {
		return c.Toggle(key)
	})
}

// Reset restores defaults and persists them.
func (s *Store) Reset() error {
	return s.Update(func(c *Config) error {
		*c = Default()
		return nil
	})
}

func (s *Store) write(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(s.path), FileModeDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	header := "# btrbk-restore configuration\n# This file is in TOML format and is rewritten on every change.\n\n"
	if err := os.WriteFile(s.path, append([]byte(header), data...), FileModeFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// coerceConfigValue converts a decoded TOML value to its string representation.
// Supported types are string, int64, float64 and bool.
func coerceConfigValue(value interface{}) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}
