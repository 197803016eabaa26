// Package config loads ~/.tilefinder/config.toml.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	dark "github.com/thiagokokada/dark-mode-go"

	"github.com/tilefinder/tilefinder/internal/logging"
)

const (
	// HomeEnv overrides the base directory.
	HomeEnv = "TILEFINDER_HOME"
	// DebugEnv turns on logging without a config change.
	DebugEnv = "TILEFINDER_DEBUG"

	configFileName = "config.toml"
	stateFileName  = "state.db"
)

// Config is the user configuration.
type Config struct {
	// DefaultRadius is the scan radius a new finder opens with.
	// Clamped to 8..128 in steps of 8. Default: 24
	DefaultRadius int `toml:"default_radius"`

	// Theme is "dark", "light" or "system". Default: "dark"
	Theme string `toml:"theme"`

	// WorldFile is the world fixture to scan when --world is not given.
	// Relative paths resolve against the base directory.
	WorldFile string `toml:"world_file"`

	// Logs configures debug.log
	Logs LogSettings `toml:"logs"`

	// Watch configures reloading of the world file
	Watch WatchSettings `toml:"watch"`

	// Sources maps source ids to friendly names, e.g. ironchest = "Iron Chests".
	// These win over names the world provides.
	Sources map[string]string `toml:"sources"`
}

// LogSettings configures logging.
type LogSettings struct {
	// Enabled writes debug.log into the base directory. TILEFINDER_DEBUG=1
	// has the same effect.
	Enabled bool `toml:"enabled"`

	// Level is "debug", "info", "warn" or "error". Default: "info"
	Level string `toml:"level"`

	// Format is "json" (default) or "text"
	Format string `toml:"format"`

	// MaxSizeMB rotates debug.log past this size. Default: 5
	MaxSizeMB int `toml:"max_size_mb"`

	// Backups is the number of rotated files to keep. Default: 3
	Backups int `toml:"backups"`

	// RetentionDays drops rotated files older than this. Default: 7
	RetentionDays int `toml:"retention_days"`

	// Compress gzips rotated files
	Compress bool `toml:"compress"`

	// RingBufferMB is the crash-dump buffer size. Default: 2
	RingBufferMB int `toml:"ring_buffer_mb"`

	// AggregateIntervalSecs is how often per-keystroke events are summarized.
	// Default: 30
	AggregateIntervalSecs int `toml:"aggregate_interval_secs"`

	// Pprof serves profiling endpoints on localhost:6060
	Pprof bool `toml:"pprof"`
}

// WatchSettings configures the world file watcher.
type WatchSettings struct {
	// Disabled turns reloading off.
	Disabled bool `toml:"disabled"`

	// DebounceMs coalesces bursts of writes. Default: 150
	DebounceMs int `toml:"debounce_ms"`

	// MaxReloadsPerSec caps reload frequency. Default: 4
	MaxReloadsPerSec float64 `toml:"max_reloads_per_sec"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DefaultRadius: 24,
		Theme:         "dark",
		Sources:       map[string]string{},
	}
}

var (
	cache   *Config
	cacheMu sync.RWMutex
)

// Dir returns the base directory, creating nothing.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".tilefinder"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// StatePath returns the SQLite state file path.
func StatePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, stateFileName), nil
}

// Load returns the cached configuration, reading it on first use. A missing
// file yields defaults. A parse error returns defaults together with the
// error, and the defaults stay cached so the file is not re-parsed on every
// call.
func Load() (*Config, error) {
	cacheMu.RLock()
	if cache != nil {
		defer cacheMu.RUnlock()
		return cache, nil
	}
	cacheMu.RUnlock()

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if cache != nil {
		return cache, nil
	}

	path, err := Path()
	if err != nil {
		cache = Default()
		return cache, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cache = Default()
		return cache, nil
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		cache = Default()
		return cache, fmt.Errorf("config.toml parse error: %w", err)
	}
	if cfg.Sources == nil {
		cfg.Sources = map[string]string{}
	}
	cache = cfg
	return cache, nil
}

// Reload drops the cache and reads the file again.
func Reload() (*Config, error) {
	ClearCache()
	return Load()
}

// ClearCache forgets the cached configuration.
func ClearCache() {
	cacheMu.Lock()
	cache = nil
	cacheMu.Unlock()
}

// Save writes cfg atomically (temp file, fsync, rename) and clears the cache.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# tilefinder configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	_ = syncFile(tmp)
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize config save: %w", err)
	}

	ClearCache()
	return nil
}

func syncFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

// CreateExample writes a commented config if none exists. It reports
// whether a file was written.
func CreateExample() (bool, error) {
	path, err := Path()
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0o600); err != nil {
		return false, fmt.Errorf("write example config: %w", err)
	}
	ClearCache()
	return true, nil
}

const exampleConfig = `# tilefinder configuration

# Scan radius a new finder opens with (8..128, steps of 8)
default_radius = 24

# "dark", "light" or "system"
theme = "dark"

# World fixture to scan when --world is not given
# world_file = "world.toml"

[logs]
# Write debug.log next to this file
enabled = false
level = "info"
max_size_mb = 5
backups = 3
retention_days = 7

[watch]
# Reload the world file when it changes
disabled = false
debounce_ms = 150

[sources]
# Friendly names for source ids
# ironchest = "Iron Chests"
`

// ResolvedRadius returns DefaultRadius, or 24 when unset.
func (c *Config) ResolvedRadius() int {
	if c.DefaultRadius <= 0 {
		return 24
	}
	return c.DefaultRadius
}

// ResolvedWorldFile returns WorldFile made absolute against the base
// directory. Empty when unset.
func (c *Config) ResolvedWorldFile() string {
	if c.WorldFile == "" || filepath.IsAbs(c.WorldFile) {
		return c.WorldFile
	}
	dir, err := Dir()
	if err != nil {
		return c.WorldFile
	}
	return filepath.Join(dir, c.WorldFile)
}

// GetTheme returns the configured theme, defaulting to "dark".
func (c *Config) GetTheme() string {
	switch c.Theme {
	case "dark", "light", "system":
		return c.Theme
	}
	return "dark"
}

// ResolveTheme maps the theme to "dark" or "light", asking the OS when the
// theme is "system". Detection failures fall back to "dark".
func (c *Config) ResolveTheme() string {
	theme := c.GetTheme()
	if theme != "system" {
		return theme
	}
	isDark, err := dark.IsDarkMode()
	if err != nil || isDark {
		return "dark"
	}
	return "light"
}

// LoggingConfig translates [logs] into logging.Config. Logging is active
// when enabled in the file or when TILEFINDER_DEBUG is set.
func (c *Config) LoggingConfig() logging.Config {
	s := c.Logs
	enabled := s.Enabled || os.Getenv(DebugEnv) != ""

	out := logging.Config{
		Level:                 s.Level,
		Format:                s.Format,
		MaxSizeMB:             s.MaxSizeMB,
		MaxBackups:            s.Backups,
		MaxAgeDays:            s.RetentionDays,
		Compress:              s.Compress,
		RingBufferSize:        s.RingBufferMB * 1024 * 1024,
		AggregateIntervalSecs: s.AggregateIntervalSecs,
		PprofEnabled:          s.Pprof && enabled,
		Debug:                 enabled,
	}
	if enabled {
		if dir, err := Dir(); err == nil {
			out.LogDir = dir
		}
	}
	if os.Getenv(DebugEnv) != "" && out.Level == "" {
		out.Level = "debug"
	}
	return out
}

// WatchDebounceMs returns the debounce with its default applied.
func (c *Config) WatchDebounceMs() int {
	if c.Watch.DebounceMs <= 0 {
		return 150
	}
	return c.Watch.DebounceMs
}

// WatchMaxReloadsPerSec returns the reload cap with its default applied.
func (c *Config) WatchMaxReloadsPerSec() float64 {
	if c.Watch.MaxReloadsPerSec <= 0 {
		return 4
	}
	return c.Watch.MaxReloadsPerSec
}
