// Package config holds tokenscan's TOML configuration and pricing tiers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all tokenscan configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Cache   CacheConfig   `toml:"cache"`
	Pricing PricingConfig `toml:"pricing"`
}

// GeneralConfig holds scan preferences.
type GeneralConfig struct {
	ProjectsDir string `toml:"projects_dir,omitempty"`
	Summary     bool   `toml:"summary"`
	Quiet       bool   `toml:"quiet"`
}

// CacheConfig holds parse-cache settings.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path,omitempty"`
}

// PricingConfig carries optional per-tier price overrides.
type PricingConfig struct {
	Cheap   TierOverride `toml:"cheap"`
	Premium TierOverride `toml:"premium"`
}

// TierOverride overrides individual prices of a built-in tier. Nil fields
// keep the default.
type TierOverride struct {
	Input      *float64 `toml:"input_per_mtok,omitempty"`
	Output     *float64 `toml:"output_per_mtok,omitempty"`
	CacheRead  *float64 `toml:"cache_read_per_mtok,omitempty"`
	CacheWrite *float64 `toml:"cache_write_per_mtok,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{Enabled: true},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tokenscan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tokenscan")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// ProjectsDir returns the scan root: the configured directory if set,
// otherwise the default project root.
func (c Config) ProjectsDir() string {
	if c.General.ProjectsDir != "" {
		return expandHome(c.General.ProjectsDir)
	}
	return DefaultProjectsDir()
}

// DefaultProjectsDir is the transcript directory scanned when neither the
// command line nor the config names one.
func DefaultProjectsDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude", "projects", "-home-user-bunny-api-proxy")
}

// CachePath returns the parse-cache database path: the configured path if
// set, otherwise the XDG cache directory.
func (c Config) CachePath() string {
	if c.Cache.Path != "" {
		return expandHome(c.Cache.Path)
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "tokenscan", "parse.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "tokenscan", "parse.db")
}

// Tiers returns the pricing table with config overrides applied.
func (c Config) Tiers() Tiers {
	t := DefaultTiers()
	applyOverride(&t.Cheap, c.Pricing.Cheap)
	applyOverride(&t.Premium, c.Pricing.Premium)
	return t
}

func applyOverride(t *Tier, o TierOverride) {
	if o.Input != nil {
		t.Input = *o.Input
	}
	if o.Output != nil {
		t.Output = *o.Output
	}
	if o.CacheRead != nil {
		t.CacheRead = *o.CacheRead
	}
	if o.CacheWrite != nil {
		t.CacheWrite = *o.CacheWrite
	}
}

// expandHome resolves a leading ~/ against the user home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
