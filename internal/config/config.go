// ABOUTME: Dose configuration management with backend selection.
// ABOUTME: Handles settings, time zone, windows, and the storage backend factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/dose/internal/charm"
	"github.com/harperreed/dose/internal/engine"
	"github.com/harperreed/dose/internal/notify"
	"github.com/harperreed/dose/internal/storage"
)

// DefaultAPIAddr is where `dose serve` listens unless configured.
const DefaultAPIAddr = "127.0.0.1:8765"

// Config stores dose tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage. SQLite puts dose.db here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/dose.
	DataDir string `json:"data_dir,omitempty"`

	// Timezone is an IANA zone name used for calendar days. Defaults to local.
	Timezone string `json:"timezone,omitempty"`

	AdherenceWindowDays int `json:"adherence_window_days,omitempty"`
	ReminderHorizonDays int `json:"reminder_horizon_days,omitempty"`

	// ReloadInterval is a Go duration; empty or zero reloads on every view.
	ReloadInterval string `json:"reload_interval,omitempty"`

	APIAddr string `json:"api_addr,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// Location returns the configured zone, falling back to local time.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetAdherenceWindow returns the adherence window in days.
func (c *Config) GetAdherenceWindow() int {
	if c.AdherenceWindowDays <= 0 {
		return engine.DefaultAdherenceWindow
	}
	return c.AdherenceWindowDays
}

// GetReminderHorizon returns how many days ahead reminders are planned.
func (c *Config) GetReminderHorizon() int {
	if c.ReminderHorizonDays <= 0 {
		return notify.DefaultHorizon
	}
	return c.ReminderHorizonDays
}

// Staleness returns the reload policy for views.
func (c *Config) Staleness() (engine.StalenessPolicy, error) {
	if c.ReloadInterval == "" {
		return engine.AlwaysReload{}, nil
	}
	d, err := time.ParseDuration(c.ReloadInterval)
	if err != nil {
		return nil, fmt.Errorf("parse reload_interval: %w", err)
	}
	if d <= 0 {
		return engine.AlwaysReload{}, nil
	}
	return engine.MinInterval(d), nil
}

// GetAPIAddr returns the HTTP listen address.
func (c *Config) GetAPIAddr() string {
	if c.APIAddr == "" {
		return DefaultAPIAddr
	}
	return c.APIAddr
}

// Keys lists the settable config keys.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(c *Config, v string) error{
	"backend": func(c *Config, v string) error {
		if v != "sqlite" && v != "charm" {
			return fmt.Errorf("backend must be sqlite or charm, got %q", v)
		}
		c.Backend = v
		return nil
	},
	"data_dir": func(c *Config, v string) error {
		c.DataDir = v
		return nil
	},
	"timezone": func(c *Config, v string) error {
		if _, err := time.LoadLocation(v); err != nil {
			return fmt.Errorf("unknown timezone %q", v)
		}
		c.Timezone = v
		return nil
	},
	"adherence_window_days": func(c *Config, v string) error {
		n, err := positiveInt(v)
		c.AdherenceWindowDays = n
		return err
	},
	"reminder_horizon_days": func(c *Config, v string) error {
		n, err := positiveInt(v)
		c.ReminderHorizonDays = n
		return err
	},
	"reload_interval": func(c *Config, v string) error {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("reload_interval must be a duration like 30s: %w", err)
		}
		c.ReloadInterval = v
		return nil
	},
	"api_addr": func(c *Config, v string) error {
		c.APIAddr = v
		return nil
	},
}

func positiveInt(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive integer, got %q", v)
	}
	return n, nil
}

// Set updates one key from its string form.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	next := *c
	if err := set(&next, value); err != nil {
		return err
	}
	*c = next
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return c.OpenBackend(c.GetBackend())
}

// OpenBackend opens the named backend using this config's data directory.
func (c *Config) OpenBackend(backend string) (storage.Repository, error) {
	switch backend {
	case "sqlite":
		return storage.Open(filepath.Join(c.GetDataDir(), "dose.db"))
	case "charm":
		return charm.InitClient()
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "dose", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	data, err := os.ReadFile(GetConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
