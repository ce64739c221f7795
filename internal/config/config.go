// Package config loads the optional stoker.toml supervisor configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up in the workload root.
const FileName = "stoker.toml"

// Defaults for every tunable. stoker runs without any config file.
const (
	DefaultEntry          = "./run"
	DefaultLogDir         = "logs"
	DefaultLogExt         = "log"
	DefaultRestartDelay   = 5 * time.Second
	DefaultRescanInterval = 30 * time.Minute
	DefaultRuntimeDirName = ".stoker"
)

// Duration wraps time.Duration so TOML values can be written as "5s" / "30m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for toml decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// Config is the supervisor configuration.
type Config struct {
	Workloads struct {
		// Dir is the workload root. Defaults to the directory the config
		// was loaded from (or the working directory without a config).
		Dir string `toml:"dir"`
		// Entry is the command run inside each workload directory.
		Entry string `toml:"entry"`
	} `toml:"workloads"`

	Logs struct {
		Dir string `toml:"dir"`
		Ext string `toml:"ext"`
	} `toml:"logs"`

	Supervise struct {
		RestartDelay   Duration `toml:"restart_delay"`
		RescanInterval Duration `toml:"rescan_interval"`
	} `toml:"supervise"`
}

// Default returns a config with every field set to its default, rooted at dir.
func Default(dir string) *Config {
	cfg := &Config{}
	cfg.Workloads.Dir = dir
	cfg.applyDefaults()
	return cfg
}

// Load reads stoker.toml from dir. A missing file is not an error: the
// returned config carries the defaults.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(dir), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Workloads.Dir == "" {
		cfg.Workloads.Dir = dir
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Workloads.Entry == "" {
		c.Workloads.Entry = DefaultEntry
	}
	if c.Logs.Dir == "" {
		c.Logs.Dir = filepath.Join(c.Workloads.Dir, DefaultLogDir)
	}
	if c.Logs.Ext == "" {
		c.Logs.Ext = DefaultLogExt
	}
	if c.Supervise.RestartDelay.Duration == 0 {
		c.Supervise.RestartDelay.Duration = DefaultRestartDelay
	}
	if c.Supervise.RescanInterval.Duration == 0 {
		c.Supervise.RescanInterval.Duration = DefaultRescanInterval
	}
}

// RuntimeDir is where the supervisor keeps its own lock, pid, state and
// operational log files.
func (c *Config) RuntimeDir() string {
	return filepath.Join(c.Workloads.Dir, DefaultRuntimeDirName)
}

// LockFile is the single-instance lock path.
func (c *Config) LockFile() string { return filepath.Join(c.RuntimeDir(), "stoker.lock") }

// PidFile is the supervisor pid file path.
func (c *Config) PidFile() string { return filepath.Join(c.RuntimeDir(), "stoker.pid") }

// StateFile is the supervisor runtime state path.
func (c *Config) StateFile() string { return filepath.Join(c.RuntimeDir(), "state.json") }

// LogFile is the supervisor's own operational log path.
func (c *Config) LogFile() string { return filepath.Join(c.RuntimeDir(), "stoker.log") }
