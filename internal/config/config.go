// Package config handles the XDG configuration directory, the config file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pomo/internal/logfields"
)

const (
	// AppName is the application directory name.
	AppName = "pomo"

	// ConfigFile is the YAML settings filename.
	ConfigFile = "config.yaml"

	// EnvFile is the optional dotenv filename read from the config directory.
	EnvFile = ".env"

	// StoreFile is the default SQLite store filename.
	StoreFile = "pomo.db"

	// MemoryStore selects a non-persistent store.
	MemoryStore = ":memory:"
)

// Environment overrides.
const (
	EnvFocus = "POMO_FOCUS"
	EnvBreak = "POMO_BREAK"
	EnvStore = "POMO_STORE"
)

// ErrInvalid is returned when a setting is out of range or unparsable.
var ErrInvalid = errors.New("invalid configuration")

// TimerSettings configures the focus timer.
type TimerSettings struct {
	Focus       time.Duration `yaml:"focus"`
	Break       time.Duration `yaml:"break"`
	RequireAck  bool          `yaml:"require_ack"`
	RequireTask bool          `yaml:"require_task"`
}

// StatsSettings configures statistics.
type StatsSettings struct {
	DailyGoal int `yaml:"daily_goal"`
}

// StoreSettings configures the local store.
type StoreSettings struct {
	// Path is the SQLite file. Relative paths are resolved against the config dir.
	Path string `yaml:"path"`
}

// Settings is the content of config.yaml.
type Settings struct {
	Timer TimerSettings `yaml:"timer"`
	Stats StatsSettings `yaml:"stats"`
	Store StoreSettings `yaml:"store"`
}

// DefaultSettings returns the settings used when config.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Timer: TimerSettings{
			Focus:       25 * time.Minute,
			Break:       5 * time.Minute,
			RequireAck:  true,
			RequireTask: true,
		},
		Stats: StatsSettings{DailyGoal: 8},
	}
}

// Validate checks ranges.
func (s Settings) Validate() error {
	if s.Timer.Focus < time.Second {
		return fmt.Errorf("%w: timer.focus must be at least 1s, got %s", ErrInvalid, s.Timer.Focus)
	}
	if s.Timer.Break < time.Second {
		return fmt.Errorf("%w: timer.break must be at least 1s, got %s", ErrInvalid, s.Timer.Break)
	}
	if s.Stats.DailyGoal < 1 {
		return fmt.Errorf("%w: stats.daily_goal must be positive, got %d", ErrInvalid, s.Stats.DailyGoal)
	}
	return nil
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Settings
}

// New creates a new Config with the default or specified config directory and
// default settings. Call Load to read the config file and environment.
// If configDir is empty, uses XDG_CONFIG_HOME/pomo or $HOME/.config/pomo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// EnvPath returns the path to the dotenv file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// StorePath returns the SQLite store location.
func (c *Config) StorePath() string {
	p := c.Store.Path
	switch {
	case p == "":
		return filepath.Join(c.Dir, StoreFile)
	case p == MemoryStore, filepath.IsAbs(p):
		return p
	}
	return filepath.Join(c.Dir, p)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Load reads config.yaml and applies dotenv and process environment
// overrides, in that order. A missing file leaves the defaults in place.
func (c *Config) Load() error {
	settings, err := LoadSettings(c.FilePath())
	if err != nil {
		return err
	}
	c.Settings = settings
	return nil
}

// LoadSettings reads the config file at path, then applies the .env file
// next to it and the process environment. An exported but empty variable
// does not hide the .env value.
func LoadSettings(path string) (Settings, error) {
	settings, err := LoadFile(path)
	if err != nil {
		return Settings{}, err
	}

	env, err := readEnvFile(filepath.Join(filepath.Dir(path), EnvFile))
	if err != nil {
		return Settings{}, err
	}
	if err := applyEnv(&settings, func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}); err != nil {
		return Settings{}, err
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// LoadFile reads settings from path on top of the defaults.
func LoadFile(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("No config file, using defaults", logfields.Path(path))
		return settings, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("%w: %s: %v", ErrInvalid, ConfigFile, err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func readEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", EnvFile, err)
	}
	return env, nil
}

func applyEnv(s *Settings, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvFocus); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, EnvFocus, v)
		}
		s.Timer.Focus = d
	}
	if v, ok := lookup(EnvBreak); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, EnvBreak, v)
		}
		s.Timer.Break = d
	}
	if v, ok := lookup(EnvStore); ok && v != "" {
		s.Store.Path = v
	}
	return nil
}
