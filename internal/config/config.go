package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file
const (
	EnvConfigFile = "PLAZO_CONFIG"
	EnvDBPath     = "PLAZO_DB_PATH"
	EnvLogLevel   = "PLAZO_LOG_LEVEL"
	EnvSocketPath = "PLAZO_SOCKET_PATH"
	EnvThemeFile  = "PLAZO_THEME_FILE"
	EnvNoEvents   = "PLAZO_NO_EVENTS"
)

// Defaults for values the config file leaves out
const (
	DefaultLogLevel   = "info"
	DefaultMaxRetries = 3
)

// Config represents the application configuration
type Config struct {
	Database    DatabaseConfig `yaml:"database" json:"database"`
	Logging     LoggingConfig  `yaml:"logging" json:"logging"`
	Events      EventsConfig   `yaml:"events" json:"events"`
	ColorScheme ColorScheme    `yaml:"theme" json:"theme"`
}

// DatabaseConfig locates the SQLite task store
type DatabaseConfig struct {
	Path string `yaml:"path" json:"path"` // Empty means ~/.plazo/plazo.db
}

// LoggingConfig controls the log file
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"` // debug, info, warn or error
	Path  string `yaml:"path" json:"path"`   // Empty means ~/.plazo/logs/plazo.log
}

// EventsConfig controls change notifications to the daemon
type EventsConfig struct {
	Disabled   bool   `yaml:"disabled" json:"disabled"`
	SocketPath string `yaml:"socket_path" json:"socket_path"` // Empty means ~/.plazo/plazo.sock
	MaxRetries int    `yaml:"max_retries" json:"max_retries"`
}

// Default returns a config with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// loadThemeFile merges the theme from PLAZO_THEME_FILE, if set
func loadThemeFile(config *Config) {
	themeFile := os.Getenv(EnvThemeFile)
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme ColorScheme `yaml:"theme" json:"theme"`
	}
	if yaml.Unmarshal(themeData, &themeConfig) == nil {
		config.ColorScheme.MergeFrom(themeConfig.Theme)
	}
}

// Load reads the config from the user's config directory, or from
// PLAZO_CONFIG when set. A missing file yields the defaults; environment
// overrides apply either way.
func Load() (*Config, error) {
	config := &Config{}

	configPath, err := getConfigPath()
	if err == nil {
		data, readErr := os.ReadFile(configPath)
		switch {
		case readErr == nil:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
			}
		case errors.Is(readErr, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, readErr)
		}
	}

	loadThemeFile(config)
	config.applyEnv()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Validate rejects values no component can work with
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level %q (must be: debug, info, warn, error)", c.Logging.Level)
	}
	if c.Events.MaxRetries < 1 {
		return fmt.Errorf("invalid events.max_retries %d (must be at least 1)", c.Events.MaxRetries)
	}
	return nil
}

// Path returns where Load looks for the config file
func Path() (string, error) {
	return getConfigPath()
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	if explicit := os.Getenv(EnvConfigFile); explicit != "" {
		return explicit, nil
	}

	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "plazo", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "plazo", "config.yaml"), nil
}

// applyEnv lets environment variables win over the file
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvSocketPath); v != "" {
		c.Events.SocketPath = v
	}
	if v, err := strconv.ParseBool(os.Getenv(EnvNoEvents)); err == nil && v {
		c.Events.Disabled = true
	}
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Events.MaxRetries == 0 {
		c.Events.MaxRetries = DefaultMaxRetries
	}
	c.ColorScheme.ApplyDefaults()
}

// PlazoDir returns ~/.plazo, where the database, log and socket live by default
func PlazoDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".plazo"), nil
}

// SocketPath returns the configured daemon socket or the default one
func (c *Config) SocketPath() (string, error) {
	if c.Events.SocketPath != "" {
		return c.Events.SocketPath, nil
	}
	dir, err := PlazoDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "plazo.sock"), nil
}

// LogPath returns the configured log file or the default one
func (c *Config) LogPath() (string, error) {
	if c.Logging.Path != "" {
		return c.Logging.Path, nil
	}
	dir, err := PlazoDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", "plazo.log"), nil
}
