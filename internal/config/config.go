// Package config loads the brandwatch-go configuration file and applies the
// override chain: defaults -> config file -> environment variables -> CLI
// flags. The config file is TOML and never holds secrets — passwords come
// from the environment or an interactive prompt only.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tonimelisma/brandwatch-go/internal/brandwatch"
)

// Config is the on-disk configuration schema.
type Config struct {
	Username      string `toml:"username"`
	TokenPath     string `toml:"token_path"`
	BaseURL       string `toml:"base_url"`
	ConsoleReport bool   `toml:"console_report"`
	LogLevel      string `toml:"log_level"`
}

// DefaultConfig returns a Config populated with defaults: the production
// API root, the conventional tokens.txt cache in the working directory,
// console reporting on.
func DefaultConfig() *Config {
	return &Config{
		TokenPath:     brandwatch.DefaultTokenPath,
		BaseURL:       brandwatch.DefaultBaseURL,
		ConsoleReport: true,
		LogLevel:      "info",
	}
}

// DefaultConfigPath returns the conventional config file location,
// $XDG_CONFIG_HOME/brandwatch-go/config.toml (or the platform equivalent).
// Falls back to ./config.toml when the user config dir cannot be resolved.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}

	return filepath.Join(dir, "brandwatch-go", "config.toml")
}

// Load reads and validates a TOML config file. Unknown keys are fatal —
// silently ignoring a typo in a config file leads to hard-to-debug
// behavior.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns
// the defaults. This supports the zero-config first run: a config file is
// never required.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Validate checks field values that the TOML decoder cannot.
func Validate(cfg *Config) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error (got %q)", cfg.LogLevel)
	}

	if cfg.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}

	if cfg.TokenPath == "" {
		return errors.New("token_path must not be empty")
	}

	return nil
}

// EnvOverrides carries settings read from the environment. Empty fields
// mean "not set".
type EnvOverrides struct {
	ConfigPath string
	Username   string
	Password   string
	TokenPath  string
}

// ReadEnvOverrides reads the BRANDWATCH_* environment variables.
// BRANDWATCH_PASSWORD is the only way to supply a password
// non-interactively.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath: os.Getenv("BRANDWATCH_CONFIG"),
		Username:   os.Getenv("BRANDWATCH_USERNAME"),
		Password:   os.Getenv("BRANDWATCH_PASSWORD"),
		TokenPath:  os.Getenv("BRANDWATCH_TOKEN_PATH"),
	}
}

// Apply merges environment overrides into the config. Env wins over file
// values; CLI flags are applied later by the caller and win over both.
func (c *Config) Apply(env EnvOverrides) {
	if env.Username != "" {
		c.Username = env.Username
	}

	if env.TokenPath != "" {
		c.TokenPath = env.TokenPath
	}
}
