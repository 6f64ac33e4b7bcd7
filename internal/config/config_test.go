package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/brandwatch-go/internal/brandwatch"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, brandwatch.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, brandwatch.DefaultTokenPath, cfg.TokenPath)
	assert.True(t, cfg.ConsoleReport)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeConfig(t, `
username = "alice@example.com"
token_path = "/home/alice/.tokens"
log_level = "debug"
console_report = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", cfg.Username)
	assert.Equal(t, "/home/alice/.tokens", cfg.TokenPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.ConsoleReport)

	// Unset keys keep their defaults.
	assert.Equal(t, brandwatch.DefaultBaseURL, cfg.BaseURL)
}

func TestLoad_UnknownKeyIsFatal(t *testing.T) {
	path := writeConfig(t, `user_name = "typo"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
	assert.Contains(t, err.Error(), "user_name")
}

func TestLoad_BadLogLevel(t *testing.T) {
	path := writeConfig(t, `log_level = "loud"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestLoad_EmptyTokenPath(t *testing.T) {
	path := writeConfig(t, `token_path = ""`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token_path")
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOrDefault_ExistingFile(t *testing.T) {
	path := writeConfig(t, `username = "bob"`)

	cfg, err := LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Username)
}

func TestReadEnvOverrides(t *testing.T) {
	t.Setenv("BRANDWATCH_CONFIG", "/etc/bw.toml")
	t.Setenv("BRANDWATCH_USERNAME", "env-user")
	t.Setenv("BRANDWATCH_PASSWORD", "env-pass")
	t.Setenv("BRANDWATCH_TOKEN_PATH", "/tmp/tokens.txt")

	env := ReadEnvOverrides()
	assert.Equal(t, "/etc/bw.toml", env.ConfigPath)
	assert.Equal(t, "env-user", env.Username)
	assert.Equal(t, "env-pass", env.Password)
	assert.Equal(t, "/tmp/tokens.txt", env.TokenPath)
}

func TestApply_EnvWinsOverFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Username = "file-user"

	cfg.Apply(EnvOverrides{Username: "env-user", TokenPath: "/env/tokens.txt"})
	assert.Equal(t, "env-user", cfg.Username)
	assert.Equal(t, "/env/tokens.txt", cfg.TokenPath)
}

func TestApply_EmptyEnvKeepsFileValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Username = "file-user"

	cfg.Apply(EnvOverrides{})
	assert.Equal(t, "file-user", cfg.Username)
	assert.Equal(t, brandwatch.DefaultTokenPath, cfg.TokenPath)
}
