// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers TOML and YAML loading, env expansion and overrides, defaults and validation

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_TOML(t *testing.T) {
	t.Setenv("TEST_DISCORD_TOKEN", "tok-123")

	path := writeConfig(t, "config.toml", `
[bot]
command_prefix = "?"
correlation_ttl = "2m"

[discord]
token = "${TEST_DISCORD_TOKEN}"
dev_guild_id = "42"

[matrix]
enabled = true
homeserver = "https://matrix.example.org"
username = "lichobi"
password = "hunter2"
allowed_rooms = ["!a:example.org"]

[ai]
api_key = "key"

[logging]
level = "debug"
format = "json"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "?", cfg.Bot.CommandPrefix)
	assert.Equal(t, 2*time.Minute, cfg.Bot.CorrelationTTL)
	assert.Equal(t, "tok-123", cfg.Discord.Token)
	assert.True(t, cfg.Discord.Enabled())
	assert.Equal(t, "42", cfg.Discord.DevGuildID)
	assert.True(t, cfg.Matrix.Enabled)
	assert.Equal(t, []string{"!a:example.org"}, cfg.Matrix.AllowedRooms)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.True(t, cfg.AI.Enabled())
	assert.False(t, cfg.CodeRunner.Enabled())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.HasTransport())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
bot:
  command_prefix: "$"
code_runner:
  base_url: "https://runner.example.com"
  token: "secret"
plugins:
  folder: "./plugins"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "$", cfg.Bot.CommandPrefix)
	assert.Equal(t, 5*time.Minute, cfg.Bot.CorrelationTTL)
	assert.Equal(t, "https://runner.example.com", cfg.CodeRunner.BaseURL)
	assert.True(t, cfg.CodeRunner.Enabled())
	assert.Equal(t, "./plugins", cfg.Plugins.Folder)
	assert.Equal(t, []string{".go"}, cfg.Plugins.Extensions)
	assert.False(t, cfg.HasTransport())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("COMMAND_PREFIX", ">")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("MATRIX_ALLOWED_ROOMS", "!a:x,!b:x")

	path := writeConfig(t, "config.toml", `
[bot]
command_prefix = "?"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ">", cfg.Bot.CommandPrefix)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, []string{"!a:x", "!b:x"}, cfg.Matrix.AllowedRooms)
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "tok")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "!", cfg.Bot.CommandPrefix)
	assert.Equal(t, "tok", cfg.Discord.Token)
	assert.Equal(t, "color", cfg.Logging.Format)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{"unsupported format", "config.ini", "a=b", "unsupported config format"},
		{"bad toml", "config.toml", "[bot\n", "parsing config file"},
		{"bad duration", "config.toml", "[bot]\ncorrelation_ttl = \"soon\"\n", "parsing correlation_ttl"},
		{"bad level", "config.toml", "[logging]\nlevel = \"loud\"\n", "validating config"},
		{"bad provider", "config.toml", "[ai]\nprovider = \"oracle\"\n", "validating config"},
		{"bad runner url", "config.toml", "[code_runner]\nbase_url = \"not a url\"\n", "validating config"},
		{"matrix without homeserver", "config.toml", "[matrix]\nenabled = true\n", "matrix.homeserver is required"},
		{"matrix bad scheme", "config.toml", "[matrix]\nenabled = true\nhomeserver = \"ftp://x\"\nusername = \"u\"\npassword = \"p\"\n", "http or https"},
		{"matrix without password", "config.toml", "[matrix]\nenabled = true\nhomeserver = \"https://x\"\nusername = \"u\"\n", "matrix.password is required"},
		{"empty prefix", "config.toml", "[bot]\ncommand_prefix = \"\"\n", "validating config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LICHOBI_TEST_VAR", "value")
	assert.Equal(t, "a=value b=", expandEnvVars("a=${LICHOBI_TEST_VAR} b=${LICHOBI_TEST_UNSET}"))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LICHOBI_DOTENV_TEST=from-file\n"), 0o644))
	t.Setenv("LICHOBI_DOTENV_TEST", "")
	require.NoError(t, os.Unsetenv("LICHOBI_DOTENV_TEST"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("LICHOBI_DOTENV_TEST"))
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/lichobi.toml")
	assert.Equal(t, "/etc/lichobi.toml", Path())

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "lichobi", "config.toml"), Path())

	t.Setenv("XDG_DATA_HOME", "/data")
	assert.Equal(t, filepath.Join("/data", "lichobi"), DataPath())
}
