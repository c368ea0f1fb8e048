// ABOUTME: Tests for the CLI helpers: config rendering, init flow, scopes and the command table.
// ABOUTME: Interactive input is fed through readers; no terminal is needed.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokesh58/lichobi/internal/command"
	"github.com/lokesh58/lichobi/internal/config"
	"github.com/lokesh58/lichobi/internal/platform"
)

func TestRenderConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	a := setupAnswers{
		Prefix:        "?",
		DiscordToken:  "tok",
		DiscordAppID:  "123",
		DevGuildID:    "456",
		Homeserver:    "https://matrix.example.org",
		Username:      "bot",
		Password:      `p"w`,
		AIKey:         "key",
		RunnerURL:     "https://runner.example.org",
		RunnerToken:   "rt",
		PluginsFolder: "./plugins",
	}
	require.NoError(t, os.WriteFile(path, []byte(renderConfig(a)), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "?", cfg.Bot.CommandPrefix)
	assert.Equal(t, "tok", cfg.Discord.Token)
	assert.Equal(t, "456", cfg.Discord.DevGuildID)
	assert.True(t, cfg.Matrix.Enabled)
	assert.Equal(t, `p"w`, cfg.Matrix.Password)
	assert.True(t, cfg.Matrix.TypingIndicator)
	assert.Equal(t, "key", cfg.AI.APIKey)
	assert.Equal(t, "https://runner.example.org", cfg.CodeRunner.BaseURL)
	assert.Equal(t, "./plugins", cfg.Plugins.Folder)
}

func TestRenderConfigMinimal(t *testing.T) {
	out := renderConfig(setupAnswers{Prefix: "!"})
	assert.NotContains(t, out, "[discord]")
	assert.NotContains(t, out, "[matrix]")
	assert.Contains(t, out, "[logging]")
}

func TestRunInitWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lichobi", "config.toml")
	// prefix, token, app id, guild, matrix, ai key, runner url, plugin folder
	input := strings.Join([]string{"", "tok", "app", "", "n", "", "", ""}, "\n") + "\n"
	var out bytes.Buffer

	require.NoError(t, runInit(strings.NewReader(input), &out, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `command_prefix = "!"`)
	assert.Contains(t, string(data), `token = "tok"`)
	assert.Contains(t, string(data), `app_id = "app"`)
	assert.Contains(t, out.String(), "Config written")
}

func TestRunInitKeepsExistingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o600))

	var out bytes.Buffer
	require.NoError(t, runInit(strings.NewReader("n\n"), &out, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
	assert.Contains(t, out.String(), "Aborted.")
}

func TestPublishScope(t *testing.T) {
	assert.Equal(t, "dev", publishScope("", "dev", false))
	assert.Equal(t, "other", publishScope("other", "dev", false))
	assert.Equal(t, "", publishScope("other", "dev", true))
	assert.Equal(t, "", publishScope("", "", false))
	assert.Equal(t, "global", scopeLabel(""))
	assert.Equal(t, "guild 1", scopeLabel("1"))
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.toml"))
	assert.Equal(t, "", resolveConfigPath(""))
	assert.Equal(t, "x.toml", resolveConfigPath("x.toml"))
	assert.Equal(t, "(environment only)", displayPath(""))
}

func TestRenderCommands(t *testing.T) {
	r := command.NewRegistry(nil)
	noop := func(context.Context, *platform.MessageEvent, string) error { return nil }
	require.NoError(t, r.Register(t.Context(), &command.Descriptor{
		Name:        "ping",
		Description: "Replies with pong",
		Legacy:      &command.LegacySpec{Handler: noop},
	}))

	var out bytes.Buffer
	renderCommands(&out, r)
	assert.Contains(t, out.String(), "ping")
	assert.Contains(t, out.String(), "legacy_text")
	assert.Contains(t, out.String(), "Replies with pong")
}
