// ABOUTME: Tests for level parsing and the colour handler.
// ABOUTME: Colour output is checked with colours forced on.

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "warn", FormatJSON).Info("dropped")
	New(&buf, "warn", FormatJSON).Warn("kept", "component", "hub")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.Contains(t, buf.String(), `"component":"hub"`)
}

func TestColorHandler(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	logger := New(&buf, "debug", FormatColor).With("component", "events")
	logger.Error("listener failed", "listener", "echo")
	logger.WithGroup("req").Debug("detail", "id", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "\x1b[31m"), "error records are red")
	assert.Contains(t, lines[0], "level=ERROR")
	assert.Contains(t, lines[0], "component=events")
	assert.Contains(t, lines[0], "listener=echo")
	assert.Contains(t, lines[1], "req.id=7")
}
