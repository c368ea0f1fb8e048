// ABOUTME: Tests for the error taxonomy.
// ABOUTME: Checks sentinel matching through wrapping and the user-facing conversion.

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokesh58/lichobi/internal/platform"
)

func TestSentinels_ThroughWrapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"unknown", &UnknownCommandError{Name: "echo", Capability: "chat_input"}, ErrUnknownCommand},
		{"input", NewUserInputError("no code block"), ErrInvalidInput},
		{"expired", &ExpiredError{CorrelationID: "i-1"}, ErrExpired},
		{"unexpected", &UnexpectedError{Cause: errors.New("db down")}, ErrUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handling: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
		})
	}
}

func TestDisplayable_PassesThroughDisplayable(t *testing.T) {
	err := fmt.Errorf("run: %w", NewUserInputError("Please provide a code block"))

	d := Displayable(err)
	require.NotNil(t, d)
	assert.Equal(t, "Please provide a code block", d.DisplayMessage())
}

func TestDisplayable_WrapsUnknownAsUnexpected(t *testing.T) {
	cause := errors.New("connection reset")

	d := Displayable(cause)
	assert.Equal(t, MsgUnexpected, d.DisplayMessage())
	assert.ErrorIs(t, d, cause, "cause must be preserved")
	assert.Contains(t, d.Error(), "connection reset")
}

func TestDisplayable_Nil(t *testing.T) {
	assert.Nil(t, Displayable(nil))
}

func TestExpiredError_Message(t *testing.T) {
	err := &ExpiredError{CorrelationID: "abc"}
	assert.Equal(t, MsgExpired, err.DisplayMessage())
	assert.Contains(t, err.Error(), "abc")
}

func TestErrorResponse(t *testing.T) {
	resp := ErrorResponse(&UserDisplayableError{Message: "Quota exceeded"})

	assert.True(t, resp.Ephemeral)
	require.Len(t, resp.Embeds, 1)
	assert.Equal(t, platform.ColorRed, resp.Embeds[0].Color)
	assert.Equal(t, "Quota exceeded", resp.Embeds[0].Description)
}

func TestIsDisplayable(t *testing.T) {
	assert.True(t, IsDisplayable(fmt.Errorf("wrapped: %w", NewUserInputError("bad"))))
	assert.False(t, IsDisplayable(errors.New("plain")))
	assert.False(t, IsDisplayable(nil))
}
