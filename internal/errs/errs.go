// ABOUTME: Error taxonomy for command and event handling.
// ABOUTME: Each error carries an internal message and a short user-displayable message.

package errs

import (
	"errors"
	"fmt"

	"github.com/lokesh58/lichobi/internal/platform"
)

// ErrUnknownCommand indicates no descriptor exists for a name and capability.
var ErrUnknownCommand = errors.New("unknown command")

// ErrInvalidInput indicates user-supplied content failed a structural expectation.
var ErrInvalidInput = errors.New("invalid input")

// ErrExpired indicates a two-phase interaction arrived after its state expired.
var ErrExpired = errors.New("correlation expired")

// ErrUnexpected indicates any other failure.
var ErrUnexpected = errors.New("unexpected error")

// ErrMissingAutocomplete indicates an autocomplete request for a command
// without an autocomplete handler.
var ErrMissingAutocomplete = errors.New("command has no autocomplete handler")

// ErrUnknownInteraction indicates an interaction kind the dispatcher cannot classify.
var ErrUnknownInteraction = errors.New("unknown interaction type")

// Messages shown to users.
const (
	MsgUnexpected = "Something went wrong. Please try again."
	MsgExpired    = "The command has expired. Please try running the command again."
	MsgUnknown    = "Unknown command. It may have been removed or renamed."
)

// DisplayableError is an error with a message safe to show to end users.
type DisplayableError interface {
	error
	DisplayMessage() string
}

// UnknownCommandError reports a name/capability pair with no descriptor.
type UnknownCommandError struct {
	CommandID  string
	Name       string
	Capability string
}

func (e *UnknownCommandError) Error() string {
	if e.CommandID != "" {
		return fmt.Sprintf("unknown %s command %q (id %s)", e.Capability, e.Name, e.CommandID)
	}
	return fmt.Sprintf("unknown %s command %q", e.Capability, e.Name)
}

func (e *UnknownCommandError) DisplayMessage() string { return MsgUnknown }

func (e *UnknownCommandError) Is(target error) bool { return target == ErrUnknownCommand }

// UserInputError reports bad user input. Message is shown verbatim.
type UserInputError struct {
	Message string
}

// NewUserInputError formats a UserInputError.
func NewUserInputError(format string, args ...any) *UserInputError {
	return &UserInputError{Message: fmt.Sprintf(format, args...)}
}

func (e *UserInputError) Error() string { return "invalid input: " + e.Message }

func (e *UserInputError) DisplayMessage() string { return e.Message }

func (e *UserInputError) Is(target error) bool { return target == ErrInvalidInput }

// ExpiredError reports a missing or consumed correlation entry.
type ExpiredError struct {
	CorrelationID string
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("correlation %q expired or already consumed", e.CorrelationID)
}

func (e *ExpiredError) DisplayMessage() string { return MsgExpired }

func (e *ExpiredError) Is(target error) bool { return target == ErrExpired }

// UserDisplayableError is a failure whose message is meant for the user, such
// as an upstream quota being exhausted.
type UserDisplayableError struct {
	Message string
	Cause   error
}

func (e *UserDisplayableError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *UserDisplayableError) DisplayMessage() string { return e.Message }

func (e *UserDisplayableError) Unwrap() error { return e.Cause }

// UnexpectedError wraps any other failure. Users see a generic message; the
// cause is preserved for logs.
type UnexpectedError struct {
	Cause error
}

func (e *UnexpectedError) Error() string {
	if e.Cause == nil {
		return ErrUnexpected.Error()
	}
	return "unexpected error: " + e.Cause.Error()
}

func (e *UnexpectedError) DisplayMessage() string { return MsgUnexpected }

func (e *UnexpectedError) Unwrap() error { return e.Cause }

func (e *UnexpectedError) Is(target error) bool { return target == ErrUnexpected }

// Displayable returns err as a DisplayableError. Wrapped displayable errors
// are found with errors.As; anything else becomes an UnexpectedError.
func Displayable(err error) DisplayableError {
	if err == nil {
		return nil
	}
	var d DisplayableError
	if errors.As(err, &d) {
		return d
	}
	return &UnexpectedError{Cause: err}
}

// IsDisplayable reports whether err carries its own user-facing message.
func IsDisplayable(err error) bool {
	var d DisplayableError
	return errors.As(err, &d)
}

// DisplayMessage returns the user-facing message for err.
func DisplayMessage(err error) string {
	if d := Displayable(err); d != nil {
		return d.DisplayMessage()
	}
	return ""
}

// ErrorEmbed builds the red embed used to report err to a user.
func ErrorEmbed(err error) platform.Embed {
	return platform.Embed{
		Title:       "Error",
		Description: DisplayMessage(err),
		Color:       platform.ColorRed,
	}
}

// ErrorResponse wraps ErrorEmbed in an ephemeral response.
func ErrorResponse(err error) platform.Response {
	return platform.Response{
		Embeds:    []platform.Embed{ErrorEmbed(err)},
		Ephemeral: true,
	}
}
