// ABOUTME: Interfaces the dispatch core consumes from a transport.
// ABOUTME: Per-event responders, the session, and the hub event payloads.

package platform

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupported is returned by transports for operations they cannot perform.
var ErrUnsupported = errors.New("operation not supported by this platform")

// Responder answers a single interaction.
type Responder interface {
	// Defer acknowledges the interaction; the reply is sent later with EditReply.
	Defer(ctx context.Context, ephemeral bool) error
	Reply(ctx context.Context, resp Response) error
	EditReply(ctx context.Context, resp Response) error
	FollowUp(ctx context.Context, resp Response) error
	ShowModal(ctx context.Context, modal Modal) error
	Autocomplete(ctx context.Context, choices []Choice) error
	// Replied reports whether an initial reply was sent.
	Replied() bool
	// Deferred reports whether the interaction was deferred.
	Deferred() bool
}

// MessageResponder answers a single free-text message.
type MessageResponder interface {
	// Reply sends a message that references the inbound message.
	Reply(ctx context.Context, resp Response) error
	// Send posts to the message's channel without a reference.
	Send(ctx context.Context, resp Response) error
	SendTyping(ctx context.Context) error
	// FetchRecent returns up to limit messages from the channel, newest first,
	// including the inbound message.
	FetchRecent(ctx context.Context, limit int) ([]Message, error)
	FetchMessage(ctx context.Context, id string) (*Message, error)
}

// HistoryReader is implemented by responders that can read the history of the
// channel an interaction was invoked in.
type HistoryReader interface {
	// FetchRecent returns up to limit messages, newest first.
	FetchRecent(ctx context.Context, limit int) ([]Message, error)
}

// Session is the transport-wide handle.
type Session interface {
	// Self returns the bot's own user.
	Self() User
	// Latency returns the last measured transport heartbeat latency.
	Latency() time.Duration
	// PublishCommands replaces the application command declarations. An empty
	// scope publishes globally; otherwise scope names a development guild.
	PublishCommands(ctx context.Context, scope string, decls []Declaration) error
}

// MessageEvent is the payload of EventMessageCreate.
type MessageEvent struct {
	Message   Message
	Responder MessageResponder
	Session   Session
}

// InteractionEvent is the payload of EventInteractionCreate.
type InteractionEvent struct {
	Interaction Interaction
	Responder   Responder
	Session     Session
}

// ReadyEvent is the payload of EventReady.
type ReadyEvent struct {
	Transport string
	Self      User
	Session   Session
}
