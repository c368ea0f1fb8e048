// ABOUTME: The bot context handed to plugin constructors.
// ABOUTME: Carries injected collaborators and collects resources to release on shutdown.

package plugin

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/lokesh58/lichobi/internal/ai"
	"github.com/lokesh58/lichobi/internal/chat"
	"github.com/lokesh58/lichobi/internal/coderunner"
	"github.com/lokesh58/lichobi/internal/command"
	"github.com/lokesh58/lichobi/internal/events"
	"github.com/lokesh58/lichobi/internal/prefix"
)

// Host is the running bot as seen by plugins.
type Host struct {
	Logger *slog.Logger
	Events *events.Manager
	Prefix prefix.Resolver
	// AI may be nil when no provider is configured.
	AI ai.Provider
	// Runner may be nil when no code runner is configured.
	Runner coderunner.Runner
	// CorrelationTTL is the lifetime of two-phase interaction state.
	CorrelationTTL time.Duration

	mu      sync.Mutex
	closers []io.Closer
}

// OnClose registers c to be closed when the bot shuts down.
func (h *Host) OnClose(c io.Closer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closers = append(h.closers, c)
}

// Close closes registered resources in reverse order.
func (h *Host) Close() error {
	h.mu.Lock()
	closers := h.closers
	h.closers = nil
	h.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewCorrelator creates a correlator using the host's TTL and closes it on shutdown.
func NewCorrelator[T any](h *Host, customIDPrefix string) *command.Correlator[T] {
	c := command.NewCorrelator[T](customIDPrefix, h.CorrelationTTL)
	h.OnClose(c)
	return c
}

// NewConversationTracker creates a tracker closed on shutdown.
func NewConversationTracker(h *Host, ttl time.Duration) *chat.ConversationTracker {
	t := chat.NewConversationTracker(ttl)
	h.OnClose(t)
	return t
}

// CommandConstructor builds a command bound to the host.
type CommandConstructor func(h *Host) (*command.Descriptor, error)

// ParticipantConstructor builds a chat participant bound to the host.
type ParticipantConstructor func(h *Host) (*chat.Participant, error)
