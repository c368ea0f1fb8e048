// ABOUTME: Subscribes listeners to hub events with per-invocation error isolation.
// ABOUTME: Errors and panics are logged and routed to listener or default error handlers.

package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/lokesh58/lichobi/internal/errs"
	"github.com/lokesh58/lichobi/internal/platform"
)

// ErrListenerPanic marks errors recovered from a panicking listener.
var ErrListenerPanic = errors.New("listener panicked")

// ErrInvalidListener indicates a listener without an event or handler.
var ErrInvalidListener = errors.New("invalid listener")

// Handler processes one event payload.
type Handler func(ctx context.Context, payload any) error

// ErrorHandler reacts to a failed handler invocation.
type ErrorHandler func(ctx context.Context, err error, payload any)

// Listener is a named subscription to one event type.
type Listener struct {
	// Name is used for logging only and need not be unique.
	Name  string
	Event platform.EventType
	// Once unsubscribes the listener after its first invocation.
	Once    bool
	Handler Handler
	// OnError overrides the default error handler for the event type.
	OnError ErrorHandler
}

// OnMessage builds a messageCreate listener with a typed handler.
func OnMessage(name string, fn func(ctx context.Context, evt *platform.MessageEvent) error) Listener {
	return Listener{
		Name:  name,
		Event: platform.EventMessageCreate,
		Handler: func(ctx context.Context, payload any) error {
			evt, ok := payload.(*platform.MessageEvent)
			if !ok {
				return fmt.Errorf("listener %s: unexpected payload %T", name, payload)
			}
			return fn(ctx, evt)
		},
	}
}

// OnInteraction builds an interactionCreate listener with a typed handler.
func OnInteraction(name string, fn func(ctx context.Context, evt *platform.InteractionEvent) error) Listener {
	return Listener{
		Name:  name,
		Event: platform.EventInteractionCreate,
		Handler: func(ctx context.Context, payload any) error {
			evt, ok := payload.(*platform.InteractionEvent)
			if !ok {
				return fmt.Errorf("listener %s: unexpected payload %T", name, payload)
			}
			return fn(ctx, evt)
		},
	}
}

// Manager registers listeners on a Hub. A failing listener never affects the
// transport or sibling listeners.
type Manager struct {
	hub    *platform.Hub
	logger *slog.Logger

	mu        sync.RWMutex
	defaults  map[platform.EventType]ErrorHandler
	listeners []string
}

// NewManager creates a manager bound to hub and installs the default
// interactionCreate error handler. Pass nil logger for default.
func NewManager(hub *platform.Hub, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		hub:      hub,
		logger:   logger.With("component", "events"),
		defaults: make(map[platform.EventType]ErrorHandler),
	}
	m.defaults[platform.EventInteractionCreate] = m.replyWithError
	return m
}

// SetDefaultErrorHandler sets the fallback error handler for eventType.
func (m *Manager) SetDefaultErrorHandler(eventType platform.EventType, fn ErrorHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaults[eventType] = fn
}

// RegisterEvent subscribes l on the hub, honoring l.Once.
func (m *Manager) RegisterEvent(l Listener) error {
	if l.Event == "" || l.Handler == nil {
		return fmt.Errorf("%w: %q needs an event and a handler", ErrInvalidListener, l.Name)
	}

	wrapped := func(ctx context.Context, payload any) {
		m.invoke(ctx, l, payload)
	}
	if l.Once {
		m.hub.Once(l.Event, wrapped)
	} else {
		m.hub.On(l.Event, wrapped)
	}

	m.mu.Lock()
	m.listeners = append(m.listeners, l.Name)
	m.mu.Unlock()

	m.logger.Debug("listener registered", "listener", l.Name, "event", l.Event, "once", l.Once)
	return nil
}

// Listeners returns the names of registered listeners in registration order.
func (m *Manager) Listeners() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.listeners))
	copy(out, m.listeners)
	return out
}

func (m *Manager) invoke(ctx context.Context, l Listener, payload any) {
	err := m.call(ctx, l, payload)
	if err == nil {
		return
	}

	m.logger.Error("listener failed", "listener", l.Name, "event", l.Event, "error", err)

	handler := l.OnError
	if handler == nil {
		m.mu.RLock()
		handler = m.defaults[l.Event]
		m.mu.RUnlock()
	}
	if handler == nil {
		return
	}
	m.handleError(ctx, l, handler, err, payload)
}

// call runs the handler and converts a panic into an error.
func (m *Manager) call(ctx context.Context, l Listener, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Debug("listener panic stack", "listener", l.Name, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrListenerPanic, r)
		}
	}()
	return l.Handler(ctx, payload)
}

func (m *Manager) handleError(ctx context.Context, l Listener, handler ErrorHandler, err error, payload any) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("error handler panicked", "listener", l.Name, "panic", fmt.Sprint(r))
		}
	}()
	handler(ctx, err, payload)
}

// replyWithError reports err to the user who triggered the interaction.
func (m *Manager) replyWithError(ctx context.Context, err error, payload any) {
	evt, ok := payload.(*platform.InteractionEvent)
	if !ok || evt.Responder == nil {
		return
	}
	if evt.Interaction.Kind == platform.InteractionAutocomplete {
		// Autocomplete requests cannot carry a message.
		return
	}

	resp := errs.ErrorResponse(err)
	var sendErr error
	if evt.Responder.Replied() || evt.Responder.Deferred() {
		sendErr = evt.Responder.FollowUp(ctx, resp)
	} else {
		sendErr = evt.Responder.Reply(ctx, resp)
	}
	if sendErr != nil {
		m.logger.Error("failed to send error response",
			"interaction_id", evt.Interaction.ID,
			"error", sendErr)
	}
}
