// ABOUTME: Polls chat participants in priority order and sends the first accepted reply.
// ABOUTME: A failing predicate or responder is logged and treated as a decline.

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/lokesh58/lichobi/internal/events"
	"github.com/lokesh58/lichobi/internal/platform"
	"github.com/lokesh58/lichobi/internal/prefix"
)

// ListenerName is the name of the listener registered by Install.
const ListenerName = "chat-handler"

// Dispatcher routes free text to the first participant that claims it.
type Dispatcher struct {
	registry *Registry
	prefix   prefix.Resolver
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher. A nil resolver uses the default prefix.
func NewDispatcher(registry *Registry, resolver prefix.Resolver, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if resolver == nil {
		resolver = prefix.NewStatic("")
	}
	return &Dispatcher{
		registry: registry,
		prefix:   resolver,
		logger:   logger.With("component", "chat_dispatcher"),
	}
}

// Install registers the chat listener on m.
func (d *Dispatcher) Install(m *events.Manager) error {
	return m.RegisterEvent(events.OnMessage(ListenerName, func(ctx context.Context, evt *platform.MessageEvent) error {
		_, err := d.Handle(ctx, evt)
		return err
	}))
}

// Handle offers evt to participants in order. It reports whether a reply was
// sent; the returned error is only for a failed send.
func (d *Dispatcher) Handle(ctx context.Context, evt *platform.MessageEvent) (bool, error) {
	msg := &evt.Message
	if msg.Author.Bot {
		return false, nil
	}
	if prefix.HasPrefix(ctx, d.prefix, msg) {
		return false, nil
	}

	for _, p := range d.registry.Ordered() {
		ok, err := d.shouldRespond(ctx, p, evt)
		if err != nil {
			d.logger.Error("participant predicate failed", "participant", p.Name, "error", err)
			continue
		}
		if !ok {
			continue
		}

		reply, err := d.respond(ctx, p, evt)
		if err != nil {
			d.logger.Error("participant failed to respond", "participant", p.Name, "error", err)
			continue
		}

		if err := evt.Responder.Reply(ctx, platform.Response{Content: reply}); err != nil {
			return false, fmt.Errorf("send reply from %s: %w", p.Name, err)
		}
		d.logger.Debug("participant responded", "participant", p.Name, "message_id", msg.ID)
		return true, nil
	}
	return false, nil
}

func (d *Dispatcher) shouldRespond(ctx context.Context, p *Participant, evt *platform.MessageEvent) (ok bool, err error) {
	defer recoverInto(&err, p.Name, d.logger)
	return p.ShouldRespond(ctx, evt)
}

// respond runs the typing indicator alongside the participant's Respond.
func (d *Dispatcher) respond(ctx context.Context, p *Participant, evt *platform.MessageEvent) (string, error) {
	var reply string
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := evt.Responder.SendTyping(gctx); err != nil {
			// Typing is cosmetic.
			d.logger.Debug("typing indicator failed", "participant", p.Name, "error", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		defer recoverInto(&err, p.Name, d.logger)
		reply, err = p.Respond(gctx, evt)
		return err
	})

	if err := g.Wait(); err != nil {
		return "", err
	}
	return reply, nil
}

func recoverInto(err *error, name string, logger *slog.Logger) {
	if r := recover(); r != nil {
		logger.Debug("participant panic stack", "participant", name, "stack", string(debug.Stack()))
		*err = fmt.Errorf("participant %s panicked: %v", name, r)
	}
}
