// ABOUTME: Routes interactions and prefixed messages to registered command handlers.
// ABOUTME: Classifies the event, resolves (name, capability), and invokes the handler.

package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lokesh58/lichobi/internal/errs"
	"github.com/lokesh58/lichobi/internal/events"
	"github.com/lokesh58/lichobi/internal/platform"
	"github.com/lokesh58/lichobi/internal/prefix"
)

// Listener names registered by Install.
const (
	InteractionListenerName = "command-interactions"
	LegacyListenerName      = "legacy-commands"
)

const tracerName = "github.com/lokesh58/lichobi/internal/command"

// Dispatcher routes inbound events to command handlers. It owns no state
// beyond its borrowed registry and collaborators.
type Dispatcher struct {
	registry *Registry
	prefix   prefix.Resolver
	logger   *slog.Logger
	tracer   trace.Tracer
}

// DispatcherConfig contains the Dispatcher's collaborators.
type DispatcherConfig struct {
	Registry *Registry
	Prefix   prefix.Resolver
	Logger   *slog.Logger
	// Tracer defaults to the global provider's tracer.
	Tracer trace.Tracer
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	resolver := cfg.Prefix
	if resolver == nil {
		resolver = prefix.NewStatic("")
	}
	return &Dispatcher{
		registry: cfg.Registry,
		prefix:   resolver,
		logger:   logger.With("component", "command_dispatcher"),
		tracer:   tracer,
	}
}

// Install registers the interaction and legacy listeners on m.
// Legacy command failures are replied to with an error embed.
func (d *Dispatcher) Install(m *events.Manager) error {
	if err := m.RegisterEvent(events.OnInteraction(InteractionListenerName, d.HandleInteraction)); err != nil {
		return err
	}

	legacy := events.OnMessage(LegacyListenerName, d.HandleMessage)
	legacy.OnError = d.replyLegacyError
	return m.RegisterEvent(legacy)
}

// HandleInteraction dispatches a structured interaction. ModalSubmit and
// Component interactions are not commands and are ignored here.
func (d *Dispatcher) HandleInteraction(ctx context.Context, evt *platform.InteractionEvent) error {
	in := &evt.Interaction

	switch in.Kind {
	case platform.InteractionChatInput:
		return d.traced(ctx, in.CommandName, ChatInput, func(ctx context.Context) error {
			desc, err := d.resolve(in, ChatInput)
			if err != nil {
				return err
			}
			opts, err := ExtractOptions(desc.ChatInput, in)
			if err != nil {
				return err
			}
			return desc.ChatInput.Handler(ctx, evt, opts)
		})

	case platform.InteractionAutocomplete:
		return d.traced(ctx, in.CommandName, ChatInput, func(ctx context.Context) error {
			desc, err := d.resolve(in, ChatInput)
			if err != nil {
				return err
			}
			if desc.ChatInput.Autocomplete == nil {
				d.logger.Error("autocomplete requested for command without handler", "command", desc.Name)
				return fmt.Errorf("%w: %s", errs.ErrMissingAutocomplete, desc.Name)
			}
			focused, _ := in.FocusedOption()
			return desc.ChatInput.Autocomplete(ctx, evt, focused)
		})

	case platform.InteractionMessageAction:
		return d.traced(ctx, in.CommandName, MessageAction, func(ctx context.Context) error {
			desc, err := d.resolve(in, MessageAction)
			if err != nil {
				return err
			}
			if in.TargetMessage == nil {
				return fmt.Errorf("message action %s: missing target message", desc.Name)
			}
			return desc.MessageAction(ctx, evt, in.TargetMessage)
		})

	case platform.InteractionUserAction:
		return d.traced(ctx, in.CommandName, UserAction, func(ctx context.Context) error {
			desc, err := d.resolve(in, UserAction)
			if err != nil {
				return err
			}
			if in.TargetUser == nil {
				return fmt.Errorf("user action %s: missing target user", desc.Name)
			}
			return desc.UserAction(ctx, evt, in.TargetUser)
		})

	case platform.InteractionModalSubmit, platform.InteractionComponent:
		return nil
	}

	d.logger.Error("unrecognized interaction type",
		"kind", in.Kind.String(),
		"interaction_id", in.ID,
		"command", in.CommandName)
	return fmt.Errorf("%w: %w", errs.ErrUnknownInteraction, &errs.UnknownCommandError{
		CommandID:  in.CommandID,
		Name:       in.CommandName,
		Capability: in.Kind.String(),
	})
}

func (d *Dispatcher) resolve(in *platform.Interaction, capability Capability) (*Descriptor, error) {
	desc, ok := d.registry.Get(in.CommandName, capability)
	if !ok {
		d.logger.Warn("unknown command",
			"command", in.CommandName,
			"capability", capability,
			"command_id", in.CommandID)
		return nil, &errs.UnknownCommandError{
			CommandID:  in.CommandID,
			Name:       in.CommandName,
			Capability: capability.String(),
		}
	}
	return desc, nil
}

// HandleMessage dispatches a message that starts with the resolved prefix.
// Messages from bots, without the prefix, or naming no legacy command are
// ignored.
func (d *Dispatcher) HandleMessage(ctx context.Context, evt *platform.MessageEvent) error {
	msg := &evt.Message
	if msg.Author.Bot {
		return nil
	}

	name, args, ok := ParseLegacy(msg.Content, d.prefix.CommandPrefix(ctx, msg))
	if !ok {
		return nil
	}

	desc, found := d.registry.Get(name, LegacyText)
	if !found {
		d.logger.Debug("no legacy command for message", "command", name)
		return nil
	}

	return d.traced(ctx, desc.Name, LegacyText, func(ctx context.Context) error {
		return desc.Legacy.Handler(ctx, evt, args)
	})
}

// ParseLegacy splits content into a case-folded command name and its
// argument string. ok is false when content does not start with prefix or
// names no command.
func ParseLegacy(content, commandPrefix string) (name, args string, ok bool) {
	if commandPrefix == "" || !strings.HasPrefix(content, commandPrefix) {
		return "", "", false
	}

	rest := content[len(commandPrefix):]
	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end < 0 {
		end = len(rest)
	}
	name = NormalizeName(rest[:end])
	if name == "" {
		return "", "", false
	}
	args = strings.TrimLeftFunc(rest[end:], unicode.IsSpace)
	return name, args, true
}

func (d *Dispatcher) traced(ctx context.Context, name string, capability Capability, fn func(context.Context) error) error {
	ctx, span := d.tracer.Start(ctx, "command.dispatch", trace.WithAttributes(
		attribute.String("command.name", name),
		attribute.String("command.capability", capability.String()),
	))
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (d *Dispatcher) replyLegacyError(ctx context.Context, err error, payload any) {
	evt, ok := payload.(*platform.MessageEvent)
	if !ok || evt.Responder == nil {
		return
	}
	resp := errs.ErrorResponse(err)
	resp.Ephemeral = false
	if sendErr := evt.Responder.Reply(ctx, resp); sendErr != nil {
		d.logger.Error("failed to reply with legacy command error",
			"message_id", evt.Message.ID,
			"error", sendErr)
	}
}
