// ABOUTME: Command descriptors: identity, option schema, and one handler per capability.
// ABOUTME: Capabilities are derived from which handlers are set.

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/lokesh58/lichobi/internal/platform"
)

// ErrNoCapabilities indicates a descriptor with no handler set.
var ErrNoCapabilities = errors.New("command implements no capabilities")

// ErrInvalidDescriptor indicates a descriptor that failed validation.
var ErrInvalidDescriptor = errors.New("invalid command descriptor")

var validate = validator.New()

// ChatInputHandler handles a structured invocation with its extracted options.
type ChatInputHandler func(ctx context.Context, evt *platform.InteractionEvent, opts Options) error

// AutocompleteHandler answers an autocomplete request for the focused option.
type AutocompleteHandler func(ctx context.Context, evt *platform.InteractionEvent, focused platform.OptionValue) error

// MessageActionHandler handles a context-menu action on a message.
type MessageActionHandler func(ctx context.Context, evt *platform.InteractionEvent, target *platform.Message) error

// UserActionHandler handles a context-menu action on a user.
type UserActionHandler func(ctx context.Context, evt *platform.InteractionEvent, target *platform.User) error

// LegacyHandler handles a prefix-text invocation. args is everything after the
// command name with leading whitespace trimmed.
type LegacyHandler func(ctx context.Context, evt *platform.MessageEvent, args string) error

// Descriptor is the registered record of one command. It is not mutated after
// registration.
type Descriptor struct {
	Name        string `validate:"required,max=32"`
	Description string `validate:"max=100"`

	ChatInput     *ChatInputSpec
	Legacy        *LegacySpec
	MessageAction MessageActionHandler
	UserAction    UserActionHandler

	// Setup runs once after the descriptor is inserted into at least one table.
	Setup func(ctx context.Context) error
}

// ChatInputSpec declares a structured invocation.
type ChatInputSpec struct {
	// Description overrides Descriptor.Description for the declaration.
	Description  string   `validate:"max=100"`
	Options      []Option `validate:"max=25,dive"`
	Handler      ChatInputHandler
	Autocomplete AutocompleteHandler
}

// Option declares one chat-input option and its constraints.
type Option struct {
	Name         string `validate:"required,min=1,max=32,lowercase"`
	Description  string `validate:"required,min=1,max=100"`
	Type         platform.OptionType
	Required     bool
	MinValue     *float64
	MaxValue     *float64
	MinLength    *int
	MaxLength    *int
	Choices      []platform.Choice `validate:"max=25"`
	Autocomplete bool
	// ChannelTypes restricts channel options. Empty allows every type.
	ChannelTypes []platform.ChannelType
}

// LegacySpec declares a prefix-text invocation.
type LegacySpec struct {
	Description   string
	ExpectedUsage string
	Handler       LegacyHandler
}

// Capabilities returns the set of capabilities d implements.
func (d *Descriptor) Capabilities() Capabilities {
	var c Capabilities
	if d.ChatInput != nil && d.ChatInput.Handler != nil {
		c |= Capabilities(ChatInput)
	}
	if d.Legacy != nil && d.Legacy.Handler != nil {
		c |= Capabilities(LegacyText)
	}
	if d.MessageAction != nil {
		c |= Capabilities(MessageAction)
	}
	if d.UserAction != nil {
		c |= Capabilities(UserAction)
	}
	return c
}

// Validate checks the descriptor's identity and option schema.
func (d *Descriptor) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalidDescriptor)
	}
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidDescriptor, d.Name, err)
	}
	if d.Capabilities() == 0 {
		return fmt.Errorf("%w: %q", ErrNoCapabilities, d.Name)
	}
	if d.ChatInput != nil {
		if d.chatInputDescription() == "" {
			return fmt.Errorf("%w %q: chat input commands need a description", ErrInvalidDescriptor, d.Name)
		}
		if err := validateOptions(d.ChatInput.Options); err != nil {
			return fmt.Errorf("%w %q: %w", ErrInvalidDescriptor, d.Name, err)
		}
	}
	return nil
}

func (d *Descriptor) chatInputDescription() string {
	if d.ChatInput != nil && d.ChatInput.Description != "" {
		return d.ChatInput.Description
	}
	return d.Description
}

// validateOptions checks the constraints the struct tags cannot express.
func validateOptions(opts []Option) error {
	seen := make(map[string]bool, len(opts))
	optionalSeen := false
	for _, opt := range opts {
		if seen[opt.Name] {
			return fmt.Errorf("duplicate option %q", opt.Name)
		}
		seen[opt.Name] = true

		if opt.Required && optionalSeen {
			return fmt.Errorf("required option %q follows an optional one", opt.Name)
		}
		if !opt.Required {
			optionalSeen = true
		}

		if opt.Type < platform.OptionString || opt.Type > platform.OptionAttachment {
			return fmt.Errorf("option %q has unsupported type %s", opt.Name, opt.Type)
		}
		if opt.Autocomplete && len(opt.Choices) > 0 {
			return fmt.Errorf("option %q cannot have both choices and autocomplete", opt.Name)
		}
		if opt.MinValue != nil && opt.MaxValue != nil && *opt.MinValue > *opt.MaxValue {
			return fmt.Errorf("option %q has min_value above max_value", opt.Name)
		}
		if opt.MinLength != nil && opt.MaxLength != nil && *opt.MinLength > *opt.MaxLength {
			return fmt.Errorf("option %q has min_length above max_length", opt.Name)
		}
	}
	return nil
}

// Float returns a pointer to v, for option bounds.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for option lengths.
func Int(v int) *int { return &v }
