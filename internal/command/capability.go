// ABOUTME: Command capabilities: the four shapes a command can be invoked in.
// ABOUTME: Stored as a bitmask derived from which handlers a descriptor sets.

package command

import "strings"

// Capability is one way a command can be invoked.
type Capability uint8

const (
	// ChatInput is a structured slash-style invocation with typed options.
	ChatInput Capability = 1 << iota
	// LegacyText is a free-text invocation starting with the command prefix.
	LegacyText
	// MessageAction is a context-menu action targeting a message.
	MessageAction
	// UserAction is a context-menu action targeting a user.
	UserAction
)

// All returns every capability in table order.
func All() []Capability {
	return []Capability{ChatInput, LegacyText, MessageAction, UserAction}
}

func (c Capability) String() string {
	switch c {
	case ChatInput:
		return "chat_input"
	case LegacyText:
		return "legacy_text"
	case MessageAction:
		return "message_action"
	case UserAction:
		return "user_action"
	default:
		return "unknown"
	}
}

// Capabilities is a set of Capability values.
type Capabilities uint8

// Has reports whether c includes capability.
func (c Capabilities) Has(capability Capability) bool {
	return c&Capabilities(capability) != 0
}

// List returns the capabilities in c in table order.
func (c Capabilities) List() []Capability {
	var out []Capability
	for _, capability := range All() {
		if c.Has(capability) {
			out = append(out, capability)
		}
	}
	return out
}

func (c Capabilities) String() string {
	list := c.List()
	if len(list) == 0 {
		return "none"
	}
	names := make([]string, len(list))
	for i, capability := range list {
		names[i] = capability.String()
	}
	return strings.Join(names, ",")
}
