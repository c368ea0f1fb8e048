// ABOUTME: Command prefix resolution for legacy text commands.
// ABOUTME: A single global default; per-guild prefixes are not supported.

// Package prefix resolves the command prefix that marks a message as a
// legacy text command.
package prefix

import (
	"context"
	"strings"

	"github.com/lokesh58/lichobi/internal/platform"
)

// Default is the prefix used when none is configured.
const Default = "!"

// Resolver returns the command prefix in effect for a message.
type Resolver interface {
	CommandPrefix(ctx context.Context, msg *platform.Message) string
}

// Static resolves every message to the same prefix.
type Static struct {
	Prefix string
}

// NewStatic returns a resolver for prefix, falling back to Default when empty.
func NewStatic(prefix string) Static {
	if prefix == "" {
		prefix = Default
	}
	return Static{Prefix: prefix}
}

func (s Static) CommandPrefix(context.Context, *platform.Message) string {
	if s.Prefix == "" {
		return Default
	}
	return s.Prefix
}

// HasPrefix reports whether msg starts with the prefix r resolves for it.
func HasPrefix(ctx context.Context, r Resolver, msg *platform.Message) bool {
	p := r.CommandPrefix(ctx, msg)
	return p != "" && strings.HasPrefix(msg.Content, p)
}
