// ABOUTME: The info command: reports roundtrip and transport latency.
// ABOUTME: Available as a chat-input command and as a legacy text command.

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/lokesh58/lichobi/internal/command"
	"github.com/lokesh58/lichobi/internal/platform"
	"github.com/lokesh58/lichobi/internal/plugin"
)

const infoDescription = "Get some info about me."

// now is replaced in tests.
var now = time.Now

// NewInfo builds the info command.
func NewInfo(h *plugin.Host) (*command.Descriptor, error) {
	return &command.Descriptor{
		Name:        "info",
		Description: infoDescription,
		ChatInput: &command.ChatInputSpec{
			Handler: func(ctx context.Context, evt *platform.InteractionEvent, _ command.Options) error {
				if err := evt.Responder.Defer(ctx, false); err != nil {
					return fmt.Errorf("deferring info reply: %w", err)
				}
				embed := infoEmbed(evt.Session, since(evt.Interaction.CreatedAt))
				return evt.Responder.EditReply(ctx, platform.Response{Embeds: []platform.Embed{embed}})
			},
		},
		Legacy: &command.LegacySpec{
			Handler: func(ctx context.Context, evt *platform.MessageEvent, _ string) error {
				embed := infoEmbed(evt.Session, since(evt.Message.CreatedAt))
				return evt.Responder.Reply(ctx, platform.Response{Embeds: []platform.Embed{embed}})
			},
		},
	}, nil
}

func since(t time.Time) time.Duration {
	if t.IsZero() {
		return 0
	}
	return max(now().Sub(t), 0)
}

func infoEmbed(session platform.Session, roundtrip time.Duration) platform.Embed {
	self := session.Self()
	return platform.Embed{
		Title: self.Name() + "'s info",
		Description: fmt.Sprintf("⏱️ **Roundtrip Latency:** %dms\n📡 **Transport Latency:** %dms",
			roundtrip.Milliseconds(), session.Latency().Milliseconds()),
		Color: platform.ColorBlurple,
	}
}
