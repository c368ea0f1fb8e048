// ABOUTME: The dog-chat participant: an AI assistant with a light dog personality.
// ABOUTME: Claims mentions, DMs, replies to the bot and messages in an active conversation.

package participants

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/lokesh58/lichobi/internal/ai"
	"github.com/lokesh58/lichobi/internal/chat"
	"github.com/lokesh58/lichobi/internal/platform"
	"github.com/lokesh58/lichobi/internal/plugin"
)

const (
	// DogChatPriority puts dog-chat ahead of lower-priority participants.
	DogChatPriority = 100
	// ConversationTTL is how long a conversation stays active without messages.
	ConversationTTL = 60 * time.Second
	// historyLimit is the number of channel messages sent as context,
	// including the inbound one.
	historyLimit = 11
)

const dogChatPrompt = `You are a helpful chat bot with a subtle dog personality. You are operating as a bot with the user ID %s and name %s. Keep your responses concise and to the point while occasionally including light dog puns or references. Here are your characteristics:

- Keep responses short and direct (MUST be under 1900 characters)
- Be helpful and informative first, playful second
- Use occasional dog puns naturally (but don't force them)
- Maintain a friendly but not overly excited tone
- Only mention dog activities when relevant to the conversation
- Be intelligent and helpful while keeping the subtle dog charm
- Remember you are a bot responding to messages in channels or DMs

Focus on being useful while adding just a touch of dog personality through clever wordplay when appropriate. IMPORTANT: Keep all responses under 1900 characters to fit message limits.`

type dogChat struct {
	provider ai.Provider
	tracker  *chat.ConversationTracker
	logger   *slog.Logger
}

// NewDogChat builds the dog-chat participant.
func NewDogChat(h *plugin.Host) (*chat.Participant, error) {
	if h.AI == nil {
		return nil, fmt.Errorf("dog-chat: no AI provider configured")
	}
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d := &dogChat{
		provider: h.AI,
		tracker:  plugin.NewConversationTracker(h, ConversationTTL),
		logger:   logger.With("participant", "dog-chat"),
	}
	return &chat.Participant{
		Name:          "dog-chat",
		Description:   "A helpful assistant with a subtle dog personality for chat conversations",
		Priority:      DogChatPriority,
		ShouldRespond: d.shouldRespond,
		Respond:       d.respond,
	}, nil
}

func (d *dogChat) shouldRespond(ctx context.Context, evt *platform.MessageEvent) (bool, error) {
	msg := &evt.Message
	self := evt.Session.Self()

	claimed := msg.MentionsUser(self.ID) ||
		msg.DM ||
		d.tracker.Active(msg.ChannelID, msg.Author.ID) ||
		d.isReplyToBot(ctx, evt, self.ID)
	if !claimed {
		return false, nil
	}
	d.tracker.Touch(msg.ChannelID, msg.Author.ID)
	return true, nil
}

func (d *dogChat) isReplyToBot(ctx context.Context, evt *platform.MessageEvent, selfID string) bool {
	msg := &evt.Message
	if msg.ReferencedMessageID == "" {
		return false
	}
	if msg.ReferencedAuthorID != "" {
		return msg.ReferencedAuthorID == selfID
	}
	ref, err := evt.Responder.FetchMessage(ctx, msg.ReferencedMessageID)
	if err != nil {
		d.logger.Debug("could not fetch referenced message", "message_id", msg.ReferencedMessageID, "error", err)
		return false
	}
	return ref.Author.ID == selfID
}

func (d *dogChat) respond(ctx context.Context, evt *platform.MessageEvent) (string, error) {
	self := evt.Session.Self()
	messages := []ai.Message{{
		Role:    ai.RoleSystem,
		Content: fmt.Sprintf(dogChatPrompt, self.ID, self.Name()),
	}}

	recent, err := evt.Responder.FetchRecent(ctx, historyLimit)
	if err != nil {
		return "", fmt.Errorf("fetching recent messages: %w", err)
	}
	slices.SortStableFunc(recent, func(a, b platform.Message) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	for _, m := range recent {
		role := ai.RoleUser
		if m.Author.ID == self.ID {
			role = ai.RoleAssistant
		}
		messages = append(messages, ai.Message{
			Role:    role,
			Content: fmt.Sprintf("%s (%s): %s", m.Author.Name(), m.Author.ID, m.Content),
		})
	}

	resp, err := d.provider.GenerateResponse(ctx, messages)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
