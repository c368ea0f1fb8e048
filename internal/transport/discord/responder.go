// ABOUTME: Discord implementations of the interaction and message responders.
// ABOUTME: Interaction state (replied, deferred) is tracked locally for error reporting.

package discord

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/lokesh58/lichobi/internal/platform"
)

// maxFetch is the most messages one history request returns.
const maxFetch = 100

type interactionResponder struct {
	s        *discordgo.Session
	i        *discordgo.Interaction
	replied  atomic.Bool
	deferred atomic.Bool
}

var (
	_ platform.Responder     = (*interactionResponder)(nil)
	_ platform.HistoryReader = (*interactionResponder)(nil)
)

func flags(ephemeral bool) discordgo.MessageFlags {
	if ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

func (r *interactionResponder) Defer(ctx context.Context, ephemeral bool) error {
	err := r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: flags(ephemeral)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("deferring interaction: %w", err)
	}
	r.deferred.Store(true)
	return nil
}

func (r *interactionResponder) Reply(ctx context.Context, resp platform.Response) error {
	err := r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: resp.Content,
			Embeds:  toEmbeds(resp.Embeds),
			Flags:   flags(resp.Ephemeral),
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("replying to interaction: %w", err)
	}
	r.replied.Store(true)
	return nil
}

func (r *interactionResponder) EditReply(ctx context.Context, resp platform.Response) error {
	embeds := toEmbeds(resp.Embeds)
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}
	_, err := r.s.InteractionResponseEdit(r.i, &discordgo.WebhookEdit{
		Content: &resp.Content,
		Embeds:  &embeds,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("editing interaction reply: %w", err)
	}
	r.replied.Store(true)
	return nil
}

func (r *interactionResponder) FollowUp(ctx context.Context, resp platform.Response) error {
	_, err := r.s.FollowupMessageCreate(r.i, true, &discordgo.WebhookParams{
		Content: resp.Content,
		Embeds:  toEmbeds(resp.Embeds),
		Flags:   flags(resp.Ephemeral),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("sending follow-up: %w", err)
	}
	return nil
}

func (r *interactionResponder) ShowModal(ctx context.Context, modal platform.Modal) error {
	err := r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: toModal(modal),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("showing modal: %w", err)
	}
	r.replied.Store(true)
	return nil
}

func (r *interactionResponder) Autocomplete(ctx context.Context, choices []platform.Choice) error {
	err := r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: toChoices(choices)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("sending autocomplete choices: %w", err)
	}
	r.replied.Store(true)
	return nil
}

func (r *interactionResponder) Replied() bool  { return r.replied.Load() }
func (r *interactionResponder) Deferred() bool { return r.deferred.Load() }

func (r *interactionResponder) FetchRecent(ctx context.Context, limit int) ([]platform.Message, error) {
	return fetchRecent(ctx, r.s, r.i.ChannelID, limit)
}

type messageResponder struct {
	s   *discordgo.Session
	msg *discordgo.Message
}

var _ platform.MessageResponder = (*messageResponder)(nil)

func (r *messageResponder) Reply(ctx context.Context, resp platform.Response) error {
	_, err := r.s.ChannelMessageSendComplex(r.msg.ChannelID, &discordgo.MessageSend{
		Content:   resp.Content,
		Embeds:    toEmbeds(resp.Embeds),
		Reference: r.msg.Reference(),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("replying to message: %w", err)
	}
	return nil
}

func (r *messageResponder) Send(ctx context.Context, resp platform.Response) error {
	_, err := r.s.ChannelMessageSendComplex(r.msg.ChannelID, &discordgo.MessageSend{
		Content: resp.Content,
		Embeds:  toEmbeds(resp.Embeds),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}

func (r *messageResponder) SendTyping(ctx context.Context) error {
	return r.s.ChannelTyping(r.msg.ChannelID, discordgo.WithContext(ctx))
}

func (r *messageResponder) FetchRecent(ctx context.Context, limit int) ([]platform.Message, error) {
	return fetchRecent(ctx, r.s, r.msg.ChannelID, limit)
}

func (r *messageResponder) FetchMessage(ctx context.Context, id string) (*platform.Message, error) {
	m, err := r.s.ChannelMessage(r.msg.ChannelID, id, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching message %s: %w", id, err)
	}
	msg := toMessage(m)
	return &msg, nil
}

// fetchRecent returns up to limit messages from channelID, newest first.
func fetchRecent(ctx context.Context, s *discordgo.Session, channelID string, limit int) ([]platform.Message, error) {
	limit = min(max(limit, 1), maxFetch)
	msgs, err := s.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching channel history: %w", err)
	}
	out := make([]platform.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessage(m))
	}
	return out, nil
}
