// ABOUTME: The chat command: asks the AI provider a question with optional channel context.
// ABOUTME: Context messages are sanitized and truncated before they reach the provider.

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/lokesh58/lichobi/internal/ai"
	"github.com/lokesh58/lichobi/internal/command"
	"github.com/lokesh58/lichobi/internal/errs"
	"github.com/lokesh58/lichobi/internal/platform"
	"github.com/lokesh58/lichobi/internal/plugin"
	"github.com/lokesh58/lichobi/internal/prefix"
)

const (
	chatSystemPrompt = "You are a helpful AI assistant in a chat server. Provide concise, helpful responses."

	maxQueryDisplay    = 100
	maxResponseDisplay = 2000
	maxContextMessage  = 200
)

// ErrNoAIProvider is returned by constructors that need an AI provider when
// none is configured.
var ErrNoAIProvider = errors.New("no AI provider configured")

var (
	userMentionRe    = regexp.MustCompile(`<@!?\d+>`)
	channelMentionRe = regexp.MustCompile(`<#\d+>`)
	roleMentionRe    = regexp.MustCompile(`<@&\d+>`)
	codeBlockRe      = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe     = regexp.MustCompile("`([^`]+)`")
)

type chatCommand struct {
	provider ai.Provider
	prefix   prefix.Resolver
	logger   *slog.Logger
}

// NewChat builds the chat command.
func NewChat(h *plugin.Host) (*command.Descriptor, error) {
	if h.AI == nil {
		return nil, ErrNoAIProvider
	}
	c := &chatCommand{
		provider: h.AI,
		prefix:   h.Prefix,
		logger:   hostLogger(h).With("command", "chat"),
	}
	if c.prefix == nil {
		c.prefix = prefix.NewStatic(prefix.Default)
	}

	return &command.Descriptor{
		Name:        "chat",
		Description: "Chat with AI assistant with optional channel context",
		ChatInput: &command.ChatInputSpec{
			Options: []command.Option{
				{
					Name:        "query",
					Description: "Your question or prompt for the AI",
					Type:        platform.OptionString,
					Required:    true,
					MaxLength:   command.Int(2000),
				},
				{
					Name:        "context_messages",
					Description: "Number of recent messages to include as context (1-100)",
					Type:        platform.OptionInteger,
					MinValue:    command.Float(1),
					MaxValue:    command.Float(100),
				},
				{
					Name:        "include_usernames",
					Description: "Include usernames in context messages",
					Type:        platform.OptionBoolean,
				},
			},
			Handler: c.handleChatInput,
		},
		Legacy: &command.LegacySpec{
			Description:   "Ask the AI assistant a question",
			ExpectedUsage: "<your question>",
			Handler:       c.handleLegacy,
		},
	}, nil
}

func (c *chatCommand) handleChatInput(ctx context.Context, evt *platform.InteractionEvent, opts command.Options) error {
	query, _ := opts.String("query")
	contextCount, _ := opts.Int("context_messages")
	includeUsernames, ok := opts.Bool("include_usernames")
	if !ok {
		includeUsernames = true
	}

	if err := evt.Responder.Defer(ctx, false); err != nil {
		return fmt.Errorf("deferring chat reply: %w", err)
	}

	history, _ := evt.Responder.(platform.HistoryReader)
	embed, err := c.answer(ctx, history, query, int(contextCount), includeUsernames)
	if err != nil {
		if !errs.IsDisplayable(err) {
			return err
		}
		embed = errs.ErrorEmbed(err)
	}
	return evt.Responder.EditReply(ctx, platform.Response{Embeds: []platform.Embed{embed}})
}

func (c *chatCommand) handleLegacy(ctx context.Context, evt *platform.MessageEvent, args string) error {
	query := strings.TrimSpace(args)
	if query == "" {
		p := c.prefix.CommandPrefix(ctx, &evt.Message)
		return errs.NewUserInputError("Please provide a query. Usage: `%schat <your question>`", p)
	}

	if err := evt.Responder.SendTyping(ctx); err != nil {
		c.logger.Debug("typing indicator failed", "error", err)
	}

	embed, err := c.answer(ctx, nil, query, 0, true)
	if err != nil {
		if !errs.IsDisplayable(err) {
			return err
		}
		embed = errs.ErrorEmbed(err)
	}
	return evt.Responder.Reply(ctx, platform.Response{Embeds: []platform.Embed{embed}})
}

func (c *chatCommand) answer(ctx context.Context, history platform.HistoryReader, query string, contextCount int, includeUsernames bool) (platform.Embed, error) {
	messages := []ai.Message{{Role: ai.RoleSystem, Content: chatSystemPrompt}}

	if contextCount > 0 && history != nil {
		lines, err := c.contextLines(ctx, history, contextCount, includeUsernames)
		if err != nil {
			c.logger.Warn("failed to fetch context messages", "error", err)
		} else if len(lines) > 0 {
			messages = append(messages, ai.Message{
				Role: ai.RoleSystem,
				Content: fmt.Sprintf("Here are the %d most recent messages from this channel for context:\n\n%s",
					len(lines), strings.Join(lines, "\n")),
			})
		}
	}
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: query})

	resp, err := c.provider.GenerateResponse(ctx, messages)
	if err != nil {
		return platform.Embed{}, err
	}
	return responseEmbed(query, resp, contextCount), nil
}

// contextLines returns up to count human messages, oldest first.
func (c *chatCommand) contextLines(ctx context.Context, history platform.HistoryReader, count int, includeUsernames bool) ([]string, error) {
	recent, err := history.FetchRecent(ctx, count)
	if err != nil {
		return nil, err
	}
	slices.Reverse(recent)

	var lines []string
	for _, msg := range recent {
		if msg.Author.Bot || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		lines = append(lines, sanitizeContext(msg.Content, msg.Author.Name(), includeUsernames))
	}
	return lines, nil
}

// sanitizeContext strips mentions and code from a context message and caps
// its length.
func sanitizeContext(content, username string, includeUsername bool) string {
	s := userMentionRe.ReplaceAllString(content, "@user")
	s = channelMentionRe.ReplaceAllString(s, "#channel")
	s = roleMentionRe.ReplaceAllString(s, "@role")
	s = codeBlockRe.ReplaceAllString(s, "[code block]")
	s = inlineCodeRe.ReplaceAllString(s, "$1")
	s = strings.TrimSpace(s)

	if len([]rune(s)) > maxContextMessage {
		s = truncate(s, maxContextMessage-3) + "..."
	}
	if includeUsername {
		return username + ": " + s
	}
	return s
}

func responseEmbed(query string, resp ai.Response, contextCount int) platform.Embed {
	displayQuery := query
	if len([]rune(query)) > maxQueryDisplay {
		displayQuery = truncate(query, maxQueryDisplay-3) + "..."
	}
	displayResponse := resp.Content
	if len([]rune(displayResponse)) > maxResponseDisplay {
		displayResponse = truncate(displayResponse, maxResponseDisplay-50) + "\n\n*[Response truncated]*"
	}

	var footer []string
	if contextCount > 0 {
		footer = append(footer, fmt.Sprintf("Used %d messages as context", contextCount))
	}
	if u := resp.Usage; u != nil && (u.InputTokens > 0 || u.OutputTokens > 0) {
		footer = append(footer, fmt.Sprintf("Tokens: %d in, %d out", u.InputTokens, u.OutputTokens))
	}

	return platform.Embed{
		Title: "🤖 AI Response",
		Color: platform.ColorBlurple,
		Fields: []platform.EmbedField{
			{Name: "Query", Value: displayQuery},
			{Name: "Response", Value: displayResponse},
		},
		Footer: strings.Join(footer, " • "),
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func hostLogger(h *plugin.Host) *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
