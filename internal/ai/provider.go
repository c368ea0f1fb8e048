// ABOUTME: AI text-generation provider contract and provider selection.
// ABOUTME: Providers are constructed explicitly and injected, never reached through a global.

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

//go:generate mockgen -destination=../mocks/ai_provider.go -package=mocks github.com/lokesh58/lichobi/internal/ai Provider

// ErrUnsupportedProvider indicates an unknown provider name.
var ErrUnsupportedProvider = errors.New("unsupported AI provider")

// Role is the author of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation sent to the provider.
type Message struct {
	Role    Role
	Content string
}

// Usage reports token counts when the provider returns them.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response is the generated reply.
type Response struct {
	Content string
	Usage   *Usage
}

// Provider generates a reply for a conversation.
type Provider interface {
	GenerateResponse(ctx context.Context, messages []Message) (Response, error)
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
}

// New creates the provider named by cfg.Provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini", "":
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
}
