// ABOUTME: Gemini provider on the Google GenAI SDK.
// ABOUTME: Folds system messages into the system instruction and maps API failures to user messages.

package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/lokesh58/lichobi/internal/errs"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash-001"

// User-facing messages for upstream failures.
const (
	MsgInvalidKey  = "Invalid AI API key configuration."
	MsgQuota       = "AI service quota exceeded. Please try again later."
	MsgRateLimit   = "AI service rate limit exceeded. Please try again later."
	MsgUnavailable = "AI service is currently unavailable. Please try again later."
)

// contentGenerator is the subset of *genai.Models the provider uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider generates replies with a Gemini model.
type GeminiProvider struct {
	models contentGenerator
	model  string
}

// NewGeminiProvider creates a provider for the Gemini API.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiProvider(client.Models, model), nil
}

func newGeminiProvider(models contentGenerator, model string) *GeminiProvider {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiProvider{models: models, model: model}
}

// GenerateResponse sends the conversation and returns the reply text.
func (g *GeminiProvider) GenerateResponse(ctx context.Context, messages []Message) (Response, error) {
	contents, config := buildRequest(messages)

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return Response{}, mapGeminiError(err)
	}
	if resp == nil {
		return Response{}, &errs.UserDisplayableError{Message: MsgUnavailable}
	}

	out := Response{Content: resp.Text()}
	if md := resp.UsageMetadata; md != nil {
		out.Usage = &Usage{
			InputTokens:  int(md.PromptTokenCount),
			OutputTokens: int(md.CandidatesTokenCount),
		}
	}
	return out, nil
}

// buildRequest converts messages into Gemini contents. System messages are
// joined into the system instruction.
func buildRequest(messages []Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))

	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	config := &genai.GenerateContentConfig{}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	return contents, config
}

// mapGeminiError converts an API failure into a displayable error.
func mapGeminiError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "API_KEY_INVALID"), strings.Contains(msg, "Invalid API key"):
		return &errs.UserDisplayableError{Message: MsgInvalidKey, Cause: err}
	case strings.Contains(msg, "QUOTA_EXCEEDED"):
		return &errs.UserDisplayableError{Message: MsgQuota, Cause: err}
	case strings.Contains(msg, "RATE_LIMIT_EXCEEDED"), strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return &errs.UserDisplayableError{Message: MsgRateLimit, Cause: err}
	default:
		return &errs.UserDisplayableError{Message: MsgUnavailable, Cause: err}
	}
}
