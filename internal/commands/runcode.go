// ABOUTME: The runcode command: runs the first fenced code block of a message remotely.
// ABOUTME: The message action asks for program input through a modal before running.

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/lokesh58/lichobi/internal/coderunner"
	"github.com/lokesh58/lichobi/internal/command"
	"github.com/lokesh58/lichobi/internal/errs"
	"github.com/lokesh58/lichobi/internal/platform"
	"github.com/lokesh58/lichobi/internal/plugin"
)

const (
	runcodeModalPrefix = "codeInput-"
	runcodeInputID     = "programInput"
	runcodeListener    = "runcode-input-modal-submit"

	maxEmbedField = 1024
	// room for the code fence and the truncation marker
	maxFieldContent = maxEmbedField - 50
)

// ErrNoCodeRunner is returned when no code runner is configured.
var ErrNoCodeRunner = errors.New("no code runner configured")

// Language is a runnable language and the fence tags that select it.
type Language struct {
	Code    string
	Display string
	Aliases []string
}

var languages = []Language{
	{Code: "c", Display: "C"},
	{Code: "cpp", Display: "C++", Aliases: []string{"c++", "cc"}},
	{Code: "js", Display: "JavaScript", Aliases: []string{"javascript"}},
	{Code: "ts", Display: "TypeScript", Aliases: []string{"typescript"}},
	{Code: "py", Display: "Python", Aliases: []string{"python"}},
	{Code: "rs", Display: "Rust", Aliases: []string{"rust"}},
}

var codeFenceRe = regexp.MustCompile("(?s)```([^\\s`]*)\\s(.*?)```")

// CodeExtract is a code block pulled out of a message.
type CodeExtract struct {
	Language Language
	Code     string
}

type runcodeCommand struct {
	runner     coderunner.Runner
	correlator *command.Correlator[CodeExtract]
	logger     *slog.Logger
}

// NewRuncode builds the runcode command.
func NewRuncode(h *plugin.Host) (*command.Descriptor, error) {
	if h.Runner == nil {
		return nil, ErrNoCodeRunner
	}
	c := &runcodeCommand{
		runner:     h.Runner,
		correlator: plugin.NewCorrelator[CodeExtract](h, runcodeModalPrefix),
		logger:     hostLogger(h).With("command", "runcode"),
	}

	return &command.Descriptor{
		Name:          "runcode",
		Description:   "Run the code inside a code block!",
		MessageAction: c.handleMessageAction,
		Legacy: &command.LegacySpec{
			Description:   "Run the code inside a code block!",
			ExpectedUsage: "```<language>\\n<code>\\n```",
			Handler:       c.handleLegacy,
		},
		Setup: func(ctx context.Context) error {
			if h.Events == nil {
				return fmt.Errorf("runcode needs an event manager for modal submissions")
			}
			return h.Events.RegisterEvent(c.correlator.Listener(runcodeListener, c.handleModalSubmit))
		},
	}, nil
}

func (c *runcodeCommand) handleMessageAction(ctx context.Context, evt *platform.InteractionEvent, target *platform.Message) error {
	extract, err := ExtractCode(target.Content)
	if err != nil {
		return err
	}
	return c.correlator.Begin(ctx, evt, extract, inputModal())
}

func (c *runcodeCommand) handleModalSubmit(ctx context.Context, evt *platform.InteractionEvent, extract CodeExtract) error {
	if err := evt.Responder.Defer(ctx, false); err != nil {
		return fmt.Errorf("deferring runcode reply: %w", err)
	}
	input := evt.Interaction.Fields[runcodeInputID]
	embed, err := c.run(ctx, extract, input)
	if err != nil {
		return err
	}
	return evt.Responder.EditReply(ctx, platform.Response{Embeds: []platform.Embed{embed}})
}

func (c *runcodeCommand) handleLegacy(ctx context.Context, evt *platform.MessageEvent, _ string) error {
	extract, err := ExtractCode(evt.Message.Content)
	if err != nil {
		return err
	}
	embed, err := c.run(ctx, extract, "")
	if err != nil {
		return err
	}
	return evt.Responder.Reply(ctx, platform.Response{Embeds: []platform.Embed{embed}})
}

func (c *runcodeCommand) run(ctx context.Context, extract CodeExtract, input string) (platform.Embed, error) {
	res, err := c.runner.RunCode(ctx, coderunner.Params{
		Language: extract.Language.Code,
		Code:     extract.Code,
		Input:    input,
	})
	if err != nil {
		return platform.Embed{}, &errs.UserDisplayableError{
			Message: "The code runner is unavailable right now. Please try again later.",
			Cause:   err,
		}
	}
	c.logger.Debug("code run finished", "language", extract.Language.Code, "failed", res.Error != "")
	return resultEmbed(extract, input, res), nil
}

func inputModal() platform.Modal {
	return platform.Modal{
		Title: "Program Input",
		Inputs: []platform.TextInput{{
			CustomID: runcodeInputID,
			Label:    "Enter input for the program (optional)",
			Style:    platform.TextInputParagraph,
			Required: false,
		}},
	}
}

// ExtractCode returns the first fenced code block in content and the language
// its fence names.
func ExtractCode(content string) (CodeExtract, error) {
	m := codeFenceRe.FindStringSubmatch(content)
	if m == nil || m[1] == "" || m[2] == "" {
		return CodeExtract{}, errs.NewUserInputError("The message does not contain a valid code block")
	}
	lang, ok := lookupLanguage(m[1])
	if !ok {
		return CodeExtract{}, &errs.UserInputError{Message: unsupportedLanguageMessage(m[1])}
	}
	return CodeExtract{Language: lang, Code: m[2]}, nil
}

func lookupLanguage(tag string) (Language, bool) {
	tag = strings.ToLower(tag)
	for _, l := range languages {
		if l.Code == tag || slices.Contains(l.Aliases, tag) {
			return l, true
		}
	}
	return Language{}, false
}

func unsupportedLanguageMessage(tag string) string {
	lines := []string{
		fmt.Sprintf("Language `%s` is not supported.", tag),
		"Supported languages are:",
	}
	for _, l := range languages {
		codes := make([]string, 0, len(l.Aliases)+1)
		for _, code := range append([]string{l.Code}, l.Aliases...) {
			codes = append(codes, "`"+code+"`")
		}
		lines = append(lines, fmt.Sprintf("• %s (%s)", l.Display, strings.Join(codes, ", ")))
	}
	return strings.Join(lines, "\n")
}

func resultEmbed(extract CodeExtract, input string, res coderunner.Result) platform.Embed {
	color := platform.ColorGreen
	if res.Error != "" {
		color = platform.ColorYellow
	}
	return platform.Embed{
		Title: "Code Runner Result",
		Color: color,
		Fields: []platform.EmbedField{
			{Name: extract.Language.Display + " Code", Value: fieldBlock(extract.Code, extract.Language.Code)},
			{Name: "Input", Value: fieldOr(input, "No input provided")},
			{Name: "Output", Value: fieldOr(res.Output, "No output generated")},
			{Name: "Error", Value: fieldOr(res.Error, "No errors occurred")},
		},
	}
}

func fieldOr(text, placeholder string) string {
	if text == "" {
		return "*" + placeholder + "*"
	}
	return fieldBlock(text, "")
}

// fieldBlock wraps text in a code block that fits an embed field.
func fieldBlock(text, lang string) string {
	if len([]rune(text)) > maxFieldContent {
		text = truncate(text, maxFieldContent) + "\n... (truncated)"
	}
	return "```" + lang + "\n" + text + "\n```"
}
