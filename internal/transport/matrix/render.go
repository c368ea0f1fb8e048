// ABOUTME: Renders platform responses as Matrix message content.
// ABOUTME: Embeds become markdown sections, converted to HTML with goldmark.

package matrix

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/lokesh58/lichobi/internal/platform"
)

// markdown flattens a response into markdown text.
func markdown(resp platform.Response) string {
	var parts []string
	if resp.Content != "" {
		parts = append(parts, resp.Content)
	}
	for _, e := range resp.Embeds {
		var b strings.Builder
		if e.Title != "" {
			fmt.Fprintf(&b, "**%s**\n\n", e.Title)
		}
		if e.Description != "" {
			b.WriteString(e.Description)
			b.WriteString("\n\n")
		}
		for _, f := range e.Fields {
			fmt.Fprintf(&b, "**%s**\n\n%s\n\n", f.Name, f.Value)
		}
		if e.Footer != "" {
			fmt.Fprintf(&b, "_%s_\n", e.Footer)
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// messageContent builds an m.text event; replyTo may be empty.
func messageContent(resp platform.Response, replyTo id.EventID) (*event.MessageEventContent, error) {
	body := markdown(resp)
	var html bytes.Buffer
	if err := goldmark.Convert([]byte(body), &html); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	content := &event.MessageEventContent{
		MsgType:       event.MsgText,
		Body:          body,
		Format:        event.FormatHTML,
		FormattedBody: strings.TrimSpace(html.String()),
	}
	if replyTo != "" {
		content.RelatesTo = &event.RelatesTo{InReplyTo: &event.InReplyTo{EventID: replyTo}}
	}
	return content, nil
}

var pillRe = regexp.MustCompile(`https://matrix\.to/#/(@[^"'<>/?\s]+)`)

// mentions collects mentioned user ids from the mentions block and from
// matrix.to pills in the formatted body.
func mentions(content *event.MessageEventContent) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	if content.Mentions != nil {
		for _, u := range content.Mentions.UserIDs {
			add(u.String())
		}
	}
	for _, m := range pillRe.FindAllStringSubmatch(content.FormattedBody, -1) {
		add(m[1])
	}
	return out
}

// stripReplyFallback removes the quoted "> " lines some clients prepend to replies.
func stripReplyFallback(body string) string {
	if !strings.HasPrefix(body, "> ") {
		return body
	}
	lines := strings.Split(body, "\n")
	i := 0
	for i < len(lines) && strings.HasPrefix(lines[i], ">") {
		i++
	}
	if i < len(lines) && lines[i] == "" {
		i++
	}
	return strings.Join(lines[i:], "\n")
}
