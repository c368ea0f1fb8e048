// ABOUTME: Tests for Matrix response rendering and message conversion.
// ABOUTME: Covers markdown flattening, HTML output, mentions and reply fallbacks.

package matrix

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/lokesh58/lichobi/internal/platform"
)

func TestMarkdown(t *testing.T) {
	resp := platform.Response{
		Content: "hello",
		Embeds: []platform.Embed{{
			Title:       "Title",
			Description: "desc",
			Fields:      []platform.EmbedField{{Name: "Output", Value: "42"}},
			Footer:      "foot",
		}},
	}
	assert.Equal(t, "hello\n\n---\n\n**Title**\n\ndesc\n\n**Output**\n\n42\n\n_foot_", markdown(resp))
	assert.Equal(t, "", markdown(platform.Response{}))
	assert.Equal(t, "**T**", markdown(platform.Response{Embeds: []platform.Embed{{Title: "T"}}}))
}

func TestMessageContent(t *testing.T) {
	content, err := messageContent(platform.Response{Content: "**bold**"}, "$evt")
	require.NoError(t, err)
	assert.Equal(t, event.MsgText, content.MsgType)
	assert.Equal(t, "**bold**", content.Body)
	assert.Equal(t, event.FormatHTML, content.Format)
	assert.Equal(t, "<p><strong>bold</strong></p>", content.FormattedBody)
	require.NotNil(t, content.RelatesTo)
	assert.Equal(t, id.EventID("$evt"), content.RelatesTo.GetReplyTo())

	plain, err := messageContent(platform.Response{Content: "hi"}, "")
	require.NoError(t, err)
	assert.Nil(t, plain.RelatesTo)
}

func TestMentions(t *testing.T) {
	content := &event.MessageEventContent{
		Mentions:      &event.Mentions{UserIDs: []id.UserID{"@bot:example.org"}},
		FormattedBody: `<a href="https://matrix.to/#/@bot:example.org">bot</a> and <a href="https://matrix.to/#/@alice:example.org">alice</a>`,
	}
	assert.Equal(t, []string{"@bot:example.org", "@alice:example.org"}, mentions(content))
	assert.Empty(t, mentions(&event.MessageEventContent{Body: "no one"}))
}

func TestStripReplyFallback(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"fallback", "> <@alice:example.org> earlier\n> more\n\nactual reply", "actual reply"},
		{"multiline reply", "> <@a:b> q\n\nline one\nline two", "line one\nline two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripReplyFallback(tt.in))
		})
	}
}

func TestToMessage(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	evt := &event.Event{
		ID:        "$msg",
		RoomID:    "!room:example.org",
		Sender:    "@alice:example.org",
		Timestamp: ts.UnixMilli(),
	}
	content := &event.MessageEventContent{
		MsgType:   event.MsgText,
		Body:      "> <@bot:example.org> hi\n\nhello bot",
		Mentions:  &event.Mentions{UserIDs: []id.UserID{"@bot:example.org"}},
		RelatesTo: &event.RelatesTo{InReplyTo: &event.InReplyTo{EventID: "$prev"}},
	}

	msg := toMessage(evt, content, "@bot:example.org")
	assert.Equal(t, "$msg", msg.ID)
	assert.Equal(t, "!room:example.org", msg.ChannelID)
	assert.Equal(t, "@alice:example.org", msg.Author.ID)
	assert.Equal(t, "alice", msg.Author.Username)
	assert.False(t, msg.Author.Bot)
	assert.Equal(t, "hello bot", msg.Content)
	assert.Equal(t, "$prev", msg.ReferencedMessageID)
	assert.True(t, msg.MentionsUser("@bot:example.org"))
	assert.True(t, msg.CreatedAt.Equal(ts))
	assert.False(t, msg.DM)

	own := toMessage(&event.Event{Sender: "@bot:example.org"}, &event.MessageEventContent{}, "@bot:example.org")
	assert.True(t, own.Author.Bot)
}

func TestMessageOf(t *testing.T) {
	raw := func(v any) event.Content {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		return event.Content{VeryRaw: data}
	}

	text := &event.Event{Type: event.EventMessage, Content: raw(map[string]any{"msgtype": "m.text", "body": "hi"})}
	content, ok := messageOf(text)
	require.True(t, ok)
	assert.Equal(t, "hi", content.Body)

	image := &event.Event{Type: event.EventMessage, Content: raw(map[string]any{"msgtype": "m.image", "body": "cat.png"})}
	_, ok = messageOf(image)
	assert.False(t, ok)

	reaction := &event.Event{Type: event.EventReaction}
	_, ok = messageOf(reaction)
	assert.False(t, ok)
}

func TestRoomAllowed(t *testing.T) {
	open := &Transport{}
	assert.True(t, open.roomAllowed("!any:example.org"))

	restricted := &Transport{cfg: Config{AllowedRooms: []string{"!a:example.org"}}}
	assert.True(t, restricted.roomAllowed("!a:example.org"))
	assert.False(t, restricted.roomAllowed("!b:example.org"))
}

func TestNewValidates(t *testing.T) {
	_, err := New(Config{Homeserver: "https://example.org"}, platform.NewHub(nil), nil)
	assert.Error(t, err)

	tr, err := New(Config{Homeserver: "https://example.org", Username: "bot", Password: "pw"}, platform.NewHub(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, Name, tr.Name())
	assert.ErrorIs(t, tr.PublishCommands(t.Context(), "", nil), platform.ErrUnsupported)
	assert.Zero(t, tr.Latency())
}
