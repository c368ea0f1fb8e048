// ABOUTME: Translation from Matrix room events to platform messages.
// ABOUTME: Handles text, notice and emote messages; other message types are dropped.

package matrix

import (
	"time"

	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/lokesh58/lichobi/internal/platform"
)

func toUser(u id.UserID, self id.UserID) platform.User {
	return platform.User{
		ID:          u.String(),
		Username:    u.Localpart(),
		DisplayName: u.Localpart(),
		Bot:         u == self,
	}
}

// toMessage converts a parsed m.room.message event. Matrix rooms are not
// classified as direct, so DM is always false.
func toMessage(evt *event.Event, content *event.MessageEventContent, self id.UserID) platform.Message {
	return platform.Message{
		ID:                  evt.ID.String(),
		ChannelID:           evt.RoomID.String(),
		Author:              toUser(evt.Sender, self),
		Content:             stripReplyFallback(content.Body),
		Mentions:            mentions(content),
		ReferencedMessageID: content.RelatesTo.GetReplyTo().String(),
		CreatedAt:           time.UnixMilli(evt.Timestamp),
	}
}

// messageOf parses evt as a text message. ok is false for other events.
func messageOf(evt *event.Event) (*event.MessageEventContent, bool) {
	if evt.Type != event.EventMessage {
		return nil, false
	}
	if evt.Content.Parsed == nil {
		if err := evt.Content.ParseRaw(evt.Type); err != nil {
			return nil, false
		}
	}
	content, ok := evt.Content.Parsed.(*event.MessageEventContent)
	if !ok {
		return nil, false
	}
	switch content.MsgType {
	case event.MsgText, event.MsgNotice, event.MsgEmote:
		return content, true
	}
	return nil, false
}
