// ABOUTME: Matrix message responder: replies, typing and room history.
// ABOUTME: History reads decrypt encrypted events when E2EE is enabled.

package matrix

import (
	"context"
	"fmt"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/lokesh58/lichobi/internal/platform"
)

const (
	typingTimeout = 30 * time.Second
	maxFetch      = 100
)

type messageResponder struct {
	t     *Transport
	room  id.RoomID
	event id.EventID
}

var _ platform.MessageResponder = (*messageResponder)(nil)

func (r *messageResponder) Reply(ctx context.Context, resp platform.Response) error {
	return r.send(ctx, resp, r.event)
}

func (r *messageResponder) Send(ctx context.Context, resp platform.Response) error {
	return r.send(ctx, resp, "")
}

func (r *messageResponder) send(ctx context.Context, resp platform.Response, replyTo id.EventID) error {
	content, err := messageContent(resp, replyTo)
	if err != nil {
		return err
	}
	if r.t.cfg.TypingIndicator {
		r.t.setTyping(r.room, false)
	}
	if _, err := r.t.client.SendMessageEvent(ctx, r.room, event.EventMessage, content); err != nil {
		return fmt.Errorf("sending message to %s: %w", r.room, err)
	}
	return nil
}

func (r *messageResponder) SendTyping(ctx context.Context) error {
	if !r.t.cfg.TypingIndicator {
		return nil
	}
	if _, err := r.t.client.UserTyping(ctx, r.room, true, typingTimeout); err != nil {
		return fmt.Errorf("setting typing indicator: %w", err)
	}
	return nil
}

func (r *messageResponder) FetchRecent(ctx context.Context, limit int) ([]platform.Message, error) {
	limit = min(max(limit, 1), maxFetch)
	resp, err := r.t.client.Messages(ctx, r.room, "", "", mautrix.DirectionBackward, nil, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching room history: %w", err)
	}
	// Backward pagination returns the newest event first.
	out := make([]platform.Message, 0, len(resp.Chunk))
	for _, evt := range resp.Chunk {
		evt.RoomID = r.room
		if msg, ok := r.t.convert(ctx, evt); ok {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (r *messageResponder) FetchMessage(ctx context.Context, eventID string) (*platform.Message, error) {
	evt, err := r.t.client.GetEvent(ctx, r.room, id.EventID(eventID))
	if err != nil {
		return nil, fmt.Errorf("fetching event %s: %w", eventID, err)
	}
	evt.RoomID = r.room
	msg, ok := r.t.convert(ctx, evt)
	if !ok {
		return nil, fmt.Errorf("event %s is not a text message", eventID)
	}
	return &msg, nil
}
