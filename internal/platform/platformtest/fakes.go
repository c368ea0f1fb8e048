// ABOUTME: In-memory responders and session for tests of packages that consume platform events.
// ABOUTME: Records every outbound call so tests can assert on what was sent.

// Package platformtest provides fakes for the platform interfaces.
package platformtest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lokesh58/lichobi/internal/platform"
)

// Responder records interaction responses.
type Responder struct {
	mu sync.Mutex

	Replies   []platform.Response
	Edits     []platform.Response
	FollowUps []platform.Response
	Modals    []platform.Modal
	Choices   [][]platform.Choice
	Defers    int

	// History is returned by FetchRecent, newest first.
	History []platform.Message

	// Err, if set, is returned from every call.
	Err error

	replied  bool
	deferred bool
}

var (
	_ platform.Responder     = (*Responder)(nil)
	_ platform.HistoryReader = (*Responder)(nil)
)

func (r *Responder) Defer(_ context.Context, _ bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Defers++
	r.deferred = true
	return nil
}

func (r *Responder) Reply(_ context.Context, resp platform.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Replies = append(r.Replies, resp)
	r.replied = true
	return nil
}

func (r *Responder) EditReply(_ context.Context, resp platform.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Edits = append(r.Edits, resp)
	return nil
}

func (r *Responder) FollowUp(_ context.Context, resp platform.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.FollowUps = append(r.FollowUps, resp)
	return nil
}

func (r *Responder) ShowModal(_ context.Context, modal platform.Modal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Modals = append(r.Modals, modal)
	r.replied = true
	return nil
}

func (r *Responder) Autocomplete(_ context.Context, choices []platform.Choice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Choices = append(r.Choices, choices)
	return nil
}

func (r *Responder) Replied() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replied
}

func (r *Responder) Deferred() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deferred
}

func (r *Responder) FetchRecent(_ context.Context, limit int) ([]platform.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return recent(r.History, limit), nil
}

// MarkReplied sets the replied state without recording a response.
func (r *Responder) MarkReplied() {
	r.mu.Lock()
	r.replied = true
	r.mu.Unlock()
}

// AllResponses returns replies, edits and follow-ups in that order.
func (r *Responder) AllResponses() []platform.Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]platform.Response, 0, len(r.Replies)+len(r.Edits)+len(r.FollowUps))
	out = append(out, r.Replies...)
	out = append(out, r.Edits...)
	out = append(out, r.FollowUps...)
	return out
}

// MessageResponder records message replies and serves a fixed history.
type MessageResponder struct {
	mu sync.Mutex

	Replies []platform.Response
	Sent    []platform.Response
	Typing  int

	// History is returned by FetchRecent, newest first.
	History []platform.Message
	// Messages is consulted by FetchMessage.
	Messages map[string]platform.Message

	Err error
}

var _ platform.MessageResponder = (*MessageResponder)(nil)

func (m *MessageResponder) Reply(_ context.Context, resp platform.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Replies = append(m.Replies, resp)
	return nil
}

func (m *MessageResponder) Send(_ context.Context, resp platform.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, resp)
	return nil
}

func (m *MessageResponder) SendTyping(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Typing++
	return nil
}

func (m *MessageResponder) FetchRecent(_ context.Context, limit int) ([]platform.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return recent(m.History, limit), nil
}

func recent(history []platform.Message, limit int) []platform.Message {
	limit = max(min(limit, len(history)), 0)
	out := make([]platform.Message, limit)
	copy(out, history[:limit])
	return out
}

func (m *MessageResponder) FetchMessage(_ context.Context, id string) (*platform.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.Messages[id]
	if !ok {
		return nil, errors.New("message not found")
	}
	return &msg, nil
}

// ReplyCount returns the number of recorded replies.
func (m *MessageResponder) ReplyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Replies)
}

// Session is a fixed-identity session that records published declarations.
type Session struct {
	mu sync.Mutex

	User    platform.User
	Ping    time.Duration
	Scope   string
	Decls   []platform.Declaration
	Publish int
	Err     error
}

var _ platform.Session = (*Session)(nil)

// NewSession returns a session whose bot user has id "bot".
func NewSession() *Session {
	return &Session{User: platform.User{ID: "bot", Username: "lichobi", Bot: true}}
}

func (s *Session) Self() platform.User { return s.User }

func (s *Session) Latency() time.Duration { return s.Ping }

func (s *Session) PublishCommands(_ context.Context, scope string, decls []platform.Declaration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Publish++
	s.Scope = scope
	s.Decls = decls
	return nil
}
