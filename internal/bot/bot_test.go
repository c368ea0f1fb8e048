// ABOUTME: Tests for bot assembly, boot and transport supervision.
// ABOUTME: Uses in-memory transports that emit events on the bot's hub.

package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lokesh58/lichobi/internal/command"
	"github.com/lokesh58/lichobi/internal/config"
	"github.com/lokesh58/lichobi/internal/mocks"
	"github.com/lokesh58/lichobi/internal/platform"
	"github.com/lokesh58/lichobi/internal/platform/platformtest"
	"github.com/lokesh58/lichobi/internal/plugin"
)

type fakeTransport struct {
	name  string
	hub   *platform.Hub
	emit  *platform.MessageEvent
	err   error
	ready chan struct{}
}

func (f *fakeTransport) Name() string { return f.name }

func (f *fakeTransport) Run(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	if f.emit != nil {
		f.hub.Emit(ctx, platform.EventMessageCreate, f.emit)
	}
	close(f.ready)
	<-ctx.Done()
	return nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Bot.CorrelationTTL = time.Minute
	return cfg
}

func TestNewWithoutCollaborators(t *testing.T) {
	b, err := New(t.Context(), testConfig(), nil, WithTransports())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	assert.Nil(t, b.Host.AI)
	assert.Nil(t, b.Host.Runner)
	assert.Empty(t, b.Transports())

	report, err := b.Boot(t.Context())
	require.NoError(t, err)
	// info needs nothing; chat, runcode and dog-chat need collaborators.
	assert.Equal(t, plugin.Report{Commands: 1, Failed: 3}, report)
	assert.Equal(t, []string{"info"}, b.Commands.Names())
	assert.Equal(t, 0, b.Participants.Len())

	_, err = b.Boot(t.Context())
	assert.Error(t, err)
}

func TestBootWithCollaborators(t *testing.T) {
	ctrl := gomock.NewController(t)
	b, err := New(t.Context(), testConfig(), nil,
		WithTransports(),
		WithAI(mocks.NewMockProvider(ctrl)),
		WithRunner(mocks.NewMockRunner(ctrl)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	report, err := b.Boot(t.Context())
	require.NoError(t, err)
	assert.Equal(t, plugin.Report{Commands: 3, Participants: 1}, report)
	assert.Equal(t, []string{"chat", "info", "runcode"}, b.Commands.Names())
	assert.Equal(t, 1, b.Commands.Len(command.MessageAction))
	assert.Contains(t, b.Events.Listeners(), ReadyListenerName)
}

func TestBootCustomCatalog(t *testing.T) {
	catalog := (&plugin.Catalog{}).AddCommand("ping", func(*plugin.Host) (*command.Descriptor, error) {
		return &command.Descriptor{
			Name: "ping",
			Legacy: &command.LegacySpec{
				Description: "Pong",
				Handler: func(ctx context.Context, evt *platform.MessageEvent, _ string) error {
					return evt.Responder.Reply(ctx, platform.Response{Content: "Pong!"})
				},
			},
		}, nil
	})

	b, err := New(t.Context(), testConfig(), nil, WithTransports(), WithCatalog(catalog))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	report, err := b.Boot(t.Context())
	require.NoError(t, err)
	assert.Equal(t, plugin.Report{Commands: 1}, report)
}

func TestRunDispatchesTransportEvents(t *testing.T) {
	resp := &platformtest.MessageResponder{}
	ft := &fakeTransport{
		name:  "fake",
		ready: make(chan struct{}),
		emit: &platform.MessageEvent{
			Message:   platform.Message{ID: "m1", ChannelID: "c1", Content: "!info", Author: platform.User{ID: "u1"}},
			Responder: resp,
			Session:   platformtest.NewSession(),
		},
	}
	b, err := New(t.Context(), testConfig(), nil, WithTransports(ft))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	ft.hub = b.Hub

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	select {
	case <-ft.ready:
	case <-time.After(5 * time.Second):
		t.Fatal("transport did not start")
	}
	require.Equal(t, 1, resp.ReplyCount())
	require.Len(t, resp.Replies[0].Embeds, 1)
	assert.Equal(t, "lichobi's info", resp.Replies[0].Embeds[0].Title)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunWithoutTransports(t *testing.T) {
	b, err := New(t.Context(), testConfig(), nil, WithTransports())
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	assert.ErrorIs(t, b.Run(t.Context()), ErrNoTransports)
}

func TestRunTransportFailure(t *testing.T) {
	boom := errors.New("connection refused")
	ok := &fakeTransport{name: "ok", ready: make(chan struct{})}
	bad := &fakeTransport{name: "bad", err: boom}

	b, err := New(t.Context(), testConfig(), nil, WithTransports(ok, bad))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	ok.hub = b.Hub

	err = b.Run(t.Context())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad transport")
}

func TestTransportsFromConfig(t *testing.T) {
	cfg := testConfig()
	ts, err := Transports(cfg, platform.NewHub(nil), nil)
	require.NoError(t, err)
	assert.Empty(t, ts)

	cfg.Discord.Token = "token"
	cfg.Matrix = config.MatrixConfig{Enabled: true, Homeserver: "https://matrix.example.org", Username: "bot", Password: "pw"}
	ts, err = Transports(cfg, platform.NewHub(nil), nil)
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, "discord", ts[0].Name())
	assert.Equal(t, "matrix", ts[1].Name())
}
