// ABOUTME: Tests for build-time catalog installation.
// ABOUTME: Covers successful installs, constructor errors, panics and nil products.

package plugin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokesh58/lichobi/internal/chat"
	"github.com/lokesh58/lichobi/internal/command"
	"github.com/lokesh58/lichobi/internal/platform"
)

func newInstaller() *Installer {
	return &Installer{
		Host:         &Host{},
		Commands:     command.NewRegistry(nil),
		Participants: chat.NewRegistry(nil),
	}
}

func pingCommand(name string) CommandConstructor {
	return func(h *Host) (*command.Descriptor, error) {
		return &command.Descriptor{
			Name: name,
			Legacy: &command.LegacySpec{
				Description: "replies pong",
				Handler: func(ctx context.Context, evt *platform.MessageEvent, args string) error {
					return nil
				},
			},
		}, nil
	}
}

func echoParticipant(name string, priority int) ParticipantConstructor {
	return func(h *Host) (*chat.Participant, error) {
		return &chat.Participant{
			Name:     name,
			Priority: priority,
			ShouldRespond: func(ctx context.Context, evt *platform.MessageEvent) (bool, error) {
				return true, nil
			},
			Respond: func(ctx context.Context, evt *platform.MessageEvent) (string, error) {
				return evt.Message.Content, nil
			},
		}, nil
	}
}

func TestCatalogInstall(t *testing.T) {
	in := newInstaller()

	var c Catalog
	c.AddCommand("ping", pingCommand("ping")).
		AddCommand("broken", func(*Host) (*command.Descriptor, error) {
			return nil, errors.New("missing credentials")
		}).
		AddCommand("panics", func(*Host) (*command.Descriptor, error) {
			panic("boom")
		}).
		AddCommand("nil", func(*Host) (*command.Descriptor, error) {
			return nil, nil
		}).
		AddParticipant("echo", echoParticipant("echo", 1))
	require.Equal(t, 5, c.Len())

	report := c.Install(context.Background(), in)
	assert.Equal(t, Report{Commands: 1, Participants: 1, Failed: 3}, report)

	_, ok := in.Commands.Get("ping", command.LegacyText)
	assert.True(t, ok)
	_, ok = in.Participants.Get("echo")
	assert.True(t, ok)
}

func TestInstallCommandRejectsInvalidDescriptor(t *testing.T) {
	in := newInstaller()
	ok := in.InstallCommand(context.Background(), "test", func(*Host) (*command.Descriptor, error) {
		return &command.Descriptor{Name: "nothing"}, nil
	})
	assert.False(t, ok)
	assert.Empty(t, in.Commands.Names())
}

func TestHostCloseReverseOrder(t *testing.T) {
	h := &Host{}
	var order []string
	h.OnClose(closerFunc(func() error { order = append(order, "first"); return nil }))
	h.OnClose(closerFunc(func() error { order = append(order, "second"); return errors.New("second failed") }))

	err := h.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second failed")
	assert.Equal(t, []string{"second", "first"}, order)

	assert.NoError(t, h.Close())
}

func TestHostHelpersRegisterClosers(t *testing.T) {
	h := &Host{}
	corr := NewCorrelator[string](h, "test-")
	tracker := NewConversationTracker(h, time.Minute)
	require.NotNil(t, corr)
	require.NotNil(t, tracker)
	assert.Len(t, h.closers, 2)
	assert.NoError(t, h.Close())
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
