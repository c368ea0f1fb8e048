// ABOUTME: Tests for listener registration and error isolation.
// ABOUTME: Covers returned errors, panics, custom and default error handlers, and once.

package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokesh58/lichobi/internal/errs"
	"github.com/lokesh58/lichobi/internal/platform"
	"github.com/lokesh58/lichobi/internal/platform/platformtest"
)

func newTestManager(t *testing.T) (*Manager, *platform.Hub) {
	t.Helper()
	hub := platform.NewHub(nil)
	t.Cleanup(hub.Close)
	return NewManager(hub, nil), hub
}

func interactionEvent(resp *platformtest.Responder) *platform.InteractionEvent {
	return &platform.InteractionEvent{
		Interaction: platform.Interaction{ID: "i-1", Kind: platform.InteractionChatInput, CommandName: "echo"},
		Responder:   resp,
	}
}

func TestManager_ErrorDoesNotAffectSibling(t *testing.T) {
	m, hub := newTestManager(t)

	var completed atomic.Bool
	require.NoError(t, m.RegisterEvent(Listener{
		Name:    "failing",
		Event:   platform.EventMessageCreate,
		Handler: func(context.Context, any) error { return errors.New("boom") },
	}))
	require.NoError(t, m.RegisterEvent(Listener{
		Name:  "ok",
		Event: platform.EventMessageCreate,
		Handler: func(context.Context, any) error {
			completed.Store(true)
			return nil
		},
	}))

	hub.Emit(t.Context(), platform.EventMessageCreate, &platform.MessageEvent{})
	assert.True(t, completed.Load())
}

func TestManager_PanicDoesNotAffectSibling(t *testing.T) {
	m, hub := newTestManager(t)

	var completed atomic.Bool
	var caught atomic.Value
	require.NoError(t, m.RegisterEvent(Listener{
		Name:    "panicking",
		Event:   platform.EventMessageCreate,
		Handler: func(context.Context, any) error { panic("kaboom") },
		OnError: func(_ context.Context, err error, _ any) { caught.Store(err) },
	}))
	require.NoError(t, m.RegisterEvent(Listener{
		Name:  "ok",
		Event: platform.EventMessageCreate,
		Handler: func(context.Context, any) error {
			completed.Store(true)
			return nil
		},
	}))

	assert.NotPanics(t, func() {
		hub.Emit(t.Context(), platform.EventMessageCreate, &platform.MessageEvent{})
	})
	assert.True(t, completed.Load())

	err, _ := caught.Load().(error)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrListenerPanic)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestManager_CustomErrorHandlerOverridesDefault(t *testing.T) {
	m, hub := newTestManager(t)
	resp := &platformtest.Responder{}

	var custom atomic.Int32
	require.NoError(t, m.RegisterEvent(Listener{
		Name:    "custom",
		Event:   platform.EventInteractionCreate,
		Handler: func(context.Context, any) error { return errors.New("boom") },
		OnError: func(context.Context, error, any) { custom.Add(1) },
	}))

	hub.Emit(t.Context(), platform.EventInteractionCreate, interactionEvent(resp))

	assert.Equal(t, int32(1), custom.Load())
	assert.Empty(t, resp.Replies, "default handler must not run")
}

func TestManager_DefaultInteractionHandler_Replies(t *testing.T) {
	m, hub := newTestManager(t)
	resp := &platformtest.Responder{}

	require.NoError(t, m.RegisterEvent(OnInteraction("fails", func(context.Context, *platform.InteractionEvent) error {
		return errs.NewUserInputError("Bad input")
	})))

	hub.Emit(t.Context(), platform.EventInteractionCreate, interactionEvent(resp))

	require.Len(t, resp.Replies, 1)
	assert.True(t, resp.Replies[0].Ephemeral)
	require.Len(t, resp.Replies[0].Embeds, 1)
	assert.Equal(t, "Bad input", resp.Replies[0].Embeds[0].Description)
	assert.Equal(t, platform.ColorRed, resp.Replies[0].Embeds[0].Color)
}

func TestManager_DefaultInteractionHandler_FollowsUpWhenDeferred(t *testing.T) {
	m, hub := newTestManager(t)
	resp := &platformtest.Responder{}

	require.NoError(t, m.RegisterEvent(OnInteraction("defers-then-fails", func(ctx context.Context, evt *platform.InteractionEvent) error {
		if err := evt.Responder.Defer(ctx, false); err != nil {
			return err
		}
		return errors.New("backend down")
	})))

	hub.Emit(t.Context(), platform.EventInteractionCreate, interactionEvent(resp))

	assert.Empty(t, resp.Replies)
	require.Len(t, resp.FollowUps, 1)
	assert.Equal(t, errs.MsgUnexpected, resp.FollowUps[0].Embeds[0].Description)
}

func TestManager_DefaultInteractionHandler_SendFailureContained(t *testing.T) {
	m, hub := newTestManager(t)
	resp := &platformtest.Responder{Err: errors.New("platform unavailable")}

	require.NoError(t, m.RegisterEvent(OnInteraction("fails", func(context.Context, *platform.InteractionEvent) error {
		return errors.New("boom")
	})))

	assert.NotPanics(t, func() {
		hub.Emit(t.Context(), platform.EventInteractionCreate, interactionEvent(resp))
	})
}

func TestManager_PanickingErrorHandlerContained(t *testing.T) {
	m, hub := newTestManager(t)
	m.SetDefaultErrorHandler(platform.EventMessageCreate, func(context.Context, error, any) {
		panic("error handler broke")
	})

	require.NoError(t, m.RegisterEvent(OnMessage("fails", func(context.Context, *platform.MessageEvent) error {
		return errors.New("boom")
	})))

	assert.NotPanics(t, func() {
		hub.Emit(t.Context(), platform.EventMessageCreate, &platform.MessageEvent{})
	})
}

func TestManager_Once(t *testing.T) {
	m, hub := newTestManager(t)

	var calls atomic.Int32
	require.NoError(t, m.RegisterEvent(Listener{
		Name:  "ready",
		Event: platform.EventReady,
		Once:  true,
		Handler: func(context.Context, any) error {
			calls.Add(1)
			return nil
		},
	}))

	hub.Emit(t.Context(), platform.EventReady, nil)
	hub.Emit(t.Context(), platform.EventReady, nil)
	assert.Equal(t, int32(1), calls.Load())
}

func TestManager_TypedHelperRejectsWrongPayload(t *testing.T) {
	m, hub := newTestManager(t)

	var caught atomic.Value
	l := OnMessage("typed", func(context.Context, *platform.MessageEvent) error { return nil })
	l.OnError = func(_ context.Context, err error, _ any) { caught.Store(err) }
	require.NoError(t, m.RegisterEvent(l))

	hub.Emit(t.Context(), platform.EventMessageCreate, "not an event")

	err, _ := caught.Load().(error)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected payload")
}

func TestManager_RegisterEvent_Invalid(t *testing.T) {
	m, _ := newTestManager(t)

	err := m.RegisterEvent(Listener{Name: "no-handler", Event: platform.EventReady})
	assert.ErrorIs(t, err, ErrInvalidListener)
}

func TestManager_Listeners(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.RegisterEvent(OnMessage("a", func(context.Context, *platform.MessageEvent) error { return nil })))
	require.NoError(t, m.RegisterEvent(OnInteraction("b", func(context.Context, *platform.InteractionEvent) error { return nil })))

	assert.Equal(t, []string{"a", "b"}, m.Listeners())
}
