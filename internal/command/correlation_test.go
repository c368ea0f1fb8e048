// ABOUTME: Tests for two-phase correlation.
// ABOUTME: Covers modal custom ids, single-use consumption and expiry.

package command

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lokesh58/lichobi/internal/errs"
	"github.com/lokesh58/lichobi/internal/events"
	"github.com/lokesh58/lichobi/internal/platform"
	"github.com/lokesh58/lichobi/internal/platform/platformtest"
)

type extract struct {
	Language string
	Code     string
}

func phaseOne(t *testing.T, c *Correlator[extract], resp *platformtest.Responder) {
	t.Helper()
	err := c.Begin(t.Context(), &platform.InteractionEvent{
		Interaction: platform.Interaction{ID: "i-1", Kind: platform.InteractionMessageAction},
		Responder:   resp,
	}, extract{Language: "py", Code: "print(1)"}, platform.Modal{Title: "Program Input"})
	require.NoError(t, err)
}

func TestCorrelator_BeginShowsModal(t *testing.T) {
	c := NewCorrelator[extract]("codeInput-", 0)
	defer c.Close()

	resp := &platformtest.Responder{}
	phaseOne(t, c, resp)

	require.Len(t, resp.Modals, 1)
	assert.Equal(t, "codeInput-i-1", resp.Modals[0].CustomID)
	assert.Equal(t, "Program Input", resp.Modals[0].Title)
	assert.True(t, c.Matches(resp.Modals[0].CustomID))
	assert.False(t, c.Matches("other-i-1"))
	assert.Equal(t, 1, c.Pending())
}

func TestCorrelator_SingleUse(t *testing.T) {
	c := NewCorrelator[extract]("codeInput-", 0)
	defer c.Close()

	phaseOne(t, c, &platformtest.Responder{})

	got, err := c.Complete("codeInput-i-1")
	require.NoError(t, err)
	assert.Equal(t, "print(1)", got.Code)

	_, err = c.Complete("codeInput-i-1")
	var expired *errs.ExpiredError
	require.ErrorAs(t, err, &expired)
	assert.Equal(t, "i-1", expired.CorrelationID)
	assert.Equal(t, errs.MsgExpired, expired.DisplayMessage())
}

func TestCorrelator_Expired(t *testing.T) {
	c := NewCorrelator[extract]("codeInput-", 20*time.Millisecond)
	defer c.Close()

	phaseOne(t, c, &platformtest.Responder{})
	time.Sleep(30 * time.Millisecond)

	_, err := c.Complete("codeInput-i-1")
	assert.ErrorIs(t, err, errs.ErrExpired)
}

func TestCorrelator_BeginDropsEntryWhenModalFails(t *testing.T) {
	c := NewCorrelator[extract]("codeInput-", 0)
	defer c.Close()

	err := c.Begin(t.Context(), &platform.InteractionEvent{
		Interaction: platform.Interaction{ID: "i-2"},
		Responder:   &platformtest.Responder{Err: errors.New("interaction expired")},
	}, extract{}, platform.Modal{})
	require.Error(t, err)
	assert.Equal(t, 0, c.Pending())
}

func TestCorrelator_ListenerRunsOnceUnderDuplicateDelivery(t *testing.T) {
	c := NewCorrelator[extract]("codeInput-", 0)
	defer c.Close()
	phaseOne(t, c, &platformtest.Responder{})

	hub := platform.NewHub(nil)
	defer hub.Close()
	m := events.NewManager(hub, nil)

	var runs atomic.Int32
	require.NoError(t, m.RegisterEvent(c.Listener("runcode-input", func(_ context.Context, evt *platform.InteractionEvent, payload extract) error {
		assert.Equal(t, "py", payload.Language)
		assert.Equal(t, "42", evt.Interaction.Fields["programInput"])
		runs.Add(1)
		return nil
	})))

	submit := func() *platform.InteractionEvent {
		return &platform.InteractionEvent{
			Interaction: platform.Interaction{
				ID:       "i-submit",
				Kind:     platform.InteractionModalSubmit,
				CustomID: "codeInput-i-1",
				Fields:   map[string]string{"programInput": "42"},
			},
			Responder: &platformtest.Responder{},
		}
	}

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Emit(t.Context(), platform.EventInteractionCreate, submit())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), runs.Load())
}

func TestCorrelator_ListenerIgnoresOtherInteractions(t *testing.T) {
	c := NewCorrelator[extract]("codeInput-", 0)
	defer c.Close()

	called := false
	l := c.Listener("x", func(context.Context, *platform.InteractionEvent, extract) error {
		called = true
		return nil
	})

	for _, in := range []platform.Interaction{
		{Kind: platform.InteractionChatInput, CustomID: "codeInput-1"},
		{Kind: platform.InteractionModalSubmit, CustomID: "feedback-1"},
	} {
		require.NoError(t, l.Handler(t.Context(), &platform.InteractionEvent{Interaction: in}))
	}
	assert.False(t, called)
}
