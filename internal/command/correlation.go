// ABOUTME: Two-phase interaction correlation backed by a TTL cache.
// ABOUTME: Phase one stores a payload and opens a modal; phase two consumes it exactly once.

package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lokesh58/lichobi/internal/errs"
	"github.com/lokesh58/lichobi/internal/events"
	"github.com/lokesh58/lichobi/internal/platform"
	"github.com/lokesh58/lichobi/internal/ttlcache"
)

// Default correlation timings.
const (
	DefaultCorrelationTTL   = 5 * time.Minute
	DefaultCorrelationSweep = time.Minute
)

// Correlator stitches a phase-one interaction to its modal submission.
// The modal's custom id is the prefix followed by the phase-one interaction id.
type Correlator[T any] struct {
	prefix string
	cache  *ttlcache.Cache[T]
}

// NewCorrelator creates a correlator whose entries live for ttl. A zero ttl
// uses DefaultCorrelationTTL with a DefaultCorrelationSweep sweep.
func NewCorrelator[T any](customIDPrefix string, ttl time.Duration, opts ...ttlcache.Option) *Correlator[T] {
	if ttl <= 0 {
		ttl = DefaultCorrelationTTL
		opts = append([]ttlcache.Option{ttlcache.WithSweepInterval(DefaultCorrelationSweep)}, opts...)
	}
	return &Correlator[T]{
		prefix: customIDPrefix,
		cache:  ttlcache.New[T](ttl, opts...),
	}
}

// CustomID returns the modal custom id for a phase-one interaction id.
func (c *Correlator[T]) CustomID(interactionID string) string {
	return c.prefix + interactionID
}

// Matches reports whether customID belongs to this correlator.
func (c *Correlator[T]) Matches(customID string) bool {
	return strings.HasPrefix(customID, c.prefix)
}

// Begin stores payload under the interaction's id and shows modal with the
// correlated custom id. The entry is dropped if the modal cannot be shown.
func (c *Correlator[T]) Begin(ctx context.Context, evt *platform.InteractionEvent, payload T, modal platform.Modal) error {
	id := evt.Interaction.ID
	c.cache.Set(id, payload)

	modal.CustomID = c.CustomID(id)
	if err := evt.Responder.ShowModal(ctx, modal); err != nil {
		c.cache.Delete(id)
		return fmt.Errorf("show modal: %w", err)
	}
	return nil
}

// Complete consumes the payload for customID. A missing, expired or already
// consumed entry yields an ExpiredError.
func (c *Correlator[T]) Complete(customID string) (T, error) {
	id := strings.TrimPrefix(customID, c.prefix)
	payload, ok := c.cache.Take(id)
	if !ok {
		var zero T
		return zero, &errs.ExpiredError{CorrelationID: id}
	}
	return payload, nil
}

// Listener builds the phase-two listener. It ignores everything but modal
// submissions whose custom id matches, and hands fn the consumed payload.
func (c *Correlator[T]) Listener(name string, fn func(ctx context.Context, evt *platform.InteractionEvent, payload T) error) events.Listener {
	return events.OnInteraction(name, func(ctx context.Context, evt *platform.InteractionEvent) error {
		in := &evt.Interaction
		if in.Kind != platform.InteractionModalSubmit || !c.Matches(in.CustomID) {
			return nil
		}
		payload, err := c.Complete(in.CustomID)
		if err != nil {
			return err
		}
		return fn(ctx, evt, payload)
	})
}

// Pending returns the number of stored entries.
func (c *Correlator[T]) Pending() int {
	return c.cache.Len()
}

// Close stops the backing cache.
func (c *Correlator[T]) Close() error {
	c.cache.Destroy()
	return nil
}
