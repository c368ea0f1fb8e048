// ABOUTME: In-memory fan-out event hub between transports and listeners.
// ABOUTME: Each emit invokes every subscriber of the event type on its own goroutine.

package platform

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// HandlerFunc receives an emitted payload.
type HandlerFunc func(ctx context.Context, payload any)

type subscriber struct {
	id      string
	handler HandlerFunc
	once    bool
	fired   atomic.Bool
}

// Hub provides in-process pub/sub keyed by EventType.
// Subscribers registered for an event type receive every payload emitted for
// it. Delivery is concurrent: subscribers must not assume mutual exclusion.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[EventType]map[string]*subscriber // eventType -> subID -> sub
	closed      bool

	inflight sync.WaitGroup
	logger   *slog.Logger
}

// NewHub creates a hub. Pass nil logger for default.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[EventType]map[string]*subscriber),
		logger:      logger.With("component", "hub"),
	}
}

// On subscribes handler to eventType and returns a subscription ID for Off.
func (h *Hub) On(eventType EventType, handler HandlerFunc) string {
	return h.subscribe(eventType, handler, false)
}

// Once subscribes handler for a single delivery. It is removed before it runs,
// so concurrent emits invoke it at most once.
func (h *Hub) Once(eventType EventType, handler HandlerFunc) string {
	return h.subscribe(eventType, handler, true)
}

func (h *Hub) subscribe(eventType EventType, handler HandlerFunc, once bool) string {
	sub := &subscriber{
		id:      uuid.New().String(),
		handler: handler,
		once:    once,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ""
	}
	if _, ok := h.subscribers[eventType]; !ok {
		h.subscribers[eventType] = make(map[string]*subscriber)
	}
	h.subscribers[eventType][sub.id] = sub

	h.logger.Debug("subscriber added",
		"event", eventType,
		"sub_id", sub.id,
		"once", once)

	return sub.id
}

// Off removes a subscription. Unknown IDs are ignored.
func (h *Hub) Off(eventType EventType, subID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(eventType, subID)
}

func (h *Hub) removeLocked(eventType EventType, subID string) {
	subs, ok := h.subscribers[eventType]
	if !ok {
		return
	}
	delete(subs, subID)
	if len(subs) == 0 {
		delete(h.subscribers, eventType)
	}
}

// Emit delivers payload to every subscriber of eventType and waits for all of
// them to return. A panicking subscriber is recovered and logged; the others
// still run to completion.
func (h *Hub) Emit(ctx context.Context, eventType EventType, payload any) {
	targets := h.snapshot(eventType)
	if len(targets) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, sub := range targets {
		wg.Add(1)
		go func(sub *subscriber) {
			defer wg.Done()
			h.invoke(ctx, eventType, sub, payload)
		}(sub)
	}
	wg.Wait()
}

// EmitAsync delivers payload without waiting. Close waits for outstanding
// async deliveries.
func (h *Hub) EmitAsync(ctx context.Context, eventType EventType, payload any) {
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	h.inflight.Add(1)
	h.mu.RUnlock()

	go func() {
		defer h.inflight.Done()
		h.Emit(ctx, eventType, payload)
	}()
}

// snapshot copies the subscriber list under read lock so handlers run without
// holding it. Once subscribers that win the fired flag are removed here.
func (h *Hub) snapshot(eventType EventType) []*subscriber {
	h.mu.RLock()
	subs := h.subscribers[eventType]
	if h.closed || len(subs) == 0 {
		h.mu.RUnlock()
		return nil
	}
	targets := make([]*subscriber, 0, len(subs))
	var fired []string
	for _, sub := range subs {
		if sub.once {
			if !sub.fired.CompareAndSwap(false, true) {
				continue
			}
			fired = append(fired, sub.id)
		}
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	if len(fired) > 0 {
		h.mu.Lock()
		for _, id := range fired {
			h.removeLocked(eventType, id)
		}
		h.mu.Unlock()
	}
	return targets
}

func (h *Hub) invoke(ctx context.Context, eventType EventType, sub *subscriber, payload any) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("subscriber panicked",
				"event", eventType,
				"sub_id", sub.id,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	sub.handler(ctx, payload)
}

// SubscriberCount returns the number of subscribers for eventType.
func (h *Hub) SubscriberCount(eventType EventType) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[eventType])
}

// Close drops all subscribers and waits for in-flight async deliveries.
// Emits after Close are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	h.subscribers = make(map[EventType]map[string]*subscriber)
	h.mu.Unlock()

	h.inflight.Wait()
	h.logger.Debug("hub closed")
}
