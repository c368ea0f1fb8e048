// ABOUTME: Chat participants and their priority-ordered registry.
// ABOUTME: Order is materialized at registration: priority descending, ties by registration order.

package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/text/cases"

	"github.com/lokesh58/lichobi/internal/platform"
)

// ErrInvalidParticipant indicates a participant without a name or callbacks.
var ErrInvalidParticipant = errors.New("invalid chat participant")

// Participant is a conversational responder polled for free text.
type Participant struct {
	Name        string
	Description string
	Priority    int
	// ShouldRespond decides whether the participant claims the message.
	ShouldRespond func(ctx context.Context, evt *platform.MessageEvent) (bool, error)
	// Respond produces the reply text.
	Respond func(ctx context.Context, evt *platform.MessageEvent) (string, error)
	// Setup runs once after registration.
	Setup func(ctx context.Context) error
}

type entry struct {
	participant *Participant
	seq         int
}

// Registry holds participants keyed by case-folded name.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]*entry
	ordered []*Participant
	nextSeq int
	logger  *slog.Logger
}

// NewRegistry creates an empty registry. Pass nil logger for default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		byName: make(map[string]*entry),
		logger: logger.With("component", "chat_registry"),
	}
}

// Register adds p. A name already registered is a logged no-op. Setup runs
// once after insertion; its error is logged and returned.
func (r *Registry) Register(ctx context.Context, p *Participant) error {
	if p == nil || p.Name == "" || p.ShouldRespond == nil || p.Respond == nil {
		return fmt.Errorf("%w: needs a name, ShouldRespond and Respond", ErrInvalidParticipant)
	}
	key := cases.Fold().String(p.Name)

	r.mu.Lock()
	if _, exists := r.byName[key]; exists {
		r.mu.Unlock()
		r.logger.Warn("duplicate chat participant, skipping", "participant", p.Name)
		return nil
	}
	r.byName[key] = &entry{participant: p, seq: r.nextSeq}
	r.nextSeq++
	r.reorderLocked()
	r.mu.Unlock()

	r.logger.Info("chat participant registered", "participant", p.Name, "priority", p.Priority)

	if p.Setup != nil {
		if err := p.Setup(ctx); err != nil {
			r.logger.Error("chat participant setup failed", "participant", p.Name, "error", err)
			return fmt.Errorf("setup %s: %w", p.Name, err)
		}
	}
	return nil
}

// reorderLocked rebuilds the ordered snapshot. Must be called with mu held.
func (r *Registry) reorderLocked() {
	entries := make([]*entry, 0, len(r.byName))
	for _, e := range r.byName {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].participant.Priority != entries[j].participant.Priority {
			return entries[i].participant.Priority > entries[j].participant.Priority
		}
		return entries[i].seq < entries[j].seq
	})

	ordered := make([]*Participant, len(entries))
	for i, e := range entries {
		ordered[i] = e.participant
	}
	// Replace rather than mutate so snapshots handed out stay valid
	r.ordered = ordered
}

// Ordered returns the participants in dispatch order. The slice is shared
// and must not be modified.
func (r *Registry) Ordered() []*Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ordered
}

// Get returns the participant registered under name.
func (r *Registry) Get(name string) (*Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[cases.Fold().String(name)]
	if !ok {
		return nil, false
	}
	return e.participant, true
}

// Len returns the number of registered participants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
