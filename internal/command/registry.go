// ABOUTME: Capability-indexed command registry with one name table per capability.
// ABOUTME: Duplicate names within a table are skipped and logged, never overwritten.

package command

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/text/cases"

	"github.com/lokesh58/lichobi/internal/platform"
)

// Registry holds the four capability tables. It is populated during boot and
// read-only afterwards; the lock keeps late registrations safe.
type Registry struct {
	mu     sync.RWMutex
	tables map[Capability]map[string]*Descriptor
	logger *slog.Logger
}

// NewRegistry creates an empty registry. Pass nil logger for default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	tables := make(map[Capability]map[string]*Descriptor, len(All()))
	for _, capability := range All() {
		tables[capability] = make(map[string]*Descriptor)
	}
	return &Registry{
		tables: tables,
		logger: logger.With("component", "command_registry"),
	}
}

// NormalizeName case-folds a command name for table keys.
func NormalizeName(name string) string {
	return cases.Fold().String(name)
}

// Register inserts d into the table of every capability it implements.
// A name already present in a table is skipped for that table only. Setup runs
// once if at least one table accepted d; its error is logged and returned.
func (r *Registry) Register(ctx context.Context, d *Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	key := NormalizeName(d.Name)
	var accepted []Capability

	r.mu.Lock()
	for _, capability := range d.Capabilities().List() {
		table := r.tables[capability]
		if _, exists := table[key]; exists {
			r.logger.Warn("duplicate command name, skipping",
				"command", d.Name,
				"capability", capability)
			continue
		}
		table[key] = d
		accepted = append(accepted, capability)
	}
	r.mu.Unlock()

	if len(accepted) == 0 {
		return nil
	}

	r.logger.Info("command registered",
		"command", d.Name,
		"capabilities", lo.Map(accepted, func(c Capability, _ int) string { return c.String() }))

	// Setup runs outside the lock so it may register listeners or other commands
	if d.Setup != nil {
		if err := d.Setup(ctx); err != nil {
			r.logger.Error("command setup failed", "command", d.Name, "error", err)
			return fmt.Errorf("setup %s: %w", d.Name, err)
		}
	}
	return nil
}

// Get looks name up in the table for capability.
func (r *Registry) Get(name string, capability Capability) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, ok := r.tables[capability]
	if !ok {
		return nil, false
	}
	d, ok := table[NormalizeName(name)]
	return d, ok
}

// All returns the descriptors in the table for capability, sorted by name.
func (r *Registry) All(capability Capability) []*Descriptor {
	r.mu.RLock()
	out := lo.Values(r.tables[capability])
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return NormalizeName(out[i].Name) < NormalizeName(out[j].Name)
	})
	return out
}

// Names returns every distinct registered name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	var names []string
	for _, table := range r.tables {
		names = append(names, lo.Keys(table)...)
	}
	r.mu.RUnlock()

	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}

// Len returns the number of descriptors in the table for capability.
func (r *Registry) Len(capability Capability) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables[capability])
}

// RegisterPlatformDeclarations publishes Declarations through session. An
// empty scope publishes globally; otherwise only to the named development guild.
func (r *Registry) RegisterPlatformDeclarations(ctx context.Context, session platform.Session, scope string) error {
	decls := r.Declarations()
	if err := session.PublishCommands(ctx, scope, decls); err != nil {
		return fmt.Errorf("publish commands: %w", err)
	}

	where := "global"
	if scope != "" {
		where = scope
	}
	r.logger.Info("published command declarations", "count", len(decls), "scope", where)
	return nil
}
