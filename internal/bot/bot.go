// ABOUTME: Assembles the dispatch core from configuration and runs the transports.
// ABOUTME: Boot installs plugins and dispatchers; Run serves until the context ends.

package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lokesh58/lichobi/internal/ai"
	"github.com/lokesh58/lichobi/internal/chat"
	"github.com/lokesh58/lichobi/internal/coderunner"
	"github.com/lokesh58/lichobi/internal/command"
	"github.com/lokesh58/lichobi/internal/commands"
	"github.com/lokesh58/lichobi/internal/config"
	"github.com/lokesh58/lichobi/internal/events"
	"github.com/lokesh58/lichobi/internal/participants"
	"github.com/lokesh58/lichobi/internal/platform"
	"github.com/lokesh58/lichobi/internal/plugin"
	"github.com/lokesh58/lichobi/internal/prefix"
	"github.com/lokesh58/lichobi/internal/transport"
	"github.com/lokesh58/lichobi/internal/transport/discord"
	"github.com/lokesh58/lichobi/internal/transport/matrix"
)

// ErrNoTransports is returned by Run when no platform is configured.
var ErrNoTransports = errors.New("no transport configured")

// ReadyListenerName is the listener that logs transport readiness.
const ReadyListenerName = "ready-log"

// Bot owns the event hub, both registries and the transports.
type Bot struct {
	Hub          *platform.Hub
	Events       *events.Manager
	Commands     *command.Registry
	Participants *chat.Registry
	Host         *plugin.Host

	cfg        *config.Config
	logger     *slog.Logger
	catalog    *plugin.Catalog
	importer   plugin.Importer
	transports []transport.Transport
	customTs   bool
	booted     bool
}

// Option customizes a Bot.
type Option func(*Bot)

// WithCatalog replaces the built-in plugin catalog.
func WithCatalog(c *plugin.Catalog) Option {
	return func(b *Bot) { b.catalog = c }
}

// WithImporter replaces the folder plugin importer.
func WithImporter(i plugin.Importer) Option {
	return func(b *Bot) { b.importer = i }
}

// WithAI injects an AI provider instead of building one from config.
func WithAI(p ai.Provider) Option {
	return func(b *Bot) { b.Host.AI = p }
}

// WithRunner injects a code runner instead of building one from config.
func WithRunner(r coderunner.Runner) Option {
	return func(b *Bot) { b.Host.Runner = r }
}

// WithTransports replaces the transports built from config.
func WithTransports(ts ...transport.Transport) Option {
	return func(b *Bot) {
		b.transports = ts
		b.customTs = true
	}
}

// New builds a bot from cfg. Collaborators whose configuration is missing are
// left nil; plugins that need them fail to construct and are skipped.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Bot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	hub := platform.NewHub(logger)
	b := &Bot{
		Hub:          hub,
		Events:       events.NewManager(hub, logger),
		Commands:     command.NewRegistry(logger),
		Participants: chat.NewRegistry(logger),
		cfg:          cfg,
		logger:       logger.With("component", "bot"),
	}
	b.Host = &plugin.Host{
		Logger:         logger,
		Events:         b.Events,
		Prefix:         prefix.NewStatic(cfg.Bot.CommandPrefix),
		CorrelationTTL: cfg.Bot.CorrelationTTL,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.Host.AI == nil && cfg.AI.Enabled() {
		provider, err := ai.New(ctx, ai.Config{Provider: cfg.AI.Provider, APIKey: cfg.AI.APIKey, Model: cfg.AI.Model})
		if err != nil {
			return nil, fmt.Errorf("creating AI provider: %w", err)
		}
		b.Host.AI = provider
	}
	if b.Host.Runner == nil && cfg.CodeRunner.Enabled() {
		client := coderunner.NewClient(cfg.CodeRunner.BaseURL, cfg.CodeRunner.Token)
		b.Host.OnClose(client)
		b.Host.Runner = client
	}
	if !b.customTs {
		ts, err := Transports(cfg, hub, logger)
		if err != nil {
			return nil, err
		}
		b.transports = ts
	}
	if b.catalog == nil {
		b.catalog = DefaultCatalog()
	}
	return b, nil
}

// DefaultCatalog lists the plugins compiled into the binary.
func DefaultCatalog() *plugin.Catalog {
	c := &plugin.Catalog{}
	commands.Register(c)
	participants.Register(c)
	return c
}

// Transports builds the transports enabled in cfg.
func Transports(cfg *config.Config, hub *platform.Hub, logger *slog.Logger) ([]transport.Transport, error) {
	var ts []transport.Transport
	if cfg.Discord.Enabled() {
		t, err := discord.New(discord.Config{Token: cfg.Discord.Token, AppID: cfg.Discord.AppID}, hub, logger)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	if cfg.Matrix.Enabled {
		t, err := matrix.New(matrix.Config{
			Homeserver:      cfg.Matrix.Homeserver,
			Username:        cfg.Matrix.Username,
			Password:        cfg.Matrix.Password,
			RecoveryKey:     cfg.Matrix.RecoveryKey,
			AllowedRooms:    cfg.Matrix.AllowedRooms,
			TypingIndicator: cfg.Matrix.TypingIndicator,
			DataDir:         config.DataPath(),
		}, hub, logger)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, nil
}

// Boot installs plugins and dispatchers. Registries are read-only afterwards.
func (b *Bot) Boot(ctx context.Context) (plugin.Report, error) {
	if b.booted {
		return plugin.Report{}, errors.New("bot already booted")
	}
	b.booted = true

	installer := &plugin.Installer{
		Host:         b.Host,
		Commands:     b.Commands,
		Participants: b.Participants,
		Logger:       b.logger,
	}
	report := b.catalog.Install(ctx, installer)

	if folder := b.cfg.Plugins.Folder; folder != "" {
		importer := b.importer
		if importer == nil {
			importer = plugin.NewYaegiImporter()
		}
		loader := plugin.NewLoader(importer, installer, b.logger)
		if len(b.cfg.Plugins.Extensions) > 0 {
			loader.WithExtensions(b.cfg.Plugins.Extensions...)
		}
		loaded, err := loader.LoadFromFolder(ctx, folder)
		report.Add(loaded)
		if err != nil {
			return report, err
		}
	}

	dispatcher := command.NewDispatcher(command.DispatcherConfig{
		Registry: b.Commands,
		Prefix:   b.Host.Prefix,
		Logger:   b.logger,
	})
	if err := dispatcher.Install(b.Events); err != nil {
		return report, fmt.Errorf("installing command dispatcher: %w", err)
	}
	if err := chat.NewDispatcher(b.Participants, b.Host.Prefix, b.logger).Install(b.Events); err != nil {
		return report, fmt.Errorf("installing chat dispatcher: %w", err)
	}
	if err := b.Events.RegisterEvent(events.Listener{
		Name:    ReadyListenerName,
		Event:   platform.EventReady,
		Handler: b.logReady,
	}); err != nil {
		return report, err
	}

	b.logger.Info("bot booted",
		"commands", report.Commands,
		"participants", report.Participants,
		"failed", report.Failed,
		"listeners", len(b.Events.Listeners()))
	return report, nil
}

func (b *Bot) logReady(_ context.Context, payload any) error {
	evt, ok := payload.(*platform.ReadyEvent)
	if !ok {
		return fmt.Errorf("unexpected ready payload %T", payload)
	}
	b.logger.Info("ready", "transport", evt.Transport, "user", evt.Self.Name())
	return nil
}

// Transports returns the configured transports.
func (b *Bot) Transports() []transport.Transport {
	return b.transports
}

// Run serves every transport until ctx is cancelled or one of them fails.
func (b *Bot) Run(ctx context.Context) error {
	if !b.booted {
		if _, err := b.Boot(ctx); err != nil {
			return err
		}
	}
	if len(b.transports) == 0 {
		return ErrNoTransports
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, t := range b.transports {
		g.Go(func() error {
			if err := t.Run(ctx); err != nil {
				return fmt.Errorf("%s transport: %w", t.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Close releases plugin resources and drops all subscriptions.
func (b *Bot) Close() error {
	err := b.Host.Close()
	b.Hub.Close()
	return err
}
