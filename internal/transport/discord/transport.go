// ABOUTME: Discord gateway connection emitting platform events on the hub.
// ABOUTME: Also the platform session: identity, heartbeat latency and command publication.

package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/lokesh58/lichobi/internal/platform"
)

// Name is the transport name used in logs and ready events.
const Name = "discord"

// Intents are the gateway intents the bot needs for prefix commands and chat.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// Config holds Discord credentials.
type Config struct {
	Token string
	// AppID is the application id; when empty the bot user id is used.
	AppID string
}

// Transport is a Discord gateway connection.
type Transport struct {
	cfg     Config
	session *discordgo.Session
	hub     *platform.Hub
	logger  *slog.Logger
}

var _ platform.Session = (*Transport)(nil)

// New creates a transport. It does not connect until Run.
func New(cfg Config, hub *platform.Hub, logger *slog.Logger) (*Transport, error) {
	if cfg.Token == "" {
		return nil, errors.New("discord token is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	s.Identify.Intents = Intents

	return &Transport{
		cfg:     cfg,
		session: s,
		hub:     hub,
		logger:  logger.With("component", "discord"),
	}, nil
}

func (t *Transport) Name() string { return Name }

// Run opens the gateway connection and blocks until ctx is cancelled.
func (t *Transport) Run(ctx context.Context) error {
	removers := []func(){
		t.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
			t.logger.Info("connected", "user", r.User.Username, "guilds", len(r.Guilds))
			t.hub.Emit(ctx, platform.EventReady, &platform.ReadyEvent{
				Transport: Name,
				Self:      toUser(r.User),
				Session:   t,
			})
		}),
		t.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
			t.hub.Emit(ctx, platform.EventMessageCreate, &platform.MessageEvent{
				Message:   toMessage(m.Message),
				Responder: &messageResponder{s: s, msg: m.Message},
				Session:   t,
			})
		}),
		t.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			t.hub.Emit(ctx, platform.EventInteractionCreate, &platform.InteractionEvent{
				Interaction: toInteraction(i.Interaction),
				Responder:   &interactionResponder{s: s, i: i.Interaction},
				Session:     t,
			})
		}),
	}
	defer func() {
		for _, remove := range removers {
			remove()
		}
	}()

	if err := t.session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	t.logger.Info("discord transport running")

	<-ctx.Done()
	t.logger.Info("shutting down discord transport")
	if err := t.session.Close(); err != nil {
		return fmt.Errorf("closing discord gateway: %w", err)
	}
	return nil
}

func (t *Transport) Self() platform.User {
	if t.session.State == nil || t.session.State.User == nil {
		return platform.User{}
	}
	return toUser(t.session.State.User)
}

func (t *Transport) Latency() time.Duration {
	return t.session.HeartbeatLatency()
}

// PublishCommands overwrites the application commands globally, or in the
// guild named by scope.
func (t *Transport) PublishCommands(ctx context.Context, scope string, decls []platform.Declaration) error {
	cmds, err := toCommands(decls)
	if err != nil {
		return err
	}
	appID := t.cfg.AppID
	if appID == "" {
		appID = t.Self().ID
	}
	if appID == "" {
		return errors.New("discord application id unknown: set DISCORD_APP_ID or connect first")
	}
	if _, err := t.session.ApplicationCommandBulkOverwrite(appID, scope, cmds, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("publishing %d commands: %w", len(cmds), err)
	}
	t.logger.Info("published application commands", "count", len(cmds), "scope", scopeName(scope))
	return nil
}

func scopeName(scope string) string {
	if scope == "" {
		return "global"
	}
	return "guild:" + scope
}
