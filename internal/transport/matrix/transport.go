// ABOUTME: Matrix client connection emitting platform events on the hub.
// ABOUTME: Logs in with a password, optionally enables E2EE, and syncs until cancelled.

package matrix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/lokesh58/lichobi/internal/platform"
)

// Name is the transport name used in logs and ready events.
const Name = "matrix"

const networkTimeout = 10 * time.Second

// Config holds Matrix credentials and bridge behaviour.
type Config struct {
	Homeserver  string
	Username    string
	Password    string
	RecoveryKey string
	// AllowedRooms restricts the rooms the bot listens in. Empty allows all.
	AllowedRooms    []string
	TypingIndicator bool
	// DataDir holds the crypto store. Empty disables encryption.
	DataDir string
}

// Transport is a Matrix client session.
type Transport struct {
	cfg    Config
	client *mautrix.Client
	hub    *platform.Hub
	logger *slog.Logger
	crypto *cryptoManager

	started time.Time
	latency atomic.Int64
}

var _ platform.Session = (*Transport)(nil)

// New creates a transport. It does not log in until Run.
func New(cfg Config, hub *platform.Hub, logger *slog.Logger) (*Transport, error) {
	if cfg.Homeserver == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("matrix homeserver, username and password are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := mautrix.NewClient(cfg.Homeserver, "", "")
	if err != nil {
		return nil, fmt.Errorf("creating matrix client: %w", err)
	}
	return &Transport{
		cfg:    cfg,
		client: client,
		hub:    hub,
		logger: logger.With("component", "matrix"),
	}, nil
}

func (t *Transport) Name() string { return Name }

// Run logs in and syncs until ctx is cancelled.
func (t *Transport) Run(ctx context.Context) error {
	t.logger.Info("starting matrix transport", "homeserver", t.cfg.Homeserver, "user", t.cfg.Username)

	if err := t.login(ctx); err != nil {
		return err
	}
	if t.cfg.DataDir != "" {
		cm, err := setupCrypto(ctx, t.client, t.cfg.RecoveryKey, t.cfg.DataDir, t.logger)
		if err != nil {
			return err
		}
		t.crypto = cm
		defer cm.Close()
	}

	syncer, ok := t.client.Syncer.(*mautrix.DefaultSyncer)
	if !ok {
		return fmt.Errorf("unexpected syncer type: %T", t.client.Syncer)
	}
	syncer.OnEventType(event.EventMessage, t.handleMessage)

	t.started = time.Now()
	t.measureLatency(ctx)
	t.hub.Emit(ctx, platform.EventReady, &platform.ReadyEvent{
		Transport: Name,
		Self:      t.Self(),
		Session:   t,
	})

	syncCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	syncErr := make(chan error, 1)
	go func() { syncErr <- t.client.SyncWithContext(syncCtx) }()

	select {
	case <-ctx.Done():
		t.logger.Info("shutting down matrix transport")
		return nil
	case err := <-syncErr:
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("matrix sync failed: %w", err)
	}
}

func (t *Transport) login(ctx context.Context) error {
	resp, err := t.client.Login(ctx, &mautrix.ReqLogin{
		Type: mautrix.AuthTypePassword,
		Identifier: mautrix.UserIdentifier{
			Type: mautrix.IdentifierTypeUser,
			User: t.cfg.Username,
		},
		Password:                 t.cfg.Password,
		InitialDeviceDisplayName: "lichobi",
		StoreCredentials:         true,
	})
	if err != nil {
		return fmt.Errorf("logging in as %s: %w", t.cfg.Username, err)
	}
	t.logger.Info("logged in", "user_id", resp.UserID, "device_id", resp.DeviceID)
	return nil
}

func (t *Transport) measureLatency(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, networkTimeout)
	defer cancel()
	start := time.Now()
	if _, err := t.client.Whoami(ctx); err != nil {
		t.logger.Debug("latency probe failed", "error", err)
		return
	}
	t.latency.Store(int64(time.Since(start)))
}

func (t *Transport) handleMessage(ctx context.Context, evt *event.Event) {
	if evt.Sender == t.client.UserID {
		return
	}
	// Initial sync replays room timelines.
	if time.UnixMilli(evt.Timestamp).Before(t.started) {
		return
	}
	if !t.roomAllowed(evt.RoomID.String()) {
		t.logger.Debug("ignoring message from non-allowed room", "room", evt.RoomID)
		return
	}
	content, ok := messageOf(evt)
	if !ok {
		return
	}
	t.hub.EmitAsync(ctx, platform.EventMessageCreate, &platform.MessageEvent{
		Message:   toMessage(evt, content, t.client.UserID),
		Responder: &messageResponder{t: t, room: evt.RoomID, event: evt.ID},
		Session:   t,
	})
}

func (t *Transport) roomAllowed(roomID string) bool {
	return len(t.cfg.AllowedRooms) == 0 || slices.Contains(t.cfg.AllowedRooms, roomID)
}

// convert decrypts evt when needed and converts text messages.
func (t *Transport) convert(ctx context.Context, evt *event.Event) (platform.Message, bool) {
	if evt.Type == event.EventEncrypted && t.client.Crypto != nil {
		if err := evt.Content.ParseRaw(evt.Type); err != nil {
			return platform.Message{}, false
		}
		decrypted, err := t.client.Crypto.Decrypt(ctx, evt)
		if err != nil {
			t.logger.Debug("failed to decrypt history event", "event", evt.ID, "error", err)
			return platform.Message{}, false
		}
		evt = decrypted
	}
	content, ok := messageOf(evt)
	if !ok {
		return platform.Message{}, false
	}
	return toMessage(evt, content, t.client.UserID), true
}

func (t *Transport) setTyping(room id.RoomID, typing bool) {
	var timeout time.Duration
	if typing {
		timeout = typingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), networkTimeout)
	defer cancel()
	if _, err := t.client.UserTyping(ctx, room, typing, timeout); err != nil {
		t.logger.Debug("failed to set typing indicator", "room", room, "error", err)
	}
}

func (t *Transport) Self() platform.User {
	return toUser(t.client.UserID, t.client.UserID)
}

func (t *Transport) Latency() time.Duration {
	return time.Duration(t.latency.Load())
}

// PublishCommands is unsupported: Matrix has no application commands.
func (t *Transport) PublishCommands(context.Context, string, []platform.Declaration) error {
	return platform.ErrUnsupported
}
