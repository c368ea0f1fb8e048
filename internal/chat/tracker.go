// ABOUTME: Per-channel conversation continuity records backed by a TTL cache.
// ABOUTME: Lets a participant keep talking to the same user without being mentioned again.

package chat

import (
	"time"

	"github.com/lokesh58/lichobi/internal/ttlcache"
)

// Conversation records who a participant last talked to in a channel.
type Conversation struct {
	UserID          string
	LastInteraction time.Time
}

// ConversationTracker keys conversations by channel id.
type ConversationTracker struct {
	cache *ttlcache.Cache[Conversation]
	now   func() time.Time
}

// NewConversationTracker creates a tracker whose records expire after ttl.
func NewConversationTracker(ttl time.Duration, opts ...ttlcache.Option) *ConversationTracker {
	return &ConversationTracker{
		cache: ttlcache.New[Conversation](ttl, opts...),
		now:   time.Now,
	}
}

// Touch starts or refreshes the conversation in channelID with userID.
func (t *ConversationTracker) Touch(channelID, userID string) {
	t.cache.Set(channelID, Conversation{UserID: userID, LastInteraction: t.now()})
}

// Active reports whether userID has an unexpired conversation in channelID.
func (t *ConversationTracker) Active(channelID, userID string) bool {
	c, ok := t.cache.Get(channelID)
	return ok && c.UserID == userID
}

// Get returns the conversation in channelID, if any.
func (t *ConversationTracker) Get(channelID string) (Conversation, bool) {
	return t.cache.Get(channelID)
}

// End forgets the conversation in channelID.
func (t *ConversationTracker) End(channelID string) {
	t.cache.Delete(channelID)
}

// Close stops the backing cache.
func (t *ConversationTracker) Close() error {
	t.cache.Destroy()
	return nil
}
