// ABOUTME: Platform-neutral event vocabulary shared by transports and the dispatch core.
// ABOUTME: Users, channels, messages, interactions and outbound responses.

package platform

import (
	"fmt"
	"time"
)

// EventType tags an event emitted on the Hub.
type EventType string

const (
	EventReady             EventType = "ready"
	EventMessageCreate     EventType = "messageCreate"
	EventInteractionCreate EventType = "interactionCreate"
)

// User is an account on the platform.
type User struct {
	ID          string
	Username    string
	DisplayName string
	Bot         bool
}

// Name returns the display name, falling back to the username.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Mention returns the platform mention markup for the user.
func (u User) Mention() string {
	return "<@" + u.ID + ">"
}

// Role is a guild role.
type Role struct {
	ID   string
	Name string
}

// ChannelType mirrors the platform's channel type numbering.
type ChannelType int

const (
	ChannelGuildText          ChannelType = 0
	ChannelDM                 ChannelType = 1
	ChannelGuildVoice         ChannelType = 2
	ChannelGroupDM            ChannelType = 3
	ChannelGuildCategory      ChannelType = 4
	ChannelGuildAnnouncement  ChannelType = 5
	ChannelAnnouncementThread ChannelType = 10
	ChannelPublicThread       ChannelType = 11
	ChannelPrivateThread      ChannelType = 12
	ChannelGuildStageVoice    ChannelType = 13
	ChannelGuildForum         ChannelType = 15
)

// Channel is a place messages are sent to.
type Channel struct {
	ID   string
	Name string
	Type ChannelType
}

// DM reports whether the channel is a direct message.
func (c Channel) DM() bool {
	return c.Type == ChannelDM || c.Type == ChannelGroupDM
}

// Attachment is a file attached to a message or passed as an option.
type Attachment struct {
	ID          string
	Filename    string
	URL         string
	ContentType string
	Size        int
}

// Mentionable is either a user or a role.
type Mentionable struct {
	User *User
	Role *Role
}

// ID returns the id of whichever side is set.
func (m Mentionable) ID() string {
	switch {
	case m.User != nil:
		return m.User.ID
	case m.Role != nil:
		return m.Role.ID
	}
	return ""
}

// Message is an inbound or fetched chat message.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	Author    User
	Content   string
	// Mentions holds the ids of users mentioned in the message.
	Mentions []string
	// ReferencedMessageID is set when the message is a reply.
	ReferencedMessageID string
	// ReferencedAuthorID is the author of the referenced message, if known.
	ReferencedAuthorID string
	CreatedAt          time.Time
	DM                 bool
}

// MentionsUser reports whether the message mentions the user with id.
func (m Message) MentionsUser(id string) bool {
	for _, mention := range m.Mentions {
		if mention == id {
			return true
		}
	}
	return false
}

// InteractionKind classifies a structured interaction.
type InteractionKind int

const (
	InteractionChatInput InteractionKind = iota + 1
	InteractionAutocomplete
	InteractionMessageAction
	InteractionUserAction
	InteractionModalSubmit
	InteractionComponent
)

func (k InteractionKind) String() string {
	switch k {
	case InteractionChatInput:
		return "chat_input"
	case InteractionAutocomplete:
		return "autocomplete"
	case InteractionMessageAction:
		return "message_action"
	case InteractionUserAction:
		return "user_action"
	case InteractionModalSubmit:
		return "modal_submit"
	case InteractionComponent:
		return "component"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// OptionType is the declared type of a chat-input option, numbered as the
// platform numbers them.
type OptionType int

const (
	OptionString      OptionType = 3
	OptionInteger     OptionType = 4
	OptionBoolean     OptionType = 5
	OptionUser        OptionType = 6
	OptionChannel     OptionType = 7
	OptionRole        OptionType = 8
	OptionMentionable OptionType = 9
	OptionNumber      OptionType = 10
	OptionAttachment  OptionType = 11
)

func (t OptionType) String() string {
	switch t {
	case OptionString:
		return "string"
	case OptionInteger:
		return "integer"
	case OptionBoolean:
		return "boolean"
	case OptionUser:
		return "user"
	case OptionChannel:
		return "channel"
	case OptionRole:
		return "role"
	case OptionMentionable:
		return "mentionable"
	case OptionNumber:
		return "number"
	case OptionAttachment:
		return "attachment"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// OptionValue is one raw option value as delivered by the platform.
// Entity options (user, role, channel, mentionable, attachment) carry the id
// as a string and are looked up in Resolved.
type OptionValue struct {
	Name    string
	Type    OptionType
	Value   any
	Focused bool
}

// Resolved holds entities referenced by option values, keyed by id.
type Resolved struct {
	Users       map[string]User
	Roles       map[string]Role
	Channels    map[string]Channel
	Attachments map[string]Attachment
}

// Interaction is a structured inbound event.
type Interaction struct {
	ID          string
	Kind        InteractionKind
	CommandID   string
	CommandName string
	// CustomID identifies the modal or component for ModalSubmit and Component.
	CustomID  string
	ChannelID string
	GuildID   string
	User      User
	Options   []OptionValue
	// TargetMessage is set for message actions.
	TargetMessage *Message
	// TargetUser is set for user actions.
	TargetUser *User
	// Fields holds modal text input values keyed by input custom id.
	Fields    map[string]string
	Resolved  Resolved
	CreatedAt time.Time
}

// Option returns the raw option named name.
func (i *Interaction) Option(name string) (OptionValue, bool) {
	for _, opt := range i.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return OptionValue{}, false
}

// FocusedOption returns the option the user is typing in, for autocomplete.
func (i *Interaction) FocusedOption() (OptionValue, bool) {
	for _, opt := range i.Options {
		if opt.Focused {
			return opt, true
		}
	}
	return OptionValue{}, false
}

// EmbedField is a name/value pair inside an embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a rich message block.
type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	Footer      string
	Timestamp   time.Time
}

// Response is an outbound message.
type Response struct {
	Content   string
	Embeds    []Embed
	Ephemeral bool
}

// TextInputStyle selects a single-line or multi-line modal input.
type TextInputStyle int

const (
	TextInputShort     TextInputStyle = 1
	TextInputParagraph TextInputStyle = 2
)

// TextInput is one input on a modal.
type TextInput struct {
	CustomID    string
	Label       string
	Style       TextInputStyle
	Placeholder string
	Required    bool
	MaxLength   int
}

// Modal is a secondary input surface shown in response to an interaction.
type Modal struct {
	CustomID string
	Title    string
	Inputs   []TextInput
}

// Choice is an enumerated option value, declared or returned by autocomplete.
type Choice struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Embed colors.
const (
	ColorRed     = 0xED4245
	ColorGreen   = 0x57F287
	ColorYellow  = 0xFEE75C
	ColorBlurple = 0x5865F2
)
