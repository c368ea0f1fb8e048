// ABOUTME: Application command declarations in the platform's wire format.
// ABOUTME: JSON field names and numbering match what the platform API expects.

package platform

// CommandType is the platform's application command type.
type CommandType int

const (
	CommandTypeChatInput CommandType = 1
	CommandTypeUser      CommandType = 2
	CommandTypeMessage   CommandType = 3
)

// Declaration is one published application command.
// Message and user actions carry only name and type.
type Declaration struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Type        CommandType         `json:"type"`
	Options     []OptionDeclaration `json:"options,omitempty"`
}

// OptionDeclaration is one chat-input option with its constraints.
type OptionDeclaration struct {
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Type         OptionType    `json:"type"`
	Required     bool          `json:"required"`
	MinValue     *float64      `json:"min_value,omitempty"`
	MaxValue     *float64      `json:"max_value,omitempty"`
	MinLength    *int          `json:"min_length,omitempty"`
	MaxLength    *int          `json:"max_length,omitempty"`
	Choices      []Choice      `json:"choices,omitempty"`
	Autocomplete bool          `json:"autocomplete,omitempty"`
	ChannelTypes []ChannelType `json:"channel_types,omitempty"`
}
