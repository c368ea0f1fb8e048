// ABOUTME: Symbol table exposing the plugin API to interpreted plugin files.
// ABOUTME: Plugins import it as "lichobi/sdk".

package plugin

import (
	"reflect"

	"github.com/lokesh58/lichobi/internal/chat"
	"github.com/lokesh58/lichobi/internal/command"
	"github.com/lokesh58/lichobi/internal/errs"
	"github.com/lokesh58/lichobi/internal/platform"
)

// SDKPath is the import path plugins use for the SDK.
const SDKPath = "lichobi/sdk"

// Symbols is the yaegi export table for SDKPath.
var Symbols = map[string]map[string]reflect.Value{
	SDKPath + "/sdk": {
		// host and constructors
		"Host":                   reflect.ValueOf((*Host)(nil)),
		"CommandConstructor":     reflect.ValueOf((*CommandConstructor)(nil)),
		"ParticipantConstructor": reflect.ValueOf((*ParticipantConstructor)(nil)),

		// commands
		"Descriptor":    reflect.ValueOf((*command.Descriptor)(nil)),
		"ChatInputSpec": reflect.ValueOf((*command.ChatInputSpec)(nil)),
		"Option":        reflect.ValueOf((*command.Option)(nil)),
		"LegacySpec":    reflect.ValueOf((*command.LegacySpec)(nil)),
		"Options":       reflect.ValueOf((*command.Options)(nil)),
		"Float":         reflect.ValueOf(command.Float),
		"Int":           reflect.ValueOf(command.Int),

		// chat
		"Participant": reflect.ValueOf((*chat.Participant)(nil)),

		// platform
		"InteractionEvent": reflect.ValueOf((*platform.InteractionEvent)(nil)),
		"MessageEvent":     reflect.ValueOf((*platform.MessageEvent)(nil)),
		"Interaction":      reflect.ValueOf((*platform.Interaction)(nil)),
		"Message":          reflect.ValueOf((*platform.Message)(nil)),
		"User":             reflect.ValueOf((*platform.User)(nil)),
		"Response":         reflect.ValueOf((*platform.Response)(nil)),
		"Embed":            reflect.ValueOf((*platform.Embed)(nil)),
		"EmbedField":       reflect.ValueOf((*platform.EmbedField)(nil)),
		"Modal":            reflect.ValueOf((*platform.Modal)(nil)),
		"TextInput":        reflect.ValueOf((*platform.TextInput)(nil)),
		"Choice":           reflect.ValueOf((*platform.Choice)(nil)),
		"OptionValue":      reflect.ValueOf((*platform.OptionValue)(nil)),
		"OptionType":       reflect.ValueOf((*platform.OptionType)(nil)),

		"OptionString":      reflect.ValueOf(platform.OptionString),
		"OptionInteger":     reflect.ValueOf(platform.OptionInteger),
		"OptionBoolean":     reflect.ValueOf(platform.OptionBoolean),
		"OptionUser":        reflect.ValueOf(platform.OptionUser),
		"OptionChannel":     reflect.ValueOf(platform.OptionChannel),
		"OptionRole":        reflect.ValueOf(platform.OptionRole),
		"OptionMentionable": reflect.ValueOf(platform.OptionMentionable),
		"OptionNumber":      reflect.ValueOf(platform.OptionNumber),
		"OptionAttachment":  reflect.ValueOf(platform.OptionAttachment),

		"TextInputShort":     reflect.ValueOf(platform.TextInputShort),
		"TextInputParagraph": reflect.ValueOf(platform.TextInputParagraph),

		"ColorRed":     reflect.ValueOf(platform.ColorRed),
		"ColorGreen":   reflect.ValueOf(platform.ColorGreen),
		"ColorYellow":  reflect.ValueOf(platform.ColorYellow),
		"ColorBlurple": reflect.ValueOf(platform.ColorBlurple),

		// errors
		"NewUserInputError": reflect.ValueOf(errs.NewUserInputError),
		"ErrorEmbed":        reflect.ValueOf(errs.ErrorEmbed),
		"ErrorResponse":     reflect.ValueOf(errs.ErrorResponse),
	},
}
