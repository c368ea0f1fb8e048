// ABOUTME: Projects registered commands into platform command declarations.
// ABOUTME: Chat input carries the option schema; message and user actions carry name and type.

package command

import (
	"github.com/lokesh58/lichobi/internal/platform"
)

// Declarations returns the declarations for every ChatInput, MessageAction and
// UserAction descriptor, each table sorted by name.
func (r *Registry) Declarations() []platform.Declaration {
	var decls []platform.Declaration

	for _, d := range r.All(ChatInput) {
		decls = append(decls, chatInputDeclaration(d))
	}
	for _, d := range r.All(UserAction) {
		decls = append(decls, platform.Declaration{Name: d.Name, Type: platform.CommandTypeUser})
	}
	for _, d := range r.All(MessageAction) {
		decls = append(decls, platform.Declaration{Name: d.Name, Type: platform.CommandTypeMessage})
	}
	return decls
}

func chatInputDeclaration(d *Descriptor) platform.Declaration {
	decl := platform.Declaration{
		Name:        d.Name,
		Description: d.chatInputDescription(),
		Type:        platform.CommandTypeChatInput,
	}
	for _, opt := range d.ChatInput.Options {
		decl.Options = append(decl.Options, platform.OptionDeclaration{
			Name:         opt.Name,
			Description:  opt.Description,
			Type:         opt.Type,
			Required:     opt.Required,
			MinValue:     opt.MinValue,
			MaxValue:     opt.MaxValue,
			MinLength:    opt.MinLength,
			MaxLength:    opt.MaxLength,
			Choices:      opt.Choices,
			Autocomplete: opt.Autocomplete,
			ChannelTypes: opt.ChannelTypes,
		})
	}
	return decl
}
