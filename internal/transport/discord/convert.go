// ABOUTME: Translation between discordgo types and the platform vocabulary.
// ABOUTME: Pure functions, so they are tested without a gateway connection.

package discord

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/lokesh58/lichobi/internal/platform"
)

func toUser(u *discordgo.User) platform.User {
	if u == nil {
		return platform.User{}
	}
	return platform.User{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.GlobalName,
		Bot:         u.Bot,
	}
}

func memberUser(m *discordgo.Member) platform.User {
	if m == nil {
		return platform.User{}
	}
	u := toUser(m.User)
	if m.Nick != "" {
		u.DisplayName = m.Nick
	}
	return u
}

func toMessage(m *discordgo.Message) platform.Message {
	msg := platform.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Author:    toUser(m.Author),
		Content:   m.Content,
		CreatedAt: m.Timestamp,
		DM:        m.GuildID == "",
	}
	if m.Member != nil && m.Member.Nick != "" {
		msg.Author.DisplayName = m.Member.Nick
	}
	for _, u := range m.Mentions {
		msg.Mentions = append(msg.Mentions, u.ID)
	}
	if m.MessageReference != nil {
		msg.ReferencedMessageID = m.MessageReference.MessageID
	}
	if m.ReferencedMessage != nil && m.ReferencedMessage.Author != nil {
		msg.ReferencedAuthorID = m.ReferencedMessage.Author.ID
	}
	return msg
}

func toInteraction(i *discordgo.Interaction) platform.Interaction {
	in := platform.Interaction{
		ID:        i.ID,
		ChannelID: i.ChannelID,
		GuildID:   i.GuildID,
	}
	if i.Member != nil {
		in.User = memberUser(i.Member)
	} else {
		in.User = toUser(i.User)
	}
	if ts, err := discordgo.SnowflakeTimestamp(i.ID); err == nil {
		in.CreatedAt = ts
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand, discordgo.InteractionApplicationCommandAutocomplete:
		data := i.ApplicationCommandData()
		in.CommandID = data.ID
		in.CommandName = data.Name
		in.Options = toOptions(data.Options)
		in.Resolved = toResolved(data.Resolved)

		switch {
		case i.Type == discordgo.InteractionApplicationCommandAutocomplete:
			in.Kind = platform.InteractionAutocomplete
		case data.CommandType == discordgo.UserApplicationCommand:
			in.Kind = platform.InteractionUserAction
			if data.Resolved != nil {
				if u, ok := data.Resolved.Users[data.TargetID]; ok {
					target := toUser(u)
					if m, ok := data.Resolved.Members[data.TargetID]; ok && m.Nick != "" {
						target.DisplayName = m.Nick
					}
					in.TargetUser = &target
				}
			}
		case data.CommandType == discordgo.MessageApplicationCommand:
			in.Kind = platform.InteractionMessageAction
			if data.Resolved != nil {
				if m, ok := data.Resolved.Messages[data.TargetID]; ok {
					target := toMessage(m)
					in.TargetMessage = &target
				}
			}
		default:
			in.Kind = platform.InteractionChatInput
		}

	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		in.Kind = platform.InteractionModalSubmit
		in.CustomID = data.CustomID
		in.Fields = modalFields(data.Components)

	case discordgo.InteractionMessageComponent:
		in.Kind = platform.InteractionComponent
		in.CustomID = i.MessageComponentData().CustomID
	}
	return in
}

func toOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) []platform.OptionValue {
	out := make([]platform.OptionValue, 0, len(opts))
	for _, o := range opts {
		out = append(out, platform.OptionValue{
			Name:    o.Name,
			Type:    platform.OptionType(o.Type),
			Value:   o.Value,
			Focused: o.Focused,
		})
	}
	return out
}

func toResolved(r *discordgo.ApplicationCommandInteractionDataResolved) platform.Resolved {
	var out platform.Resolved
	if r == nil {
		return out
	}
	if len(r.Users) > 0 {
		out.Users = make(map[string]platform.User, len(r.Users))
		for id, u := range r.Users {
			pu := toUser(u)
			if m, ok := r.Members[id]; ok && m.Nick != "" {
				pu.DisplayName = m.Nick
			}
			out.Users[id] = pu
		}
	}
	if len(r.Roles) > 0 {
		out.Roles = make(map[string]platform.Role, len(r.Roles))
		for id, role := range r.Roles {
			out.Roles[id] = platform.Role{ID: role.ID, Name: role.Name}
		}
	}
	if len(r.Channels) > 0 {
		out.Channels = make(map[string]platform.Channel, len(r.Channels))
		for id, ch := range r.Channels {
			out.Channels[id] = platform.Channel{ID: ch.ID, Name: ch.Name, Type: platform.ChannelType(ch.Type)}
		}
	}
	if len(r.Attachments) > 0 {
		out.Attachments = make(map[string]platform.Attachment, len(r.Attachments))
		for id, a := range r.Attachments {
			out.Attachments[id] = platform.Attachment{
				ID:          a.ID,
				Filename:    a.Filename,
				URL:         a.URL,
				ContentType: a.ContentType,
				Size:        a.Size,
			}
		}
	}
	return out
}

func modalFields(components []discordgo.MessageComponent) map[string]string {
	fields := make(map[string]string)
	for _, c := range components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if ti, ok := inner.(*discordgo.TextInput); ok {
				fields[ti.CustomID] = ti.Value
			}
		}
	}
	return fields
}

func toEmbeds(embeds []platform.Embed) []*discordgo.MessageEmbed {
	if len(embeds) == 0 {
		return nil
	}
	out := make([]*discordgo.MessageEmbed, 0, len(embeds))
	for _, e := range embeds {
		me := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
		}
		for _, f := range e.Fields {
			me.Fields = append(me.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		if e.Footer != "" {
			me.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
		}
		if !e.Timestamp.IsZero() {
			me.Timestamp = e.Timestamp.Format(time.RFC3339)
		}
		out = append(out, me)
	}
	return out
}

func toModal(m platform.Modal) *discordgo.InteractionResponseData {
	rows := make([]discordgo.MessageComponent, 0, len(m.Inputs))
	for _, in := range m.Inputs {
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    in.CustomID,
				Label:       in.Label,
				Style:       discordgo.TextInputStyle(in.Style),
				Placeholder: in.Placeholder,
				Required:    in.Required,
				MaxLength:   in.MaxLength,
			},
		}})
	}
	return &discordgo.InteractionResponseData{
		CustomID:   m.CustomID,
		Title:      m.Title,
		Components: rows,
	}
}

func toChoices(choices []platform.Choice) []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(choices))
	for _, c := range choices {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: c.Name, Value: c.Value})
	}
	return out
}

// toCommands converts declarations through their JSON form, which matches the
// application command schema field for field.
func toCommands(decls []platform.Declaration) ([]*discordgo.ApplicationCommand, error) {
	data, err := json.Marshal(decls)
	if err != nil {
		return nil, fmt.Errorf("encoding declarations: %w", err)
	}
	var cmds []*discordgo.ApplicationCommand
	if err := json.Unmarshal(data, &cmds); err != nil {
		return nil, fmt.Errorf("decoding application commands: %w", err)
	}
	return cmds, nil
}
