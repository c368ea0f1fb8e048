// ABOUTME: The commands subcommands: list the registry and publish declarations to Discord.
// ABOUTME: Publishing targets the development guild unless told otherwise.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/lokesh58/lichobi/internal/command"
	"github.com/lokesh58/lichobi/internal/transport/discord"
)

var (
	publishGuild  string
	publishGlobal bool
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Inspect and publish registered commands",
}

var commandsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every command and the capabilities it registered",
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := bootOffline(cmd.Context())
		if err != nil {
			return err
		}
		defer b.Close()

		renderCommands(cmd.OutOrStdout(), b.Commands)
		return nil
	},
}

var commandsPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish application command declarations to Discord",
	Long: `Overwrites the Discord application commands with the declarations of every
chat-input, message-action and user-action command.

Without flags, commands go to the development guild (DEV_GUILD_ID) when set,
otherwise globally.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !cfg.Discord.Enabled() {
			return fmt.Errorf("discord is not configured: set DISCORD_BOT_TOKEN")
		}
		b, err := bootOffline(cmd.Context())
		if err != nil {
			return err
		}
		defer b.Close()

		session, err := discord.New(discord.Config{Token: cfg.Discord.Token, AppID: cfg.Discord.AppID}, b.Hub, logger)
		if err != nil {
			return err
		}
		scope := publishScope(publishGuild, cfg.Discord.DevGuildID, publishGlobal)
		if err := b.Commands.RegisterPlatformDeclarations(cmd.Context(), session, scope); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Published %d commands (%s)\n", len(b.Commands.Declarations()), scopeLabel(scope))
		return nil
	},
}

func init() {
	commandsPublishCmd.Flags().StringVar(&publishGuild, "guild", "", "publish to this guild instead of DEV_GUILD_ID")
	commandsPublishCmd.Flags().BoolVar(&publishGlobal, "global", false, "publish globally even when DEV_GUILD_ID is set")
	commandsCmd.AddCommand(commandsListCmd, commandsPublishCmd)
}

// publishScope picks the guild to publish to; "" means global.
func publishScope(flagGuild, devGuild string, global bool) string {
	switch {
	case global:
		return ""
	case flagGuild != "":
		return flagGuild
	default:
		return devGuild
	}
}

func scopeLabel(scope string) string {
	if scope == "" {
		return "global"
	}
	return "guild " + scope
}

func renderCommands(w io.Writer, r *command.Registry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Capabilities", "Description"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, name := range r.Names() {
		var caps []string
		var desc string
		for _, capability := range command.All() {
			d, ok := r.Get(name, capability)
			if !ok {
				continue
			}
			caps = append(caps, capability.String())
			if desc == "" {
				desc = d.Description
			}
		}
		table.Append([]string{name, strings.Join(caps, ", "), desc})
	}
	table.Render()
}
