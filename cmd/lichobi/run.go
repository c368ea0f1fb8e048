// ABOUTME: The run command: boots the bot and serves every configured transport.
// ABOUTME: Shuts down gracefully on SIGINT or SIGTERM.

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lokesh58/lichobi/internal/bot"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, _ []string) error {
	if !cfg.HasTransport() {
		return fmt.Errorf("no transport configured: set DISCORD_BOT_TOKEN or enable matrix (run 'lichobi init')")
	}

	color.New(color.FgCyan).Print(banner)
	printStartup()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	b, err := bot.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("creating bot: %w", err)
	}
	defer b.Close()

	if _, err := b.Boot(ctx); err != nil {
		return fmt.Errorf("booting bot: %w", err)
	}

	logger.Info("starting transports", "count", len(b.Transports()))
	if err := b.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("bot stopped")
	return nil
}

func printStartup() {
	green := color.New(color.FgGreen)
	line := func(label, value string) {
		green.Print("    ▶ ")
		fmt.Printf("%-12s%s\n", label+":", value)
	}

	line("Config", displayPath(cfgPath))
	line("Prefix", cfg.Bot.CommandPrefix)
	if cfg.Discord.Enabled() {
		line("Discord", "enabled")
	}
	if cfg.Matrix.Enabled {
		line("Matrix", fmt.Sprintf("%s as %s", cfg.Matrix.Homeserver, cfg.Matrix.Username))
	}
	if cfg.AI.Enabled() {
		line("AI", cfg.AI.Provider)
	}
	if cfg.CodeRunner.Enabled() {
		line("Code runner", cfg.CodeRunner.BaseURL)
	}
	if cfg.Plugins.Folder != "" {
		line("Plugins", cfg.Plugins.Folder)
	}
	fmt.Println()
}

// bootOffline builds and boots a bot without transports, for commands that
// only inspect or publish the registry.
func bootOffline(ctx context.Context) (*bot.Bot, error) {
	b, err := bot.New(ctx, cfg, logger, bot.WithTransports())
	if err != nil {
		return nil, fmt.Errorf("creating bot: %w", err)
	}
	if _, err := b.Boot(ctx); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("booting bot: %w", err)
	}
	return b, nil
}
