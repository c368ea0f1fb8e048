// ABOUTME: Entry point for the lichobi chat bot.
// ABOUTME: Cobra root command; loads .env and config, then sets up logging for subcommands.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lokesh58/lichobi/internal/config"
	"github.com/lokesh58/lichobi/internal/logging"
)

const banner = `
 _ _      _           _     _
| (_) ___| |__   ___ | |__ (_)
| | |/ __| '_ \ / _ \| '_ \| |
| | | (__| | | | (_) | |_) | |
|_|_|\___|_| |_|\___/|_.__/|_|
`

var (
	configFlag string
	verbose    bool

	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lichobi",
	Short: "lichobi - a plugin-driven chat bot for Discord and Matrix",
	Long: `lichobi routes chat platform events to plugin commands and conversational
participants. Configuration comes from a TOML or YAML file, .env and the
environment.

Run without a subcommand to start the bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == initCmd.Name() {
			return nil
		}
		return loadConfig()
	},
	RunE: runBot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "config file (default: $LICHOBI_CONFIG or the XDG config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd, initCmd, commandsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads .env, the config file if one exists, and the environment.
func loadConfig() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfgPath = resolveConfigPath(configFlag)
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config from %s: %w", displayPath(cfgPath), err)
	}
	cfg = loaded

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger = logging.New(os.Stderr, level, cfg.Logging.Format)
	slog.SetDefault(logger)
	return nil
}

// resolveConfigPath returns flag if set, else the default path when a file
// exists there, else "" for environment-only configuration.
func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if path := config.Path(); config.Exists(path) {
		return path
	}
	return ""
}

func displayPath(path string) string {
	if path == "" {
		return "(environment only)"
	}
	return path
}
