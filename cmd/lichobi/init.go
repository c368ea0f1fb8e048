// ABOUTME: The init command: interactive setup that writes a TOML config file.
// ABOUTME: Prompts mirror the config sections and skip what the user leaves empty.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lokesh58/lichobi/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively write a config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configFlag
		if path == "" {
			path = config.Path()
		}
		return runInit(cmd.InOrStdin(), cmd.OutOrStdout(), path)
	},
}

// setupAnswers are the values gathered by init.
type setupAnswers struct {
	Prefix        string
	DiscordToken  string
	DiscordAppID  string
	DevGuildID    string
	Homeserver    string
	Username      string
	Password      string
	RecoveryKey   string
	AIKey         string
	RunnerURL     string
	RunnerToken   string
	PluginsFolder string
}

func runInit(in io.Reader, out io.Writer, path string) error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	reader := bufio.NewReader(in)

	ask := func(prompt, def string) string {
		green.Fprint(out, "    ▶ ")
		if def != "" {
			fmt.Fprintf(out, "%s [%s]: ", prompt, def)
		} else {
			fmt.Fprintf(out, "%s: ", prompt)
		}
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return def
		}
		return answer
	}

	cyan.Fprint(out, banner)
	fmt.Fprintln(out, "    Interactive Setup")
	fmt.Fprintln(out, "    -----------------")
	fmt.Fprintln(out)

	if config.Exists(path) {
		yellow.Fprintf(out, "    Config already exists at %s\n", path)
		if strings.ToLower(ask("Overwrite? [y/N]", "")) != "y" {
			fmt.Fprintln(out, "    Aborted.")
			return nil
		}
		fmt.Fprintln(out)
	}

	a := setupAnswers{
		Prefix:       ask("Command prefix", "!"),
		DiscordToken: ask("Discord bot token (empty to skip Discord)", ""),
	}
	if a.DiscordToken != "" {
		a.DiscordAppID = ask("Discord application id", "")
		a.DevGuildID = ask("Development guild id (optional)", "")
	}
	if strings.ToLower(ask("Enable Matrix? [y/N]", "")) == "y" {
		a.Homeserver = ask("Matrix homeserver URL", "https://matrix.org")
		a.Username = ask("Matrix username", "")
		a.Password = ask("Matrix password", "")
		a.RecoveryKey = ask("Matrix recovery key (optional, for E2EE)", "")
	}
	a.AIKey = ask("Gemini API key (optional)", "")
	a.RunnerURL = ask("Code runner base URL (optional)", "")
	if a.RunnerURL != "" {
		a.RunnerToken = ask("Code runner token", "")
	}
	a.PluginsFolder = ask("Plugin folder (optional)", "")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(renderConfig(a)), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Fprintln(out)
	green.Fprintf(out, "    ✓ Config written to %s\n", path)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "    Next steps:")
	fmt.Fprintln(out, "    1. Run: lichobi commands publish")
	fmt.Fprintln(out, "    2. Run: lichobi")
	fmt.Fprintln(out)
	return nil
}

// renderConfig produces the TOML config for a.
func renderConfig(a setupAnswers) string {
	var b strings.Builder
	b.WriteString("# lichobi configuration\n# Generated by lichobi init\n\n")

	fmt.Fprintf(&b, "[bot]\ncommand_prefix = %q\ncorrelation_ttl = \"5m\"\n\n", a.Prefix)

	if a.DiscordToken != "" {
		fmt.Fprintf(&b, "[discord]\ntoken = %q\n", a.DiscordToken)
		if a.DiscordAppID != "" {
			fmt.Fprintf(&b, "app_id = %q\n", a.DiscordAppID)
		}
		if a.DevGuildID != "" {
			fmt.Fprintf(&b, "dev_guild_id = %q\n", a.DevGuildID)
		}
		b.WriteString("\n")
	}

	if a.Homeserver != "" {
		fmt.Fprintf(&b, "[matrix]\nenabled = true\nhomeserver = %q\nusername = %q\npassword = %q\n",
			a.Homeserver, a.Username, a.Password)
		if a.RecoveryKey != "" {
			fmt.Fprintf(&b, "recovery_key = %q\n", a.RecoveryKey)
		}
		b.WriteString("# Only respond in these rooms (empty = all joined rooms)\nallowed_rooms = []\ntyping_indicator = true\n\n")
	}

	if a.AIKey != "" {
		fmt.Fprintf(&b, "[ai]\nprovider = \"gemini\"\napi_key = %q\n\n", a.AIKey)
	}
	if a.RunnerURL != "" {
		fmt.Fprintf(&b, "[code_runner]\nbase_url = %q\ntoken = %q\n\n", a.RunnerURL, a.RunnerToken)
	}
	if a.PluginsFolder != "" {
		fmt.Fprintf(&b, "[plugins]\nfolder = %q\n\n", a.PluginsFolder)
	}

	b.WriteString("[logging]\nlevel = \"info\"\nformat = \"color\"\n")
	return b.String()
}
