// ABOUTME: Package documentation for lichobi configuration.
// ABOUTME: Describes file locations, formats, environment overrides and defaults.

// Package config handles configuration loading for lichobi.
//
// # Overview
//
// Configuration is read from a TOML or YAML file, chosen by extension, then
// overlaid with environment variables. A .env file in the working directory
// is loaded first when present.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from LICHOBI_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/lichobi/config.toml
//  3. ~/.config/lichobi/config.toml
//
// When no file exists the bot runs from defaults and environment alone.
//
// # Environment Variable Expansion
//
// File values can reference environment variables:
//
//	[discord]
//	token = "${DISCORD_BOT_TOKEN}"
//
// # Environment Overrides
//
// These variables override file values when set:
//
//	DISCORD_BOT_TOKEN, DISCORD_APP_ID, DEV_GUILD_ID
//	COMMAND_PREFIX, CORRELATION_TTL
//	AI_PROVIDER, AI_API_KEY, AI_MODEL
//	CODE_RUNNER_API_BASE_URL, CODE_RUNNER_API_TOKEN
//	MATRIX_ENABLED, MATRIX_HOMESERVER, MATRIX_USERNAME, MATRIX_PASSWORD,
//	MATRIX_RECOVERY_KEY, MATRIX_ALLOWED_ROOMS, MATRIX_TYPING_INDICATOR
//	PLUGIN_FOLDER, PLUGIN_EXTENSIONS
//	LOG_LEVEL, LOG_FORMAT
//
// # Defaults
//
//	bot.command_prefix   "!"
//	bot.correlation_ttl  "5m"
//	ai.provider          "gemini"
//	plugins.extensions   [".go"]
//	logging.level        "info"
//	logging.format       "color"
//
// Discord starts when a token is set, Matrix when matrix.enabled is true.
// The chat command and dog-chat participant need ai.api_key; runcode needs
// code_runner.base_url.
package config
