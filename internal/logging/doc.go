// ABOUTME: Package logging builds slog loggers from configuration.
// ABOUTME: Text, JSON and level-coloured output are supported.

// Package logging configures log/slog for the bot.
package logging
