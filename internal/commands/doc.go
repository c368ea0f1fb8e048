// ABOUTME: Package commands holds the bot's built-in commands.
// ABOUTME: Each constructor takes a plugin host and returns a command descriptor.

// Package commands implements info, chat and runcode.
package commands
