// ABOUTME: Package participants holds the bot's built-in chat participants.
// ABOUTME: See dogchat.go.

// Package participants implements conversational responders.
package participants
