// Package discord connects to the Discord gateway with discordgo, emits
// platform events on the hub, and implements the platform session and
// responders.
package discord
