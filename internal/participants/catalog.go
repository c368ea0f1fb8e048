// ABOUTME: Registers the built-in chat participants with a plugin catalog.
// ABOUTME: Participants without their collaborators fail at construction and are skipped.

package participants

import "github.com/lokesh58/lichobi/internal/plugin"

// Register adds the built-in participants to c.
func Register(c *plugin.Catalog) {
	c.AddParticipant("dog-chat", NewDogChat)
}
