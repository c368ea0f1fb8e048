// ABOUTME: Registers the built-in commands with a plugin catalog.
// ABOUTME: Commands whose collaborators are missing fail at construction and are skipped.

package commands

import "github.com/lokesh58/lichobi/internal/plugin"

// Register adds the built-in commands to c.
func Register(c *plugin.Catalog) {
	c.AddCommand("info", NewInfo).
		AddCommand("chat", NewChat).
		AddCommand("runcode", NewRuncode)
}
