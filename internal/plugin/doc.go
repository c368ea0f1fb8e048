// ABOUTME: Package plugin discovers and installs commands and chat participants.
// ABOUTME: Constructors come from a compiled-in catalog or interpreted Go files.

// Package plugin builds commands and chat participants from constructors.
//
// Constructors receive a *Host carrying the bot's shared collaborators. They
// are listed at build time in a Catalog, or discovered at runtime by a Loader
// walking a folder of Go source files interpreted with yaegi. Interpreted
// files import the plugin API as "lichobi/sdk". A failing module or
// constructor is logged and skipped.
package plugin
