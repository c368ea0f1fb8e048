// Package bot wires the dispatch core together: hub, event manager, both
// registries, the plugin host and the configured transports.
package bot
