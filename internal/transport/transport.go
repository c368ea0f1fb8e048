// ABOUTME: The contract every chat platform connection satisfies.
// ABOUTME: A transport translates platform traffic into hub events until its context ends.

// Package transport defines the interface shared by platform connections.
package transport

import "context"

// Transport is a running connection to a chat platform.
type Transport interface {
	// Name identifies the transport in logs.
	Name() string
	// Run connects and emits events on the hub until ctx is cancelled.
	Run(ctx context.Context) error
}
