// Package platform defines the platform-neutral vocabulary the dispatch core
// speaks: users, messages, interactions, outbound responses, and command
// declarations in the platform's wire format.
//
// Transports translate their native events into MessageEvent and
// InteractionEvent values and emit them on a Hub. Each event carries a
// per-event responder (Responder or MessageResponder) and the transport's
// Session, so handlers never reach for a global client.
//
// The Hub fans every emitted payload out to all subscribers of the event type,
// each on its own goroutine. Error isolation for individual listeners lives in
// the events package; the Hub only recovers panics so that a broken
// subscriber cannot take down a transport's receive loop.
package platform
