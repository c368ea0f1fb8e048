// Package events wraps hub subscriptions with isolated error handling.
//
// Every listener invocation is wrapped: a returned error or a panic is logged
// with the listener's name and handed to the listener's own OnError, or to the
// default error handler for the event type. Nothing propagates back to the
// transport and sibling listeners run to completion.
//
// NewManager installs a default for interactionCreate that reports the error
// to the user as an ephemeral embed, following up when the interaction was
// already answered.
package events
