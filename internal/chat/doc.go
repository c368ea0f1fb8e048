// Package chat implements the conversational dispatcher.
//
// Participants are polled for every free-text message that is not a legacy
// command. The Registry keeps them ordered by priority, highest first, with
// ties broken by registration order; the order is computed when a participant
// registers, never per message. The first participant whose ShouldRespond
// returns true produces the reply and no further participants are consulted.
// A participant whose predicate or responder fails or panics is skipped.
package chat
