// Package ai defines the text-generation provider used by chat commands and
// participants, with a Gemini implementation on google.golang.org/genai.
//
// Upstream failures are returned as errs.UserDisplayableError so handlers can
// show a short explanation while the cause is logged.
package ai
