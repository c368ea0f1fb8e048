// Package errs defines the error kinds surfaced by command and event handling.
//
// Every kind separates the internal diagnostic (Error) from a short message
// safe to show users (DisplayMessage). Unknown failures are shown generically
// while the cause stays available to errors.Is and errors.As for logging.
package errs
