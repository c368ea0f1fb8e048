// Package coderunner is a client for the remote code execution service.
package coderunner
