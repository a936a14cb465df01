// Package provider defines completion provider implementations.
package provider

import "github.com/nbbb26/lightermeet"

// CompletionProvider is the interface for hosted language model backends.
// This is an alias to the main package interface for convenience.
type CompletionProvider = lightermeet.CompletionProvider

// CompletionRequest is an alias to the main package type.
type CompletionRequest = lightermeet.CompletionRequest
