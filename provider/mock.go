package provider

import (
	"context"
	"sync"

	"github.com/nbbb26/lightermeet"
)

// Mock is a scripted completion provider for testing.
type Mock struct {
	mu          sync.Mutex
	Completions map[string]string // Map of user text to completion
	Err         error             // If set, returned on every call
	callCount   int
	lastRequest *CompletionRequest
	requests    []CompletionRequest
}

// NewMock creates a new mock provider with default completions.
func NewMock() *Mock {
	return &Mock{
		Completions: map[string]string{
			"hello":        "hola",
			"Hello":        "Hola",
			"Hello World":  "Hola Mundo",
			"Good morning": "Buenos días",
		},
	}
}

// Complete returns the scripted completion for the user text, or the text
// bracketed when no script exists.
func (m *Mock) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	m.lastRequest = &req
	m.requests = append(m.requests, req)

	if m.Err != nil {
		return "", m.Err
	}

	if completion, ok := m.Completions[req.User]; ok {
		return completion, nil
	}
	return "[" + req.User + "]", nil
}

// CallCount returns the number of Complete calls so far.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the most recent request, or nil.
func (m *Mock) LastRequest() *CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Requests returns a copy of every request received.
func (m *Mock) Requests() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Reset clears the recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = nil
	m.requests = nil
}

// Verify Mock implements CompletionProvider
var _ lightermeet.CompletionProvider = (*Mock)(nil)
