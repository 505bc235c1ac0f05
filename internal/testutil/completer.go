package testutil

import (
	"context"
	"strings"
	"sync"
)

// CompleterCall records a single prompt sent to the mock completer.
type CompleterCall struct {
	Prompt   string
	Response string
}

// MockCompleter provides deterministic completion responses for testing.
// Prompts are matched against registered substring patterns in
// registration order; the first match wins, otherwise the fallback is
// returned.
type MockCompleter struct {
	mu       sync.Mutex
	rules    []completerRule
	fallback string
	err      error
	calls    []CompleterCall
}

type completerRule struct {
	pattern  string
	response string
}

// NewMockCompleter creates a mock completer with the given fallback
// response.
func NewMockCompleter(fallback string) *MockCompleter {
	return &MockCompleter{fallback: fallback}
}

// AddResponse registers a pattern-response pair. Matching is
// case-insensitive substring containment.
func (m *MockCompleter) AddResponse(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, completerRule{
		pattern:  strings.ToLower(pattern),
		response: response,
	})
}

// FailWith makes every subsequent Complete call return err. Pass nil to
// clear.
func (m *MockCompleter) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns a copy of all recorded calls.
func (m *MockCompleter) Calls() []CompleterCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]CompleterCall, len(m.calls))
	copy(cp, m.calls)
	return cp
}

// Complete returns the response for the first matching pattern.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}

	response := m.fallback
	lower := strings.ToLower(prompt)
	for _, r := range m.rules {
		if strings.Contains(lower, r.pattern) {
			response = r.response
			break
		}
	}

	m.calls = append(m.calls, CompleterCall{Prompt: prompt, Response: response})
	return response, nil
}
