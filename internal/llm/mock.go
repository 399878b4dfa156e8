package llm

import (
	"context"
	"sync"
)

// MockClient is a scriptable Client for tests. Set Response (and
// optionally Err) before each call; every request is recorded.
type MockClient struct {
	mu       sync.Mutex
	Response CompletionResponse
	Err      error
	Requests []CompletionRequest
}

// Complete records the request and returns the scripted response.
func (m *MockClient) Complete(_ context.Context, req CompletionRequest) (CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return CompletionResponse{}, m.Err
	}
	return m.Response, nil
}

// CallCount returns how many completions were requested.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// LastRequest returns the most recent request, or a zero value when none
// were made.
func (m *MockClient) LastRequest() CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return CompletionRequest{}
	}
	return m.Requests[len(m.Requests)-1]
}
