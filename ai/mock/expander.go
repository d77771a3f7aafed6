package mock

import (
	"context"
	"sync"

	"github.com/poiesic/winregi/ai"
)

// MockQueryExpander is a test double for ai.QueryExpander.
// It allows custom behavior injection via function fields.
type MockQueryExpander struct {
	// ExpandQueryFunc is called by ExpandQuery if set.
	// If nil, ExpandQuery returns no keywords.
	ExpandQueryFunc func(ctx context.Context, query string) ([]string, error)

	mu        sync.Mutex
	callCount int
	queries   []string
}

var _ ai.QueryExpander = (*MockQueryExpander)(nil)

// NewMockQueryExpander creates a mock expander with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockQueryExpander() *MockQueryExpander {
	return &MockQueryExpander{}
}

// ExpandQuery records the call and delegates to ExpandQueryFunc.
func (m *MockQueryExpander) ExpandQuery(ctx context.Context, query string) ([]string, error) {
	m.mu.Lock()
	m.callCount++
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.ExpandQueryFunc != nil {
		return m.ExpandQueryFunc(ctx, query)
	}
	return []string{}, nil
}

// CallCount returns the number of times ExpandQuery was called.
func (m *MockQueryExpander) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Queries returns the queries passed to ExpandQuery, in call order.
func (m *MockQueryExpander) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// Reset clears the recorded calls.
func (m *MockQueryExpander) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.queries = nil
}
