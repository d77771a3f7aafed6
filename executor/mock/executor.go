// Package mock provides a test double for executor.Executor.
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/winregi/core"
	"github.com/poiesic/winregi/executor"
)

// MockExecutor is a mock implementation of executor.Executor.
type MockExecutor struct {
	ExecuteFunc          func(ctx context.Context, action core.Action) error
	SupportsRollbackFunc func(action core.Action) bool
	StatusFunc           func(ctx context.Context, action core.Action) (*executor.ActionStatus, error)

	mu        sync.Mutex
	callCount int
	executed  []core.Action
}

var (
	_ executor.Executor     = (*MockExecutor)(nil)
	_ executor.StatusReader = (*MockExecutor)(nil)
)

// NewMockExecutor creates a mock that succeeds for every action.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// Execute records the action and calls ExecuteFunc if set.
func (m *MockExecutor) Execute(ctx context.Context, action core.Action) error {
	m.mu.Lock()
	m.callCount++
	m.executed = append(m.executed, action)
	fn := m.ExecuteFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, action)
	}
	return nil
}

// SupportsRollback calls SupportsRollbackFunc if set, else executor.SupportsRollback.
func (m *MockExecutor) SupportsRollback(action core.Action) bool {
	if m.SupportsRollbackFunc != nil {
		return m.SupportsRollbackFunc(action)
	}
	return executor.SupportsRollback(action)
}

// Status calls StatusFunc if set. Otherwise it reports every registry value
// as missing, and other action kinds as executor.ErrStatusUnavailable.
func (m *MockExecutor) Status(ctx context.Context, action core.Action) (*executor.ActionStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, action)
	}
	if action.Kind != core.ActionKindRegistryWrite {
		return nil, executor.ErrStatusUnavailable
	}
	status := &executor.ActionStatus{Action: action}
	for _, v := range action.Registry {
		status.Values = append(status.Values, executor.ValueStatus{Want: v})
	}
	return status, nil
}

// CallCount returns the number of times Execute was called.
func (m *MockExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Executed returns the IDs of executed actions in call order.
func (m *MockExecutor) Executed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.executed))
	for i, a := range m.executed {
		ids[i] = a.Id
	}
	return ids
}

// Reset clears the call history.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.executed = nil
}
