package pool

import (
	"context"
	"sync"
)

// MockRunner is a scriptable Runner for tests.
type MockRunner struct {
	mu sync.Mutex

	// RunFunc, when set, handles every Run call.
	RunFunc func(ctx context.Context, script string) (Output, error)

	// Scripts records every script passed to Run, in order.
	Scripts []string

	// Closed is set once Close is called.
	Closed bool
}

func (m *MockRunner) Run(ctx context.Context, script string) (Output, error) {
	m.mu.Lock()
	m.Scripts = append(m.Scripts, script)
	m.mu.Unlock()
	if m.RunFunc != nil {
		return m.RunFunc(ctx, script)
	}
	return Output{}, nil
}

func (m *MockRunner) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

func (m *MockRunner) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Scripts)
}
