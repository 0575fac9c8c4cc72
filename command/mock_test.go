package command

import (
	"context"
	"sync"

	"github.com/smnsjas/iispool/pool"
)

// MockManager is a scriptable pool.Manager for tests.
type MockManager struct {
	mu sync.Mutex

	RecycleFunc func(ctx context.Context, name string) error
	StartFunc   func(ctx context.Context, name string) error
	StopFunc    func(ctx context.Context, name string, passThru bool) (*pool.State, error)
	QueryFunc   func(ctx context.Context, name, stateFilter string) (*pool.State, error)
	LookupFunc  func(ctx context.Context, name string) ([]string, error)

	// Calls records method invocations as "method:poolname".
	Calls  []string
	Closed bool
}

func (m *MockManager) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

func (m *MockManager) Recycle(ctx context.Context, name string) error {
	m.record("recycle:" + name)
	if m.RecycleFunc != nil {
		return m.RecycleFunc(ctx, name)
	}
	return nil
}

func (m *MockManager) Start(ctx context.Context, name string) error {
	m.record("start:" + name)
	if m.StartFunc != nil {
		return m.StartFunc(ctx, name)
	}
	return nil
}

func (m *MockManager) Stop(ctx context.Context, name string, passThru bool) (*pool.State, error) {
	m.record("stop:" + name)
	if m.StopFunc != nil {
		return m.StopFunc(ctx, name, passThru)
	}
	return nil, nil
}

func (m *MockManager) Query(ctx context.Context, name, stateFilter string) (*pool.State, error) {
	m.record("query:" + name + ":" + stateFilter)
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, name, stateFilter)
	}
	return nil, nil
}

func (m *MockManager) Lookup(ctx context.Context, name string) ([]string, error) {
	m.record("lookup:" + name)
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockManager) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
