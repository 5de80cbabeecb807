package mocks

import "context"

// MockTransactor runs fn directly and records how many transactions were opened.
type MockTransactor struct {
	Calls         int
	ReadOnlyCalls int
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

func (m *MockTransactor) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.ReadOnlyCalls++
	return fn(ctx)
}
