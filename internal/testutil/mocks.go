// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"

	"sqlgate/internal/domain"
)

// === Audit Repository Mock ===

// MockAuditRepo implements domain.AuditRepository for testing.
type MockAuditRepo struct {
	InsertFn func(ctx context.Context, e *domain.AuditEntry) error
	ListFn   func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error)
	Entries  []*domain.AuditEntry // collected entries for assertions
}

// Insert implements the interface method for testing.
func (m *MockAuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, e); err != nil {
			return err
		}
	}
	m.Entries = append(m.Entries, e)
	return nil
}

// List implements the interface method for testing.
func (m *MockAuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	panic("unexpected call to MockAuditRepo.List")
}

// LastEntry returns the last collected audit entry, or nil if none.
func (m *MockAuditRepo) LastEntry() *domain.AuditEntry {
	if len(m.Entries) == 0 {
		return nil
	}
	return m.Entries[len(m.Entries)-1]
}

var _ domain.AuditRepository = (*MockAuditRepo)(nil)

// === Statement Executor Mock ===

// MockExecutor implements domain.StatementExecutor for testing.
type MockExecutor struct {
	QueryFn func(ctx context.Context, statement string) ([]string, [][]interface{}, error)
	ExecFn  func(ctx context.Context, statement string) (int64, error)

	QueryCalls []string
	ExecCalls  []string
}

// Query implements the interface method for testing.
func (m *MockExecutor) Query(ctx context.Context, statement string) ([]string, [][]interface{}, error) {
	m.QueryCalls = append(m.QueryCalls, statement)
	if m.QueryFn != nil {
		return m.QueryFn(ctx, statement)
	}
	panic("unexpected call to MockExecutor.Query")
}

// Exec implements the interface method for testing.
func (m *MockExecutor) Exec(ctx context.Context, statement string) (int64, error) {
	m.ExecCalls = append(m.ExecCalls, statement)
	if m.ExecFn != nil {
		return m.ExecFn(ctx, statement)
	}
	panic("unexpected call to MockExecutor.Exec")
}

// Executed reports whether the real store was touched at all.
func (m *MockExecutor) Executed() bool {
	return len(m.QueryCalls) > 0 || len(m.ExecCalls) > 0
}

var _ domain.StatementExecutor = (*MockExecutor)(nil)

// === Simulator Mock ===

// MockSimulator implements domain.Simulator for testing.
type MockSimulator struct {
	SimulateFn func(ctx context.Context, statement string) *domain.SimulationResult
}

// Simulate implements the interface method for testing.
func (m *MockSimulator) Simulate(ctx context.Context, statement string) *domain.SimulationResult {
	if m.SimulateFn != nil {
		return m.SimulateFn(ctx, statement)
	}
	panic("unexpected call to MockSimulator.Simulate")
}

var _ domain.Simulator = (*MockSimulator)(nil)
