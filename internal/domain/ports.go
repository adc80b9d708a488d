package domain

import "context"

// Simulator dry-runs a candidate statement against the disposable sandbox
// store and reports its shape. Implemented by sandbox.Simulator.
type Simulator interface {
	Simulate(ctx context.Context, statement string) *SimulationResult
}

// StatementExecutor runs an approved statement against the real data store.
// This is the only path through which persistent state changes.
// Implemented by kernel.DuckDBExecutor.
type StatementExecutor interface {
	// Query executes a SELECT and returns column names plus row values.
	Query(ctx context.Context, statement string) ([]string, [][]interface{}, error)
	// Exec executes an UPDATE and returns the engine-reported affected count.
	Exec(ctx context.Context, statement string) (int64, error)
}

// AuditRepository is the append-only persistence interface for audit records.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}
