// Package sandbox dry-runs candidate statements against an isolated,
// disposable in-memory DuckDB store that mirrors the real schema but holds
// only synthetic data. It reports structural metadata — statement type,
// tables, columns, row counts, latency — without any policy awareness.
package sandbox

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"sqlgate/internal/classify"
	"sqlgate/internal/domain"
	"sqlgate/internal/sqlscan"
)

// DefaultSeedRows is the number of synthetic rows seeded per table when no
// count is configured.
const DefaultSeedRows = 20

// ColumnDef describes one column of a sandbox table.
type ColumnDef struct {
	Name string
	Type string // DuckDB type: INTEGER, VARCHAR, DOUBLE
}

// TableDef describes one sandbox table.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// DefaultSchema mirrors the demo customers table of the real store.
func DefaultSchema() []TableDef {
	return []TableDef{
		{
			Name: "customers",
			Columns: []ColumnDef{
				{Name: "id", Type: "INTEGER"},
				{Name: "name", Type: "VARCHAR"},
				{Name: "email", Type: "VARCHAR"},
				{Name: "ssn", Type: "VARCHAR"},
				{Name: "salary", Type: "INTEGER"},
			},
		},
	}
}

// Simulator executes candidate statements against its private in-memory
// store. Synthetic data is seeded once at construction; UPDATE simulations
// run inside a transaction that is always rolled back, so one request's
// state can never leak into another's classification results.
type Simulator struct {
	db     *sql.DB
	logger *slog.Logger

	// The in-memory store is shared by concurrent simulations; the rollback
	// discipline plus this lock keep them isolated.
	mu sync.Mutex
}

// Open creates a Simulator with a fresh in-memory DuckDB database, creates
// the schema, and seeds seedRows synthetic rows per table (0 means
// DefaultSeedRows).
func Open(ctx context.Context, schema []TableDef, seedRows int, logger *slog.Logger) (*Simulator, error) {
	if seedRows <= 0 {
		seedRows = DefaultSeedRows
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open sandbox duckdb: %w", err)
	}

	s := &Simulator{db: db, logger: logger}
	if err := s.seed(ctx, schema, seedRows); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close discards the sandbox store.
func (s *Simulator) Close() error {
	return s.db.Close()
}

// Simulate dry-runs the statement and reports its shape. Engine errors are
// captured verbatim into the result's Error field — they never propagate as
// Go errors to the caller.
func (s *Simulator) Simulate(ctx context.Context, statement string) *domain.SimulationResult {
	stmtType := sqlscan.ClassifyStatement(statement)
	if stmtType == domain.StmtUnsupported {
		return domain.InvalidSimulation(stmtType,
			"unsupported statement type: only SELECT and UPDATE can be simulated")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	var result *domain.SimulationResult
	switch stmtType {
	case domain.StmtSelect:
		result = s.simulateSelect(ctx, statement)
	case domain.StmtUpdate:
		result = s.simulateUpdate(ctx, statement)
	}
	result.ExecutionTimeMs = float64(time.Since(start).Microseconds()) / 1000.0

	s.logger.Debug("simulation complete",
		"type", result.StatementTypeName,
		"valid", result.Valid,
		"tables", result.TablesAccessed,
		"elapsed_ms", result.ExecutionTimeMs)
	return result
}

func (s *Simulator) simulateSelect(ctx context.Context, statement string) *domain.SimulationResult {
	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return domain.InvalidSimulation(domain.StmtSelect, err.Error())
	}
	defer rows.Close() //nolint:errcheck

	// Column names come from the result descriptor, not from re-parsing SQL.
	cols, err := rows.Columns()
	if err != nil {
		return domain.InvalidSimulation(domain.StmtSelect, err.Error())
	}

	var count uint64
	scratch := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range scratch {
		ptrs[i] = &scratch[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return domain.InvalidSimulation(domain.StmtSelect, err.Error())
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return domain.InvalidSimulation(domain.StmtSelect, err.Error())
	}

	return &domain.SimulationResult{
		Valid:                true,
		StatementType:        domain.StmtSelect,
		StatementTypeName:    domain.StmtSelect.String(),
		TablesAccessed:       sqlscan.ExtractTables(statement),
		ColumnsAccessed:      cols,
		ColumnClassification: classify.Columns(cols),
		RowsReturned:         &count,
	}
}

func (s *Simulator) simulateUpdate(ctx context.Context, statement string) *domain.SimulationResult {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.InvalidSimulation(domain.StmtUpdate, err.Error())
	}
	// The sandbox is only probed, never changed.
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, statement)
	if err != nil {
		return domain.InvalidSimulation(domain.StmtUpdate, err.Error())
	}
	affectedSigned, err := res.RowsAffected()
	if err != nil {
		return domain.InvalidSimulation(domain.StmtUpdate, err.Error())
	}
	affected := uint64(affectedSigned)

	cols := sqlscan.ExtractAssignedColumns(statement)
	return &domain.SimulationResult{
		Valid:                true,
		StatementType:        domain.StmtUpdate,
		StatementTypeName:    domain.StmtUpdate.String(),
		TablesAccessed:       sqlscan.ExtractTables(statement),
		ColumnsAccessed:      cols,
		ColumnClassification: classify.Columns(cols),
		RowsAffected:         &affected,
	}
}

// seed creates each table and fills it with deterministic synthetic rows.
// Synthetic values depend only on the row index so simulations are
// reproducible across restarts.
func (s *Simulator) seed(ctx context.Context, schema []TableDef, seedRows int) error {
	for _, table := range schema {
		defs := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			defs[i] = fmt.Sprintf("%s %s", quoteIdent(col.Name), col.Type)
		}
		createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table.Name), strings.Join(defs, ", "))
		if _, err := s.db.ExecContext(ctx, createSQL); err != nil {
			return fmt.Errorf("create sandbox table %q: %w", table.Name, err)
		}

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(table.Columns)), ", ")
		insertSQL := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table.Name), placeholders)
		for i := 0; i < seedRows; i++ {
			args := make([]interface{}, len(table.Columns))
			for j, col := range table.Columns {
				args[j] = syntheticValue(col, i)
			}
			if _, err := s.db.ExecContext(ctx, insertSQL, args...); err != nil {
				return fmt.Errorf("seed sandbox table %q: %w", table.Name, err)
			}
		}
	}
	return nil
}

// syntheticValue fabricates a plausible value for a column. The shapes match
// the demo data of the real store but are never real records.
func syntheticValue(col ColumnDef, row int) interface{} {
	switch strings.ToUpper(col.Type) {
	case "INTEGER", "BIGINT":
		if strings.EqualFold(col.Name, "id") {
			return row + 1
		}
		return 50000 + row*1000
	case "DOUBLE", "FLOAT":
		return float64(row) * 1.5
	default:
		lower := strings.ToLower(col.Name)
		switch {
		case strings.Contains(lower, "email"):
			return fmt.Sprintf("user%d@example.com", row+1)
		case strings.Contains(lower, "ssn"):
			return fmt.Sprintf("XXX-XX-%04d", 1000+row)
		default:
			return fmt.Sprintf("user%d", row+1)
		}
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
