// Package repository implements domain repository interfaces using SQLite.
package repository

import (
	"context"
	"database/sql"
	"time"

	"sqlgate/internal/domain"
)

// AuditRepo persists kernel decisions to the append-only audit_log table.
// Writes go through the write pool; listings use the read pool.
type AuditRepo struct {
	writeDB *sql.DB
	readDB  *sql.DB
}

func NewAuditRepo(writeDB, readDB *sql.DB) *AuditRepo {
	return &AuditRepo{writeDB: writeDB, readDB: readDB}
}

var _ domain.AuditRepository = (*AuditRepo)(nil)

func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	const q = `
		INSERT INTO audit_log (id, created_at, user_input, statement, decision, reason, simulation_json, risk_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.writeDB.ExecContext(ctx, q,
		e.ID,
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
		e.UserInput,
		e.Statement,
		e.Decision,
		e.Reason,
		e.SimulationJSON,
		e.RiskScore,
	)
	return mapDBError(err)
}

func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	// nil filter column means "match everything".
	var decisionFilter interface{}
	if filter.Decision != nil {
		decisionFilter = *filter.Decision
	}

	const countQ = `
		SELECT count(*) FROM audit_log
		WHERE (?1 IS NULL OR decision = ?1)`

	var total int64
	if err := r.readDB.QueryRowContext(ctx, countQ, decisionFilter).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	const listQ = `
		SELECT id, created_at, user_input, statement, decision, reason, simulation_json, risk_score
		FROM audit_log
		WHERE (?1 IS NULL OR decision = ?1)
		ORDER BY created_at DESC, id DESC
		LIMIT ?2 OFFSET ?3`

	rows, err := r.readDB.QueryContext(ctx, listQ,
		decisionFilter, int64(filter.Page.Limit()), int64(filter.Page.Offset()))
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			e         domain.AuditEntry
			createdAt string
		)
		if err := rows.Scan(&e.ID, &createdAt, &e.UserInput, &e.Statement,
			&e.Decision, &e.Reason, &e.SimulationJSON, &e.RiskScore); err != nil {
			return nil, 0, mapDBError(err)
		}
		if ts, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapDBError(err)
	}

	return entries, total, nil
}
