package kernel

import (
	"context"
	"database/sql"
)

// DuckDBExecutor runs approved statements against the real DuckDB store.
// It implements domain.StatementExecutor and is the only code path that
// touches persistent data.
type DuckDBExecutor struct {
	db *sql.DB
}

// NewDuckDBExecutor wraps a real-store connection pool.
func NewDuckDBExecutor(db *sql.DB) *DuckDBExecutor {
	return &DuckDBExecutor{db: db}
}

// Query executes a SELECT and scans every row into generic values. Byte
// slices are converted to strings for JSON serialization.
func (e *DuckDBExecutor) Query(ctx context.Context, statement string) ([]string, [][]interface{}, error) {
	rows, err := e.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]interface{}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]interface{}, len(vals))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = v
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return cols, out, nil
}

// Exec executes an UPDATE and returns the engine-reported affected count.
func (e *DuckDBExecutor) Exec(ctx context.Context, statement string) (int64, error) {
	res, err := e.db.ExecContext(ctx, statement)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
