package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// demoNames drives the deterministic demo dataset. Row i gets demoNames[i%20]
// with patterned contact and salary fields.
var demoNames = []string{
	"Alice Johnson", "Bob Smith", "Carol Williams", "David Brown", "Eva Davis",
	"Frank Miller", "Grace Wilson", "Henry Moore", "Iris Taylor", "Jack Anderson",
	"Karen Thomas", "Leo Jackson", "Mona White", "Nate Harris", "Olga Martin",
	"Paul Thompson", "Quinn Garcia", "Rosa Martinez", "Sam Robinson", "Tina Clark",
}

// SeedRealStore creates and populates the demo customers table in the real
// DuckDB store. Idempotent — an already-populated table is left alone.
func SeedRealStore(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS customers (
			id     INTEGER PRIMARY KEY,
			name   VARCHAR,
			email  VARCHAR,
			ssn    VARCHAR,
			salary INTEGER
		)`); err != nil {
		return fmt.Errorf("create customers table: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT count(*) FROM customers").Scan(&count); err != nil {
		return fmt.Errorf("count customers: %w", err)
	}
	if count > 0 {
		logger.Debug("real store already seeded", "rows", count)
		return nil
	}

	const insertSQL = "INSERT INTO customers (id, name, email, ssn, salary) VALUES (?, ?, ?, ?, ?)"
	for i, name := range demoNames {
		id := i + 1
		email := fmt.Sprintf("customer%d@example.com", id)
		ssn := fmt.Sprintf("123-45-%04d", 6000+id)
		salary := 45000 + i*2500
		if _, err := db.ExecContext(ctx, insertSQL, id, name, email, ssn, salary); err != nil {
			return fmt.Errorf("seed customer %d: %w", id, err)
		}
	}

	logger.Info("real store seeded", "table", "customers", "rows", len(demoNames))
	return nil
}
