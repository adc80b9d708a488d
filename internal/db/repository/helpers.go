package repository

import (
	"database/sql"
	"errors"
	"strings"

	"sqlgate/internal/domain"
)

// mapDBError lifts driver-level failures into the domain error taxonomy so
// the HTTP layer can pick status codes without knowing about SQLite.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "audit entry not found"}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &domain.ConflictError{Message: "audit entry already recorded"}
	}
	return err
}
