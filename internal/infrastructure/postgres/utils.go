package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/craftfood/inventory-ledger/internal/domain"
)

// translateConcurrencyErr mapea fallos de serialización (40001) y deadlocks
// (40P01) a domain.ErrConflict; el resto pasa intacto.
func translateConcurrencyErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return domain.ErrConflict
		}
	}
	return err
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
