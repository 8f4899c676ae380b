package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/teamtask/backend/domain"
)

// mapConstraint classifies storage-level invariant violations (enum checks,
// foreign keys, unique indexes) as CONFLICT so callers can distinguish them
// from plain validation failures.
func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return domain.WrapError(domain.ErrCodeConflict, "record already exists", err)
		case "23503": // foreign_key_violation
			return domain.WrapError(domain.ErrCodeConflict, "referenced record does not exist", err)
		case "23514": // check_violation
			return domain.WrapError(domain.ErrCodeConflict, "value violates a storage constraint", err)
		}
	}
	return err
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
