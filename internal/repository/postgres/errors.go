package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	// claimRefConstraint is the unique constraint on payment_claims.transaction_ref.
	claimRefConstraint = "payment_claims_transaction_ref_key"
)

// isUniqueViolation checks if err is a unique constraint violation, optionally on a named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == "" || pgErr.ConstraintName == constraint
}
