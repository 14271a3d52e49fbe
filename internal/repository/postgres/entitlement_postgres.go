package postgres

import (
	"context"
	"database/sql"
	"errors"

	"docmarket/internal/model"
	"docmarket/internal/repository"
)

// EntitlementPostgres stores grants in the entitlements table, unique on (user_email, document_id).
type EntitlementPostgres struct {
	db *sql.DB
}

// NewEntitlementPostgres creates a new EntitlementPostgres repository.
func NewEntitlementPostgres(db *sql.DB) *EntitlementPostgres {
	return &EntitlementPostgres{db: db}
}

var _ repository.EntitlementRepository = (*EntitlementPostgres)(nil)

const entitlementColumns = `user_email, document_id, source, claim_id, granted_at`

func scanEntitlement(row rowScanner) (*model.Entitlement, error) {
	var (
		e       model.Entitlement
		source  string
		claimID sql.NullInt64
	)
	if err := row.Scan(&e.UserEmail, &e.DocumentID, &source, &claimID, &e.GrantedAt); err != nil {
		return nil, err
	}
	e.Source = model.EntitlementSource(source)
	if claimID.Valid {
		id := claimID.Int64
		e.ClaimID = &id
	}
	return &e, nil
}

// Grant is an insert-or-ignore on the (user_email, document_id) key. When the insert is
// ignored the existing row is read back in the same executor, so a concurrent grant of the
// same pair never surfaces as an error.
func (r *EntitlementPostgres) Grant(ctx context.Context, e *model.Entitlement) (*model.Entitlement, bool, error) {
	db := executor(ctx, r.db)

	var claimID sql.NullInt64
	if e.ClaimID != nil {
		claimID = sql.NullInt64{Int64: *e.ClaimID, Valid: true}
	}

	const qInsert = `
		INSERT INTO entitlements (user_email, document_id, source, claim_id, granted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_email, document_id) DO NOTHING
		RETURNING ` + entitlementColumns
	stored, err := scanEntitlement(db.QueryRowContext(ctx, qInsert,
		e.UserEmail, e.DocumentID, string(e.Source), claimID, e.GrantedAt))
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	const qExisting = `SELECT ` + entitlementColumns + ` FROM entitlements WHERE user_email = $1 AND document_id = $2`
	stored, err = scanEntitlement(db.QueryRowContext(ctx, qExisting, e.UserEmail, e.DocumentID))
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

// Exists reports whether an entitlement row exists for the pair.
func (r *EntitlementPostgres) Exists(ctx context.Context, userEmail, documentID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM entitlements WHERE user_email = $1 AND document_id = $2)`
	var ok bool
	if err := executor(ctx, r.db).QueryRowContext(ctx, q, userEmail, documentID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// ListByUser returns the user's entitlements, most recent first.
func (r *EntitlementPostgres) ListByUser(ctx context.Context, userEmail string) ([]model.Entitlement, error) {
	const q = `SELECT ` + entitlementColumns + ` FROM entitlements WHERE user_email = $1 ORDER BY granted_at DESC, document_id`
	rows, err := executor(ctx, r.db).QueryContext(ctx, q, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Entitlement, 0)
	for rows.Next() {
		e, err := scanEntitlement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
