package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docmarket/internal/model"
	"docmarket/internal/repository"
)

// ClaimPostgres stores payment claims. transaction_ref is unique across the whole table,
// which is what rejects a replayed proof of payment under concurrent submission.
type ClaimPostgres struct {
	db *sql.DB
}

// NewClaimPostgres creates a new ClaimPostgres repository.
func NewClaimPostgres(db *sql.DB) *ClaimPostgres {
	return &ClaimPostgres{db: db}
}

var _ repository.ClaimRepository = (*ClaimPostgres)(nil)

const claimColumns = `id, user_email, user_name, document_id, document_title, transaction_ref,
		amount_minor, currency, status, created_at, decided_at`

func scanClaim(row rowScanner) (*model.PaymentClaim, error) {
	var (
		c         model.PaymentClaim
		status    string
		decidedAt sql.NullTime
	)
	if err := row.Scan(
		&c.ID,
		&c.UserEmail,
		&c.UserName,
		&c.DocumentID,
		&c.DocumentTitle,
		&c.TransactionRef,
		&c.Amount.Amount,
		&c.Amount.Currency,
		&status,
		&c.CreatedAt,
		&decidedAt,
	); err != nil {
		return nil, err
	}
	c.Status = model.ClaimStatus(status)
	if decidedAt.Valid {
		t := decidedAt.Time
		c.DecidedAt = &t
	}
	return &c, nil
}

// Create inserts a pending claim and returns it with its generated id.
func (r *ClaimPostgres) Create(ctx context.Context, c *model.PaymentClaim) (*model.PaymentClaim, error) {
	const q = `
		INSERT INTO payment_claims (user_email, user_name, document_id, document_title, transaction_ref,
			amount_minor, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + claimColumns
	stored, err := scanClaim(executor(ctx, r.db).QueryRowContext(ctx, q,
		c.UserEmail,
		c.UserName,
		c.DocumentID,
		c.DocumentTitle,
		c.TransactionRef,
		c.Amount.Amount,
		c.Amount.Currency,
		string(model.ClaimPending),
		c.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err, claimRefConstraint) {
			return nil, fmt.Errorf("%w: %s", repository.ErrDuplicateReference, c.TransactionRef)
		}
		return nil, err
	}
	return stored, nil
}

// FindByID fetches a claim by id.
func (r *ClaimPostgres) FindByID(ctx context.Context, id int64) (*model.PaymentClaim, error) {
	const q = `SELECT ` + claimColumns + ` FROM payment_claims WHERE id = $1`
	return r.findOne(ctx, q, id)
}

// FindByIDForUpdate fetches a claim by id and locks it for the rest of the transaction.
func (r *ClaimPostgres) FindByIDForUpdate(ctx context.Context, id int64) (*model.PaymentClaim, error) {
	const q = `SELECT ` + claimColumns + ` FROM payment_claims WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, q, id)
}

func (r *ClaimPostgres) findOne(ctx context.Context, q string, id int64) (*model.PaymentClaim, error) {
	c, err := scanClaim(executor(ctx, r.db).QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// LatestStatus returns the status of the newest claim for the pair, or nil when there is none.
func (r *ClaimPostgres) LatestStatus(ctx context.Context, userEmail, documentID string) (*model.ClaimStatus, error) {
	const q = `
		SELECT status FROM payment_claims
		WHERE user_email = $1 AND document_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var status string
	if err := executor(ctx, r.db).QueryRowContext(ctx, q, userEmail, documentID).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s := model.ClaimStatus(status)
	return &s, nil
}

// List returns all claims, newest first.
func (r *ClaimPostgres) List(ctx context.Context) ([]model.PaymentClaim, error) {
	const q = `SELECT ` + claimColumns + ` FROM payment_claims ORDER BY created_at DESC, id DESC`
	rows, err := executor(ctx, r.db).QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PaymentClaim, 0)
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateStatus is a compare-and-set on status. Zero affected rows means either the claim is
// gone or another writer already moved it; the two cases are told apart with a follow-up read.
func (r *ClaimPostgres) UpdateStatus(ctx context.Context, id int64, from, to model.ClaimStatus, at time.Time) error {
	db := executor(ctx, r.db)

	const q = `UPDATE payment_claims SET status = $3, decided_at = $4 WHERE id = $1 AND status = $2`
	res, err := db.ExecContext(ctx, q, id, string(from), string(to), at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	const qExists = `SELECT EXISTS (SELECT 1 FROM payment_claims WHERE id = $1)`
	var exists bool
	if err := db.QueryRowContext(ctx, qExists, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}
