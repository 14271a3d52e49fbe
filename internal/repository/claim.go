package repository

import (
	"context"
	"time"

	"docmarket/internal/model"
)

// ClaimRepository persists payment claims.
type ClaimRepository interface {
	// Create inserts a pending claim. A reused transaction reference yields ErrDuplicateReference.
	Create(ctx context.Context, c *model.PaymentClaim) (*model.PaymentClaim, error)

	// FindByID returns a claim or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*model.PaymentClaim, error)

	// FindByIDForUpdate is FindByID that also locks the row until the surrounding
	// transaction ends. Outside a transaction it behaves like FindByID.
	FindByIDForUpdate(ctx context.Context, id int64) (*model.PaymentClaim, error)

	// LatestStatus returns the status of the newest claim for the pair, or nil if none exists.
	// Newest means created_at descending with ties broken by id descending.
	LatestStatus(ctx context.Context, userEmail, documentID string) (*model.ClaimStatus, error)

	// List returns every claim, newest first.
	List(ctx context.Context) ([]model.PaymentClaim, error)

	// UpdateStatus moves a claim from one status to another. It returns ErrConflict if the claim
	// is no longer in the from status, and ErrNotFound if it does not exist.
	UpdateStatus(ctx context.Context, id int64, from, to model.ClaimStatus, at time.Time) error
}
