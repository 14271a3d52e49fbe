package repository

import (
	"context"

	"docmarket/internal/model"
)

// EntitlementRepository persists (user, document) access grants.
// Uniqueness of the pair is enforced by the store, not by a read before write.
type EntitlementRepository interface {
	// Grant inserts the entitlement or, if one already exists for the pair, returns the
	// existing row unchanged. created reports whether this call inserted it.
	Grant(ctx context.Context, e *model.Entitlement) (stored *model.Entitlement, created bool, err error)

	// Exists reports whether the pair has a committed entitlement.
	Exists(ctx context.Context, userEmail, documentID string) (bool, error)

	// ListByUser returns a user's entitlements, most recent first.
	ListByUser(ctx context.Context, userEmail string) ([]model.Entitlement, error)
}
