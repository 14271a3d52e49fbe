package repository

import (
	"context"

	"docmarket/internal/model"
)

// RoleRepository maps user emails to roles. Users without a row have model.RoleUser.
type RoleRepository interface {
	RoleOf(ctx context.Context, userEmail string) (model.Role, error)
	Assign(ctx context.Context, userEmail string, role model.Role) error
}
