package postgres

import (
	"context"
	"database/sql"
	"errors"

	"docmarket/internal/model"
	"docmarket/internal/repository"
)

// RolePostgres reads and writes the user_roles table.
type RolePostgres struct {
	db *sql.DB
}

// NewRolePostgres creates a new RolePostgres repository.
func NewRolePostgres(db *sql.DB) *RolePostgres {
	return &RolePostgres{db: db}
}

var _ repository.RoleRepository = (*RolePostgres)(nil)

// RoleOf returns the stored role, or model.RoleUser when the user has no row.
func (r *RolePostgres) RoleOf(ctx context.Context, userEmail string) (model.Role, error) {
	const q = `SELECT role FROM user_roles WHERE user_email = $1`
	var role string
	if err := executor(ctx, r.db).QueryRowContext(ctx, q, userEmail).Scan(&role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RoleUser, nil
		}
		return "", err
	}
	return model.Role(role), nil
}

// Assign upserts the user's role.
func (r *RolePostgres) Assign(ctx context.Context, userEmail string, role model.Role) error {
	const q = `
		INSERT INTO user_roles (user_email, role) VALUES ($1, $2)
		ON CONFLICT (user_email) DO UPDATE SET role = EXCLUDED.role
	`
	_, err := executor(ctx, r.db).ExecContext(ctx, q, userEmail, string(role))
	return err
}
