package memory

import (
	"context"

	"docmarket/internal/model"
	"docmarket/internal/repository"
)

// RoleStore implements repository.RoleRepository.
type RoleStore struct {
	s *Store
}

var _ repository.RoleRepository = (*RoleStore)(nil)

func (r *RoleStore) RoleOf(ctx context.Context, userEmail string) (model.Role, error) {
	role := model.RoleUser
	err := r.s.read(ctx, func(st *state) error {
		if stored, ok := st.roles[userEmail]; ok {
			role = stored
		}
		return nil
	})
	return role, err
}

func (r *RoleStore) Assign(ctx context.Context, userEmail string, role model.Role) error {
	return r.s.write(ctx, func(st *state) error {
		st.roles[userEmail] = role
		return nil
	})
}
