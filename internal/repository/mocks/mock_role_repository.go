package mocks

import (
	"context"

	"docmarket/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) RoleOf(ctx context.Context, userEmail string) (model.Role, error) {
	args := m.Called(ctx, userEmail)
	return args.Get(0).(model.Role), args.Error(1)
}

func (m *MockRoleRepository) Assign(ctx context.Context, userEmail string, role model.Role) error {
	args := m.Called(ctx, userEmail, role)
	return args.Error(0)
}
