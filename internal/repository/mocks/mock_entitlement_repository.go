package mocks

import (
	"context"

	"docmarket/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockEntitlementRepository struct {
	mock.Mock
}

func (m *MockEntitlementRepository) Grant(ctx context.Context, e *model.Entitlement) (*model.Entitlement, bool, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Entitlement), args.Bool(1), args.Error(2)
}

func (m *MockEntitlementRepository) Exists(ctx context.Context, userEmail, documentID string) (bool, error) {
	args := m.Called(ctx, userEmail, documentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntitlementRepository) ListByUser(ctx context.Context, userEmail string) ([]model.Entitlement, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Entitlement), args.Error(1)
}
