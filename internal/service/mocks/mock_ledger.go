package mocks

import (
	"context"

	"docmarket/internal/model"
	"docmarket/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockEntitlementLedger struct {
	mock.Mock
}

func (m *MockEntitlementLedger) Grant(ctx context.Context, req service.GrantRequest) (*model.Entitlement, bool, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Entitlement), args.Bool(1), args.Error(2)
}

func (m *MockEntitlementLedger) IsEntitled(ctx context.Context, userEmail, documentID string) (bool, error) {
	args := m.Called(ctx, userEmail, documentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntitlementLedger) ListForUser(ctx context.Context, userEmail string) ([]model.Entitlement, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Entitlement), args.Error(1)
}

func (m *MockEntitlementLedger) GrantDirect(ctx context.Context, actor model.Identity, userEmail, documentID string) (*model.Entitlement, bool, error) {
	args := m.Called(ctx, actor, userEmail, documentID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Entitlement), args.Bool(1), args.Error(2)
}
