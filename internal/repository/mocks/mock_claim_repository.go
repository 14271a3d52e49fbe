package mocks

import (
	"context"
	"time"

	"docmarket/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Create(ctx context.Context, c *model.PaymentClaim) (*model.PaymentClaim, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentClaim), args.Error(1)
}

func (m *MockClaimRepository) FindByID(ctx context.Context, id int64) (*model.PaymentClaim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentClaim), args.Error(1)
}

func (m *MockClaimRepository) FindByIDForUpdate(ctx context.Context, id int64) (*model.PaymentClaim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentClaim), args.Error(1)
}

func (m *MockClaimRepository) LatestStatus(ctx context.Context, userEmail, documentID string) (*model.ClaimStatus, error) {
	args := m.Called(ctx, userEmail, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClaimStatus), args.Error(1)
}

func (m *MockClaimRepository) List(ctx context.Context) ([]model.PaymentClaim, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymentClaim), args.Error(1)
}

func (m *MockClaimRepository) UpdateStatus(ctx context.Context, id int64, from, to model.ClaimStatus, at time.Time) error {
	args := m.Called(ctx, id, from, to, at)
	return args.Error(0)
}
