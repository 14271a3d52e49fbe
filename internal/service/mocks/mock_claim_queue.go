package mocks

import (
	"context"

	"docmarket/internal/model"
	"docmarket/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockClaimQueue struct {
	mock.Mock
}

func (m *MockClaimQueue) Submit(ctx context.Context, actor model.Identity, in service.SubmitInput) (*model.PaymentClaim, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentClaim), args.Error(1)
}

func (m *MockClaimQueue) LatestStatus(ctx context.Context, userEmail, documentID string) (*model.ClaimStatus, error) {
	args := m.Called(ctx, userEmail, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClaimStatus), args.Error(1)
}

func (m *MockClaimQueue) ListAll(ctx context.Context) ([]model.PaymentClaim, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymentClaim), args.Error(1)
}

func (m *MockClaimQueue) Get(ctx context.Context, id int64) (*model.PaymentClaim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentClaim), args.Error(1)
}
