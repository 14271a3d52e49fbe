package mocks

import (
	"context"

	"docmarket/internal/model"
	"docmarket/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignIn(ctx context.Context, idToken string) (*service.Session, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockAuthService) Authenticate(token string) (model.Identity, error) {
	args := m.Called(token)
	return args.Get(0).(model.Identity), args.Error(1)
}

func (m *MockAuthService) SeedAdmins(ctx context.Context, emails []string) error {
	args := m.Called(ctx, emails)
	return args.Error(0)
}
