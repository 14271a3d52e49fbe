package mocks

import (
	"context"

	"docmarket/internal/model"
	"docmarket/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAccessGate struct {
	mock.Mock
}

func (m *MockAccessGate) CanServe(ctx context.Context, actor model.Identity, documentID string, page int) (service.Decision, error) {
	args := m.Called(ctx, actor, documentID, page)
	return args.Get(0).(service.Decision), args.Error(1)
}
