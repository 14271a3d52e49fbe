package mocks

import (
	"context"

	"docmarket/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager runs fn inline unless the expectation returns an error first.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) ExecTx(ctx context.Context, fn repository.TxFn) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
