package mocks

import (
	"context"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowRepo struct {
	mock.Mock
}

func (m *MockShowRepo) GetShowIdByExternalId(ctx context.Context, externalID string) (int, error) {
	args := m.Called(ctx, externalID)
	return args.Int(0), args.Error(1)
}

func (m *MockShowRepo) GetOrCreateVenue(ctx context.Context, name string) (int, bool, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockShowRepo) GetOrCreatePerformance(ctx context.Context, performance domain.Performance) (int, error) {
	args := m.Called(ctx, performance)
	return args.Int(0), args.Error(1)
}

func (m *MockShowRepo) GetOrCreateShow(ctx context.Context, externalID string, performanceID int) (int, error) {
	args := m.Called(ctx, externalID, performanceID)
	return args.Int(0), args.Error(1)
}
