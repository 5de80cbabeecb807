package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowtimeRepo struct {
	mock.Mock
}

func (m *MockShowtimeRepo) GetIdByExternalIdAndStartAt(ctx context.Context, externalID string, startAt time.Time) (int, error) {
	args := m.Called(ctx, externalID, startAt)
	return args.Int(0), args.Error(1)
}

// Create assigns the id passed to Return as the first argument when the call succeeds.
func (m *MockShowtimeRepo) Create(ctx context.Context, showtime *domain.Showtime) error {
	args := m.Called(ctx, showtime)
	if args.Error(1) == nil {
		showtime.ID = args.Int(0)
	}
	return args.Error(1)
}

func (m *MockShowtimeRepo) GetDetail(ctx context.Context, showtimeID int) (*domain.ShowtimeDetail, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShowtimeDetail), args.Error(1)
}
