package mocks

import (
	"context"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatLockRepo struct {
	mock.Mock
}

func (m *MockSeatLockRepo) Acquire(
	ctx context.Context,
	lock domain.SeatLock,
	seatIDs []int,
	now time.Time,
	reclaimable []domain.Holder) ([]int, error) {

	args := m.Called(ctx, lock, seatIDs, now, reclaimable)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockSeatLockRepo) Release(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	holders []domain.Holder) (int64, error) {

	args := m.Called(ctx, showtimeID, seatIDs, holders)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSeatLockRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSeatLockRepo) GetLiveSeatIds(ctx context.Context, showtimeID int, now time.Time) ([]int, error) {
	args := m.Called(ctx, showtimeID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockSeatLockRepo) GetLiveSeatIdsByHolder(
	ctx context.Context,
	showtimeID int,
	holder domain.Holder,
	now time.Time) ([]int, error) {

	args := m.Called(ctx, showtimeID, holder, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}
