package mocks

import (
	"context"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

type MockSeatRepo struct {
	GetSeatsByVenueFunc       func(ctx context.Context, venueID int) ([]domain.Seat, error)
	GetSeatsByVenueAndIdsFunc func(ctx context.Context, venueID int, seatIDs []int) ([]domain.Seat, error)
	CreateSeatsFunc           func(ctx context.Context, venueID int, seats []domain.Seat) error
}

func (m *MockSeatRepo) GetSeatsByVenue(ctx context.Context, venueID int) ([]domain.Seat, error) {
	return m.GetSeatsByVenueFunc(ctx, venueID)
}

func (m *MockSeatRepo) GetSeatsByVenueAndIds(
	ctx context.Context,
	venueID int,
	seatIDs []int) ([]domain.Seat, error) {

	return m.GetSeatsByVenueAndIdsFunc(ctx, venueID, seatIDs)
}

func (m *MockSeatRepo) CreateSeats(ctx context.Context, venueID int, seats []domain.Seat) error {
	return m.CreateSeatsFunc(ctx, venueID, seats)
}
