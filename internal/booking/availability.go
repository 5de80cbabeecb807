package booking

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

// GetAvailability reports the status of every seat of the showtime as of a
// single instant. All reads share one snapshot.
func (s *Service) GetAvailability(ctx context.Context, showtimeID int) (*domain.Availability, error) {
	now := s.clock.Now()

	var availability *domain.Availability

	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		detail, err := s.resolveShowtime(ctx, showtimeID)
		if err != nil {
			return err
		}

		seats, err := s.seats.GetSeatsByVenue(ctx, *detail.VenueID)
		if err != nil {
			return fmt.Errorf("loading seats of venue %d: %w", *detail.VenueID, err)
		}

		booked, err := s.reservations.GetSeatsByShowtimeId(ctx, showtimeID)
		if err != nil {
			return fmt.Errorf("loading booked seats of showtime %d: %w", showtimeID, err)
		}

		locked, err := s.locks.GetLiveSeatIds(ctx, showtimeID, now)
		if err != nil {
			return fmt.Errorf("loading live locks of showtime %d: %w", showtimeID, err)
		}

		availability = ResolveAvailability(showtimeID, now, seats, booked, locked)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return availability, nil
}

// ResolveAvailability merges the seat layout with booked and live-locked seat
// ids. A booked seat is TAKEN even when a lock row for it still exists.
func ResolveAvailability(
	showtimeID int,
	now time.Time,
	seats []domain.Seat,
	booked []domain.ReservationSeat,
	lockedSeatIDs []int) *domain.Availability {

	taken := make(map[int]bool, len(booked))
	for _, rs := range booked {
		taken[rs.SeatID] = true
	}

	locked := make(map[int]bool, len(lockedSeatIDs))
	for _, id := range lockedSeatIDs {
		locked[id] = true
	}

	result := make([]domain.SeatAvailability, 0, len(seats))

	for _, seat := range seats {
		status := domain.SeatAvailable

		switch {
		case taken[seat.ID]:
			status = domain.SeatTaken
		case locked[seat.ID]:
			status = domain.SeatLocked
		}

		result = append(result, domain.SeatAvailability{
			SeatID:   seat.ID,
			RowLabel: seat.RowLabel,
			SeatNo:   seat.SeatNo,
			Price:    seat.Price,
			Status:   status,
		})
	}

	slices.SortStableFunc(result, func(a, b domain.SeatAvailability) int {
		return cmp.Or(
			cmp.Compare(a.RowLabel, b.RowLabel),
			cmp.Compare(a.SeatNo, b.SeatNo),
		)
	})

	return &domain.Availability{
		ShowtimeID:  showtimeID,
		EvaluatedAt: now,
		Seats:       result,
	}
}
