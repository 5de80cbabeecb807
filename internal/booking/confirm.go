package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

type ConfirmRequest struct {
	UserID     int
	ShowtimeID int
	SeatIDs    []int
	// HoldID is the HOLD reservation being confirmed, or zero for a direct confirmation.
	HoldID int
	// Holders are additional lock holders that belong to the caller, such as
	// the guest session the seats were locked from.
	Holders []domain.Holder
}

// Confirm books the seats for the user in one transaction. It fails without
// writing anything when a seat is unknown, booked, or locked by someone else.
// A concurrent confirmation that slips past the booked-seat check is rejected
// by the store and reported as ErrSeatAlreadyBooked.
func (s *Service) Confirm(ctx context.Context, req ConfirmRequest) (*domain.Reservation, error) {
	seatIDs, err := s.normalizeSeatIDs(req.SeatIDs)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	holders := confirmingHolders(req)

	var reservation *domain.Reservation

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if req.HoldID != 0 {
			err := s.checkHold(ctx, req, seatIDs, now)
			if err != nil {
				return err
			}
		}

		seats, err := s.checkSeats(ctx, req.ShowtimeID, seatIDs)
		if err != nil {
			return err
		}

		// Claiming the seats through the lock table orders this confirmation
		// against concurrent lock requests on the same seats.
		claim := domain.SeatLock{
			ShowtimeID:  req.ShowtimeID,
			Holder:      holders[0],
			LockedUntil: now.Add(s.cfg.LockTTL),
		}

		err = s.lockSeats(ctx, claim, seatIDs, now, holders)
		if err != nil {
			return err
		}

		reservation = &domain.Reservation{
			ID:               req.HoldID,
			UserID:           req.UserID,
			ShowtimeID:       req.ShowtimeID,
			Status:           domain.ReservationConfirmed,
			BookingNumber:    s.newBookingNumber(),
			TotalPrice:       totalPrice(seats),
			ConfirmedAt:      &now,
			ReservationSeats: reservationSeats(seats),
		}

		if req.HoldID != 0 {
			err = s.reservations.Confirm(ctx, reservation)
		} else {
			err = s.reservations.Create(ctx, reservation)
		}
		if err != nil {
			if errors.Is(err, domain.ErrSeatAlreadyBooked) {
				s.metrics.bookedSeatRejected(ctx)
				return err
			}

			return fmt.Errorf("storing reservation: %w", err)
		}

		_, err = s.locks.Release(ctx, req.ShowtimeID, seatIDs, holders)
		if err != nil {
			return fmt.Errorf("releasing locks of showtime %d: %w", req.ShowtimeID, err)
		}

		if req.HoldID != 0 {
			// the hold gives up every seat it locked, live or not
			_, err = s.locks.Release(ctx, req.ShowtimeID, nil, []domain.Holder{domain.ReservationHolder(req.HoldID)})
			if err != nil {
				return fmt.Errorf("releasing locks of hold %d: %w", req.HoldID, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking confirmed",
		"reservation_id", reservation.ID,
		"booking_number", reservation.BookingNumber,
		"user_id", req.UserID,
		"showtime_id", req.ShowtimeID,
		"seat_ids", seatIDs,
		"total_price", reservation.TotalPrice,
	)

	s.metrics.confirmed(ctx, req.HoldID != 0)
	s.publishConfirmed(ctx, reservation, seatIDs)

	return reservation, nil
}

// checkHold verifies that the hold being confirmed belongs to the user, is
// still a hold for this showtime, has not run out and covers exactly seatIDs.
// The row stays locked until the surrounding transaction ends.
func (s *Service) checkHold(ctx context.Context, req ConfirmRequest, seatIDs []int, now time.Time) error {
	hold, err := s.reservations.GetForUpdate(ctx, req.HoldID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrBookingNotFound
		}

		return fmt.Errorf("loading hold %d: %w", req.HoldID, err)
	}

	switch {
	case hold.UserID != req.UserID:
		return domain.ErrAccessDenied
	case hold.Status != domain.ReservationHold, hold.ShowtimeID != req.ShowtimeID:
		return domain.ErrBookingNotFound
	case hold.HoldExpired(now):
		return domain.ErrHoldExpired
	}

	held, err := s.locks.GetLiveSeatIdsByHolder(ctx, req.ShowtimeID, domain.ReservationHolder(req.HoldID), now)
	if err != nil {
		return fmt.Errorf("loading seats of hold %d: %w", req.HoldID, err)
	}

	if !slices.Equal(held, seatIDs) {
		return domain.ErrHoldSeatsMismatch
	}

	return nil
}

// confirmingHolders lists every lock holder that acts for the confirming
// user. Only locks held by these are released on success; locks of other
// parties on the same seats make the confirmation fail instead.
func confirmingHolders(req ConfirmRequest) []domain.Holder {
	holders := []domain.Holder{domain.UserHolder(req.UserID)}

	if req.HoldID != 0 {
		holders = append(holders, domain.ReservationHolder(req.HoldID))
	}

	for _, h := range req.Holders {
		if h != "" && !slices.Contains(holders, h) {
			holders = append(holders, h)
		}
	}

	return holders
}

func reservationSeats(seats []domain.Seat) []domain.ReservationSeat {
	out := make([]domain.ReservationSeat, len(seats))
	for i, seat := range seats {
		out[i] = domain.ReservationSeat{
			SeatID: seat.ID,
			Price:  seat.Price,
		}
	}

	return out
}

func (s *Service) publishConfirmed(ctx context.Context, reservation *domain.Reservation, seatIDs []int) {
	if s.events == nil {
		return
	}

	event := domain.BookingConfirmedEvent{
		ReservationID: reservation.ID,
		BookingNumber: reservation.BookingNumber,
		UserID:        reservation.UserID,
		ShowtimeID:    reservation.ShowtimeID,
		SeatIDs:       seatIDs,
		TotalPrice:    reservation.TotalPrice,
		ConfirmedAt:   *reservation.ConfirmedAt,
	}

	s.goBackground(ctx, "publish booking confirmed", func(ctx context.Context) error {
		return s.events.PublishBookingConfirmed(ctx, event)
	})
}
