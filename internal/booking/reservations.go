package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

type HoldRequest struct {
	UserID     int
	ShowtimeID int
	SeatIDs    []int
	TTL        time.Duration
}

// PlaceHold creates a HOLD reservation and locks its seats on its behalf. The
// user's own live locks on those seats are taken over by the hold.
func (s *Service) PlaceHold(ctx context.Context, req HoldRequest) (*domain.Reservation, *domain.LockHandle, error) {
	seatIDs, err := s.normalizeSeatIDs(req.SeatIDs)
	if err != nil {
		return nil, nil, err
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = s.cfg.HoldTTL
	}
	ttl = s.lockTTL(ttl)

	now := s.clock.Now()
	expiresAt := now.Add(ttl)

	reservation := &domain.Reservation{
		UserID:     req.UserID,
		ShowtimeID: req.ShowtimeID,
		Status:     domain.ReservationHold,
		ExpiresAt:  &expiresAt,
	}

	var handle *domain.LockHandle

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		seats, err := s.checkSeats(ctx, req.ShowtimeID, seatIDs)
		if err != nil {
			return err
		}
		reservation.TotalPrice = totalPrice(seats)

		err = s.reservations.Create(ctx, reservation)
		if err != nil {
			return fmt.Errorf("storing hold: %w", err)
		}

		holder := domain.ReservationHolder(reservation.ID)
		lock := domain.SeatLock{
			ShowtimeID:  req.ShowtimeID,
			Holder:      holder,
			LockedUntil: expiresAt,
		}

		err = s.lockSeats(ctx, lock, seatIDs, now, []domain.Holder{holder, domain.UserHolder(req.UserID)})
		if err != nil {
			return err
		}

		handle = &domain.LockHandle{
			ShowtimeID:  req.ShowtimeID,
			SeatIDs:     seatIDs,
			Holder:      holder,
			LockedUntil: expiresAt,
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("hold placed",
		"reservation_id", reservation.ID,
		"user_id", req.UserID,
		"showtime_id", req.ShowtimeID,
		"seat_ids", seatIDs,
		"expires_at", expiresAt,
	)

	return reservation, handle, nil
}

// ReleaseHold cancels a HOLD reservation of the user and frees its seats.
func (s *Service) ReleaseHold(ctx context.Context, reservationID, userID int) error {
	now := s.clock.Now()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		reservation, err := s.ownedReservation(ctx, reservationID, userID, domain.ReservationHold)
		if err != nil {
			return err
		}

		err = s.reservations.Cancel(ctx, reservationID, now)
		if err != nil {
			return fmt.Errorf("cancelling hold %d: %w", reservationID, err)
		}

		_, err = s.locks.Release(ctx, reservation.ShowtimeID, nil, []domain.Holder{domain.ReservationHolder(reservationID)})
		if err != nil {
			return fmt.Errorf("releasing locks of hold %d: %w", reservationID, err)
		}

		return nil
	})
}

// Cancel cancels a confirmed booking of the user. Its seats stay on record but
// no longer count as booked.
func (s *Service) Cancel(ctx context.Context, reservationID, userID int) error {
	now := s.clock.Now()

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.ownedReservation(ctx, reservationID, userID, domain.ReservationConfirmed)
		if err != nil {
			return err
		}

		err = s.reservations.Cancel(ctx, reservationID, now)
		if err != nil {
			return fmt.Errorf("cancelling reservation %d: %w", reservationID, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("booking cancelled", "reservation_id", reservationID, "user_id", userID)

	if s.events != nil {
		event := domain.BookingCancelledEvent{
			ReservationID: reservationID,
			UserID:        userID,
			CancelledAt:   now,
		}

		s.goBackground(ctx, "publish booking cancelled", func(ctx context.Context) error {
			return s.events.PublishBookingCancelled(ctx, event)
		})
	}

	return nil
}

// ownedReservation locks the reservation row and checks it is in the wanted
// status and owned by the user.
func (s *Service) ownedReservation(
	ctx context.Context,
	reservationID, userID int,
	status domain.ReservationStatus) (*domain.Reservation, error) {

	reservation, err := s.reservations.GetForUpdate(ctx, reservationID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}

		return nil, fmt.Errorf("loading reservation %d: %w", reservationID, err)
	}

	if reservation.Status != status {
		return nil, domain.ErrBookingNotFound
	}

	if reservation.UserID != userID {
		return nil, domain.ErrAccessDenied
	}

	return reservation, nil
}

// ListBookingsForUser returns the user's confirmed and cancelled bookings,
// newest first.
func (s *Service) ListBookingsForUser(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	return s.reservations.GetBookingSummariesByUserId(ctx, userID, pagination)
}
