package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

type LockRequest struct {
	ShowtimeID int
	SeatIDs    []int
	Holder     domain.Holder
	TTL        time.Duration
}

// AcquireLock locks a single seat for holder.
func (s *Service) AcquireLock(
	ctx context.Context,
	showtimeID, seatID int,
	holder domain.Holder,
	ttl time.Duration) (*domain.LockHandle, error) {

	return s.AcquireLocks(ctx, LockRequest{
		ShowtimeID: showtimeID,
		SeatIDs:    []int{seatID},
		Holder:     holder,
		TTL:        ttl,
	})
}

// AcquireLocks locks every requested seat for the holder or none of them.
// A holder re-acquiring its own live lock extends it.
func (s *Service) AcquireLocks(ctx context.Context, req LockRequest) (*domain.LockHandle, error) {
	if req.Holder == "" {
		return nil, domain.ErrHolderRequired
	}

	seatIDs, err := s.normalizeSeatIDs(req.SeatIDs)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	lock := domain.SeatLock{
		ShowtimeID:  req.ShowtimeID,
		Holder:      req.Holder,
		LockedUntil: now.Add(s.lockTTL(req.TTL)),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.checkSeats(ctx, req.ShowtimeID, seatIDs)
		if err != nil {
			return err
		}

		return s.lockSeats(ctx, lock, seatIDs, now, []domain.Holder{req.Holder})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("seats locked",
		"showtime_id", req.ShowtimeID,
		"seat_ids", seatIDs,
		"holder", req.Holder,
		"locked_until", lock.LockedUntil,
	)

	return &domain.LockHandle{
		ShowtimeID:  req.ShowtimeID,
		SeatIDs:     seatIDs,
		Holder:      req.Holder,
		LockedUntil: lock.LockedUntil,
	}, nil
}

// checkSeats resolves the showtime and the requested seats and fails when any
// of them is already booked.
func (s *Service) checkSeats(ctx context.Context, showtimeID int, seatIDs []int) ([]domain.Seat, error) {
	detail, err := s.resolveShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	seats, err := s.resolveSeats(ctx, *detail.VenueID, seatIDs)
	if err != nil {
		return nil, err
	}

	err = s.ensureNotBooked(ctx, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}

	return seats, nil
}

// lockSeats locks all seats for lock.Holder or reports ErrSeatAlreadyLocked.
// It must run inside a transaction so that a partial claim is rolled back.
func (s *Service) lockSeats(
	ctx context.Context,
	lock domain.SeatLock,
	seatIDs []int,
	now time.Time,
	reclaimable []domain.Holder) error {

	acquired, err := s.locks.Acquire(ctx, lock, seatIDs, now, reclaimable)
	if err != nil {
		return fmt.Errorf("locking seats of showtime %d: %w", lock.ShowtimeID, err)
	}

	if len(acquired) != len(seatIDs) {
		s.metrics.lockConflict(ctx, len(seatIDs)-len(acquired))
		return domain.ErrSeatAlreadyLocked
	}

	return nil
}

// ReleaseLock drops holder's lock on the seat. Releasing a lock that does not
// exist or belongs to someone else is a no-op.
func (s *Service) ReleaseLock(ctx context.Context, showtimeID, seatID int, holder domain.Holder) error {
	if holder == "" {
		return domain.ErrHolderRequired
	}

	_, err := s.locks.Release(ctx, showtimeID, []int{seatID}, []domain.Holder{holder})
	if err != nil {
		return fmt.Errorf("releasing seat %d of showtime %d: %w", seatID, showtimeID, err)
	}

	return nil
}

type SweepResult struct {
	ExpiredLocks int64
	ExpiredHolds int64
}

// SweepExpired deletes dead locks and cancels holds that ran out. Expiry is
// already enforced at read time, so this only keeps the tables small.
func (s *Service) SweepExpired(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult

	locks, err := s.locks.DeleteExpired(ctx, now)
	if err != nil {
		return result, fmt.Errorf("deleting expired locks: %w", err)
	}
	result.ExpiredLocks = locks

	holds, err := s.reservations.CancelExpiredHolds(ctx, now)
	if err != nil {
		return result, fmt.Errorf("cancelling expired holds: %w", err)
	}
	result.ExpiredHolds = holds

	s.metrics.swept(ctx, result)

	return result, nil
}
