package domain

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Holder identifies who owns a seat lock.
type Holder string

func UserHolder(userID int) Holder {
	return Holder("user:" + strconv.Itoa(userID))
}

func SessionHolder(token string) Holder {
	return Holder("session:" + token)
}

func ReservationHolder(reservationID int) Holder {
	return Holder(fmt.Sprintf("reservation:%d", reservationID))
}

func (h Holder) String() string {
	return string(h)
}

type SeatLock struct {
	ShowtimeID  int
	SeatID      int
	Holder      Holder
	LockedUntil time.Time
}

// LockHandle is returned to the caller of a successful lock acquisition.
type LockHandle struct {
	ShowtimeID  int
	SeatIDs     []int
	Holder      Holder
	LockedUntil time.Time
}

type SeatLockRepository interface {
	// Acquire locks every seat whose current lock is absent, dead at now, or owned
	// by one of reclaimable. It returns the seat ids that were locked.
	Acquire(ctx context.Context, lock SeatLock, seatIDs []int, now time.Time, reclaimable []Holder) ([]int, error)
	// Release removes the locks of holders on seatIDs, or on every seat of the
	// showtime when seatIDs is nil.
	Release(ctx context.Context, showtimeID int, seatIDs []int, holders []Holder) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	GetLiveSeatIds(ctx context.Context, showtimeID int, now time.Time) ([]int, error)
	// GetLiveSeatIdsByHolder returns, in ascending order, the seats holder has a
	// live lock on.
	GetLiveSeatIdsByHolder(ctx context.Context, showtimeID int, holder Holder, now time.Time) ([]int, error)
}
