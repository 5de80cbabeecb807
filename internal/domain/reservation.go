package domain

import (
	"context"
	"time"
)

type ReservationStatus string

const (
	ReservationHold      ReservationStatus = "HOLD"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

type Reservation struct {
	ID               int
	UserID           int
	ShowtimeID       int
	Status           ReservationStatus
	BookingNumber    string
	TotalPrice       int
	ExpiresAt        *time.Time
	ConfirmedAt      *time.Time
	CancelledAt      *time.Time
	ReservationSeats []ReservationSeat
	CreatedAt        time.Time
}

func (r *Reservation) HoldExpired(now time.Time) bool {
	return r.Status == ReservationHold && r.ExpiresAt != nil && !r.ExpiresAt.After(now)
}

type ReservationSeat struct {
	ReservationID int
	ShowtimeID    int
	SeatID        int
	Price         int
}

// BookingSummary is one entry of a user's booking history.
type BookingSummary struct {
	ReservationID    int
	PerformanceTitle string
	PosterUrl        string
	ViewingDate      time.Time
	BookingDate      time.Time
	BookingNumber    string
	TotalPrice       int
	Status           ReservationStatus
}

type ReservationRepository interface {
	// Create inserts the reservation and its seats. A seat that is already part
	// of a confirmed reservation for the same showtime yields ErrSeatAlreadyBooked.
	Create(ctx context.Context, reservation *Reservation) error
	// Confirm turns a HOLD reservation into a CONFIRMED one and inserts its seats.
	Confirm(ctx context.Context, reservation *Reservation) error
	GetForUpdate(ctx context.Context, reservationID int) (*Reservation, error)
	Cancel(ctx context.Context, reservationID int, now time.Time) error
	CancelExpiredHolds(ctx context.Context, now time.Time) (int64, error)
	GetSeatsByShowtimeId(ctx context.Context, showtimeID int) ([]ReservationSeat, error)
	GetBookingSummariesByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingSummary, *Metadata, error)
}
