package domain

import (
	"context"
	"time"
)

type BookingConfirmedEvent struct {
	ReservationID int       `json:"reservationId"`
	BookingNumber string    `json:"bookingNumber"`
	UserID        int       `json:"userId"`
	ShowtimeID    int       `json:"showtimeId"`
	SeatIDs       []int     `json:"seatIds"`
	TotalPrice    int       `json:"totalPrice"`
	ConfirmedAt   time.Time `json:"confirmedAt"`
}

type BookingCancelledEvent struct {
	ReservationID int       `json:"reservationId"`
	UserID        int       `json:"userId"`
	CancelledAt   time.Time `json:"cancelledAt"`
}

type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmedEvent) error
	PublishBookingCancelled(ctx context.Context, event BookingCancelledEvent) error
}
