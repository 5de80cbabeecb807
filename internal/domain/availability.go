package domain

import "time"

type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatLocked    SeatStatus = "LOCKED"
	SeatTaken     SeatStatus = "TAKEN"
)

type SeatAvailability struct {
	SeatID   int
	RowLabel string
	SeatNo   int
	Price    int
	Status   SeatStatus
}

type Availability struct {
	ShowtimeID  int
	EvaluatedAt time.Time
	Seats       []SeatAvailability
}
