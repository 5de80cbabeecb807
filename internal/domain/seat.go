package domain

import (
	"context"
	"slices"
)

type Seat struct {
	ID       int
	VenueID  int
	RowLabel string
	SeatNo   int
	Price    int
}

// SeatLayout describes the grid seeded for a venue the first time it is seen.
type SeatLayout struct {
	Rows        []string
	SeatsPerRow int
}

var DefaultSeatLayout = SeatLayout{
	Rows:        []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"},
	SeatsPerRow: 20,
}

// GenerateSeats lays out seats row by row. Rows are split into contiguous price
// tiers, most expensive first. When prices is empty every seat costs fallback.
func GenerateSeats(layout SeatLayout, prices []int, fallback int) []Seat {
	tiers := priceTiers(prices)
	if len(tiers) == 0 {
		tiers = []int{fallback}
	}
	if len(tiers) > len(layout.Rows) {
		tiers = tiers[:len(layout.Rows)]
	}

	seats := make([]Seat, 0, len(layout.Rows)*layout.SeatsPerRow)
	rowIdx := 0

	for i, price := range tiers {
		rowsInTier := len(layout.Rows) / len(tiers)
		if i < len(layout.Rows)%len(tiers) {
			rowsInTier++
		}

		for range rowsInTier {
			for n := 1; n <= layout.SeatsPerRow; n++ {
				seats = append(seats, Seat{
					RowLabel: layout.Rows[rowIdx],
					SeatNo:   n,
					Price:    price,
				})
			}
			rowIdx++
		}
	}

	return seats
}

func priceTiers(prices []int) []int {
	tiers := make([]int, 0, len(prices))
	for _, p := range prices {
		if p > 0 && !slices.Contains(tiers, p) {
			tiers = append(tiers, p)
		}
	}

	slices.SortFunc(tiers, func(a, b int) int { return b - a })

	return tiers
}

type SeatRepository interface {
	GetSeatsByVenue(ctx context.Context, venueID int) ([]Seat, error)
	GetSeatsByVenueAndIds(ctx context.Context, venueID int, seatIDs []int) ([]Seat, error)
	CreateSeats(ctx context.Context, venueID int, seats []Seat) error
}
