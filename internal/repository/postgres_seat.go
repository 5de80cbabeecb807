package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) GetSeatsByVenue(ctx context.Context, venueID int) ([]domain.Seat, error) {
	query := `
		SELECT id, venue_id, row_label, seat_no, price
		FROM seats
		WHERE venue_id = $1
		ORDER BY row_label, seat_no
	`

	rows, err := conn(ctx, p.db).Query(ctx, query, venueID)
	if err != nil {
		return nil, err
	}

	return scanSeats(rows)
}

func (p *PostgresSeatRepository) GetSeatsByVenueAndIds(
	ctx context.Context,
	venueID int,
	seatIDs []int) ([]domain.Seat, error) {

	query := `
		SELECT id, venue_id, row_label, seat_no, price
		FROM seats
		WHERE venue_id = $1 AND id = ANY($2)
		ORDER BY row_label, seat_no
	`

	rows, err := conn(ctx, p.db).Query(ctx, query, venueID, seatIDs)
	if err != nil {
		return nil, err
	}

	return scanSeats(rows)
}

func (p *PostgresSeatRepository) CreateSeats(ctx context.Context, venueID int, seats []domain.Seat) error {
	rows := make([][]any, 0, len(seats))
	for _, seat := range seats {
		rows = append(rows, []any{venueID, seat.RowLabel, seat.SeatNo, seat.Price})
	}

	_, err := conn(ctx, p.db).CopyFrom(
		ctx,
		pgx.Identifier{"seats"},
		[]string{"venue_id", "row_label", "seat_no", "price"},
		pgx.CopyFromRows(rows),
	)

	return err
}

func scanSeats(rows pgx.Rows) ([]domain.Seat, error) {
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err := rows.Scan(&seat.ID, &seat.VenueID, &seat.RowLabel, &seat.SeatNo, &seat.Price)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}
