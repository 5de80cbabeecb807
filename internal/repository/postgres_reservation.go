package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

const confirmedSeatConstraint = "reservation_seats_confirmed_seat_key"

type PostgresReservationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresReservationRepository(db *pgxpool.Pool) *PostgresReservationRepository {
	return &PostgresReservationRepository{
		db: db,
	}
}

func (p *PostgresReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	return runInTx(ctx, p.db, pgx.TxOptions{}, func(ctx context.Context) error {
		q := conn(ctx, p.db)

		query := `
			INSERT INTO reservations (
				user_id, showtime_id, status, booking_number, total_price, expires_at, confirmed_at
			)
			VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
			RETURNING id, created_at
		`

		err := q.QueryRow(
			ctx,
			query,
			reservation.UserID,
			reservation.ShowtimeID,
			reservation.Status,
			reservation.BookingNumber,
			reservation.TotalPrice,
			reservation.ExpiresAt,
			reservation.ConfirmedAt,
		).Scan(&reservation.ID, &reservation.CreatedAt)

		if err != nil {
			return err
		}

		return insertReservationSeats(ctx, q, reservation)
	})
}

func (p *PostgresReservationRepository) Confirm(ctx context.Context, reservation *domain.Reservation) error {
	return runInTx(ctx, p.db, pgx.TxOptions{}, func(ctx context.Context) error {
		q := conn(ctx, p.db)

		query := `
			UPDATE reservations
			SET status = 'CONFIRMED',
				booking_number = $2,
				total_price = $3,
				confirmed_at = $4,
				expires_at = NULL,
				updated_at = NOW()
			WHERE id = $1 AND status = 'HOLD'
		`

		tag, err := q.Exec(
			ctx,
			query,
			reservation.ID,
			reservation.BookingNumber,
			reservation.TotalPrice,
			reservation.ConfirmedAt,
		)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrBookingNotFound
		}

		reservation.Status = domain.ReservationConfirmed

		return insertReservationSeats(ctx, q, reservation)
	})
}

func insertReservationSeats(ctx context.Context, q querier, reservation *domain.Reservation) error {
	if len(reservation.ReservationSeats) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(reservation.ReservationSeats))
	for _, seat := range reservation.ReservationSeats {
		rows = append(rows, []any{
			reservation.ID,
			reservation.ShowtimeID,
			seat.SeatID,
			seat.Price,
		})
	}

	_, err := q.CopyFrom(
		ctx,
		pgx.Identifier{"reservation_seats"},
		[]string{"reservation_id", "showtime_id", "seat_id", "price"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		if isUniqueViolation(err, confirmedSeatConstraint) {
			return domain.ErrSeatAlreadyBooked
		}

		return err
	}

	for i := range reservation.ReservationSeats {
		reservation.ReservationSeats[i].ReservationID = reservation.ID
		reservation.ReservationSeats[i].ShowtimeID = reservation.ShowtimeID
	}

	return nil
}

func (p *PostgresReservationRepository) GetForUpdate(ctx context.Context, reservationID int) (*domain.Reservation, error) {
	query := `
		SELECT
			id,
			user_id,
			showtime_id,
			status,
			COALESCE(booking_number, ''),
			total_price,
			expires_at,
			confirmed_at,
			cancelled_at,
			created_at
		FROM reservations
		WHERE id = $1
		FOR UPDATE
	`

	var reservation domain.Reservation

	err := conn(ctx, p.db).QueryRow(ctx, query, reservationID).Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.ShowtimeID,
		&reservation.Status,
		&reservation.BookingNumber,
		&reservation.TotalPrice,
		&reservation.ExpiresAt,
		&reservation.ConfirmedAt,
		&reservation.CancelledAt,
		&reservation.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &reservation, nil
}

// Cancel marks the reservation cancelled and releases its seats from the
// confirmed set. The seat rows themselves are kept as history.
func (p *PostgresReservationRepository) Cancel(ctx context.Context, reservationID int, now time.Time) error {
	return runInTx(ctx, p.db, pgx.TxOptions{}, func(ctx context.Context) error {
		q := conn(ctx, p.db)

		query := `
			UPDATE reservations
			SET status = 'CANCELLED', cancelled_at = $2, updated_at = NOW()
			WHERE id = $1 AND status <> 'CANCELLED'
		`

		tag, err := q.Exec(ctx, query, reservationID, now)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrRecordNotFound
		}

		query = `
			UPDATE reservation_seats
			SET released_at = $2
			WHERE reservation_id = $1 AND released_at IS NULL
		`

		_, err = q.Exec(ctx, query, reservationID, now)

		return err
	})
}

func (p *PostgresReservationRepository) CancelExpiredHolds(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE reservations
		SET status = 'CANCELLED', cancelled_at = $1, updated_at = NOW()
		WHERE status = 'HOLD' AND expires_at <= $1
	`

	tag, err := conn(ctx, p.db).Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// GetSeatsByShowtimeId returns the seats of every confirmed reservation of the showtime.
func (p *PostgresReservationRepository) GetSeatsByShowtimeId(
	ctx context.Context,
	showtimeID int) ([]domain.ReservationSeat, error) {

	query := `
		SELECT reservation_id, showtime_id, seat_id, price
		FROM reservation_seats
		WHERE showtime_id = $1 AND released_at IS NULL
	`

	rows, err := conn(ctx, p.db).Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservationSeats := make([]domain.ReservationSeat, 0)

	for rows.Next() {
		var reservationSeat domain.ReservationSeat

		err = rows.Scan(
			&reservationSeat.ReservationID,
			&reservationSeat.ShowtimeID,
			&reservationSeat.SeatID,
			&reservationSeat.Price,
		)

		if err != nil {
			return nil, err
		}

		reservationSeats = append(reservationSeats, reservationSeat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return reservationSeats, nil
}

func (p *PostgresReservationRepository) GetBookingSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			r.id,
			COALESCE(p.title, ''),
			COALESCE(p.poster_url, ''),
			st.start_at,
			COALESCE(r.confirmed_at, r.created_at),
			COALESCE(r.booking_number, ''),
			r.total_price,
			r.status
		FROM reservations r
		JOIN showtimes st ON st.id = r.showtime_id
		LEFT JOIN shows sh ON sh.id = st.show_id
		LEFT JOIN performances p ON p.id = sh.performance_id
		WHERE r.user_id = $1 AND r.status IN ('CONFIRMED', 'CANCELLED')
		ORDER BY COALESCE(r.confirmed_at, r.created_at) DESC, r.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := conn(ctx, p.db).Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	bookings := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var booking domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&booking.ReservationID,
			&booking.PerformanceTitle,
			&booking.PosterUrl,
			&booking.ViewingDate,
			&booking.BookingDate,
			&booking.BookingNumber,
			&booking.TotalPrice,
			&booking.Status,
		)
		if err != nil {
			return nil, nil, err
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return bookings, metadata, nil
}
