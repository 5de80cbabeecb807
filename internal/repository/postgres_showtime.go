package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) GetIdByExternalIdAndStartAt(
	ctx context.Context,
	externalID string,
	startAt time.Time) (int, error) {

	query := `
		SELECT id
		FROM showtimes
		WHERE external_id = $1 AND start_at = $2
	`

	var id int

	err := conn(ctx, p.db).QueryRow(ctx, query, externalID, startAt).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrRecordNotFound
		}

		return 0, err
	}

	return id, nil
}

// Create inserts the showtime. It returns ErrShowtimeAlreadyExists when a
// showtime with the same external id and start time is already stored.
func (p *PostgresShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime) error {
	query := `
		INSERT INTO showtimes (show_id, external_id, start_at)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT showtimes_external_id_start_at_key DO NOTHING
		RETURNING id
	`

	err := conn(ctx, p.db).QueryRow(ctx, query, showtime.ShowID, showtime.ExternalID, showtime.StartAt).Scan(&showtime.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err, "showtimes_external_id_start_at_key") {
			return domain.ErrShowtimeAlreadyExists
		}

		return err
	}

	return nil
}

func (p *PostgresShowtimeRepository) GetDetail(ctx context.Context, showtimeID int) (*domain.ShowtimeDetail, error) {
	query := `
		SELECT
			st.id,
			st.show_id,
			st.external_id,
			st.start_at,
			p.id,
			COALESCE(p.title, ''),
			COALESCE(p.poster_url, ''),
			v.id,
			COALESCE(v.name, '')
		FROM showtimes st
		LEFT JOIN shows sh ON sh.id = st.show_id
		LEFT JOIN performances p ON p.id = sh.performance_id
		LEFT JOIN venues v ON v.id = p.venue_id
		WHERE st.id = $1
	`

	var detail domain.ShowtimeDetail

	err := conn(ctx, p.db).QueryRow(ctx, query, showtimeID).Scan(
		&detail.ID,
		&detail.ShowID,
		&detail.ExternalID,
		&detail.StartAt,
		&detail.PerformanceID,
		&detail.PerformanceTitle,
		&detail.PosterUrl,
		&detail.VenueID,
		&detail.VenueName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &detail, nil
}
