package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

// PostgresShowRepository manages the venue → performance → show chain that
// showtimes hang off. Every create is an insert guarded by a unique
// constraint followed by a lookup when another writer got there first.
type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) GetShowIdByExternalId(ctx context.Context, externalID string) (int, error) {
	query := `
		SELECT id
		FROM shows
		WHERE external_id = $1
	`

	var id int

	err := conn(ctx, p.db).QueryRow(ctx, query, externalID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrRecordNotFound
		}

		return 0, err
	}

	return id, nil
}

func (p *PostgresShowRepository) GetOrCreateVenue(ctx context.Context, name string) (int, bool, error) {
	insert := `
		INSERT INTO venues (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`
	lookup := `
		SELECT id
		FROM venues
		WHERE name = $1
	`

	return getOrCreate(ctx, conn(ctx, p.db), insert, lookup, []any{name}, []any{name})
}

func (p *PostgresShowRepository) GetOrCreatePerformance(ctx context.Context, performance domain.Performance) (int, error) {
	insert := `
		INSERT INTO performances (external_id, title, poster_url, price_guide, venue_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING id
	`
	lookup := `
		SELECT id
		FROM performances
		WHERE external_id = $1
	`

	id, _, err := getOrCreate(
		ctx,
		conn(ctx, p.db),
		insert,
		lookup,
		[]any{
			performance.ExternalID,
			performance.Title,
			performance.PosterUrl,
			performance.PriceGuide,
			performance.VenueID,
		},
		[]any{performance.ExternalID},
	)

	return id, err
}

func (p *PostgresShowRepository) GetOrCreateShow(ctx context.Context, externalID string, performanceID int) (int, error) {
	insert := `
		INSERT INTO shows (external_id, performance_id)
		VALUES ($1, $2)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING id
	`
	lookup := `
		SELECT id
		FROM shows
		WHERE external_id = $1
	`

	id, _, err := getOrCreate(ctx, conn(ctx, p.db), insert, lookup, []any{externalID, performanceID}, []any{externalID})

	return id, err
}

// getOrCreate runs an INSERT ... ON CONFLICT DO NOTHING RETURNING id and falls
// back to lookup when the row already existed.
func getOrCreate(
	ctx context.Context,
	q querier,
	insert, lookup string,
	insertArgs, lookupArgs []any) (int, bool, error) {

	var id int

	err := q.QueryRow(ctx, insert, insertArgs...).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, err
	}

	err = q.QueryRow(ctx, lookup, lookupArgs...).Scan(&id)
	if err != nil {
		return 0, false, err
	}

	return id, false, nil
}
