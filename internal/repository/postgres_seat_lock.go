package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

type PostgresSeatLockRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatLockRepository(db *pgxpool.Pool) *PostgresSeatLockRepository {
	return &PostgresSeatLockRepository{
		db: db,
	}
}

// Acquire is a single conditional write per seat: the row is inserted, or an
// existing row is taken over only when it is dead or already ours. Rows that
// stay untouched are simply missing from the returned ids.
func (p *PostgresSeatLockRepository) Acquire(
	ctx context.Context,
	lock domain.SeatLock,
	seatIDs []int,
	now time.Time,
	reclaimable []domain.Holder) ([]int, error) {

	query := `
		INSERT INTO seat_locks (showtime_id, seat_id, holder, locked_until)
		SELECT $1, s.seat_id, $2, $3
		FROM unnest($4::bigint[]) AS s(seat_id)
		ORDER BY s.seat_id
		ON CONFLICT ON CONSTRAINT seat_locks_showtime_id_seat_id_key DO UPDATE
		SET holder = EXCLUDED.holder,
			locked_until = EXCLUDED.locked_until,
			created_at = NOW()
		WHERE seat_locks.locked_until <= $5 OR seat_locks.holder = ANY($6::text[])
		RETURNING seat_id
	`

	rows, err := conn(ctx, p.db).Query(
		ctx,
		query,
		lock.ShowtimeID,
		lock.Holder.String(),
		lock.LockedUntil,
		seatIDs,
		now,
		holderStrings(reclaimable),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	acquired := make([]int, 0, len(seatIDs))

	for rows.Next() {
		var seatID int

		err = rows.Scan(&seatID)
		if err != nil {
			return nil, err
		}

		acquired = append(acquired, seatID)
	}

	if err = rows.Err(); err != nil {
		if isLockContention(err) {
			return nil, domain.ErrSeatAlreadyLocked
		}

		return nil, err
	}

	return acquired, nil
}

func (p *PostgresSeatLockRepository) Release(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	holders []domain.Holder) (int64, error) {

	query := `
		DELETE FROM seat_locks
		WHERE showtime_id = $1
			AND ($2::bigint[] IS NULL OR seat_id = ANY($2::bigint[]))
			AND holder = ANY($3::text[])
	`

	tag, err := conn(ctx, p.db).Exec(ctx, query, showtimeID, seatIDs, holderStrings(holders))
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// DeleteExpired re-checks locked_until on every row it deletes, so a lock
// renewed by a concurrent transaction survives.
func (p *PostgresSeatLockRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM seat_locks
		WHERE locked_until <= $1
	`

	tag, err := conn(ctx, p.db).Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (p *PostgresSeatLockRepository) GetLiveSeatIds(ctx context.Context, showtimeID int, now time.Time) ([]int, error) {
	query := `
		SELECT seat_id
		FROM seat_locks
		WHERE showtime_id = $1 AND locked_until > $2
	`

	rows, err := conn(ctx, p.db).Query(ctx, query, showtimeID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seatIDs := make([]int, 0)

	for rows.Next() {
		var seatID int

		err = rows.Scan(&seatID)
		if err != nil {
			return nil, err
		}

		seatIDs = append(seatIDs, seatID)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seatIDs, nil
}

func (p *PostgresSeatLockRepository) GetLiveSeatIdsByHolder(
	ctx context.Context,
	showtimeID int,
	holder domain.Holder,
	now time.Time) ([]int, error) {

	query := `
		SELECT seat_id
		FROM seat_locks
		WHERE showtime_id = $1 AND holder = $2 AND locked_until > $3
		ORDER BY seat_id
	`

	rows, err := conn(ctx, p.db).Query(ctx, query, showtimeID, holder.String(), now)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[int])
}

func holderStrings(holders []domain.Holder) []string {
	out := make([]string, len(holders))
	for i, h := range holders {
		out[i] = h.String()
	}

	return out
}
