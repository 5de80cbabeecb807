package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
)

// EnsureShowtime returns the id of the showtime identified by externalID and
// startAt, creating it and its catalog chain the first time it is asked for.
// Concurrent first-time callers all get the same id: the loser of the insert
// race falls back to a lookup.
func (s *Service) EnsureShowtime(ctx context.Context, externalID string, startAt time.Time) (int, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return 0, domain.ErrInvalidExternalID
	}

	// timestamptz keeps microseconds
	startAt = startAt.UTC().Truncate(time.Microsecond)

	id, err := s.showtimes.GetIdByExternalIdAndStartAt(ctx, externalID, startAt)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return 0, fmt.Errorf("looking up showtime %s at %s: %w", externalID, startAt, err)
	}

	showID, err := s.ensureShow(ctx, externalID)
	if err != nil {
		return 0, err
	}

	showtime := &domain.Showtime{
		ShowID:     showID,
		ExternalID: externalID,
		StartAt:    startAt,
	}

	err = s.showtimes.Create(ctx, showtime)
	if errors.Is(err, domain.ErrShowtimeAlreadyExists) {
		return s.showtimes.GetIdByExternalIdAndStartAt(ctx, externalID, startAt)
	}
	if err != nil {
		return 0, fmt.Errorf("creating showtime %s at %s: %w", externalID, startAt, err)
	}

	s.logger.Info("showtime created",
		"showtime_id", showtime.ID,
		"external_id", externalID,
		"start_at", startAt,
	)

	return showtime.ID, nil
}

// ensureShow resolves the show for a performance, consulting the catalog only
// when the performance has never been seen before.
func (s *Service) ensureShow(ctx context.Context, externalID string) (int, error) {
	showID, err := s.shows.GetShowIdByExternalId(ctx, externalID)
	if err == nil {
		return showID, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return 0, fmt.Errorf("looking up show %s: %w", externalID, err)
	}

	v, err, _ := s.catalogFetches.Do(externalID, func() (any, error) {
		return s.catalog.GetPerformance(ctx, externalID)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrPerformanceNotFound) {
			s.logger.Error("catalog fetch failed", "external_id", externalID, "error", err)
		}

		return 0, err
	}

	performance, ok := v.(*domain.CatalogPerformance)
	if !ok || performance == nil {
		return 0, fmt.Errorf("%w: empty response for %s", domain.ErrCatalogUnavailable, externalID)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		venueID, created, err := s.shows.GetOrCreateVenue(ctx, performance.VenueName)
		if err != nil {
			return fmt.Errorf("resolving venue %q: %w", performance.VenueName, err)
		}

		if created {
			seats := domain.GenerateSeats(s.cfg.SeatLayout, performance.Prices, s.cfg.FallbackSeatPrice)

			err = s.seats.CreateSeats(ctx, venueID, seats)
			if err != nil {
				return fmt.Errorf("seeding seats of venue %d: %w", venueID, err)
			}

			s.logger.Info("venue created", "venue_id", venueID, "name", performance.VenueName, "seats", len(seats))
		}

		performanceID, err := s.shows.GetOrCreatePerformance(ctx, domain.Performance{
			ExternalID: externalID,
			Title:      performance.Title,
			PosterUrl:  performance.PosterUrl,
			PriceGuide: performance.PriceGuide,
			VenueID:    venueID,
		})
		if err != nil {
			return fmt.Errorf("resolving performance %s: %w", externalID, err)
		}

		showID, err = s.shows.GetOrCreateShow(ctx, externalID, performanceID)
		if err != nil {
			return fmt.Errorf("resolving show %s: %w", externalID, err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return showID, nil
}
