package domain

import (
	"context"
	"time"
)

type Performance struct {
	ID         int
	ExternalID string
	Title      string
	PosterUrl  string
	PriceGuide string
	VenueID    int
}

type Show struct {
	ID            int
	ExternalID    string
	PerformanceID int
}

type Showtime struct {
	ID         int
	ShowID     int
	ExternalID string
	StartAt    time.Time
}

// ShowtimeDetail is a showtime joined with its show, performance and venue.
// Any link of the chain may be missing when the catalog data is corrupt.
type ShowtimeDetail struct {
	Showtime
	PerformanceID    *int
	PerformanceTitle string
	PosterUrl        string
	VenueID          *int
	VenueName        string
}

// Complete reports whether the Show→Performance→Venue chain is intact.
func (d *ShowtimeDetail) Complete() bool {
	return d.PerformanceID != nil && d.VenueID != nil
}

type ShowRepository interface {
	GetShowIdByExternalId(ctx context.Context, externalID string) (int, error)
	GetOrCreateVenue(ctx context.Context, name string) (venueID int, created bool, err error)
	GetOrCreatePerformance(ctx context.Context, performance Performance) (int, error)
	GetOrCreateShow(ctx context.Context, externalID string, performanceID int) (int, error)
}

type ShowtimeRepository interface {
	GetIdByExternalIdAndStartAt(ctx context.Context, externalID string, startAt time.Time) (int, error)
	Create(ctx context.Context, showtime *Showtime) error
	GetDetail(ctx context.Context, showtimeID int) (*ShowtimeDetail, error)
}
