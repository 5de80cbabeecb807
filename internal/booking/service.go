// Package booking implements seat locking, availability and booking
// confirmation on top of the repositories in the domain package. The store is
// the only source of truth: every guarantee here rests on a uniqueness
// constraint, and the service never keeps seat state in memory.
package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/seat-reservation-system/internal/clock"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"
)

type Config struct {
	LockTTL            time.Duration
	MaxLockTTL         time.Duration
	HoldTTL            time.Duration
	MaxSeatsPerRequest int
	SeatLayout         domain.SeatLayout
	FallbackSeatPrice  int
}

var DefaultConfig = Config{
	LockTTL:            5 * time.Minute,
	MaxLockTTL:         15 * time.Minute,
	HoldTTL:            10 * time.Minute,
	MaxSeatsPerRequest: 10,
	SeatLayout:         domain.DefaultSeatLayout,
	FallbackSeatPrice:  50000,
}

type Repositories struct {
	Tx           domain.Transactor
	Seats        domain.SeatRepository
	Shows        domain.ShowRepository
	Showtimes    domain.ShowtimeRepository
	Locks        domain.SeatLockRepository
	Reservations domain.ReservationRepository
}

type Service struct {
	tx           domain.Transactor
	seats        domain.SeatRepository
	shows        domain.ShowRepository
	showtimes    domain.ShowtimeRepository
	locks        domain.SeatLockRepository
	reservations domain.ReservationRepository

	catalog          domain.Catalog
	events           domain.EventPublisher
	clock            clock.Clock
	logger           *slog.Logger
	cfg              Config
	newBookingNumber func() string
	meterProvider    metric.MeterProvider
	metrics          *metrics

	catalogFetches singleflight.Group
	background     sync.WaitGroup
}

type Option func(*Service)

func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

func WithEventPublisher(p domain.EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

func WithBookingNumberGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newBookingNumber = fn
	}
}

// WithMeterProvider records the booking counters on mp instead of the global
// meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) {
		s.meterProvider = mp
	}
}

func NewService(repos Repositories, catalog domain.Catalog, opts ...Option) *Service {
	s := &Service{
		tx:               repos.Tx,
		seats:            repos.Seats,
		shows:            repos.Shows,
		showtimes:        repos.Showtimes,
		locks:            repos.Locks,
		reservations:     repos.Reservations,
		catalog:          catalog,
		clock:            clock.NewSystem(),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:              DefaultConfig,
		newBookingNumber: uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.metrics = newMetrics(s.meterProvider)

	return s
}

// Wait blocks until background work such as event publishing has finished.
func (s *Service) Wait() {
	s.background.Wait()
}

// resolveShowtime loads the showtime and checks its catalog chain. A broken
// chain is a data integrity fault and is logged as such.
func (s *Service) resolveShowtime(ctx context.Context, showtimeID int) (*domain.ShowtimeDetail, error) {
	detail, err := s.showtimes.GetDetail(ctx, showtimeID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrShowtimeNotFound
		}

		return nil, fmt.Errorf("loading showtime %d: %w", showtimeID, err)
	}

	if !detail.Complete() {
		s.logger.Error("showtime has an incomplete catalog chain",
			"showtime_id", showtimeID,
			"show_id", detail.ShowID,
			"performance_missing", detail.PerformanceID == nil,
			"venue_missing", detail.VenueID == nil,
		)

		return nil, domain.ErrInvalidShowData
	}

	return detail, nil
}

// resolveSeats fails with ErrSeatNotFound unless every id is a seat of the venue.
func (s *Service) resolveSeats(ctx context.Context, venueID int, seatIDs []int) ([]domain.Seat, error) {
	seats, err := s.seats.GetSeatsByVenueAndIds(ctx, venueID, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("loading seats of venue %d: %w", venueID, err)
	}

	if len(seats) != len(seatIDs) {
		return nil, domain.ErrSeatNotFound
	}

	return seats, nil
}

func (s *Service) ensureNotBooked(ctx context.Context, showtimeID int, seatIDs []int) error {
	booked, err := s.reservations.GetSeatsByShowtimeId(ctx, showtimeID)
	if err != nil {
		return fmt.Errorf("loading booked seats of showtime %d: %w", showtimeID, err)
	}

	for _, rs := range booked {
		if slices.Contains(seatIDs, rs.SeatID) {
			return domain.ErrSeatAlreadyBooked
		}
	}

	return nil
}

// normalizeSeatIDs returns the distinct ids in ascending order. Locking seats
// in a fixed order keeps two overlapping requests from deadlocking.
func (s *Service) normalizeSeatIDs(seatIDs []int) ([]int, error) {
	if len(seatIDs) == 0 {
		return nil, domain.ErrNoSeatsRequested
	}

	ids := slices.Clone(seatIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	if s.cfg.MaxSeatsPerRequest > 0 && len(ids) > s.cfg.MaxSeatsPerRequest {
		return nil, domain.ErrTooManySeatsRequested
	}

	return ids, nil
}

func (s *Service) lockTTL(requested time.Duration) time.Duration {
	if requested <= 0 {
		return s.cfg.LockTTL
	}

	if s.cfg.MaxLockTTL > 0 && requested > s.cfg.MaxLockTTL {
		return s.cfg.MaxLockTTL
	}

	return requested
}

func totalPrice(seats []domain.Seat) int {
	total := 0
	for _, seat := range seats {
		total += seat.Price
	}

	return total
}

// goBackground runs fn after the caller's transaction has committed. Failures
// are logged and never reach the caller.
func (s *Service) goBackground(ctx context.Context, name string, fn func(ctx context.Context) error) {
	s.background.Add(1)

	go func() {
		defer s.background.Done()

		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic in background task", "task", name, "panic", err)
			}
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Error("background task failed", "task", name, "error", err)
		}
	}()
}
