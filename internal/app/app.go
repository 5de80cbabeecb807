package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/exaring/otelpgx"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/metinatakli/seat-reservation-system/api"
	"github.com/metinatakli/seat-reservation-system/internal/booking"
	"github.com/metinatakli/seat-reservation-system/internal/catalog"
	"github.com/metinatakli/seat-reservation-system/internal/clock"
	"github.com/metinatakli/seat-reservation-system/internal/domain"
	"github.com/metinatakli/seat-reservation-system/internal/queue"
	"github.com/metinatakli/seat-reservation-system/internal/repository"
	appvalidator "github.com/metinatakli/seat-reservation-system/internal/validator"
	"github.com/metinatakli/seat-reservation-system/internal/vcs"
	"github.com/metinatakli/seat-reservation-system/internal/worker"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

var (
	version = vcs.Version()
)

// BookingService is the seat reservation engine as seen by the HTTP handlers.
type BookingService interface {
	EnsureShowtime(ctx context.Context, externalID string, startAt time.Time) (int, error)
	GetAvailability(ctx context.Context, showtimeID int) (*domain.Availability, error)
	AcquireLocks(ctx context.Context, req booking.LockRequest) (*domain.LockHandle, error)
	ReleaseLock(ctx context.Context, showtimeID, seatID int, holder domain.Holder) error
	PlaceHold(ctx context.Context, req booking.HoldRequest) (*domain.Reservation, *domain.LockHandle, error)
	ReleaseHold(ctx context.Context, reservationID, userID int) error
	Confirm(ctx context.Context, req booking.ConfirmRequest) (*domain.Reservation, error)
	Cancel(ctx context.Context, reservationID, userID int) error
	ListBookingsForUser(ctx context.Context, userID int, pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error)
}

type Application struct {
	config         Config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	sessionManager *scs.SessionManager
	openapi        *openapi3.T

	bookings BookingService
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	validator *validator.Validate,
	sessionManager *scs.SessionManager,
	bookings BookingService) (*Application, error) {

	doc, err := api.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}

	return &Application{
		config:         cfg,
		logger:         logger,
		db:             db,
		redis:          redisClient,
		validator:      validator,
		sessionManager: sessionManager,
		openapi:        doc,
		bookings:       bookings,
	}, nil
}

func Run() error {
	// a missing .env file is fine, flags and the environment still apply
	_ = godotenv.Load()

	cfg, displayVersion, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	if displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app := &Application{config: cfg, logger: logger}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler("seat-reservation-api")))
	}

	if cfg.JWT.Secret == "" {
		logger.Warn("JWT secret not set, bearer tokens will be rejected")
	}

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	clk := clock.NewSystem()
	service := NewBookingService(cfg, db, redisClient, clk, logger)

	app, err = NewApp(cfg, logger, db, redisClient, appvalidator.NewValidator(), NewSessionManager(redisClient), service)
	if err != nil {
		return err
	}

	sweeper, err := worker.NewLockSweeper(service, clk, logger, cfg.Booking.SweepInterval)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sweeper.Start(ctx)

	err = app.run()

	sweeper.Stop()
	service.Wait()

	return err
}

// NewBookingService wires the booking engine to PostgreSQL, the cached KOPIS
// catalog and, when configured, the RabbitMQ event publisher.
func NewBookingService(
	cfg Config,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	clk clock.Clock,
	logger *slog.Logger) *booking.Service {

	repos := booking.Repositories{
		Tx:           repository.NewPostgresTransactor(db),
		Seats:        repository.NewPostgresSeatRepository(db),
		Shows:        repository.NewPostgresShowRepository(db),
		Showtimes:    repository.NewPostgresShowtimeRepository(db),
		Locks:        repository.NewPostgresSeatLockRepository(db),
		Reservations: repository.NewPostgresReservationRepository(db),
	}

	kopis := catalog.NewKopisClient(cfg.Catalog.BaseURL, cfg.Catalog.ServiceKey, cfg.Catalog.Timeout)
	cached := catalog.NewCachedCatalog(kopis, redisClient, cfg.Catalog.CacheTTL, logger)

	bookingCfg := booking.DefaultConfig
	bookingCfg.LockTTL = cfg.Booking.LockTTL
	bookingCfg.MaxLockTTL = cfg.Booking.MaxLockTTL
	bookingCfg.HoldTTL = cfg.Booking.HoldTTL
	bookingCfg.MaxSeatsPerRequest = cfg.Booking.MaxSeatsPerRequest
	if cfg.Booking.FallbackSeatPrice > 0 {
		bookingCfg.FallbackSeatPrice = cfg.Booking.FallbackSeatPrice
	}

	opts := []booking.Option{
		booking.WithClock(clk),
		booking.WithLogger(logger),
		booking.WithConfig(bookingCfg),
	}

	if cfg.AMQP.URL != "" {
		opts = append(opts, booking.WithEventPublisher(queue.NewPublisher(cfg.AMQP.URL, logger)))
	}

	return booking.NewService(repos, cached, opts...)
}

func NewSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := redisotel.InstrumentTracing(rdb)
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
