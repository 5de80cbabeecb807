package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             int
	Env              string
	DB               DBConfig
	Redis            RedisConfig
	JWT              JWTConfig
	Catalog          CatalogConfig
	Booking          BookingConfig
	AMQP             AMQPConfig
	OtelCollectorUrl string
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CatalogConfig struct {
	BaseURL    string
	ServiceKey string
	Timeout    time.Duration
	CacheTTL   time.Duration
}

type BookingConfig struct {
	LockTTL            time.Duration
	MaxLockTTL         time.Duration
	HoldTTL            time.Duration
	MaxSeatsPerRequest int
	FallbackSeatPrice  int
	SweepInterval      time.Duration
}

type AMQPConfig struct {
	URL string
}

// parseFlags registers every setting as a flag whose default comes from the
// environment. Malformed environment values and invalid settings are errors.
func parseFlags(fs *flag.FlagSet, args []string) (Config, bool, error) {
	var cfg Config
	env := &envReader{}

	fs.IntVar(&cfg.Port, "port", env.Int("PORT", 3000), "server port")
	fs.StringVar(&cfg.Env, "env", env.String("ENV", "dev"), "Environment (dev|staging|prod)")

	fs.StringVar(&cfg.DB.DSN, "db-dsn", env.String("DB_DSN", ""), "PostgreSQL DSN")
	fs.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", env.Int("DB_MAX_OPEN_CONNS", 25), "PostgreSQL max open connections")
	fs.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", env.Duration("DB_MAX_IDLE_TIME", 15*time.Minute), "PostgreSQL max idle time for connections")

	fs.StringVar(&cfg.Redis.URL, "redis-url", env.String("REDIS_URL", ""), "Redis address")
	fs.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", env.Int("REDIS_MAX_OPEN_CONNS", 25), "Redis max open connections")
	fs.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", env.Int("REDIS_MAX_IDLE_CONNS", 10), "Redis max idle connections")
	fs.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", env.Duration("REDIS_MAX_IDLE_TIME", 2*time.Minute), "Redis max idle time for connections")

	fs.StringVar(&cfg.JWT.Secret, "jwt-secret", env.String("JWT_SECRET", ""), "HMAC secret of access tokens")
	fs.StringVar(&cfg.JWT.Issuer, "jwt-issuer", env.String("JWT_ISSUER", ""), "Expected issuer of access tokens")

	fs.StringVar(&cfg.Catalog.BaseURL, "catalog-url", env.String("KOPIS_BASE_URL", "http://www.kopis.or.kr/openApi/restful"), "KOPIS API base URL")
	fs.StringVar(&cfg.Catalog.ServiceKey, "catalog-key", env.String("KOPIS_SERVICE_KEY", ""), "KOPIS service key")
	fs.DurationVar(&cfg.Catalog.Timeout, "catalog-timeout", env.Duration("KOPIS_TIMEOUT", 5*time.Second), "KOPIS request timeout")
	fs.DurationVar(&cfg.Catalog.CacheTTL, "catalog-cache-ttl", env.Duration("KOPIS_CACHE_TTL", time.Hour), "KOPIS response cache TTL")

	fs.DurationVar(&cfg.Booking.LockTTL, "lock-ttl", env.Duration("LOCK_TTL", 5*time.Minute), "Default seat lock TTL")
	fs.DurationVar(&cfg.Booking.MaxLockTTL, "lock-max-ttl", env.Duration("LOCK_MAX_TTL", 15*time.Minute), "Maximum seat lock TTL")
	fs.DurationVar(&cfg.Booking.HoldTTL, "hold-ttl", env.Duration("HOLD_TTL", 10*time.Minute), "Default hold TTL")
	fs.IntVar(&cfg.Booking.MaxSeatsPerRequest, "max-seats", env.Int("MAX_SEATS", 10), "Maximum seats per request")
	fs.IntVar(&cfg.Booking.FallbackSeatPrice, "fallback-seat-price", env.Int("FALLBACK_SEAT_PRICE", 50000), "Seat price when the price guide has none")
	fs.DurationVar(&cfg.Booking.SweepInterval, "sweep-interval", env.Duration("SWEEP_INTERVAL", time.Minute), "Interval of the expired lock sweep")

	fs.StringVar(&cfg.AMQP.URL, "amqp-url", env.String("AMQP_URL", ""), "RabbitMQ URL, events are not published when empty")

	fs.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", env.String("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector gRPC endpoint")

	displayVersion := fs.Bool("version", false, "Display version and exit")

	err := fs.Parse(args)
	if err != nil {
		return cfg, false, err
	}

	if *displayVersion {
		return cfg, true, nil
	}

	err = errors.Join(env.errs...)
	if err != nil {
		return cfg, false, err
	}

	err = cfg.Validate()
	if err != nil {
		return cfg, false, err
	}

	return cfg, false, nil
}

// Validate reports every setting the server cannot run with.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}

	if c.Booking.LockTTL <= 0 {
		errs = append(errs, fmt.Errorf("lock TTL must be positive, got %s", c.Booking.LockTTL))
	}

	if c.Booking.MaxLockTTL < c.Booking.LockTTL {
		errs = append(errs, fmt.Errorf("maximum lock TTL %s is shorter than the lock TTL %s", c.Booking.MaxLockTTL, c.Booking.LockTTL))
	}

	if c.Booking.HoldTTL <= 0 {
		errs = append(errs, fmt.Errorf("hold TTL must be positive, got %s", c.Booking.HoldTTL))
	}

	if c.Booking.MaxSeatsPerRequest <= 0 {
		errs = append(errs, fmt.Errorf("max seats per request must be positive, got %d", c.Booking.MaxSeatsPerRequest))
	}

	if c.Booking.FallbackSeatPrice < 0 {
		errs = append(errs, fmt.Errorf("fallback seat price must not be negative, got %d", c.Booking.FallbackSeatPrice))
	}

	if c.Booking.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("sweep interval must be positive, got %s", c.Booking.SweepInterval))
	}

	return errors.Join(errs...)
}

// envReader looks up flag defaults in the environment and remembers the
// values it could not parse.
type envReader struct {
	errs []error
}

func (e *envReader) String(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}

func (e *envReader) Int(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s %q: not an integer", key, v))
		return fallback
	}

	return n
}

func (e *envReader) Duration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s %q: not a duration", key, v))
		return fallback
	}

	return d
}
