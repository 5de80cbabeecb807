package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
	"github.com/redis/go-redis/v9"
)

// CachedCatalog is a read-through Redis cache in front of another catalog.
// Cache failures are logged and never fail the lookup.
type CachedCatalog struct {
	next   domain.Catalog
	redis  redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedCatalog(next domain.Catalog, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedCatalog {
	return &CachedCatalog{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

func performanceKey(externalID string) string {
	return fmt.Sprintf("catalog:performance:%s", externalID)
}

func (c *CachedCatalog) GetPerformance(ctx context.Context, externalID string) (*domain.CatalogPerformance, error) {
	key := performanceKey(externalID)

	cached, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var performance domain.CatalogPerformance
		if err := json.Unmarshal(cached, &performance); err == nil {
			return &performance, nil
		}

		c.logger.Warn("discarding malformed cached performance", "external_id", externalID)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("catalog cache read failed", "external_id", externalID, "error", err)
	}

	performance, err := c.next.GetPerformance(ctx, externalID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(performance)
	if err != nil {
		return performance, nil
	}

	err = c.redis.Set(ctx, key, payload, c.ttl).Err()
	if err != nil {
		c.logger.Warn("catalog cache write failed", "external_id", externalID, "error", err)
	}

	return performance, nil
}
