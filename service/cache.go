package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"salon-system/schedule"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CatalogSource loads a catalog for one account.
type CatalogSource interface {
	GetCatalog(ctx context.Context, userID uuid.UUID) (schedule.Catalog, error)
}

// CachedCatalog keeps each account's catalog in Redis. Redis failures fall
// through to the source; they never fail a lookup.
type CachedCatalog struct {
	source CatalogSource
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedCatalog(source CatalogSource, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedCatalog{source: source, rdb: rdb, ttl: ttl, logger: logger}
}

func catalogKey(userID uuid.UUID) string {
	return "salon:catalog:" + userID.String()
}

func (c *CachedCatalog) GetCatalog(ctx context.Context, userID uuid.UUID) (schedule.Catalog, error) {
	key := catalogKey(userID)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var catalog schedule.Catalog
		if err := json.Unmarshal(raw, &catalog); err == nil {
			return catalog, nil
		}
		c.logger.Warn("discarding undecodable cached catalog", "user_id", userID)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("catalog cache read failed", "user_id", userID, "error", err)
	}

	catalog, err := c.source.GetCatalog(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	payload, err := json.Marshal(catalog)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", "user_id", userID, "error", err)
	}
	return catalog, nil
}

// Invalidate drops the cached catalog after a service write.
func (c *CachedCatalog) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.rdb.Del(ctx, catalogKey(userID)).Err(); err != nil {
		return fmt.Errorf("del: %w", err)
	}
	return nil
}
