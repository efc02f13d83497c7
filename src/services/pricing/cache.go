package pricing

import (
	"context"
	"errors"
	"strconv"
	"time"

	"portfolio/src/utils"
	redis_utils "portfolio/src/utils/redis"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PriceCache keeps recently fetched prices. Cache failures are never fatal: a miss only
// means one more request to the backend.
type PriceCache interface {
	Get(ctx context.Context, assetID int) (decimal.Decimal, bool)
	Set(ctx context.Context, assetID int, price decimal.Decimal, ttl time.Duration)
}

// MemoryCache is a process-local PriceCache.
type MemoryCache struct {
	entries *utils.KeyedCache[int, decimal.Decimal]
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: utils.NewKeyedCache[int, decimal.Decimal]()}
}

func (c *MemoryCache) Get(_ context.Context, assetID int) (decimal.Decimal, bool) {
	return c.entries.Get(assetID)
}

func (c *MemoryCache) Set(_ context.Context, assetID int, price decimal.Decimal, ttl time.Duration) {
	c.entries.Set(assetID, price, ttl)
}

// RedisCache shares prices between service instances.
type RedisCache struct {
	handler *redis_utils.RedisHandler
	logger  *logrus.Logger
}

func NewRedisCache(handler *redis_utils.RedisHandler, logger *logrus.Logger) *RedisCache {
	return &RedisCache{handler: handler, logger: logger}
}

func priceKey(assetID int) string {
	return "portfolio:price:" + strconv.Itoa(assetID)
}

func (c *RedisCache) Get(ctx context.Context, assetID int) (decimal.Decimal, bool) {
	var price decimal.Decimal
	err := c.handler.Get(ctx, priceKey(assetID), &price)
	if err != nil {
		if !errors.Is(err, redis_utils.ErrKeyNotFound) {
			c.logger.WithError(err).Warn("price cache read failed")
		}
		return decimal.Zero, false
	}
	return price, true
}

func (c *RedisCache) Set(ctx context.Context, assetID int, price decimal.Decimal, ttl time.Duration) {
	if err := c.handler.Set(ctx, priceKey(assetID), price, ttl); err != nil {
		c.logger.WithError(err).Warn("price cache write failed")
	}
}
