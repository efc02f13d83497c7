// Package pricing fetches live asset prices for valuations. Prices are fetched once per
// distinct asset, concurrently, and a failed fetch only costs that asset its live price.
package pricing

import (
	"context"
	"sync"
	"time"

	"portfolio/src/models"
	"portfolio/src/services/metrics"
	"portfolio/src/session"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type PriceSource interface {
	GetAsset(ctx context.Context, sess *session.Session, id int) (*models.Asset, error)
}

type ServiceI interface {
	Prices(ctx context.Context, sess *session.Session, holdings []models.Holding) (metrics.Prices, error)
}

type Service struct {
	source PriceSource
	cache  PriceCache
	ttl    time.Duration
	limit  int
	logger *logrus.Logger
}

func NewService(source PriceSource, cache PriceCache, ttl time.Duration, limit int, logger *logrus.Logger) *Service {
	if limit <= 0 {
		limit = 1
	}
	return &Service{source: source, cache: cache, ttl: ttl, limit: limit, logger: logger}
}

// Prices returns the live price of every asset held. Assets whose price could not be fetched
// are missing from the result, so valuations fall back to the purchase price. The only error
// is the cancellation of ctx.
func (s *Service) Prices(ctx context.Context, sess *session.Session, holdings []models.Holding) (metrics.Prices, error) {
	prices := metrics.Prices{}
	var mutex sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)

	for _, id := range distinctAssets(holdings) {
		if price, ok := s.cached(gctx, id); ok {
			mutex.Lock()
			prices[id] = price
			mutex.Unlock()
			continue
		}
		id := id
		g.Go(func() error {
			asset, err := s.source.GetAsset(gctx, sess, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.WithError(err).WithField("asset_id", id).Warn("price unavailable, using purchase price")
				return nil
			}
			if asset == nil || !asset.Price.IsPositive() {
				s.logger.WithField("asset_id", id).Warn("asset has no price, using purchase price")
				return nil
			}

			mutex.Lock()
			prices[id] = asset.Price
			mutex.Unlock()
			if s.cache != nil {
				s.cache.Set(gctx, id, asset.Price, s.ttl)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return prices, nil
}

func (s *Service) cached(ctx context.Context, id int) (decimal.Decimal, bool) {
	if s.cache == nil {
		return decimal.Zero, false
	}
	return s.cache.Get(ctx, id)
}

func distinctAssets(holdings []models.Holding) []int {
	seen := make(map[int]bool, len(holdings))
	ids := make([]int, 0, len(holdings))
	for _, h := range holdings {
		if seen[h.AssetID] {
			continue
		}
		seen[h.AssetID] = true
		ids = append(ids, h.AssetID)
	}
	return ids
}
