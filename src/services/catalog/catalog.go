// Package catalog keeps the asset catalogue shared by every session. The catalogue is read
// through a short-lived cache and can be refreshed in the background.
package catalog

import (
	"context"
	"fmt"
	"time"

	"portfolio/src/models"
	"portfolio/src/session"
	"portfolio/src/utils"
)

type AssetSource interface {
	GetAssets(ctx context.Context, sess *session.Session) ([]models.Asset, error)
	GetAsset(ctx context.Context, sess *session.Session, id int) (*models.Asset, error)
}

type ServiceI interface {
	Assets(ctx context.Context, sess *session.Session) ([]models.Asset, error)
	Asset(ctx context.Context, sess *session.Session, id int) (models.Asset, error)
	Refresh(ctx context.Context, sess *session.Session) error
}

type Service struct {
	source AssetSource
	cache  *utils.Cache[[]models.Asset]
	ttl    time.Duration
}

func NewService(source AssetSource, ttl time.Duration) *Service {
	return &Service{source: source, cache: utils.NewCache[[]models.Asset](), ttl: ttl}
}

// Assets returns the cached catalogue, loading it on a miss.
func (s *Service) Assets(ctx context.Context, sess *session.Session) ([]models.Asset, error) {
	if assets, ok := s.cache.Get(time.Time{}); ok {
		return assets, nil
	}
	return s.load(ctx, sess)
}

func (s *Service) load(ctx context.Context, sess *session.Session) ([]models.Asset, error) {
	assets, err := s.source.GetAssets(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	s.cache.Set(assets, s.ttl)
	return assets, nil
}

// Refresh reloads the catalogue regardless of the cache.
func (s *Service) Refresh(ctx context.Context, sess *session.Session) error {
	_, err := s.load(ctx, sess)
	return err
}

// Asset returns one asset with its current price. Orders must be priced from the backend,
// so the cache is bypassed.
func (s *Service) Asset(ctx context.Context, sess *session.Session, id int) (models.Asset, error) {
	asset, err := s.source.GetAsset(ctx, sess, id)
	if err != nil {
		return models.Asset{}, err
	}
	if asset == nil {
		return models.Asset{}, utils.NotFound(fmt.Sprintf("asset %d not found", id))
	}
	return *asset, nil
}
