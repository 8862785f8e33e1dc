package services

import (
	"context"
	"log/slog"

	"github.com/limbachsamaj/communitysite/pkg/models"
	"golang.org/x/sync/singleflight"
)

type AlbumImageServicer interface {
	// Lookup reports the cached entry for an album and whether it is still fresh.
	Lookup(albumID string) (entry models.CacheEntry, fresh bool, found bool)

	// GetImages serves a fresh cache entry or fetches through the gateway and caches the outcome.
	GetImages(ctx context.Context, albumID string) (entry models.CacheEntry, cached bool)
}

type AlbumImageServiceConfig struct {
	Cache   AlbumImageCacher
	Gateway MediaGatewayer
}

type AlbumImageService struct {
	cache   AlbumImageCacher
	gateway MediaGatewayer
	group   *singleflight.Group
}

func NewAlbumImageService(config AlbumImageServiceConfig) AlbumImageService {
	return AlbumImageService{
		cache:   config.Cache,
		gateway: config.Gateway,
		group:   &singleflight.Group{},
	}
}

func (s AlbumImageService) Lookup(albumID string) (models.CacheEntry, bool, bool) {
	entry, found := s.cache.Get(albumID)

	if !found {
		return models.CacheEntry{}, false, false
	}

	return entry, s.cache.IsFresh(entry), true
}

func (s AlbumImageService) GetImages(ctx context.Context, albumID string) (models.CacheEntry, bool) {
	if entry, fresh, found := s.Lookup(albumID); found && fresh {
		return entry, true
	}

	/*
	 * The fetch is detached from the caller's cancellation so that its
	 * outcome always lands in the cache.
	 */
	fetchCtx := context.WithoutCancel(ctx)

	value, _, _ := s.group.Do(albumID, func() (any, error) {
		if entry, fresh, found := s.Lookup(albumID); found && fresh {
			return entry, nil
		}

		images, err := s.gateway.ListAssets(fetchCtx, albumID)

		if err != nil {
			slog.Error("caching failed album fetch", "albumID", albumID, "error", err)
			return s.cache.Put(albumID, nil, models.ErrImagesUnavailable), nil
		}

		return s.cache.Put(albumID, images, nil), nil
	})

	return value.(models.CacheEntry), false
}
