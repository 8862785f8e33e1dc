package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/jonboulle/clockwork"
	"github.com/limbachsamaj/communitysite/pkg/models"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultMaxCountWorkers = 8
	countRefreshKey        = "counts"
)

type CountCacher interface {
	// GetCounts returns the per-album counts and whether they came from the cache.
	GetCounts(ctx context.Context) (models.AlbumCountMap, bool)

	// Refresh replaces the map now, even if it is still fresh.
	Refresh(ctx context.Context) models.AlbumCountMap
	Invalidate()

	// Peek returns the last loaded map, fresh or not, without fetching. Nil when nothing has loaded yet.
	Peek() models.AlbumCountMap
}

type CountCacheConfig struct {
	AlbumService AlbumServicer
	Clock        clockwork.Clock
	Gateway      MediaGatewayer
	Pool         pond.Pool
	TTL          time.Duration
}

/*
CountCache holds a single map of album ID to asset count. A refresh asks the
gateway for every album in the catalog at once and replaces the whole map
when all of them have answered.
*/
type CountCache struct {
	albumService AlbumServicer
	clock        clockwork.Clock
	gateway      MediaGatewayer
	pool         pond.Pool
	ttl          time.Duration

	group     singleflight.Group
	lock      sync.RWMutex
	counts    models.AlbumCountMap
	fetchedAt time.Time
}

func NewCountCache(config CountCacheConfig) *CountCache {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	if config.TTL <= 0 {
		config.TTL = DefaultCacheTTL
	}

	if config.Pool == nil {
		config.Pool = pond.NewPool(DefaultMaxCountWorkers)
	}

	return &CountCache{
		albumService: config.AlbumService,
		clock:        config.Clock,
		gateway:      config.Gateway,
		pool:         config.Pool,
		ttl:          config.TTL,
	}
}

func (c *CountCache) GetCounts(ctx context.Context) (models.AlbumCountMap, bool) {
	if counts, ok := c.fresh(); ok {
		return counts, true
	}

	fetchCtx := context.WithoutCancel(ctx)

	value, _, _ := c.group.Do(countRefreshKey, func() (any, error) {
		if counts, ok := c.fresh(); ok {
			return counts, nil
		}

		return c.refresh(fetchCtx), nil
	})

	return value.(models.AlbumCountMap).Clone(), false
}

func (c *CountCache) Refresh(ctx context.Context) models.AlbumCountMap {
	fetchCtx := context.WithoutCancel(ctx)

	value, _, _ := c.group.Do(countRefreshKey, func() (any, error) {
		return c.refresh(fetchCtx), nil
	})

	return value.(models.AlbumCountMap).Clone()
}

func (c *CountCache) Invalidate() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.counts = nil
	c.fetchedAt = time.Time{}
}

func (c *CountCache) Peek() models.AlbumCountMap {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.counts == nil {
		return nil
	}

	return c.counts.Clone()
}

func (c *CountCache) fresh() (models.AlbumCountMap, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.counts == nil || c.clock.Since(c.fetchedAt) >= c.ttl {
		return nil, false
	}

	return c.counts.Clone(), true
}

func (c *CountCache) refresh(ctx context.Context) models.AlbumCountMap {
	albumIDs := c.albumService.GetAlbumIDs()
	results := make([]int, len(albumIDs))

	slog.Info("refreshing album counts", "numAlbums", len(albumIDs))

	group := c.pool.NewGroup()

	for index, albumID := range albumIDs {
		group.Submit(func() {
			results[index] = c.gateway.CountAssets(ctx, albumID)
		})
	}

	if err := group.Wait(); err != nil {
		slog.Error("album count workers did not finish cleanly", "error", err)
	}

	counts := make(models.AlbumCountMap, len(albumIDs))

	for index, albumID := range albumIDs {
		counts[albumID] = max(results[index], 0)
	}

	c.lock.Lock()
	c.counts = counts
	c.fetchedAt = c.clock.Now()
	c.lock.Unlock()

	return counts.Clone()
}
