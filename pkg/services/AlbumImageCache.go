package services

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/limbachsamaj/communitysite/pkg/models"
	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultCacheTTL = 5 * time.Minute
)

type AlbumImageCacher interface {
	Get(albumID string) (models.CacheEntry, bool)
	Put(albumID string, images []models.MediaAsset, fetchErr error) models.CacheEntry
	IsFresh(entry models.CacheEntry) bool
	Len() int
}

type AlbumImageCacheConfig struct {
	Clock clockwork.Clock
	TTL   time.Duration
}

/*
AlbumImageCache remembers the image listing of every album opened during the
life of the process. Entries never expire on their own; a stale entry only
means the next read should fetch again. The catalog is small, so growth is
bounded by the number of albums.
*/
type AlbumImageCache struct {
	clock   clockwork.Clock
	ttl     time.Duration
	entries *gocache.Cache
}

func NewAlbumImageCache(config AlbumImageCacheConfig) *AlbumImageCache {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	if config.TTL <= 0 {
		config.TTL = DefaultCacheTTL
	}

	return &AlbumImageCache{
		clock:   config.Clock,
		ttl:     config.TTL,
		entries: gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *AlbumImageCache) Get(albumID string) (models.CacheEntry, bool) {
	value, ok := c.entries.Get(albumID)

	if !ok {
		return models.CacheEntry{}, false
	}

	return value.(models.CacheEntry), true
}

/*
Put stores the outcome of a fetch. When fetchErr is set the entry records
the error message and an empty image list.
*/
func (c *AlbumImageCache) Put(albumID string, images []models.MediaAsset, fetchErr error) models.CacheEntry {
	entry := models.CacheEntry{
		Images:    images,
		FetchedAt: c.clock.Now(),
	}

	if fetchErr != nil {
		entry.Images = []models.MediaAsset{}
		entry.Error = fetchErr.Error()
	}

	if entry.Images == nil {
		entry.Images = []models.MediaAsset{}
	}

	c.entries.Set(albumID, entry, gocache.NoExpiration)
	return entry
}

func (c *AlbumImageCache) IsFresh(entry models.CacheEntry) bool {
	return entry.IsFresh(c.clock.Now(), c.ttl)
}

func (c *AlbumImageCache) Len() int {
	return c.entries.ItemCount()
}
