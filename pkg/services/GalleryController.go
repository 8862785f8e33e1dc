package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/limbachsamaj/communitysite/pkg/models"
)

type ViewStatus string

const (
	ViewIdle     ViewStatus = "idle"
	ViewChecking ViewStatus = "checking"
	ViewLoading  ViewStatus = "loading"
	ViewReady    ViewStatus = "ready"
	ViewFailed   ViewStatus = "failed"
)

// ViewState is what the lightbox viewer renders.
type ViewState struct {
	Album  *models.Album
	Status ViewStatus
	Images []models.MediaAsset
	Error  string
}

type GalleryControllerConfig struct {
	AlbumImageService AlbumImageServicer
	AlbumService      AlbumServicer
	CountCache        CountCacher
}

/*
GalleryController binds the selected album to cache lookups and fetches.

Every selection bumps a generation number. A fetch that finishes after the
selection has moved on still updates the album image cache (the service
does that), but its result is not applied to the view.
*/
type GalleryController struct {
	albumImageService AlbumImageServicer
	albumService      AlbumServicer
	countCache        CountCacher

	lock       sync.Mutex
	generation uint64
	state      ViewState
	listeners  []chan ViewState

	gridOnce sync.Once
	counts   models.AlbumCountMap
	inflight sync.WaitGroup
}

func NewGalleryController(config GalleryControllerConfig) *GalleryController {
	return &GalleryController{
		albumImageService: config.AlbumImageService,
		albumService:      config.AlbumService,
		countCache:        config.CountCache,
		state:             ViewState{Status: ViewIdle, Images: []models.MediaAsset{}},
	}
}

/*
Select opens an album in the viewer. Passing nil closes the viewer without
cancelling a fetch that is still running.
*/
func (c *GalleryController) Select(album *models.Album) error {
	if album == nil {
		c.lock.Lock()
		c.generation++
		c.apply(ViewState{Status: ViewIdle, Images: []models.MediaAsset{}})
		c.lock.Unlock()
		return nil
	}

	if !c.albumService.HasAlbum(album.ID) {
		return models.ErrAlbumNotFound
	}

	selected := *album

	c.lock.Lock()
	c.generation++
	generation := c.generation
	c.apply(ViewState{Album: &selected, Status: ViewChecking, Images: []models.MediaAsset{}})

	entry, fresh, found := c.albumImageService.Lookup(selected.ID)

	if found && fresh {
		c.apply(stateFromEntry(&selected, entry))
		c.lock.Unlock()
		return nil
	}

	c.apply(ViewState{Album: &selected, Status: ViewLoading, Images: []models.MediaAsset{}})
	c.inflight.Add(1)
	c.lock.Unlock()

	go func() {
		defer c.inflight.Done()

		entry, _ := c.albumImageService.GetImages(context.Background(), selected.ID)

		c.lock.Lock()
		defer c.lock.Unlock()

		if generation != c.generation {
			slog.Debug("discarding superseded album result", "albumID", selected.ID)
			return
		}

		c.apply(stateFromEntry(&selected, entry))
	}()

	return nil
}

func (c *GalleryController) Snapshot() ViewState {
	c.lock.Lock()
	defer c.lock.Unlock()

	return copyState(c.state)
}

/*
Subscribe returns a channel that receives every state applied to the view.
The channel keeps only the latest state when the reader falls behind.
*/
func (c *GalleryController) Subscribe() <-chan ViewState {
	c.lock.Lock()
	defer c.lock.Unlock()

	ch := make(chan ViewState, 1)
	c.listeners = append(c.listeners, ch)
	return ch
}

// Wait blocks until every fetch started by Select has finished.
func (c *GalleryController) Wait() {
	c.inflight.Wait()
}

/*
LoadGrid loads the live album counts the first time the grid is shown.
Later calls are no-ops.
*/
func (c *GalleryController) LoadGrid(ctx context.Context) {
	c.gridOnce.Do(func() {
		counts, _ := c.countCache.GetCounts(ctx)

		c.lock.Lock()
		c.counts = counts
		c.lock.Unlock()
	})
}

// DisplayCount is the live count for an album, or its catalog estimate when none is loaded.
func (c *GalleryController) DisplayCount(album models.Album) int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return DisplayCount(c.counts, album)
}

func (c *GalleryController) DisplayCounts() models.AlbumCountMap {
	c.lock.Lock()
	defer c.lock.Unlock()

	result := models.AlbumCountMap{}

	for _, album := range c.albumService.GetAlbumList() {
		result[album.ID] = DisplayCount(c.counts, album)
	}

	return result
}

func DisplayCount(counts models.AlbumCountMap, album models.Album) int {
	if count, ok := counts[album.ID]; ok {
		return count
	}

	return album.ApproximateImageCount
}

// apply must be called with the lock held.
func (c *GalleryController) apply(state ViewState) {
	c.state = state

	for _, ch := range c.listeners {
		select {
		case <-ch:
		default:
		}

		ch <- copyState(state)
	}
}

func stateFromEntry(album *models.Album, entry models.CacheEntry) ViewState {
	if entry.Failed() {
		return ViewState{Album: album, Status: ViewFailed, Images: []models.MediaAsset{}, Error: entry.Error}
	}

	return ViewState{Album: album, Status: ViewReady, Images: entry.Images}
}

func copyState(state ViewState) ViewState {
	result := state
	result.Images = make([]models.MediaAsset, len(state.Images))
	copy(result.Images, state.Images)

	if state.Album != nil {
		album := *state.Album
		result.Album = &album
	}

	return result
}
