package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/limbachsamaj/communitysite/pkg/models"
)

type fakeGateway struct {
	lock    sync.Mutex
	assets  map[string][]models.MediaAsset
	errs    map[string]error
	counts  map[string]int
	folders []models.Folder

	listCalls  atomic.Int32
	countCalls atomic.Int32

	// When set, ListAssets and CountAssets block until the channel is closed.
	release chan struct{}
	started chan string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		assets: map[string][]models.MediaAsset{},
		errs:   map[string]error{},
		counts: map[string]int{},
	}
}

func (g *fakeGateway) setAssets(albumID string, assets []models.MediaAsset) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.assets[albumID] = assets
	delete(g.errs, albumID)
}

func (g *fakeGateway) setError(albumID string, err error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.errs[albumID] = err
}

func (g *fakeGateway) wait(albumID string) {
	if g.started != nil {
		g.started <- albumID
	}

	if g.release != nil {
		<-g.release
	}
}

func (g *fakeGateway) ListAssets(ctx context.Context, albumID string) ([]models.MediaAsset, error) {
	g.listCalls.Add(1)
	g.wait(albumID)

	g.lock.Lock()
	defer g.lock.Unlock()

	if err, ok := g.errs[albumID]; ok {
		return nil, err
	}

	return g.assets[albumID], nil
}

func (g *fakeGateway) CountAssets(ctx context.Context, albumID string) int {
	g.countCalls.Add(1)
	g.wait(albumID)

	g.lock.Lock()
	defer g.lock.Unlock()

	return g.counts[albumID]
}

func (g *fakeGateway) ListFolders(ctx context.Context) ([]models.Folder, error) {
	return g.folders, nil
}

func (g *fakeGateway) Ping(ctx context.Context) error {
	return nil
}

func testAlbums() []models.Album {
	return []models.Album{
		{ID: "diwali-2023", Title: "Diwali 2023", CoverImage: "https://example.com/diwali.jpg", ApproximateImageCount: 12},
		{ID: "holi-2024", Title: "Holi 2024", CoverImage: "https://example.com/holi.jpg", ApproximateImageCount: 7},
		{ID: "navratri-2023", Title: "Navratri 2023", CoverImage: "https://example.com/navratri.jpg", ApproximateImageCount: 20},
	}
}

func testAssets(ids ...string) []models.MediaAsset {
	result := make([]models.MediaAsset, 0, len(ids))

	for _, id := range ids {
		result = append(result, models.MediaAsset{
			PublicID:     id,
			URL:          "https://example.com/" + id + ".jpg",
			Width:        800,
			Height:       600,
			Format:       "jpg",
			ResourceType: models.ResourceTypeImage,
		})
	}

	return result
}
