package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/limbachsamaj/communitysite/pkg/models"
	"github.com/limbachsamaj/communitysite/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCountCache struct {
	counts models.AlbumCountMap
	cached bool
}

func (s stubCountCache) GetCounts(ctx context.Context) (models.AlbumCountMap, bool) {
	return s.counts.Clone(), s.cached
}

func (s stubCountCache) Refresh(ctx context.Context) models.AlbumCountMap { return s.counts.Clone() }
func (s stubCountCache) Invalidate()                                      {}
func (s stubCountCache) Peek() models.AlbumCountMap                       { return s.counts.Clone() }

type stubImageService struct {
	entries map[string]models.CacheEntry
	calls   map[string]int
}

func (s *stubImageService) Lookup(albumID string) (models.CacheEntry, bool, bool) {
	entry, ok := s.entries[albumID]
	return entry, ok, ok
}

func (s *stubImageService) GetImages(ctx context.Context, albumID string) (models.CacheEntry, bool) {
	s.calls[albumID]++
	return s.entries[albumID], s.calls[albumID] > 1
}

type stubGateway struct {
	folders []models.Folder
	counts  map[string]int
	err     error
}

func (g stubGateway) ListAssets(ctx context.Context, albumID string) ([]models.MediaAsset, error) {
	return nil, nil
}

func (g stubGateway) CountAssets(ctx context.Context, albumID string) int { return g.counts[albumID] }

func (g stubGateway) ListFolders(ctx context.Context) ([]models.Folder, error) {
	return g.folders, g.err
}

func (g stubGateway) Ping(ctx context.Context) error { return nil }

type apiFixture struct {
	images  *stubImageService
	counts  stubCountCache
	gateway stubGateway
	err     error
}

func (f apiFixture) server(t *testing.T) *http.ServeMux {
	t.Helper()

	albumService, err := services.NewAlbumServiceFromList([]models.Album{
		{ID: "diwali-2023", Title: "Diwali 2023", ApproximateImageCount: 12},
		{ID: "holi-2024", Title: "Holi 2024", ApproximateImageCount: 7},
	})
	require.NoError(t, err)

	controller := NewGalleryApiController(GalleryApiControllerConfig{
		AlbumImageService: f.images,
		AlbumService:      albumService,
		ConfigErr:         f.err,
		CountCache:        f.counts,
		Gateway:           f.gateway,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/gallery/counts", controller.Counts)
	mux.HandleFunc("GET /api/gallery/{album}", controller.AlbumImages)
	mux.HandleFunc("GET /api/gallery", controller.Folders)
	return mux
}

func newApiFixture() apiFixture {
	return apiFixture{
		images: &stubImageService{entries: map[string]models.CacheEntry{}, calls: map[string]int{}},
		counts: stubCountCache{counts: models.AlbumCountMap{"diwali-2023": 14, "holi-2024": 0}},
	}
}

func get(t *testing.T, handler http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func TestCountsFreshFetch(t *testing.T) {
	f := newApiFixture()

	w, body := get(t, f.server(t), "/api/gallery/counts")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["done"])
	assert.NotContains(t, body, "cached")
	assert.Equal(t, map[string]any{"diwali-2023": float64(14), "holi-2024": float64(0)}, body["counts"])
}

func TestCountsFromCache(t *testing.T) {
	f := newApiFixture()
	f.counts.cached = true

	w, body := get(t, f.server(t), "/api/gallery/counts")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["cached"])
	assert.NotContains(t, body, "done")
}

func TestCountsConfigurationError(t *testing.T) {
	f := newApiFixture()
	f.err = &models.ConfigurationError{Component: "cloudinary", Missing: []string{"CLOUDINARY_API_SECRET"}}

	w, body := get(t, f.server(t), "/api/gallery/counts")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server configuration error", body["error"])
	assert.Equal(t, false, body["ok"])
	assert.NotContains(t, w.Body.String(), "CLOUDINARY_API_SECRET")
}

func TestAlbumImages(t *testing.T) {
	f := newApiFixture()
	f.images.entries["diwali-2023"] = models.CacheEntry{Images: []models.MediaAsset{
		{PublicID: "gallery/diwali-2023/lamps", URL: "https://cdn.example.com/lamps.jpg", Format: "jpg", ResourceType: models.ResourceTypeImage},
	}}

	w, body := get(t, f.server(t), "/api/gallery/diwali-2023")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["done"])

	images, ok := body["images"].([]any)
	require.True(t, ok)
	require.Len(t, images, 1)
	assert.Equal(t, "https://cdn.example.com/lamps.jpg", images[0].(map[string]any)["secure_url"])
}

func TestAlbumImagesUsesPathOverQuery(t *testing.T) {
	f := newApiFixture()
	f.images.entries["diwali-2023"] = models.CacheEntry{Images: []models.MediaAsset{
		{PublicID: "gallery/diwali-2023/lamps", URL: "https://cdn.example.com/lamps.jpg", ResourceType: models.ResourceTypeImage},
	}}
	f.images.entries["holi-2024"] = models.CacheEntry{Images: []models.MediaAsset{}}

	w, body := get(t, f.server(t), "/api/gallery/diwali-2023?album=holi-2024")

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, body["images"], 1)
	assert.Equal(t, 1, f.images.calls["diwali-2023"])
	assert.Zero(t, f.images.calls["holi-2024"])
}

func TestAlbumImagesEmptyAlbum(t *testing.T) {
	f := newApiFixture()
	f.images.entries["holi-2024"] = models.CacheEntry{Images: []models.MediaAsset{}}

	w, body := get(t, f.server(t), "/api/gallery/holi-2024")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, body["images"])
}

func TestAlbumImagesUnknownAlbum(t *testing.T) {
	f := newApiFixture()

	w, body := get(t, f.server(t), "/api/gallery/eid-2024")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unknown album", body["error"])
	assert.Empty(t, f.images.calls)
}

func TestAlbumImagesFailedFetch(t *testing.T) {
	f := newApiFixture()
	f.images.entries["diwali-2023"] = models.CacheEntry{Images: []models.MediaAsset{}, Error: models.ErrImagesUnavailable.Error()}

	w, body := get(t, f.server(t), "/api/gallery/diwali-2023")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrImagesUnavailable.Error(), body["error"])
	assert.Equal(t, false, body["ok"])
}

func TestFolders(t *testing.T) {
	f := newApiFixture()
	f.gateway = stubGateway{
		folders: []models.Folder{{Name: "diwali-2023", Path: "gallery/diwali-2023"}, {Name: "extra", Path: "gallery/extra"}},
		counts:  map[string]int{"diwali-2023": 14, "extra": 2},
	}

	w, body := get(t, f.server(t), "/api/gallery")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["done"])
	assert.Equal(t, map[string]any{"diwali-2023": float64(14), "extra": float64(2)}, body["albums"])
}

func TestFoldersUpstreamFailure(t *testing.T) {
	f := newApiFixture()
	f.gateway = stubGateway{err: errors.New("boom")}

	w, body := get(t, f.server(t), "/api/gallery")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Something went wrong!", body["error"])
}
