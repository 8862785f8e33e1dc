package gallery

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	internalmodels "github.com/limbachsamaj/communitysite/cmd/website/internal/models"
	"github.com/limbachsamaj/communitysite/cmd/website/internal/viewmodels"
	"github.com/limbachsamaj/communitysite/pkg/models"
	"github.com/limbachsamaj/communitysite/pkg/services"
)

const (
	DefaultGridWait   = 2 * time.Second
	DefaultViewerWait = 3 * time.Second
)

type GalleryPageHandlers interface {
	GalleryPage(w http.ResponseWriter, r *http.Request)
	AlbumPage(w http.ResponseWriter, r *http.Request)
}

type GalleryPageControllerConfig struct {
	AlbumImageService services.AlbumImageServicer
	AlbumService      services.AlbumServicer
	ConfigErr         error
	CountCache        services.CountCacher
	GridWait          time.Duration
	Renderer          rendering.TemplateRenderer
	SiteName          string
	ViewerWait        time.Duration
}

type GalleryPageController struct {
	albumImageService services.AlbumImageServicer
	albumService      services.AlbumServicer
	configErr         error
	countCache        services.CountCacher
	gridWait          time.Duration
	renderer          rendering.TemplateRenderer
	siteName          string
	viewerWait        time.Duration
}

func NewGalleryPageController(config GalleryPageControllerConfig) GalleryPageController {
	if config.GridWait <= 0 {
		config.GridWait = DefaultGridWait
	}

	if config.ViewerWait <= 0 {
		config.ViewerWait = DefaultViewerWait
	}

	return GalleryPageController{
		albumImageService: config.AlbumImageService,
		albumService:      config.AlbumService,
		configErr:         config.ConfigErr,
		countCache:        config.CountCache,
		gridWait:          config.GridWait,
		renderer:          config.Renderer,
		siteName:          config.SiteName,
		viewerWait:        config.ViewerWait,
	}
}

/*
GET /gallery
*/
func (c GalleryPageController) GalleryPage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.GalleryPage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx:             httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{},
			SiteName:           c.siteName,
			Title:              "Gallery",
		},
	}

	viewData.Albums = c.buildAlbumCards(r.Context())
	c.renderer.Render("pages/gallery", viewData, w)
}

/*
GET /gallery/{album}
*/
func (c GalleryPageController) AlbumPage(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		album models.Album
	)

	pageName := "pages/album"
	albumID := r.PathValue("album")
	page := httphelpers.GetFromRequest[int](r, "page")

	viewData := viewmodels.AlbumViewer{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx:   httphelpers.IsHtmx(r),
			SiteName: c.siteName,
			Title:    "Gallery",
		},
	}

	if album, err = c.albumService.GetAlbum(albumID); err != nil {
		slog.Warn("album page requested for unknown album", "albumID", albumID)
		viewData.IsError = true
		viewData.Status = services.ViewFailed
		viewData.Error = "We couldn't find that album."

		w.WriteHeader(http.StatusNotFound)
		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.Title = album.Title
	viewData.Album = internalmodels.NewAlbumCard(album, album.ApproximateImageCount)

	if c.configErr != nil {
		slog.Error("gallery is not configured", "error", c.configErr)
		viewData.IsError = true
		viewData.Status = services.ViewFailed
		viewData.Error = "The gallery is temporarily unavailable."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	state := c.viewAlbum(r.Context(), album)
	fillViewer(&viewData, album, state, page)

	c.renderer.Render(pageName, viewData, w)
}

/*
buildAlbumCards waits a short while for live counts. When they are not back
in time the cards show the catalog estimates and the refresh keeps running
into the count cache.
*/
func (c GalleryPageController) buildAlbumCards(ctx context.Context) []internalmodels.AlbumCard {
	controller := services.NewGalleryController(services.GalleryControllerConfig{
		AlbumImageService: c.albumImageService,
		AlbumService:      c.albumService,
		CountCache:        c.countCache,
	})

	if c.configErr == nil {
		loaded := make(chan struct{})

		go func() {
			controller.LoadGrid(context.WithoutCancel(ctx))
			close(loaded)
		}()

		select {
		case <-loaded:
		case <-time.After(c.gridWait):
			slog.Info("album counts not ready, showing estimates")
		case <-ctx.Done():
		}
	}

	result := []internalmodels.AlbumCard{}

	for _, album := range c.albumService.GetAlbumList() {
		result = append(result, internalmodels.NewAlbumCard(album, controller.DisplayCount(album)))
	}

	return result
}

/*
viewAlbum selects the album in a viewer session and waits for it to settle.
If the fetch is still running when the wait ends, the page renders the
loading state and asks the browser to come back; the fetch finishes into
the album image cache either way.
*/
func (c GalleryPageController) viewAlbum(ctx context.Context, album models.Album) services.ViewState {
	controller := services.NewGalleryController(services.GalleryControllerConfig{
		AlbumImageService: c.albumImageService,
		AlbumService:      c.albumService,
		CountCache:        c.countCache,
	})

	updates := controller.Subscribe()

	if err := controller.Select(&album); err != nil {
		return services.ViewState{Album: &album, Status: services.ViewFailed, Error: err.Error()}
	}

	timeout := time.NewTimer(c.viewerWait)
	defer timeout.Stop()

	for {
		select {
		case state := <-updates:
			if state.Status == services.ViewReady || state.Status == services.ViewFailed {
				return state
			}

		case <-timeout.C:
			return controller.Snapshot()

		case <-ctx.Done():
			return controller.Snapshot()
		}
	}
}

func fillViewer(viewData *viewmodels.AlbumViewer, album models.Album, state services.ViewState, page int) {
	viewData.Status = state.Status

	switch state.Status {
	case services.ViewReady:
		viewData.Album.ImageCount = len(state.Images)
		viewData.Paginate(internalmodels.NewCarouselItems(album, state.Images), page, viewmodels.DefaultItemsPerPage)

	case services.ViewFailed:
		viewData.IsError = true
		viewData.Error = state.Error
		viewData.Paginate(nil, 1, viewmodels.DefaultItemsPerPage)

	default:
		viewData.IsLoading = true
		viewData.Paginate(nil, 1, viewmodels.DefaultItemsPerPage)
	}
}
