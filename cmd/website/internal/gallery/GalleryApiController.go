package gallery

import (
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/limbachsamaj/communitysite/pkg/models"
	"github.com/limbachsamaj/communitysite/pkg/services"
)

const (
	configurationErrorMessage = "Server configuration error"
	genericErrorMessage       = "Something went wrong!"
)

type GalleryApiHandlers interface {
	AlbumImages(w http.ResponseWriter, r *http.Request)
	Counts(w http.ResponseWriter, r *http.Request)
	Folders(w http.ResponseWriter, r *http.Request)
}

type GalleryApiControllerConfig struct {
	AlbumImageService services.AlbumImageServicer
	AlbumService      services.AlbumServicer
	ConfigErr         error
	CountCache        services.CountCacher
	Gateway           services.MediaGatewayer
}

type GalleryApiController struct {
	albumImageService services.AlbumImageServicer
	albumService      services.AlbumServicer
	configErr         error
	countCache        services.CountCacher
	gateway           services.MediaGatewayer
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
	Ok      bool     `json:"ok"`
}

type countsResponse struct {
	Counts models.AlbumCountMap `json:"counts"`
	Done   bool                 `json:"done,omitempty"`
	Cached bool                 `json:"cached,omitempty"`
}

type imagesResponse struct {
	Images []models.MediaAsset `json:"images"`
	Done   bool                `json:"done"`
}

type foldersResponse struct {
	Albums map[string]int `json:"albums"`
	Done   bool           `json:"done"`
}

func NewGalleryApiController(config GalleryApiControllerConfig) GalleryApiController {
	return GalleryApiController{
		albumImageService: config.AlbumImageService,
		albumService:      config.AlbumService,
		configErr:         config.ConfigErr,
		countCache:        config.CountCache,
		gateway:           config.Gateway,
	}
}

/*
GET /api/gallery/counts
*/
func (c GalleryApiController) Counts(w http.ResponseWriter, r *http.Request) {
	if c.configErr != nil {
		slog.Error("gallery is not configured", "error", c.configErr)
		httphelpers.WriteJson(w, http.StatusInternalServerError, errorResponse{Error: configurationErrorMessage})
		return
	}

	counts, cached := c.countCache.GetCounts(r.Context())

	response := countsResponse{
		Counts: counts,
		Done:   !cached,
		Cached: cached,
	}

	httphelpers.WriteJson(w, http.StatusOK, response)
}

/*
GET /api/gallery/{album}
*/
func (c GalleryApiController) AlbumImages(w http.ResponseWriter, r *http.Request) {
	albumID := r.PathValue("album")

	if c.configErr != nil {
		slog.Error("gallery is not configured", "error", c.configErr)
		httphelpers.WriteJson(w, http.StatusInternalServerError, errorResponse{Error: configurationErrorMessage})
		return
	}

	if !c.albumService.HasAlbum(albumID) {
		slog.Warn("request for unknown album", "albumID", albumID)
		httphelpers.WriteJson(w, http.StatusBadRequest, errorResponse{Error: "Unknown album"})
		return
	}

	entry, cached := c.albumImageService.GetImages(r.Context(), albumID)

	if entry.Failed() {
		httphelpers.WriteJson(w, http.StatusBadRequest, errorResponse{Error: entry.Error})
		return
	}

	slog.Debug("serving album images", "albumID", albumID, "numImages", len(entry.Images), "cached", cached)
	httphelpers.WriteJson(w, http.StatusOK, imagesResponse{Images: entry.Images, Done: true})
}

/*
GET /api/gallery
*/
func (c GalleryApiController) Folders(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		folders []models.Folder
	)

	if c.configErr != nil {
		slog.Error("gallery is not configured", "error", c.configErr)
		httphelpers.WriteJson(w, http.StatusInternalServerError, errorResponse{Error: configurationErrorMessage})
		return
	}

	if folders, err = c.gateway.ListFolders(r.Context()); err != nil {
		httphelpers.WriteJson(w, http.StatusBadRequest, errorResponse{Error: genericErrorMessage})
		return
	}

	albums := make(map[string]int, len(folders))

	for _, folder := range folders {
		albums[folder.Name] = c.gateway.CountAssets(r.Context(), folder.Name)
	}

	slog.Info("listed remote albums", "numAlbums", len(albums))
	httphelpers.WriteJson(w, http.StatusOK, foldersResponse{Albums: albums, Done: true})
}
