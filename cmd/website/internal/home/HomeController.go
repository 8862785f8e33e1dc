package home

import (
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	internalmodels "github.com/limbachsamaj/communitysite/cmd/website/internal/models"
	"github.com/limbachsamaj/communitysite/cmd/website/internal/viewmodels"
	"github.com/limbachsamaj/communitysite/pkg/services"
)

const (
	DefaultFeaturedAlbums = 3
)

type HomeHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	AlbumService   services.AlbumServicer
	CountCache     services.CountCacher
	FeaturedAlbums int
	Renderer       rendering.TemplateRenderer
	SiteName       string
}

type HomeController struct {
	albumService   services.AlbumServicer
	countCache     services.CountCacher
	featuredAlbums int
	renderer       rendering.TemplateRenderer
	siteName       string
}

func NewHomeController(config HomeControllerConfig) HomeController {
	if config.FeaturedAlbums <= 0 {
		config.FeaturedAlbums = DefaultFeaturedAlbums
	}

	return HomeController{
		albumService:   config.AlbumService,
		countCache:     config.CountCache,
		featuredAlbums: config.FeaturedAlbums,
		renderer:       config.Renderer,
		siteName:       config.SiteName,
	}
}

/*
GET /{$}
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/home"

	viewData := viewmodels.HomePage{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx: httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{
				{Type: "module", Src: "/static/js/pages/contact.js"},
			},
			SiteName: c.siteName,
			Title:    "Welcome",
		},
		FeaturedAlbums: c.featured(),
	}

	c.renderer.Render(pageName, viewData, w)
}

/*
featured never waits on the media store. It uses whatever counts the cache
already holds and falls back to the catalog estimates.
*/
func (c HomeController) featured() []internalmodels.AlbumCard {
	counts := c.countCache.Peek()

	albums := c.albumService.GetAlbumList()
	result := make([]internalmodels.AlbumCard, 0, min(len(albums), c.featuredAlbums))

	for _, album := range albums {
		if len(result) == c.featuredAlbums {
			break
		}

		result = append(result, internalmodels.NewAlbumCard(album, services.DisplayCount(counts, album)))
	}

	return result
}
