package viewmodels

import (
	internalmodels "github.com/limbachsamaj/communitysite/cmd/website/internal/models"
	"github.com/limbachsamaj/communitysite/pkg/services"
)

const (
	DefaultItemsPerPage = 12
)

type AlbumViewer struct {
	BaseViewModel

	Album      internalmodels.AlbumCard
	Status     services.ViewStatus
	IsLoading  bool
	Error      string
	Items      []internalmodels.CarouselItem
	TotalItems int
	Page       int
	TotalPages int
	PrevPage   int
	NextPage   int
}

/*
Paginate fills the carousel page. Pages start at 1; out of range pages are
clamped so a stale link still lands somewhere useful.
*/
func (v *AlbumViewer) Paginate(items []internalmodels.CarouselItem, page, perPage int) {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}

	v.TotalItems = len(items)
	v.TotalPages = (len(items) + perPage - 1) / perPage

	if v.TotalPages == 0 {
		v.Page, v.PrevPage, v.NextPage = 1, 0, 0
		v.Items = []internalmodels.CarouselItem{}
		return
	}

	page = min(max(page, 1), v.TotalPages)
	start := (page - 1) * perPage
	end := min(start+perPage, len(items))

	v.Page = page
	v.Items = items[start:end]
	v.PrevPage = 0
	v.NextPage = 0

	if page > 1 {
		v.PrevPage = page - 1
	}

	if page < v.TotalPages {
		v.NextPage = page + 1
	}
}
