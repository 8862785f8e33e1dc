package viewmodels

import (
	internalmodels "github.com/limbachsamaj/communitysite/cmd/website/internal/models"
)

type GalleryPage struct {
	BaseViewModel

	Albums []internalmodels.AlbumCard
}
