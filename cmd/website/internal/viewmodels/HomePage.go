package viewmodels

import (
	internalmodels "github.com/limbachsamaj/communitysite/cmd/website/internal/models"
)

type HomePage struct {
	BaseViewModel

	FeaturedAlbums []internalmodels.AlbumCard
}
