package models

import (
	"fmt"
	"regexp"

	"github.com/limbachsamaj/communitysite/pkg/models"
)

type AlbumCard struct {
	ID            string
	Title         string
	CoverImageURL string
	ImageCount    int
}

type CarouselItem struct {
	Type        string
	OriginalURL string
	Thumbnail   string
	Alt         string
	Description string
	VideoSrc    string
	VideoPoster string
	VideoType   string
}

func NewAlbumCard(album models.Album, imageCount int) AlbumCard {
	return AlbumCard{
		ID:            album.ID,
		Title:         album.Title,
		CoverImageURL: album.CoverImage,
		ImageCount:    imageCount,
	}
}

func (c AlbumCard) CountLabel() string {
	if c.ImageCount == 1 {
		return "1 photo"
	}

	return fmt.Sprintf("%d photos", c.ImageCount)
}

func NewCarouselItems(album models.Album, assets []models.MediaAsset) []CarouselItem {
	result := make([]CarouselItem, 0, len(assets))

	for _, asset := range assets {
		item := CarouselItem{
			Type:        "image",
			OriginalURL: asset.URL,
			Thumbnail:   asset.URL,
			Alt:         album.Title,
			Description: asset.PublicID,
		}

		if asset.IsVideo() {
			item.Type = "video"
			item.VideoSrc = asset.URL
			item.VideoPoster = videoPosterURL(asset.URL)
			item.VideoType = "video/" + asset.Format
		}

		result = append(result, item)
	}

	return result
}

var trailingExtension = regexp.MustCompile(`\.[^/.]+$`)

/*
videoPosterURL swaps the trailing extension for .jpg, which the media store
serves as a still frame. Anything after the last dot counts as the
extension, query string included. A URL with no extension is returned as is.
*/
func videoPosterURL(videoURL string) string {
	return trailingExtension.ReplaceAllLiteralString(videoURL, ".jpg")
}
