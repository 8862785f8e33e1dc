package models

import (
	"testing"

	"github.com/limbachsamaj/communitysite/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "0 photos", AlbumCard{ImageCount: 0}.CountLabel())
	assert.Equal(t, "1 photo", AlbumCard{ImageCount: 1}.CountLabel())
	assert.Equal(t, "14 photos", AlbumCard{ImageCount: 14}.CountLabel())
}

func TestNewCarouselItems(t *testing.T) {
	album := models.Album{ID: "diwali-2023", Title: "Diwali 2023"}

	items := NewCarouselItems(album, []models.MediaAsset{
		{PublicID: "gallery/diwali-2023/lamps", URL: "https://cdn.example.com/v1/lamps.jpg", Format: "jpg", ResourceType: models.ResourceTypeImage},
		{PublicID: "gallery/diwali-2023/dance", URL: "https://cdn.example.com/v1/dance.mp4", Format: "mp4", ResourceType: models.ResourceTypeVideo},
	})

	require.Len(t, items, 2)

	assert.Equal(t, "image", items[0].Type)
	assert.Equal(t, "https://cdn.example.com/v1/lamps.jpg", items[0].OriginalURL)
	assert.Equal(t, "Diwali 2023", items[0].Alt)
	assert.Empty(t, items[0].VideoSrc)

	assert.Equal(t, "video", items[1].Type)
	assert.Equal(t, "https://cdn.example.com/v1/dance.mp4", items[1].VideoSrc)
	assert.Equal(t, "https://cdn.example.com/v1/dance.jpg", items[1].VideoPoster)
	assert.Equal(t, "video/mp4", items[1].VideoType)
}

func TestNewCarouselItemsEmpty(t *testing.T) {
	items := NewCarouselItems(models.Album{}, nil)

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestVideoPosterURL(t *testing.T) {
	tests := map[string]string{
		"https://cdn.example.com/v1/dance.mp4":     "https://cdn.example.com/v1/dance.jpg",
		"https://cdn.example.com/v1/dance.MOV":     "https://cdn.example.com/v1/dance.jpg",
		"https://cdn.example.com/v1/clip":          "https://cdn.example.com/v1/clip",
		"https://cdn.example.com/v1.2/clip":        "https://cdn.example.com/v1.2/clip",
		"https://cdn.example.com/v1/dance.mp4?v=3": "https://cdn.example.com/v1/dance.jpg",
	}

	for videoURL, want := range tests {
		assert.Equal(t, want, videoPosterURL(videoURL), videoURL)
	}
}
