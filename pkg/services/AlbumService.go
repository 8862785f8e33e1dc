package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/limbachsamaj/communitysite/pkg/models"
)

type AlbumServicer interface {
	GetAlbum(albumID string) (models.Album, error)
	GetAlbumList() []models.Album
	GetAlbumIDs() []string
	HasAlbum(albumID string) bool
}

type AlbumServiceConfig struct {
	CatalogJSON []byte
}

type AlbumService struct {
	albums []models.Album
	byID   map[string]int
}

/*
NewAlbumService parses the album catalog. The catalog is part of the build,
so a broken catalog is a programming error and is reported to the caller
instead of being skipped.
*/
func NewAlbumService(config AlbumServiceConfig) (AlbumService, error) {
	var (
		err    error
		albums []models.Album
	)

	if err = json.Unmarshal(config.CatalogJSON, &albums); err != nil {
		return AlbumService{}, fmt.Errorf("error parsing album catalog: %w", err)
	}

	return NewAlbumServiceFromList(albums)
}

func NewAlbumServiceFromList(albums []models.Album) (AlbumService, error) {
	result := AlbumService{
		albums: make([]models.Album, 0, len(albums)),
		byID:   make(map[string]int, len(albums)),
	}

	for _, album := range albums {
		album.ID = strings.TrimSpace(album.ID)

		if album.ID == "" {
			return AlbumService{}, fmt.Errorf("album catalog contains an album without an id (title '%s')", album.Title)
		}

		if _, ok := result.byID[album.ID]; ok {
			return AlbumService{}, fmt.Errorf("album catalog contains duplicate id '%s'", album.ID)
		}

		if album.ApproximateImageCount < 0 {
			album.ApproximateImageCount = 0
		}

		result.byID[album.ID] = len(result.albums)
		result.albums = append(result.albums, album)
	}

	return result, nil
}

func (s AlbumService) GetAlbum(albumID string) (models.Album, error) {
	index, ok := s.byID[albumID]

	if !ok {
		return models.Album{}, fmt.Errorf("error looking up album '%s': %w", albumID, models.ErrAlbumNotFound)
	}

	return s.albums[index], nil
}

// GetAlbumList returns the albums in catalog order.
func (s AlbumService) GetAlbumList() []models.Album {
	result := make([]models.Album, len(s.albums))
	copy(result, s.albums)
	return result
}

func (s AlbumService) GetAlbumIDs() []string {
	result := make([]string, 0, len(s.albums))

	for _, album := range s.albums {
		result = append(result, album.ID)
	}

	return result
}

func (s AlbumService) HasAlbum(albumID string) bool {
	_, ok := s.byID[albumID]
	return ok
}
