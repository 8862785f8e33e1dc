package models

import (
	"fmt"
)

var (
	ErrAlbumNotFound = fmt.Errorf("album not found")
)

/*
Album is a catalog entry. Albums are loaded once from the embedded catalog
and never change while the process runs.
*/
type Album struct {
	ID                    string `json:"id"`
	Title                 string `json:"title"`
	CoverImage            string `json:"coverImage"`
	ApproximateImageCount int    `json:"imagesLength"`
}

/*
AlbumCountMap maps an album ID to the number of assets the media store
reports for it. A missing key means the count has not been loaded yet.
*/
type AlbumCountMap map[string]int

func (m AlbumCountMap) Clone() AlbumCountMap {
	result := make(AlbumCountMap, len(m))

	for k, v := range m {
		result[k] = v
	}

	return result
}

// Folder is a sub-folder found under the configured asset prefix.
type Folder struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
