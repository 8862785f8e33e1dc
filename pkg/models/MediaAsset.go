package models

import (
	"time"
)

type ResourceType string

const (
	ResourceTypeImage ResourceType = "image"
	ResourceTypeVideo ResourceType = "video"
)

/*
MediaAsset is a read-only snapshot of one item in the remote media store
at the time it was fetched.
*/
type MediaAsset struct {
	PublicID     string       `json:"public_id"`
	URL          string       `json:"secure_url"`
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	ByteSize     int64        `json:"bytes"`
	Format       string       `json:"format"`
	CreatedAt    time.Time    `json:"created_at"`
	ResourceType ResourceType `json:"resource_type"`
}

func (a MediaAsset) IsVideo() bool {
	return a.ResourceType == ResourceTypeVideo
}
