package services

import (
	"context"
	"path"
	"strings"

	"github.com/limbachsamaj/communitysite/pkg/models"
)

const (
	DefaultPageSize = 100
)

/*
MediaGatewayer is the boundary to the remote media store. Implementations
keep no state between calls.
*/
type MediaGatewayer interface {
	// ListAssets returns the newest assets in the album folder. An empty folder is not an error.
	ListAssets(ctx context.Context, albumID string) ([]models.MediaAsset, error)

	// CountAssets is best-effort: any failure is logged and reported as 0.
	CountAssets(ctx context.Context, albumID string) int

	ListFolders(ctx context.Context) ([]models.Folder, error)
	Ping(ctx context.Context) error
}

func albumFolder(prefix, albumID string) string {
	return path.Join(prefix, albumID)
}

/*
cleanSetting removes one pair of surrounding quotes. Hosting dashboards
tend to keep the quotes when values are pasted from a .env file.
*/
func cleanSetting(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "\"")
	value = strings.TrimPrefix(value, "'")
	value = strings.TrimSuffix(value, "\"")
	value = strings.TrimSuffix(value, "'")
	return value
}

func resourceTypeFromString(value string) models.ResourceType {
	if strings.EqualFold(value, string(models.ResourceTypeVideo)) {
		return models.ResourceTypeVideo
	}

	return models.ResourceTypeImage
}
