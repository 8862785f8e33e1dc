package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/geturloptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/adamgokit/slices"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/limbachsamaj/communitysite/pkg/models"
)

var (
	s3ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif", ".heic"}
	s3VideoExtensions = []string{".mp4", ".mov", ".m4v", ".webm"}
)

type S3GatewayConfig struct {
	AssetPrefix   string
	Bucket        string
	PageSize      int
	S3Client      s3.S3Client
	URLExpiration time.Duration
}

/*
S3Gateway serves the gallery out of an S3 compatible bucket. Each album is
a folder named after the album ID under the asset prefix.
*/
type S3Gateway struct {
	assetPrefix   string
	bucket        string
	pageSize      int
	s3Client      s3.S3Client
	urlExpiration time.Duration
	logger        *slog.Logger
}

func NewS3Gateway(config S3GatewayConfig) (S3Gateway, error) {
	missing := []string{}

	config.AssetPrefix = cleanSetting(config.AssetPrefix)
	config.Bucket = cleanSetting(config.Bucket)

	if config.AssetPrefix == "" {
		missing = append(missing, "ASSET_PREFIX")
	}

	if config.Bucket == "" {
		missing = append(missing, "AWS_BUCKET")
	}

	if len(missing) > 0 {
		return S3Gateway{}, &models.ConfigurationError{Component: "s3", Missing: missing}
	}

	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}

	if config.URLExpiration <= 0 {
		config.URLExpiration = time.Hour
	}

	return S3Gateway{
		assetPrefix:   strings.Trim(config.AssetPrefix, "/"),
		bucket:        config.Bucket,
		pageSize:      config.PageSize,
		s3Client:      config.S3Client,
		urlExpiration: config.URLExpiration,
		logger:        slog.With("gateway", "s3"),
	}, nil
}

func (g S3Gateway) ListAssets(ctx context.Context, albumID string) ([]models.MediaAsset, error) {
	var (
		err      error
		response s3.ListResponse
	)

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	folder := albumFolder(g.assetPrefix, albumID) + "/"

	response, err = g.s3Client.List(
		g.bucket,
		folder,
		listoptions.WithContext(ctx),
		listoptions.WithGetUrls(),
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			return isMediaKey(aws.ToString(obj.Key))
		}),
		listoptions.WithGetUrlOptions(
			geturloptions.WithContext(ctx),
			geturloptions.WithExpiration(g.urlExpiration),
		),
	)

	if err != nil {
		err = &models.UpstreamError{Operation: "list assets", Err: err}
		g.logger.Error("error listing album objects", "albumID", albumID, "bucket", g.bucket, "folder", folder, "error", err)
		return nil, err
	}

	objects := response.Objects

	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	if len(objects) > g.pageSize {
		objects = objects[:g.pageSize]
	}

	result := make([]models.MediaAsset, 0, len(objects))

	for _, obj := range objects {
		ext := strings.ToLower(filepath.Ext(obj.Key))
		resourceType := models.ResourceTypeImage

		if slices.IsInSlice(ext, s3VideoExtensions) {
			resourceType = models.ResourceTypeVideo
		}

		result = append(result, models.MediaAsset{
			PublicID:     strings.TrimSuffix(obj.Key, filepath.Ext(obj.Key)),
			URL:          obj.Url,
			ByteSize:     max(obj.Size, 0),
			Format:       strings.TrimPrefix(ext, "."),
			CreatedAt:    obj.LastModified,
			ResourceType: resourceType,
		})
	}

	g.logger.Debug("fetched album objects", "albumID", albumID, "numAssets", len(result))
	return result, nil
}

func (g S3Gateway) CountAssets(ctx context.Context, albumID string) int {
	var (
		err      error
		response s3.ListResponse
	)

	if err = ctx.Err(); err != nil {
		g.logger.Warn("count cancelled, reporting 0", "albumID", albumID, "error", err)
		return 0
	}

	folder := albumFolder(g.assetPrefix, albumID) + "/"

	response, err = g.s3Client.List(
		g.bucket,
		folder,
		listoptions.WithContext(ctx),
		listoptions.WithGetAll(),
		listoptions.WithFilter(func(obj types.Object) bool {
			return isMediaKey(aws.ToString(obj.Key))
		}),
	)

	if err != nil {
		g.logger.Warn("error counting album objects, reporting 0", "albumID", albumID, "folder", folder, "error", err)
		return 0
	}

	return len(response.Objects)
}

func (g S3Gateway) ListFolders(ctx context.Context) ([]models.Folder, error) {
	var (
		err      error
		response s3.ListResponse
	)

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	prefix := g.assetPrefix + "/"

	if response, err = g.s3Client.List(g.bucket, prefix, listoptions.WithContext(ctx), listoptions.WithGetAll()); err != nil {
		err = &models.UpstreamError{Operation: "list folders", Err: err}
		g.logger.Error("error listing folders", "bucket", g.bucket, "prefix", prefix, "error", err)
		return nil, err
	}

	seen := map[string]bool{}
	result := []models.Folder{}

	for _, obj := range response.Objects {
		rest := strings.TrimPrefix(obj.Key, prefix)
		name, _, found := strings.Cut(rest, "/")

		if !found || name == "" || seen[name] {
			continue
		}

		seen[name] = true
		result = append(result, models.Folder{Name: name, Path: g.assetPrefix + "/" + name})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

func (g S3Gateway) Ping(ctx context.Context) error {
	var (
		err    error
		exists bool
	)

	// BucketExists takes no context, so a cancelled caller is only honoured up front.
	if err = ctx.Err(); err != nil {
		return err
	}

	if exists, err = g.s3Client.BucketExists(g.bucket); err != nil {
		return &models.UpstreamError{Operation: "ping", Err: err}
	}

	if !exists {
		return &models.UpstreamError{Operation: "ping", Err: fmt.Errorf("bucket '%s' does not exist", g.bucket)}
	}

	return nil
}

func isMediaKey(key string) bool {
	ext := strings.ToLower(filepath.Ext(key))
	return slices.IsInSlice(ext, s3ImageExtensions) || slices.IsInSlice(ext, s3VideoExtensions)
}
