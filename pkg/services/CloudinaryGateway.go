package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/limbachsamaj/communitysite/pkg/models"
)

const (
	DefaultCloudinaryBaseURL = "https://api.cloudinary.com/v1_1"
	maxErrorBodyBytes        = 2048
)

type CloudinaryGatewayConfig struct {
	AssetPrefix string
	APIKey      string
	APISecret   string
	BaseURL     string
	CloudName   string
	HTTPClient  *http.Client
	PageSize    int
}

type CloudinaryGateway struct {
	assetPrefix string
	apiKey      string
	apiSecret   string
	baseURL     string
	cloudName   string
	httpClient  *http.Client
	pageSize    int
	logger      *slog.Logger
}

type cloudinarySearchResponse struct {
	TotalCount *int            `json:"total_count"`
	Resources  json.RawMessage `json:"resources"`
}

type cloudinaryResource struct {
	PublicID     string `json:"public_id"`
	SecureURL    string `json:"secure_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Bytes        int64  `json:"bytes"`
	Format       string `json:"format"`
	CreatedAt    string `json:"created_at"`
	ResourceType string `json:"resource_type"`
}

type cloudinaryFoldersResponse struct {
	Folders []models.Folder `json:"folders"`
}

type cloudinaryPingResponse struct {
	Status string `json:"status"`
}

func NewCloudinaryGateway(config CloudinaryGatewayConfig) (CloudinaryGateway, error) {
	missing := []string{}

	settings := []struct {
		name  string
		value *string
	}{
		{"CLOUDINARY_ASSET_PREFIX", &config.AssetPrefix},
		{"CLOUDINARY_CLOUD_NAME", &config.CloudName},
		{"CLOUDINARY_API_KEY", &config.APIKey},
		{"CLOUDINARY_API_SECRET", &config.APISecret},
	}

	for _, setting := range settings {
		*setting.value = cleanSetting(*setting.value)

		if *setting.value == "" {
			missing = append(missing, setting.name)
		}
	}

	if len(missing) > 0 {
		return CloudinaryGateway{}, &models.ConfigurationError{Component: "cloudinary", Missing: missing}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultCloudinaryBaseURL
	}

	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}

	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}

	return CloudinaryGateway{
		assetPrefix: strings.Trim(config.AssetPrefix, "/"),
		apiKey:      config.APIKey,
		apiSecret:   config.APISecret,
		baseURL:     strings.TrimSuffix(config.BaseURL, "/"),
		cloudName:   config.CloudName,
		httpClient:  config.HTTPClient,
		pageSize:    config.PageSize,
		logger:      slog.With("gateway", "cloudinary"),
	}, nil
}

func (g CloudinaryGateway) ListAssets(ctx context.Context, albumID string) ([]models.MediaAsset, error) {
	var (
		err       error
		response  cloudinarySearchResponse
		resources []cloudinaryResource
	)

	folder := albumFolder(g.assetPrefix, albumID)

	if response, err = g.search(ctx, folder, g.pageSize, true); err != nil {
		g.logger.Error("error listing album assets", "albumID", albumID, "folder", folder, "error", err)
		return nil, err
	}

	trimmed := bytes.TrimSpace(response.Resources)

	if len(trimmed) == 0 || trimmed[0] != '[' {
		err = &models.UpstreamError{
			Operation:  "list assets",
			StatusCode: http.StatusOK,
			Err:        fmt.Errorf("response for folder '%s' has no resource list", folder),
		}

		g.logger.Error("malformed search response", "albumID", albumID, "folder", folder, "error", err)
		return nil, err
	}

	if err = json.Unmarshal(trimmed, &resources); err != nil {
		err = &models.UpstreamError{
			Operation:  "list assets",
			StatusCode: http.StatusOK,
			Err:        fmt.Errorf("error decoding resources for folder '%s': %w", folder, err),
		}

		g.logger.Error("malformed search response", "albumID", albumID, "folder", folder, "error", err)
		return nil, err
	}

	result := make([]models.MediaAsset, 0, len(resources))

	for _, resource := range resources {
		result = append(result, g.toMediaAsset(resource))
	}

	g.logger.Debug("fetched album assets", "albumID", albumID, "numAssets", len(result))
	return result, nil
}

func (g CloudinaryGateway) CountAssets(ctx context.Context, albumID string) int {
	var (
		err      error
		response cloudinarySearchResponse
	)

	folder := albumFolder(g.assetPrefix, albumID)

	if response, err = g.search(ctx, folder, 0, false); err != nil {
		g.logger.Warn("error counting album assets, reporting 0", "albumID", albumID, "folder", folder, "error", err)
		return 0
	}

	if response.TotalCount == nil || *response.TotalCount < 0 {
		g.logger.Warn("search response has no usable total_count, reporting 0", "albumID", albumID, "folder", folder)
		return 0
	}

	return *response.TotalCount
}

func (g CloudinaryGateway) ListFolders(ctx context.Context) ([]models.Folder, error) {
	var (
		err      error
		response cloudinaryFoldersResponse
	)

	endpoint := fmt.Sprintf("%s/%s/folders/%s", g.baseURL, g.cloudName, g.assetPrefix)

	if err = g.getJSON(ctx, "list folders", endpoint, &response); err != nil {
		g.logger.Error("error listing folders", "prefix", g.assetPrefix, "error", err)
		return nil, err
	}

	if response.Folders == nil {
		return []models.Folder{}, nil
	}

	return response.Folders, nil
}

func (g CloudinaryGateway) Ping(ctx context.Context) error {
	var (
		err      error
		response cloudinaryPingResponse
	)

	endpoint := fmt.Sprintf("%s/%s/ping", g.baseURL, g.cloudName)

	if err = g.getJSON(ctx, "ping", endpoint, &response); err != nil {
		return err
	}

	if response.Status != "ok" {
		return &models.UpstreamError{Operation: "ping", StatusCode: http.StatusOK, Body: response.Status}
	}

	return nil
}

func (g CloudinaryGateway) search(ctx context.Context, folder string, maxResults int, sorted bool) (cloudinarySearchResponse, error) {
	var (
		err    error
		result cloudinarySearchResponse
	)

	params := url.Values{}
	params.Set("expression", "folder:"+folder)
	params.Set("max_results", strconv.Itoa(maxResults))

	if sorted {
		params.Set("sort_by", "created_at:desc")
	}

	endpoint := fmt.Sprintf("%s/%s/resources/search?%s", g.baseURL, g.cloudName, params.Encode())
	err = g.getJSON(ctx, "search", endpoint, &result)
	return result, err
}

func (g CloudinaryGateway) getJSON(ctx context.Context, operation, endpoint string, dest any) error {
	var (
		err      error
		request  *http.Request
		response *http.Response
		body     []byte
	)

	if request, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil); err != nil {
		return fmt.Errorf("error building %s request: %w", operation, err)
	}

	request.SetBasicAuth(g.apiKey, g.apiSecret)
	request.Header.Set("Content-Type", "application/json")

	if response, err = g.httpClient.Do(request); err != nil {
		return &models.UpstreamError{Operation: operation, Err: err}
	}

	defer response.Body.Close()

	if !httphelpers.IsSuccessRange(response.StatusCode) {
		body, _ = io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))

		return &models.UpstreamError{
			Operation:  operation,
			StatusCode: response.StatusCode,
			Body:       string(body),
		}
	}

	if err = json.NewDecoder(response.Body).Decode(dest); err != nil {
		return &models.UpstreamError{
			Operation:  operation,
			StatusCode: response.StatusCode,
			Err:        fmt.Errorf("error decoding response: %w", err),
		}
	}

	return nil
}

func (g CloudinaryGateway) toMediaAsset(r cloudinaryResource) models.MediaAsset {
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)

	if err != nil {
		g.logger.Debug("asset has an unreadable created_at, leaving it unset", "publicID", r.PublicID, "createdAt", r.CreatedAt, "error", err)
	}

	return models.MediaAsset{
		PublicID:     r.PublicID,
		URL:          r.SecureURL,
		Width:        max(r.Width, 0),
		Height:       max(r.Height, 0),
		ByteSize:     max(r.Bytes, 0),
		Format:       r.Format,
		CreatedAt:    createdAt,
		ResourceType: resourceTypeFromString(r.ResourceType),
	}
}
