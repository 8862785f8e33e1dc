package main

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/alitto/pond/v2"
	"github.com/jonboulle/clockwork"
	"github.com/limbachsamaj/communitysite/cmd/website/internal/cache"
	"github.com/limbachsamaj/communitysite/cmd/website/internal/configuration"
	"github.com/limbachsamaj/communitysite/cmd/website/internal/contact"
	"github.com/limbachsamaj/communitysite/cmd/website/internal/gallery"
	"github.com/limbachsamaj/communitysite/cmd/website/internal/home"
	"github.com/limbachsamaj/communitysite/pkg/services"
	"github.com/limbachsamaj/communitysite/pkg/validation"
)

var (
	Version string = "development"
	appName string = "communitysite"

	//go:embed app
	appFS embed.FS

	//go:embed gallery.json
	catalogJSON []byte

	config configuration.Config

	/* Services */
	albumImageService services.AlbumImageServicer
	albumService      services.AlbumServicer
	contactService    services.ContactServicer
	countCache        *services.CountCache
	countWarmer       cache.CountWarmer
	gateway           services.MediaGatewayer
	renderer          rendering.TemplateRenderer

	/* Controllers */
	contactController     contact.ContactHandlers
	galleryApiController  gallery.GalleryApiHandlers
	galleryPageController gallery.GalleryPageHandlers
	homeController        home.HomeHandlers
)

func main() {
	var (
		err        error
		galleryErr error
		mailErr    error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("mediaProvider", config.MediaProvider),
		slog.String("assetPrefix", config.AssetPrefix),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())
	clock := clockwork.NewRealClock()
	cacheTTL := time.Duration(config.CacheTTLSeconds) * time.Second

	/*
	 * Setup services
	 */
	catalog, err := services.NewAlbumService(services.AlbumServiceConfig{
		CatalogJSON: catalogJSON,
	})

	if err != nil {
		panic(err)
	}

	albumService = catalog

	if gateway, galleryErr = setupGateway(shutdownCtx); galleryErr != nil {
		slog.Error("gallery endpoints are disabled until the configuration is fixed", "error", galleryErr)
	}

	countPool := pond.NewPool(max(config.MaxCountWorkers, 1), pond.WithContext(shutdownCtx))

	countCache = services.NewCountCache(services.CountCacheConfig{
		AlbumService: albumService,
		Clock:        clock,
		Gateway:      gateway,
		Pool:         countPool,
		TTL:          cacheTTL,
	})

	albumImageService = services.NewAlbumImageService(services.AlbumImageServiceConfig{
		Cache: services.NewAlbumImageCache(services.AlbumImageCacheConfig{
			Clock: clock,
			TTL:   cacheTTL,
		}),
		Gateway: gateway,
	})

	mailer, mailErr := setupMailer()

	if mailErr != nil {
		slog.Error("contact form is disabled until the configuration is fixed", "error", mailErr)
	}

	contactService = services.NewContactService(services.ContactServiceConfig{
		Clock:     clock,
		Mailer:    mailer,
		SiteName:  config.SiteName,
		Validator: validation.New(),
	})

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	countWarmer = cache.NewCountWarmerService(cache.CountWarmerConfig{
		Clock:       clock,
		CountCache:  countCache,
		ShutdownCtx: shutdownCtx,
	})

	/*
	 * Setup controllers
	 */
	contactController = contact.NewContactController(contact.ContactControllerConfig{
		ConfigErr:      mailErr,
		ContactService: contactService,
	})

	galleryApiController = gallery.NewGalleryApiController(gallery.GalleryApiControllerConfig{
		AlbumImageService: albumImageService,
		AlbumService:      albumService,
		ConfigErr:         galleryErr,
		CountCache:        countCache,
		Gateway:           gateway,
	})

	galleryPageController = gallery.NewGalleryPageController(gallery.GalleryPageControllerConfig{
		AlbumImageService: albumImageService,
		AlbumService:      albumService,
		ConfigErr:         galleryErr,
		CountCache:        countCache,
		Renderer:          renderer,
		SiteName:          config.SiteName,
	})

	homeController = home.NewHomeController(home.HomeControllerConfig{
		AlbumService: albumService,
		CountCache:   countCache,
		Renderer:     renderer,
		SiteName:     config.SiteName,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, setupRoutes())
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the count warmer job
	 */
	if galleryErr == nil && config.CountWarmMinutes > 0 {
		countWarmer.Start(time.Duration(config.CountWarmMinutes) * time.Minute)
	}

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	countWarmer.Stop()
	_ = countPool.Stop().Wait()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func setupRoutes() []mux.Route {
	countsCacheControl := newCacheControlMiddleware("s-maxage=300, stale-while-revalidate=600")
	postOnly := newAllowMethodsMiddleware(http.MethodPost)

	return []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /{$}", HandlerFunc: homeController.HomePage},
		{Path: "GET /gallery", HandlerFunc: galleryPageController.GalleryPage},
		{Path: "GET /gallery/{album}", HandlerFunc: galleryPageController.AlbumPage},
		{Path: "GET /api/gallery", HandlerFunc: galleryApiController.Folders},
		{Path: "GET /api/gallery/counts", HandlerFunc: galleryApiController.Counts, Middlewares: []mux.MiddlewareFunc{countsCacheControl}},
		{Path: "GET /api/gallery/{album}", HandlerFunc: galleryApiController.AlbumImages},
		{Path: "/api/contact", HandlerFunc: contactController.SubmitAction, Middlewares: []mux.MiddlewareFunc{postOnly}},
	}
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

/*
setupGateway builds the media gateway for the configured provider. A
configuration problem is returned instead of stopping the process so the
rest of the site keeps working.
*/
func setupGateway(ctx context.Context) (services.MediaGatewayer, error) {
	var (
		err error
		gw  services.MediaGatewayer
	)

	if err = config.ValidateGallery(); err != nil {
		return nil, err
	}

	switch config.MediaProvider {
	case configuration.MediaProviderS3:
		awsConfig := &awsconfig.Config{
			Endpoint:        config.AwsEndpointUrl,
			Region:          config.AwsRegion,
			AccessKeyID:     config.AwsAccessKeyId,
			SecretAccessKey: config.AwsSecretAccessKey,
		}

		retrier.Retry(func() error {
			if err = awsConfig.Load(); err != nil {
				slog.Error("failed to load AWS config. trying again", "error", err)
				return err
			}

			return nil
		})

		if err != nil {
			return nil, err
		}

		var s3Client s3.S3Client

		if s3Client, err = s3.NewClient(awsConfig); err != nil {
			return nil, err
		}

		if gw, err = services.NewS3Gateway(services.S3GatewayConfig{
			AssetPrefix: config.AssetPrefix,
			Bucket:      config.AwsBucket,
			S3Client:    s3Client,
		}); err != nil {
			return nil, err
		}

	default:
		if gw, err = services.NewCloudinaryGateway(services.CloudinaryGatewayConfig{
			AssetPrefix: config.AssetPrefix,
			APIKey:      config.CloudinaryApiKey,
			APISecret:   config.CloudinaryApiSecret,
			BaseURL:     config.CloudinaryBaseURL,
			CloudName:   config.CloudinaryCloudName,
			HTTPClient:  &http.Client{Timeout: time.Duration(config.HttpTimeoutSeconds) * time.Second},
		}); err != nil {
			return nil, err
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err = gw.Ping(pingCtx); err != nil {
		slog.Warn("media store did not answer the startup ping", "provider", config.MediaProvider, "error", err)
	}

	return gw, nil
}

func setupMailer() (services.RelayMailer, error) {
	if err := config.ValidateMail(); err != nil {
		return nil, err
	}

	if config.UseSMTP() {
		mailer, err := services.NewSMTPMailer(services.SMTPMailerConfig{
			Host:     config.SmtpHost,
			Port:     config.SmtpPort,
			Username: config.SmtpUsername,
			Password: config.SmtpPassword,
			Timeout:  30 * time.Second,
		})

		if err != nil {
			return nil, err
		}

		return mailer, nil
	}

	mailer, err := services.NewResendMailer(services.ResendMailerConfig{
		ApiKey:  config.EmailApiKey,
		Address: config.ContactEmail,
	})

	if err != nil {
		return nil, errors.Join(errors.New("unable to set up the email API"), err)
	}

	return mailer, nil
}
