package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/playgrid/youtube-catalog-go/internal/catalog"
	"github.com/playgrid/youtube-catalog-go/internal/config"
	"github.com/playgrid/youtube-catalog-go/internal/handler"
	"github.com/playgrid/youtube-catalog-go/internal/metrics"
	"github.com/playgrid/youtube-catalog-go/internal/middleware"
	"github.com/playgrid/youtube-catalog-go/internal/service"
	"github.com/playgrid/youtube-catalog-go/internal/youtube"
	"github.com/playgrid/youtube-catalog-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Log

	m := metrics.New()
	store := catalog.NewStore(cfg.Catalog.SnapshotPath)

	refresher, err := buildRefresher(cfg, store, m, log)
	if err != nil {
		log.Fatal("failed to wire catalog pipeline", zap.Error(err))
	}

	if err := refresher.LoadInitial(); err != nil {
		// A corrupt artifact should not keep the API down; the next
		// refresh rewrites it.
		log.Warn("could not load persisted catalog", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.YouTube.APIKey != "" {
		go refresher.Run(ctx, cfg.Catalog.RefreshInterval)
		log.Info("periodic catalog refresh enabled",
			zap.Duration("interval", cfg.Catalog.RefreshInterval),
			zap.Int("playlists", len(cfg.Catalog.PlaylistIDs)),
		)
	} else {
		log.Warn("no YouTube API key configured, serving persisted catalog only")
	}

	router := setupRouter(cfg, refresher, m, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("server error", zap.Error(err))
	case sig := <-shutdown:
		log.Info("shutdown signal received", zap.Stringer("signal", sig))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				log.Error("failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		log.Info("server stopped gracefully")
	}
}

// buildRefresher wires fetcher, builder and store into the refresher. With
// no API key configured the refresher still serves the persisted snapshot;
// manual refreshes then fail with a clear error.
func buildRefresher(cfg *config.Config, store *catalog.Store, m *metrics.Metrics, log *zap.Logger) (*service.Refresher, error) {
	if cfg.YouTube.APIKey == "" {
		return service.NewRefresher(unconfiguredBuilder{}, store, m, log), nil
	}

	client, err := youtube.NewClient(cfg.YouTube, log)
	if err != nil {
		return nil, err
	}

	builder := catalog.NewBuilder(client, cfg.Catalog.PlaylistIDs, cfg.Catalog.BuildTimeout, log)
	refresher := service.NewRefresher(builder, store, m, log)
	refresher.SetQuotaReporter(client)
	return refresher, nil
}

type unconfiguredBuilder struct{}

func (unconfiguredBuilder) Build(context.Context) (*catalog.Snapshot, error) {
	return nil, fmt.Errorf("no YouTube API key configured")
}

func setupRouter(cfg *config.Config, refresher *service.Refresher, m *metrics.Metrics, log *zap.Logger) *gin.Engine {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(m.GinMiddleware())
	router.Use(requestLogger(log))

	catalogHandler := handler.NewCatalogHandler(refresher, log)
	healthHandler := handler.NewHealthHandler(refresher)
	auth := middleware.NewAPIKeyAuth(cfg.Server.AdminAPIKeys, log)

	api := router.Group("/api/v1")
	{
		api.GET("/videos", catalogHandler.ListVideos)
		api.GET("/playlists", catalogHandler.ListPlaylists)
		api.GET("/catalog", catalogHandler.GetCatalog)
		api.GET("/catalog/status", catalogHandler.Status)
		api.POST("/catalog/refresh", auth.Middleware(), catalogHandler.Refresh)
	}

	router.GET("/health/live", healthHandler.LivenessProbe)
	router.GET("/health/ready", healthHandler.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	return router
}

// requestLogger logs completed requests with their correlation id.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		log.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
			zap.String("remote_addr", c.ClientIP()),
		)
	}
}
