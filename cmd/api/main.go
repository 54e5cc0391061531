package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecoverse/ecopress/internal/api"
	"github.com/ecoverse/ecopress/internal/config"
	"github.com/ecoverse/ecopress/internal/logger"
	"github.com/ecoverse/ecopress/internal/repository"
	"github.com/ecoverse/ecopress/internal/scheduler"
	"github.com/ecoverse/ecopress/internal/service"
	"github.com/ecoverse/ecopress/internal/storage"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(logger.LoadFromEnv())
	defer logger.Sync()
	logger.SetDefaultLogger(appLogger)

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	settingRepo := repository.NewSettingRepository(db)
	sourceItemRepo := repository.NewSourceItemRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	fallbackImageRepo := repository.NewFallbackImageRepository(db)

	objectStorage, err := storage.NewS3Storage(&storage.S3Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}

	ctx := context.Background()
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
	}

	generator := service.NewContentGenerator(&service.GeneratorConfig{
		Model:   cfg.Generation.Model,
		APIKey:  cfg.Generation.APIKey,
		BaseURL: cfg.Generation.BaseURL,
		Timeout: cfg.Generation.Timeout,
	})

	imageGenerator := service.NewImageGenerator(&service.ImageGeneratorConfig{
		Enabled: cfg.Images.Enabled,
		Model:   cfg.Images.Model,
		APIKey:  cfg.Images.APIKey,
		BaseURL: cfg.Images.BaseURL,
		Size:    cfg.Images.Size,
		Timeout: cfg.Images.Timeout,
	})

	uploader := service.NewImageUploader(objectStorage, appLogger)
	imageResolver := service.NewImageResolver(imageGenerator, uploader, fallbackImageRepo, appLogger)

	slugAllocator := service.NewSlugAllocator(articleRepo)
	publisher := service.NewPublisher(slugAllocator, articleRepo, sourceItemRepo, appLogger)

	pipeline := service.NewAutoPublisher(
		service.NewSettingsResolver(settingRepo, appLogger),
		service.NewCandidateSelector(sourceItemRepo, appLogger),
		generator,
		imageResolver,
		publisher,
		articleRepo,
		appLogger,
		&service.AutoPublisherConfig{
			MaxPerRun:         cfg.Pipeline.MaxPerRun,
			ItemDelay:         cfg.Pipeline.ItemDelay,
			RecentTitlesLimit: cfg.Pipeline.RecentTitlesLimit,
		},
	)

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(pipeline, cfg.Scheduler.Interval, appLogger)
		sched.Start(ctx)
		defer sched.Stop()
	}

	router := api.SetupRouter(pipeline, articleRepo, appLogger, cfg.Server.Mode)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
