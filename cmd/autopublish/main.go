package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecoverse/ecopress/internal/config"
	"github.com/ecoverse/ecopress/internal/logger"
	"github.com/ecoverse/ecopress/internal/repository"
	"github.com/ecoverse/ecopress/internal/service"
	"github.com/ecoverse/ecopress/internal/storage"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "ecopress-autopublish",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	count := flag.Int("count", 0, "Number of articles to publish (0 uses the stored setting)")
	testMode := flag.Bool("test", false, "Dry run: generate but do not persist anything")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	appLogger.WithFields(logger.Fields{
		"count": *count,
		"test":  *testMode,
	}).Info("Starting publishing batch")

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	settingRepo := repository.NewSettingRepository(db)
	sourceItemRepo := repository.NewSourceItemRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	fallbackImageRepo := repository.NewFallbackImageRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	result, err := pipeline.Run(ctx, *count, *testMode)
	if err != nil {
		appLogger.WithError(err).Fatal("Publishing batch aborted")
	}

	appLogger.WithFields(logger.Fields{
		"published": result.Published(),
		"failed":    len(result.Errors),
		"test":      result.DryRun,
	}).Info("Publishing batch completed")

	for _, e := range result.Errors {
		appLogger.WithField("error", e).Warn("Item failed during batch")
	}
}
