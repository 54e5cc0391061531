package service

import (
	"context"
	"errors"
	"math/rand"

	"github.com/ecoverse/ecopress/internal/domain"
	"github.com/ecoverse/ecopress/internal/logger"
	"gorm.io/gorm"
)

// featuredImageGenerator is the slice of ImageGenerator the resolver uses.
type featuredImageGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, keyword, title string) ([]byte, string, error)
}

// payloadUploader is the slice of ImageUploader the resolver uses.
type payloadUploader interface {
	Upload(ctx context.Context, data []byte, contentType, slugHint string) string
}

// defaultImageURLs is the terminal fallback when the pool is empty or
// unreachable. Picked uniformly at random.
var defaultImageURLs = []string{
	"https://images.unsplash.com/photo-1441974231531-c6227db76b6e?w=1600",
	"https://images.unsplash.com/photo-1470071459604-3b5ec3a7fe05?w=1600",
	"https://images.unsplash.com/photo-1501854140801-50d01698950b?w=1600",
	"https://images.unsplash.com/photo-1466611653911-95081537e5b7?w=1600",
	"https://images.unsplash.com/photo-1473448912268-2022ce9509d8?w=1600",
}

// ImageResolver implements the featured-image chain: AI generation,
// then the category-matched fallback pool, then the static default
// list. With fallback disabled a failed AI attempt yields no image,
// which is a valid outcome for automated publishing.
type ImageResolver struct {
	generator featuredImageGenerator
	uploader  payloadUploader
	pool      FallbackImageStore
	logger    *logger.Logger
}

// NewImageResolver creates a new ImageResolver.
func NewImageResolver(generator featuredImageGenerator, uploader payloadUploader, pool FallbackImageStore, log *logger.Logger) *ImageResolver {
	return &ImageResolver{
		generator: generator,
		uploader:  uploader,
		pool:      pool,
		logger:    log,
	}
}

// Resolve runs the chain for one article.
func (r *ImageResolver) Resolve(ctx context.Context, keyword, title, slug string, fallbackEnabled bool) domain.ImageResolution {
	if r.generator.Enabled() {
		if url := r.tryGenerate(ctx, keyword, title, slug); url != "" {
			return domain.ImageResolution{URL: url, AIGenerated: true}
		}
	}

	if !fallbackEnabled {
		return domain.ImageResolution{}
	}

	if url := r.tryPool(ctx, keyword); url != "" {
		return domain.ImageResolution{URL: url}
	}

	return domain.ImageResolution{URL: defaultImageURLs[rand.Intn(len(defaultImageURLs))]}
}

// tryGenerate is step 1: AI generation plus upload. Any failure is
// logged and reported as "" so the chain continues.
func (r *ImageResolver) tryGenerate(ctx context.Context, keyword, title, slug string) string {
	data, contentType, err := r.generator.Generate(ctx, keyword, title)
	if err != nil {
		r.log(ctx).WithError(err).Warn("AI image generation failed, falling back")
		return ""
	}
	return r.uploader.Upload(ctx, data, contentType, slug)
}

// tryPool is step 2: least-used pool image for the keyword's category,
// widening to "general" when the category is empty. The usage counter
// increment is best-effort and never fails the resolution.
func (r *ImageResolver) tryPool(ctx context.Context, keyword string) string {
	category := CategoryForKeyword(keyword)

	img, err := r.pool.LeastUsedByCategory(ctx, category)
	if err != nil && category != defaultCategory && errors.Is(err, gorm.ErrRecordNotFound) {
		img, err = r.pool.LeastUsedByCategory(ctx, defaultCategory)
	}
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log(ctx).WithError(err).Warn("Fallback image pool unreachable")
		}
		return ""
	}

	if incErr := r.pool.IncrementUsage(ctx, img.ID); incErr != nil {
		r.log(ctx).WithFields(logger.Fields{
			"image_id": img.ID,
		}).WithError(incErr).Warn("Failed to bump fallback image usage counter")
	}

	return img.URL
}

func (r *ImageResolver) log(ctx context.Context) *logger.Logger {
	if l := logger.InContext(ctx); l != nil {
		return l
	}
	return r.logger
}
