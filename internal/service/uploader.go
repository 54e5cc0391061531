package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/ecoverse/ecopress/internal/logger"
	"github.com/ecoverse/ecopress/internal/storage"
	_ "golang.org/x/image/webp"
)

// ImageUploader persists generated image payloads to object storage.
// Errors never escape this boundary: any failure yields an empty URL
// so the resolver can continue down its fallback chain.
type ImageUploader struct {
	storage storage.ObjectStorage
	logger  *logger.Logger
}

// NewImageUploader creates a new ImageUploader.
func NewImageUploader(objectStorage storage.ObjectStorage, log *logger.Logger) *ImageUploader {
	return &ImageUploader{storage: objectStorage, logger: log}
}

// Upload writes the payload under a collision-resistant key derived
// from the slug hint and a nanosecond timestamp, returning the public
// URL, or "" on any failure.
func (u *ImageUploader) Upload(ctx context.Context, data []byte, contentType, slugHint string) string {
	if len(data) == 0 {
		return ""
	}

	// Probe the payload; a payload that does not decode as an image is
	// not worth uploading.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		u.log(ctx).WithError(err).Warn("Generated payload is not a decodable image, skipping upload")
		return ""
	}

	key := fmt.Sprintf("articles/%s-%d.%s", slugHint, time.Now().UnixNano(), extensionFor(contentType))

	if err := u.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		u.log(ctx).WithFields(logger.Fields{
			"key":  key,
			"size": len(data),
		}).WithError(err).Warn("Failed to upload image to storage")
		return ""
	}

	url := u.storage.GetURL(key)
	u.log(ctx).WithFields(logger.Fields{
		"key":    key,
		"width":  cfg.Width,
		"height": cfg.Height,
	}).Debug("Uploaded featured image")

	return url
}

func (u *ImageUploader) log(ctx context.Context) *logger.Logger {
	if l := logger.InContext(ctx); l != nil {
		return l
	}
	return u.logger
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
