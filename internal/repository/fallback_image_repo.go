package repository

import (
	"context"

	"github.com/ecoverse/ecopress/internal/domain"
	"gorm.io/gorm"
)

// FallbackImageRepository handles the curated fallback image pool.
type FallbackImageRepository struct {
	db *gorm.DB
}

// NewFallbackImageRepository creates a new FallbackImageRepository.
func NewFallbackImageRepository(db *gorm.DB) *FallbackImageRepository {
	return &FallbackImageRepository{db: db}
}

// LeastUsedByCategory returns the least-used image in a category.
// Returns gorm.ErrRecordNotFound when the category has no rows.
func (r *FallbackImageRepository) LeastUsedByCategory(ctx context.Context, category string) (*domain.FallbackImage, error) {
	var img domain.FallbackImage
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("usage_count ASC").
		First(&img).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// IncrementUsage bumps the usage counter of an image.
func (r *FallbackImageRepository) IncrementUsage(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&domain.FallbackImage{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1)).Error
}
