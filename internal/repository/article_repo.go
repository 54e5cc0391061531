package repository

import (
	"context"
	"time"

	"github.com/ecoverse/ecopress/internal/domain"
	"gorm.io/gorm"
)

// ArticleRepository handles article persistence. From the pipeline's
// perspective the table is append-only.
type ArticleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository.
func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Create inserts a new article record.
func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

// SlugExists checks whether a slug is already taken.
func (r *ArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Article{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecentPublishedTitles returns the titles of the most recently
// published articles, newest first. Used as internal-link context for
// the content generator.
func (r *ArticleRepository) RecentPublishedTitles(ctx context.Context, limit int) ([]string, error) {
	var titles []string
	if err := r.db.WithContext(ctx).
		Model(&domain.Article{}).
		Where("status = ?", domain.ArticleStatusPublished).
		Order("published_at DESC").
		Limit(limit).
		Pluck("title", &titles).Error; err != nil {
		return nil, err
	}
	return titles, nil
}

// CountPublishedSince counts AI-generated articles published at or
// after the given time. Backs the daily-target guard.
func (r *ArticleRepository) CountPublishedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Article{}).
		Where("status = ? AND ai_generated = ? AND published_at >= ?", domain.ArticleStatusPublished, true, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetBySlug retrieves a published article by its slug.
func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	var article domain.Article
	if err := r.db.WithContext(ctx).First(&article, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// ListPublished returns published articles with pagination, newest first.
func (r *ArticleRepository) ListPublished(ctx context.Context, limit, offset int) ([]domain.Article, error) {
	var articles []domain.Article
	if err := r.db.WithContext(ctx).
		Where("status = ?", domain.ArticleStatusPublished).
		Order("published_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}
