package service

import (
	"context"
	"time"

	"github.com/ecoverse/ecopress/internal/domain"
)

// Store interfaces consumed by the pipeline services. The concrete
// implementations live in internal/repository; tests substitute fakes.

// SettingStore reads the operational key/value settings table.
type SettingStore interface {
	GetAll(ctx context.Context) ([]domain.Setting, error)
}

// SourceItemStore is the queue of raw news items.
type SourceItemStore interface {
	ListUnprocessed(ctx context.Context, minScore float64, limit int) ([]domain.SourceItem, error)
	MarkProcessed(ctx context.Context, itemID, articleID string) (bool, error)
}

// ArticleStore persists and queries published articles.
type ArticleStore interface {
	Create(ctx context.Context, article *domain.Article) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	RecentPublishedTitles(ctx context.Context, limit int) ([]string, error)
	CountPublishedSince(ctx context.Context, since time.Time) (int64, error)
}

// FallbackImageStore is the curated category-tagged image pool.
type FallbackImageStore interface {
	LeastUsedByCategory(ctx context.Context, category string) (*domain.FallbackImage, error)
	IncrementUsage(ctx context.Context, id string) error
}
