package service

import (
	"context"
	"io"
	"time"

	"github.com/ecoverse/ecopress/internal/domain"
	"github.com/ecoverse/ecopress/internal/logger"
)

// Function-backed fakes for the store interfaces. Unset functions mean
// the call is unexpected for that test and return zero values.

func newTestLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: "error", Output: io.Discard})
}

type fakeSettingStore struct {
	getAll func(ctx context.Context) ([]domain.Setting, error)
}

func (f *fakeSettingStore) GetAll(ctx context.Context) ([]domain.Setting, error) {
	if f.getAll == nil {
		return nil, nil
	}
	return f.getAll(ctx)
}

type fakeSourceItemStore struct {
	listUnprocessed func(ctx context.Context, minScore float64, limit int) ([]domain.SourceItem, error)
	markProcessed   func(ctx context.Context, itemID, articleID string) (bool, error)
}

func (f *fakeSourceItemStore) ListUnprocessed(ctx context.Context, minScore float64, limit int) ([]domain.SourceItem, error) {
	if f.listUnprocessed == nil {
		return nil, nil
	}
	return f.listUnprocessed(ctx, minScore, limit)
}

func (f *fakeSourceItemStore) MarkProcessed(ctx context.Context, itemID, articleID string) (bool, error) {
	if f.markProcessed == nil {
		return true, nil
	}
	return f.markProcessed(ctx, itemID, articleID)
}

type fakeArticleStore struct {
	create                func(ctx context.Context, article *domain.Article) error
	slugExists            func(ctx context.Context, slug string) (bool, error)
	recentPublishedTitles func(ctx context.Context, limit int) ([]string, error)
	countPublishedSince   func(ctx context.Context, since time.Time) (int64, error)
}

func (f *fakeArticleStore) Create(ctx context.Context, article *domain.Article) error {
	if f.create == nil {
		return nil
	}
	return f.create(ctx, article)
}

func (f *fakeArticleStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	if f.slugExists == nil {
		return false, nil
	}
	return f.slugExists(ctx, slug)
}

func (f *fakeArticleStore) RecentPublishedTitles(ctx context.Context, limit int) ([]string, error) {
	if f.recentPublishedTitles == nil {
		return nil, nil
	}
	return f.recentPublishedTitles(ctx, limit)
}

func (f *fakeArticleStore) CountPublishedSince(ctx context.Context, since time.Time) (int64, error) {
	if f.countPublishedSince == nil {
		return 0, nil
	}
	return f.countPublishedSince(ctx, since)
}

type fakeFallbackImageStore struct {
	leastUsedByCategory func(ctx context.Context, category string) (*domain.FallbackImage, error)
	incrementUsage      func(ctx context.Context, id string) error
}

func (f *fakeFallbackImageStore) LeastUsedByCategory(ctx context.Context, category string) (*domain.FallbackImage, error) {
	if f.leastUsedByCategory == nil {
		return nil, nil
	}
	return f.leastUsedByCategory(ctx, category)
}

func (f *fakeFallbackImageStore) IncrementUsage(ctx context.Context, id string) error {
	if f.incrementUsage == nil {
		return nil
	}
	return f.incrementUsage(ctx, id)
}
