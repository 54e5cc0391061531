package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ecoverse/ecopress/internal/domain"
	"github.com/ecoverse/ecopress/internal/logger"
	"github.com/google/uuid"
)

// Publisher performs the persistence and state transition for one
// item: slug allocation, article insert, and the conditional
// processed-flag update on the source item.
type Publisher struct {
	slugs    *SlugAllocator
	articles ArticleStore
	queue    SourceItemStore
	logger   *logger.Logger
}

// NewPublisher creates a new Publisher.
func NewPublisher(slugs *SlugAllocator, articles ArticleStore, queue SourceItemStore, log *logger.Logger) *Publisher {
	return &Publisher{
		slugs:    slugs,
		articles: articles,
		queue:    queue,
		logger:   log,
	}
}

// Publish persists the draft as a published article and marks the
// source item processed. An insert failure leaves the item
// unprocessed, keeping it eligible for a future run.
func (p *Publisher) Publish(ctx context.Context, draft *domain.GeneratedDraft, img domain.ImageResolution, item *domain.SourceItem) (*domain.Article, error) {
	candidate := draft.Slug
	if candidate == "" {
		candidate = draft.Title
	}

	slug, err := p.slugs.Allocate(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("slug allocation failed: %w", err)
	}

	now := time.Now()
	article := &domain.Article{
		ID:               uuid.New().String(),
		Title:            draft.Title,
		Slug:             slug,
		MetaTitle:        draft.MetaTitle,
		MetaDescription:  draft.MetaDescription,
		Excerpt:          draft.Excerpt,
		Content:          draft.HTMLContent,
		MainKeyword:      draft.MainKeyword,
		ReadingTime:      draft.ReadingTime,
		FeaturedImage:    img.URL,
		Status:           domain.ArticleStatusPublished,
		PublishedAt:      &now,
		AIGenerated:      true,
		IsCurated:        true,
		SourceURL:        item.SourceURL,
		SourceName:       item.SourceName,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if img.URL != "" {
		article.FeaturedImageAlt = draft.ImageAltText
	}

	if err := p.articles.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}

	claimed, err := p.queue.MarkProcessed(ctx, item.ID, article.ID)
	if err != nil {
		// The article is already published; losing the flag update only
		// risks a duplicate on a later run, which the slug allocator
		// disambiguates. Log and keep the success.
		p.log(ctx).WithFields(logger.Fields{
			logger.FieldItemID: item.ID,
			logger.FieldSlug:   slug,
		}).WithError(err).Error("Failed to mark source item processed")
	} else if !claimed {
		p.log(ctx).WithFields(logger.Fields{
			logger.FieldItemID: item.ID,
			logger.FieldSlug:   slug,
		}).Warn("Source item was already marked processed by another run")
	}

	return article, nil
}

func (p *Publisher) log(ctx context.Context) *logger.Logger {
	if l := logger.InContext(ctx); l != nil {
		return l
	}
	return p.logger
}
