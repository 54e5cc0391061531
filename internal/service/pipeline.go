package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ecoverse/ecopress/internal/domain"
	"github.com/ecoverse/ecopress/internal/logger"
	"github.com/google/uuid"
)

// ErrMissingAPIKey aborts a run before any item is touched.
var ErrMissingAPIKey = errors.New("text generation API key is not configured")

// ErrRunInProgress is returned when a batch is triggered while another
// one is still running. Manual triggers, the scheduler and the CLI all
// go through the same guard.
var ErrRunInProgress = errors.New("a publishing batch is already running")

// draftGenerator is the slice of ContentGenerator the pipeline uses.
type draftGenerator interface {
	Ready() error
	Generate(ctx context.Context, item *domain.SourceItem, titlesContext string) (*domain.GeneratedDraft, error)
}

// articleImageResolver is the slice of ImageResolver the pipeline uses.
type articleImageResolver interface {
	Resolve(ctx context.Context, keyword, title, slug string, fallbackEnabled bool) domain.ImageResolution
}

// articlePublisher is the slice of Publisher the pipeline uses.
type articlePublisher interface {
	Publish(ctx context.Context, draft *domain.GeneratedDraft, img domain.ImageResolution, item *domain.SourceItem) (*domain.Article, error)
}

// AutoPublisher orchestrates one batch: settings, candidate selection,
// and a strictly sequential per-item loop in which every failure is
// isolated to its item. Only two conditions abort the whole run:
// missing generation credentials and a source queue query failure.
type AutoPublisher struct {
	settings  *SettingsResolver
	selector  *CandidateSelector
	generator draftGenerator
	images    articleImageResolver
	publisher articlePublisher
	articles  ArticleStore
	logger    *logger.Logger
	running   atomic.Bool

	maxPerRun         int
	itemDelay         time.Duration
	recentTitlesLimit int
}

// AutoPublisherConfig holds tuning knobs for the orchestrator.
type AutoPublisherConfig struct {
	MaxPerRun         int
	ItemDelay         time.Duration
	RecentTitlesLimit int
}

// NewAutoPublisher creates a new AutoPublisher.
func NewAutoPublisher(
	settings *SettingsResolver,
	selector *CandidateSelector,
	generator draftGenerator,
	images articleImageResolver,
	publisher articlePublisher,
	articles ArticleStore,
	log *logger.Logger,
	cfg *AutoPublisherConfig,
) *AutoPublisher {
	maxPerRun := cfg.MaxPerRun
	if maxPerRun <= 0 {
		maxPerRun = 10
	}
	recentTitles := cfg.RecentTitlesLimit
	if recentTitles <= 0 {
		recentTitles = 10
	}
	return &AutoPublisher{
		settings:          settings,
		selector:          selector,
		generator:         generator,
		images:            images,
		publisher:         publisher,
		articles:          articles,
		logger:            log,
		maxPerRun:         maxPerRun,
		itemDelay:         cfg.ItemDelay,
		recentTitlesLimit: recentTitles,
	}
}

// Run executes one batch. requested overrides the settings batch size
// when positive (capped at the hard per-run maximum). testMode is a
// dry run: drafts and images are produced but nothing is persisted and
// no source item is marked processed.
func (p *AutoPublisher) Run(ctx context.Context, requested int, testMode bool) (*domain.BatchResult, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer p.running.Store(false)

	if err := p.generator.Ready(); err != nil {
		return nil, err
	}

	ctx = logger.SetRunID(ctx, uuid.New().String())
	result := &domain.BatchResult{
		PublishedArticles: []domain.Article{},
		StartedAt:         time.Now(),
		DryRun:            testMode,
	}

	settings := p.settings.Load(ctx)

	count := settings.ArticlesPerExecution
	if requested > 0 {
		count = requested
	}
	if count > p.maxPerRun {
		count = p.maxPerRun
	}

	if !testMode {
		remaining, ok := p.dailyRemaining(ctx, settings.DailyTarget)
		if ok {
			if remaining <= 0 {
				logger.CtxInfo(ctx, "Daily target of %d already reached, skipping run", settings.DailyTarget)
				result.FinishedAt = time.Now()
				return result, nil
			}
			if count > remaining {
				count = remaining
			}
		}
	}

	candidates, err := p.selector.Select(ctx, count, settings.TrendingBoostEnabled)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		logger.CtxInfo(ctx, "No unprocessed source items, nothing to publish")
		result.FinishedAt = time.Now()
		return result, nil
	}

	titlesContext := p.recentTitlesContext(ctx)

	logger.With(logger.Fields{
		logger.FieldCount: len(candidates),
	}).Info(ctx, "Starting publishing batch: batch_size=%d, test=%v, trending_boost=%v",
		count, testMode, settings.TrendingBoostEnabled)

	for i := range candidates {
		item := &candidates[i]
		itemCtx := logger.SetItemID(ctx, item.ID)

		article := p.processItem(itemCtx, item, titlesContext, settings.ImageFallbackEnabled, testMode, result)
		if article != nil {
			result.PublishedArticles = append(result.PublishedArticles, *article)
		}

		// Throttle between items to respect external API rate limits.
		if i < len(candidates)-1 && p.itemDelay > 0 && !testMode {
			select {
			case <-time.After(p.itemDelay):
			case <-ctx.Done():
				logger.CtxWarn(ctx, "Run canceled after %d of %d items", i+1, len(candidates))
				result.FinishedAt = time.Now()
				return result, nil
			}
		}
	}

	result.FinishedAt = time.Now()

	logger.With(logger.Fields{
		logger.FieldCount:      result.Published(),
		logger.FieldDurationMs: result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	}).Info(ctx, "Publishing batch completed: published=%d, failed=%d",
		result.Published(), len(result.Errors))

	return result, nil
}

// processItem runs the generate -> resolve image -> publish sequence
// for one candidate. Failures are appended to the batch errors and nil
// is returned; no error from one item reaches its siblings.
func (p *AutoPublisher) processItem(ctx context.Context, item *domain.SourceItem, titlesContext string, fallbackEnabled, testMode bool, result *domain.BatchResult) *domain.Article {
	draft, err := p.generator.Generate(ctx, item, titlesContext)
	if err != nil {
		logger.CtxError(ctx, "Generation failed for %q: %v", item.Title, err)
		result.Errors = append(result.Errors, fmt.Sprintf("%s: generation failed: %v", item.Title, err))
		return nil
	}

	slugHint := Slugify(draft.Slug)
	if slugHint == "" {
		slugHint = Slugify(draft.Title)
	}

	img := p.images.Resolve(ctx, draft.MainKeyword, draft.Title, slugHint, fallbackEnabled)

	if testMode {
		// Dry run: report what would have been published.
		now := time.Now()
		return &domain.Article{
			Title:            draft.Title,
			Slug:             slugHint,
			MetaTitle:        draft.MetaTitle,
			MetaDescription:  draft.MetaDescription,
			Excerpt:          draft.Excerpt,
			Content:          draft.HTMLContent,
			MainKeyword:      draft.MainKeyword,
			ReadingTime:      draft.ReadingTime,
			FeaturedImage:    img.URL,
			FeaturedImageAlt: draft.ImageAltText,
			Status:           domain.ArticleStatusDraft,
			AIGenerated:      true,
			IsCurated:        true,
			SourceURL:        item.SourceURL,
			SourceName:       item.SourceName,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
	}

	article, err := p.publisher.Publish(ctx, draft, img, item)
	if err != nil {
		logger.CtxError(ctx, "Publish failed for %q: %v", item.Title, err)
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", item.Title, err))
		return nil
	}

	logger.With(logger.Fields{
		logger.FieldSlug: article.Slug,
	}).Info(ctx, "Published article: title=%q, ai_image=%v", article.Title, img.AIGenerated)

	return article
}

// dailyRemaining returns how many more articles may be published today
// under the daily target. ok=false disables the guard when the count
// query fails; a broken stats query should not block publishing.
func (p *AutoPublisher) dailyRemaining(ctx context.Context, dailyTarget int) (int, bool) {
	if dailyTarget <= 0 {
		return 0, false
	}
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	published, err := p.articles.CountPublishedSince(ctx, startOfDay)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to count today's articles, skipping daily target guard: %v", err)
		return 0, false
	}
	return dailyTarget - int(published), true
}

// recentTitlesContext builds the internal-link context from the most
// recent published titles. Best-effort: a query failure yields an
// empty context, not a batch failure.
func (p *AutoPublisher) recentTitlesContext(ctx context.Context) string {
	titles, err := p.articles.RecentPublishedTitles(ctx, p.recentTitlesLimit)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to load recent titles for internal links: %v", err)
		return ""
	}
	if len(titles) == 0 {
		return ""
	}

	var b strings.Builder
	for _, t := range titles {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	return b.String()
}
