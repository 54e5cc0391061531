package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ecoverse/ecopress/internal/domain"
)

type fakeDraftGenerator struct {
	readyErr error
	generate func(ctx context.Context, item *domain.SourceItem, titlesContext string) (*domain.GeneratedDraft, error)
}

func (f *fakeDraftGenerator) Ready() error { return f.readyErr }

func (f *fakeDraftGenerator) Generate(ctx context.Context, item *domain.SourceItem, titlesContext string) (*domain.GeneratedDraft, error) {
	if f.generate == nil {
		return &domain.GeneratedDraft{Title: item.Title, HTMLContent: "<p>body</p>", MainKeyword: item.Title, ReadingTime: 5}, nil
	}
	return f.generate(ctx, item, titlesContext)
}

type fakeResolver struct {
	resolution domain.ImageResolution
}

func (f *fakeResolver) Resolve(ctx context.Context, keyword, title, slug string, fallbackEnabled bool) domain.ImageResolution {
	return f.resolution
}

type fakePublisher struct {
	publish func(ctx context.Context, draft *domain.GeneratedDraft, img domain.ImageResolution, item *domain.SourceItem) (*domain.Article, error)
	calls   int
}

func (f *fakePublisher) Publish(ctx context.Context, draft *domain.GeneratedDraft, img domain.ImageResolution, item *domain.SourceItem) (*domain.Article, error) {
	f.calls++
	if f.publish == nil {
		return &domain.Article{ID: item.ID, Title: draft.Title, Slug: Slugify(draft.Title)}, nil
	}
	return f.publish(ctx, draft, img, item)
}

func newTestPipeline(queue *fakeSourceItemStore, articles *fakeArticleStore, gen *fakeDraftGenerator, pub *fakePublisher) *AutoPublisher {
	log := newTestLogger()
	return NewAutoPublisher(
		NewSettingsResolver(&fakeSettingStore{}, log),
		NewCandidateSelector(queue, log),
		gen,
		&fakeResolver{},
		pub,
		articles,
		log,
		&AutoPublisherConfig{MaxPerRun: 10, ItemDelay: 0, RecentTitlesLimit: 10},
	)
}

func queueOf(items ...domain.SourceItem) *fakeSourceItemStore {
	return &fakeSourceItemStore{
		listUnprocessed: func(ctx context.Context, minScore float64, limit int) ([]domain.SourceItem, error) {
			if len(items) > limit {
				return items[:limit], nil
			}
			return items, nil
		},
	}
}

func TestAutoPublisher_Run(t *testing.T) {
	itemA := domain.SourceItem{ID: "a", Title: "Solar Growth", EngagementScore: 90}
	itemB := domain.SourceItem{ID: "b", Title: "Wind Farms", EngagementScore: 80}
	itemC := domain.SourceItem{ID: "c", Title: "Ocean Cleanup", EngagementScore: 70}

	t.Run("missing API key aborts the run", func(t *testing.T) {
		gen := &fakeDraftGenerator{readyErr: ErrMissingAPIKey}
		p := newTestPipeline(queueOf(itemA), &fakeArticleStore{}, gen, &fakePublisher{})

		if _, err := p.Run(context.Background(), 0, false); !errors.Is(err, ErrMissingAPIKey) {
			t.Fatalf("expected ErrMissingAPIKey, got %v", err)
		}
	})

	t.Run("empty queue is a successful no-op", func(t *testing.T) {
		pub := &fakePublisher{}
		p := newTestPipeline(queueOf(), &fakeArticleStore{}, &fakeDraftGenerator{}, pub)

		result, err := p.Run(context.Background(), 0, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Published() != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
		if pub.calls != 0 {
			t.Errorf("expected no publish calls, got %d", pub.calls)
		}
	})

	t.Run("one failing item does not stop the rest", func(t *testing.T) {
		gen := &fakeDraftGenerator{
			generate: func(ctx context.Context, item *domain.SourceItem, titlesContext string) (*domain.GeneratedDraft, error) {
				if item.ID == "b" {
					return nil, fmt.Errorf("model returned garbage")
				}
				return &domain.GeneratedDraft{Title: item.Title, HTMLContent: "<p>body</p>", MainKeyword: item.Title, ReadingTime: 5}, nil
			},
		}
		p := newTestPipeline(queueOf(itemA, itemB, itemC), &fakeArticleStore{}, gen, &fakePublisher{})

		result, err := p.Run(context.Background(), 3, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Published() != 2 {
			t.Errorf("expected 2 published, got %d", result.Published())
		}
		if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Wind Farms") {
			t.Errorf("expected one error naming the failed item, got %v", result.Errors)
		}
	})

	t.Run("publish failure is isolated too", func(t *testing.T) {
		pub := &fakePublisher{
			publish: func(ctx context.Context, draft *domain.GeneratedDraft, img domain.ImageResolution, item *domain.SourceItem) (*domain.Article, error) {
				if item.ID == "a" {
					return nil, fmt.Errorf("failed to insert article: disk full")
				}
				return &domain.Article{ID: item.ID, Title: draft.Title}, nil
			},
		}
		p := newTestPipeline(queueOf(itemA, itemB), &fakeArticleStore{}, &fakeDraftGenerator{}, pub)

		result, err := p.Run(context.Background(), 2, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Published() != 1 || len(result.Errors) != 1 {
			t.Errorf("expected 1 published and 1 error, got %+v", result)
		}
	})

	t.Run("requested count caps the batch", func(t *testing.T) {
		var requestedLimit int
		queue := &fakeSourceItemStore{
			listUnprocessed: func(ctx context.Context, minScore float64, limit int) ([]domain.SourceItem, error) {
				requestedLimit = limit
				return []domain.SourceItem{itemA}, nil
			},
		}
		p := newTestPipeline(queue, &fakeArticleStore{}, &fakeDraftGenerator{}, &fakePublisher{})

		if _, err := p.Run(context.Background(), 50, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if requestedLimit != 10 {
			t.Errorf("expected limit capped at 10, got %d", requestedLimit)
		}
	})

	t.Run("test mode publishes nothing", func(t *testing.T) {
		pub := &fakePublisher{}
		marked := 0
		queue := queueOf(itemA, itemB)
		queue.markProcessed = func(ctx context.Context, itemID, articleID string) (bool, error) {
			marked++
			return true, nil
		}
		p := newTestPipeline(queue, &fakeArticleStore{}, &fakeDraftGenerator{}, pub)

		result, err := p.Run(context.Background(), 2, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.DryRun {
			t.Error("expected DryRun flag")
		}
		if result.Published() != 2 {
			t.Errorf("expected 2 previewed articles, got %d", result.Published())
		}
		if pub.calls != 0 {
			t.Errorf("expected no publish calls in test mode, got %d", pub.calls)
		}
		if marked != 0 {
			t.Errorf("expected no items marked processed in test mode, got %d", marked)
		}
	})

	t.Run("concurrent run is rejected", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		gen := &fakeDraftGenerator{
			generate: func(ctx context.Context, item *domain.SourceItem, titlesContext string) (*domain.GeneratedDraft, error) {
				once.Do(func() {
					close(started)
					<-release
				})
				return &domain.GeneratedDraft{Title: item.Title, HTMLContent: "<p>body</p>"}, nil
			},
		}
		p := newTestPipeline(queueOf(itemA), &fakeArticleStore{}, gen, &fakePublisher{})

		done := make(chan error, 1)
		go func() {
			_, err := p.Run(context.Background(), 1, false)
			done <- err
		}()
		<-started

		if _, err := p.Run(context.Background(), 1, false); !errors.Is(err, ErrRunInProgress) {
			t.Errorf("expected ErrRunInProgress, got %v", err)
		}

		close(release)
		if err := <-done; err != nil {
			t.Fatalf("unexpected error from first run: %v", err)
		}

		if _, err := p.Run(context.Background(), 0, false); err != nil {
			t.Errorf("expected guard released after run, got %v", err)
		}
	})

	t.Run("selector failure aborts the run", func(t *testing.T) {
		queue := &fakeSourceItemStore{
			listUnprocessed: func(ctx context.Context, minScore float64, limit int) ([]domain.SourceItem, error) {
				return nil, fmt.Errorf("db down")
			},
		}
		p := newTestPipeline(queue, &fakeArticleStore{}, &fakeDraftGenerator{}, &fakePublisher{})

		if _, err := p.Run(context.Background(), 0, false); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestAutoPublisher_DailyTarget(t *testing.T) {
	itemA := domain.SourceItem{ID: "a", Title: "Solar Growth"}
	itemB := domain.SourceItem{ID: "b", Title: "Wind Farms"}

	newPipelineWithTarget := func(target string, publishedToday int64, queue *fakeSourceItemStore, pub *fakePublisher) *AutoPublisher {
		log := newTestLogger()
		settings := &fakeSettingStore{
			getAll: func(ctx context.Context) ([]domain.Setting, error) {
				return []domain.Setting{{Key: domain.SettingDailyTarget, Value: target}}, nil
			},
		}
		articles := &fakeArticleStore{
			countPublishedSince: func(ctx context.Context, since time.Time) (int64, error) {
				return publishedToday, nil
			},
		}
		return NewAutoPublisher(
			NewSettingsResolver(settings, log),
			NewCandidateSelector(queue, log),
			&fakeDraftGenerator{},
			&fakeResolver{},
			pub,
			articles,
			log,
			&AutoPublisherConfig{MaxPerRun: 10, ItemDelay: 0, RecentTitlesLimit: 10},
		)
	}

	t.Run("target reached skips the batch", func(t *testing.T) {
		pub := &fakePublisher{}
		selectorCalled := false
		queue := &fakeSourceItemStore{
			listUnprocessed: func(ctx context.Context, minScore float64, limit int) ([]domain.SourceItem, error) {
				selectorCalled = true
				return []domain.SourceItem{itemA}, nil
			},
		}
		p := newPipelineWithTarget("2", 2, queue, pub)

		result, err := p.Run(context.Background(), 0, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Published() != 0 || pub.calls != 0 {
			t.Errorf("expected no publishing, got %+v", result)
		}
		if selectorCalled {
			t.Error("queue must not be consulted when the target is reached")
		}
	})

	t.Run("remaining headroom shrinks the batch", func(t *testing.T) {
		var requestedLimit int
		queue := &fakeSourceItemStore{
			listUnprocessed: func(ctx context.Context, minScore float64, limit int) ([]domain.SourceItem, error) {
				requestedLimit = limit
				return []domain.SourceItem{itemA}, nil
			},
		}
		p := newPipelineWithTarget("5", 4, queue, &fakePublisher{})

		if _, err := p.Run(context.Background(), 3, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if requestedLimit != 1 {
			t.Errorf("expected batch shrunk to 1, got %d", requestedLimit)
		}
	})

	t.Run("count failure disables the guard", func(t *testing.T) {
		log := newTestLogger()
		settings := &fakeSettingStore{
			getAll: func(ctx context.Context) ([]domain.Setting, error) {
				return []domain.Setting{{Key: domain.SettingDailyTarget, Value: "1"}}, nil
			},
		}
		articles := &fakeArticleStore{
			countPublishedSince: func(ctx context.Context, since time.Time) (int64, error) {
				return 0, fmt.Errorf("db down")
			},
		}
		pub := &fakePublisher{}
		p := NewAutoPublisher(
			NewSettingsResolver(settings, log),
			NewCandidateSelector(queueOf(itemA, itemB), log),
			&fakeDraftGenerator{},
			&fakeResolver{},
			pub,
			articles,
			log,
			&AutoPublisherConfig{MaxPerRun: 10, ItemDelay: 0, RecentTitlesLimit: 10},
		)

		result, err := p.Run(context.Background(), 2, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Published() != 2 {
			t.Errorf("expected publishing to proceed, got %d", result.Published())
		}
	})
}
