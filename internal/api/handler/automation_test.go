package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ecoverse/ecopress/internal/domain"
	"github.com/ecoverse/ecopress/internal/logger"
	"github.com/ecoverse/ecopress/internal/service"
	"github.com/gin-gonic/gin"
)

type emptySettingStore struct{}

func (emptySettingStore) GetAll(ctx context.Context) ([]domain.Setting, error) {
	return nil, nil
}

type emptyQueue struct{}

func (emptyQueue) ListUnprocessed(ctx context.Context, minScore float64, limit int) ([]domain.SourceItem, error) {
	return nil, nil
}

func (emptyQueue) MarkProcessed(ctx context.Context, itemID, articleID string) (bool, error) {
	return false, nil
}

type emptyArticleStore struct{}

func (emptyArticleStore) Create(ctx context.Context, article *domain.Article) error { return nil }

func (emptyArticleStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	return false, nil
}

func (emptyArticleStore) RecentPublishedTitles(ctx context.Context, limit int) ([]string, error) {
	return nil, nil
}

func (emptyArticleStore) CountPublishedSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}

type readyGenerator struct{}

func (readyGenerator) Ready() error { return nil }

func (readyGenerator) Generate(ctx context.Context, item *domain.SourceItem, titlesContext string) (*domain.GeneratedDraft, error) {
	return nil, nil
}

type noopImageResolver struct{}

func (noopImageResolver) Resolve(ctx context.Context, keyword, title, slug string, fallbackEnabled bool) domain.ImageResolution {
	return domain.ImageResolution{}
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, draft *domain.GeneratedDraft, img domain.ImageResolution, item *domain.SourceItem) (*domain.Article, error) {
	return nil, nil
}

func newTestAutomationHandler(t *testing.T) *AutomationHandler {
	t.Helper()
	log := logger.New(&logger.Config{Level: "error", Format: "json", Output: io.Discard})
	pipeline := service.NewAutoPublisher(
		service.NewSettingsResolver(emptySettingStore{}, log),
		service.NewCandidateSelector(emptyQueue{}, log),
		readyGenerator{},
		noopImageResolver{},
		noopPublisher{},
		emptyArticleStore{},
		log,
		&service.AutoPublisherConfig{},
	)
	return NewAutomationHandler(pipeline, log)
}

func TestAutomationHandler_TriggerRun_CountValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "count above the per-run cap is accepted",
			body:       `{"count": 50}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "count within range is accepted",
			body:       `{"count": 3}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty body defaults the count",
			body:       "",
			wantStatus: http.StatusOK,
		},
		{
			name:       "negative count is rejected",
			body:       `{"count": -1}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAutomationHandler(t)
			router := gin.New()
			router.POST("/api/v1/automation/run", h.TriggerRun)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/automation/run", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp RunResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if !resp.Success {
				t.Error("expected success on an empty queue")
			}
			if resp.Published != 0 {
				t.Errorf("expected nothing published, got %d", resp.Published)
			}
		})
	}
}
