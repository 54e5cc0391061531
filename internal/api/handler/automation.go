package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ecoverse/ecopress/internal/domain"
	"github.com/ecoverse/ecopress/internal/logger"
	"github.com/ecoverse/ecopress/internal/service"
	"github.com/gin-gonic/gin"
)

// AutomationHandler exposes the publishing pipeline trigger and its
// run state. Only one batch runs at a time.
type AutomationHandler struct {
	pipeline *service.AutoPublisher
	logger   *logger.Logger

	mu            sync.RWMutex
	isRunning     bool
	lastRunTime   time.Time
	lastRunStatus string
	lastResult    *domain.BatchResult
}

// NewAutomationHandler creates a new automation handler.
func NewAutomationHandler(pipeline *service.AutoPublisher, log *logger.Logger) *AutomationHandler {
	return &AutomationHandler{
		pipeline: pipeline,
		logger:   log,
	}
}

// RunRequest represents the pipeline trigger request.
type RunRequest struct {
	Count int  `json:"count" binding:"omitempty,min=1"`
	Test  bool `json:"test"`
}

// RunResponse represents the pipeline trigger response.
type RunResponse struct {
	Success   bool             `json:"success"`
	Published int              `json:"published"`
	Articles  []ArticleSummary `json:"articles"`
	Errors    []string         `json:"errors,omitempty"`
	Test      bool             `json:"test,omitempty"`
	Timestamp string           `json:"timestamp"`
}

// ArticleSummary is the per-article slice of the trigger response.
type ArticleSummary struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	MainKeyword string `json:"mainKeyword"`
	ReadingTime int    `json:"readingTime"`
	Image       string `json:"image,omitempty"`
}

// StatusResponse represents the pipeline run state.
type StatusResponse struct {
	IsRunning     bool   `json:"is_running"`
	LastRunTime   string `json:"last_run_time,omitempty"`
	LastRunStatus string `json:"last_run_status,omitempty"`
	LastPublished int    `json:"last_published"`
	LastErrors    int    `json:"last_errors"`
}

// TriggerRun handles the batch trigger endpoint. Per-item failures are
// reported in-band with a 200 status; only a fatal error that aborted
// the whole batch yields a 500.
func (h *AutomationHandler) TriggerRun(c *gin.Context) {
	ctx := c.Request.Context()

	var req RunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.CtxWarn(ctx, "Invalid run request: client_ip=%s, error=%v", c.ClientIP(), err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	h.mu.Lock()
	if h.isRunning {
		h.mu.Unlock()
		logger.CtxWarn(ctx, "Run request rejected: batch already running, client_ip=%s", c.ClientIP())
		c.JSON(http.StatusConflict, gin.H{"error": "A publishing batch is already running"})
		return
	}
	h.isRunning = true
	h.mu.Unlock()

	logger.CtxInfo(ctx, "Starting publishing batch: count=%d, test=%v, client_ip=%s",
		req.Count, req.Test, c.ClientIP())

	// Use a background context so the batch survives the HTTP timeout.
	result, err := h.pipeline.Run(context.Background(), req.Count, req.Test)

	h.mu.Lock()
	h.isRunning = false
	h.lastRunTime = time.Now()
	h.lastResult = result
	if err != nil {
		h.lastRunStatus = "failed: " + err.Error()
	} else {
		h.lastRunStatus = "success"
	}
	h.mu.Unlock()

	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.CtxError(ctx, "Publishing batch aborted: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, buildRunResponse(result))
}

// GetStatus returns the current pipeline run state.
func (h *AutomationHandler) GetStatus(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	logger.CtxDebug(c.Request.Context(), "Run status requested: client_ip=%s, is_running=%v", c.ClientIP(), h.isRunning)

	resp := StatusResponse{
		IsRunning:     h.isRunning,
		LastRunStatus: h.lastRunStatus,
	}
	if !h.lastRunTime.IsZero() {
		resp.LastRunTime = h.lastRunTime.Format(time.RFC3339)
	}
	if h.lastResult != nil {
		resp.LastPublished = h.lastResult.Published()
		resp.LastErrors = len(h.lastResult.Errors)
	}

	c.JSON(http.StatusOK, resp)
}

func buildRunResponse(result *domain.BatchResult) RunResponse {
	articles := make([]ArticleSummary, 0, len(result.PublishedArticles))
	for _, a := range result.PublishedArticles {
		articles = append(articles, ArticleSummary{
			ID:          a.ID,
			Title:       a.Title,
			Slug:        a.Slug,
			MainKeyword: a.MainKeyword,
			ReadingTime: a.ReadingTime,
			Image:       a.FeaturedImage,
		})
	}

	return RunResponse{
		Success:   true,
		Published: result.Published(),
		Articles:  articles,
		Errors:    result.Errors,
		Test:      result.DryRun,
		Timestamp: result.FinishedAt.Format(time.RFC3339),
	}
}
