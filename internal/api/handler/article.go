package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ecoverse/ecopress/internal/logger"
	"github.com/ecoverse/ecopress/internal/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ArticleHandler serves the read side of the published catalogue.
type ArticleHandler struct {
	articles *repository.ArticleRepository
	logger   *logger.Logger
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(articles *repository.ArticleRepository, log *logger.Logger) *ArticleHandler {
	return &ArticleHandler{articles: articles, logger: log}
}

// ListArticles returns published articles, newest first.
// Query params: limit (default 20, max 100), offset (default 0).
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	ctx := c.Request.Context()

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	articles, err := h.articles.ListPublished(ctx, limit, offset)
	if err != nil {
		logger.CtxError(ctx, "Failed to list articles: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetArticle returns one published article by slug.
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	article, err := h.articles.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		logger.CtxError(ctx, "Failed to fetch article: slug=%s, error=%v", slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch article"})
		return
	}

	c.JSON(http.StatusOK, article)
}
