package api

import (
	"github.com/ecoverse/ecopress/internal/api/handler"
	"github.com/ecoverse/ecopress/internal/api/middleware"
	"github.com/ecoverse/ecopress/internal/logger"
	"github.com/ecoverse/ecopress/internal/repository"
	"github.com/ecoverse/ecopress/internal/service"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	pipeline *service.AutoPublisher,
	articles *repository.ArticleRepository,
	log *logger.Logger,
	mode string,
) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(middleware.CORSConfig{AllowAllOrigins: true}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	automationHandler := handler.NewAutomationHandler(pipeline, log)
	articleHandler := handler.NewArticleHandler(articles, log)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Pipeline trigger and state
		v1.POST("/automation/run", automationHandler.TriggerRun)
		v1.GET("/automation/status", automationHandler.GetStatus)

		// Published catalogue (read only)
		v1.GET("/articles", articleHandler.ListArticles)
		v1.GET("/articles/:slug", articleHandler.GetArticle)
	}

	return r
}
