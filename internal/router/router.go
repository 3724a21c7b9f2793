package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/notes-backend/internal/config"
	"github.com/stemsi/notes-backend/internal/handler"
	"github.com/stemsi/notes-backend/internal/middleware"
	"github.com/stemsi/notes-backend/internal/response"
	"github.com/stemsi/notes-backend/internal/validator"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Course  *handler.CourseHandler
	Subject *handler.SubjectHandler
	Content *handler.ContentHandler
}

// SetupRouter configures the middleware chain, the static attachment mount
// and the catalog routes.
func SetupRouter(cfg *config.Config, log zerolog.Logger, handlers *Handlers) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	validator.Setup()

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NotFound)
	router.NoMethod(middleware.MethodNotAllowed)

	router.Use(middleware.Recovery(cfg, log))

	// ─── CORS ──────────────────────────────────────────────────────────
	// Nil AllowedOrigins means ALLOW_ORIGINS was "*" or empty. Browsers reject
	// a literal "*" on credentialed requests, so the origin is echoed instead.
	corsConfig := cors.DefaultConfig()
	switch {
	case cfg.AllowsAllOrigins() && cfg.AllowCredentials:
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	case cfg.AllowsAllOrigins():
		corsConfig.AllowAllOrigins = true
	default:
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowCredentials = cfg.AllowCredentials
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Location"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(
		response.RequestIDMiddleware(),
		middleware.AccessLog(log),
		middleware.Errors(cfg, log),
		// Attachments are served as stored; PDFs and images gain little from brotli.
		middleware.BrotliWithConfig(middleware.BrotliConfig{
			Quality:   middleware.DefaultBrotliConfig.Quality,
			MinLength: middleware.DefaultBrotliConfig.MinLength,
			Skipper:   middleware.SkipPrefix(cfg.FilesPath),
		}),
	)

	// Serve uploaded attachments statically.
	filesGroup := router.Group(cfg.FilesPath)
	filesGroup.Use(middleware.CacheControl(time.Hour))
	{
		filesGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	notes := router.Group(handler.BasePath)
	{
		notes.POST("/course", handlers.Course.Create)
		notes.GET("/course", handlers.Course.List)
		notes.GET("/course/:id", handlers.Course.Get)
		notes.PUT("/course/:id", handlers.Course.Update)
		notes.DELETE("/course/:id", handlers.Course.Delete)

		notes.POST("/subject", handlers.Subject.Create)
		notes.GET("/subject", handlers.Subject.List)
		notes.GET("/subject/:id", handlers.Subject.Get)
		notes.PUT("/subject/:id", handlers.Subject.Update)
		notes.DELETE("/subject/:id", handlers.Subject.Delete)

		notes.POST("/content", handlers.Content.Create)
		notes.GET("/content", handlers.Content.List)
		notes.GET("/content/:id", handlers.Content.Get)
		notes.PUT("/content/:id", handlers.Content.Update)
		notes.DELETE("/content/:id", handlers.Content.Delete)
	}

	return router
}
