package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/config"
	"github.com/stemsi/records-admin/internal/handler"
	"github.com/stemsi/records-admin/internal/middleware"
	"github.com/stemsi/records-admin/internal/response"
	"github.com/stemsi/records-admin/internal/web"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Dashboard  *handler.DashboardHandler
	Student    *handler.StudentHandler
	Course     *handler.CourseHandler
	Grade      *handler.GradeHandler
	Transcript *handler.TranscriptHandler
	LiveFilter *handler.LiveFilterHandler
	Validate   *handler.ValidateHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// emailLimiter guards the transcript e-mail endpoint.
func SetupRouter(
	handlers *Handlers,
	renderer *web.Renderer,
	emailLimiter *middleware.RateLimiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.HTMLRender = renderer

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Embedded assets change only with a new build.
	staticGroup := router.Group("/static")
	staticGroup.Use(middleware.CacheControl(86400))
	{
		staticGroup.StaticFS("/", web.Static())
	}

	router.GET("/health", handlers.System.Health)

	// ─── 1. Pages ──────────────────────────────────────────────────────
	pages := router.Group("")
	pages.Use(middleware.NoStore())
	{
		pages.GET("/", handlers.Dashboard.Show)

		pages.GET("/students", handlers.Student.List)
		pages.GET("/students/:id", handlers.Student.Detail)
		pages.GET("/students/:id/edit", handlers.Student.Edit)
		pages.POST("/students/:id/edit", handlers.Student.Submit)
		pages.GET("/students/:id/delete", handlers.Student.ConfirmDelete)
		pages.POST("/students/:id/delete", handlers.Student.Delete)

		pages.GET("/courses", handlers.Course.List)
		pages.GET("/courses/:code", handlers.Course.Detail)
		pages.GET("/courses/:code/edit", handlers.Course.Edit)
		pages.POST("/courses/:code/edit", handlers.Course.Submit)
		pages.GET("/courses/:code/delete", handlers.Course.ConfirmDelete)
		pages.POST("/courses/:code/delete", handlers.Course.Delete)

		pages.GET("/grades", handlers.Grade.List)
		pages.GET("/grades/new", handlers.Grade.New)
		pages.GET("/grades/export.xlsx", handlers.Grade.Export)
		pages.GET("/grades/:id/edit", handlers.Grade.Edit)
		pages.POST("/grades/:id/edit", handlers.Grade.Submit)
		pages.GET("/grades/:id/delete", handlers.Grade.ConfirmDelete)
		pages.POST("/grades/:id/delete", handlers.Grade.Delete)

		pages.GET("/transcript", handlers.Transcript.Page)
		pages.GET("/transcript/:student_id/print", handlers.Transcript.Print)
		pages.GET("/transcript/:student_id/pdf", handlers.Transcript.PDF)
		pages.POST("/transcript/:student_id/email", emailLimiter.Middleware(), handlers.Transcript.Email)
	}

	// ─── 2. JSON surface ───────────────────────────────────────────────
	api := router.Group("/api")
	{
		api.GET("/views/:view_id/keys", handlers.LiveFilter.Keys)
		api.POST("/validate/:entity", handlers.Validate.Validate)
	}

	// ─── 3. WebSocket ──────────────────────────────────────────────────
	router.GET("/ws/views/:view_id", handlers.LiveFilter.Stream)

	router.NoRoute(handler.NoRoute)

	return router
}
