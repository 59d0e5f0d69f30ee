package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"

	"github.com/umorjyoti/trip-sub006/internal/api/handlers"
	"github.com/umorjyoti/trip-sub006/internal/api/middleware"
	"github.com/umorjyoti/trip-sub006/internal/config"
	"github.com/umorjyoti/trip-sub006/internal/logging"
	"github.com/umorjyoti/trip-sub006/internal/metrics"
	"github.com/umorjyoti/trip-sub006/internal/services"
)

// Dependencies are the services the public router serves.
type Dependencies struct {
	Config        *config.Config
	Log           logr.Logger
	Settings      services.ISettingsService
	Sections      services.ITrekSectionService
	Notifications services.INotificationService
	Uploads       services.IUploadService
	Reviews       handlers.IReviewFetcher
	Collector     *metrics.Collector
}

// SetupRouter configures and returns the main Gin engine. ctx bounds the rate
// limiter's background sweep.
func SetupRouter(ctx context.Context, deps Dependencies) *gin.Engine {
	cfg := deps.Config

	r := gin.New()
	r.Use(
		middleware.TraceMiddleware(),
		logging.GinLogger(deps.Log),
		gin.Recovery(),
		middleware.CORSMiddleware(cfg.CorsAllowedOrigin),
		middleware.MetricsMiddleware(deps.Collector),
	)

	rateLimiter := middleware.NewRateLimiterMiddleware(ctx, cfg, deps.Log.WithName("ratelimit"))

	settingsHandler := handlers.NewSettingsHandler(deps.Settings)
	sectionHandler := handlers.NewTrekSectionHandler(deps.Sections)
	notificationHandler := handlers.NewNotificationHandler(deps.Notifications)
	uploadHandler := handlers.NewUploadHandler(deps.Uploads, int64(cfg.UploadMaxSizeMB)*1024*1024)
	reviewsHandler := handlers.NewReviewsHandler(deps.Reviews)
	performanceHandler := handlers.NewPerformanceHandler(deps.Collector)

	r.GET("/metrics", gin.WrapH(deps.Collector.Handler()))

	apiGroup := r.Group("/api")

	// Public Routes
	public := apiGroup.Group("")
	public.Use(rateLimiter.Limit())
	{
		public.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
		public.GET("/settings/enquiry-banner", settingsHandler.GetEnquiryBanner)
		public.GET("/settings/landing-page", settingsHandler.GetLandingPage)
		public.GET("/settings/blog-page", settingsHandler.GetBlogPage)
		public.GET("/settings/weekend-getaway-page", settingsHandler.GetWeekendGetawayPage)
		public.GET("/trek-sections/active", sectionHandler.ListActive)
		public.GET("/google/reviews", reviewsHandler.GetReviews)
	}

	// Admin Routes
	admin := apiGroup.Group("")
	admin.Use(middleware.AuthMiddleware(cfg.JwtSecret), middleware.AdminMiddleware())
	{
		admin.GET("/settings", settingsHandler.GetSettings)
		admin.PUT("/settings", settingsHandler.UpdateSettings)

		admin.GET("/trek-sections", sectionHandler.List)
		admin.POST("/trek-sections", sectionHandler.Create)
		admin.GET("/trek-sections/:id", sectionHandler.GetByID)
		admin.PUT("/trek-sections/:id", sectionHandler.Update)
		admin.DELETE("/trek-sections/:id", sectionHandler.Delete)

		admin.GET("/notifications", notificationHandler.List)
		admin.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		admin.PUT("/notifications/mark-all-read", notificationHandler.MarkAllRead)
		admin.DELETE("/notifications/delete-read", notificationHandler.DeleteAllRead)
		admin.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		admin.DELETE("/notifications/:id", notificationHandler.Delete)

		admin.POST("/upload", uploadHandler.Upload)
		admin.DELETE("/upload", uploadHandler.Delete)
		admin.DELETE("/upload/*key", uploadHandler.Delete)

		admin.GET("/admin/performance", performanceHandler.Get)
		admin.DELETE("/admin/performance", performanceHandler.Reset)
	}

	return r
}

// SetupServiceRouter configures and returns the service Gin engine.
func SetupServiceRouter(handler *handlers.ServiceApiHandler, log logr.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.TraceMiddleware(), logging.GinLogger(log), gin.Recovery())
	r.POST("/api", handler.HandleRequest)
	return r
}
