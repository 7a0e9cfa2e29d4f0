package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/intercultura/sponte-dashboard/internal/config"
	"github.com/intercultura/sponte-dashboard/internal/handler"
	"github.com/intercultura/sponte-dashboard/internal/middleware"
	"github.com/intercultura/sponte-dashboard/internal/response"
	"github.com/intercultura/sponte-dashboard/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Student *handler.StudentHandler
	Class   *handler.ClassHandler
	Lesson  *handler.LessonHandler
	Finance *handler.FinanceHandler
	Export  *handler.ExportHandler
	System  *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

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
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", handlers.System.Health)

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
	}

	// ─── 2. Dashboard Data Group (Operator JWT) ────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireOperatorJWT(authService))
	{
		api.GET("/students", handlers.Student.ListStudents)

		api.GET("/classes", handlers.Class.ListClasses)
		api.GET("/classes/facets", handlers.Class.GetFacets)
		api.POST("/classes/:id/finance", handlers.Finance.ClassFinance)
		api.GET("/classes/:id/finance/export", handlers.Export.ClassFinanceXLSX)

		api.GET("/lessons", handlers.Lesson.ListLessons)

		api.GET("/receivables", handlers.Finance.ListReceivables)
		api.GET("/payables", handlers.Finance.ListPayables)

		api.GET("/finance/summary", handlers.Finance.MonthlySummary)
		api.GET("/finance/overdue", handlers.Finance.Overdue)
		api.GET("/finance/cashflow", handlers.Finance.CashFlow)
	}

	return router
}
