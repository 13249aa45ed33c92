package router

import (
	"github.com/gin-gonic/gin"

	"github.com/skillswap/skillswap-backend/internal/config"
	"github.com/skillswap/skillswap-backend/internal/http/handlers"
	"github.com/skillswap/skillswap-backend/internal/http/middleware"
	"github.com/skillswap/skillswap-backend/internal/metrics"
	"github.com/skillswap/skillswap-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	skillHandler *handlers.SkillHandler,
	exchangeHandler *handlers.ExchangeHandler,
	pointsHandler *handlers.PointsHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(metrics.Middleware())

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
		api.GET("/seed", seedHandler.Seed)
	}

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/users/:id", middleware.UUIDValidator("id"), profileHandler.GetUserProfile)
	api.GET("/users/:id/skills", middleware.UUIDValidator("id"), profileHandler.ListSkills)
	api.GET("/skills", skillHandler.List)
	api.GET("/skills/slug/:slug", skillHandler.GetBySlug)
	api.GET("/skills/:id", middleware.UUIDValidator("id"), skillHandler.Get)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.GetMe)
		protected.PUT("/profile", profileHandler.UpdateMe)
		protected.PUT("/profile/skills/:kind", profileHandler.SetSkills)
		protected.GET("/users/search", profileHandler.Search)

		protected.POST("/skills", skillHandler.Create)

		protected.POST("/exchanges", exchangeHandler.Create)
		protected.GET("/exchanges/my", exchangeHandler.ListMy)
		protected.GET("/exchanges/inbox", exchangeHandler.Inbox)
		protected.GET("/exchanges/:id", middleware.UUIDValidator("id"), exchangeHandler.Get)
		protected.POST("/exchanges/:id/accept", middleware.UUIDValidator("id"), exchangeHandler.Accept)
		protected.POST("/exchanges/:id/decline", middleware.UUIDValidator("id"), exchangeHandler.Decline)
		protected.POST("/exchanges/:id/confirm", middleware.UUIDValidator("id"), exchangeHandler.Confirm)

		protected.GET("/points/balance", pointsHandler.GetBalance)
		protected.GET("/points/transactions", pointsHandler.ListTransactions)
		protected.POST("/points/deposit", middleware.AdminOnly(), pointsHandler.AdminDeposit)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread/count", notificationHandler.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
	}

	return r
}
