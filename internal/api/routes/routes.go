// Package routes handles the setup and configuration of API routes
package routes

import (
	"database/sql"
	_ "authguard/docs" // Import swagger docs
	"authguard/internal/api/handlers"
	"authguard/internal/api/middleware"
	"authguard/internal/auth"
	"authguard/internal/config"
	"authguard/internal/device"
	"authguard/internal/notification"
	"authguard/internal/ratelimit"
	"authguard/internal/repository/postgres"
	"authguard/internal/subscription"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes and their handlers
func SetupRoutes(cfg *config.Config, db *sql.DB, counterStore ratelimit.CounterStore, notifier notification.Sender) *gin.Engine {
	r := gin.Default()

	healthHandler := handlers.NewHealthHandler(db)

	// Routes without rate limiting
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Per-IP budgets share one counter store so every instance sees the
	// same window. Tighter classes stack on top of the global budget.
	limiter := ratelimit.NewLimiter(counterStore, nil)
	rateLimiter := middleware.NewRateLimiter(limiter)
	r.Use(rateLimiter.Global())

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	deviceRepo := postgres.NewDeviceRepository(db)
	auditRepo := postgres.NewAuditLogRepository(db)

	// Initialize services
	authService := auth.NewService(cfg, accountRepo, refreshTokenRepo, notifier)
	subscriptionService := subscription.NewPostgresService(db)
	deviceService := device.NewService(cfg, accountRepo, deviceRepo, subscriptionService, notifier)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authService, accountRepo, subscriptionService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, auditRepo)
	deviceHandler := handlers.NewDeviceHandler(deviceService, auditRepo)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Health check (no authentication required)
		v1.GET("/health", healthHandler.Check)

		// Auth routes
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", rateLimiter.ForClass(ratelimit.ClassRegister), authHandler.Register)
			authRoutes.POST("/login", rateLimiter.ForClass(ratelimit.ClassLogin), authHandler.Login)
			authRoutes.POST("/refresh", rateLimiter.ForClass(ratelimit.ClassSensitive), authHandler.Refresh)
			authRoutes.POST("/logout", authMiddleware.AuthRequired(), authMiddleware.DeviceGuard(), authHandler.Logout)
		}

		// Device routes (require authentication)
		devices := v1.Group("/devices")
		devices.Use(authMiddleware.AuthRequired())
		{
			// Admin review stays outside the device guard so a reviewing
			// admin whose own account is locked is not shut out.
			devices.POST("/changes/:id/review", authMiddleware.AdminRequired(), deviceHandler.Review)

			// A locked account is hard-blocked here even while its access
			// token is still valid.
			guarded := devices.Group("")
			guarded.Use(authMiddleware.DeviceGuard())
			{
				guarded.GET("", deviceHandler.List)
				guarded.POST("/register", rateLimiter.ForClass(ratelimit.ClassSensitive), deviceHandler.Register)
			}
		}
	}

	return r
}
