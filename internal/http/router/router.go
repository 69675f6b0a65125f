package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/wxai-backend/internal/config"
	"github.com/ignatzorin/wxai-backend/internal/http/handlers"
	"github.com/ignatzorin/wxai-backend/internal/http/middleware"
	"github.com/ignatzorin/wxai-backend/internal/service"
	"github.com/ignatzorin/wxai-backend/internal/storage"
)

// Handlers набор хэндлеров, которые монтирует роутер.
type Handlers struct {
	Auth   *handlers.AuthHandler
	AI     *handlers.AIHandler
	Sales  *handlers.SalesHandler
	Health *handlers.HealthHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/test", h.Health.Test)
	if cfg.MediaStoragePath != "" {
		r.StaticFS(storage.MediaPrefix, http.Dir(cfg.MediaStoragePath))
	}

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/send-otp", h.Auth.SendOTP)
		authGroup.POST("/verify-otp", h.Auth.VerifyOTP)
		authGroup.POST("/signup", h.Auth.Signup)
		authGroup.POST("/login", h.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/ai/chat", h.AI.Chat)
		protected.POST("/ai/image", h.AI.Image)
		protected.GET("/user/requests", h.AI.History)
		protected.POST("/sales/contact", h.Sales.Contact)
	}

	return r
}
