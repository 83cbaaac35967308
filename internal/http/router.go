package http

import (
	"log/slog"

	"github.com/RamizjonSheraliyev/Auths-Advances/internal/config"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/http/handlers"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/http/middleware"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/services"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/token"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Config      *config.Config
	AuthService *services.AuthService
	TokenCodec  *token.Codec
	Logger      *slog.Logger
	RateLimiter *middleware.RateLimiter
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(deps.Config.AllowedOrigins))

	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Config)

	router.GET("/healthz", handlers.Health)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(deps.RateLimiter.Middleware())
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/verify-email", authHandler.VerifyEmail)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password/:token", authHandler.ResetPassword)
		authGroup.GET("/check-auth", middleware.Auth(deps.TokenCodec), authHandler.CheckAuth)
	}

	return router
}
