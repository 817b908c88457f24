package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/JuanVergara-9/miservicio-api/config"
	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/middleware"
	"github.com/JuanVergara-9/miservicio-api/internal/delivery/http/response"
	"github.com/JuanVergara-9/miservicio-api/internal/domain"
	"github.com/JuanVergara-9/miservicio-api/internal/gateway"
	"github.com/JuanVergara-9/miservicio-api/internal/wizard"
)

type RouterDeps struct {
	Gateway     gateway.Client
	WizardStore *wizard.Store
	CategoryUC  domain.CategoryUsecase
	ProviderUC  domain.ProviderUsecase
	ReviewUC    domain.ReviewUsecase
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
	r.Use(middleware.RateLimitMiddleware(
		middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))
	loginLimiter := middleware.RateLimitMiddleware(
		middleware.LoginRateLimitConfig(deps.Config.RateLimitLoginThreshold, window))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", gin.H{
			"mockBackend": deps.Config.UseMockBackend,
		})
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	optionalAuth := middleware.OptionalAuth(deps.Config.JWTSecret)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config.JWTSecret))
	{
		NewAuthHandler(v1, protected, deps.Gateway, loginLimiter)
		NewCategoryHandler(v1, deps.CategoryUC)
		NewProviderHandler(v1, protected, deps.ProviderUC)
		NewReviewHandler(v1, protected, deps.ReviewUC)
		NewOnboardingHandler(v1, deps.Gateway, deps.WizardStore, deps.CategoryUC, optionalAuth)
	}

	return r
}
