package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/JuanVergara-9/miservicio-api/config"
	_ "github.com/JuanVergara-9/miservicio-api/docs" // Important for Swagger
	v1 "github.com/JuanVergara-9/miservicio-api/internal/delivery/http/v1"
	"github.com/JuanVergara-9/miservicio-api/internal/gateway"
	"github.com/JuanVergara-9/miservicio-api/internal/usecase"
	"github.com/JuanVergara-9/miservicio-api/internal/wizard"
	"github.com/JuanVergara-9/miservicio-api/pkg/logger"
	"github.com/JuanVergara-9/miservicio-api/pkg/redis"
	"github.com/JuanVergara-9/miservicio-api/pkg/validation"
)

// @title           miservicio API
// @version         1.0
// @description     Marketplace service connecting clients with providers, including the multi-step provider onboarding wizard.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting miservicio API", "port", cfg.Port, "mockBackend", cfg.UseMockBackend)

	// 3. Setup Redis (optional; rate limiter falls back to in-memory)
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err)
		}
		defer redis.Close()
	}

	// 4. Select the backend gateway. The toggle lives in configuration
	// only; nothing past this point knows which implementation it talks to.
	var gw gateway.Client
	if cfg.UseMockBackend {
		gw = gateway.NewMock(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute, logger.Log)
	} else {
		gw = gateway.NewHTTPClient(cfg.APIBaseURL, logger.Log)
	}

	// 5. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)
	categoryUC := usecase.NewCategoryUsecase(gw)
	providerUC := usecase.NewProviderUsecase(gw, validate)
	reviewUC := usecase.NewReviewUsecase(gw)

	// 6. Wizard session store
	wizardStore := wizard.NewStore(cfg.WizardSessionTTL, cfg.SettleDelay, gw, logger.Log)
	defer wizardStore.Close()

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		Gateway:     gw,
		WizardStore: wizardStore,
		CategoryUC:  categoryUC,
		ProviderUC:  providerUC,
		ReviewUC:    reviewUC,
		Config:      cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
