package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	// Base URL of the marketplace REST backend (API gateway).
	APIBaseURL string
	// When true, all backend calls are answered by the in-memory mock
	// responder instead of the live API. This must stay a config toggle,
	// never a code branch.
	UseMockBackend bool
	// Shared secret used to verify (and, in mock mode, issue) HS256 tokens.
	JWTSecret string
	// Token lifetime for credentials issued by the mock backend.
	TokenTTLMinutes int
	FrontendURL     string
	// Pause inserted between dependent submission calls (register -> role
	// elevation -> profile creation). The backend applies role changes with
	// eventual consistency, so a freshly issued credential may not be valid
	// for the very next call. See internal/wizard/submit.go.
	SettleDelay time.Duration
	// How long an abandoned wizard session is kept before being swept.
	WizardSessionTTL time.Duration
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitLoginThreshold  int
	// Redis Configuration (optional; rate limiter falls back to in-memory)
	RedisURL      string
	RedisPassword string
}

func LoadConfig() (*Config, error) {
	// Only effective locally; ignored in production when the file is absent.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                     getEnv("PORT", "8080"),
		APIBaseURL:               strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000/api"), "/"),
		UseMockBackend:           getEnvBool("USE_MOCK_BACKEND", false),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		TokenTTLMinutes:          getEnvInt("TOKEN_TTL_MINUTES", 60),
		FrontendURL:              strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		SettleDelay:              getEnvDuration("SETTLE_DELAY", 500*time.Millisecond),
		WizardSessionTTL:         getEnvDuration("WIZARD_SESSION_TTL", 2*time.Hour),
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RedisURL:                 getEnv("REDIS_URL", ""),
		RedisPassword:            getEnv("REDIS_PASSWORD", ""),
	}

	if cfg.JWTSecret == "" {
		if cfg.UseMockBackend {
			// Mock mode issues its own tokens; a dev secret keeps it self-contained.
			cfg.JWTSecret = "miservicio-dev-secret"
		} else {
			log.Println("WARNING: JWT_SECRET is missing. Token verification will fail.")
		}
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration returns a duration environment variable (e.g. "500ms") or
// fallback if not set/invalid
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
