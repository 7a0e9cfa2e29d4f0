package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string
	RedisURL   string

	// Sponte upstream API.
	SponteBaseURL    string
	SponteLogin      string
	SpontePassword   string
	SponteClientCode int
	SponteTimeout    time.Duration

	// Financial aggregation fan-out cap (simultaneous in-flight requests).
	FinanceFanout int

	// Accessor result memoization.
	CacheTTL time.Duration

	// Dashboard operator auth.
	OperatorUser     string
	OperatorPassHash string
	JWTSecret        string
	JWTExpiry        time.Duration

	// AllowedOrigins controls HTTP CORS. Empty slice means all origins
	// are permitted (dev default).
	AllowedOrigins []string
}

// ErrMissingCredentials is returned by Validate when the Sponte login or
// password is absent. This is a startup-fatal operator error, not a
// runtime retry condition.
var ErrMissingCredentials = errors.New("SPONTE_LOGIN and SPONTE_SENHA must be set")

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "pretty"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SponteBaseURL:    getEnv("SPONTE_BASE_URL", "https://integracao.sponteweb.net.br"),
		SponteLogin:      getEnv("SPONTE_LOGIN", ""),
		SpontePassword:   getEnv("SPONTE_SENHA", ""),
		SponteClientCode: getEnvInt("SPONTE_CLIENT_CODE", 3751),
		SponteTimeout:    time.Duration(getEnvInt("SPONTE_TIMEOUT_SECONDS", 30)) * time.Second,
		FinanceFanout:    getEnvInt("FINANCE_FANOUT", 5),
		CacheTTL:         time.Duration(getEnvInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
		OperatorUser:     getEnv("DASHBOARD_USER", "admin"),
		OperatorPassHash: getEnv("DASHBOARD_PASSWORD_HASH", ""),
		JWTSecret:        getEnv("JWT_SECRET", "change-this-to-a-secure-random-string"),
		JWTExpiry:        time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		AllowedOrigins:   parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// Validate checks the configuration that must be present before the service
// can do anything useful.
func (c *Config) Validate() error {
	if c.SponteLogin == "" || c.SpontePassword == "" {
		return ErrMissingCredentials
	}
	if c.FinanceFanout < 1 {
		c.FinanceFanout = 1
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
