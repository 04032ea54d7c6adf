package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	SessionTTL    time.Duration
	TemplateGlob  string
	StaticDir     string
	LogLevel      string
}

// NewConfig loads configuration from environment variables
func NewConfig() *Config {
	return &Config{
		Port:          getEnv("HTTP_PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=examtrack port=5432 sslmode=disable"),
		SessionSecret: getEnv("SECRET_KEY", "dev-fallback-key"),
		SessionTTL:    getEnvDuration("SESSION_TTL_HOURS", 24) * time.Hour,
		TemplateGlob:  getEnv("TEMPLATE_GLOB", "web/templates/*.html"),
		StaticDir:     getEnv("STATIC_DIR", "web/static"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvDuration(key string, defaultHours int) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(defaultHours)
}
