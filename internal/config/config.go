package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port        string
	Env         string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	MongoURI string
	MongoDB  string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	AdminUsername string
	AdminPassword string

	AllowedOrigins []string
}

// Load reads configuration from the environment, with a .env file filling in
// anything not already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getenv("PORT", "8080"),
		Env:         getenv("APP_ENV", "development"),
		PostgresDSN: getenv("POSTGRES_DSN", ""),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		SessionTTL:    time.Duration(getenvInt("SESSION_TTL_HOURS", 168)) * time.Hour,

		MongoURI: getenv("MONGO_URI", ""),
		MongoDB:  getenv("MONGO_DB", "science_carnival"),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", "minio:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "carnival-media"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "false") == "true",

		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: getenv("ADMIN_PASSWORD", "password"),

		AllowedOrigins: strings.Split(
			getenv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),
	}
}

// IsProduction reports whether the service runs with production settings
// (secure cookies, in particular).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
