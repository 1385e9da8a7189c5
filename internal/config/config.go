package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

const defaultAPIBaseURL = "https://ecommerce.routemisr.com/api/v1"

type Config struct {
	AppEnv   string
	AppPort  string
	LogLevel string

	APIBaseURL    string
	APITimeout    time.Duration
	PublicBaseURL string

	StorageDriver string
	StorageDir    string
	DBURL         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionCacheSize int
	AllowedOrigins   []string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		AppPort:          getEnv("APP_PORT", "8080"),
		APIBaseURL:       strings.TrimSuffix(getEnv("API_BASE_URL", defaultAPIBaseURL), "/"),
		APITimeout:       time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 0)) * time.Second,
		StorageDriver:    getEnv("STORAGE_DRIVER", StorageFile),
		StorageDir:       getEnv("STORAGE_DIR", "./data"),
		DBURL:            os.Getenv("DB_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		SessionCacheSize: getEnvInt("SESSION_CACHE_SIZE", 1024),
		AllowedOrigins:   splitList(os.Getenv("ALLOWED_ORIGINS")),
		LogLevel:         os.Getenv("LOG_LEVEL"),
	}
	cfg.PublicBaseURL = strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", "http://localhost:"+cfg.AppPort), "/")

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	return cfg
}

// Validate rejects storage drivers whose connection settings are missing.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageFile:
		if c.StorageDir == "" {
			return errors.New("STORAGE_DIR is required for the file storage driver")
		}
	case StorageMemory:
	case StoragePostgres:
		if c.DBURL == "" {
			return errors.New("DB_URL is required for the postgres storage driver")
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis storage driver")
		}
	default:
		return errors.New("unknown STORAGE_DRIVER: " + c.StorageDriver)
	}

	if c.SessionCacheSize <= 0 {
		return errors.New("SESSION_CACHE_SIZE must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
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
		log.Printf("ignoring non-numeric %s=%q", key, v)
		return fallback
	}
	return n
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
