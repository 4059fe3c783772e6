package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все параметры запуска приложения.
type Config struct {
	Env               string
	HTTPPort          string
	DatabaseURL       string
	MigrationsPath    string
	StoreProbeTimeout time.Duration

	// Внешний сервис автоматизации (n8n): базовый URL и пути по действиям.
	AutomationBaseURL string
	Webhooks          map[string]string
	WebhookTimeout    time.Duration
	MockDelay         time.Duration

	AIBaseURL string
	AIModel   string

	ThirdPartyTokenSecret string
	ThirdPartyTokenTTL    time.Duration
	PortalBaseURL         string
	SLADays               int

	MediaStoragePath string
	MaxUploadSizeMB  int64
	AllowedOrigins   []string
	RateLimitLimit   int64
	RateLimitPeriod  time.Duration
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:               env,
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseURL:       getDatabaseURL(),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "./migrations"),
		AutomationBaseURL: strings.TrimRight(getEnv("N8N_BASE_URL", ""), "/"),
		AIBaseURL:         getEnv("AI_BASE_URL", ""),
		AIModel:           getEnv("AI_MODEL", "gpt-4o-mini"),
		PortalBaseURL:     strings.TrimRight(getEnv("PORTAL_BASE_URL", "http://localhost:5173/terceiro"), "/"),
		MediaStoragePath:  getEnv("MEDIA_STORAGE_PATH", "./storage/media"),
	}

	webhooks, err := loadWebhooks(getEnv("WEBHOOKS_FILE", ""))
	if err != nil {
		return nil, err
	}
	cfg.Webhooks = webhooks

	secret := getEnv("TERCEIRO_TOKEN_SECRET", "")
	if env == "production" {
		if len(secret) < 32 {
			return nil, fmt.Errorf("config: TERCEIRO_TOKEN_SECRET обязателен и должен быть не менее 32 символов в production")
		}
	} else if secret == "" {
		secret = "terceiro-secret-development-only-change-in-production"
		log.Printf("config: WARNING - используется дефолтный TERCEIRO_TOKEN_SECRET, измените в production!")
	}
	cfg.ThirdPartyTokenSecret = secret

	// CORS allowed origins
	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "")
	if originsStr == "" {
		if env == "production" {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS обязателен в production")
		}
		cfg.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	} else {
		cfg.AllowedOrigins = strings.Split(originsStr, ",")
		for i, origin := range cfg.AllowedOrigins {
			cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
		}
	}

	cfg.StoreProbeTimeout = mustParseDuration(getEnv("STORE_PROBE_TIMEOUT", "3s"))
	cfg.WebhookTimeout = mustParseDuration(getEnv("WEBHOOK_TIMEOUT", "10s"))
	cfg.MockDelay = mustParseDuration(getEnv("MOCK_DELAY", "600ms"))
	cfg.ThirdPartyTokenTTL = mustParseDuration(getEnv("TERCEIRO_TOKEN_TTL", "720h"))
	cfg.SLADays = int(mustParseInt64(getEnv("SLA_DAYS", "30")))
	cfg.MaxUploadSizeMB = mustParseInt64(getEnv("MAX_UPLOAD_MB", "10"))

	// Rate limiting настройки
	cfg.RateLimitLimit = mustParseInt64(getEnv("RATE_LIMIT_LIMIT", "30"))
	cfg.RateLimitPeriod = mustParseDuration(getEnv("RATE_LIMIT_PERIOD", "1m"))

	return cfg, nil
}

// WebhookPath возвращает путь действия во внешнем сервисе или пустую строку.
func (c *Config) WebhookPath(envKey string) string {
	return c.Webhooks[envKey]
}

// getEnv возвращает значение переменной окружения или дефолт.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getDatabaseURL возвращает DATABASE_URL либо из переменной, либо собирает из отдельных переменных.
// Пустая строка означает работу без базы.
func getDatabaseURL() string {
	if dbURL := getEnv("DATABASE_URL", ""); dbURL != "" {
		return dbURL
	}

	host := getEnv("POSTGRESQL_HOST", "")
	port := getEnv("POSTGRESQL_PORT", "5432")
	user := getEnv("POSTGRESQL_USER", "")
	password := getEnv("POSTGRESQL_PASSWORD", "")
	dbname := getEnv("POSTGRESQL_DBNAME", "")

	if host != "" && user != "" && dbname != "" {
		userInfo := url.UserPassword(user, password)
		return fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=disable",
			userInfo.String(), host, port, dbname)
	}

	return ""
}

// mustParseDuration безопасно парсит строку в duration.
func mustParseDuration(v string) time.Duration {
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: не удалось распарсить длительность %q: %v", v, err)
	}
	return dur
}

// mustParseInt64 безопасно парсит строку в int64.
func mustParseInt64(v string) int64 {
	num, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("config: не удалось распарсить число %q: %v", v, err)
	}
	return num
}
