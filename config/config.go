package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultScoresTable = "student.ha_livescores"
	defaultStartDate   = "2024-01-01"
	defaultEndDate     = "2024-12-31"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBName      string
	DBSSLMode   string

	ScoresTable      string
	DBConnectTimeout time.Duration
	ServerPort       int
	CORSOrigins      []string
	LogLevel         slog.Level

	DefaultStartDate time.Time
	DefaultEndDate   time.Time

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
	BadgeURLTTL       time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBHost:      os.Getenv("DB_HOST"),
		DBName:      os.Getenv("DB_NAME"),
		DBSSLMode:   getEnvOrDefault("DB_SSLMODE", "disable"),
		ScoresTable: getEnvOrDefault("SCORES_TABLE", defaultScoresTable),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.DatabaseURL == "" {
		var missing []string
		for name, value := range map[string]string{
			"DB_USER":     cfg.DBUser,
			"DB_PASSWORD": cfg.DBPassword,
			"DB_HOST":     cfg.DBHost,
			"DB_NAME":     cfg.DBName,
		} {
			if value == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			return nil, fmt.Errorf("database credentials are not set (DATABASE_URL or %s)", strings.Join(missing, ", "))
		}
	}

	portStr := getEnvOrDefault("SERVER_PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	cfg.DBConnectTimeout, err = time.ParseDuration(getEnvOrDefault("DB_CONNECT_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONNECT_TIMEOUT environment variable: %w", err)
	}

	cfg.BadgeURLTTL, err = time.ParseDuration(getEnvOrDefault("BADGE_URL_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid BADGE_URL_TTL environment variable: %w", err)
	}
	// 0 отключает подпись: эмблемы отдаются по публичному URL бакета
	if cfg.BadgeURLTTL < 0 {
		return nil, fmt.Errorf("BADGE_URL_TTL must not be negative, got %s", cfg.BadgeURLTTL)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	cfg.DefaultStartDate, err = time.Parse(time.DateOnly, getEnvOrDefault("DEFAULT_START_DATE", defaultStartDate))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_START_DATE environment variable: %w", err)
	}
	cfg.DefaultEndDate, err = time.Parse(time.DateOnly, getEnvOrDefault("DEFAULT_END_DATE", defaultEndDate))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_END_DATE environment variable: %w", err)
	}
	if cfg.DefaultEndDate.Before(cfg.DefaultStartDate) {
		return nil, fmt.Errorf("DEFAULT_END_DATE (%s) is before DEFAULT_START_DATE (%s)",
			cfg.DefaultEndDate.Format(time.DateOnly), cfg.DefaultStartDate.Format(time.DateOnly))
	}

	for _, origin := range strings.Split(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	return cfg, nil
}

// DSN возвращает строку подключения для lib/pq.
// DATABASE_URL, если задан, имеет приоритет над отдельными секретами.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   c.DBHost,
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// BadgeStorageEnabled reports whether every R2 setting is present.
func (c *Config) BadgeStorageEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
