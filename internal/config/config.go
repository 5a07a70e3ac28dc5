package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// DefaultCredentialsFile is used when neither FIREBASE_CREDENTIALS_JSON nor
// FIREBASE_CREDENTIALS_PATH is set.
const DefaultCredentialsFile = "firebase-service-account.json"

// Config holds everything read from the environment at startup.
type Config struct {
	Port     int
	LogLevel slog.Level

	// Database
	DatabaseURL     string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration

	// Identity provider credentials, first non-empty wins.
	FirebaseCredentialsJSON string
	FirebaseCredentialsPath string

	// CORS
	AllowedOrigins       []string
	PreviewOriginPattern string

	// StrictTodoRead makes GET /todos/{id} require the caller to own the todo.
	StrictTodoRead bool

	// Per-user rate limit; RateLimitRPS <= 0 disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the configuration. Missing optional values fall back to
// defaults; malformed values are reported as errors.
func Load() (*Config, error) {
	var err error
	cfg := &Config{
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		FirebaseCredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
		FirebaseCredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
		PreviewOriginPattern:    getEnv("CORS_PREVIEW_ORIGIN_PATTERN", "https://*.vercel.app"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = blueprintDSN()
	}

	if cfg.Port, err = intEnv("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns, err = intEnv("DB_MAX_IDLE_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns, err = intEnv("DB_MAX_OPEN_CONNS", 100); err != nil {
		return nil, err
	}
	if cfg.ConnMaxLifetime, err = durationEnv("DB_CONN_MAX_LIFETIME", time.Hour); err != nil {
		return nil, err
	}
	if cfg.StrictTodoRead, err = boolEnv("STRICT_TODO_READ", false); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = floatEnv("RATE_LIMIT_RPS", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = intEnv("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg.AllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	return cfg, nil
}

// CredentialsSource names where the Firebase credentials come from, in the
// order they are considered: inline JSON, explicit path, default file.
func (c *Config) CredentialsSource() (kind, value string) {
	switch {
	case c.FirebaseCredentialsJSON != "":
		return "json", c.FirebaseCredentialsJSON
	case c.FirebaseCredentialsPath != "":
		return "path", c.FirebaseCredentialsPath
	default:
		return "default", DefaultCredentialsFile
	}
}

// blueprintDSN builds a DSN from the BLUEPRINT_DB_* variables used by
// earlier deployments.
func blueprintDSN() string {
	host := getEnv("BLUEPRINT_DB_HOST", "localhost")
	port := getEnv("BLUEPRINT_DB_PORT", "5432")
	user := getEnv("BLUEPRINT_DB_USERNAME", "postgres")
	password := os.Getenv("BLUEPRINT_DB_PASSWORD")
	database := getEnv("BLUEPRINT_DB_DATABASE", "todo_db")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, database, port)
	if schema := os.Getenv("BLUEPRINT_DB_SCHEMA"); schema != "" {
		dsn += " search_path=" + schema
	}
	return dsn
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
