package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port           string
	MongoURI       string
	MongoDatabase  string
	Auth0Domain    string
	Auth0Audience  string
	Auth0Namespace string
	JWTSecret      string
	AdminRole      string
	MaxUploadBytes int64
	DBTimeout      time.Duration
	DebugRoutes    bool
}

func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "3000"),
		MongoURI:       strings.TrimSpace(os.Getenv("MONGODB_URI")),
		MongoDatabase:  getEnv("MONGODB_DATABASE", "attendance"),
		Auth0Domain:    strings.TrimSpace(os.Getenv("AUTH0_DOMAIN")),
		Auth0Audience:  strings.TrimSpace(os.Getenv("AUTH0_AUDIENCE")),
		Auth0Namespace: strings.TrimSpace(os.Getenv("AUTH0_NAMESPACE")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AdminRole:      getEnv("ADMIN_ROLE", "admin"),
		MaxUploadBytes: int64(getIntEnv("MAX_UPLOAD_BYTES", 10<<20)),
		DBTimeout:      getDurationEnv("DB_TIMEOUT", 5*time.Second),
		DebugRoutes:    getBoolEnv("DEBUG_ROUTES", false),
	}

	if cfg.MongoURI == "" {
		return Config{}, errors.New("MONGODB_URI is required")
	}
	if cfg.Auth0Domain == "" && cfg.JWTSecret == "" {
		return Config{}, errors.New("either AUTH0_DOMAIN or JWT_SECRET must be set")
	}
	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < 32 {
		return Config{}, errors.New("JWT_SECRET must be at least 32 characters")
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.DBTimeout <= 0 {
		cfg.DBTimeout = 5 * time.Second
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getBoolEnv(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getIntEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
