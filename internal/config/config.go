package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Server  ServerConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	GitHub  GitHubConfig
	Auth    AuthConfig
	Share   ShareConfig
	OTel    OTelConfig
}

type AppConfig struct {
	Name     string
	Version  string
	Env      string
	LogLevel string
}

type ServerConfig struct {
	Port string
	Host string
}

type MongoDBConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GitHubConfig struct {
	APIBaseURL     string
	GraphQLURL     string
	ClientID       string
	ClientSecret   string
	CallbackURL    string
	RequestTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type ShareConfig struct {
	BaseURL           string
	IDLength          int
	DefaultExpireDays int
	CreatePerMinute   int
	ViewPerMinute     int
}

type OTelConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "gitpulse"),
			Version:  getEnv("APP_VERSION", "0.1.0"),
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
			Host: getEnv("APP_HOST", "localhost"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "gitpulse"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		GitHub: GitHubConfig{
			APIBaseURL:     getEnv("GITHUB_API_BASE_URL", "https://api.github.com"),
			GraphQLURL:     getEnv("GITHUB_GRAPHQL_URL", "https://api.github.com/graphql"),
			ClientID:       getEnv("GITHUB_CLIENT_ID", ""),
			ClientSecret:   getEnv("GITHUB_CLIENT_SECRET", ""),
			CallbackURL:    getEnv("GITHUB_OAUTH_CALLBACK_URL", "http://localhost:8080/auth/github/callback"),
			RequestTimeout: GetEnvDuration("GITHUB_REQUEST_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  GetEnvDuration("JWT_TOKEN_TTL", 24*time.Hour),
		},
		Share: ShareConfig{
			BaseURL:           getEnv("SHARE_BASE_URL", "http://localhost:8080"),
			IDLength:          getEnvInt("SHARE_ID_LENGTH", 16),
			DefaultExpireDays: getEnvInt("SHARE_DEFAULT_EXPIRE_DAYS", 30),
			CreatePerMinute:   getEnvInt("SHARE_CREATE_PER_MINUTE", 10),
			ViewPerMinute:     getEnvInt("SHARE_VIEW_PER_MINUTE", 120),
		},
		OTel: OTelConfig{
			Enabled:  getEnvBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		},
	}

	if cfg.Share.IDLength < 12 || cfg.Share.IDLength > 64 {
		return nil, fmt.Errorf("SHARE_ID_LENGTH must be between 12 and 64 (got %d)", cfg.Share.IDLength)
	}
	if cfg.Share.DefaultExpireDays < 1 || cfg.Share.DefaultExpireDays > 365 {
		return nil, fmt.Errorf("SHARE_DEFAULT_EXPIRE_DAYS must be between 1 and 365 (got %d)", cfg.Share.DefaultExpireDays)
	}
	if cfg.Auth.JWTSecret == "" && cfg.App.Env != "development" {
		return nil, fmt.Errorf("JWT_SECRET is required outside development")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
