// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
	IsBackendAuthEnabled() bool
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RedisConfig provides settings for the Redis session cache and ticket store.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SessionConfig provides settings for the session resolver cache.
type SessionConfig interface {
	GetSessionCacheTTL() time.Duration
	GetPersistedSessionTTL() time.Duration
}

// MockAuthConfig provides settings for the in-memory mock auth provider.
type MockAuthConfig interface {
	IsMockAuthEnabled() bool
	GetRootAdminEmail() string
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketTicketImages() string
	IsMinIOEnabled() bool
}

// SMTPConfig provides settings for outbound notification email.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromAddress() string
	IsEmailEnabled() bool
}

// SchedulerConfig provides settings for background job scheduling.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
}

// TicketStoreConfig selects the authoritative ticket store backend.
type TicketStoreConfig interface {
	GetTicketStoreBackend() string
	GetUploadPlaceholderURL() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	JWTAccessSecret        string
	JWTRefreshSecret       string
	AccessTokenTTL         time.Duration
	RefreshTokenTTL        time.Duration
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	RedisURL               string
	RedisTLSInsecure       bool
	AsynqQueueName         string
	SessionCacheTTL        time.Duration
	PersistedSessionTTL    time.Duration
	MockAuthEnabled        bool
	RootAdminEmail         string
	TicketStoreBackend     string
	UploadPlaceholderURL   string
	MinIOEndpoint          string
	MinIOAccessKey         string
	MinIOSecretKey         string
	MinIOUseSSL            bool
	MinIOMaxFileSize       int64
	MinioBucketTicketImages string
	SMTPHost               string
	SMTPPort               int
	SMTPUsername           string
	SMTPPassword           string
	EmailFromAddress       string
	EmailEnabled           bool
}

// jwtSecretPlaceholder marks an unconfigured backend auth provider. When the
// access secret is absent or still the placeholder, the mock auth path is
// authoritative.
const jwtSecretPlaceholder = "placeholder"

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }
func (c *Config) IsBackendAuthEnabled() bool {
	return c.JWTAccessSecret != "" && c.JWTAccessSecret != jwtSecretPlaceholder
}

// AuthServiceConfig implementation
func (c *Config) GetAccessTokenTTL() time.Duration  { return c.AccessTokenTTL }
func (c *Config) GetRefreshTokenTTL() time.Duration { return c.RefreshTokenTTL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RedisConfig implementation
func (c *Config) GetRedisURL() string      { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }

// SessionConfig implementation
func (c *Config) GetSessionCacheTTL() time.Duration     { return c.SessionCacheTTL }
func (c *Config) GetPersistedSessionTTL() time.Duration { return c.PersistedSessionTTL }

// MockAuthConfig implementation
func (c *Config) IsMockAuthEnabled() bool   { return c.MockAuthEnabled }
func (c *Config) GetRootAdminEmail() string { return c.RootAdminEmail }

// TicketStoreConfig implementation
func (c *Config) GetTicketStoreBackend() string   { return c.TicketStoreBackend }
func (c *Config) GetUploadPlaceholderURL() string { return c.UploadPlaceholderURL }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string   { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string  { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string  { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool       { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64 { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketTicketImages() string {
	return c.MinioBucketTicketImages
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailEnabled() bool        { return c.EmailEnabled && c.SMTPHost != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTAccessSecret:        getEnv("JWT_ACCESS_SECRET", ""),
		JWTRefreshSecret:       getEnv("JWT_REFRESH_SECRET", ""),
		AccessTokenTTL:         mustDuration(getEnv("JWT_ACCESS_TTL", "15m")),
		RefreshTokenTTL:        mustDuration(getEnv("JWT_REFRESH_TTL", "720h")),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisURL:               getEnv("REDIS_URL", ""),
		RedisTLSInsecure:       strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:         getEnv("ASYNQ_QUEUE", "default"),
		SessionCacheTTL:        mustDuration(getEnv("SESSION_CACHE_TTL", "30m")),
		PersistedSessionTTL:    mustDuration(getEnv("PERSISTED_SESSION_TTL", "720h")),
		MockAuthEnabled:        strings.EqualFold(getEnv("MOCK_AUTH_ENABLED", "true"), "true"),
		RootAdminEmail:         getEnv("ROOT_ADMIN_EMAIL", "admin"),
		TicketStoreBackend:     getEnv("TICKET_STORE_BACKEND", "memory"),
		UploadPlaceholderURL:   getEnv("UPLOAD_PLACEHOLDER_URL", "https://placehold.co/600x400"),
		MinIOEndpoint:          getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:         getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:         getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:            strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:       mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "5242880")),
		MinioBucketTicketImages: getEnv("MINIO_BUCKET_TICKET_IMAGES", "ticket-images"),
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               int(mustInt64(getEnv("SMTP_PORT", "587"))),
		SMTPUsername:           getEnv("SMTP_USERNAME", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		EmailFromAddress:       getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailEnabled:           strings.EqualFold(getEnv("EMAIL_ENABLED", "false"), "true"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.IsBackendAuthEnabled() && cfg.JWTRefreshSecret == "" {
		return nil, fmt.Errorf("JWT_REFRESH_SECRET is required when backend auth is enabled")
	}
	if !cfg.IsBackendAuthEnabled() && !cfg.MockAuthEnabled {
		return nil, fmt.Errorf("either backend auth or MOCK_AUTH_ENABLED must be configured")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	switch cfg.TicketStoreBackend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("TICKET_STORE_BACKEND must be memory or redis, got %q", cfg.TicketStoreBackend)
	}
	if cfg.TicketStoreBackend == "redis" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required when TICKET_STORE_BACKEND is redis")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
