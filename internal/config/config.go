package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"funtube-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Public base URL used for shareable links
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CORS
	ClientOrigins []string `env:"CLIENT_ORIGINS" envSeparator:"," envDefault:"http://localhost,http://localhost:5173"`

	// Database
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Database Connection Pool
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Authentication
	JWTSecret string        `env:"JWT_SECRET,notEmpty"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"funtube"`
	JWTExpiry time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`

	// Storage Backend Selection
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"local"` // Options: "local" or "s3"

	// Local Storage Configuration
	LocalStoragePath    string `env:"LOCAL_STORAGE_PATH" envDefault:"./uploads"`
	LocalStorageBaseURL string `env:"LOCAL_STORAGE_BASE_URL" envDefault:"/uploads"`

	// S3 Storage Configuration
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3AccessKeyID  string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`
	// S3PublicBaseURL overrides the generated object URL prefix, for
	// serving media through a CDN in front of the bucket.
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	// Upload limits
	MaxVideoBytes     int64 `env:"MAX_VIDEO_BYTES" envDefault:"524288000"`
	MaxThumbnailBytes int64 `env:"MAX_THUMBNAIL_BYTES" envDefault:"10485760"`

	// Admin seeding
	SeedAdmin     bool   `env:"SEED_ADMIN" envDefault:"true"`
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"Admin"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@funtube.local"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"1234"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.AppBaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.AppBaseURL), "/")
	if cfg.MaxVideoBytes <= 0 {
		cfg.MaxVideoBytes = 500 * 1024 * 1024
	}
	if cfg.MaxThumbnailBytes <= 0 {
		cfg.MaxThumbnailBytes = 10 * 1024 * 1024
	}
	if cfg.IsS3Storage() {
		if cfg.S3Bucket == "" || cfg.S3Region == "" {
			return nil, fmt.Errorf("S3_BUCKET and S3_REGION are required when STORAGE_BACKEND is s3")
		}
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage returns true if the local filesystem backend is configured.
func (c *Config) IsLocalStorage() bool {
	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	return backend == "" || backend == "local"
}

// IsS3Storage returns true if the S3 backend is configured.
func (c *Config) IsS3Storage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == "s3"
}

// PublicURL resolves a path or URL against the public application base URL.
func (c *Config) PublicURL(pathOrURL string) string {
	if pathOrURL == "" {
		return ""
	}
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.AppBaseURL + pathOrURL
}
