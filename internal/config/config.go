package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// Logging
	LogLevel  string
	LogPretty bool

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// JWT
	JwtSecret string
	JwtTTL    time.Duration

	// Server
	ApiPort           string
	ServiceApiPort    string
	CorsAllowedOrigin string

	// Object storage
	StorageDriver      string // "s3" or "minio"
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string
	ImageBaseS3URL     string
	MinioEndpoint      string
	MinioUseSSL        bool

	// Uploads
	UploadMaxSizeMB   int
	ImageMaxDimension int
	DefaultTrekImage  string

	// Google Places
	GooglePlacesAPIKey  string
	GooglePlacesBaseURL string

	// Email
	SmtpHost        string
	SmtpPort        int
	SmtpUsername    string
	SmtpPassword    string
	SmtpFromAddress string
	AdminAlertEmail string
	EmailLogFile    string // also append outgoing mail here when set

	// Rate Limiting Defaults
	RateLimitBucketSize int
	RateLimitRefillRate int // tokens per second

	// Performance monitor
	SlowRequestThreshold time.Duration
	SlowSampleCapacity   int
}

// env reads typed values from the process environment and remembers every
// problem, so a bad deployment reports all of its broken keys at once.
type env struct {
	errs []error
}

func (e *env) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func (e *env) required(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		e.errs = append(e.errs, fmt.Errorf("missing required environment variable: %s", key))
	}
	return v
}

func (e *env) int(key string, def int) int {
	raw := e.str(key, strconv.Itoa(def))
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s %q: %w", key, raw, err))
		return def
	}
	return n
}

func (e *env) bool(key string, def bool) bool {
	raw := e.str(key, strconv.FormatBool(def))
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("invalid %s %q: %w", key, raw, err))
		return def
	}
	return b
}

// duration reads an integer count of unit.
func (e *env) duration(key string, def int, unit time.Duration) time.Duration {
	return time.Duration(e.int(key, def)) * unit
}

func (e *env) oneOf(key, def string, allowed ...string) string {
	v := e.str(key, def)
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	e.errs = append(e.errs, fmt.Errorf("invalid %s: %q (expected %s)", key, v, strings.Join(allowed, " or ")))
	return def
}

// Load reads the configuration from .env and the environment. runMode comes
// from the command line.
func Load(runMode string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	e := &env{}
	cfg := &Config{
		RunMode:   runMode,
		LogLevel:  e.str("LOG_LEVEL", "info"),
		LogPretty: e.bool("LOG_PRETTY", false),

		MongoURI:    e.required("MONGO_URI"),
		MongoDbName: e.str("MONGO_DB_NAME", "trekking"),

		RedisAddr:     e.str("REDIS_ADDR", "localhost:6379"),
		RedisPassword: e.str("REDIS_PASSWORD", ""),
		RedisDB:       e.int("REDIS_DB", 0),
		CacheTTL:      e.duration("CACHE_TTL_SECONDS", 300, time.Second),

		JwtSecret: e.required("JWT_SECRET"),
		JwtTTL:    e.duration("JWT_TTL_SECONDS", 86400, time.Second),

		ApiPort:           e.str("API_PORT", "5000"),
		ServiceApiPort:    e.str("SERVICE_API_PORT", "12345"),
		CorsAllowedOrigin: e.str("CORS_ALLOWED_ORIGIN", "*"),

		StorageDriver:      e.oneOf("STORAGE_DRIVER", "s3", "s3", "minio"),
		AwsAccessKeyID:     e.str("AWS_ACCESS_KEY_ID", ""),
		AwsSecretAccessKey: e.str("AWS_SECRET_ACCESS_KEY", ""),
		AwsRegion:          e.str("AWS_REGION", "ap-south-1"),
		AwsS3Bucket:        e.str("AWS_S3_BUCKET", ""),
		ImageBaseS3URL:     e.str("IMAGE_BASE_S3_URL", ""),
		MinioEndpoint:      e.str("MINIO_ENDPOINT", "localhost:9000"),
		MinioUseSSL:        e.bool("MINIO_USE_SSL", false),

		UploadMaxSizeMB:   e.int("UPLOAD_MAX_SIZE_MB", 5),
		ImageMaxDimension: e.int("IMAGE_MAX_DIMENSION", 2048),
		DefaultTrekImage:  e.str("DEFAULT_TREK_IMAGE", "default-trek.jpg"),

		GooglePlacesAPIKey:  e.str("GOOGLE_PLACES_API_KEY", ""),
		GooglePlacesBaseURL: e.str("GOOGLE_PLACES_BASE_URL", ""),

		SmtpHost:        e.str("SMTP_HOST", ""),
		SmtpPort:        e.int("SMTP_PORT", 587),
		SmtpUsername:    e.str("SMTP_USERNAME", ""),
		SmtpPassword:    e.str("SMTP_PASSWORD", ""),
		SmtpFromAddress: e.str("SMTP_FROM_ADDRESS", "noreply@trek.example.com"),
		AdminAlertEmail: e.str("ADMIN_ALERT_EMAIL", ""),
		EmailLogFile:    e.str("EMAIL_LOG_FILE", ""),

		RateLimitBucketSize: e.int("RATE_LIMIT_BUCKET_SIZE", 30),
		RateLimitRefillRate: e.int("RATE_LIMIT_REFILL_RATE", 10),

		SlowRequestThreshold: e.duration("SLOW_REQUEST_THRESHOLD_MS", 1000, time.Millisecond),
		SlowSampleCapacity:   e.int("SLOW_SAMPLE_CAPACITY", 100),
	}
	if err := errors.Join(e.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}
