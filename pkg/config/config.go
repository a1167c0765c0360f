package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMongo     = "mongo"
	BackendMemory    = "memory"
	BackendNone      = "none"
	BackendFirebase  = "firebase"
	BackendS3        = "s3"
	BackendFCM       = "fcm"
	BackendRedis     = "redis"
	AuthFirebase     = "firebase"
	AuthJWT          = "jwt"
)

type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	Env             string        `env:"ENV" envDefault:"development"`
	MetricsPort     string        `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envDefault:"*"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"firestore"`

	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseStorageBucket   string `env:"FIREBASE_STORAGE_BUCKET"`

	PostgresConnStr string `env:"POSTGRES_CONN_STR"`
	MongoURI        string `env:"MONGO_URI"`
	MongoDatabase   string `env:"MONGO_DATABASE" envDefault:"socialmedia"`

	AuthMode  string `env:"AUTH_MODE" envDefault:"firebase"`
	JWTSecret string `env:"JWT_SECRET"`

	PushBackend string `env:"PUSH_BACKEND" envDefault:"fcm"`

	MediaBackend       string `env:"MEDIA_BACKEND" envDefault:"firebase"`
	S3Bucket           string `env:"S3_BUCKET"`
	S3Prefix           string `env:"S3_PREFIX"`
	S3UsePathStyle     bool   `env:"S3_USE_PATH_STYLE"`
	MediaPublicBaseURL string `env:"MEDIA_PUBLIC_BASE_URL"`
	MediaMaxBytes      int64  `env:"MEDIA_MAX_BYTES" envDefault:"26214400"`

	CacheBackend string        `env:"CACHE_BACKEND" envDefault:"none"`
	RedisURL     string        `env:"REDIS_URL"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

// Load reads an optional .env file and parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, assuming environment variables are set.")
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// NeedsFirebase reports whether any configured component runs on the
// Firebase app.
func (c *Config) NeedsFirebase() bool {
	return c.StoreBackend == BackendFirestore ||
		c.AuthMode == AuthFirebase ||
		c.PushBackend == BackendFCM ||
		c.MediaBackend == BackendFirebase
}

// Validate rejects unknown backends and missing backend-specific settings.
func (c *Config) Validate() error {
	var errs []error
	oneOf := func(key, value string, allowed ...string) bool {
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		errs = append(errs, fmt.Errorf("%s must be one of %v, got %q", key, allowed, value))
		return false
	}
	require := func(key, value, when string) {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s is required when %s", key, when))
		}
	}

	if oneOf("STORE_BACKEND", c.StoreBackend, BackendFirestore, BackendPostgres, BackendMongo, BackendMemory) {
		switch c.StoreBackend {
		case BackendPostgres:
			require("POSTGRES_CONN_STR", c.PostgresConnStr, "STORE_BACKEND=postgres")
		case BackendMongo:
			require("MONGO_URI", c.MongoURI, "STORE_BACKEND=mongo")
		}
	}
	if oneOf("AUTH_MODE", c.AuthMode, AuthFirebase, AuthJWT) && c.AuthMode == AuthJWT {
		if len(c.JWTSecret) < 16 {
			errs = append(errs, errors.New("JWT_SECRET must be at least 16 bytes when AUTH_MODE=jwt"))
		}
	}
	oneOf("PUSH_BACKEND", c.PushBackend, BackendFCM, BackendNone)
	if oneOf("MEDIA_BACKEND", c.MediaBackend, BackendFirebase, BackendS3, BackendNone) {
		switch c.MediaBackend {
		case BackendFirebase:
			require("FIREBASE_STORAGE_BUCKET", c.FirebaseStorageBucket, "MEDIA_BACKEND=firebase")
		case BackendS3:
			require("S3_BUCKET", c.S3Bucket, "MEDIA_BACKEND=s3")
		}
	}
	if oneOf("CACHE_BACKEND", c.CacheBackend, BackendRedis, BackendMemory, BackendNone) && c.CacheBackend == BackendRedis {
		require("REDIS_URL", c.RedisURL, "CACHE_BACKEND=redis")
	}
	if c.MediaMaxBytes <= 0 {
		errs = append(errs, errors.New("MEDIA_MAX_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// SetupLogging applies LOG_LEVEL and switches to JSON output in production.
func (c *Config) SetupLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warn("unknown LOG_LEVEL, using info", "value", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetReportTimestamp(true)
	if c.IsProduction() {
		log.SetFormatter(log.JSONFormatter)
	}
}
