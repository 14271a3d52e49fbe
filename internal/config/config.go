package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers understood by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// URLTTL is the lifetime of presigned content URLs handed out by the access gate.
	URLTTL time.Duration
}

// AuthConfig holds identity and session settings.
type AuthConfig struct {
	SessionSecret  string
	SessionTTL     time.Duration
	Issuer         string
	GoogleJWKSURL  string
	GoogleClientID string
	// AdminEmails are written into the roles table at startup.
	AdminEmails []string
}

// NotifyConfig holds claim event publishing settings. An empty queue URL disables publishing.
type NotifyConfig struct {
	SQSQueueURL string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	Timezone    string
	StoreDriver string
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Auth        AuthConfig
	Notify      NotifyConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"), // default only for non-sensitive value
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			URLTTL:    getEnvDuration("CONTENT_URL_TTL", time.Hour),
		},
		Auth: AuthConfig{
			SessionSecret:  getEnv("AUTH_SESSION_SECRET", ""),
			SessionTTL:     getEnvDuration("AUTH_SESSION_TTL", 12*time.Hour),
			Issuer:         getEnv("AUTH_ISSUER", "docmarket"),
			GoogleJWKSURL:  getEnv("AUTH_GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs"),
			GoogleClientID: getEnv("AUTH_GOOGLE_CLIENT_ID", ""),
			AdminEmails:    getEnvList("AUTH_ADMIN_EMAILS"),
		},
		Notify: NotifyConfig{
			SQSQueueURL: getEnv("NOTIFY_SQS_QUEUE_URL", ""),
		},
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate reports every missing required setting for the selected store driver.
func (c *AppConfig) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			errs = append(errs, errors.New("DB_HOST, DB_USER and DB_NAME are required for the postgres driver"))
		}
	case StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if len(c.Auth.SessionSecret) < 32 {
		errs = append(errs, errors.New("AUTH_SESSION_SECRET must be at least 32 bytes"))
	}
	if c.Auth.GoogleClientID == "" {
		errs = append(errs, errors.New("AUTH_GOOGLE_CLIENT_ID is required"))
	}
	if c.MinIO.URLTTL <= 0 {
		errs = append(errs, errors.New("CONTENT_URL_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

// getEnvList splits a comma separated value, trimming blanks and lowercasing entries.
func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
