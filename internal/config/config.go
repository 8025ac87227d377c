package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Auth    AuthConfig
	Storage StorageConfig
	Digest  DigestConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AuthConfig restricts access to an allow-list of Google accounts.
type AuthConfig struct {
	GoogleClientID string
	AllowedEmails  []string
}

// StorageConfig points at the object store used for original-menu
// images. Optional: when BaseURL is empty, image upload is disabled.
type StorageConfig struct {
	BaseURL     string
	Bucket      string
	AccessToken string
}

// DigestConfig holds the pending-change digest scheduler settings.
type DigestConfig struct {
	CronSchedule string
	Timezone     string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "funch"),
		},
		Auth: AuthConfig{
			GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
			AllowedEmails:  splitList(os.Getenv("ALLOWED_EMAILS")),
		},
		Storage: StorageConfig{
			BaseURL:     os.Getenv("STORAGE_BASE_URL"),
			Bucket:      getenvWithDefault("STORAGE_BUCKET", "funch-menu-images"),
			AccessToken: os.Getenv("STORAGE_ACCESS_TOKEN"),
		},
		Digest: DigestConfig{
			CronSchedule: getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 6 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Tokyo"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Auth.GoogleClientID == "" {
		return errors.New("GOOGLE_CLIENT_ID must be provided")
	}

	if len(c.Auth.AllowedEmails) == 0 {
		return errors.New("ALLOWED_EMAILS must list at least one account")
	}

	if c.Storage.BaseURL != "" && c.Storage.AccessToken == "" {
		return errors.New("STORAGE_ACCESS_TOKEN must be provided when STORAGE_BASE_URL is set")
	}

	if c.Digest.CronSchedule == "" {
		return errors.New("DIGEST_CRON_SCHEDULE must be provided")
	}

	if c.Digest.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
