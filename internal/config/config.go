package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort  string
	GinMode     string
	LogLevel    string
	LogFormat   string
	DatabaseURL string
	MaxDBConns  int32
	// DatabaseCACertFile is an optional PEM bundle used to verify the database server.
	DatabaseCACertFile string
	AutoMigrate        bool

	// AllowedOrigins controls CORS. Nil means all origins are permitted.
	AllowedOrigins   []string
	AllowCredentials bool

	// AppURL is the public base URL that stored attachment paths are joined to.
	AppURL string
	// UploadDir is where attachments live on disk; FilesPath is where the
	// router exposes that directory.
	UploadDir      string
	FilesPath      string
	MaxUploadBytes int64
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8001"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "pretty"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		MaxDBConns:         int32(getEnvInt("MAX_DB_CONNS", 16)),
		DatabaseCACertFile: getEnv("DATABASE_CA_CERT_FILE", ""),
		AutoMigrate:        getEnvBool("AUTO_MIGRATE", true),
		AllowedOrigins:     parseOrigins(getEnv("ALLOW_ORIGINS", "*")),
		AllowCredentials:   getEnvBool("ALLOW_CREDENTIALS", true),
		AppURL:             getEnv("APP_URL", "http://localhost:8001"),
		UploadDir:          getEnv("UPLOAD_DIR", "./upload_files"),
		FilesPath:          getEnv("FILES_PATH", "/notes_service/upload_files"),
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 20)) * 1024 * 1024,
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	u, err := url.Parse(c.AppURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("APP_URL %q is not an absolute URL", c.AppURL))
	}
	if !strings.HasPrefix(c.FilesPath, "/") {
		errs = append(errs, fmt.Errorf("FILES_PATH %q must start with /", c.FilesPath))
	}
	return errors.Join(errs...)
}

// AllowsAllOrigins reports whether CORS is open to every origin.
func (c *Config) AllowsAllOrigins() bool {
	return len(c.AllowedOrigins) == 0
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty or contains "*".
func parseOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "*" {
			return nil
		}
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return nil
	}
	return origins
}
