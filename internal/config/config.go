// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Google    GoogleConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	// AppURL is the public URL of the web client, used for OAuth redirects.
	AppURL string
	// CORSOrigin is the allowed browser origin. Empty means same-origin only.
	CORSOrigin string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// RequestTimeout bounds normal request handling.
	RequestTimeout time.Duration
	// UploadTimeout bounds book upload and import requests.
	UploadTimeout time.Duration
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	// Path to the SQLite database file.
	Path string
}

// AuthConfig holds session and CSRF configuration.
type AuthConfig struct {
	SessionSecret string
	CSRFSecret    string
	SessionMaxAge time.Duration
	// SessionSecure marks the session cookie Secure. Forced on in production.
	SessionSecure bool
}

// GoogleConfig holds Google OAuth configuration. OAuth is disabled when
// ClientID is empty.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// StorageConfig holds object storage configuration. When Endpoint is empty
// the filesystem backend under UploadDir is used.
type StorageConfig struct {
	Endpoint       string
	Bucket         string
	Region         string
	AccessKey      string
	SecretKey      string
	UseSSL         bool
	ForcePathStyle bool
	// PublicURL is the base URL stored objects are served from.
	PublicURL string
	// UploadDir is the filesystem backend root.
	UploadDir string
}

// RateLimitConfig holds request rate limiting configuration.
type RateLimitConfig struct {
	// PerMinute applies to all API requests, keyed by client IP.
	PerMinute int
	// AuthPerMinute applies to credential endpoints.
	AuthPerMinute int
	Burst         int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	port := flag.String("port", "", "Server port (default: 3000)")
	dbPath := flag.String("database", "", "Path to SQLite database file")
	appURL := flag.String("app-url", "", "Public URL of the web client")
	corsOrigin := flag.String("cors-origin", "", "Allowed browser origin")
	uploadDir := flag.String("upload-dir", "", "Directory for filesystem uploads")
	sessionMaxAge := flag.String("session-max-age", "", "Session lifetime (e.g., 720h)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			AppURL:      getConfigValue(*appURL, "APP_URL", "http://localhost:5173"),
			CORSOrigin:  getConfigValue(*corsOrigin, "CORS_ORIGIN", ""),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: getConfigValue(*port, "PORT", "3000"),
		},
		Database: DatabaseConfig{
			Path: getConfigValue(*dbPath, "DATABASE_URL", "readwell.db"),
		},
		Auth: AuthConfig{
			SessionSecret: getConfigValue("", "SESSION_SECRET", "dev-session-secret-change-me"),
			CSRFSecret:    getConfigValue("", "CSRF_SECRET", "dev-csrf-secret-change-me"),
			SessionSecure: getBoolConfigValue("", "SESSION_SECURE", false),
		},
		Google: GoogleConfig{
			ClientID:     getConfigValue("", "GOOGLE_CLIENT_ID", ""),
			ClientSecret: getConfigValue("", "GOOGLE_CLIENT_SECRET", ""),
			// GOOGLE_CALLBACK_URL is an accepted alias.
			RedirectURL: getConfigValue("", "GOOGLE_REDIRECT_URL",
				getConfigValue("", "GOOGLE_CALLBACK_URL", "")),
		},
		Storage: StorageConfig{
			Endpoint:       getConfigValue("", "S3_ENDPOINT", ""),
			Bucket:         getConfigValue("", "S3_BUCKET", ""),
			Region:         getConfigValue("", "S3_REGION", "us-east-1"),
			AccessKey:      getConfigValue("", "S3_ACCESS_KEY", ""),
			SecretKey:      getConfigValue("", "S3_SECRET_KEY", ""),
			UseSSL:         getBoolConfigValue("", "S3_USE_SSL", true),
			ForcePathStyle: getBoolConfigValue("", "S3_FORCE_PATH_STYLE", false),
			PublicURL:      getConfigValue("", "S3_PUBLIC_URL", ""),
			UploadDir:      getConfigValue(*uploadDir, "UPLOAD_DIR", "uploads"),
		},
		RateLimit: RateLimitConfig{
			PerMinute:     getIntConfigValue("", "RATE_LIMIT_PER_MINUTE", 100),
			AuthPerMinute: getIntConfigValue("", "RATE_LIMIT_AUTH_PER_MINUTE", 5),
			Burst:         getIntConfigValue("", "RATE_LIMIT_BURST", 20),
		},
	}

	maxAgeStr := getConfigValue(*sessionMaxAge, "SESSION_MAX_AGE", "720h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid session max age %q: %w", maxAgeStr, err)
	}
	cfg.Auth.SessionMaxAge = maxAge

	if err := cfg.parseTimeouts(); err != nil {
		return nil, err
	}

	if err := cfg.applyRateLimitWindow(); err != nil {
		return nil, err
	}

	if err := cfg.expandUploadDir(); err != nil {
		return nil, fmt.Errorf("invalid upload dir: %w", err)
	}

	// Production always gets a Secure session cookie.
	if cfg.IsProduction() {
		cfg.Auth.SessionSecure = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GoogleEnabled reports whether Google OAuth login is configured.
func (c *Config) GoogleEnabled() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != ""
}

// S3Enabled reports whether the S3 storage backend is configured.
func (c *Config) S3Enabled() bool {
	return c.Storage.Endpoint != "" && c.Storage.Bucket != ""
}

func (c *Config) parseTimeouts() error {
	pairs := []struct {
		dst    *time.Duration
		envKey string
		def    string
	}{
		{&c.Server.ReadTimeout, "SERVER_READ_TIMEOUT", "15s"},
		{&c.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT", "150s"},
		{&c.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT", "60s"},
		{&c.Server.RequestTimeout, "REQUEST_TIMEOUT", "30s"},
		{&c.Server.UploadTimeout, "UPLOAD_TIMEOUT", "120s"},
	}
	for _, p := range pairs {
		raw := getConfigValue("", p.envKey, p.def)
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", p.envKey, raw, err)
		}
		*p.dst = d
	}
	return nil
}

// applyRateLimitWindow accepts the RATE_LIMIT_MAX / RATE_LIMIT_WINDOW pair,
// which expresses the general limit as a request count per window, and
// normalizes it to the per-minute rate the limiter uses.
func (c *Config) applyRateLimitWindow() error {
	maxReq := getIntConfigValue("", "RATE_LIMIT_MAX", 0)
	if maxReq <= 0 {
		return nil
	}
	window := time.Minute
	if raw := os.Getenv("RATE_LIMIT_WINDOW"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid RATE_LIMIT_WINDOW %q", raw)
		}
		window = d
	}
	perMinute := int(float64(maxReq) * float64(time.Minute) / float64(window))
	if perMinute < 1 {
		perMinute = 1
	}
	c.RateLimit.PerMinute = perMinute
	return nil
}

// Validate checks that all required config values are present and valid.
// In production every unmet constraint is reported, not just the first.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Database.Path == "" {
		return errors.New("DATABASE_URL is required")
	}

	if c.Auth.SessionMaxAge <= 0 {
		return errors.New("SESSION_MAX_AGE must be positive")
	}

	if !c.IsProduction() {
		return nil
	}

	var problems []error
	if len(c.Auth.SessionSecret) < 32 || strings.HasPrefix(c.Auth.SessionSecret, "dev-") {
		problems = append(problems, errors.New("SESSION_SECRET must be set to at least 32 characters in production"))
	}
	if len(c.Auth.CSRFSecret) < 32 || strings.HasPrefix(c.Auth.CSRFSecret, "dev-") {
		problems = append(problems, errors.New("CSRF_SECRET must be set to at least 32 characters in production"))
	}
	if c.App.CORSOrigin == "" || c.App.CORSOrigin == "*" {
		problems = append(problems, errors.New("CORS_ORIGIN must name the web client origin in production (wildcard not allowed)"))
	}
	if c.App.AppURL == "" || strings.Contains(c.App.AppURL, "localhost") {
		problems = append(problems, errors.New("APP_URL must be set to the public client URL in production"))
	}
	if !c.S3Enabled() {
		problems = append(problems, errors.New("S3_ENDPOINT and S3_BUCKET are required in production"))
	} else if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
		problems = append(problems, errors.New("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3 is configured"))
	}
	if c.Storage.PublicURL == "" {
		problems = append(problems, errors.New("S3_PUBLIC_URL is required in production"))
	}
	if c.GoogleEnabled() && c.Google.RedirectURL == "" {
		problems = append(problems, errors.New("GOOGLE_REDIRECT_URL is required when Google OAuth is configured"))
	}
	return errors.Join(problems...)
}

// expandUploadDir expands ~ and makes the path absolute.
func (c *Config) expandUploadDir() error {
	path := c.Storage.UploadDir
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}
	c.Storage.UploadDir = filepath.Clean(path)
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
