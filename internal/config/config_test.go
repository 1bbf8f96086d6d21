package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func baseConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Database: DatabaseConfig{
			Path: "readwell.db",
		},
		Auth: AuthConfig{
			SessionSecret: "dev-session-secret-change-me",
			CSRFSecret:    "dev-csrf-secret-change-me",
			SessionMaxAge: 720 * time.Hour,
		},
	}
}

func TestValidateDevelopmentDefaults(t *testing.T) {
	cfg := baseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("development defaults should validate: %v", err)
	}
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	cfg := baseConfig()
	cfg.App.Environment = "qa"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected invalid environment error")
	}
}

func TestValidateProductionCollectsAllProblems(t *testing.T) {
	cfg := baseConfig()
	cfg.App.Environment = "production"
	cfg.Google = GoogleConfig{ClientID: "id", ClientSecret: "secret"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}

	msg := err.Error()
	wants := []string{
		"SESSION_SECRET", "CSRF_SECRET", "CORS_ORIGIN", "APP_URL",
		"S3_ENDPOINT", "S3_PUBLIC_URL", "GOOGLE_REDIRECT_URL",
	}
	for _, want := range wants {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %s in error, got: %s", want, msg)
		}
	}
}

func productionConfig() *Config {
	cfg := baseConfig()
	cfg.App.Environment = "production"
	cfg.App.AppURL = "https://read.example.com"
	cfg.App.CORSOrigin = "https://read.example.com"
	cfg.Auth.SessionSecret = strings.Repeat("s", 32)
	cfg.Auth.CSRFSecret = strings.Repeat("c", 32)
	cfg.Storage = StorageConfig{
		Endpoint:  "s3.example.com",
		Bucket:    "readwell",
		AccessKey: "key",
		SecretKey: "secret",
		PublicURL: "https://cdn.example.com",
	}
	return cfg
}

func TestValidateProductionFullyConfigured(t *testing.T) {
	if err := productionConfig().Validate(); err != nil {
		t.Fatalf("expected valid production config: %v", err)
	}
}

func TestValidateProductionNeedsMoreThanSecrets(t *testing.T) {
	cfg := baseConfig()
	cfg.App.Environment = "production"
	cfg.App.AppURL = "http://localhost:5173"
	cfg.Auth.SessionSecret = strings.Repeat("s", 32)
	cfg.Auth.CSRFSecret = strings.Repeat("c", 32)

	err := cfg.Validate()
	if err == nil {
		t.Fatal("strong secrets alone should not validate in production")
	}

	msg := err.Error()
	for _, want := range []string{"CORS_ORIGIN", "APP_URL", "S3_ENDPOINT", "S3_PUBLIC_URL"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %s in error, got: %s", want, msg)
		}
	}
}

func TestValidateProductionRejectsWildcardCORS(t *testing.T) {
	cfg := productionConfig()
	cfg.App.CORSOrigin = "*"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "CORS_ORIGIN") {
		t.Fatalf("wildcard CORS origin should be rejected, got: %v", err)
	}
}

func TestApplyRateLimitWindow(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "50")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg := baseConfig()
	cfg.RateLimit.PerMinute = 100
	if err := cfg.applyRateLimitWindow(); err != nil {
		t.Fatal(err)
	}
	if cfg.RateLimit.PerMinute != 100 {
		t.Errorf("50 per 30s should normalize to 100/min, got %d", cfg.RateLimit.PerMinute)
	}

	t.Setenv("RATE_LIMIT_WINDOW", "2m")
	if err := cfg.applyRateLimitWindow(); err != nil {
		t.Fatal(err)
	}
	if cfg.RateLimit.PerMinute != 25 {
		t.Errorf("50 per 2m should normalize to 25/min, got %d", cfg.RateLimit.PerMinute)
	}

	t.Setenv("RATE_LIMIT_WINDOW", "soon")
	if err := cfg.applyRateLimitWindow(); err == nil {
		t.Error("expected error for unparseable window")
	}
}

func TestGoogleEnabled(t *testing.T) {
	cfg := baseConfig()
	if cfg.GoogleEnabled() {
		t.Error("unconfigured Google OAuth should be disabled")
	}
	cfg.Google = GoogleConfig{ClientID: "id", ClientSecret: "secret"}
	if !cfg.GoogleEnabled() {
		t.Error("expected Google OAuth enabled")
	}
}

func TestS3Enabled(t *testing.T) {
	cfg := baseConfig()
	if cfg.S3Enabled() {
		t.Error("unconfigured S3 should be disabled")
	}
	cfg.Storage.Endpoint = "s3.example.com"
	cfg.Storage.Bucket = "readwell"
	if !cfg.S3Enabled() {
		t.Error("expected S3 enabled")
	}
}

func TestGetConfigValuePrecedence(t *testing.T) {
	t.Setenv("READWELL_TEST_KEY", "from-env")

	if got := getConfigValue("from-flag", "READWELL_TEST_KEY", "default"); got != "from-flag" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := getConfigValue("", "READWELL_TEST_KEY", "default"); got != "from-env" {
		t.Errorf("env should win over default, got %q", got)
	}
	if got := getConfigValue("", "READWELL_TEST_MISSING", "default"); got != "default" {
		t.Errorf("default should apply, got %q", got)
	}
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"1", true},
		{"YES", true},
		{"false", false},
		{"0", false},
		{"banana", false},
	}
	for _, tt := range tests {
		if got := getBoolConfigValue(tt.in, "READWELL_TEST_MISSING", true); got != tt.want {
			t.Errorf("getBoolConfigValue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if !getBoolConfigValue("", "READWELL_TEST_MISSING", true) {
		t.Error("empty value should fall back to default")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nREADWELL_ENVFILE_A=hello\nREADWELL_ENVFILE_B=\"quoted\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("READWELL_ENVFILE_A", "")
	t.Setenv("READWELL_ENVFILE_B", "")
	os.Unsetenv("READWELL_ENVFILE_A")
	os.Unsetenv("READWELL_ENVFILE_B")

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}
	if got := os.Getenv("READWELL_ENVFILE_A"); got != "hello" {
		t.Errorf("A = %q, want hello", got)
	}
	if got := os.Getenv("READWELL_ENVFILE_B"); got != "quoted" {
		t.Errorf("B = %q, want quoted (quotes stripped)", got)
	}
}

func TestExpandUploadDir(t *testing.T) {
	cfg := baseConfig()
	cfg.Storage.UploadDir = "uploads"
	if err := cfg.expandUploadDir(); err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(cfg.Storage.UploadDir) {
		t.Errorf("expected absolute path, got %q", cfg.Storage.UploadDir)
	}
}
