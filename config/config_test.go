package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "FRONTEND_URL", "DATABASE_URL", "SESSION_SECRET", "DATA_ENCRYPTION_KEY",
		"ADMIN_USERNAME", "ADMIN_EMAIL", "ADMIN_PASSWORD", "RESEND_API_KEY", "EMAIL_FROM",
		"GIN_MODE", "ENVIRONMENT", "ENV", "ALLOWED_ORIGINS", "RATE_LIMIT_PER_MINUTE",
		"SESSION_TTL_HOURS", "COOKIE_SECURE",
	} {
		t.Setenv(k, "")
	}
	// Keep godotenv away from any .env in the package directory.
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.SessionSecret != devSessionSecret {
		t.Errorf("expected development session secret fallback")
	}
	if cfg.Database.URL != "" {
		t.Errorf("database url should default to empty (memory store)")
	}
	if cfg.IsProduction() {
		t.Errorf("default environment should not be production")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "smartspend.toml")
	body := `
[server]
port = "9000"
rate_limit_per_minute = 30
allowed_origins = ["https://a.example"]

[auth]
session_secret = "from-file"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9100")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9100" {
		t.Errorf("env should override file port, got %q", cfg.Server.Port)
	}
	if cfg.Server.RateLimitPerMinute != 30 {
		t.Errorf("rate limit = %d, want 30", cfg.Server.RateLimitPerMinute)
	}
	if cfg.Auth.SessionSecret != "from-file" {
		t.Errorf("session secret = %q", cfg.Auth.SessionSecret)
	}
	if !cfg.Auth.CookieSecure {
		t.Errorf("COOKIE_SECURE=true not applied")
	}
	origins := cfg.Origins()
	if len(origins) != 2 || origins[1] != "https://a.example" {
		t.Errorf("origins = %v", origins)
	}
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error when SESSION_SECRET is missing in production")
	}
}

func TestLoadRejectsShortEncryptionKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_ENCRYPTION_KEY", "too-short")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for short DATA_ENCRYPTION_KEY")
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
