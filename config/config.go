package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const devSessionSecret = "smartspend-dev-session-secret"

// Config holds all server settings. Precedence, lowest first: defaults, the
// optional TOML file, .env, process environment.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Admin    AdminConfig    `toml:"admin"`
	Email    EmailConfig    `toml:"email"`
}

type ServerConfig struct {
	Port               string   `toml:"port"`
	Environment        string   `toml:"environment"`
	FrontendURL        string   `toml:"frontend_url"`
	AllowedOrigins     []string `toml:"allowed_origins"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	// Empty URL selects the in-memory store.
	URL string `toml:"url"`
}

type AuthConfig struct {
	SessionSecret     string `toml:"session_secret"`
	SessionTTLHours   int    `toml:"session_ttl_hours"`
	CookieSecure      bool   `toml:"cookie_secure"`
	DataEncryptionKey string `toml:"data_encryption_key"`
}

type AdminConfig struct {
	Username string `toml:"username"`
	Email    string `toml:"email"`
	Password string `toml:"password"`
	FullName string `toml:"full_name"`
}

type EmailConfig struct {
	ResendAPIKey string `toml:"resend_api_key"`
	From         string `toml:"from"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:               "8080",
			Environment:        "development",
			FrontendURL:        "http://localhost:3000",
			RateLimitPerMinute: 100,
		},
		Auth: AuthConfig{
			SessionTTLHours: 7 * 24,
		},
		Admin: AdminConfig{
			Username: "admin",
			Email:    "admin@smartspend.local",
			FullName: "System Administrator",
		},
		Email: EmailConfig{
			From: "alerts@smartspend.app",
		},
	}
}

// IsProduction reports whether the server runs in release mode.
func (c Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load builds the configuration. path may be empty; a missing .env file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ Could not parse .env file: %v", err)
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.FrontendURL, "FRONTEND_URL")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Auth.SessionSecret, "SESSION_SECRET")
	setString(&cfg.Auth.DataEncryptionKey, "DATA_ENCRYPTION_KEY")
	setString(&cfg.Admin.Username, "ADMIN_USERNAME")
	setString(&cfg.Admin.Email, "ADMIN_EMAIL")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")
	setString(&cfg.Email.ResendAPIKey, "RESEND_API_KEY")
	setString(&cfg.Email.From, "EMAIL_FROM")

	if os.Getenv("GIN_MODE") == "release" || os.Getenv("ENVIRONMENT") == "production" || os.Getenv("ENV") == "production" {
		cfg.Server.Environment = "production"
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_PER_MINUTE")); err == nil && v > 0 {
		cfg.Server.RateLimitPerMinute = v
	}
	if v, err := strconv.Atoi(os.Getenv("SESSION_TTL_HOURS")); err == nil && v > 0 {
		cfg.Auth.SessionTTLHours = v
	}
	if v, err := strconv.ParseBool(os.Getenv("COOKIE_SECURE")); err == nil {
		cfg.Auth.CookieSecure = v
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) validate() error {
	if c.Auth.SessionSecret == "" {
		if c.IsProduction() {
			return errors.New("SESSION_SECRET is required in production")
		}
		log.Println("⚠️ SESSION_SECRET not set, using development secret")
		c.Auth.SessionSecret = devSessionSecret
	}
	if key := c.Auth.DataEncryptionKey; key != "" && len(key) != 32 {
		return errors.New("DATA_ENCRYPTION_KEY must be exactly 32 characters")
	}
	if c.Server.RateLimitPerMinute <= 0 {
		return errors.New("rate_limit_per_minute must be positive")
	}
	return nil
}

// Origins returns the CORS allow-list: the frontend URL plus any extra origins.
func (c Config) Origins() []string {
	origins := []string{c.Server.FrontendURL}
	for _, o := range c.Server.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" && o != c.Server.FrontendURL {
			origins = append(origins, o)
		}
	}
	return origins
}
