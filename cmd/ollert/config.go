package main

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the Ollert server. Every value can be
// overridden from the environment; the defaults are for development only.
type Config struct {
	Addr      string
	SiteURL   string
	StaticDir string

	// Empty means the in-memory user store
	DatabaseURL string

	// Empty means the in-memory code cache
	CodeCachePath string

	JWTSecretKey  string
	SessionExpiry time.Duration

	BcryptCost int

	CodeLength           int
	EmailVerificationTTL time.Duration
	PasswordResetTTL     time.Duration

	GoogleClientID    string
	FacebookAppSecret string

	// Empty SMTPAddr means the console mailer
	SMTPAddr     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
}

func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.SiteURL = "http://localhost:8080"
	c.StaticDir = "static"
	c.JWTSecretKey = "dev-only-insecure-secret"
	c.SessionExpiry = 24 * time.Hour
	c.CodeLength = 20
	c.EmailVerificationTTL = 15 * time.Minute
	c.PasswordResetTTL = 15 * time.Minute
}

// LoadConfig builds a Config by applying defaults and then overlaying
// values from the environment.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()

	overlayString(&cfg.Addr, "OLLERT_ADDR")
	overlayString(&cfg.SiteURL, "SITE_URL")
	overlayString(&cfg.StaticDir, "STATIC_DIR")
	overlayString(&cfg.DatabaseURL, "DATABASE_URL")
	overlayString(&cfg.CodeCachePath, "CODE_CACHE_PATH")
	overlayString(&cfg.JWTSecretKey, "JWT_SECRET_KEY")
	overlayDuration(&cfg.SessionExpiry, "SESSION_EXPIRY")
	overlayInt(&cfg.BcryptCost, "BCRYPT_COST")
	overlayInt(&cfg.CodeLength, "CODE_LENGTH")
	overlayDuration(&cfg.EmailVerificationTTL, "EMAIL_VERIFICATION_CODE_TTL")
	overlayDuration(&cfg.PasswordResetTTL, "PASSWORD_RESET_CODE_TTL")
	overlayString(&cfg.GoogleClientID, "GOOGLE_CLIENT_ID")
	overlayString(&cfg.FacebookAppSecret, "FACEBOOK_APP_SECRET")
	overlayString(&cfg.SMTPAddr, "SMTP_ADDR")
	overlayString(&cfg.SMTPFrom, "SMTP_FROM")
	overlayString(&cfg.SMTPUsername, "SMTP_USERNAME")
	overlayString(&cfg.SMTPPassword, "SMTP_PASSWORD")

	return cfg
}

func overlayString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overlayInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overlayDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
