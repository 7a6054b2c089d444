package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EmailFailurePolicyLog  = "log"
	EmailFailurePolicyFail = "fail"
)

type Config struct {
	Env      string
	HTTPPort string
	LogLevel string

	DatabaseURL string

	JWTSecret            string
	SessionTokenTTL      time.Duration
	VerificationTokenTTL time.Duration

	BcryptCost int

	CookieDomain   string
	CookieSecure   bool
	CookieSameSite string

	ResendAPIKey       string
	ResendNoReplyEmail string
	EmailFailurePolicy string

	AvatarBaseURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPPort:           getEnv("HTTP_PORT", "5001"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		BcryptCost:         getEnvInt("BCRYPT_COST", 10),
		CookieDomain:       os.Getenv("COOKIE_DOMAIN"),
		CookieSecure:       getEnvBool("COOKIE_SECURE", true),
		CookieSameSite:     strings.ToLower(getEnv("COOKIE_SAMESITE", "strict")),
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		ResendNoReplyEmail: os.Getenv("RESEND_NO_REPLY_EMAIL"),
		EmailFailurePolicy: strings.ToLower(getEnv("EMAIL_FAILURE_POLICY", EmailFailurePolicyLog)),
		AvatarBaseURL:      getEnv("AVATAR_BASE_URL", "https://api.dicebear.com/9.x/pixel-art/svg"),
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TOKEN_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("parse SESSION_TOKEN_TTL: %w", err)
	}
	cfg.SessionTokenTTL = sessionTTL

	verificationTTL, err := time.ParseDuration(getEnv("VERIFICATION_TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse VERIFICATION_TOKEN_TTL: %w", err)
	}
	cfg.VerificationTokenTTL = verificationTTL

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string
	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 chars")
	}
	if c.SessionTokenTTL <= 0 || c.SessionTokenTTL > (30*24*time.Hour) {
		errs = append(errs, "SESSION_TOKEN_TTL must be between 1s and 30d")
	}
	if c.VerificationTokenTTL <= 0 || c.VerificationTokenTTL > (7*24*time.Hour) {
		errs = append(errs, "VERIFICATION_TOKEN_TTL must be between 1s and 7d")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, "BCRYPT_COST must be between 4 and 31")
	}
	switch c.CookieSameSite {
	case "strict", "lax", "none":
	default:
		errs = append(errs, "COOKIE_SAMESITE must be one of strict, lax, none")
	}
	switch c.EmailFailurePolicy {
	case EmailFailurePolicyLog, EmailFailurePolicyFail:
	default:
		errs = append(errs, "EMAIL_FAILURE_POLICY must be log or fail")
	}
	if c.ResendAPIKey != "" && c.ResendNoReplyEmail == "" {
		errs = append(errs, "RESEND_NO_REPLY_EMAIL is required when RESEND_API_KEY is set")
	}
	if c.IsProduction() && c.ResendAPIKey == "" {
		errs = append(errs, "RESEND_API_KEY is required in production")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
