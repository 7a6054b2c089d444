package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/stream")
	t.Setenv("JWT_SECRET", "abcdefghijklmnopqrstuvwxyz123456")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "development" || cfg.HTTPPort != "5001" {
		t.Fatalf("unexpected defaults: env=%q port=%q", cfg.Env, cfg.HTTPPort)
	}
	if cfg.SessionTokenTTL != 168*time.Hour {
		t.Fatalf("expected 7d session TTL, got %v", cfg.SessionTokenTTL)
	}
	if cfg.VerificationTokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h verification TTL, got %v", cfg.VerificationTokenTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", cfg.BcryptCost)
	}
	if cfg.CookieSameSite != "strict" || !cfg.CookieSecure {
		t.Fatalf("unexpected cookie defaults: samesite=%q secure=%v", cfg.CookieSameSite, cfg.CookieSecure)
	}
	if cfg.EmailFailurePolicy != EmailFailurePolicyLog {
		t.Fatalf("expected log email policy, got %q", cfg.EmailFailurePolicy)
	}
	if cfg.IsProduction() {
		t.Fatal("development must not report production")
	}
}

func TestLoadValidationErrors(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"DATABASE_URL is required", "JWT_SECRET must be at least 32 chars"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in error, got %q", want, msg)
		}
	}
}

func TestLoadRejectsBadDurations(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_TOKEN_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for SESSION_TOKEN_TTL")
	}
}

func TestValidateEmailPolicy(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EMAIL_FAILURE_POLICY", "retry")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "EMAIL_FAILURE_POLICY") {
		t.Fatalf("expected email policy validation error, got %v", err)
	}
}

func TestValidateProductionRequiresProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "RESEND_API_KEY") {
		t.Fatalf("expected production provider requirement, got %v", err)
	}

	t.Setenv("RESEND_API_KEY", "re_test_key")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "RESEND_NO_REPLY_EMAIL") {
		t.Fatalf("expected no-reply requirement with api key, got %v", err)
	}

	t.Setenv("RESEND_NO_REPLY_EMAIL", "no-reply@stream.example")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load production config: %v", err)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production env")
	}
}
