package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so host settings cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SESSION_SECRET", "PORT", "ADMIN_PATH", "DATABASE_PATH", "ALLOW_DB_RESET",
		"SESSION_MAX_AGE", "COOKIE_SECURE", "SIGNIN_RATE_PER_MIN", "SIGNIN_BURST",
		"RATE_LIMIT_CLEANUP", "SNOWFLAKE_NODE", "SOCIAL_LOGIN", "COGNITO_REGION", "COGNITO_POOL_ID",
		"STATIC_URL", "STATIC_PATH", "IMAGE_S3_BUCKET", "WS_GATEWAY_ENDPOINT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_RequiresSessionSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when SESSION_SECRET is missing")
	}
	if !strings.Contains(err.Error(), "SESSION_SECRET") {
		t.Errorf("error = %q, should name SESSION_SECRET", err.Error())
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "3000")
	}
	if cfg.DatabasePath != "./database.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "./database.db")
	}
	if cfg.SessionMaxAge != 720*time.Hour {
		t.Errorf("SessionMaxAge = %v, want %v", cfg.SessionMaxAge, 720*time.Hour)
	}
	if cfg.AdminPath != "/admin" {
		t.Errorf("AdminPath = %q, want %q", cfg.AdminPath, "/admin")
	}
	if cfg.AllowDBReset {
		t.Error("AllowDBReset should default to false")
	}
	if cfg.SocialLogin {
		t.Error("SocialLogin should default to false")
	}
	if cfg.SignInRatePerMin != 10 || cfg.SignInBurst != 10 {
		t.Errorf("sign-in rate = %d/%d, want 10/10", cfg.SignInRatePerMin, cfg.SignInBurst)
	}
	if cfg.StaticURL != "/uploads" || cfg.StaticPath != "./uploads" {
		t.Errorf("static = %q -> %q, want /uploads -> ./uploads", cfg.StaticURL, cfg.StaticPath)
	}
	if cfg.ImagesOnS3() || cfg.RealtimeEnabled() {
		t.Error("S3 images and realtime should be off by default")
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_MAX_AGE", "2h")
	t.Setenv("ALLOW_DB_RESET", "true")
	t.Setenv("IMAGE_S3_BUCKET", "avatars")
	t.Setenv("SNOWFLAKE_NODE", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.SessionMaxAge != 2*time.Hour {
		t.Errorf("SessionMaxAge = %v, want 2h", cfg.SessionMaxAge)
	}
	if !cfg.AllowDBReset {
		t.Error("AllowDBReset should be true")
	}
	if !cfg.ImagesOnS3() {
		t.Error("ImagesOnS3 should be true when a bucket is set")
	}
	if cfg.SnowflakeNode != 7 {
		t.Errorf("SnowflakeNode = %d, want 7", cfg.SnowflakeNode)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SESSION_MAX_AGE", "forever")
	t.Setenv("SIGNIN_RATE_PER_MIN", "lots")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("RATE_LIMIT_CLEANUP", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.SessionMaxAge != 720*time.Hour {
		t.Errorf("SessionMaxAge = %v, want default", cfg.SessionMaxAge)
	}
	if cfg.SignInRatePerMin != 10 {
		t.Errorf("SignInRatePerMin = %d, want default", cfg.SignInRatePerMin)
	}
	if cfg.CookieSecure {
		t.Error("CookieSecure should fall back to false")
	}
	if cfg.RateLimitCleanup != 5*time.Minute {
		t.Errorf("RateLimitCleanup = %v, want default", cfg.RateLimitCleanup)
	}
}

func TestLoad_NegativeSessionMaxAgeFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SESSION_MAX_AGE", "-1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.SessionMaxAge != 720*time.Hour {
		t.Errorf("SessionMaxAge = %v, want default", cfg.SessionMaxAge)
	}
}

func TestLoad_SocialLoginRequiresCognito(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SOCIAL_LOGIN", "true")
	t.Setenv("COGNITO_REGION", "")
	t.Setenv("COGNITO_POOL_ID", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when social login lacks Cognito settings")
	}
	for _, name := range []string{"COGNITO_REGION", "COGNITO_POOL_ID"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error = %q, should name %s", err.Error(), name)
		}
	}
}
