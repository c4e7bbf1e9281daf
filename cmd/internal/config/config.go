// Package config reads the process environment once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is immutable after Load.
type Config struct {
	// Server
	Port      string
	AdminPath string

	// Database
	DatabasePath string
	AllowDBReset bool

	// Session
	SessionSecret     string
	SessionMaxAge     time.Duration
	CookieSecure      bool
	SignInRatePerMin  int
	SignInBurst       int
	RateLimitCleanup  time.Duration
	SnowflakeNode     int64
	BodyLimit         string
	CORSAllowedOrigin string

	// Social login
	SocialLogin   bool
	CognitoRegion string
	CognitoPoolID string

	// Files
	StaticURL      string
	StaticPath     string
	ImageS3Region  string
	ImageS3Bucket  string
	ImagePublicURL string

	// Realtime
	WSGatewayEndpoint string
	WSGatewayRegion   string
}

// Load reads Config from the environment. Missing required variables are
// reported together.
func Load() (*Config, error) {
	cfg := &Config{}
	var missing []string

	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	cfg.SocialLogin = getEnvBool("SOCIAL_LOGIN", false)
	if cfg.SocialLogin {
		cfg.CognitoRegion = os.Getenv("COGNITO_REGION")
		if cfg.CognitoRegion == "" {
			missing = append(missing, "COGNITO_REGION")
		}

		cfg.CognitoPoolID = os.Getenv("COGNITO_POOL_ID")
		if cfg.CognitoPoolID == "" {
			missing = append(missing, "COGNITO_POOL_ID")
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.Port = getEnvString("PORT", "3000")
	cfg.AdminPath = getEnvString("ADMIN_PATH", "/admin")
	cfg.DatabasePath = getEnvString("DATABASE_PATH", "./database.db")
	cfg.AllowDBReset = getEnvBool("ALLOW_DB_RESET", false)
	cfg.SessionMaxAge = getEnvDuration("SESSION_MAX_AGE", 30*24*time.Hour)
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", false)
	cfg.SignInRatePerMin = getEnvInt("SIGNIN_RATE_PER_MIN", 10)
	cfg.SignInBurst = getEnvInt("SIGNIN_BURST", cfg.SignInRatePerMin)
	cfg.RateLimitCleanup = getEnvDuration("RATE_LIMIT_CLEANUP", 5*time.Minute)
	cfg.SnowflakeNode = getEnvInt64("SNOWFLAKE_NODE", 1)
	cfg.BodyLimit = getEnvString("BODY_LIMIT", "30M")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")
	cfg.StaticURL = getEnvString("STATIC_URL", "/uploads")
	cfg.StaticPath = getEnvString("STATIC_PATH", "./uploads")
	cfg.ImageS3Region = getEnvString("IMAGE_S3_REGION", "us-east-2")
	cfg.ImageS3Bucket = getEnvString("IMAGE_S3_BUCKET", "")
	cfg.ImagePublicURL = getEnvString("IMAGE_PUBLIC_URL", "")
	cfg.WSGatewayEndpoint = getEnvString("WS_GATEWAY_ENDPOINT", "")
	cfg.WSGatewayRegion = getEnvString("WS_GATEWAY_REGION", "us-east-2")

	return cfg, nil
}

// ImagesOnS3 reports whether avatars go to the S3 bucket instead of local disk.
func (c *Config) ImagesOnS3() bool {
	return c.ImageS3Bucket != ""
}

func (c *Config) RealtimeEnabled() bool {
	return c.WSGatewayEndpoint != ""
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

// getEnvDuration only accepts positive durations.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
