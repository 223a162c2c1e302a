package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultPort              = "8080"
	defaultDatabaseURL       = "file:trekmarket.db?_pragma=foreign_keys(1)"
	defaultStaffTTL          = "24h"
	defaultCustomerTTL       = "720h"
	defaultOTPTTL            = "5m"
	defaultOTPResend         = "60s"
	defaultOTPDevConsole     = "true"
	defaultGatewayBaseURL    = "https://api.razorpay.com"
	defaultGatewayCurrency   = "INR"
	defaultGatewayTimeout    = "15s"
	defaultRatingCacheTTL    = "10m"
	defaultLogLevel          = "info"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultOTPPepper         = "change-me-otp-pepper"
	defaultGatewayKeyID      = "rzp_test_placeholder"
	defaultGatewayKeySecret  = "change-me-gateway-secret"
	defaultCORSAllowedOrigin = "http://localhost:3000,http://localhost:5173"
)

type GatewayConfig struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Currency  string
	Timeout   time.Duration
}

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	LogLevel    string

	JWTSecret   string
	StaffTTL    time.Duration
	CustomerTTL time.Duration

	OTPPepper         string
	OTPTTL            time.Duration
	OTPResendCooldown time.Duration
	OTPDevConsole     bool

	Gateway GatewayConfig

	RedisURL       string
	RatingCacheTTL time.Duration

	CORSAllowedOrigins []string
}

// Load reads .env (when present) and the process environment.
func Load(log logrus.FieldLogger) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.OTPPepper = strings.TrimSpace(getEnv("OTP_PEPPER", defaultOTPPepper))
	cfg.OTPDevConsole = parseBoolEnv("OTP_DEV_CONSOLE", defaultOTPDevConsole)
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	cfg.Gateway = GatewayConfig{
		BaseURL:   strings.TrimRight(strings.TrimSpace(getEnv("GATEWAY_BASE_URL", defaultGatewayBaseURL)), "/"),
		KeyID:     strings.TrimSpace(getEnv("GATEWAY_KEY_ID", defaultGatewayKeyID)),
		KeySecret: strings.TrimSpace(getEnv("GATEWAY_KEY_SECRET", defaultGatewayKeySecret)),
		Currency:  strings.ToUpper(strings.TrimSpace(getEnv("GATEWAY_CURRENCY", defaultGatewayCurrency))),
	}

	for _, o := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSAllowedOrigin), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	durations := []struct {
		name     string
		fallback string
		dst      *time.Duration
	}{
		{"JWT_STAFF_TTL", defaultStaffTTL, &cfg.StaffTTL},
		{"JWT_CUSTOMER_TTL", defaultCustomerTTL, &cfg.CustomerTTL},
		{"OTP_TTL", defaultOTPTTL, &cfg.OTPTTL},
		{"OTP_RESEND_COOLDOWN", defaultOTPResend, &cfg.OTPResendCooldown},
		{"GATEWAY_TIMEOUT", defaultGatewayTimeout, &cfg.Gateway.Timeout},
		{"RATING_CACHE_TTL", defaultRatingCacheTTL, &cfg.RatingCacheTTL},
	}
	for _, d := range durations {
		v, err := parseDurationEnv(d.name, d.fallback)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	if err := validateConfig(cfg, log); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProdLike reports whether placeholder secrets must be refused.
func (c *Config) IsProdLike() bool {
	return isProdLike(c.AppEnv)
}

func validateConfig(cfg *Config, log logrus.FieldLogger) error {
	positive := map[string]time.Duration{
		"JWT_STAFF_TTL":       cfg.StaffTTL,
		"JWT_CUSTOMER_TTL":    cfg.CustomerTTL,
		"OTP_TTL":             cfg.OTPTTL,
		"OTP_RESEND_COOLDOWN": cfg.OTPResendCooldown,
		"GATEWAY_TIMEOUT":     cfg.Gateway.Timeout,
		"RATING_CACHE_TTL":    cfg.RatingCacheTTL,
	}
	for name, d := range positive {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
	}
	if cfg.Gateway.Currency == "" {
		return fmt.Errorf("GATEWAY_CURRENCY must not be empty")
	}

	secrets := []struct {
		name  string
		value string
		def   string
	}{
		{"JWT_SECRET", cfg.JWTSecret, defaultJWTSecret},
		{"OTP_PEPPER", cfg.OTPPepper, defaultOTPPepper},
		{"GATEWAY_KEY_SECRET", cfg.Gateway.KeySecret, defaultGatewayKeySecret},
	}
	for _, s := range secrets {
		if !isEmptyOrDefault(s.value, s.def) {
			continue
		}
		if isProdLike(cfg.AppEnv) {
			return fmt.Errorf("in prod/release %s must be set and not default", s.name)
		}
		if log != nil {
			log.WithField("key", s.name).Warn("using insecure placeholder value, set it before deploying")
		}
	}

	if isProdLike(cfg.AppEnv) && cfg.OTPDevConsole {
		return fmt.Errorf("in prod/release OTP_DEV_CONSOLE must be false")
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
