// Package config loads the API configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every runtime option recognized by the API process.
type Config struct {
	Port        string
	FrontendURL string

	SaltRounds int

	ConfirmationTokenSecret string
	ConfirmationTokenTTL    time.Duration

	ResetTokenSecret string
	ResetTokenTTL    time.Duration

	SessionMaxAge   time.Duration
	SessionSecure   bool
	SessionHTTPOnly bool

	Email EmailConfig
	Redis RedisConfig
}

// EmailConfig holds SMTP transport options and the sender identity.
type EmailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	SenderName string
	SenderAddr string
}

// RedisConfig holds connection options for the session cache.
type RedisConfig struct {
	Addr     string
	Password string
}

// Load reads the configuration from the environment.
// Missing secrets are a startup error; optional values fall back to defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                    getenvDefault("API_PORT", "8080"),
		FrontendURL:             os.Getenv("API_FRONTEND_URL"),
		ConfirmationTokenSecret: os.Getenv("API_EMAIL_CONFIRMATION_JWT_SECRET"),
		ResetTokenSecret:        os.Getenv("API_RESET_PASSWORD_JWT_SECRET"),
		SessionSecure:           getenvBool("API_SESSION_SECURE", false),
		SessionHTTPOnly:         getenvBool("API_SESSION_HTTP_ONLY", true),
		Email: EmailConfig{
			Host:       os.Getenv("SMTP_HOST"),
			Port:       getenvInt("SMTP_PORT", 587),
			Username:   os.Getenv("SMTP_USERNAME"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			SenderName: os.Getenv("API_EMAIL_SENDER_NAME"),
			SenderAddr: os.Getenv("API_EMAIL_SENDER_EMAIL"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_HOST") + ":" + getenvDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}

	if cfg.FrontendURL == "" {
		return nil, fmt.Errorf("API_FRONTEND_URL is required")
	}
	if cfg.ConfirmationTokenSecret == "" {
		return nil, fmt.Errorf("API_EMAIL_CONFIRMATION_JWT_SECRET is required")
	}
	if cfg.ResetTokenSecret == "" {
		return nil, fmt.Errorf("API_RESET_PASSWORD_JWT_SECRET is required")
	}

	var err error
	if cfg.SaltRounds = getenvInt("API_SALT_ROUNDS", 10); cfg.SaltRounds < 4 {
		return nil, fmt.Errorf("API_SALT_ROUNDS must be at least 4, got %d", cfg.SaltRounds)
	}
	if cfg.ConfirmationTokenTTL, err = getenvDuration("API_EMAIL_CONFIRMATION_JWT_EXPIRATION", time.Hour); err != nil {
		return nil, err
	}
	if cfg.ResetTokenTTL, err = getenvDuration("API_RESET_PASSWORD_JWT_EXPIRATION", time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = getenvDuration("API_SESSION_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
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

func getenvBool(key string, def bool) bool {
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

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, v, err)
	}
	return d, nil
}
