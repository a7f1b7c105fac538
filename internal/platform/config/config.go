// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures everything cmd/server needs to wire the process.
type Server struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	KafkaBrokers  []string
	JWTSigningKey string

	// Organizer login credential. The hash is a bcrypt digest; the plain
	// password never appears in configuration.
	OrganizerUser         string
	OrganizerPasswordHash string

	// VerifyTimeout bounds one identity verification call; calls exceeding
	// it count as a failed attempt.
	VerifyTimeout time.Duration
	// AttemptLimit is the number of consecutive verification failures
	// tolerated before a check-in session is exhausted.
	AttemptLimit int
	// SessionTTL bounds how long an idle verification session survives.
	SessionTTL time.Duration

	// Default window durations for newly created events.
	CheckInWindow  time.Duration
	CheckOutWindow time.Duration
}

// FromEnv reads configuration from the environment. Only DATABASE_URL is
// required; everything else has development defaults.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:                  ":8080",
		RedisURL:              os.Getenv("REDIS_URL"),
		JWTSigningKey:         os.Getenv("JWT_SIGNING_KEY"),
		OrganizerUser:         os.Getenv("ORGANIZER_USER"),
		OrganizerPasswordHash: os.Getenv("ORGANIZER_PASSWORD_HASH"),
		VerifyTimeout:         5 * time.Second,
		AttemptLimit:          3,
		SessionTTL:            10 * time.Minute,
		CheckInWindow:         30 * time.Minute,
		CheckOutWindow:        30 * time.Minute,
	}

	if addr := os.Getenv("ROLLCALL_ADDR"); addr != "" {
		cfg.Addr = addr
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return Server{}, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if cfg.JWTSigningKey == "" {
		// Development default; must be overridden in production.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	var err error
	if cfg.VerifyTimeout, err = durationEnv("VERIFY_TIMEOUT", cfg.VerifyTimeout); err != nil {
		return Server{}, err
	}
	if cfg.SessionTTL, err = durationEnv("VERIFY_SESSION_TTL", cfg.SessionTTL); err != nil {
		return Server{}, err
	}
	if cfg.CheckInWindow, err = minutesEnv("CHECKIN_WINDOW_MINUTES", cfg.CheckInWindow); err != nil {
		return Server{}, err
	}
	if cfg.CheckOutWindow, err = minutesEnv("CHECKOUT_WINDOW_MINUTES", cfg.CheckOutWindow); err != nil {
		return Server{}, err
	}
	if raw := os.Getenv("VERIFY_ATTEMPT_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Server{}, fmt.Errorf("VERIFY_ATTEMPT_LIMIT must be a positive integer, got %q", raw)
		}
		cfg.AttemptLimit = n
	}

	return cfg, nil
}

func durationEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", name, raw)
	}
	return d, nil
}

func minutesEnv(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return time.Duration(n) * time.Minute, nil
}
