package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	errInvalidPort         = errors.New("config: invalid PORT number")
	errNonPositiveDuration = errors.New("config: duration must be positive")
	errRateOutOfRange      = errors.New("config: WHOIS_RATE_LIMIT must be 1-50")
	errModelPathRequired   = errors.New("config: MODEL_PATH is required")
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port        string
	LogLevel    string
	ModelPath   string
	CORSOrigins []string

	PageFetchTimeout time.Duration
	WHOISTimeout     time.Duration
	DNSTimeout       time.Duration
	RequestTimeout   time.Duration
	WHOISRateLimit   int

	// AllowPrivateTargets disables the private-address dial guard. Local development only.
	AllowPrivateTargets bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory, when present, seeds variables that are
// not already set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "ERROR"),
		ModelPath:           getEnv("MODEL_PATH", "model.json"),
		CORSOrigins:         getEnvAsList("CORS_ORIGINS"),
		PageFetchTimeout:    getEnvAsDuration("PAGE_FETCH_TIMEOUT", 5*time.Second),
		WHOISTimeout:        getEnvAsDuration("WHOIS_TIMEOUT", 5*time.Second),
		DNSTimeout:          getEnvAsDuration("DNS_TIMEOUT", 3*time.Second),
		RequestTimeout:      getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		WHOISRateLimit:      getEnvAsInt("WHOIS_RATE_LIMIT", 2),
		AllowPrivateTargets: getEnvAsBool("ALLOW_PRIVATE_TARGETS", false),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: %q", errInvalidPort, c.Port)
	}

	if c.ModelPath == "" {
		return errModelPathRequired
	}

	durations := map[string]time.Duration{
		"PAGE_FETCH_TIMEOUT": c.PageFetchTimeout,
		"WHOIS_TIMEOUT":      c.WHOISTimeout,
		"DNS_TIMEOUT":        c.DNSTimeout,
		"REQUEST_TIMEOUT":    c.RequestTimeout,
	}
	for key, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%w: %s=%s", errNonPositiveDuration, key, d)
		}
	}

	if c.WHOISRateLimit < 1 || c.WHOISRateLimit > 50 {
		return fmt.Errorf("%w: got %d", errRateOutOfRange, c.WHOISRateLimit)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return v
}

// getEnvAsDuration accepts Go duration strings ("3s", "1500ms"). A value that
// does not parse is returned as zero so validate reports it.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return v
}

func getEnvAsList(key string) []string {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
