package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// External rate API
	RateAPIURL     string
	RateAPITimeout time.Duration
	// RateAPIInsecureSkipVerify disables TLS peer verification for the
	// upstream fetch. Verification is on by default; disabling it is an
	// explicit, audited opt-in for deployments with self-signed upstreams.
	RateAPIInsecureSkipVerify bool

	// Daily publish cutoff for the banking-day date rule (local time).
	RateCutoffHour   int
	RateCutoffMinute int

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RATE_API_URL", "https://brj.cz/exchange-rate-api")
	viper.SetDefault("RATE_API_TIMEOUT", "10s")
	viper.SetDefault("RATE_API_INSECURE_SKIP_VERIFY", false)
	viper.SetDefault("RATE_PUBLISH_CUTOFF", "14:45")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.RateAPIURL = viper.GetString("RATE_API_URL")
	cfg.RateAPITimeout = viper.GetDuration("RATE_API_TIMEOUT")
	cfg.RateAPIInsecureSkipVerify = viper.GetBool("RATE_API_INSECURE_SKIP_VERIFY")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	hour, minute, err := parseCutoff(viper.GetString("RATE_PUBLISH_CUTOFF"))
	if err != nil {
		return nil, err
	}
	cfg.RateCutoffHour = hour
	cfg.RateCutoffMinute = minute

	return cfg, nil
}

// parseCutoff parses an "HH:MM" wall-clock time.
func parseCutoff(value string) (int, int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid RATE_PUBLISH_CUTOFF %q, expected HH:MM", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid RATE_PUBLISH_CUTOFF hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid RATE_PUBLISH_CUTOFF minute in %q", value)
	}
	return hour, minute, nil
}
