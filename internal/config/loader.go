package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/booking-platform/internal/cache"
)

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort      int
	SQLiteDSN     string
	LogLevel      string
	SessionTTL    time.Duration
	CacheDisabled bool
	CachePolicies cache.Policies
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to sensible defaults; invalid values are collected
// and reported together so an operator can fix them in one pass.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:      8080,
		SQLiteDSN:     "file:booking.db",
		LogLevel:      "info",
		SessionTTL:    24 * time.Hour,
		CachePolicies: cache.DefaultPolicies(),
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("BOOKING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "BOOKING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("BOOKING_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if level := strings.TrimSpace(os.Getenv("BOOKING_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if ttlValue := strings.TrimSpace(os.Getenv("BOOKING_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "BOOKING_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if disabledValue := strings.TrimSpace(os.Getenv("BOOKING_CACHE_DISABLED")); disabledValue != "" {
		disabled, err := strconv.ParseBool(disabledValue)
		if err != nil {
			invalid = append(invalid, "BOOKING_CACHE_DISABLED")
		} else {
			cfg.CacheDisabled = disabled
		}
	}

	for _, class := range cache.Classes {
		suffix := strings.ToUpper(string(class))
		policy := cfg.CachePolicies[class]

		ttlKey := "BOOKING_CACHE_TTL_" + suffix
		if ttlValue := strings.TrimSpace(os.Getenv(ttlKey)); ttlValue != "" {
			ttl, err := time.ParseDuration(ttlValue)
			if err != nil || ttl <= 0 {
				invalid = append(invalid, ttlKey)
			} else {
				policy.TTL = ttl
			}
		}

		sizeKey := "BOOKING_CACHE_SIZE_" + suffix
		if sizeValue := strings.TrimSpace(os.Getenv(sizeKey)); sizeValue != "" {
			size, err := strconv.Atoi(sizeValue)
			if err != nil || size <= 0 {
				invalid = append(invalid, sizeKey)
			} else {
				policy.MaxEntries = size
			}
		}

		cfg.CachePolicies[class] = policy
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
