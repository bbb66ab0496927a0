package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/example/booking-platform/internal/cache"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"BOOKING_HTTP_PORT",
			"BOOKING_SQLITE_DSN",
			"BOOKING_LOG_LEVEL",
			"BOOKING_SESSION_TTL",
			"BOOKING_CACHE_DISABLED",
			"BOOKING_CACHE_TTL_SEARCH",
			"BOOKING_CACHE_SIZE_SEARCH",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:booking.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.LogLevel != "info" {
			t.Fatalf("unexpected default log level: %q", cfg.LogLevel)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("unexpected default session TTL: %v", cfg.SessionTTL)
		}
		if cfg.CacheDisabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CachePolicies[cache.ClassSearch].TTL != 3*time.Minute {
			t.Fatalf("unexpected default search TTL: %v", cfg.CachePolicies[cache.ClassSearch].TTL)
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("BOOKING_HTTP_PORT", "9090")
		t.Setenv("BOOKING_SQLITE_DSN", "file:/tmp/booking.db")
		t.Setenv("BOOKING_LOG_LEVEL", "debug")
		t.Setenv("BOOKING_SESSION_TTL", "12h")
		t.Setenv("BOOKING_CACHE_DISABLED", "true")
		t.Setenv("BOOKING_CACHE_TTL_SEARCH", "90s")
		t.Setenv("BOOKING_CACHE_SIZE_SEARCH", "64")
		t.Setenv("BOOKING_CACHE_TTL_USER_BOOKINGS", "10m")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/booking.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.LogLevel != "debug" {
			t.Fatalf("unexpected log level: %q", cfg.LogLevel)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Fatalf("unexpected session TTL: %v", cfg.SessionTTL)
		}
		if !cfg.CacheDisabled {
			t.Fatalf("expected cache disabled")
		}
		search := cfg.CachePolicies[cache.ClassSearch]
		if search.TTL != 90*time.Second || search.MaxEntries != 64 {
			t.Fatalf("unexpected search policy: %+v", search)
		}
		if cfg.CachePolicies[cache.ClassUserBookings].TTL != 10*time.Minute {
			t.Fatalf("unexpected user bookings TTL: %v", cfg.CachePolicies[cache.ClassUserBookings].TTL)
		}
		if cfg.CachePolicies[cache.ClassHotel].TTL != time.Hour {
			t.Fatalf("expected untouched hotel TTL, got %v", cfg.CachePolicies[cache.ClassHotel].TTL)
		}
	})

	t.Run("collects every invalid value in one error", func(t *testing.T) {
		t.Setenv("BOOKING_HTTP_PORT", "-1")
		t.Setenv("BOOKING_SESSION_TTL", "later")
		t.Setenv("BOOKING_CACHE_TTL_SEARCH", "0s")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		for _, key := range []string{"BOOKING_HTTP_PORT", "BOOKING_SESSION_TTL", "BOOKING_CACHE_TTL_SEARCH"} {
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected error to mention %s, got %q", key, err.Error())
			}
		}
	})
}
