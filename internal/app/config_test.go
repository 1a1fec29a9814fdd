package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("STATS_CACHE_TTL", "")
	cfg := LoadConfig(nil)
	if cfg.DBDriver != DriverPostgres {
		t.Fatalf("driver: want=%s got=%s", DriverPostgres, cfg.DBDriver)
	}
	if cfg.StatsCacheTTL != 5*time.Minute {
		t.Fatalf("stats ttl: got=%s", cfg.StatsCacheTTL)
	}
	if cfg.Otel.ServiceName == "" || cfg.Otel.SampleRatio != 1 {
		t.Fatalf("otel defaults: %+v", cfg.Otel)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("STATS_CACHE_TTL", "30")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "api-key=abc")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.1")

	cfg := LoadConfig(nil)
	if cfg.DBDriver != DriverSQLite || cfg.SQLitePath != ":memory:" {
		t.Fatalf("sqlite: driver=%s path=%s", cfg.DBDriver, cfg.SQLitePath)
	}
	if cfg.StatsCacheTTL != 30*time.Second {
		t.Fatalf("stats ttl: want=30s got=%s", cfg.StatsCacheTTL)
	}
	if !cfg.Otel.Enabled || cfg.Otel.Headers["api-key"] != "abc" || cfg.Otel.SampleRatio != 0.1 {
		t.Fatalf("otel: %+v", cfg.Otel)
	}
}

func TestLoadConfigUnknownDriverFallsBackToPostgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	if got := LoadConfig(nil).DBDriver; got != DriverPostgres {
		t.Fatalf("driver: got=%s", got)
	}
}
