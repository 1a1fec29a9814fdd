package app

import (
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/courseware-backend/internal/data/db"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
	"github.com/yungbote/courseware-backend/internal/platform/envutil"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver   string
	Postgres   db.PostgresConfig
	SQLitePath string

	RedisAddr     string
	StatsCacheTTL time.Duration

	MetricsAddr         string
	RedisProbeInterval  time.Duration
	ShutdownGracePeriod time.Duration

	Otel observability.OtelConfig
}

// LoadDotEnv loads .env from the working directory when present.
func LoadDotEnv(log *logger.Logger) {
	if err := godotenv.Load(); err != nil && log != nil {
		log.Debug("No .env file loaded", "error", err)
	}
}

func LoadConfig(log *logger.Logger) Config {
	driver := strings.ToLower(envutil.GetEnv("DB_DRIVER", DriverPostgres, log))
	if driver != DriverSQLite {
		driver = DriverPostgres
	}
	return Config{
		DBDriver: driver,
		Postgres: db.PostgresConfig{
			Host:            envutil.GetEnv("POSTGRES_HOST", "localhost", log),
			Port:            envutil.GetEnv("POSTGRES_PORT", "5432", log),
			User:            envutil.GetEnv("POSTGRES_USER", "postgres", log),
			Password:        envutil.GetEnv("POSTGRES_PASSWORD", "", log),
			Name:            envutil.GetEnv("POSTGRES_NAME", "courseware", log),
			SSLMode:         envutil.GetEnv("POSTGRES_SSLMODE", "disable", log),
			MaxOpenConns:    envutil.GetEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 20, log),
			MaxIdleConns:    envutil.GetEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 10, log),
			ConnMaxLifetime: envutil.GetEnvAsDuration("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute, log),
		},
		SQLitePath: envutil.GetEnv("SQLITE_PATH", "courseware.db", log),

		RedisAddr:     envutil.GetEnv("REDIS_ADDR", "", log),
		StatsCacheTTL: envutil.GetEnvAsDuration("STATS_CACHE_TTL", 5*time.Minute, log),

		MetricsAddr:         envutil.GetEnv("METRICS_ADDR", ":9090", log),
		RedisProbeInterval:  envutil.GetEnvAsDuration("REDIS_PROBE_INTERVAL", 15*time.Second, log),
		ShutdownGracePeriod: envutil.GetEnvAsDuration("SHUTDOWN_GRACE_PERIOD", 10*time.Second, log),

		Otel: observability.OtelConfig{
			Enabled:     envutil.GetEnvAsBool("OTEL_ENABLED", false, log),
			ServiceName: envutil.GetEnv("OTEL_SERVICE_NAME", "courseware", log),
			Environment: envutil.GetEnv("APP_ENV", "development", log),
			Version:     envutil.GetEnv("APP_VERSION", "", log),
			Endpoint:    envutil.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(envutil.GetEnv("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    envutil.GetEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: envutil.GetEnvAsFloat("OTEL_SAMPLER_RATIO", 1, log),
		},
	}
}
