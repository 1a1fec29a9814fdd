package app

import (
	"context"
	"fmt"
	"os"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/courseware-backend/internal/clients/redis"
	"github.com/yungbote/courseware-backend/internal/data/db"
	"github.com/yungbote/courseware-backend/internal/data/repos"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
	"github.com/yungbote/courseware-backend/internal/services"
)

type App struct {
	Log        *logger.Logger
	DB         *gorm.DB
	Cfg        Config
	Metrics    *observability.Metrics
	Repos      *repos.Set
	Aggregates Aggregates
	Stats      services.CourseStatsService

	redis        goredis.UniversalClient
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New reads the environment and builds the application.
func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	LoadDotEnv(log)

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	a, err := Build(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// Build wires every component from cfg.
func Build(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	theDB, err := openDB(log, cfg)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, err
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		closeDB(theDB)
		_ = otelShutdown(ctx)
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	metrics := observability.NewMetrics()
	if err := metrics.RegisterDB(theDB, cfg.DBDriver); err != nil {
		log.Warn("db stats collector not registered", "error", err)
	}

	var rdb goredis.UniversalClient
	if cfg.RedisAddr != "" {
		rdb, err = redis.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			closeDB(theDB)
			_ = otelShutdown(ctx)
			return nil, fmt.Errorf("init redis: %w", err)
		}
	}
	cache := redis.NewCourseStatsCache(rdb, cfg.StatsCacheTTL, log, metrics)

	reposet := wireRepos(theDB, log)
	aggs, err := wireAggregates(theDB, log, metrics, reposet, cache)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		closeDB(theDB)
		_ = otelShutdown(ctx)
		return nil, err
	}

	var statsCache services.StatsCache
	if cache != nil {
		statsCache = cache
	}
	stats := services.NewCourseStatsService(log, reposet, statsCache)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Metrics:      metrics,
		Repos:        reposet,
		Aggregates:   aggs,
		Stats:        stats,
		redis:        rdb,
		otelShutdown: otelShutdown,
	}, nil
}

func openDB(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case DriverSQLite:
		svc, err := db.NewSQLiteService(log, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		return svc.DB(), nil
	default:
		svc, err := db.NewPostgresService(log, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return svc.DB(), nil
	}
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// HealthChecks returns the checks served on /healthz.
func (a *App) HealthChecks() []observability.HealthFunc {
	checks := []observability.HealthFunc{
		func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if a.redis != nil {
		checks = append(checks, func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		})
	}
	return checks
}

// Start launches the metrics server and background health checks.
func (a *App) Start(ctx context.Context) {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr, a.HealthChecks()...)
	a.Metrics.StartRedisCollector(ctx, a.Log, a.redis, a.Cfg.RedisProbeInterval)
	a.Log.Info("courseware started", "metrics_addr", a.Cfg.MetricsAddr, "db_driver", a.Cfg.DBDriver)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownGracePeriod)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.DB != nil {
		closeDB(a.DB)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
