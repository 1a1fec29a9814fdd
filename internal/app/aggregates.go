package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/courseware-backend/internal/clients/redis"
	dataagg "github.com/yungbote/courseware-backend/internal/data/aggregates"
	"github.com/yungbote/courseware-backend/internal/data/repos"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type Aggregates struct {
	Enrollment  domainagg.EnrollmentAggregate
	Progress    domainagg.ProgressAggregate
	Quiz        domainagg.QuizAggregate
	Certificate domainagg.CertificateAggregate
	Integrity   domainagg.IntegrityAggregate
}

func wireAggregates(db *gorm.DB, log *logger.Logger, metrics *observability.Metrics, set *repos.Set, cache *redis.CourseStatsCache) (Aggregates, error) {
	log.Info("Wiring aggregates...")
	base := dataagg.BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: dataagg.NewObservabilityHooks(metrics),
	}
	stores := dataagg.NewStores(set)

	var stats dataagg.CourseStatsInvalidator
	if cache != nil {
		stats = cache
	}

	integrity, err := dataagg.NewIntegrityAggregate(dataagg.IntegrityAggregateDeps{
		Base:   withLog(base, "IntegrityAggregate"),
		Stores: stores,
		Stats:  stats,
	})
	if err != nil {
		return Aggregates{}, fmt.Errorf("load integrity rules: %w", err)
	}

	return Aggregates{
		Enrollment: dataagg.NewEnrollmentAggregate(dataagg.EnrollmentAggregateDeps{
			Base:   withLog(base, "EnrollmentAggregate"),
			Stores: stores,
			Stats:  stats,
		}),
		Progress: dataagg.NewProgressAggregate(dataagg.ProgressAggregateDeps{
			Base:   withLog(base, "ProgressAggregate"),
			Stores: stores,
			Stats:  stats,
		}),
		Quiz: dataagg.NewQuizAggregate(dataagg.QuizAggregateDeps{
			Base:   withLog(base, "QuizAggregate"),
			Stores: stores,
			Stats:  stats,
		}),
		Certificate: dataagg.NewCertificateAggregate(dataagg.CertificateAggregateDeps{
			Base:   withLog(base, "CertificateAggregate"),
			Stores: stores,
		}),
		Integrity: integrity,
	}, nil
}

func withLog(base dataagg.BaseDeps, name string) dataagg.BaseDeps {
	base.Log = base.Log.With("aggregate", name)
	return base
}
