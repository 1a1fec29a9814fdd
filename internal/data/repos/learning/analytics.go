package learning

import (
	"gorm.io/gorm"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type LearningAnalyticsRepo interface {
	Create(dbc dbctx.Context, ev *types.LearningAnalytics) error
}

type learningAnalyticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningAnalyticsRepo(db *gorm.DB, baseLog *logger.Logger) LearningAnalyticsRepo {
	return &learningAnalyticsRepo{db: db, log: baseLog.With("repo", "LearningAnalyticsRepo")}
}

func (r *learningAnalyticsRepo) Create(dbc dbctx.Context, ev *types.LearningAnalytics) error {
	if ev == nil {
		return nil
	}
	return dbc.DB(r.db).Create(ev).Error
}
