package catalog

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/courseware-backend/internal/domain"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"github.com/yungbote/courseware-backend/internal/pkg/logger"
)

type CourseTagRepo interface {
	// Attach links tags to a course, ignoring links that already exist.
	Attach(dbc dbctx.Context, courseID uint, tagIDs []uint) (int, error)
	TagNamesByCourseID(dbc dbctx.Context, courseID uint) ([]string, error)
}

type courseTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseTagRepo(db *gorm.DB, baseLog *logger.Logger) CourseTagRepo {
	return &courseTagRepo{db: db, log: baseLog.With("repo", "CourseTagRepo")}
}

func (r *courseTagRepo) Attach(dbc dbctx.Context, courseID uint, tagIDs []uint) (int, error) {
	if courseID == 0 || len(tagIDs) == 0 {
		return 0, nil
	}
	rows := make([]*types.CourseTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, &types.CourseTag{CourseID: courseID, TagID: id})
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "tag_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *courseTagRepo) TagNamesByCourseID(dbc dbctx.Context, courseID uint) ([]string, error) {
	var out []string
	err := dbc.DB(r.db).
		Table("course_tag").
		Joins("JOIN tag ON tag.id = course_tag.tag_id").
		Where("course_tag.course_id = ?", courseID).
		Order("tag.name ASC").
		Pluck("tag.name", &out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
