package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
)

type ProgressAggregateDeps struct {
	Base   BaseDeps
	Stores Stores
	Stats  CourseStatsInvalidator
}

type progressAggregate struct {
	deps ProgressAggregateDeps
	flow completionFlow
}

func NewProgressAggregate(deps ProgressAggregateDeps) domainagg.ProgressAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Stats = invalidatorOrNoop(deps.Stats)
	return &progressAggregate{deps: deps, flow: completionFlow{s: deps.Stores}}
}

func (a *progressAggregate) Contract() domainagg.Contract {
	return domainagg.ProgressAggregateContract
}

func (a *progressAggregate) RecordLessonAccess(ctx context.Context, in domainagg.RecordLessonAccessInput) (domainagg.RecordLessonAccessResult, error) {
	const op = "progress.record_lesson_access"
	out := domainagg.RecordLessonAccessResult{}
	if err := a.validate(op); err != nil {
		return out, err
	}
	if in.UserID == uuid.Nil || in.LessonID == 0 {
		return out, MapError(op, ValidationError("user_id and lesson_id are required"))
	}
	if in.TimeSpentMinutes < 0 {
		return out, MapError(op, ValidationError("time_spent_minutes must be >= 0"))
	}
	at := a.deps.Base.at(in.AccessedAt)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		lesson, err := a.deps.Stores.Lessons.GetByID(dbc, in.LessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return NotFoundError(fmt.Sprintf("lesson %d not found", in.LessonID))
		}
		e, err := a.deps.Stores.Enrollments.GetByUserAndCourse(dbc, in.UserID, lesson.CourseID)
		if err != nil {
			return err
		}

		row := &learning.LearningProgress{
			UserID:           in.UserID,
			LessonID:         in.LessonID,
			Status:           learning.ProgressInProgress,
			TimeSpentMinutes: in.TimeSpentMinutes,
			StartedAt:        &at,
			LastAccessedAt:   &at,
		}
		if in.Notes != nil {
			row.Notes = *in.Notes
		}
		if in.Bookmarked != nil {
			row.IsBookmarked = *in.Bookmarked
		}
		if e != nil {
			row.EnrollmentID = &e.ID
		}
		created, err := a.deps.Stores.Progress.Ensure(dbc, row)
		if err != nil {
			return err
		}
		out.Created = created

		if !created {
			updates := map[string]interface{}{"last_accessed_at": at, "updated_at": at}
			if in.Notes != nil {
				updates["notes"] = *in.Notes
			}
			if in.Bookmarked != nil {
				updates["is_bookmarked"] = *in.Bookmarked
			}
			if err := a.deps.Stores.Progress.AddTimeSpent(dbc, in.UserID, in.LessonID, in.TimeSpentMinutes, updates); err != nil {
				return err
			}
		}

		cur, err := a.deps.Stores.Progress.GetByUserAndLesson(dbc, in.UserID, in.LessonID)
		if err != nil {
			return err
		}
		if cur == nil {
			return RetryableError("progress row vanished during update")
		}
		fix := map[string]interface{}{}
		if cur.Status == learning.ProgressNotStarted {
			fix["status"] = learning.ProgressInProgress
			cur.Status = learning.ProgressInProgress
		}
		if cur.StartedAt == nil {
			fix["started_at"] = at
			cur.StartedAt = &at
		}
		if cur.EnrollmentID == nil && e != nil {
			fix["enrollment_id"] = e.ID
			cur.EnrollmentID = &e.ID
		}
		if len(fix) > 0 {
			if err := a.deps.Stores.Progress.UpdateFields(dbc, cur.ID, fix); err != nil {
				return err
			}
		}
		if e != nil {
			if err := a.deps.Stores.Enrollments.UpdateFields(dbc, e.ID, map[string]interface{}{"last_accessed_at": at}); err != nil {
				return err
			}
		}
		out.Progress = cur

		ev := lessonEvent(in.UserID, lesson.CourseID, lesson.ID, learning.ActionView, at, in.Client)
		ev.DurationMinutes = in.TimeSpentMinutes
		return a.deps.Stores.Analytics.Create(dbc, ev)
	})
	if err != nil {
		return domainagg.RecordLessonAccessResult{}, err
	}
	return out, nil
}

func (a *progressAggregate) MarkLessonCompleted(ctx context.Context, in domainagg.MarkLessonCompletedInput) (domainagg.MarkLessonCompletedResult, error) {
	const op = "progress.mark_lesson_completed"
	out := domainagg.MarkLessonCompletedResult{}
	if err := a.validate(op); err != nil {
		return out, err
	}
	if in.UserID == uuid.Nil || in.LessonID == 0 {
		return out, MapError(op, ValidationError("user_id and lesson_id are required"))
	}
	at := a.deps.Base.at(in.CompletedAt)
	var courseID uint

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		lesson, err := a.deps.Stores.Lessons.GetByID(dbc, in.LessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return NotFoundError(fmt.Sprintf("lesson %d not found", in.LessonID))
		}
		courseID = lesson.CourseID

		// The enrollment lock serializes completions of one learner in one course.
		e, err := a.deps.Stores.Enrollments.LockByUserAndCourse(dbc, in.UserID, lesson.CourseID)
		if err != nil {
			return err
		}

		row := &learning.LearningProgress{
			UserID:         in.UserID,
			LessonID:       in.LessonID,
			Status:         learning.ProgressCompleted,
			StartedAt:      &at,
			CompletedAt:    &at,
			LastAccessedAt: &at,
		}
		if e != nil {
			row.EnrollmentID = &e.ID
		}
		created, err := a.deps.Stores.Progress.Ensure(dbc, row)
		if err != nil {
			return err
		}
		if !created {
			cur, err := a.deps.Stores.Progress.GetByUserAndLesson(dbc, in.UserID, in.LessonID)
			if err != nil {
				return err
			}
			if cur == nil {
				return RetryableError("progress row vanished during update")
			}
			updates := map[string]interface{}{"last_accessed_at": at, "updated_at": at}
			if cur.Status != learning.ProgressCompleted {
				updates["status"] = learning.ProgressCompleted
				updates["completed_at"] = at
				cur.Status = learning.ProgressCompleted
				cur.CompletedAt = &at
			}
			if cur.StartedAt == nil {
				updates["started_at"] = at
				cur.StartedAt = &at
			}
			if cur.EnrollmentID == nil && e != nil {
				updates["enrollment_id"] = e.ID
				cur.EnrollmentID = &e.ID
			}
			if err := a.deps.Stores.Progress.UpdateFields(dbc, cur.ID, updates); err != nil {
				return err
			}
			cur.LastAccessedAt = &at
			row = cur
		}
		out.Progress = row

		ev := lessonEvent(in.UserID, lesson.CourseID, lesson.ID, learning.ActionComplete, at, in.Client)
		if err := a.deps.Stores.Analytics.Create(dbc, ev); err != nil {
			return err
		}

		if e == nil {
			return nil
		}
		out.Enrollment = e
		completedNow, err := a.flow.recompute(dbc, e, at)
		if err != nil {
			return err
		}
		out.CourseCompleted = completedNow
		if err := a.deps.Stores.Enrollments.UpdateFields(dbc, e.ID, map[string]interface{}{"last_accessed_at": at}); err != nil {
			return err
		}
		e.LastAccessedAt = &at
		if e.Status == learning.EnrollmentCompleted {
			cert, err := a.flow.evaluate(dbc, e, at)
			if err != nil {
				return err
			}
			out.Certificate = cert
		}
		return nil
	})
	if err != nil {
		return domainagg.MarkLessonCompletedResult{}, err
	}
	if out.CourseCompleted {
		a.deps.Stats.InvalidateCourse(ctx, courseID)
	}
	return out, nil
}

func (a *progressAggregate) ToggleBookmark(ctx context.Context, in domainagg.ToggleBookmarkInput) (*learning.LearningProgress, error) {
	const op = "progress.toggle_bookmark"
	if err := a.validate(op); err != nil {
		return nil, err
	}
	if in.UserID == uuid.Nil || in.LessonID == 0 {
		return nil, MapError(op, ValidationError("user_id and lesson_id are required"))
	}
	var out *learning.LearningProgress
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		cur, err := a.deps.Stores.Progress.GetByUserAndLesson(dbc, in.UserID, in.LessonID)
		if err != nil {
			return err
		}
		if cur == nil {
			return NotFoundError(fmt.Sprintf("no progress for lesson %d", in.LessonID))
		}
		if cur.IsBookmarked != in.Value {
			if err := a.deps.Stores.Progress.UpdateFields(dbc, cur.ID, map[string]interface{}{"is_bookmarked": in.Value}); err != nil {
				return err
			}
			cur.IsBookmarked = in.Value
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *progressAggregate) RecomputeCourse(ctx context.Context, courseID uint) (domainagg.RecomputeCourseResult, error) {
	const op = "progress.recompute_course"
	out := domainagg.RecomputeCourseResult{CourseID: courseID}
	if err := a.validate(op); err != nil {
		return out, err
	}
	if courseID == 0 {
		return out, MapError(op, ValidationError("course_id is required"))
	}
	at := a.deps.Base.at(timeZero)
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		course, err := a.deps.Stores.Courses.GetByID(dbc, courseID)
		if err != nil {
			return err
		}
		if course == nil {
			return NotFoundError(fmt.Sprintf("course %d not found", courseID))
		}
		res, err := a.flow.recomputeCourse(dbc, courseID, at)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return domainagg.RecomputeCourseResult{CourseID: courseID}, err
	}
	if out.Completed > 0 {
		a.deps.Stats.InvalidateCourse(ctx, courseID)
	}
	return out, nil
}

func lessonEvent(userID uuid.UUID, courseID, lessonID uint, action learning.AnalyticsAction, at time.Time, client learning.ClientInfo) *learning.LearningAnalytics {
	ev := learning.NewEvent(userID, action, at, client)
	ev.CourseID = &courseID
	ev.LessonID = &lessonID
	ev.ContentType = learning.ContentLesson
	ev.ContentID = &lessonID
	return ev
}

func (a *progressAggregate) validate(op string) error {
	if a == nil || !a.deps.Stores.complete() {
		return domainagg.NewError(domainagg.CodeInternal, op, "progress aggregate dependencies are not configured", nil)
	}
	return nil
}
