package aggregates

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
)

type EnrollmentAggregateDeps struct {
	Base   BaseDeps
	Stores Stores
	Stats  CourseStatsInvalidator
}

type enrollmentAggregate struct {
	deps EnrollmentAggregateDeps
	flow completionFlow
}

func NewEnrollmentAggregate(deps EnrollmentAggregateDeps) domainagg.EnrollmentAggregate {
	deps.Base = deps.Base.withDefaults()
	deps.Stats = invalidatorOrNoop(deps.Stats)
	return &enrollmentAggregate{deps: deps, flow: completionFlow{s: deps.Stores}}
}

func (a *enrollmentAggregate) Contract() domainagg.Contract {
	return domainagg.EnrollmentAggregateContract
}

func (a *enrollmentAggregate) Enroll(ctx context.Context, in domainagg.EnrollInput) (domainagg.EnrollResult, error) {
	const op = "enrollment.enroll"
	out := domainagg.EnrollResult{}
	if err := a.validate(op); err != nil {
		return out, err
	}
	if in.UserID == uuid.Nil || in.CourseID == 0 {
		return out, MapError(op, ValidationError("user_id and course_id are required"))
	}
	if in.PricePaid < 0 || math.IsNaN(in.PricePaid) || math.IsInf(in.PricePaid, 0) {
		return out, MapError(op, ValidationError("price_paid must be a non-negative amount"))
	}
	at := a.deps.Base.at(in.EnrolledAt)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		course, err := a.deps.Stores.Courses.GetByID(dbc, in.CourseID)
		if err != nil {
			return err
		}
		if course == nil {
			return NotFoundError(fmt.Sprintf("course %d not found", in.CourseID))
		}
		if !course.OpenForEnrollment() {
			return PreconditionError(fmt.Sprintf("course %d is not open for enrollment", in.CourseID))
		}

		row := &learning.Enrollment{
			UserID:     in.UserID,
			CourseID:   in.CourseID,
			Status:     learning.EnrollmentActive,
			PricePaid:  learning.Round2(in.PricePaid),
			EnrolledAt: at,
		}
		if _, err := a.deps.Stores.Enrollments.Create(dbc, []*learning.Enrollment{row}); err != nil {
			if IsUniqueViolation(err) {
				return codedError(domainagg.CodeDuplicateEnrollment, "user is already enrolled in this course", err)
			}
			return err
		}

		// Lessons touched before enrolling count toward progress.
		linked, err := a.deps.Stores.Progress.LinkEnrollment(dbc, row.UserID, row.CourseID, row.ID)
		if err != nil {
			return err
		}
		if linked > 0 {
			if _, err := a.flow.recompute(dbc, row, at); err != nil {
				return err
			}
		}
		out.Enrollment = row
		return nil
	})
	if err != nil {
		return domainagg.EnrollResult{}, err
	}
	a.deps.Stats.InvalidateCourse(ctx, in.CourseID)
	return out, nil
}

func (a *enrollmentAggregate) MarkCompleted(ctx context.Context, in domainagg.MarkEnrollmentCompletedInput) (domainagg.MarkEnrollmentCompletedResult, error) {
	const op = "enrollment.mark_completed"
	out := domainagg.MarkEnrollmentCompletedResult{}
	if err := a.validate(op); err != nil {
		return out, err
	}
	if in.EnrollmentID == 0 {
		return out, MapError(op, ValidationError("enrollment_id is required"))
	}
	at := a.deps.Base.at(in.CompletedAt)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		e, err := a.deps.Stores.Enrollments.LockByID(dbc, in.EnrollmentID)
		if err != nil {
			return err
		}
		if e == nil {
			return NotFoundError(fmt.Sprintf("enrollment %d not found", in.EnrollmentID))
		}
		out.Enrollment = e

		switch e.Status {
		case learning.EnrollmentCompleted:
			out.AlreadyCompleted = true
		case learning.EnrollmentActive:
			if _, err := a.flow.recompute(dbc, e, at); err != nil {
				return err
			}
			if e.Status != learning.EnrollmentCompleted {
				return InvariantError(fmt.Sprintf("course progress is %.2f%%; completion requires 100%%", e.Progress))
			}
		default:
			return InvariantError(fmt.Sprintf("enrollment in status %s cannot be completed", e.Status))
		}

		cert, err := a.flow.evaluate(dbc, e, at)
		if err != nil {
			return err
		}
		out.Certificate = cert
		return nil
	})
	if err != nil {
		return domainagg.MarkEnrollmentCompletedResult{}, err
	}
	if !out.AlreadyCompleted {
		a.deps.Stats.InvalidateCourse(ctx, out.Enrollment.CourseID)
	}
	return out, nil
}

func (a *enrollmentAggregate) ChangeStatus(ctx context.Context, in domainagg.ChangeEnrollmentStatusInput) (domainagg.ChangeEnrollmentStatusResult, error) {
	const op = "enrollment.change_status"
	out := domainagg.ChangeEnrollmentStatusResult{}
	if err := a.validate(op); err != nil {
		return out, err
	}
	if in.EnrollmentID == 0 {
		return out, MapError(op, ValidationError("enrollment_id is required"))
	}
	if !in.Status.Valid() {
		return out, MapError(op, ValidationError(fmt.Sprintf("unknown enrollment status %q", in.Status)))
	}
	if in.Status == learning.EnrollmentCompleted {
		return a.completeViaStatus(ctx, in)
	}
	at := a.deps.Base.at(in.ChangedAt)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		e, err := a.deps.Stores.Enrollments.LockByID(dbc, in.EnrollmentID)
		if err != nil {
			return err
		}
		if e == nil {
			return NotFoundError(fmt.Sprintf("enrollment %d not found", in.EnrollmentID))
		}
		out.Enrollment = e
		out.PreviousStatus = e.Status
		if e.Status == in.Status {
			return nil
		}
		if !e.Status.CanTransitionTo(in.Status) {
			return InvariantError(fmt.Sprintf("enrollment cannot move from %s to %s", e.Status, in.Status))
		}
		ok, err := a.deps.Base.CASGuard.UpdateByStatus(dbc, learning.Enrollment{}.TableName(), e.ID,
			[]string{string(e.Status)},
			map[string]any{"status": in.Status, "updated_at": at},
		)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "enrollment status changed concurrently"); err != nil {
			return err
		}
		e.Status = in.Status
		e.UpdatedAt = at
		out.Changed = true
		return nil
	})
	if err != nil {
		return domainagg.ChangeEnrollmentStatusResult{}, err
	}
	if out.Changed {
		a.deps.Stats.InvalidateCourse(ctx, out.Enrollment.CourseID)
	}
	return out, nil
}

// completeViaStatus routes a status change to completed through the progress check.
func (a *enrollmentAggregate) completeViaStatus(ctx context.Context, in domainagg.ChangeEnrollmentStatusInput) (domainagg.ChangeEnrollmentStatusResult, error) {
	res, err := a.MarkCompleted(ctx, domainagg.MarkEnrollmentCompletedInput{
		EnrollmentID: in.EnrollmentID,
		CompletedAt:  in.ChangedAt,
	})
	if err != nil {
		return domainagg.ChangeEnrollmentStatusResult{}, err
	}
	out := domainagg.ChangeEnrollmentStatusResult{
		Enrollment:     res.Enrollment,
		PreviousStatus: learning.EnrollmentActive,
		Changed:        !res.AlreadyCompleted,
	}
	if res.AlreadyCompleted {
		out.PreviousStatus = learning.EnrollmentCompleted
	}
	return out, nil
}

func (a *enrollmentAggregate) validate(op string) error {
	if a == nil || !a.deps.Stores.complete() {
		return domainagg.NewError(domainagg.CodeInternal, op, "enrollment aggregate dependencies are not configured", nil)
	}
	return nil
}
