package aggregates

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/domain/credential"
	"github.com/yungbote/courseware-backend/internal/domain/learning"
	"github.com/yungbote/courseware-backend/internal/pkg/dbctx"
	"gorm.io/datatypes"
)

const certificateNumberAttempts = 5

// completionFlow holds the in-transaction steps shared by every write that can
// move an enrollment to completed or issue a certificate. Callers must hold
// the enrollment row lock.
type completionFlow struct {
	s Stores
}

// recompute sets Enrollment.Progress from completed lessons and completes an
// active enrollment that reaches 100. It reports whether this call completed it.
func (f completionFlow) recompute(dbc dbctx.Context, e *learning.Enrollment, at time.Time) (bool, error) {
	total, err := f.s.Lessons.CountByCourseID(dbc, e.CourseID)
	if err != nil {
		return false, err
	}
	done, err := f.s.Progress.CountCompletedInCourse(dbc, e.UserID, e.CourseID)
	if err != nil {
		return false, err
	}
	pct := learning.ProgressPercent(done, total)

	updates := map[string]interface{}{}
	if pct != e.Progress {
		updates["progress"] = pct
		e.Progress = pct
	}
	completedNow := false
	if pct >= 100 && e.Status == learning.EnrollmentActive {
		updates["status"] = learning.EnrollmentCompleted
		updates["completed_at"] = at
		e.Status = learning.EnrollmentCompleted
		e.CompletedAt = &at
		completedNow = true
	}
	if len(updates) == 0 {
		return false, nil
	}
	updates["updated_at"] = at
	if err := f.s.Enrollments.UpdateFields(dbc, e.ID, updates); err != nil {
		return false, err
	}
	return completedNow, nil
}

// recomputeCourse recomputes every enrollment of a course and evaluates
// certificates for the ones it completes.
func (f completionFlow) recomputeCourse(dbc dbctx.Context, courseID uint, at time.Time) (domainagg.RecomputeCourseResult, error) {
	out := domainagg.RecomputeCourseResult{CourseID: courseID}
	rows, err := f.s.Enrollments.ListByCourseID(dbc, courseID)
	if err != nil {
		return out, err
	}
	for _, row := range rows {
		e, err := f.s.Enrollments.LockByID(dbc, row.ID)
		if err != nil {
			return out, err
		}
		if e == nil {
			continue
		}
		out.Enrollments++
		completedNow, err := f.recompute(dbc, e, at)
		if err != nil {
			return out, err
		}
		if completedNow {
			out.Completed++
			if _, err := f.evaluate(dbc, e, at); err != nil {
				return out, err
			}
		}
	}
	return out, nil
}

// evaluateFor locks the (user, course) enrollment and evaluates it.
func (f completionFlow) evaluateFor(dbc dbctx.Context, userID uuid.UUID, courseID uint, at time.Time) (domainagg.EvaluateCertificateResult, error) {
	e, err := f.s.Enrollments.LockByUserAndCourse(dbc, userID, courseID)
	if err != nil {
		return domainagg.EvaluateCertificateResult{}, err
	}
	if e == nil {
		return domainagg.EvaluateCertificateResult{}, NotFoundError(fmt.Sprintf("no enrollment for course %d", courseID))
	}
	return f.evaluate(dbc, e, at)
}

// evaluate issues a certificate for a completed enrollment whose active
// course-level quizzes are all passed. An existing certificate is returned as is.
func (f completionFlow) evaluate(dbc dbctx.Context, e *learning.Enrollment, at time.Time) (domainagg.EvaluateCertificateResult, error) {
	out := domainagg.EvaluateCertificateResult{}

	existing, err := f.s.Certificates.GetByUserAndCourse(dbc, e.UserID, e.CourseID)
	if err != nil {
		return out, err
	}
	if existing != nil {
		out.Eligible = true
		out.Certificate = existing
		out.AlreadyIssued = true
		return out, nil
	}

	if e.Status != learning.EnrollmentCompleted {
		out.EnrollmentNotCompleted = true
	}

	quizzes, err := f.s.Quizzes.ListActiveCourseLevel(dbc, e.CourseID)
	if err != nil {
		return out, err
	}
	quizIDs := make([]uint, 0, len(quizzes))
	for _, q := range quizzes {
		quizIDs = append(quizIDs, q.ID)
	}
	passed, err := f.s.Attempts.PassedQuizIDs(dbc, e.UserID, quizIDs)
	if err != nil {
		return out, err
	}
	for _, id := range quizIDs {
		if !passed[id] {
			out.MissingQuizIDs = append(out.MissingQuizIDs, id)
		}
	}
	if out.EnrollmentNotCompleted || len(out.MissingQuizIDs) > 0 {
		return out, nil
	}

	number, err := f.newNumber(dbc, at)
	if err != nil {
		return out, err
	}
	meta, err := f.snapshot(dbc, e, quizIDs)
	if err != nil {
		return out, err
	}

	title := fmt.Sprintf("Course #%d", e.CourseID)
	if course, err := f.s.Courses.GetByID(dbc, e.CourseID); err != nil {
		return out, err
	} else if course != nil {
		title = course.Title
	}

	courseID, enrollmentID := e.CourseID, e.ID
	cert := &credential.Certificate{
		UserID:            e.UserID,
		CourseID:          &courseID,
		EnrollmentID:      &enrollmentID,
		CertificateNumber: number,
		Title:             title,
		Description:       fmt.Sprintf("Awarded for completing %s", title),
		IssuedAt:          at,
		IsActive:          true,
		Metadata:          meta,
	}
	if _, err := f.s.Certificates.Create(dbc, []*credential.Certificate{cert}); err != nil {
		if IsUniqueViolation(err) {
			return out, ConflictError("certificate issued concurrently")
		}
		return out, err
	}
	if err := f.s.Enrollments.UpdateFields(dbc, e.ID, map[string]interface{}{
		"certificate_issued_at": at,
		"updated_at":            at,
	}); err != nil {
		return out, err
	}
	e.CertificateIssuedAt = &at

	out.Eligible = true
	out.Certificate = cert
	return out, nil
}

func (f completionFlow) newNumber(dbc dbctx.Context, at time.Time) (string, error) {
	for i := 0; i < certificateNumberAttempts; i++ {
		number := credential.NewCertificateNumber(at)
		taken, err := f.s.Certificates.NumberExists(dbc, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", RetryableError("could not allocate a unique certificate number")
}

type certificateSnapshot struct {
	EnrollmentID uint           `json:"enrollment_id"`
	Progress     float64        `json:"progress"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	QuizScores   map[string]int `json:"quiz_scores,omitempty"`
}

func (f completionFlow) snapshot(dbc dbctx.Context, e *learning.Enrollment, quizIDs []uint) (datatypes.JSON, error) {
	best, err := f.s.Attempts.BestScores(dbc, e.UserID, quizIDs)
	if err != nil {
		return nil, err
	}
	snap := certificateSnapshot{
		EnrollmentID: e.ID,
		Progress:     e.Progress,
		CompletedAt:  e.CompletedAt,
	}
	if len(best) > 0 {
		ids := make([]uint, 0, len(best))
		for id := range best {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		snap.QuizScores = make(map[string]int, len(ids))
		for _, id := range ids {
			snap.QuizScores[strconv.FormatUint(uint64(id), 10)] = best[id]
		}
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
