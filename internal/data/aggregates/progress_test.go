package aggregates

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"golang.org/x/sync/errgroup"
)

func TestRecordLessonAccessAccumulatesTime(t *testing.T) {
	h := newHarness(t)
	course, lessons := testutil.SeedCourse(t, h.ctx, h.db, "Time", 2)
	user := uuid.New()
	e := h.enroll(t, user, course.ID)

	first, err := h.progress.RecordLessonAccess(h.ctx, domainagg.RecordLessonAccessInput{
		UserID: user, LessonID: lessons[0].ID, TimeSpentMinutes: 10,
	})
	if err != nil {
		t.Fatalf("RecordLessonAccess: %v", err)
	}
	if !first.Created || first.Progress.Status != types.ProgressInProgress || first.Progress.TimeSpentMinutes != 10 {
		t.Fatalf("unexpected first access: %+v", first.Progress)
	}
	if first.Progress.EnrollmentID == nil || *first.Progress.EnrollmentID != e.ID {
		t.Fatalf("progress should link the enrollment: %+v", first.Progress.EnrollmentID)
	}

	notes := "re-read the slices section"
	later := harnessNow.Add(time.Hour)
	second, err := h.progress.RecordLessonAccess(h.ctx, domainagg.RecordLessonAccessInput{
		UserID: user, LessonID: lessons[0].ID, TimeSpentMinutes: 5, Notes: &notes, AccessedAt: later,
	})
	if err != nil {
		t.Fatalf("RecordLessonAccess again: %v", err)
	}
	if second.Created || second.Progress.TimeSpentMinutes != 15 || second.Progress.Notes != notes {
		t.Fatalf("unexpected second access: %+v", second.Progress)
	}
	if second.Progress.ID != first.Progress.ID {
		t.Fatalf("(user, lesson) must map to one row")
	}
	if got := h.enrollment(t, e.ID); got.LastAccessedAt == nil || !got.LastAccessedAt.Equal(later) {
		t.Fatalf("enrollment last_accessed_at not updated: %v", got.LastAccessedAt)
	}
	if got := h.enrollment(t, e.ID); got.Progress != 0 {
		t.Fatalf("access alone must not change progress, got %v", got.Progress)
	}
}

func TestRecordLessonAccessValidation(t *testing.T) {
	h := newHarness(t)
	_, lessons := testutil.SeedCourse(t, h.ctx, h.db, "Validation", 1)
	user := uuid.New()

	_, err := h.progress.RecordLessonAccess(h.ctx, domainagg.RecordLessonAccessInput{UserID: user, LessonID: lessons[0].ID, TimeSpentMinutes: -1})
	requireCode(t, err, domainagg.CodeValidation)

	_, err = h.progress.RecordLessonAccess(h.ctx, domainagg.RecordLessonAccessInput{UserID: user, LessonID: 777})
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestRecordLessonAccessConcurrentTimeIsAdditive(t *testing.T) {
	h := newHarness(t)
	_, lessons := testutil.SeedCourse(t, h.ctx, h.db, "Concurrent", 1)
	user := uuid.New()

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := h.progress.RecordLessonAccess(h.ctx, domainagg.RecordLessonAccessInput{
				UserID: user, LessonID: lessons[0].ID, TimeSpentMinutes: 3,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent access: %v", err)
	}
	row, err := h.stores.Progress.GetByUserAndLesson(h.dbc(), user, lessons[0].ID)
	if err != nil || row == nil {
		t.Fatalf("load progress: row=%v err=%v", row, err)
	}
	if row.TimeSpentMinutes != 30 {
		t.Fatalf("time spent: want=30 got=%d", row.TimeSpentMinutes)
	}
}

func TestMarkLessonCompletedRecomputesProgress(t *testing.T) {
	h := newHarness(t)
	course, lessons := testutil.SeedCourse(t, h.ctx, h.db, "Thirds", 3)
	user := uuid.New()
	e := h.enroll(t, user, course.ID)

	res := h.completeLesson(t, user, lessons[0].ID)
	if res.Enrollment == nil || res.Enrollment.Progress != 33.33 || res.CourseCompleted {
		t.Fatalf("unexpected result after one lesson: %+v", res.Enrollment)
	}
	firstCompletedAt := *res.Progress.CompletedAt

	again, err := h.progress.MarkLessonCompleted(h.ctx, domainagg.MarkLessonCompletedInput{
		UserID: user, LessonID: lessons[0].ID, CompletedAt: harnessNow.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("MarkLessonCompleted again: %v", err)
	}
	if !again.Progress.CompletedAt.Equal(firstCompletedAt) || again.Enrollment.Progress != 33.33 {
		t.Fatalf("re-completing must be idempotent: completed_at=%s progress=%v", again.Progress.CompletedAt, again.Enrollment.Progress)
	}

	h.completeLesson(t, user, lessons[1].ID)
	if got := h.enrollment(t, e.ID); got.Progress != 66.67 {
		t.Fatalf("progress after two lessons: want=66.67 got=%v", got.Progress)
	}

	last := h.completeLesson(t, user, lessons[2].ID)
	if !last.CourseCompleted || last.Enrollment.Status != types.EnrollmentCompleted || last.Enrollment.Progress != 100 {
		t.Fatalf("course should complete: %+v", last.Enrollment)
	}
	if !last.Certificate.Eligible || last.Certificate.Certificate == nil {
		t.Fatalf("certificate should be issued: %+v", last.Certificate)
	}
	if got := h.enrollment(t, e.ID); got.CompletedAt == nil || got.CertificateIssuedAt == nil {
		t.Fatalf("completion timestamps missing: %+v", got)
	}
	if !h.stats.has(course.ID) {
		t.Fatalf("course stats should be invalidated on completion")
	}
}

func TestMarkLessonCompletedWithoutEnrollment(t *testing.T) {
	h := newHarness(t)
	_, lessons := testutil.SeedCourse(t, h.ctx, h.db, "Preview", 1)

	res := h.completeLesson(t, uuid.New(), lessons[0].ID)
	if res.Enrollment != nil || res.Progress.Status != types.ProgressCompleted || res.Progress.EnrollmentID != nil {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestEnrollCountsLessonsCompletedBeforeEnrolling(t *testing.T) {
	h := newHarness(t)
	course, lessons := testutil.SeedCourse(t, h.ctx, h.db, "Early", 2)
	user := uuid.New()
	h.completeLesson(t, user, lessons[0].ID)

	e := h.enroll(t, user, course.ID)
	if e.Progress != 50 {
		t.Fatalf("progress should include earlier lessons: got %v", e.Progress)
	}
	row, _ := h.stores.Progress.GetByUserAndLesson(h.dbc(), user, lessons[0].ID)
	if row.EnrollmentID == nil || *row.EnrollmentID != e.ID {
		t.Fatalf("earlier progress should be linked to the enrollment")
	}
}

func TestToggleBookmark(t *testing.T) {
	h := newHarness(t)
	_, lessons := testutil.SeedCourse(t, h.ctx, h.db, "Bookmarks", 1)
	user := uuid.New()

	_, err := h.progress.ToggleBookmark(h.ctx, domainagg.ToggleBookmarkInput{UserID: user, LessonID: lessons[0].ID, Value: true})
	requireCode(t, err, domainagg.CodeNotFound)

	if _, err := h.progress.RecordLessonAccess(h.ctx, domainagg.RecordLessonAccessInput{UserID: user, LessonID: lessons[0].ID}); err != nil {
		t.Fatalf("RecordLessonAccess: %v", err)
	}
	row, err := h.progress.ToggleBookmark(h.ctx, domainagg.ToggleBookmarkInput{UserID: user, LessonID: lessons[0].ID, Value: true})
	if err != nil || !row.IsBookmarked {
		t.Fatalf("ToggleBookmark: row=%+v err=%v", row, err)
	}
	stored, _ := h.stores.Progress.GetByUserAndLesson(h.dbc(), user, lessons[0].ID)
	if !stored.IsBookmarked {
		t.Fatalf("bookmark not persisted")
	}
}

func TestRecomputeCourse(t *testing.T) {
	h := newHarness(t)
	course, lessons := testutil.SeedCourse(t, h.ctx, h.db, "Recompute", 2)
	done, partial := uuid.New(), uuid.New()
	eDone := testutil.SeedEnrollment(t, h.ctx, h.db, done, course.ID, types.EnrollmentActive)
	ePartial := testutil.SeedEnrollment(t, h.ctx, h.db, partial, course.ID, types.EnrollmentActive)
	for _, l := range lessons {
		testutil.SeedCompletedProgress(t, h.ctx, h.db, done, l.ID)
	}
	testutil.SeedCompletedProgress(t, h.ctx, h.db, partial, lessons[0].ID)

	res, err := h.progress.RecomputeCourse(h.ctx, course.ID)
	if err != nil {
		t.Fatalf("RecomputeCourse: %v", err)
	}
	if res.Enrollments != 2 || res.Completed != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got := h.enrollment(t, eDone.ID); got.Status != types.EnrollmentCompleted || got.Progress != 100 {
		t.Fatalf("full progress should complete: %+v", got)
	}
	if got := h.enrollment(t, ePartial.ID); got.Status != types.EnrollmentActive || got.Progress != 50 {
		t.Fatalf("partial progress: %+v", got)
	}

	empty, _ := testutil.SeedCourse(t, h.ctx, h.db, "Empty", 0)
	eEmpty := testutil.SeedEnrollment(t, h.ctx, h.db, uuid.New(), empty.ID, types.EnrollmentActive)
	if _, err := h.progress.RecomputeCourse(h.ctx, empty.ID); err != nil {
		t.Fatalf("RecomputeCourse empty: %v", err)
	}
	if got := h.enrollment(t, eEmpty.ID); got.Progress != 0 || got.Status != types.EnrollmentActive {
		t.Fatalf("a course without lessons has no progress: %+v", got)
	}

	_, err = h.progress.RecomputeCourse(h.ctx, 31337)
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestLessonActivityRecordsAnalytics(t *testing.T) {
	h := newHarness(t)
	course, lessons := testutil.SeedCourse(t, h.ctx, h.db, "Events", 2)
	user := uuid.New()
	h.enroll(t, user, course.ID)

	client := types.ClientInfo{DeviceInfo: "tablet", IPAddress: "198.51.100.7", UserAgent: "reader/2.1"}
	if _, err := h.progress.RecordLessonAccess(h.ctx, domainagg.RecordLessonAccessInput{
		UserID: user, LessonID: lessons[0].ID, TimeSpentMinutes: 12, Client: client,
	}); err != nil {
		t.Fatalf("RecordLessonAccess: %v", err)
	}
	if _, err := h.progress.MarkLessonCompleted(h.ctx, domainagg.MarkLessonCompletedInput{
		UserID: user, LessonID: lessons[0].ID, Client: client,
	}); err != nil {
		t.Fatalf("MarkLessonCompleted: %v", err)
	}

	var events []types.LearningAnalytics
	if err := h.db.Where("user_id = ?", user).Order("id ASC").Find(&events).Error; err != nil {
		t.Fatalf("load events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want view and complete events, got %+v", events)
	}
	view, done := events[0], events[1]
	if view.ActionType != types.ActionView || view.DurationMinutes != 12 || view.UserAgent != "reader/2.1" {
		t.Fatalf("unexpected view event: %+v", view)
	}
	if done.ActionType != types.ActionComplete || done.IPAddress != "198.51.100.7" {
		t.Fatalf("unexpected complete event: %+v", done)
	}
	for _, ev := range events {
		if ev.CourseID == nil || *ev.CourseID != course.ID || ev.LessonID == nil || *ev.LessonID != lessons[0].ID {
			t.Fatalf("event should reference course and lesson: %+v", ev)
		}
		if ev.ContentType != types.ContentLesson || !ev.Timestamp.Equal(harnessNow) {
			t.Fatalf("unexpected event content: %+v", ev)
		}
	}

	_, err := h.progress.MarkLessonCompleted(h.ctx, domainagg.MarkLessonCompletedInput{UserID: user, LessonID: 9999})
	requireCode(t, err, domainagg.CodeNotFound)
	if n := testutil.Count(t, h.ctx, h.db, &types.LearningAnalytics{}, "user_id = ?", user); n != 2 {
		t.Fatalf("a failed write must not record an event, got %d", n)
	}
}
