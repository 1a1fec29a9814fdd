package aggregates

import (
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/courseware-backend/internal/data/repos/testutil"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
)

func TestDeleteCourseCascades(t *testing.T) {
	h := newHarness(t)
	course, lessons := testutil.SeedCourse(t, h.ctx, h.db, "Doomed", 2)
	user := uuid.New()
	h.enroll(t, user, course.ID)
	h.completeLesson(t, user, lessons[0].ID)

	if err := h.db.Create(&types.LessonResource{LessonID: lessons[0].ID, Title: "slides", URL: "https://example.com/s.pdf"}).Error; err != nil {
		t.Fatalf("seed resource: %v", err)
	}
	if err := h.db.Create(&types.CourseReview{UserID: user, CourseID: course.ID, Rating: 5, IsApproved: true, IsVisible: true}).Error; err != nil {
		t.Fatalf("seed review: %v", err)
	}
	quiz := testutil.SeedQuiz(t, h.ctx, h.db, course.ID, nil, nil)
	q := testutil.SeedQuestion(t, h.ctx, h.db, quiz.ID, types.QuestionMultipleChoice, 1, mcOptions()...)
	attempt := h.start(t, user, quiz.ID).Attempt
	if _, err := h.quizzes.SubmitAnswers(h.ctx, domainagg.SubmitAnswersInput{
		AttemptID: attempt.ID,
		Answers:   []domainagg.AnswerInput{choose(q, testutil.CorrectOption(q))},
	}); err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}
	h.completeLesson(t, user, lessons[1].ID)
	cert, _ := h.stores.Certificates.GetByUserAndCourse(h.dbc(), user, course.ID)
	if cert == nil {
		t.Fatalf("expected a certificate before delete")
	}

	res, err := h.integrity.Delete(h.ctx, domainagg.DeleteEntityInput{Entity: "course", ID: course.ID})
	if err != nil {
		t.Fatalf("Delete course: %v", err)
	}
	for table, want := range map[string]int64{
		"course": 1, "lesson": 2, "lesson_resource": 1, "enrollment": 1, "learning_progress": 2,
		"course_review": 1, "quiz": 1, "quiz_question": 1, "quiz_option": 2, "quiz_attempt": 1, "quiz_answer": 1,
	} {
		if res.Deleted[table] != want {
			t.Fatalf("deleted %s: want=%d got=%d (all=%v)", table, want, res.Deleted[table], res.Deleted)
		}
	}
	if res.Nullified["certificate.course_id"] != 1 {
		t.Fatalf("certificate course reference should be cleared: %v", res.Nullified)
	}
	if len(res.RecomputedCourses) != 0 {
		t.Fatalf("a deleted course is not recomputed: %v", res.RecomputedCourses)
	}

	kept, err := h.stores.Certificates.GetByID(h.dbc(), cert.ID)
	if err != nil || kept == nil || kept.CourseID != nil {
		t.Fatalf("certificate should survive without course: %+v %v", kept, err)
	}
	leftovers := map[string]int64{
		"lesson":      testutil.Count(t, h.ctx, h.db, &types.Lesson{}, "course_id = ?", course.ID),
		"enrollment":  testutil.Count(t, h.ctx, h.db, &types.Enrollment{}, "course_id = ?", course.ID),
		"quiz_answer": testutil.Count(t, h.ctx, h.db, &types.QuizAnswer{}, "quiz_attempt_id = ?", attempt.ID),
		"quiz_option": testutil.Count(t, h.ctx, h.db, &types.QuizOption{}, "quiz_question_id = ?", q.ID),
	}
	for table, n := range leftovers {
		if n != 0 {
			t.Fatalf("%s rows left: %d", table, n)
		}
	}
	if !h.stats.has(course.ID) {
		t.Fatalf("course stats should be invalidated")
	}
}

func TestDeleteQuestionWithAnswersIsRestricted(t *testing.T) {
	h := newHarness(t)
	course, _ := testutil.SeedCourse(t, h.ctx, h.db, "Restrict", 1)
	quiz := testutil.SeedQuiz(t, h.ctx, h.db, course.ID, nil, nil)
	q := testutil.SeedQuestion(t, h.ctx, h.db, quiz.ID, types.QuestionMultipleChoice, 1, mcOptions()...)
	unanswered := testutil.SeedQuestion(t, h.ctx, h.db, quiz.ID, types.QuestionMultipleChoice, 1, mcOptions()...)
	attempt := h.start(t, uuid.New(), quiz.ID).Attempt
	if _, err := h.quizzes.SubmitAnswers(h.ctx, domainagg.SubmitAnswersInput{
		AttemptID: attempt.ID,
		Answers:   []domainagg.AnswerInput{choose(q, testutil.WrongOption(q))},
	}); err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}

	_, err := h.integrity.Delete(h.ctx, domainagg.DeleteEntityInput{Entity: "quiz_question", ID: q.ID})
	requireCode(t, err, domainagg.CodeRestrictedDeletion)
	if n := testutil.Count(t, h.ctx, h.db, &types.QuizOption{}, "quiz_question_id = ?", q.ID); n != 2 {
		t.Fatalf("restricted delete must not touch options, got %d", n)
	}

	res, err := h.integrity.Delete(h.ctx, domainagg.DeleteEntityInput{Entity: "quiz_question", ID: unanswered.ID})
	if err != nil {
		t.Fatalf("Delete unanswered question: %v", err)
	}
	if res.Deleted["quiz_question"] != 1 || res.Deleted["quiz_option"] != 2 {
		t.Fatalf("unexpected delete counts: %v", res.Deleted)
	}
}

func TestDeleteLessonNullifiesQuizAndRecomputesProgress(t *testing.T) {
	h := newHarness(t)
	course, lessons := testutil.SeedCourse(t, h.ctx, h.db, "Shrink", 2)
	lessonQuiz := testutil.SeedQuiz(t, h.ctx, h.db, course.ID, &lessons[1].ID, func(q *types.Quiz) { q.IsActive = false })
	user := uuid.New()
	e := h.enroll(t, user, course.ID)
	h.completeLesson(t, user, lessons[0].ID)
	if got := h.enrollment(t, e.ID); got.Progress != 50 {
		t.Fatalf("progress before delete: %v", got.Progress)
	}

	res, err := h.integrity.Delete(h.ctx, domainagg.DeleteEntityInput{Entity: "lesson", ID: lessons[1].ID})
	if err != nil {
		t.Fatalf("Delete lesson: %v", err)
	}
	if res.Nullified["quiz.lesson_id"] != 1 {
		t.Fatalf("lesson quiz should be detached: %v", res.Nullified)
	}
	if len(res.RecomputedCourses) != 1 || res.RecomputedCourses[0] != course.ID {
		t.Fatalf("course should be recomputed: %v", res.RecomputedCourses)
	}
	got := h.enrollment(t, e.ID)
	if got.Progress != 100 || got.Status != types.EnrollmentCompleted || got.CertificateIssuedAt == nil {
		t.Fatalf("remaining lesson is complete so the course is: %+v", got)
	}
	quiz, _ := h.stores.Quizzes.GetByID(h.dbc(), lessonQuiz.ID)
	if quiz == nil || quiz.LessonID != nil {
		t.Fatalf("quiz should survive as course-level: %+v", quiz)
	}
}

func TestDeleteProgressRowRecomputesEnrollment(t *testing.T) {
	h := newHarness(t)
	course, lessons := testutil.SeedCourse(t, h.ctx, h.db, "Regress", 2)
	user := uuid.New()
	e := h.enroll(t, user, course.ID)
	done := h.completeLesson(t, user, lessons[0].ID)
	if got := h.enrollment(t, e.ID); got.Progress != 50 {
		t.Fatalf("progress before delete: %v", got.Progress)
	}

	res, err := h.integrity.Delete(h.ctx, domainagg.DeleteEntityInput{Entity: "learning_progress", ID: done.Progress.ID})
	if err != nil {
		t.Fatalf("Delete progress: %v", err)
	}
	if res.Deleted["learning_progress"] != 1 {
		t.Fatalf("deleted: %v", res.Deleted)
	}
	if len(res.RecomputedCourses) != 1 || res.RecomputedCourses[0] != course.ID {
		t.Fatalf("course should be recomputed through the lesson: %v", res.RecomputedCourses)
	}
	if got := h.enrollment(t, e.ID); got.Progress != 0 {
		t.Fatalf("progress should drop with its only completed lesson, got %v", got.Progress)
	}
	if !h.stats.has(course.ID) {
		t.Fatalf("course stats should be invalidated")
	}
}

func TestDeleteKeepsAnalyticsWithoutReferences(t *testing.T) {
	h := newHarness(t)
	course, lessons := testutil.SeedCourse(t, h.ctx, h.db, "History", 2)
	user := uuid.New()
	h.enroll(t, user, course.ID)
	h.completeLesson(t, user, lessons[0].ID)
	h.completeLesson(t, user, lessons[1].ID)

	res, err := h.integrity.Delete(h.ctx, domainagg.DeleteEntityInput{Entity: "lesson", ID: lessons[0].ID})
	if err != nil {
		t.Fatalf("Delete lesson: %v", err)
	}
	if res.Nullified["learning_analytics.lesson_id"] != 1 {
		t.Fatalf("lesson event should lose its lesson: %v", res.Nullified)
	}
	if n := testutil.Count(t, h.ctx, h.db, &types.LearningAnalytics{}, "user_id = ? AND lesson_id IS NULL AND course_id = ?", user, course.ID); n != 1 {
		t.Fatalf("detached lesson event should keep its course, got %d", n)
	}

	res, err = h.integrity.Delete(h.ctx, domainagg.DeleteEntityInput{Entity: "course", ID: course.ID})
	if err != nil {
		t.Fatalf("Delete course: %v", err)
	}
	if res.Nullified["learning_analytics.lesson_id"] != 1 || res.Nullified["learning_analytics.course_id"] != 2 {
		t.Fatalf("course delete should detach remaining events: %v", res.Nullified)
	}
	if n := testutil.Count(t, h.ctx, h.db, &types.LearningAnalytics{}, "user_id = ?", user); n != 2 {
		t.Fatalf("events should survive deletes, got %d", n)
	}
	if n := testutil.Count(t, h.ctx, h.db, &types.LearningAnalytics{}, "user_id = ? AND (course_id IS NOT NULL OR lesson_id IS NOT NULL)", user); n != 0 {
		t.Fatalf("events should reference nothing, got %d", n)
	}
}

func TestDeleteCategoryRestrictedByCourses(t *testing.T) {
	h := newHarness(t)
	used := testutil.SeedCategory(t, h.ctx, h.db, "Programming")
	empty := testutil.SeedCategory(t, h.ctx, h.db, "Cooking")
	course, _ := testutil.SeedCourse(t, h.ctx, h.db, "Go", 0)
	if err := h.db.Model(course).Update("category_id", used.ID).Error; err != nil {
		t.Fatalf("assign category: %v", err)
	}

	_, err := h.integrity.Delete(h.ctx, domainagg.DeleteEntityInput{Entity: "category", ID: used.ID})
	requireCode(t, err, domainagg.CodeRestrictedDeletion)

	if _, err := h.integrity.Delete(h.ctx, domainagg.DeleteEntityInput{Entity: "category", ID: empty.ID}); err != nil {
		t.Fatalf("Delete empty category: %v", err)
	}
}

func TestDeleteValidationAndExistence(t *testing.T) {
	h := newHarness(t)
	_, err := h.integrity.Delete(h.ctx, domainagg.DeleteEntityInput{Entity: "users; drop table course", ID: 1})
	requireCode(t, err, domainagg.CodeValidation)

	_, err = h.integrity.Delete(h.ctx, domainagg.DeleteEntityInput{Entity: "course", ID: 404})
	requireCode(t, err, domainagg.CodeNotFound)

	course, _ := testutil.SeedCourse(t, h.ctx, h.db, "Exists", 0)
	if err := h.integrity.RequireExists(h.ctx, "course", course.ID); err != nil {
		t.Fatalf("RequireExists: %v", err)
	}
	requireCode(t, h.integrity.RequireExists(h.ctx, "course", course.ID+100), domainagg.CodeNotFound)
	requireCode(t, h.integrity.RequireExists(h.ctx, "nope", 1), domainagg.CodeValidation)
}
